package binding

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/jsamuelsen11/core-api/internal/domain"
)

// selfValidator is implemented by models with rules that struct tags cannot
// express.
type selfValidator interface {
	Validate() error
}

// Validator runs struct-tag validation and renders failures as English
// messages keyed by the field's query or JSON name.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// NewValidator creates a Validator with the default English translations
// registered.
func NewValidator() (*Validator, error) {
	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)

	if err := entranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, fmt.Errorf("registering validation translations: %w", err)
	}

	return &Validator{validate: v, trans: trans}, nil
}

// Validate checks model and records each failure in state, skipping fields
// that already failed to bind. model must be a struct or a pointer to one.
func (v *Validator) Validate(model any, state *ModelState) {
	if err := v.validate.Struct(model); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			state.AddError("", "The request could not be validated.")
			return
		}
		for _, fe := range fieldErrs {
			if state.HasError(fe.Field()) {
				continue
			}
			state.AddError(fe.Field(), fe.Translate(v.trans))
		}
	}

	sv, ok := model.(selfValidator)
	if !ok {
		return
	}
	err := sv.Validate()
	if err == nil {
		return
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		for _, f := range verr.Fields {
			for _, msg := range f.Messages {
				state.AddError(f.Field, msg)
			}
		}
		return
	}
	state.AddError("", err.Error())
}

// fieldName reports a struct field by its query tag, then its JSON tag,
// falling back to the Go field name.
func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"query", "json"} {
		name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return ""
}
