package binding

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// maxBodyBytes caps JSON request bodies at 1 MB.
const maxBodyBytes = 1 << 20

// Binder builds a model of type T from r, recording binding and validation
// failures in state.
type Binder[T any] func(r *http.Request, state *ModelState) T

// Query returns a Binder that fills T from the URL query string using
// `query:"name"` struct tags. Supported field kinds are string, bool, the
// signed and unsigned integers, floats, and slices of string. Values are
// trimmed, and blank values are treated as absent.
func Query[T any](v *Validator) Binder[T] {
	return func(r *http.Request, state *ModelState) T {
		var model T
		decodeQuery(r.URL.Query(), &model, state)
		v.Validate(&model, state)
		return model
	}
}

// JSON returns a Binder that decodes T from the request body. An empty or
// malformed body is recorded under the "body" field. Decoded strings are
// trimmed before validation, and blank *string fields become nil.
func JSON[T any](v *Validator) Binder[T] {
	return func(r *http.Request, state *ModelState) T {
		var model T

		if r.Body == nil || r.Body == http.NoBody {
			state.AddError("body", "A non-empty request body is required.")
			return model
		}

		dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
		if err := dec.Decode(&model); err != nil {
			if errors.Is(err, io.EOF) {
				state.AddError("body", "A non-empty request body is required.")
			} else {
				state.AddError("body", "The request body is not valid JSON.")
			}
			return model
		}

		normalizeStrings(reflect.ValueOf(&model))
		v.Validate(&model, state)
		return model
	}
}

func decodeQuery(values url.Values, dst any, state *ModelState) {
	rv := reflect.ValueOf(dst).Elem()
	if rv.Kind() != reflect.Struct {
		state.Invalidate()
		return
	}

	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(sf.Tag.Get("query"), ",")
		if name == "" || name == "-" {
			continue
		}
		raw := trimValues(values[name])
		if len(raw) == 0 {
			continue
		}
		if err := setField(rv.Field(i), raw); err != nil {
			state.AddError(name, fmt.Sprintf("The value '%s' is not valid for %s.", raw[0], name))
		}
	}
}

func setField(fv reflect.Value, raw []string) error {
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw[0])
	case reflect.Bool:
		b, err := strconv.ParseBool(raw[0])
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw[0], 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw[0], 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw[0], fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetFloat(f)
	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice element %s", fv.Type().Elem())
		}
		s := reflect.MakeSlice(fv.Type(), len(raw), len(raw))
		for i, v := range raw {
			s.Index(i).SetString(v)
		}
		fv.Set(s)
	default:
		return fmt.Errorf("unsupported field kind %s", fv.Kind())
	}
	return nil
}
