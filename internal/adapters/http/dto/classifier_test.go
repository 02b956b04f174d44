package dto_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/core-api/internal/adapters/clients/acl"
	"github.com/jsamuelsen11/core-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/core-api/internal/domain"
	"github.com/jsamuelsen11/core-api/internal/platform/logging"
)

type logRecord struct {
	Level  string `json:"level"`
	Msg    string `json:"msg"`
	Kind   string `json:"kind"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func newTestClassifier(t *testing.T, isDevelopment bool) (*dto.Classifier, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return dto.NewClassifier(isDevelopment, logger), &buf
}

func decodeRecords(t *testing.T, buf *bytes.Buffer) []logRecord {
	t.Helper()

	var records []logRecord
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec logRecord
		require.NoError(t, json.Unmarshal([]byte(line), &rec), "log line %q", line)
		records = append(records, rec)
	}
	return records
}

func TestClassify_DomainVerbatim(t *testing.T) {
	t.Parallel()

	for _, isDev := range []bool{false, true} {
		t.Run(fmt.Sprintf("development=%t", isDev), func(t *testing.T) {
			t.Parallel()

			c, _ := newTestClassifier(t, isDev)
			err := domain.NewStatusError(http.StatusConflict, "Account already exists", errors.New("unique violation"))

			ce, env := c.Classify(context.Background(), fmt.Errorf("creating account: %w", err))

			assert.Equal(t, dto.KindDomain, ce.Kind)
			assert.Equal(t, http.StatusConflict, ce.HTTPStatus)
			assert.Equal(t, "409", env.Code())
			assert.Equal(t, "Account already exists", env.Message())
			_, hasData := env.Data()
			assert.False(t, hasData)
		})
	}
}

func TestClassify_UnexpectedNonLeak(t *testing.T) {
	t.Parallel()

	c, _ := newTestClassifier(t, false)
	err := errors.New("pq: password authentication failed for user \"svc\"")

	ce, env := c.Classify(context.Background(), err)

	assert.Equal(t, dto.KindUnexpected, ce.Kind)
	assert.Equal(t, "500", env.Code())
	assert.Equal(t, dto.GenericErrorMessage, env.Message())
	assert.NotContains(t, env.Message(), "password")
	assert.Contains(t, ce.InternalDetail, "password authentication failed")
}

func TestClassify_UnexpectedDevelopmentDetail(t *testing.T) {
	t.Parallel()

	c, _ := newTestClassifier(t, true)

	t.Run("unwrap chain", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("loading settings: %w", errors.New("file missing"))
		_, env := c.Classify(context.Background(), err)

		prefix := err.Error() + " | "
		require.True(t, strings.HasPrefix(env.Message(), prefix), "message %q", env.Message())
		assert.NotEmpty(t, strings.TrimPrefix(env.Message(), prefix))
		assert.Contains(t, env.Message(), "file missing")
	})

	t.Run("pkg/errors stack", func(t *testing.T) {
		t.Parallel()

		err := pkgerrors.New("boom")
		_, env := c.Classify(context.Background(), err)

		assert.True(t, strings.HasPrefix(env.Message(), "boom | "), "message %q", env.Message())
		assert.Contains(t, env.Message(), "classifier_test.go")
	})
}

func TestClassify_ValidationJoinOrder(t *testing.T) {
	t.Parallel()

	c, _ := newTestClassifier(t, false)
	verr := &domain.ValidationError{}
	verr.Add("name", "name is required")
	verr.Add("age", "age must be positive")
	verr.Add("age", "age must be an integer")

	ce, env := c.Classify(context.Background(), fmt.Errorf("binding: %w", verr))

	assert.Equal(t, dto.KindValidation, ce.Kind)
	assert.Equal(t, "400", env.Code())
	assert.Equal(t, "name is required | age must be positive | age must be an integer", env.Message())
}

func TestClassify_VersionNegotiation(t *testing.T) {
	t.Parallel()

	c, _ := newTestClassifier(t, false)
	err := &fakeVersionContext{status: 400, code: "UnsupportedApiVersion", msg: "Version 3.0 is not supported"}

	ce, env := c.Classify(context.Background(), err)

	assert.Equal(t, dto.KindVersionNegotiation, ce.Kind)
	assert.Equal(t, "400", env.Code())
	assert.Equal(t, "UnsupportedApiVersion - Version 3.0 is not supported", env.Message())
}

func TestClassify_DomainWithInvalidStatusIsUnexpected(t *testing.T) {
	t.Parallel()

	c, _ := newTestClassifier(t, false)

	ce, env := c.Classify(context.Background(), domain.NewStatusError(http.StatusOK, "fine"))

	assert.Equal(t, dto.KindUnexpected, ce.Kind)
	assert.Equal(t, "500", env.Code())
}

func TestClassify_NilError(t *testing.T) {
	t.Parallel()

	c, _ := newTestClassifier(t, false)

	ce, env := c.Classify(context.Background(), nil)

	assert.Equal(t, dto.KindUnexpected, ce.Kind)
	assert.Equal(t, "500", env.Code())
	assert.Equal(t, dto.GenericErrorMessage, env.Message())
}

func TestClassify_Idempotent(t *testing.T) {
	t.Parallel()

	for _, isDev := range []bool{false, true} {
		c, _ := newTestClassifier(t, isDev)
		err := fmt.Errorf("outer: %w", errors.New("inner"))

		ce1, env1 := c.Classify(context.Background(), err)
		ce2, env2 := c.Classify(context.Background(), err)

		assert.Equal(t, ce1, ce2)
		assert.Equal(t, env1, env2)
	}
}

func TestClassify_LogsOncePerFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		wantLevel string
		wantKind  string
	}{
		{name: "unexpected", err: errors.New("boom"), wantLevel: "ERROR", wantKind: "unexpected"},
		{name: "domain", err: domain.NotFound("Account not found"), wantLevel: "WARN", wantKind: "domain"},
		{name: "validation", err: domain.NewValidationError("scope", "scope is too long"), wantLevel: "INFO", wantKind: "validation"},
		{
			name:      "version",
			err:       &fakeVersionContext{status: 400, code: "InvalidApiVersion", msg: "bad"},
			wantLevel: "WARN",
			wantKind:  "version_negotiation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, buf := newTestClassifier(t, false)
			ce, _ := c.Classify(context.Background(), tt.err)

			records := decodeRecords(t, buf)
			require.Len(t, records, 1)
			assert.Equal(t, tt.wantLevel, records[0].Level)
			assert.Equal(t, tt.wantKind, records[0].Kind)
			assert.Equal(t, ce.HTTPStatus, records[0].Status)
			if tt.wantKind == "unexpected" {
				assert.NotEmpty(t, records[0].Detail)
			} else {
				assert.Empty(t, records[0].Detail)
			}
		})
	}
}

func TestClassify_PrefersRequestLogger(t *testing.T) {
	t.Parallel()

	c, fallback := newTestClassifier(t, false)

	var reqBuf bytes.Buffer
	reqLogger := slog.New(slog.NewJSONHandler(&reqBuf, nil))
	ctx := logging.WithLogger(context.Background(), reqLogger)

	c.Classify(ctx, domain.NotFound("Account not found"))

	assert.Zero(t, fallback.Len())
	assert.Len(t, decodeRecords(t, &reqBuf), 1)
}

// Scenario: a handler reports that an account does not exist.
func TestWriteError_AccountNotFound(t *testing.T) {
	t.Parallel()

	c, _ := newTestClassifier(t, false)
	r := httptest.NewRequest(http.MethodGet, "/v1/accounts/42", nil)
	w := httptest.NewRecorder()

	c.WriteError(w, r, domain.NotFound("Account not found"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":{"code":"404","message":"Account not found"}}`, w.Body.String())
}

func TestWriteError_StatusParity(t *testing.T) {
	t.Parallel()

	errs := []error{
		errors.New("boom"),
		domain.Unavailable("Unable to retrieve value!", nil),
		domain.NewValidationError("scope", "bad"),
		&fakeVersionContext{status: 400, code: "AmbiguousApiVersion", msg: "two"},
	}

	c, _ := newTestClassifier(t, true)
	for _, err := range errs {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		c.WriteError(w, r, err)

		var env dto.Envelope[any]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		status, perr := env.HTTPStatus()
		require.NoError(t, perr)
		assert.Equal(t, w.Code, status, "error %v", err)
		assert.NotContains(t, w.Body.String(), `"data"`)
	}
}

func TestDetail(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("outer: %w", errors.New("inner"))
	detail := dto.Detail(err)

	assert.Equal(t, detail, dto.Detail(err))
	assert.True(t, strings.HasPrefix(detail, "outer: inner | "))
	assert.Contains(t, detail, "*fmt.wrapError: outer: inner")
	assert.Contains(t, detail, "*errors.errorString: inner")
}

func downstreamFieldErrors() error {
	return acl.TranslateHTTPError(&http.Response{
		StatusCode: http.StatusUnprocessableEntity,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body: io.NopCloser(strings.NewReader(
			`{"errors":[{"location":"body.secret_key","message":"internal key k-1234 rejected"}]}`)),
	})
}

func TestClassify_OutermostClassificationWins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantKind    dto.Kind
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "domain error wrapping downstream field errors",
			err:         domain.Unavailable(acl.RetrieveFailedMessage, downstreamFieldErrors()),
			wantKind:    dto.KindDomain,
			wantStatus:  http.StatusBadGateway,
			wantMessage: acl.RetrieveFailedMessage,
		},
		{
			name:        "wrapped domain error wrapping validation",
			err:         fmt.Errorf("handler: %w", domain.NewStatusError(http.StatusConflict, "Already linked", domain.NewValidationError("id", "id is taken"))),
			wantKind:    dto.KindDomain,
			wantStatus:  http.StatusConflict,
			wantMessage: "Already linked",
		},
		{
			name:        "domain error wrapping version failure",
			err:         domain.NewStatusError(http.StatusBadGateway, "Upstream refused", &fakeVersionContext{status: 400, code: "InvalidApiVersion", msg: "bad"}),
			wantKind:    dto.KindDomain,
			wantStatus:  http.StatusBadGateway,
			wantMessage: "Upstream refused",
		},
		{
			name:        "joined errors use the first classified branch",
			err:         errors.Join(errors.New("plain"), domain.NotFound("Account not found"), domain.NewValidationError("a", "a is bad")),
			wantKind:    dto.KindDomain,
			wantStatus:  http.StatusNotFound,
			wantMessage: "Account not found",
		},
		{
			name:        "invalid domain status hides wrapped validation",
			err:         domain.NewStatusError(http.StatusOK, "fine", domain.NewValidationError("a", "a is bad")),
			wantKind:    dto.KindUnexpected,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: dto.GenericErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := newTestClassifier(t, false)
			ce, env := c.Classify(context.Background(), tt.err)

			assert.Equal(t, tt.wantKind, ce.Kind)
			assert.Equal(t, tt.wantStatus, ce.HTTPStatus)
			assert.Equal(t, tt.wantMessage, env.Message())
			assert.NotContains(t, env.Message(), "k-1234")
		})
	}
}

func TestClassify_TypedNilError(t *testing.T) {
	t.Parallel()

	var typedNil *domain.StatusError

	tests := []struct {
		name string
		err  error
	}{
		{name: "typed nil", err: typedNil},
		{name: "wrapped typed nil", err: fmt.Errorf("loading: %w", typedNil)},
	}

	for _, tt := range tests {
		for _, isDev := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s/development=%t", tt.name, isDev), func(t *testing.T) {
				t.Parallel()

				c, buf := newTestClassifier(t, isDev)

				var ce dto.ClassifiedError
				var env dto.Envelope[any]
				require.NotPanics(t, func() {
					ce, env = c.Classify(context.Background(), tt.err)
				})

				assert.Equal(t, dto.KindUnexpected, ce.Kind)
				assert.Equal(t, "500", env.Code())
				assert.NotEmpty(t, env.Message())
				assert.Len(t, decodeRecords(t, buf), 1)
			})
		}
	}
}

// brokenHandler is a log sink that fails on every record.
type brokenHandler struct {
	panics bool
}

func (h brokenHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h brokenHandler) Handle(context.Context, slog.Record) error {
	if h.panics {
		panic("log sink unavailable")
	}
	return errors.New("log sink unavailable")
}

func (h brokenHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h brokenHandler) WithGroup(string) slog.Handler { return h }

func TestClassify_FailingLogSink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler slog.Handler
	}{
		{name: "handler panics", handler: brokenHandler{panics: true}},
		{name: "handler returns error", handler: brokenHandler{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := dto.NewClassifier(false, slog.New(tt.handler))

			var env dto.Envelope[any]
			require.NotPanics(t, func() {
				_, env = c.Classify(context.Background(), domain.NotFound("Account not found"))
			})
			assert.Equal(t, "404", env.Code())
			assert.Equal(t, "Account not found", env.Message())

			r := httptest.NewRequest(http.MethodGet, "/v1/accounts/42", nil)
			w := httptest.NewRecorder()
			require.NotPanics(t, func() {
				c.WriteError(w, r, errors.New("boom"))
			})

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t,
				`{"status":{"code":"500","message":"`+dto.GenericErrorMessage+`"}}`,
				w.Body.String())
		})
	}
}
