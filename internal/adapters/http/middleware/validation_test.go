package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/core-api/internal/adapters/http/binding"
	"github.com/jsamuelsen11/core-api/internal/adapters/http/middleware"
)

type listQuery struct {
	Name  string `query:"name" validate:"required"`
	Limit int    `query:"limit" validate:"omitempty,max=100"`
}

func gatedHandler(t *testing.T, bind binding.Binder[listQuery], called *bool) http.Handler {
	t.Helper()

	return middleware.ValidationGate(bind, prodClassifier())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		q, ok := binding.ModelFromContext[listQuery](r.Context())
		if !ok {
			t.Error("bound model missing from context")
		}
		_, _ = w.Write([]byte(q.Name))
	}))
}

func TestValidationGate_Valid(t *testing.T) {
	t.Parallel()

	v, err := binding.NewValidator()
	require.NoError(t, err)

	var called bool
	handler := gatedHandler(t, binding.Query[listQuery](v), &called)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/items?name=acme", http.NoBody)
	handler.ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acme", rec.Body.String())
}

func TestValidationGate_ShortCircuits(t *testing.T) {
	t.Parallel()

	v, err := binding.NewValidator()
	require.NoError(t, err)

	var called bool
	handler := gatedHandler(t, binding.Query[listQuery](v), &called)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/items?limit=500", http.NoBody)
	handler.ServeHTTP(rec, req)

	assert.False(t, called, "handler ran for an invalid request")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t,
		`{"status":{"code":"400","message":"name is a required field | limit must be 100 or less"}}`,
		rec.Body.String())
}

func TestValidationGate_InvalidWithoutMessagesPassesThrough(t *testing.T) {
	t.Parallel()

	bind := func(_ *http.Request, state *binding.ModelState) listQuery {
		state.Invalidate()
		return listQuery{Name: "unchecked"}
	}

	var called bool
	handler := gatedHandler(t, bind, &called)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/items", http.NoBody)
	handler.ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "unchecked", rec.Body.String())
}
