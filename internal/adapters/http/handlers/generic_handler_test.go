package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/core-api/internal/adapters/http/binding"
	"github.com/jsamuelsen11/core-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/core-api/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/core-api/internal/domain"
	"github.com/jsamuelsen11/core-api/mocks"
)

func boundRequest(scope string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/v1/generic/retrieve?scope="+scope, nil)
	ctx := binding.WithModel(r.Context(), dto.RetrieveNonceRequest{Scope: scope})
	return r.WithContext(ctx)
}

func TestRetrieveNonce_Success(t *testing.T) {
	t.Parallel()

	nonces := mocks.NewMockNonceClient(t)
	nonces.EXPECT().RetrieveNonce(mock.Anything, "tenant9").Return("n-51aa", nil)

	h := handlers.NewGenericHandler(nonces, discardClassifier())

	rec := httptest.NewRecorder()
	h.RetrieveNonce(rec, boundRequest("tenant9"))

	requireStatus(t, rec, http.StatusOK)
	assert.JSONEq(t, `{"status":{"code":"200","message":"OK"},"data":"n-51aa"}`, rec.Body.String())
}

func TestRetrieveNonce_DownstreamFailure(t *testing.T) {
	t.Parallel()

	nonces := mocks.NewMockNonceClient(t)
	nonces.EXPECT().RetrieveNonce(mock.Anything, "").
		Return("", domain.Unavailable("Unable to retrieve value!", errors.New("connection refused")))

	h := handlers.NewGenericHandler(nonces, discardClassifier())

	rec := httptest.NewRecorder()
	h.RetrieveNonce(rec, boundRequest(""))

	requireStatus(t, rec, http.StatusBadGateway)
	assert.JSONEq(t, `{"status":{"code":"502","message":"Unable to retrieve value!"}}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestRetrieveNonce_UnexpectedFailure(t *testing.T) {
	t.Parallel()

	nonces := mocks.NewMockNonceClient(t)
	nonces.EXPECT().RetrieveNonce(mock.Anything, "").
		RunAndReturn(func(context.Context, string) (string, error) {
			return "", errors.New("pool exhausted")
		})

	h := handlers.NewGenericHandler(nonces, discardClassifier())

	rec := httptest.NewRecorder()
	h.RetrieveNonce(rec, boundRequest(""))

	requireStatus(t, rec, http.StatusInternalServerError)
	env := decodeEnvelope[any](t, rec)
	assert.Equal(t, dto.GenericErrorMessage, env.Message())
}

func TestRetrieveNonce_ModelNotBound(t *testing.T) {
	t.Parallel()

	nonces := mocks.NewMockNonceClient(t)
	h := handlers.NewGenericHandler(nonces, discardClassifier())

	rec := httptest.NewRecorder()
	h.RetrieveNonce(rec, httptest.NewRequest(http.MethodGet, "/v1/generic/retrieve", nil))

	requireStatus(t, rec, http.StatusInternalServerError)
}
