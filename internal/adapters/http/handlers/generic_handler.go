// Package handlers provides the HTTP handlers behind the service's routes.
// Handlers write success envelopes themselves and hand every failure to a
// dto.ErrorWriter.
package handlers

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/jsamuelsen11/core-api/internal/adapters/http/binding"
	"github.com/jsamuelsen11/core-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/core-api/internal/ports"
)

// GenericHandler serves the /generic routes.
type GenericHandler struct {
	nonces ports.NonceClient
	errs   dto.ErrorWriter
}

// NewGenericHandler creates a GenericHandler.
func NewGenericHandler(nonces ports.NonceClient, errs dto.ErrorWriter) *GenericHandler {
	return &GenericHandler{nonces: nonces, errs: errs}
}

// RetrieveNonce handles GET /v{version}/generic/retrieve. It must be
// mounted behind a ValidationGate for dto.RetrieveNonceRequest.
func (h *GenericHandler) RetrieveNonce(w http.ResponseWriter, r *http.Request) {
	req, ok := binding.ModelFromContext[dto.RetrieveNonceRequest](r.Context())
	if !ok {
		h.errs.WriteError(w, r, errors.New("retrieve nonce: request model not bound"))
		return
	}

	nonce, err := h.nonces.RetrieveNonce(r.Context(), req.Scope)
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}

	dto.WriteEnvelope(w, r, dto.NewSuccess(nonce))
}
