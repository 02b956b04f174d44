package handlers_test

import (
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/jsamuelsen11/core-api/internal/adapters/http/dto"
)

func discardClassifier() *dto.Classifier {
	return dto.NewClassifier(false, slog.New(slog.DiscardHandler))
}

// decodeEnvelope decodes the recorded body and checks that the transport
// status matches status.code.
func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) dto.Envelope[T] {
	t.Helper()

	var env dto.Envelope[T]
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	status, err := env.HTTPStatus()
	if err != nil {
		t.Fatalf("envelope code %q: %v", env.Code(), err)
	}
	if status != rec.Code {
		t.Errorf("transport status = %d, envelope code = %d", rec.Code, status)
	}
	return env
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}
