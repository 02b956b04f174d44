package nonce_test

import (
	"errors"
	"testing"

	"github.com/jsamuelsen11/core-api/internal/adapters/clients/acl/nonce"
)

func TestToValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dto     nonce.ResponseDTO
		want    string
		wantErr error
	}{
		{name: "value", dto: nonce.ResponseDTO{Nonce: "n-4b1f"}, want: "n-4b1f"},
		{name: "surrounding space trimmed", dto: nonce.ResponseDTO{Nonce: "  n-4b1f\n"}, want: "n-4b1f"},
		{name: "empty", dto: nonce.ResponseDTO{}, wantErr: nonce.ErrEmptyNonce},
		{name: "blank", dto: nonce.ResponseDTO{Nonce: "   "}, wantErr: nonce.ErrEmptyNonce},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := nonce.ToValue(tt.dto)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ToValue() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ToValue() = %q, want %q", got, tt.want)
			}
		})
	}
}
