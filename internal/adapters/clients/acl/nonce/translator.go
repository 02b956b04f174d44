package nonce

import (
	"errors"
	"strings"
)

// ErrEmptyNonce is returned when the downstream answered without a value.
var ErrEmptyNonce = errors.New("downstream returned an empty nonce")

// ToValue extracts the nonce from a downstream response.
func ToValue(dto ResponseDTO) (string, error) {
	v := strings.TrimSpace(dto.Nonce)
	if v == "" {
		return "", ErrEmptyNonce
	}
	return v, nil
}
