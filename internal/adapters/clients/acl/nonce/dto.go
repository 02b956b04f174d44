// Package nonce holds the payload shapes of the downstream nonce service and
// their translation into values used by handlers.
package nonce

// ResponseDTO matches the downstream nonce response body.
type ResponseDTO struct {
	Nonce string `json:"nonce"`
}
