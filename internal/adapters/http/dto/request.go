package dto

// RetrieveNonceRequest is the query model of GET /v{version}/generic/retrieve.
type RetrieveNonceRequest struct {
	Scope string `query:"scope" json:"scope" validate:"omitempty,alphanum,max=64"`
}
