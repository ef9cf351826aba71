package api

// ErrorResponse is the failure envelope for every endpoint. Errors holds
// field-level validation messages when the backend can attribute them.
type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}
