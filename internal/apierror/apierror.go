// Package apierror defines the error envelopes every 4xx/5xx response
// uses. Services in this module return user-facing Spanish messages
// ("Ingresa un costo por caja válido", "No hay registros para
// exportar") that pass through Detail verbatim; anything else (DB
// errors, panics) is replaced by a generic message before it reaches a
// client.
package apierror

// APIError carries a single human-readable message.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError maps each rejected request field to the validator tag
// it failed, e.g. {"Accion": "oneof"} for an unknown review decision.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
