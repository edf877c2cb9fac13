// file: internal/server/response_types.go
// version: 1.0.0
// guid: 5e6f7a8b-9c0d-1e2f-3a4b-5c6d7e8f9a0b

package server

// Envelope is the wire format of the AJAX detail endpoint: Data carries the
// user record on success and an ErrorDescription otherwise.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorDescription is the failure payload inside an unsuccessful Envelope.
type ErrorDescription struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// HealthResponse provides a consistent format for health check responses
type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    int64  `json:"uptime_seconds"`
	Timestamp int64  `json:"timestamp"`
}

// NewSuccessEnvelope wraps a payload in a successful envelope.
func NewSuccessEnvelope(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// NewErrorEnvelope wraps a failure description in an unsuccessful envelope.
func NewErrorEnvelope(message, code string) Envelope {
	return Envelope{
		Success: false,
		Data:    ErrorDescription{Message: message, Code: code},
	}
}
