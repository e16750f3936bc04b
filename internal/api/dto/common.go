package dto

// ErrorResponse represents an error returned by the gateway itself
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Code      int    `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// HealthResponse represents a health or readiness probe response
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
	Reason string `json:"reason,omitempty"`
}
