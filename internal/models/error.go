package models

// ErrorResponse is the body of every failed request
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// example: Invalid credentials
	Error string `json:"error"`

	// Per-field validation messages
	Details map[string]string `json:"details,omitempty"`
}

// HealthResponse is the body of the health check
// swagger:model HealthResponse
type HealthResponse struct {
	// example: healthy
	Status string `json:"status"`
}
