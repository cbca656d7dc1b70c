package dto

import "time"

// ErrorResponse is the JSON error body shared by all endpoints.
//
// Example:
//
//	{"error": "upstream API key is not configured", "timestamp": "2025-09-18T12:00:00Z"}
type ErrorResponse struct {
	Message      string    `json:"error" example:"failed to fetch prices"`
	ErrorDetails string    `json:"details,omitempty" example:"connection refused"`
	Timestamp    time.Time `json:"timestamp"`
}

// Error implements the error interface.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an ErrorResponse; err, when non-nil, becomes the details.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message, Timestamp: time.Now().UTC()}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
