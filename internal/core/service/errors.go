package service

import "errors"

// Validation messages returned to clients as plain text
const (
	MsgInvalidTurnoverRange = "Invalid turnover range"
	MsgInvalidPagination    = "Invalid pagination parameters"
	MsgMissingSort          = "Missing sort criteria"
	MsgMalformedBody        = "Malformed request body"
)

// ValidationError is a request rejected before the search service is contacted
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// IsValidationError reports whether err is or wraps a ValidationError
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
