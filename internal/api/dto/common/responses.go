package common

// Response is the envelope every public endpoint answers with.
// Successful calls carry Message, failed ones carry Error.
type Response struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorCode classifies failures for logs and metrics. It never reaches
// the response body.
type ErrorCode string

const (
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeBadRequest      ErrorCode = "BAD_REQUEST"
	ErrCodeTooManyRequests ErrorCode = "TOO_MANY_REQUESTS"
	ErrCodeTooLarge        ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrCodeNotConfigured   ErrorCode = "NOT_CONFIGURED"
	ErrCodeUpstream        ErrorCode = "UPSTREAM_ERROR"
	ErrCodeInternalServer  ErrorCode = "INTERNAL_SERVER_ERROR"
)

// NewMessageResponse creates a success response
func NewMessageResponse(message string) Response {
	return Response{OK: true, Message: message}
}

// NewErrorResponse creates a failure response
func NewErrorResponse(message string) Response {
	return Response{OK: false, Error: message}
}
