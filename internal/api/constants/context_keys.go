package constants

// Context keys shared between middleware and handlers
const (
	ContextKeyRequestID = "RequestID"
	ContextKeyContact   = "contactRequest"
	ContextKeyClientIP  = "clientIP"
	ContextKeyRawBody   = "rawBody"
)
