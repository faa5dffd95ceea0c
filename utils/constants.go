package utils

// ContextKey is the type for request-scoped context values
type ContextKey string

// Request context keys
const (
	RequestIDKey ContextKey = "request_id"
	UserAgentKey ContextKey = "user_agent"
	IPAddressKey ContextKey = "ip_address"
	EndpointKey  ContextKey = "endpoint"
	TimeoutKey   ContextKey = "timeout"
	CancelKey    ContextKey = "cancel"
)

// DefaultPageSize bounds list endpoints that take no explicit limit
const DefaultPageSize = 50
