package constants

import "time"

// Context keys
const (
	ContextKeyPrincipal = "principal"
	ContextKeyRequestID = "request_id"
	ContextKeyLogger    = "logger"
)

// Headers
const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"
	BearerPrefix        = "Bearer "
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
	PageLimitAll    = "all"
)

// Credentials
const (
	MinPasswordLength = 8
	TokenLifetime     = 24 * time.Hour
)

// Subdomain rules
const (
	MinSubdomainLength = 3
	MaxSubdomainLength = 63
)

// Plan quota defaults
const (
	FreeMaxUsers          = 5
	FreeMaxProjects       = 3
	ProMaxUsers           = 25
	ProMaxProjects        = 15
	EnterpriseMaxUsers    = 100
	EnterpriseMaxProjects = 50
)

// AuditWriteTimeout bounds a detached audit insert.
const AuditWriteTimeout = 5 * time.Second
