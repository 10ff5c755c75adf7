package services

import (
	"context"
	"time"

	"github.com/yukikurage/tenant-task-api/internal/access"
	"github.com/yukikurage/tenant-task-api/internal/audit"
)

// Caller is the authenticated principal of a request plus the request
// metadata the audit trail needs.
type Caller struct {
	Principal access.Principal
	IP        string
}

// entry starts an audit entry attributed to the caller.
func (c Caller) entry(tenantID *string, action, entityType, entityID string) audit.Entry {
	return audit.Entry{
		TenantID:   tenantID,
		UserID:     c.Principal.ID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  c.IP,
	}
}

// Auditor appends audit records without failing the caller; implemented by *audit.Recorder.
type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

// Authorizer applies the role policy; implemented by *access.Authorizer.
type Authorizer interface {
	Authorize(p access.Principal, action access.Action, res access.Resource) error
}

// LimitChecker enforces plan quotas; implemented by *access.LimitGuard.
type LimitChecker interface {
	CheckCreationAllowed(ctx context.Context, tenantID string, kind access.ResourceKind) error
}

// PasswordHasher is implemented by *auth.BcryptHasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer is implemented by *auth.TokenIssuer.
type TokenIssuer interface {
	Issue(userID string, tenantID *string, role string) (string, error)
	ExpiresIn() time.Duration
}

func strPtr(s string) *string {
	return &s
}
