package access

import (
	"context"
	"errors"
	"strings"

	"github.com/yukikurage/tenant-task-api/internal/auth"
	"github.com/yukikurage/tenant-task-api/internal/constants"
	"github.com/yukikurage/tenant-task-api/internal/models"
)

// Principal is the authenticated caller. It is the only identity input to
// authorization decisions.
type Principal struct {
	ID       string      `json:"id"`
	Email    string      `json:"email"`
	FullName string      `json:"full_name"`
	Role     models.Role `json:"role"`
	TenantID *string     `json:"tenant_id"`
}

// IsSuperAdmin reports whether the principal is a super admin.
func (p Principal) IsSuperAdmin() bool {
	return p.Role == models.RoleSuperAdmin
}

// InTenant reports whether the principal belongs to tenantID.
func (p Principal) InTenant(tenantID string) bool {
	return p.TenantID != nil && *p.TenantID == tenantID
}

// PrincipalFromUser builds a Principal from a stored user.
func PrincipalFromUser(u *models.User) Principal {
	return Principal{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
		TenantID: u.TenantID,
	}
}

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type UserLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type TenantLookup interface {
	FindByID(ctx context.Context, id string) (*models.Tenant, error)
}

// PrincipalResolver turns a bearer token into a Principal.
type PrincipalResolver struct {
	tokens  TokenVerifier
	users   UserLookup
	tenants TenantLookup
}

// NewPrincipalResolver creates a PrincipalResolver.
func NewPrincipalResolver(tokens TokenVerifier, users UserLookup, tenants TenantLookup) *PrincipalResolver {
	return &PrincipalResolver{tokens: tokens, users: users, tenants: tenants}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if !strings.HasPrefix(header, constants.BearerPrefix) {
		return "", Unauthenticated("Missing or malformed authorization header")
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, constants.BearerPrefix))
	if token == "" {
		return "", Unauthenticated("Missing or malformed authorization header")
	}
	return token, nil
}

// Resolve authenticates the Authorization header value.
func (r *PrincipalResolver) Resolve(ctx context.Context, authorizationHeader string) (Principal, error) {
	token, err := BearerToken(authorizationHeader)
	if err != nil {
		return Principal{}, err
	}

	claims, err := r.tokens.Verify(token)
	if err != nil {
		return Principal{}, Unauthenticated("Invalid or expired token")
	}

	user, err := r.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Principal{}, Unauthenticated("User no longer exists")
		}
		return Principal{}, err
	}

	if !user.IsActive {
		return Principal{}, ErrInactiveAccount
	}

	if user.TenantID != nil {
		tenant, err := r.tenants.FindByID(ctx, *user.TenantID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return Principal{}, Unauthenticated("User no longer exists")
			}
			return Principal{}, err
		}
		if !tenant.Status.Operational() {
			return Principal{}, ErrTenantInactive
		}
	}

	return PrincipalFromUser(user), nil
}
