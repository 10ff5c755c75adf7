package access

// Scope is the tenant boundary of one operation. The zero value matches no
// tenant at all.
type Scope struct {
	tenantID string
	all      bool
}

// ForTenant scopes an operation to a single tenant.
func ForTenant(tenantID string) Scope {
	return Scope{tenantID: tenantID}
}

// AllTenants is the unscoped mode reserved for super admins.
func AllTenants() Scope {
	return Scope{all: true}
}

// TenantID returns the scoped tenant; ok is false for AllTenants.
func (s Scope) TenantID() (string, bool) {
	return s.tenantID, !s.all
}

// IsAll reports whether the scope spans every tenant.
func (s Scope) IsAll() bool {
	return s.all
}

// Contains reports whether rows of tenantID are visible in this scope.
func (s Scope) Contains(tenantID string) bool {
	if s.all {
		return true
	}
	return s.tenantID != "" && s.tenantID == tenantID
}

// RequireTenant returns the tenant for operations that cannot run unscoped.
func (s Scope) RequireTenant() (string, error) {
	if s.all || s.tenantID == "" {
		return "", Validation("tenantId is required")
	}
	return s.tenantID, nil
}

// ResolveScope derives the effective scope of a request. Only super admins
// may choose a tenant; everyone else is pinned to their own.
func ResolveScope(p Principal, requestedTenantID string) (Scope, error) {
	if p.IsSuperAdmin() {
		if requestedTenantID != "" {
			return ForTenant(requestedTenantID), nil
		}
		return AllTenants(), nil
	}

	if p.TenantID == nil || *p.TenantID == "" {
		return Scope{}, ErrCrossTenant
	}
	if requestedTenantID != "" && requestedTenantID != *p.TenantID {
		return Scope{}, ErrCrossTenant
	}
	return ForTenant(*p.TenantID), nil
}
