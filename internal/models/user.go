package models

import "time"

type Role string

const (
	RoleUser        Role = "user"
	RoleTenantAdmin Role = "tenant_admin"
	RoleSuperAdmin  Role = "super_admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleTenantAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// TenantBound reports whether users with this role must belong to a tenant.
func (r Role) TenantBound() bool {
	return r == RoleUser || r == RoleTenantAdmin
}

// User belongs to exactly one tenant, except super admins whose TenantID is nil.
type User struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID     *string   `gorm:"type:varchar(36);uniqueIndex:idx_users_email_tenant;index" json:"tenant_id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex:idx_users_email_tenant;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}
