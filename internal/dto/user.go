package dto

import (
	"time"

	"github.com/yukikurage/tenant-task-api/internal/models"
)

// UserDTO represents a user without credentials
type UserDTO struct {
	ID        string            `json:"id"`
	TenantID  *string           `json:"tenantId"`
	Email     string            `json:"email"`
	FullName  string            `json:"fullName"`
	Role      models.Role       `json:"role"`
	IsActive  bool              `json:"isActive"`
	Tenant    *TenantSummaryDTO `json:"tenant,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	User      UserDTO           `json:"user"`
	Tenant    *TenantSummaryDTO `json:"tenant,omitempty"`
	Token     string            `json:"token"`
	ExpiresIn int64             `json:"expiresIn"`
}

// RegisterTenantResponse is returned by tenant registration
type RegisterTenantResponse struct {
	TenantID  string  `json:"tenantId"`
	Subdomain string  `json:"subdomain"`
	AdminUser UserDTO `json:"adminUser"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	dto := UserDTO{
		ID:        user.ID,
		TenantID:  user.TenantID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	// Include tenant if preloaded
	if user.Tenant != nil {
		tenant := ToTenantSummaryDTO(*user.Tenant)
		dto.Tenant = &tenant
	}

	return dto
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}
	return items
}
