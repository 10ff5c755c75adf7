package models

import (
	"time"

	"github.com/yukikurage/tenant-task-api/internal/constants"
)

type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusTrial     TenantStatus = "trial"
	TenantStatusInactive  TenantStatus = "inactive"
)

// Valid reports whether s is a known status.
func (s TenantStatus) Valid() bool {
	switch s {
	case TenantStatusActive, TenantStatusSuspended, TenantStatusTrial, TenantStatusInactive:
		return true
	}
	return false
}

// Operational reports whether members of a tenant in this status may sign in.
func (s TenantStatus) Operational() bool {
	return s == TenantStatusActive || s == TenantStatusTrial
}

var tenantTransitions = map[TenantStatus][]TenantStatus{
	TenantStatusTrial:     {TenantStatusActive},
	TenantStatusActive:    {TenantStatusSuspended, TenantStatusInactive},
	TenantStatusSuspended: {TenantStatusActive},
	TenantStatusInactive:  nil,
}

// CanTransitionTo reports whether the status machine allows moving from s to next.
// Staying in the same status is always allowed.
func (s TenantStatus) CanTransitionTo(next TenantStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range tenantTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type SubscriptionPlan string

const (
	PlanFree       SubscriptionPlan = "free"
	PlanPro        SubscriptionPlan = "pro"
	PlanEnterprise SubscriptionPlan = "enterprise"
)

// Valid reports whether p is a known plan.
func (p SubscriptionPlan) Valid() bool {
	switch p {
	case PlanFree, PlanPro, PlanEnterprise:
		return true
	}
	return false
}

// DefaultQuotas returns the user and project limits of a plan.
func (p SubscriptionPlan) DefaultQuotas() (maxUsers, maxProjects int) {
	switch p {
	case PlanPro:
		return constants.ProMaxUsers, constants.ProMaxProjects
	case PlanEnterprise:
		return constants.EnterpriseMaxUsers, constants.EnterpriseMaxProjects
	default:
		return constants.FreeMaxUsers, constants.FreeMaxProjects
	}
}

type Tenant struct {
	ID               string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name             string           `gorm:"type:varchar(255);not null" json:"name"`
	Subdomain        string           `gorm:"type:varchar(63);uniqueIndex;not null" json:"subdomain"`
	Status           TenantStatus     `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	SubscriptionPlan SubscriptionPlan `gorm:"type:varchar(20);not null;default:'free'" json:"subscription_plan"`
	MaxUsers         int              `gorm:"not null" json:"max_users"`
	MaxProjects      int              `gorm:"not null" json:"max_projects"`
	CreatedAt        time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}
