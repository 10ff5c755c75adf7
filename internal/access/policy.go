package access

import (
	"github.com/yukikurage/tenant-task-api/internal/models"
)

type Action string

const (
	ActionCreateProject            Action = "create_project"
	ActionViewProject              Action = "view_project"
	ActionUpdateProject            Action = "update_project"
	ActionDeleteProject            Action = "delete_project"
	ActionCreateTask               Action = "create_task"
	ActionViewTask                 Action = "view_task"
	ActionUpdateTask               Action = "update_task"
	ActionDeleteTask               Action = "delete_task"
	ActionListUsers                Action = "list_users"
	ActionAddUser                  Action = "add_user"
	ActionUpdateProfile            Action = "update_profile"
	ActionUpdateUserAccess         Action = "update_user_access"
	ActionDeleteUser               Action = "delete_user"
	ActionViewTenant               Action = "view_tenant"
	ActionUpdateTenantName         Action = "update_tenant_name"
	ActionViewTenantSubscription   Action = "view_tenant_subscription"
	ActionUpdateTenantSubscription Action = "update_tenant_subscription"
	ActionViewAuditLogs            Action = "view_audit_logs"
	ActionViewSystemStats          Action = "view_system_stats"
	ActionListAllTenants           Action = "list_all_tenants"
	ActionListAllUsers             Action = "list_all_users"
	ActionUpdateTenantStatus       Action = "update_tenant_status"
)

// Resource describes the target of an action. Fields irrelevant to the
// action may be left empty.
type Resource struct {
	TenantID     *string
	OwnerID      *string
	TargetUserID string
}

// InTenant is a shorthand for a resource owned by a tenant.
func InTenant(tenantID string) Resource {
	return Resource{TenantID: &tenantID}
}

type rule int

const (
	deny rule = iota
	anyTenant
	sameTenant
	ownerInTenant
	self
	sameTenantNotSelf
	anyTenantNotSelf
)

type roleRules map[models.Role]rule

// policy is the single source of truth for who may do what. Anything not
// listed is denied.
var policy = map[Action]roleRules{
	ActionCreateProject: {models.RoleUser: sameTenant, models.RoleTenantAdmin: sameTenant, models.RoleSuperAdmin: anyTenant},
	ActionViewProject:   {models.RoleUser: sameTenant, models.RoleTenantAdmin: sameTenant, models.RoleSuperAdmin: anyTenant},
	ActionUpdateProject: {models.RoleUser: ownerInTenant, models.RoleTenantAdmin: sameTenant, models.RoleSuperAdmin: anyTenant},
	ActionDeleteProject: {models.RoleUser: ownerInTenant, models.RoleTenantAdmin: sameTenant, models.RoleSuperAdmin: anyTenant},

	ActionCreateTask: {models.RoleUser: sameTenant, models.RoleTenantAdmin: sameTenant, models.RoleSuperAdmin: anyTenant},
	ActionViewTask:   {models.RoleUser: sameTenant, models.RoleTenantAdmin: sameTenant, models.RoleSuperAdmin: anyTenant},
	ActionUpdateTask: {models.RoleUser: sameTenant, models.RoleTenantAdmin: sameTenant, models.RoleSuperAdmin: anyTenant},
	ActionDeleteTask: {models.RoleUser: sameTenant, models.RoleTenantAdmin: sameTenant, models.RoleSuperAdmin: anyTenant},

	ActionListUsers:        {models.RoleUser: sameTenant, models.RoleTenantAdmin: sameTenant, models.RoleSuperAdmin: anyTenant},
	ActionAddUser:          {models.RoleTenantAdmin: sameTenant},
	ActionUpdateProfile:    {models.RoleUser: self, models.RoleTenantAdmin: self, models.RoleSuperAdmin: self},
	ActionUpdateUserAccess: {models.RoleTenantAdmin: sameTenantNotSelf, models.RoleSuperAdmin: anyTenantNotSelf},
	ActionDeleteUser:       {models.RoleTenantAdmin: sameTenantNotSelf, models.RoleSuperAdmin: anyTenantNotSelf},

	ActionViewTenant:               {models.RoleUser: sameTenant, models.RoleTenantAdmin: sameTenant, models.RoleSuperAdmin: anyTenant},
	ActionUpdateTenantName:         {models.RoleTenantAdmin: sameTenant, models.RoleSuperAdmin: anyTenant},
	ActionViewTenantSubscription:   {models.RoleSuperAdmin: anyTenant},
	ActionUpdateTenantSubscription: {models.RoleSuperAdmin: anyTenant},
	ActionViewAuditLogs:            {models.RoleTenantAdmin: sameTenant, models.RoleSuperAdmin: anyTenant},

	ActionViewSystemStats:    {models.RoleSuperAdmin: anyTenant},
	ActionListAllTenants:     {models.RoleSuperAdmin: anyTenant},
	ActionListAllUsers:       {models.RoleSuperAdmin: anyTenant},
	ActionUpdateTenantStatus: {models.RoleSuperAdmin: anyTenant},
}

// Authorize decides whether p may perform action on res.
// Ownership only matters for the user role; admins bypass it within their scope.
func Authorize(p Principal, action Action, res Resource) error {
	rules, ok := policy[action]
	if !ok {
		return Forbidden("You do not have permission to perform this action")
	}

	switch rules[p.Role] {
	case anyTenant:
		return nil
	case sameTenant:
		if sameTenantAs(p, res) {
			return nil
		}
	case ownerInTenant:
		if sameTenantAs(p, res) && res.OwnerID != nil && *res.OwnerID == p.ID {
			return nil
		}
		if sameTenantAs(p, res) {
			return Forbidden("Only the creator or a tenant admin can modify this resource")
		}
	case self:
		if res.TargetUserID != "" && res.TargetUserID == p.ID {
			return nil
		}
	case sameTenantNotSelf:
		if res.TargetUserID == p.ID {
			return Forbidden("You cannot perform this action on your own account")
		}
		if sameTenantAs(p, res) {
			return nil
		}
	case anyTenantNotSelf:
		if res.TargetUserID == p.ID {
			return Forbidden("You cannot perform this action on your own account")
		}
		return nil
	}

	return Forbidden("You do not have permission to perform this action")
}

func sameTenantAs(p Principal, res Resource) bool {
	return res.TenantID != nil && p.InTenant(*res.TenantID)
}

// DenialRecorder receives authorization denials; implemented by *metrics.Metrics.
type DenialRecorder interface {
	IncAuthorizationDenial(action string)
}

// Authorizer wraps Authorize and reports denials.
type Authorizer struct {
	denials DenialRecorder
}

// NewAuthorizer creates an Authorizer; denials may be nil.
func NewAuthorizer(denials DenialRecorder) *Authorizer {
	return &Authorizer{denials: denials}
}

// Authorize applies the policy table.
func (a *Authorizer) Authorize(p Principal, action Action, res Resource) error {
	err := Authorize(p, action, res)
	if err != nil && a != nil && a.denials != nil {
		a.denials.IncAuthorizationDenial(string(action))
	}
	return err
}
