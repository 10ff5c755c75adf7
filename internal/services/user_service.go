package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/tenant-task-api/internal/access"
	"github.com/yukikurage/tenant-task-api/internal/audit"
	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/repository"
)

var (
	ErrEmailTaken          = access.Conflict("Email is already registered in this tenant")
	ErrInvalidRole         = access.Validation("Role must be user or tenant_admin")
	ErrSuperAdminImmutable = access.Forbidden("Super admin accounts cannot be modified through this endpoint")
	ErrNoUserChanges       = access.Validation("No fields to update")
)

// UserService handles tenant membership.
type UserService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	authz    Authorizer
	limits   LimitChecker
	auditor  Auditor
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, hasher PasswordHasher, authz Authorizer, limits LimitChecker, auditor Auditor) *UserService {
	return &UserService{
		userRepo: userRepo,
		hasher:   hasher,
		authz:    authz,
		limits:   limits,
		auditor:  auditor,
	}
}

// AddUserInput represents a new tenant member.
type AddUserInput struct {
	TenantID string
	Email    string
	Password string
	FullName string
	Role     models.Role
}

// AddUser creates a user in the caller's tenant, subject to the plan's user quota.
func (s *UserService) AddUser(ctx context.Context, caller Caller, input AddUserInput) (*models.User, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	fullName, err := requireName(input.FullName)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}
	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.TenantBound() {
		return nil, ErrInvalidRole
	}

	scope, err := access.ResolveScope(caller.Principal, input.TenantID)
	if err != nil {
		return nil, err
	}
	tenantID, err := scope.RequireTenant()
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(caller.Principal, access.ActionAddUser, access.InTenant(tenantID)); err != nil {
		return nil, err
	}
	if err := s.limits.CheckCreationAllowed(ctx, tenantID, access.ResourceUser); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmailInTenant(ctx, tenantID, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, access.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		TenantID:     &tenantID,
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.auditor.Record(ctx, caller.entry(&tenantID, audit.ActionCreateUser, audit.EntityUser, user.ID))
	return user, nil
}

// ListUsers lists the members visible to the caller.
func (s *UserService) ListUsers(ctx context.Context, caller Caller, tenantID string, filter repository.UserFilter) ([]models.User, int64, error) {
	scope, err := access.ResolveScope(caller.Principal, tenantID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.authz.Authorize(caller.Principal, access.ActionListUsers, resourceOf(scope)); err != nil {
		return nil, 0, err
	}

	users, total, err := s.userRepo.List(ctx, scope, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// UpdateUserInput represents user changes. FullName is a profile field only
// the user may change; Role and IsActive are access fields for admins.
type UpdateUserInput struct {
	FullName *string
	Role     *models.Role
	IsActive *bool
}

// UpdateUser applies profile and access changes to a user.
func (s *UserService) UpdateUser(ctx context.Context, caller Caller, userID string, input UpdateUserInput) (*models.User, error) {
	if input.FullName == nil && input.Role == nil && input.IsActive == nil {
		return nil, ErrNoUserChanges
	}

	target, err := s.findTarget(ctx, caller, userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		if err := s.authz.Authorize(caller.Principal, access.ActionUpdateProfile, access.Resource{TenantID: target.TenantID, TargetUserID: target.ID}); err != nil {
			return nil, err
		}
		fullName, err := requireName(*input.FullName)
		if err != nil {
			return nil, err
		}
		target.FullName = fullName
	}

	if input.Role != nil || input.IsActive != nil {
		if err := s.authz.Authorize(caller.Principal, access.ActionUpdateUserAccess, access.Resource{TenantID: target.TenantID, TargetUserID: target.ID}); err != nil {
			return nil, err
		}
		if target.Role == models.RoleSuperAdmin {
			return nil, ErrSuperAdminImmutable
		}
		if input.Role != nil {
			if !input.Role.TenantBound() {
				return nil, ErrInvalidRole
			}
			target.Role = *input.Role
		}
		if input.IsActive != nil {
			target.IsActive = *input.IsActive
		}
	}

	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.auditor.Record(ctx, caller.entry(target.TenantID, audit.ActionUpdateUser, audit.EntityUser, target.ID))
	return target, nil
}

// DeleteUser removes a user, unassigning its tasks and detaching its projects.
func (s *UserService) DeleteUser(ctx context.Context, caller Caller, userID string) error {
	target, err := s.findTarget(ctx, caller, userID)
	if err != nil {
		return err
	}
	if err := s.authz.Authorize(caller.Principal, access.ActionDeleteUser, access.Resource{TenantID: target.TenantID, TargetUserID: target.ID}); err != nil {
		return err
	}
	if target.Role == models.RoleSuperAdmin {
		return ErrSuperAdminImmutable
	}

	scope, err := access.ResolveScope(caller.Principal, "")
	if err != nil {
		return err
	}
	entry := caller.entry(target.TenantID, audit.ActionDeleteUser, audit.EntityUser, target.ID)
	if err := s.userRepo.DeleteWithCleanup(ctx, scope, target.ID, entry); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *UserService) findTarget(ctx context.Context, caller Caller, userID string) (*models.User, error) {
	scope, err := access.ResolveScope(caller.Principal, "")
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindInScope(ctx, scope, strings.TrimSpace(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// resourceOf describes the tenant a scope points at; an all-tenants scope has none.
func resourceOf(scope access.Scope) access.Resource {
	if tenantID, ok := scope.TenantID(); ok {
		return access.InTenant(tenantID)
	}
	return access.Resource{}
}
