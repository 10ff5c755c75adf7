package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/tenant-task-api/internal/access"
	"github.com/yukikurage/tenant-task-api/internal/audit"
	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/repository"
)

var (
	ErrSubdomainTaken      = access.Conflict("Subdomain is already taken")
	ErrInvalidCredentials  = access.Unauthenticated("Invalid email or password")
	ErrSubdomainRequired   = access.Validation("Tenant subdomain is required")
	ErrTenantNotFound      = access.NotFound("Tenant not found")
	ErrTenantNameRequired  = access.Validation("Tenant name is required")
	ErrAdminNameRequired   = access.Validation("Admin full name is required")
	ErrCredentialsRequired = access.Validation("Email and password are required")
)

// AuthService handles registration, login and session related business logic.
type AuthService struct {
	tenantRepo repository.TenantRepository
	userRepo   repository.UserRepository
	hasher     PasswordHasher
	tokens     TokenIssuer
	auditor    Auditor
}

// NewAuthService creates a new AuthService.
func NewAuthService(tenantRepo repository.TenantRepository, userRepo repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer, auditor Auditor) *AuthService {
	return &AuthService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		hasher:     hasher,
		tokens:     tokens,
		auditor:    auditor,
	}
}

// RegisterTenantInput represents the information needed to open a tenant.
type RegisterTenantInput struct {
	TenantName    string
	Subdomain     string
	AdminEmail    string
	AdminPassword string
	AdminFullName string
	IP            string
}

// RegisterTenant creates a tenant on the free plan together with its first tenant admin.
func (s *AuthService) RegisterTenant(ctx context.Context, input RegisterTenantInput) (*models.Tenant, *models.User, error) {
	tenantName := strings.TrimSpace(input.TenantName)
	if tenantName == "" {
		return nil, nil, ErrTenantNameRequired
	}
	subdomain, err := normalizeSubdomain(input.Subdomain)
	if err != nil {
		return nil, nil, err
	}
	email, err := normalizeEmail(input.AdminEmail)
	if err != nil {
		return nil, nil, err
	}
	fullName := strings.TrimSpace(input.AdminFullName)
	if fullName == "" {
		return nil, nil, ErrAdminNameRequired
	}
	if err := validatePassword(input.AdminPassword); err != nil {
		return nil, nil, err
	}

	if _, err := s.tenantRepo.FindBySubdomain(ctx, subdomain); err == nil {
		return nil, nil, ErrSubdomainTaken
	} else if !errors.Is(err, access.ErrNotFound) {
		return nil, nil, fmt.Errorf("failed to check subdomain: %w", err)
	}

	hash, err := s.hasher.Hash(input.AdminPassword)
	if err != nil {
		return nil, nil, err
	}

	maxUsers, maxProjects := models.PlanFree.DefaultQuotas()
	tenant := &models.Tenant{
		Name:             tenantName,
		Subdomain:        subdomain,
		Status:           models.TenantStatusActive,
		SubscriptionPlan: models.PlanFree,
		MaxUsers:         maxUsers,
		MaxProjects:      maxProjects,
	}
	admin := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         models.RoleTenantAdmin,
		IsActive:     true,
	}

	entry := audit.Entry{Action: audit.ActionRegisterTenant, EntityType: audit.EntityTenant, IPAddress: input.IP}
	if err := s.tenantRepo.CreateWithAdmin(ctx, tenant, admin, entry); err != nil {
		return nil, nil, fmt.Errorf("failed to register tenant: %w", err)
	}

	return tenant, admin, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email           string
	Password        string
	TenantSubdomain string
	IP              string
}

// LoginResult is a signed-in user with its token.
type LoginResult struct {
	User      *models.User
	Tenant    *models.Tenant
	Token     string
	ExpiresIn time.Duration
}

// Login verifies credentials. Tenant members sign in through their tenant's
// subdomain; super admins sign in without one.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, ErrCredentialsRequired
	}

	var (
		user   *models.User
		tenant *models.Tenant
		err    error
	)
	subdomain := strings.ToLower(strings.TrimSpace(input.TenantSubdomain))
	if subdomain == "" {
		user, err = s.userRepo.FindSuperAdminByEmail(ctx, email)
		if errors.Is(err, access.ErrNotFound) {
			return nil, ErrSubdomainRequired
		}
		if err != nil {
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
	} else {
		tenant, err = s.tenantRepo.FindBySubdomain(ctx, subdomain)
		if errors.Is(err, access.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to find tenant: %w", err)
		}
		if !tenant.Status.Operational() {
			return nil, access.ErrTenantInactive
		}

		user, err = s.userRepo.FindByEmailInTenant(ctx, tenant.ID, email)
		if errors.Is(err, access.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		if err != nil {
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, access.ErrInactiveAccount
	}

	token, err := s.tokens.Issue(user.ID, user.TenantID, string(user.Role))
	if err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, audit.Entry{
		TenantID:   user.TenantID,
		UserID:     user.ID,
		Action:     audit.ActionLogin,
		EntityType: audit.EntityUser,
		EntityID:   user.ID,
		IPAddress:  input.IP,
	})

	return &LoginResult{
		User:      user,
		Tenant:    tenant,
		Token:     token,
		ExpiresIn: s.tokens.ExpiresIn(),
	}, nil
}

// Me returns the caller's user record and tenant, if any.
func (s *AuthService) Me(ctx context.Context, caller Caller) (*models.User, *models.Tenant, error) {
	user, err := s.userRepo.FindByID(ctx, caller.Principal.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user.TenantID == nil {
		return user, nil, nil
	}

	tenant, err := s.tenantRepo.FindByID(ctx, *user.TenantID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find tenant: %w", err)
	}
	return user, tenant, nil
}

// Logout records the sign-out. Tokens are stateless and expire on their own.
func (s *AuthService) Logout(ctx context.Context, caller Caller) {
	s.auditor.Record(ctx, caller.entry(caller.Principal.TenantID, audit.ActionLogout, audit.EntityUser, caller.Principal.ID))
}
