package services

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/yukikurage/tenant-task-api/internal/access"
	"github.com/yukikurage/tenant-task-api/internal/constants"
)

var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

var (
	ErrInvalidSubdomain = access.Validation("Subdomain must be 3-63 lowercase letters, digits or hyphens and cannot start or end with a hyphen")
	ErrWeakPassword     = access.Validation("Password must be at least 8 characters and contain a letter and a digit")
	ErrEmailRequired    = access.Validation("Email is required")
	ErrNameRequired     = access.Validation("Name is required")
)

// normalizeSubdomain lowercases and validates a tenant subdomain.
func normalizeSubdomain(raw string) (string, error) {
	subdomain := strings.ToLower(strings.TrimSpace(raw))
	if len(subdomain) < constants.MinSubdomainLength || len(subdomain) > constants.MaxSubdomainLength {
		return "", ErrInvalidSubdomain
	}
	if !subdomainPattern.MatchString(subdomain) {
		return "", ErrInvalidSubdomain
	}
	return subdomain, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", ErrEmailRequired
	}
	return email, nil
}

func validatePassword(password string) error {
	if len(password) < constants.MinPasswordLength {
		return ErrWeakPassword
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ErrWeakPassword
	}
	return nil
}

func requireName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrNameRequired
	}
	return name, nil
}
