package access

import (
	"context"
	"fmt"
)

// UsageReader exposes the numbers the limit guard compares.
type UsageReader interface {
	Quotas(ctx context.Context, tenantID string) (maxUsers, maxProjects int, err error)
	CountUsers(ctx context.Context, tenantID string) (int64, error)
	CountProjects(ctx context.Context, tenantID string) (int64, error)
}

// RejectionRecorder receives quota rejections; implemented by *metrics.Metrics.
type RejectionRecorder interface {
	IncQuotaRejection(resource string)
}

// LimitGuard enforces plan quotas before creation.
//
// The check reads the count and compares it before the insert happens, so
// two concurrent creations can both pass and overshoot the limit by a small
// amount. Limits are soft by contract.
type LimitGuard struct {
	usage      UsageReader
	rejections RejectionRecorder
}

// NewLimitGuard creates a LimitGuard; rejections may be nil.
func NewLimitGuard(usage UsageReader, rejections RejectionRecorder) *LimitGuard {
	return &LimitGuard{usage: usage, rejections: rejections}
}

// CheckCreationAllowed fails with *LimitReachedError when the tenant is at its quota.
func (g *LimitGuard) CheckCreationAllowed(ctx context.Context, tenantID string, kind ResourceKind) error {
	maxUsers, maxProjects, err := g.usage.Quotas(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to read tenant quotas: %w", err)
	}

	var (
		count int64
		limit int
	)
	switch kind {
	case ResourceUser:
		limit = maxUsers
		count, err = g.usage.CountUsers(ctx, tenantID)
	case ResourceProject:
		limit = maxProjects
		count, err = g.usage.CountProjects(ctx, tenantID)
	default:
		return fmt.Errorf("unknown resource kind %q", kind)
	}
	if err != nil {
		return fmt.Errorf("failed to count %ss: %w", kind, err)
	}

	if count >= int64(limit) {
		if g.rejections != nil {
			g.rejections.IncQuotaRejection(string(kind))
		}
		return &LimitReachedError{Kind: kind, Current: count, Limit: int64(limit)}
	}
	return nil
}
