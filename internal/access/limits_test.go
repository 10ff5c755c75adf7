package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsage struct {
	maxUsers, maxProjects int
	users, projects       int64
	err                   error
}

func (f *fakeUsage) Quotas(context.Context, string) (int, int, error) {
	return f.maxUsers, f.maxProjects, f.err
}

func (f *fakeUsage) CountUsers(context.Context, string) (int64, error) { return f.users, nil }

func (f *fakeUsage) CountProjects(context.Context, string) (int64, error) { return f.projects, nil }

type countingRejections map[string]int

func (c countingRejections) IncQuotaRejection(resource string) { c[resource]++ }

func TestLimitGuard_Projects(t *testing.T) {
	usage := &fakeUsage{maxUsers: 5, maxProjects: 3, projects: 2}
	rejections := countingRejections{}
	guard := NewLimitGuard(usage, rejections)
	ctx := context.Background()

	// third project fits exactly
	require.NoError(t, guard.CheckCreationAllowed(ctx, tenantA, ResourceProject))

	usage.projects = 3
	err := guard.CheckCreationAllowed(ctx, tenantA, ResourceProject)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLimitReached)

	var limitErr *LimitReachedError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, int64(3), limitErr.Current)
	assert.Equal(t, int64(3), limitErr.Limit)
	assert.Equal(t, 1, rejections["project"])
}

func TestLimitGuard_Users(t *testing.T) {
	usage := &fakeUsage{maxUsers: 5, maxProjects: 3, users: 4}
	guard := NewLimitGuard(usage, nil)
	ctx := context.Background()

	require.NoError(t, guard.CheckCreationAllowed(ctx, tenantA, ResourceUser))

	usage.users = 6
	assert.ErrorIs(t, guard.CheckCreationAllowed(ctx, tenantA, ResourceUser), ErrLimitReached)
}

func TestLimitGuard_PropagatesStorageErrors(t *testing.T) {
	guard := NewLimitGuard(&fakeUsage{err: NotFound("Tenant not found")}, nil)
	err := guard.CheckCreationAllowed(context.Background(), tenantA, ResourceUser)
	assert.ErrorIs(t, err, ErrNotFound)

	err = NewLimitGuard(&fakeUsage{}, nil).CheckCreationAllowed(context.Background(), tenantA, ResourceKind("widget"))
	assert.Error(t, err)
}

func TestMessage(t *testing.T) {
	msg, ok := Message(Forbidden("nope"))
	assert.True(t, ok)
	assert.Equal(t, "nope", msg)

	msg, ok = Message(&LimitReachedError{Kind: ResourceProject, Current: 3, Limit: 3})
	assert.True(t, ok)
	assert.Contains(t, msg, "Project limit reached (3/3)")

	_, ok = Message(errors.New("pq: relation does not exist"))
	assert.False(t, ok)
}
