package repositories

import (
	"context"
	"testing"
	"time"

	"badgehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAssignment(id, badgeID, userID, companyID string, at time.Time) *models.BadgeAssignment {
	return &models.BadgeAssignment{
		ID:         id,
		BadgeID:    badgeID,
		UserID:     userID,
		CompanyID:  companyID,
		AssignedAt: at,
		AssignedBy: "admin-1",
	}
}

func TestAssignmentRepository_TripleLookup(t *testing.T) {
	repo := NewMemoryAssignmentRepository(nil)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, newTestAssignment("as-1", "badge-1", "user-1", "company-1", now)))

	t.Run("exact triple matches", func(t *testing.T) {
		got, err := repo.GetByTriple(ctx, "badge-1", "user-1", "company-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "as-1", got.ID)
	})

	t.Run("any differing key misses", func(t *testing.T) {
		for _, triple := range [][3]string{
			{"badge-2", "user-1", "company-1"},
			{"badge-1", "user-2", "company-1"},
			{"badge-1", "user-1", "company-2"},
		} {
			got, err := repo.GetByTriple(ctx, triple[0], triple[1], triple[2])
			require.NoError(t, err)
			assert.Nil(t, got)
		}
	})
}

func TestAssignmentRepository_DeleteByTriple(t *testing.T) {
	repo := NewMemoryAssignmentRepository(nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestAssignment("as-1", "badge-1", "user-1", "company-1", time.Now())))

	removed, err := repo.DeleteByTriple(ctx, "badge-1", "user-1", "company-1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.DeleteByTriple(ctx, "badge-1", "user-1", "company-1")
	require.NoError(t, err)
	assert.False(t, removed, "second delete of the same triple finds nothing")
}

func TestAssignmentRepository_ListByUser(t *testing.T) {
	repo := NewMemoryAssignmentRepository(nil)
	ctx := context.Background()
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newTestAssignment("as-2", "badge-2", "user-1", "company-1", base.Add(time.Minute))))
	require.NoError(t, repo.Create(ctx, newTestAssignment("as-1", "badge-1", "user-1", "company-1", base)))
	require.NoError(t, repo.Create(ctx, newTestAssignment("as-3", "badge-1", "user-2", "company-1", base)))
	require.NoError(t, repo.Create(ctx, newTestAssignment("as-4", "badge-1", "user-1", "company-2", base)))

	got, err := repo.ListByUser(ctx, "user-1", "company-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "as-1", got[0].ID, "listings sort by assignment time")
	assert.Equal(t, "as-2", got[1].ID)
}

func TestAssignmentRepository_DeleteByBadge(t *testing.T) {
	repo := NewMemoryAssignmentRepository(nil)
	ctx := context.Background()
	now := time.Now().UTC()

	// The same badge can be assigned across tenants; cascade covers them all.
	require.NoError(t, repo.Create(ctx, newTestAssignment("as-1", "badge-1", "user-1", "company-1", now)))
	require.NoError(t, repo.Create(ctx, newTestAssignment("as-2", "badge-1", "user-2", "company-1", now)))
	require.NoError(t, repo.Create(ctx, newTestAssignment("as-3", "badge-1", "user-3", "company-2", now)))
	require.NoError(t, repo.Create(ctx, newTestAssignment("as-4", "badge-2", "user-1", "company-1", now)))

	removed, err := repo.DeleteByBadge(ctx, "badge-1")
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	remaining, err := repo.ListByCompany(ctx, "company-1")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "as-4", remaining[0].ID)

	removed, err = repo.DeleteByBadge(ctx, "badge-1")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestAccessRepository_Track(t *testing.T) {
	repo := NewMemoryAccessRepository(nil)
	ctx := context.Background()

	require.NoError(t, repo.Track(ctx, "company-1", "user-b"))
	require.NoError(t, repo.Track(ctx, "company-1", "user-a"))
	require.NoError(t, repo.Track(ctx, "company-1", "user-a"))
	require.NoError(t, repo.Track(ctx, "", "user-x"))
	require.NoError(t, repo.Track(ctx, "company-1", ""))

	users, err := repo.ListUsers(ctx, "company-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"user-a", "user-b"}, users)

	users, err = repo.ListUsers(ctx, "company-2")
	require.NoError(t, err)
	assert.Empty(t, users)
}
