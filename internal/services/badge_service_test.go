package services

import (
	"context"
	"strings"
	"testing"

	"badgehub/internal/cache"
	"badgehub/internal/directory"
	"badgehub/internal/events"
	"badgehub/internal/models"
	"badgehub/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubDirectory is a canned-answer Directory for service tests.
type stubDirectory struct {
	access  map[string]directory.AccessLevel // keyed by userID
	users   map[string]*models.Member
	members []*models.Member
	byEmail map[string]*models.Member
}

func (d *stubDirectory) CheckAccess(ctx context.Context, companyID, userID string) (directory.AccessLevel, error) {
	if level, ok := d.access[userID]; ok {
		return level, nil
	}
	return directory.AccessNone, nil
}

func (d *stubDirectory) GetUser(ctx context.Context, userID string) (*models.Member, error) {
	return d.users[userID], nil
}

func (d *stubDirectory) ListMembers(ctx context.Context, companyID string) ([]*models.Member, error) {
	return d.members, nil
}

func (d *stubDirectory) FindByEmail(ctx context.Context, companyID, email string) (*models.Member, error) {
	return d.byEmail[strings.ToLower(email)], nil
}

func newTestBadgeService(t *testing.T, dir directory.Directory) BadgeService {
	t.Helper()
	logger := zap.NewNop()
	if dir == nil {
		dir = &stubDirectory{}
	}

	bus := events.NewEventBus(nil, logger)
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })

	cacheProvider := cache.NewMemoryCache(cache.DefaultConfig(), logger)
	t.Cleanup(func() { _ = cacheProvider.Close() })

	return NewBadgeService(repositories.NewCollection(logger), dir, cacheProvider, bus, logger, nil)
}

func createTestBadge(t *testing.T, svc BadgeService, companyID, name string) *models.Badge {
	t.Helper()
	badge, err := svc.CreateBadge(context.Background(), &CreateBadgeRequest{
		CompanyID: companyID,
		Name:      name,
		Emoji:     "🏆",
		Color:     "#00ff00",
		CreatedBy: "admin-1",
	})
	require.NoError(t, err)
	return badge
}

func TestBadgeService_CreateBadge(t *testing.T) {
	svc := newTestBadgeService(t, nil)
	ctx := context.Background()

	t.Run("first badge gets order zero", func(t *testing.T) {
		badge := createTestBadge(t, svc, "company-1", "Gold")
		assert.Equal(t, 0, badge.Order)
		assert.NotEmpty(t, badge.ID)
		assert.False(t, badge.CreatedAt.IsZero())
	})

	t.Run("next badge appends to the ranking", func(t *testing.T) {
		badge := createTestBadge(t, svc, "company-1", "Silver")
		assert.Equal(t, 1, badge.Order)
	})

	t.Run("orders are tenant scoped", func(t *testing.T) {
		badge := createTestBadge(t, svc, "company-2", "Bronze")
		assert.Equal(t, 0, badge.Order)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		_, err := svc.CreateBadge(ctx, &CreateBadgeRequest{CompanyID: "company-1"})
		assert.True(t, IsValidationError(err))
	})

	t.Run("rejects malformed color", func(t *testing.T) {
		_, err := svc.CreateBadge(ctx, &CreateBadgeRequest{
			CompanyID: "company-1",
			Name:      "Bad",
			Emoji:     "x",
			Color:     "green",
			CreatedBy: "admin-1",
		})
		assert.True(t, IsValidationError(err))
	})
}

func TestBadgeService_GetBadge(t *testing.T) {
	svc := newTestBadgeService(t, nil)
	ctx := context.Background()
	badge := createTestBadge(t, svc, "company-1", "Gold")

	t.Run("whitespace around the id is tolerated", func(t *testing.T) {
		got, err := svc.GetBadge(ctx, "  "+badge.ID+"  ")
		require.NoError(t, err)
		assert.Equal(t, badge.ID, got.ID)
	})

	t.Run("empty id is not found", func(t *testing.T) {
		_, err := svc.GetBadge(ctx, "   ")
		assert.True(t, IsNotFoundError(err))
	})
}

func TestBadgeService_UpdateBadge(t *testing.T) {
	svc := newTestBadgeService(t, nil)
	ctx := context.Background()

	createTestBadge(t, svc, "company-1", "Gold")
	createTestBadge(t, svc, "company-1", "Silver")
	createTestBadge(t, svc, "company-1", "Bronze")

	badges, err := svc.ListBadges(ctx, "company-1")
	require.NoError(t, err)
	target := badges[2] // order 2

	name := "Copper"
	updated, err := svc.UpdateBadge(ctx, target.ID, &UpdateBadgeRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Copper", updated.Name)
	assert.Equal(t, 2, updated.Order, "rename must not move the badge")
	assert.Equal(t, target.CompanyID, updated.CompanyID)
	assert.Equal(t, target.CreatedAt, updated.CreatedAt)

	t.Run("unknown badge is not found", func(t *testing.T) {
		_, err := svc.UpdateBadge(ctx, "missing", &UpdateBadgeRequest{Name: &name})
		assert.True(t, IsNotFoundError(err))
	})
}

func TestBadgeService_DeleteBadge_Cascades(t *testing.T) {
	svc := newTestBadgeService(t, nil)
	ctx := context.Background()

	badge := createTestBadge(t, svc, "company-1", "Gold")
	keeper := createTestBadge(t, svc, "company-1", "Silver")

	for _, userID := range []string{"user-1", "user-2"} {
		_, err := svc.AssignBadge(ctx, &AssignBadgeRequest{
			BadgeID: badge.ID, UserID: userID, CompanyID: "company-1", AssignedBy: "admin-1",
		})
		require.NoError(t, err)
	}
	_, err := svc.AssignBadge(ctx, &AssignBadgeRequest{
		BadgeID: keeper.ID, UserID: "user-1", CompanyID: "company-1", AssignedBy: "admin-1",
	})
	require.NoError(t, err)

	result, err := svc.DeleteBadge(ctx, badge.ID)
	require.NoError(t, err)
	assert.Equal(t, badge.ID, result.BadgeID)
	assert.Equal(t, 2, result.RemovedAssignments)

	_, err = svc.GetBadge(ctx, badge.ID)
	assert.True(t, IsNotFoundError(err))

	userBadges, err := svc.GetUserBadges(ctx, "user-1", "company-1")
	require.NoError(t, err)
	require.Len(t, userBadges.Badges, 1, "only the surviving badge remains")
	assert.Equal(t, keeper.ID, userBadges.Badges[0].ID)

	t.Run("second delete is not found", func(t *testing.T) {
		_, err := svc.DeleteBadge(ctx, badge.ID)
		assert.True(t, IsNotFoundError(err))
	})
}

func TestBadgeService_ReorderBadges(t *testing.T) {
	svc := newTestBadgeService(t, nil)
	ctx := context.Background()

	gold := createTestBadge(t, svc, "company-1", "Gold")
	silver := createTestBadge(t, svc, "company-1", "Silver")
	bronze := createTestBadge(t, svc, "company-1", "Bronze")
	foreign := createTestBadge(t, svc, "company-2", "Other")

	t.Run("full reindex follows list position", func(t *testing.T) {
		reordered, err := svc.ReorderBadges(ctx, &ReorderBadgesRequest{
			CompanyID: "company-1",
			BadgeIDs:  []string{bronze.ID, gold.ID, silver.ID},
		})
		require.NoError(t, err)
		require.Len(t, reordered, 3)

		assert.Equal(t, bronze.ID, reordered[0].ID)
		assert.Equal(t, gold.ID, reordered[1].ID)
		assert.Equal(t, silver.ID, reordered[2].ID)
		for position, badge := range reordered {
			assert.Equal(t, position, badge.Order)
		}
	})

	t.Run("foreign badge rejects the whole request", func(t *testing.T) {
		_, err := svc.ReorderBadges(ctx, &ReorderBadgesRequest{
			CompanyID: "company-1",
			BadgeIDs:  []string{gold.ID, foreign.ID},
		})
		assert.True(t, IsValidationError(err))

		badges, err := svc.ListBadges(ctx, "company-1")
		require.NoError(t, err)
		assert.Equal(t, bronze.ID, badges[0].ID, "rejected reorder must not move anything")
	})

	t.Run("empty list is rejected", func(t *testing.T) {
		_, err := svc.ReorderBadges(ctx, &ReorderBadgesRequest{CompanyID: "company-1"})
		assert.True(t, IsValidationError(err))
	})
}

func TestBadgeService_AssignBadge_Idempotent(t *testing.T) {
	svc := newTestBadgeService(t, nil)
	ctx := context.Background()
	badge := createTestBadge(t, svc, "company-1", "Gold")

	req := &AssignBadgeRequest{
		BadgeID: badge.ID, UserID: "user-1", CompanyID: "company-1", AssignedBy: "admin-1",
	}

	first, err := svc.AssignBadge(ctx, req)
	require.NoError(t, err)

	second, err := svc.AssignBadge(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "repeat assignment returns the existing record")
	assert.Equal(t, first.AssignedAt, second.AssignedAt)

	userBadges, err := svc.GetUserBadges(ctx, "user-1", "company-1")
	require.NoError(t, err)
	assert.Equal(t, 1, userBadges.TotalBadges)

	t.Run("unknown badge is not found", func(t *testing.T) {
		_, err := svc.AssignBadge(ctx, &AssignBadgeRequest{
			BadgeID: "missing", UserID: "user-1", CompanyID: "company-1", AssignedBy: "admin-1",
		})
		assert.True(t, IsNotFoundError(err))
	})

	t.Run("cross company assignment is forbidden", func(t *testing.T) {
		_, err := svc.AssignBadge(ctx, &AssignBadgeRequest{
			BadgeID: badge.ID, UserID: "user-1", CompanyID: "company-2", AssignedBy: "admin-1",
		})
		assert.True(t, IsForbiddenError(err))
	})

	t.Run("recipient is access tracked", func(t *testing.T) {
		tracked, err := svc.GetTrackedUsers(ctx, "company-1")
		require.NoError(t, err)
		assert.Contains(t, tracked, "user-1")
	})
}

func TestBadgeService_UnassignBadge(t *testing.T) {
	svc := newTestBadgeService(t, nil)
	ctx := context.Background()
	badge := createTestBadge(t, svc, "company-1", "Gold")

	_, err := svc.AssignBadge(ctx, &AssignBadgeRequest{
		BadgeID: badge.ID, UserID: "user-1", CompanyID: "company-1", AssignedBy: "admin-1",
	})
	require.NoError(t, err)

	req := &UnassignBadgeRequest{BadgeID: badge.ID, UserID: "user-1", CompanyID: "company-1"}
	require.NoError(t, svc.UnassignBadge(ctx, req))

	err = svc.UnassignBadge(ctx, req)
	assert.True(t, IsNotFoundError(err), "revoking twice reports not found")
}

func TestBadgeService_AssignBadgeByEmail(t *testing.T) {
	dir := &stubDirectory{
		byEmail: map[string]*models.Member{
			"ada@example.com": {ID: "user-ada", DisplayName: "Ada", Email: "ada@example.com"},
		},
	}
	svc := newTestBadgeService(t, dir)
	ctx := context.Background()
	badge := createTestBadge(t, svc, "company-1", "Gold")

	t.Run("resolves member and assigns", func(t *testing.T) {
		result, err := svc.AssignBadgeByEmail(ctx, &AssignBadgeByEmailRequest{
			BadgeID: badge.ID, Email: "ada@example.com", CompanyID: "company-1", AssignedBy: "admin-1",
		})
		require.NoError(t, err)
		assert.Equal(t, "user-ada", result.Assignment.UserID)
		assert.Equal(t, "Ada", result.Member.DisplayName)
	})

	t.Run("unknown email guides the caller", func(t *testing.T) {
		_, err := svc.AssignBadgeByEmail(ctx, &AssignBadgeByEmailRequest{
			BadgeID: badge.ID, Email: "ghost@example.com", CompanyID: "company-1", AssignedBy: "admin-1",
		})
		require.True(t, IsNotFoundError(err))
		assert.Contains(t, err.Error(), "open the app once")
	})
}

func TestBadgeService_GetUserBadges(t *testing.T) {
	svc := newTestBadgeService(t, nil)
	ctx := context.Background()

	t.Run("no badges yields the unranked sentinel", func(t *testing.T) {
		result, err := svc.GetUserBadges(ctx, "user-1", "company-1")
		require.NoError(t, err)
		assert.Zero(t, result.TotalBadges)
		assert.Equal(t, models.UnrankedOrder, result.HighestBadgeOrder)
	})

	t.Run("highest badge is the lowest order held", func(t *testing.T) {
		gold := createTestBadge(t, svc, "company-1", "Gold")     // order 0
		silver := createTestBadge(t, svc, "company-1", "Silver") // order 1

		for _, b := range []*models.Badge{silver, gold} {
			_, err := svc.AssignBadge(ctx, &AssignBadgeRequest{
				BadgeID: b.ID, UserID: "user-1", CompanyID: "company-1", AssignedBy: "admin-1",
			})
			require.NoError(t, err)
		}

		result, err := svc.GetUserBadges(ctx, "user-1", "company-1")
		require.NoError(t, err)
		assert.Equal(t, 2, result.TotalBadges)
		assert.Equal(t, 0, result.HighestBadgeOrder)
		assert.Equal(t, gold.ID, result.Badges[0].ID, "badges come back in rank order")
	})
}

func TestBadgeService_GetAllUsersWithBadges_DropsStale(t *testing.T) {
	svc := newTestBadgeService(t, nil)
	ctx := context.Background()

	gold := createTestBadge(t, svc, "company-1", "Gold")
	silver := createTestBadge(t, svc, "company-1", "Silver")

	for _, userID := range []string{"user-1", "user-2"} {
		_, err := svc.AssignBadge(ctx, &AssignBadgeRequest{
			BadgeID: gold.ID, UserID: userID, CompanyID: "company-1", AssignedBy: "admin-1",
		})
		require.NoError(t, err)
	}
	_, err := svc.AssignBadge(ctx, &AssignBadgeRequest{
		BadgeID: silver.ID, UserID: "user-1", CompanyID: "company-1", AssignedBy: "admin-1",
	})
	require.NoError(t, err)

	aggregates, err := svc.GetAllUsersWithBadges(ctx, "company-1")
	require.NoError(t, err)
	require.Len(t, aggregates, 2)

	counts := make(map[string]int)
	for _, agg := range aggregates {
		counts[agg.UserID] = agg.TotalBadges
	}
	assert.Equal(t, map[string]int{"user-1": 2, "user-2": 1}, counts)

	// Cascade delete leaves user-2 with nothing; they drop off the aggregate.
	_, err = svc.DeleteBadge(ctx, gold.ID)
	require.NoError(t, err)

	aggregates, err = svc.GetAllUsersWithBadges(ctx, "company-1")
	require.NoError(t, err)
	require.Len(t, aggregates, 1)
	assert.Equal(t, "user-1", aggregates[0].UserID)
	assert.Equal(t, 1, aggregates[0].TotalBadges)
}

func TestBadgeService_GetAdminStatus(t *testing.T) {
	dir := &stubDirectory{access: map[string]directory.AccessLevel{
		"admin-1": directory.AccessAdmin,
		"user-1":  directory.AccessMember,
	}}
	svc := newTestBadgeService(t, dir)
	ctx := context.Background()

	status, err := svc.GetAdminStatus(ctx, "company-1", "admin-1")
	require.NoError(t, err)
	assert.True(t, status.IsAdmin)
	assert.Equal(t, "admin", status.AccessLevel)

	status, err = svc.GetAdminStatus(ctx, "company-1", "user-1")
	require.NoError(t, err)
	assert.False(t, status.IsAdmin)
	assert.Equal(t, "member", status.AccessLevel)

	status, err = svc.GetAdminStatus(ctx, "company-1", "stranger")
	require.NoError(t, err)
	assert.False(t, status.IsAdmin)
	assert.Equal(t, "no_access", status.AccessLevel)
}
