package services

import (
	"context"
	"testing"

	"badgehub/internal/cache"
	"badgehub/internal/directory"
	"badgehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLeaderboardService(t *testing.T, dir directory.Directory) (BadgeService, LeaderboardService) {
	t.Helper()
	logger := zap.NewNop()
	if dir == nil {
		dir = &stubDirectory{}
	}

	badgeService := newTestBadgeService(t, dir)

	cacheProvider := cache.NewMemoryCache(cache.DefaultConfig(), logger)
	t.Cleanup(func() { _ = cacheProvider.Close() })

	return badgeService, NewLeaderboardService(badgeService, dir, cacheProvider, logger, nil)
}

func TestRankLeaderboard(t *testing.T) {
	entry := func(userID, displayName string, total, highest int) *models.LeaderboardEntry {
		e := &models.LeaderboardEntry{
			UserID:            userID,
			DisplayName:       displayName,
			TotalBadges:       total,
			HighestBadgeOrder: models.UnrankedOrder,
		}
		if total > 0 {
			e.HighestBadgeOrder = highest
		}
		return e
	}

	entries := []*models.LeaderboardEntry{
		entry("user-none-2", "aaron", 0, 0), // badge-less, name would win otherwise
		entry("user-low", "Zoe", 1, 3),      // worst badge among holders
		entry("user-many", "carol", 3, 0),   // top badge, most of them
		entry("user-few-b", "bob", 1, 0),    // ties user-few-a on order and count
		entry("user-few-a", "Bob", 1, 0),    // same name case-insensitively, id breaks tie
		entry("user-none", "Aaron", 0, 0),   // ties user-none-2 on name, id breaks tie
		entry("user-mid", "dave", 2, 1),     // between top and bottom holders
	}

	RankLeaderboard(entries)

	got := make([]string, len(entries))
	for i, e := range entries {
		got[i] = e.UserID
	}

	assert.Equal(t, []string{
		"user-many",  // best badge, most badges
		"user-few-a", // best badge, fewer badges, "bob" ties, lower id
		"user-few-b",
		"user-mid",
		"user-low",
		"user-none", // badge-less sink to the bottom, "aaron" ties, lower id
		"user-none-2",
	}, got)
}

func TestLeaderboardService_GetLeaderboard(t *testing.T) {
	dir := &stubDirectory{
		users: map[string]*models.Member{
			"user-1": {ID: "user-1", DisplayName: "Ada", Username: "ada"},
			"user-2": {ID: "user-2", DisplayName: "Grace", Username: "grace"},
		},
		members: []*models.Member{
			{ID: "user-3", DisplayName: "Edsger", Username: "edsger"},
		},
	}
	badgeService, leaderboardService := newTestLeaderboardService(t, dir)
	ctx := context.Background()

	gold := createTestBadge(t, badgeService, "company-1", "Gold")     // order 0
	silver := createTestBadge(t, badgeService, "company-1", "Silver") // order 1

	assign := func(badgeID, userID string) {
		t.Helper()
		_, err := badgeService.AssignBadge(ctx, &AssignBadgeRequest{
			BadgeID: badgeID, UserID: userID, CompanyID: "company-1", AssignedBy: "admin-1",
		})
		require.NoError(t, err)
	}
	assign(gold.ID, "user-1")
	assign(silver.ID, "user-2")

	t.Run("union of holders, members, and caller in rank order", func(t *testing.T) {
		entries, err := leaderboardService.GetLeaderboard(ctx, "company-1", "user-9")
		require.NoError(t, err)

		ids := make([]string, len(entries))
		for i, e := range entries {
			ids[i] = e.UserID
		}
		// user-1 holds gold, user-2 holds silver; user-3 is a member with no
		// badges and the caller user-9 is unknown everywhere.
		assert.Equal(t, []string{"user-1", "user-2", "user-3", "user-9"}, ids)
	})

	t.Run("profiles resolve through the directory", func(t *testing.T) {
		entries, err := leaderboardService.GetLeaderboard(ctx, "company-1", "")
		require.NoError(t, err)

		byID := make(map[string]*models.LeaderboardEntry)
		for _, e := range entries {
			byID[e.UserID] = e
		}
		assert.Equal(t, "Ada", byID["user-1"].DisplayName)
		assert.Equal(t, "Edsger", byID["user-3"].DisplayName)
	})

	t.Run("unresolvable profiles degrade to a placeholder", func(t *testing.T) {
		entries, err := leaderboardService.GetLeaderboard(ctx, "company-1", "user-abcdefgh-rest")
		require.NoError(t, err)

		var caller *models.LeaderboardEntry
		for _, e := range entries {
			if e.UserID == "user-abcdefgh-rest" {
				caller = e
			}
		}
		require.NotNil(t, caller, "the caller always appears on the board")
		assert.Equal(t, "User user-abc", caller.DisplayName)
	})

	t.Run("badge fields fill in for holders", func(t *testing.T) {
		entries, err := leaderboardService.GetLeaderboard(ctx, "company-1", "")
		require.NoError(t, err)

		top := entries[0]
		assert.Equal(t, "user-1", top.UserID)
		assert.Equal(t, 1, top.TotalBadges)
		assert.Equal(t, 0, top.HighestBadgeOrder)
		require.NotNil(t, top.HighestBadge)
		assert.Equal(t, gold.ID, top.HighestBadge.ID)
	})

	t.Run("badge-less entries carry the sentinel", func(t *testing.T) {
		entries, err := leaderboardService.GetLeaderboard(ctx, "company-1", "")
		require.NoError(t, err)

		last := entries[len(entries)-1]
		assert.Zero(t, last.TotalBadges)
		assert.Equal(t, models.UnrankedOrder, last.HighestBadgeOrder)
		assert.NotNil(t, last.Badges)
		assert.Empty(t, last.Badges)
	})

	t.Run("company id is required", func(t *testing.T) {
		_, err := leaderboardService.GetLeaderboard(ctx, "", "user-1")
		assert.True(t, IsValidationError(err))
	})
}

func TestLeaderboardService_TrackedUsersAppear(t *testing.T) {
	badgeService, leaderboardService := newTestLeaderboardService(t, nil)
	ctx := context.Background()

	// A lurker who only ever read the badge list still makes the board.
	require.NoError(t, badgeService.TrackUserAccess(ctx, "company-1", "lurker-1"))

	entries, err := leaderboardService.GetLeaderboard(ctx, "company-1", "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "lurker-1", entries[0].UserID)
	assert.Equal(t, "User lurker-1", entries[0].DisplayName)
}
