// ===============================
// FILE: internal/services/leaderboard_service.go
// ===============================

package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"badgehub/internal/cache"
	"badgehub/internal/directory"
	"badgehub/internal/models"

	"go.uber.org/zap"
)

// leaderboardService assembles the ranked member view for a tenant by
// joining badge aggregates with directory profiles.
type leaderboardService struct {
	badges    BadgeService
	directory directory.Directory
	cache     cache.Cache
	logger    *zap.Logger
	config    *LeaderboardConfig
}

// LeaderboardConfig holds leaderboard service configuration
type LeaderboardConfig struct {
	CacheTime           time.Duration `json:"cache_time"`
	ProfileFetchWorkers int           `json:"profile_fetch_workers"`
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(
	badges BadgeService,
	dir directory.Directory,
	cache cache.Cache,
	logger *zap.Logger,
	config *LeaderboardConfig,
) LeaderboardService {
	if config == nil {
		config = DefaultLeaderboardConfig()
	}

	return &leaderboardService{
		badges:    badges,
		directory: dir,
		cache:     cache,
		logger:    logger,
		config:    config,
	}
}

// DefaultLeaderboardConfig returns default leaderboard configuration
func DefaultLeaderboardConfig() *LeaderboardConfig {
	return &LeaderboardConfig{
		CacheTime:           30 * time.Second,
		ProfileFetchWorkers: 8,
	}
}

// GetLeaderboard builds the full ranked list for a company. The candidate
// set is the union of badge holders, access-tracked users, directory
// members, and the caller, so members appear even before their first badge.
func (s *leaderboardService) GetLeaderboard(ctx context.Context, companyID, callerID string) ([]*models.LeaderboardEntry, error) {
	if companyID == "" {
		return nil, NewValidationError("company id is required", nil)
	}

	cacheKey := fmt.Sprintf("leaderboard:%s", companyID)
	if callerID == "" {
		// Caller inclusion makes cached results caller-dependent; only the
		// anonymous view is shared.
		if cached, found := s.cache.Get(ctx, cacheKey); found {
			if entries, ok := cached.([]*models.LeaderboardEntry); ok {
				return entries, nil
			}
		}
	}

	aggregates, err := s.badges.GetAllUsersWithBadges(ctx, companyID)
	if err != nil {
		return nil, err
	}
	aggregateByUser := make(map[string]*models.UserBadges, len(aggregates))
	for _, agg := range aggregates {
		aggregateByUser[agg.UserID] = agg
	}

	candidates := make(map[string]bool, len(aggregates))
	for _, agg := range aggregates {
		candidates[agg.UserID] = true
	}

	tracked, err := s.badges.GetTrackedUsers(ctx, companyID)
	if err != nil {
		s.logger.Warn("Tracked users unavailable for leaderboard",
			zap.Error(err),
			zap.String("company_id", companyID),
		)
	}
	for _, id := range tracked {
		candidates[id] = true
	}

	// Directory members widen the board; profile data from this listing also
	// spares per-user fetches below.
	profiles := make(map[string]*models.Member)
	members, err := s.directory.ListMembers(ctx, companyID)
	if err != nil {
		s.logger.Warn("Member directory unavailable for leaderboard",
			zap.Error(err),
			zap.String("company_id", companyID),
		)
	}
	for _, m := range members {
		candidates[m.ID] = true
		profiles[m.ID] = m
	}

	if callerID != "" {
		candidates[callerID] = true
	}

	s.fetchMissingProfiles(ctx, candidates, profiles)

	entries := make([]*models.LeaderboardEntry, 0, len(candidates))
	for userID := range candidates {
		entries = append(entries, s.buildEntry(userID, aggregateByUser[userID], profiles[userID]))
	}
	RankLeaderboard(entries)

	if callerID == "" {
		if err := s.cache.Set(ctx, cacheKey, entries, s.config.CacheTime); err != nil {
			s.logger.Debug("Failed to cache leaderboard", zap.Error(err))
		}
	}

	s.logger.Debug("Leaderboard assembled",
		zap.String("company_id", companyID),
		zap.Int("entries", len(entries)),
	)
	return entries, nil
}

// fetchMissingProfiles resolves profiles for candidates the member listing
// did not cover. Failures degrade to a placeholder name, never an error.
func (s *leaderboardService) fetchMissingProfiles(ctx context.Context, candidates map[string]bool, profiles map[string]*models.Member) {
	var missing []string
	for userID := range candidates {
		if _, ok := profiles[userID]; !ok {
			missing = append(missing, userID)
		}
	}
	if len(missing) == 0 {
		return
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, s.config.ProfileFetchWorkers)
	)
	for _, userID := range missing {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			member, err := s.directory.GetUser(ctx, userID)
			if err != nil || member == nil {
				if err != nil {
					s.logger.Debug("Profile fetch failed",
						zap.Error(err),
						zap.String("user_id", userID),
					)
				}
				return
			}
			mu.Lock()
			profiles[userID] = member
			mu.Unlock()
		}(userID)
	}
	wg.Wait()
}

func (s *leaderboardService) buildEntry(userID string, agg *models.UserBadges, profile *models.Member) *models.LeaderboardEntry {
	entry := &models.LeaderboardEntry{
		UserID:            userID,
		DisplayName:       placeholderName(userID),
		Badges:            []*models.Badge{},
		HighestBadgeOrder: models.UnrankedOrder,
	}

	if profile != nil {
		entry.Username = profile.Username
		entry.Avatar = profile.Avatar
		switch {
		case profile.DisplayName != "":
			entry.DisplayName = profile.DisplayName
		case profile.Username != "":
			entry.DisplayName = profile.Username
		}
	}

	if agg != nil && agg.TotalBadges > 0 {
		entry.Badges = agg.Badges
		entry.TotalBadges = agg.TotalBadges
		entry.HighestBadgeOrder = agg.HighestBadgeOrder
		entry.HighestBadge = agg.Badges[0]
	}
	return entry
}

// placeholderName is the display name for users whose profile could not be
// resolved.
func placeholderName(userID string) string {
	const prefixLen = 8
	if len(userID) > prefixLen {
		return "User " + userID[:prefixLen]
	}
	return "User " + userID
}

// RankLeaderboard sorts entries into the canonical order: badge holders
// before badge-less users, then highest badge value (lowest order) first,
// then most badges, then display name ascending case-insensitively, with
// user id as the final deterministic tie-break.
func RankLeaderboard(entries []*models.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]

		aBadged, bBadged := a.TotalBadges > 0, b.TotalBadges > 0
		if aBadged != bBadged {
			return aBadged
		}
		if a.HighestBadgeOrder != b.HighestBadgeOrder {
			return a.HighestBadgeOrder < b.HighestBadgeOrder
		}
		if a.TotalBadges != b.TotalBadges {
			return a.TotalBadges > b.TotalBadges
		}
		an, bn := strings.ToLower(a.DisplayName), strings.ToLower(b.DisplayName)
		if an != bn {
			return an < bn
		}
		return a.UserID < b.UserID
	})
}
