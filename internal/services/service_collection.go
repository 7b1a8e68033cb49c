// ===============================
// FILE: internal/services/service_collection.go
// ===============================

package services

import (
	"badgehub/internal/cache"
	"badgehub/internal/directory"
	"badgehub/internal/events"
	"badgehub/internal/repositories"

	"go.uber.org/zap"
)

// Collection bundles every service behind one constructor so wiring in main
// stays a single call.
type Collection struct {
	Badge       BadgeService
	Leaderboard LeaderboardService
}

// NewCollection wires the service layer together.
func NewCollection(
	repos *repositories.Collection,
	dir directory.Directory,
	cacheProvider cache.Cache,
	eventBus events.EventBus,
	logger *zap.Logger,
) *Collection {
	badgeService := NewBadgeService(repos, dir, cacheProvider, eventBus, logger, nil)

	return &Collection{
		Badge:       badgeService,
		Leaderboard: NewLeaderboardService(badgeService, dir, cacheProvider, logger, nil),
	}
}
