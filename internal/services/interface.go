// ===============================
// FILE: internal/services/interface.go
// ===============================

package services

import (
	"context"

	"badgehub/internal/models"
)

// BadgeService owns the badge, assignment, and access-tracking business rules
// for one process. All operations are tenant scoped.
type BadgeService interface {
	// Badge lifecycle
	CreateBadge(ctx context.Context, req *CreateBadgeRequest) (*models.Badge, error)
	GetBadge(ctx context.Context, badgeID string) (*models.Badge, error)
	ListBadges(ctx context.Context, companyID string) ([]*models.Badge, error)
	UpdateBadge(ctx context.Context, badgeID string, req *UpdateBadgeRequest) (*models.Badge, error)
	DeleteBadge(ctx context.Context, badgeID string) (*DeleteBadgeResult, error)
	ReorderBadges(ctx context.Context, req *ReorderBadgesRequest) ([]*models.Badge, error)

	// Assignments
	AssignBadge(ctx context.Context, req *AssignBadgeRequest) (*models.BadgeAssignment, error)
	UnassignBadge(ctx context.Context, req *UnassignBadgeRequest) error
	AssignBadgeByEmail(ctx context.Context, req *AssignBadgeByEmailRequest) (*AssignBadgeByEmailResult, error)

	// Derived read models
	GetUserBadges(ctx context.Context, userID, companyID string) (*models.UserBadges, error)
	GetAllUsersWithBadges(ctx context.Context, companyID string) ([]*models.UserBadges, error)

	// Access tracking
	TrackUserAccess(ctx context.Context, companyID, userID string) error
	GetTrackedUsers(ctx context.Context, companyID string) ([]string, error)

	// Authorization helpers
	GetAdminStatus(ctx context.Context, companyID, userID string) (*AdminStatus, error)
}

// LeaderboardService assembles the ranked member view for a tenant.
type LeaderboardService interface {
	// GetLeaderboard unions badge holders, tracked users, directory members,
	// and the caller, resolves profiles, and returns entries in rank order.
	GetLeaderboard(ctx context.Context, companyID, callerID string) ([]*models.LeaderboardEntry, error)
}
