// file: internal/repositories/interfaces.go
package repositories

import (
	"context"

	"badgehub/internal/models"
)

// ===============================
// CORE REPOSITORY INTERFACES
// ===============================

// UpdateBadgeParams carries a partial badge update. Nil fields are left
// untouched; in particular a nil Order preserves the badge's current rank.
type UpdateBadgeParams struct {
	Name        *string
	Emoji       *string
	Color       *string
	Description *string
	Order       *int
}

// BadgeRepository defines the contract for badge definition storage.
// Lookups signal "not found" by returning (nil, nil); errors are reserved
// for storage failures so durable implementations can slot in unchanged.
type BadgeRepository interface {
	Create(ctx context.Context, badge *models.Badge) error
	// GetByID trims surrounding whitespace from id; empty input is not found.
	GetByID(ctx context.Context, id string) (*models.Badge, error)
	// GetByCompany returns the company's badges ascending by order, ties
	// broken by creation time then id.
	GetByCompany(ctx context.Context, companyID string) ([]*models.Badge, error)
	Update(ctx context.Context, id string, params *UpdateBadgeParams) (*models.Badge, error)
	Delete(ctx context.Context, id string) (bool, error)
	// NextOrder returns max(order)+1 over the company's badges, or 0 when
	// the company has none.
	NextOrder(ctx context.Context, companyID string) (int, error)
	// ReorderAll assigns order = position for each id in the given sequence.
	// This is a full reindex: callers supply the company's complete ordering.
	// Ids not present in the store are skipped.
	ReorderAll(ctx context.Context, ids []string) error
}

// AssignmentRepository defines the contract for badge assignment storage.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.BadgeAssignment) error
	GetByTriple(ctx context.Context, badgeID, userID, companyID string) (*models.BadgeAssignment, error)
	DeleteByTriple(ctx context.Context, badgeID, userID, companyID string) (bool, error)
	ListByUser(ctx context.Context, userID, companyID string) ([]*models.BadgeAssignment, error)
	// ListByBadge returns every assignment referencing a badge across all
	// companies; cascade delete uses it.
	ListByBadge(ctx context.Context, badgeID string) ([]*models.BadgeAssignment, error)
	ListByCompany(ctx context.Context, companyID string) ([]*models.BadgeAssignment, error)
	DeleteByBadge(ctx context.Context, badgeID string) (int, error)
}

// AccessRepository records which user ids have been observed per company.
// Append-only; nothing is ever evicted.
type AccessRepository interface {
	Track(ctx context.Context, companyID, userID string) error
	ListUsers(ctx context.Context, companyID string) ([]string, error)
}
