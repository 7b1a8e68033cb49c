package models

import "time"

// UnrankedOrder is the sentinel rank for users holding no badges. It is
// larger than any real badge order, so badge-less users always sort after
// badge holders. JSON has no Infinity, so a large integer is used instead.
const UnrankedOrder = int(1<<31 - 1)

// Badge is a named, styled label a company (tenant) can grant to its members.
// Lower Order means higher value.
type Badge struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	Name        string    `json:"name"`
	Emoji       string    `json:"emoji"`
	Color       string    `json:"color"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by"`
	Order       int       `json:"order"`
}

// BadgeAssignment records that a specific user holds a specific badge within
// a specific company. At most one assignment exists per
// (badge_id, user_id, company_id) triple.
type BadgeAssignment struct {
	ID         string    `json:"id"`
	BadgeID    string    `json:"badge_id"`
	UserID     string    `json:"user_id"`
	CompanyID  string    `json:"company_id"`
	AssignedAt time.Time `json:"assigned_at"`
	AssignedBy string    `json:"assigned_by"`
}

// UserBadges is the per-user aggregate over a company's assignments: the
// resolved badges in rank order plus the derived ranking keys.
type UserBadges struct {
	UserID string `json:"user_id"`
	// Badges are sorted ascending by order (most valuable first). Assignments
	// whose badge no longer exists are dropped, not surfaced.
	Badges            []*Badge `json:"badges"`
	TotalBadges       int      `json:"total_badges"`
	HighestBadgeOrder int      `json:"highest_badge_order"`
}
