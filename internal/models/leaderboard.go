package models

// Member is the profile shape the member directory returns for a user.
// The store layer never holds these; they are fetched on demand.
type Member struct {
	ID          string `json:"id"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

// LeaderboardEntry is one row of a company leaderboard: directory profile
// data joined with the user's badge aggregate.
type LeaderboardEntry struct {
	UserID            string   `json:"user_id"`
	DisplayName       string   `json:"display_name"`
	Username          string   `json:"username,omitempty"`
	Avatar            string   `json:"avatar,omitempty"`
	Badges            []*Badge `json:"badges"`
	TotalBadges       int      `json:"total_badges"`
	HighestBadge      *Badge   `json:"highest_badge,omitempty"`
	HighestBadgeOrder int      `json:"highest_badge_order"`
}

// AccessRecord marks that a user has been observed interacting with a
// company. Append-only; used to surface badge-less users on leaderboards.
type AccessRecord struct {
	CompanyID string `json:"company_id"`
	UserID    string `json:"user_id"`
}
