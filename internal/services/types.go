// ===============================
// FILE: internal/services/types.go
// ===============================

package services

import "badgehub/internal/models"

// ===============================
// BADGE REQUESTS
// ===============================

// CreateBadgeRequest carries everything needed to mint a badge for a tenant.
type CreateBadgeRequest struct {
	CompanyID   string `json:"company_id" validate:"required"`
	Name        string `json:"name" validate:"required,max=100"`
	Emoji       string `json:"emoji" validate:"required,max=16"`
	Color       string `json:"color" validate:"required,hexcolor"`
	Description string `json:"description" validate:"max=500"`
	CreatedBy   string `json:"created_by" validate:"required"`
}

// UpdateBadgeRequest is a partial update; nil fields are left as they are.
// Omitting Order preserves the badge's current rank.
type UpdateBadgeRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Emoji       *string `json:"emoji,omitempty" validate:"omitempty,min=1,max=16"`
	Color       *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Order       *int    `json:"order,omitempty" validate:"omitempty,min=0"`
}

// ReorderBadgesRequest supplies a tenant's complete badge ordering. Position
// in the slice becomes the badge's order.
type ReorderBadgesRequest struct {
	CompanyID string   `json:"company_id" validate:"required"`
	BadgeIDs  []string `json:"badge_ids" validate:"required,min=1,dive,required"`
}

// DeleteBadgeResult reports the outcome of a cascade delete.
type DeleteBadgeResult struct {
	BadgeID            string `json:"badge_id"`
	RemovedAssignments int    `json:"removed_assignments"`
}

// ===============================
// ASSIGNMENT REQUESTS
// ===============================

// AssignBadgeRequest grants a badge to a user within a tenant.
type AssignBadgeRequest struct {
	BadgeID    string `json:"badge_id" validate:"required"`
	UserID     string `json:"user_id" validate:"required"`
	CompanyID  string `json:"company_id" validate:"required"`
	AssignedBy string `json:"assigned_by" validate:"required"`
}

// UnassignBadgeRequest revokes a badge from a user within a tenant.
type UnassignBadgeRequest struct {
	BadgeID   string `json:"badge_id" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
	CompanyID string `json:"company_id" validate:"required"`
}

// AssignBadgeByEmailRequest grants a badge to a member located by email
// through the directory fallback chain.
type AssignBadgeByEmailRequest struct {
	BadgeID    string `json:"badge_id" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	CompanyID  string `json:"company_id" validate:"required"`
	AssignedBy string `json:"assigned_by" validate:"required"`
}

// AssignBadgeByEmailResult bundles the assignment with the resolved member.
type AssignBadgeByEmailResult struct {
	Assignment *models.BadgeAssignment `json:"assignment"`
	Member     *models.Member          `json:"member"`
}

// ===============================
// ACCESS / ADMIN RESPONSES
// ===============================

// AdminStatus answers "is this user an admin of this company".
type AdminStatus struct {
	IsAdmin     bool   `json:"is_admin"`
	AccessLevel string `json:"access_level"`
}
