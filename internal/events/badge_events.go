// internal/events/badge_events.go
package events

import (
	"time"

	"badgehub/internal/models"
)

// Event types for the badge domain
const (
	EventBadgeCreated    = "badge.created"
	EventBadgeUpdated    = "badge.updated"
	EventBadgeDeleted    = "badge.deleted"
	EventBadgesReordered = "badge.reordered"
	EventBadgeAssigned   = "badge.assigned"
	EventBadgeUnassigned = "badge.unassigned"
)

// BadgeCreatedEvent fires when a badge is minted for a company
type BadgeCreatedEvent struct {
	BaseEvent
	BadgeID   string `json:"badge_id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	Order     int    `json:"order"`
}

// NewBadgeCreatedEvent builds a BadgeCreatedEvent from a badge
func NewBadgeCreatedEvent(badge *models.Badge) *BadgeCreatedEvent {
	return &BadgeCreatedEvent{
		BaseEvent: newBase(EventBadgeCreated),
		BadgeID:   badge.ID,
		CompanyID: badge.CompanyID,
		Name:      badge.Name,
		Order:     badge.Order,
	}
}

// BadgeUpdatedEvent fires when a badge's fields change
type BadgeUpdatedEvent struct {
	BaseEvent
	BadgeID   string `json:"badge_id"`
	CompanyID string `json:"company_id"`
}

// NewBadgeUpdatedEvent builds a BadgeUpdatedEvent from a badge
func NewBadgeUpdatedEvent(badge *models.Badge) *BadgeUpdatedEvent {
	return &BadgeUpdatedEvent{
		BaseEvent: newBase(EventBadgeUpdated),
		BadgeID:   badge.ID,
		CompanyID: badge.CompanyID,
	}
}

// BadgeDeletedEvent fires when a badge is removed along with its assignments
type BadgeDeletedEvent struct {
	BaseEvent
	BadgeID            string `json:"badge_id"`
	CompanyID          string `json:"company_id"`
	RemovedAssignments int    `json:"removed_assignments"`
}

// NewBadgeDeletedEvent builds a BadgeDeletedEvent
func NewBadgeDeletedEvent(badge *models.Badge, removedAssignments int) *BadgeDeletedEvent {
	return &BadgeDeletedEvent{
		BaseEvent:          newBase(EventBadgeDeleted),
		BadgeID:            badge.ID,
		CompanyID:          badge.CompanyID,
		RemovedAssignments: removedAssignments,
	}
}

// BadgesReorderedEvent fires when a company's badge ranking is reindexed
type BadgesReorderedEvent struct {
	BaseEvent
	CompanyID string   `json:"company_id"`
	BadgeIDs  []string `json:"badge_ids"`
}

// NewBadgesReorderedEvent builds a BadgesReorderedEvent
func NewBadgesReorderedEvent(companyID string, badgeIDs []string) *BadgesReorderedEvent {
	return &BadgesReorderedEvent{
		BaseEvent: newBase(EventBadgesReordered),
		CompanyID: companyID,
		BadgeIDs:  badgeIDs,
	}
}

// BadgeAssignedEvent fires when a user is granted a badge
type BadgeAssignedEvent struct {
	BaseEvent
	AssignmentID string `json:"assignment_id"`
	BadgeID      string `json:"badge_id"`
	UserID       string `json:"user_id"`
	CompanyID    string `json:"company_id"`
	AssignedBy   string `json:"assigned_by"`
}

// NewBadgeAssignedEvent builds a BadgeAssignedEvent from an assignment
func NewBadgeAssignedEvent(assignment *models.BadgeAssignment) *BadgeAssignedEvent {
	return &BadgeAssignedEvent{
		BaseEvent:    newBase(EventBadgeAssigned),
		AssignmentID: assignment.ID,
		BadgeID:      assignment.BadgeID,
		UserID:       assignment.UserID,
		CompanyID:    assignment.CompanyID,
		AssignedBy:   assignment.AssignedBy,
	}
}

// BadgeUnassignedEvent fires when a badge is revoked from a user
type BadgeUnassignedEvent struct {
	BaseEvent
	BadgeID   string `json:"badge_id"`
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
}

// NewBadgeUnassignedEvent builds a BadgeUnassignedEvent
func NewBadgeUnassignedEvent(badgeID, userID, companyID string) *BadgeUnassignedEvent {
	return &BadgeUnassignedEvent{
		BaseEvent: newBase(EventBadgeUnassigned),
		BadgeID:   badgeID,
		UserID:    userID,
		CompanyID: companyID,
	}
}

func newBase(eventType string) BaseEvent {
	return BaseEvent{
		EventID:   GenerateEventID(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
	}
}
