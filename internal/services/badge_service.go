// ===============================
// FILE: internal/services/badge_service.go
// ===============================

package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"badgehub/internal/cache"
	"badgehub/internal/directory"
	"badgehub/internal/events"
	"badgehub/internal/models"
	"badgehub/internal/repositories"
	"badgehub/internal/validation"

	"go.uber.org/zap"
)

// badgeService implements BadgeService on top of the repository collection.
type badgeService struct {
	badgeRepo      repositories.BadgeRepository
	assignmentRepo repositories.AssignmentRepository
	accessRepo     repositories.AccessRepository
	directory      directory.Directory
	cache          cache.Cache
	events         events.EventBus
	logger         *zap.Logger
	config         *BadgeServiceConfig
}

// BadgeServiceConfig holds badge service configuration
type BadgeServiceConfig struct {
	DefaultCacheTime time.Duration `json:"default_cache_time"`
	MaxBadgesPerUser int           `json:"max_badges_per_user"`
}

// NewBadgeService creates a new badge service
func NewBadgeService(
	repos *repositories.Collection,
	dir directory.Directory,
	cache cache.Cache,
	eventBus events.EventBus,
	logger *zap.Logger,
	config *BadgeServiceConfig,
) BadgeService {
	if config == nil {
		config = DefaultBadgeConfig()
	}

	return &badgeService{
		badgeRepo:      repos.Badge,
		assignmentRepo: repos.Assignment,
		accessRepo:     repos.Access,
		directory:      dir,
		cache:          cache,
		events:         eventBus,
		logger:         logger,
		config:         config,
	}
}

// DefaultBadgeConfig returns default badge service configuration
func DefaultBadgeConfig() *BadgeServiceConfig {
	return &BadgeServiceConfig{
		DefaultCacheTime: 5 * time.Minute,
		MaxBadgesPerUser: 0, // unlimited
	}
}

// ===============================
// BADGE LIFECYCLE
// ===============================

// CreateBadge mints a badge for a tenant. The new badge goes to the end of
// the tenant's ranking (max existing order + 1, or 0 for the first badge).
func (s *badgeService) CreateBadge(ctx context.Context, req *CreateBadgeRequest) (*models.Badge, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid create badge request", err)
	}

	order, err := s.badgeRepo.NextOrder(ctx, req.CompanyID)
	if err != nil {
		s.logger.Error("Failed to compute next badge order", zap.Error(err))
		return nil, NewInternalError("failed to create badge")
	}

	badge := &models.Badge{
		ID:          repositories.NewID(),
		CompanyID:   req.CompanyID,
		Name:        strings.TrimSpace(req.Name),
		Emoji:       req.Emoji,
		Color:       req.Color,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   time.Now().UTC(),
		CreatedBy:   req.CreatedBy,
		Order:       order,
	}

	if err := s.badgeRepo.Create(ctx, badge); err != nil {
		s.logger.Error("Failed to create badge", zap.Error(err))
		return nil, NewInternalError("failed to create badge")
	}

	s.invalidateCompanyCaches(ctx, badge.CompanyID)
	s.publish(ctx, events.NewBadgeCreatedEvent(badge))

	s.logger.Info("Badge created",
		zap.String("badge_id", badge.ID),
		zap.String("company_id", badge.CompanyID),
		zap.String("name", badge.Name),
		zap.Int("order", badge.Order),
	)
	return badge, nil
}

// GetBadge looks a badge up by id. Surrounding whitespace in the id is
// tolerated; empty input is a not-found, not a validation error.
func (s *badgeService) GetBadge(ctx context.Context, badgeID string) (*models.Badge, error) {
	badge, err := s.badgeRepo.GetByID(ctx, badgeID)
	if err != nil {
		s.logger.Error("Failed to get badge", zap.Error(err), zap.String("badge_id", badgeID))
		return nil, NewInternalError("failed to retrieve badge")
	}
	if badge == nil {
		return nil, NewNotFoundError("badge not found")
	}
	return badge, nil
}

// ListBadges returns a tenant's badges in rank order.
func (s *badgeService) ListBadges(ctx context.Context, companyID string) ([]*models.Badge, error) {
	if companyID == "" {
		return nil, NewValidationError("company id is required", nil)
	}

	cacheKey := badgeListCacheKey(companyID)
	if cached, found := s.cache.Get(ctx, cacheKey); found {
		if badges, ok := cached.([]*models.Badge); ok {
			return badges, nil
		}
	}

	badges, err := s.badgeRepo.GetByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("Failed to list badges", zap.Error(err), zap.String("company_id", companyID))
		return nil, NewInternalError("failed to list badges")
	}

	if err := s.cache.Set(ctx, cacheKey, badges, s.config.DefaultCacheTime); err != nil {
		s.logger.Debug("Failed to cache badge list", zap.Error(err))
	}
	return badges, nil
}

// UpdateBadge merges the provided fields over the existing record. Identity
// fields (id, company, creator, creation time) are never touched, and an
// omitted Order keeps the current rank.
func (s *badgeService) UpdateBadge(ctx context.Context, badgeID string, req *UpdateBadgeRequest) (*models.Badge, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid update badge request", err)
	}

	params := &repositories.UpdateBadgeParams{
		Name:        req.Name,
		Emoji:       req.Emoji,
		Color:       req.Color,
		Description: req.Description,
		Order:       req.Order,
	}

	badge, err := s.badgeRepo.Update(ctx, badgeID, params)
	if err != nil {
		s.logger.Error("Failed to update badge", zap.Error(err), zap.String("badge_id", badgeID))
		return nil, NewInternalError("failed to update badge")
	}
	if badge == nil {
		return nil, NewNotFoundError("badge not found")
	}

	s.invalidateCompanyCaches(ctx, badge.CompanyID)
	s.publish(ctx, events.NewBadgeUpdatedEvent(badge))

	s.logger.Info("Badge updated",
		zap.String("badge_id", badge.ID),
		zap.String("company_id", badge.CompanyID),
	)
	return badge, nil
}

// DeleteBadge removes a badge and cascades over every assignment referencing
// it, across tenants.
func (s *badgeService) DeleteBadge(ctx context.Context, badgeID string) (*DeleteBadgeResult, error) {
	badge, err := s.badgeRepo.GetByID(ctx, badgeID)
	if err != nil {
		s.logger.Error("Failed to load badge for delete", zap.Error(err), zap.String("badge_id", badgeID))
		return nil, NewInternalError("failed to delete badge")
	}
	if badge == nil {
		return nil, NewNotFoundError("badge not found")
	}

	existed, err := s.badgeRepo.Delete(ctx, badge.ID)
	if err != nil {
		s.logger.Error("Failed to delete badge", zap.Error(err), zap.String("badge_id", badge.ID))
		return nil, NewInternalError("failed to delete badge")
	}
	if !existed {
		return nil, NewNotFoundError("badge not found")
	}

	removed, err := s.assignmentRepo.DeleteByBadge(ctx, badge.ID)
	if err != nil {
		s.logger.Error("Failed to cascade assignments", zap.Error(err), zap.String("badge_id", badge.ID))
		return nil, NewInternalError("failed to delete badge assignments")
	}

	s.invalidateCompanyCaches(ctx, badge.CompanyID)
	s.publish(ctx, events.NewBadgeDeletedEvent(badge, removed))

	s.logger.Info("Badge deleted",
		zap.String("badge_id", badge.ID),
		zap.String("company_id", badge.CompanyID),
		zap.Int("removed_assignments", removed),
	)
	return &DeleteBadgeResult{BadgeID: badge.ID, RemovedAssignments: removed}, nil
}

// ReorderBadges performs a full reindex: position in BadgeIDs becomes the
// badge's order. Every id must belong to the tenant; unknown or foreign ids
// reject the whole request.
func (s *badgeService) ReorderBadges(ctx context.Context, req *ReorderBadgesRequest) ([]*models.Badge, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid reorder request", err)
	}

	owned, err := s.badgeRepo.GetByCompany(ctx, req.CompanyID)
	if err != nil {
		s.logger.Error("Failed to load badges for reorder", zap.Error(err), zap.String("company_id", req.CompanyID))
		return nil, NewInternalError("failed to reorder badges")
	}

	ownedIDs := make(map[string]bool, len(owned))
	for _, b := range owned {
		ownedIDs[b.ID] = true
	}
	for _, id := range req.BadgeIDs {
		if !ownedIDs[id] {
			return nil, NewValidationError(
				fmt.Sprintf("badge %s does not belong to this company", id), nil)
		}
	}

	if err := s.badgeRepo.ReorderAll(ctx, req.BadgeIDs); err != nil {
		s.logger.Error("Failed to reorder badges", zap.Error(err), zap.String("company_id", req.CompanyID))
		return nil, NewInternalError("failed to reorder badges")
	}

	s.invalidateCompanyCaches(ctx, req.CompanyID)
	s.publish(ctx, events.NewBadgesReorderedEvent(req.CompanyID, req.BadgeIDs))

	badges, err := s.badgeRepo.GetByCompany(ctx, req.CompanyID)
	if err != nil {
		return nil, NewInternalError("failed to reload badges")
	}

	s.logger.Info("Badges reordered",
		zap.String("company_id", req.CompanyID),
		zap.Int("count", len(req.BadgeIDs)),
	)
	return badges, nil
}

// ===============================
// ASSIGNMENTS
// ===============================

// AssignBadge grants a badge to a user. Idempotent: repeating the same
// (badge, user, company) triple returns the existing assignment untouched.
func (s *badgeService) AssignBadge(ctx context.Context, req *AssignBadgeRequest) (*models.BadgeAssignment, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid assign request", err)
	}

	badge, err := s.badgeRepo.GetByID(ctx, req.BadgeID)
	if err != nil {
		return nil, NewInternalError("failed to load badge")
	}
	if badge == nil {
		return nil, NewNotFoundError("badge not found")
	}
	if badge.CompanyID != req.CompanyID {
		return nil, NewForbiddenError("badge belongs to a different company")
	}

	existing, err := s.assignmentRepo.GetByTriple(ctx, req.BadgeID, req.UserID, req.CompanyID)
	if err != nil {
		return nil, NewInternalError("failed to check existing assignment")
	}
	if existing != nil {
		s.logger.Debug("Badge already assigned",
			zap.String("badge_id", req.BadgeID),
			zap.String("user_id", req.UserID),
		)
		return existing, nil
	}

	assignment := &models.BadgeAssignment{
		ID:         repositories.NewID(),
		BadgeID:    req.BadgeID,
		UserID:     req.UserID,
		CompanyID:  req.CompanyID,
		AssignedAt: time.Now().UTC(),
		AssignedBy: req.AssignedBy,
	}
	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		s.logger.Error("Failed to create assignment", zap.Error(err))
		return nil, NewInternalError("failed to assign badge")
	}

	// The recipient now matters to the leaderboard even if they never call in.
	if err := s.accessRepo.Track(ctx, req.CompanyID, req.UserID); err != nil {
		s.logger.Warn("Failed to track assignment target", zap.Error(err))
	}

	s.invalidateCompanyCaches(ctx, req.CompanyID)
	s.publish(ctx, events.NewBadgeAssignedEvent(assignment))

	s.logger.Info("Badge assigned",
		zap.String("badge_id", req.BadgeID),
		zap.String("user_id", req.UserID),
		zap.String("company_id", req.CompanyID),
		zap.String("assigned_by", req.AssignedBy),
	)
	return assignment, nil
}

// UnassignBadge revokes a badge from a user. A missing assignment is a
// not-found error at this layer.
func (s *badgeService) UnassignBadge(ctx context.Context, req *UnassignBadgeRequest) error {
	if err := validation.ValidateStruct(req); err != nil {
		return NewValidationError("invalid unassign request", err)
	}

	removed, err := s.assignmentRepo.DeleteByTriple(ctx, req.BadgeID, req.UserID, req.CompanyID)
	if err != nil {
		s.logger.Error("Failed to delete assignment", zap.Error(err))
		return NewInternalError("failed to unassign badge")
	}
	if !removed {
		return NewNotFoundError("assignment not found")
	}

	s.invalidateCompanyCaches(ctx, req.CompanyID)
	s.publish(ctx, events.NewBadgeUnassignedEvent(req.BadgeID, req.UserID, req.CompanyID))

	s.logger.Info("Badge unassigned",
		zap.String("badge_id", req.BadgeID),
		zap.String("user_id", req.UserID),
		zap.String("company_id", req.CompanyID),
	)
	return nil
}

// AssignBadgeByEmail resolves a member through the directory fallback chain
// and assigns the badge to them.
func (s *badgeService) AssignBadgeByEmail(ctx context.Context, req *AssignBadgeByEmailRequest) (*AssignBadgeByEmailResult, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid assign-by-email request", err)
	}

	member, err := s.directory.FindByEmail(ctx, req.CompanyID, req.Email)
	if err != nil {
		s.logger.Error("Directory lookup failed",
			zap.Error(err),
			zap.String("company_id", req.CompanyID),
		)
		return nil, NewServiceUnavailableError("member directory unavailable")
	}
	if member == nil {
		return nil, NewNotFoundError(
			"no member with that email was found; ask them to open the app once so they can be assigned directly")
	}

	assignment, err := s.AssignBadge(ctx, &AssignBadgeRequest{
		BadgeID:    req.BadgeID,
		UserID:     member.ID,
		CompanyID:  req.CompanyID,
		AssignedBy: req.AssignedBy,
	})
	if err != nil {
		return nil, err
	}

	return &AssignBadgeByEmailResult{Assignment: assignment, Member: member}, nil
}

// ===============================
// DERIVED READ MODELS
// ===============================

// GetUserBadges resolves a user's assignments to badges in rank order.
// Assignments whose badge no longer exists are dropped silently.
func (s *badgeService) GetUserBadges(ctx context.Context, userID, companyID string) (*models.UserBadges, error) {
	if userID == "" || companyID == "" {
		return nil, NewValidationError("user id and company id are required", nil)
	}

	assignments, err := s.assignmentRepo.ListByUser(ctx, userID, companyID)
	if err != nil {
		s.logger.Error("Failed to list user assignments", zap.Error(err), zap.String("user_id", userID))
		return nil, NewInternalError("failed to load user badges")
	}

	badges := make([]*models.Badge, 0, len(assignments))
	for _, a := range assignments {
		badge, err := s.badgeRepo.GetByID(ctx, a.BadgeID)
		if err != nil {
			return nil, NewInternalError("failed to resolve badge")
		}
		if badge != nil {
			badges = append(badges, badge)
		}
	}
	repositories.SortBadges(badges)

	result := &models.UserBadges{
		UserID:            userID,
		Badges:            badges,
		TotalBadges:       len(badges),
		HighestBadgeOrder: models.UnrankedOrder,
	}
	if len(badges) > 0 {
		result.HighestBadgeOrder = badges[0].Order
	}
	return result, nil
}

// GetAllUsersWithBadges groups a tenant's assignments by user and computes
// each user's badge aggregate. Users appear at most once.
func (s *badgeService) GetAllUsersWithBadges(ctx context.Context, companyID string) ([]*models.UserBadges, error) {
	if companyID == "" {
		return nil, NewValidationError("company id is required", nil)
	}

	assignments, err := s.assignmentRepo.ListByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("Failed to list company assignments", zap.Error(err), zap.String("company_id", companyID))
		return nil, NewInternalError("failed to load assignments")
	}

	badgesByID := make(map[string]*models.Badge)
	byUser := make(map[string][]*models.Badge)
	var userOrder []string

	for _, a := range assignments {
		badge, ok := badgesByID[a.BadgeID]
		if !ok {
			badge, err = s.badgeRepo.GetByID(ctx, a.BadgeID)
			if err != nil {
				return nil, NewInternalError("failed to resolve badge")
			}
			badgesByID[a.BadgeID] = badge
		}
		if badge == nil {
			// Stale assignment; its badge was deleted out from under it.
			continue
		}
		if _, seen := byUser[a.UserID]; !seen {
			userOrder = append(userOrder, a.UserID)
		}
		byUser[a.UserID] = append(byUser[a.UserID], badge)
	}

	results := make([]*models.UserBadges, 0, len(byUser))
	for _, userID := range userOrder {
		badges := byUser[userID]
		repositories.SortBadges(badges)
		entry := &models.UserBadges{
			UserID:            userID,
			Badges:            badges,
			TotalBadges:       len(badges),
			HighestBadgeOrder: models.UnrankedOrder,
		}
		if len(badges) > 0 {
			entry.HighestBadgeOrder = badges[0].Order
		}
		results = append(results, entry)
	}
	return results, nil
}

// ===============================
// ACCESS TRACKING
// ===============================

// TrackUserAccess records that a user has been observed for a tenant.
// Idempotent and never a caller-visible failure.
func (s *badgeService) TrackUserAccess(ctx context.Context, companyID, userID string) error {
	if err := s.accessRepo.Track(ctx, companyID, userID); err != nil {
		s.logger.Warn("Failed to track user access",
			zap.Error(err),
			zap.String("company_id", companyID),
			zap.String("user_id", userID),
		)
	}
	return nil
}

// GetTrackedUsers returns every user id observed for a tenant.
func (s *badgeService) GetTrackedUsers(ctx context.Context, companyID string) ([]string, error) {
	users, err := s.accessRepo.ListUsers(ctx, companyID)
	if err != nil {
		return nil, NewInternalError("failed to load tracked users")
	}
	return users, nil
}

// ===============================
// AUTHORIZATION HELPERS
// ===============================

// GetAdminStatus asks the platform whether a user administers a company.
func (s *badgeService) GetAdminStatus(ctx context.Context, companyID, userID string) (*AdminStatus, error) {
	level, err := s.directory.CheckAccess(ctx, companyID, userID)
	if err != nil {
		s.logger.Error("Access check failed",
			zap.Error(err),
			zap.String("company_id", companyID),
			zap.String("user_id", userID),
		)
		return nil, NewServiceUnavailableError("access check unavailable")
	}
	return &AdminStatus{
		IsAdmin:     level == directory.AccessAdmin,
		AccessLevel: string(level),
	}, nil
}

// ===============================
// INTERNALS
// ===============================

func (s *badgeService) publish(ctx context.Context, event events.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.Error(err),
			zap.String("event_type", event.GetEventType()),
		)
	}
}

func (s *badgeService) invalidateCompanyCaches(ctx context.Context, companyID string) {
	if err := s.cache.DeletePattern(ctx, fmt.Sprintf("badges:%s:*", companyID)); err != nil {
		s.logger.Debug("Failed to invalidate badge caches", zap.Error(err))
	}
}

func badgeListCacheKey(companyID string) string {
	return fmt.Sprintf("badges:%s:list", companyID)
}
