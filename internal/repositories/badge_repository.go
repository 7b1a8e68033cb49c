// file: internal/repositories/badge_repository.go
package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"badgehub/internal/models"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// memoryBadgeRepository implements BadgeRepository over a mutex-guarded map.
// It is the only backing store the service ships with; the interface exists
// so a durable implementation can replace it without touching callers.
type memoryBadgeRepository struct {
	mu     sync.RWMutex
	badges map[string]*models.Badge
	logger *zap.Logger
}

// NewMemoryBadgeRepository creates an in-memory badge repository.
func NewMemoryBadgeRepository(logger *zap.Logger) BadgeRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &memoryBadgeRepository{
		badges: make(map[string]*models.Badge),
		logger: logger,
	}
}

// NewID generates an opaque record identifier.
func NewID() string {
	if id, err := uuid.NewV4(); err == nil {
		return id.String()
	}
	// uuid.NewV4 only fails when the entropy source does; fall back to V1.
	return uuid.Must(uuid.NewV1()).String()
}

func (r *memoryBadgeRepository) Create(ctx context.Context, badge *models.Badge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.badges[badge.ID] = badge

	r.logger.Debug("badge stored",
		zap.String("badge_id", badge.ID),
		zap.String("company_id", badge.CompanyID),
		zap.Int("order", badge.Order),
	)
	return nil
}

func (r *memoryBadgeRepository) GetByID(ctx context.Context, id string) (*models.Badge, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	badge, ok := r.badges[id]
	if !ok {
		return nil, nil
	}
	copied := *badge
	return &copied, nil
}

func (r *memoryBadgeRepository) GetByCompany(ctx context.Context, companyID string) ([]*models.Badge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Badge
	for _, badge := range r.badges {
		if badge.CompanyID == companyID {
			copied := *badge
			result = append(result, &copied)
		}
	}
	SortBadges(result)
	return result, nil
}

func (r *memoryBadgeRepository) Update(ctx context.Context, id string, params *UpdateBadgeParams) (*models.Badge, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	badge, ok := r.badges[id]
	if !ok {
		return nil, nil
	}

	if params.Name != nil {
		badge.Name = *params.Name
	}
	if params.Emoji != nil {
		badge.Emoji = *params.Emoji
	}
	if params.Color != nil {
		badge.Color = *params.Color
	}
	if params.Description != nil {
		badge.Description = *params.Description
	}
	if params.Order != nil {
		badge.Order = *params.Order
	}

	copied := *badge
	return &copied, nil
}

func (r *memoryBadgeRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.badges[id]; !ok {
		return false, nil
	}
	delete(r.badges, id)
	return true, nil
}

func (r *memoryBadgeRepository) NextOrder(ctx context.Context, companyID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	next := 0
	for _, badge := range r.badges {
		if badge.CompanyID == companyID && badge.Order >= next {
			next = badge.Order + 1
		}
	}
	return next, nil
}

func (r *memoryBadgeRepository) ReorderAll(ctx context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for position, id := range ids {
		if badge, ok := r.badges[id]; ok {
			badge.Order = position
		}
	}
	return nil
}

// SortBadges orders badges ascending by order with deterministic tie-breaks:
// creation time, then id. Duplicate and non-contiguous orders are legal
// (reordering and deletion can both produce them), so the tie-break chain is
// what keeps listings stable.
func SortBadges(badges []*models.Badge) {
	sort.SliceStable(badges, func(i, j int) bool {
		if badges[i].Order != badges[j].Order {
			return badges[i].Order < badges[j].Order
		}
		if !badges[i].CreatedAt.Equal(badges[j].CreatedAt) {
			return badges[i].CreatedAt.Before(badges[j].CreatedAt)
		}
		return badges[i].ID < badges[j].ID
	})
}
