// file: internal/repositories/assignment_repository.go
package repositories

import (
	"context"
	"sort"
	"sync"

	"badgehub/internal/models"

	"go.uber.org/zap"
)

// memoryAssignmentRepository implements AssignmentRepository over a
// mutex-guarded map keyed by assignment id.
type memoryAssignmentRepository struct {
	mu          sync.RWMutex
	assignments map[string]*models.BadgeAssignment
	logger      *zap.Logger
}

// NewMemoryAssignmentRepository creates an in-memory assignment repository.
func NewMemoryAssignmentRepository(logger *zap.Logger) AssignmentRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &memoryAssignmentRepository{
		assignments: make(map[string]*models.BadgeAssignment),
		logger:      logger,
	}
}

func (r *memoryAssignmentRepository) Create(ctx context.Context, assignment *models.BadgeAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.assignments[assignment.ID] = assignment

	r.logger.Debug("assignment stored",
		zap.String("assignment_id", assignment.ID),
		zap.String("badge_id", assignment.BadgeID),
		zap.String("user_id", assignment.UserID),
		zap.String("company_id", assignment.CompanyID),
	)
	return nil
}

func (r *memoryAssignmentRepository) GetByTriple(ctx context.Context, badgeID, userID, companyID string) (*models.BadgeAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.assignments {
		if a.BadgeID == badgeID && a.UserID == userID && a.CompanyID == companyID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memoryAssignmentRepository) DeleteByTriple(ctx context.Context, badgeID, userID, companyID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.assignments {
		if a.BadgeID == badgeID && a.UserID == userID && a.CompanyID == companyID {
			delete(r.assignments, id)
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryAssignmentRepository) ListByUser(ctx context.Context, userID, companyID string) ([]*models.BadgeAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.BadgeAssignment
	for _, a := range r.assignments {
		if a.UserID == userID && a.CompanyID == companyID {
			copied := *a
			result = append(result, &copied)
		}
	}
	sortAssignments(result)
	return result, nil
}

func (r *memoryAssignmentRepository) ListByBadge(ctx context.Context, badgeID string) ([]*models.BadgeAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.BadgeAssignment
	for _, a := range r.assignments {
		if a.BadgeID == badgeID {
			copied := *a
			result = append(result, &copied)
		}
	}
	sortAssignments(result)
	return result, nil
}

func (r *memoryAssignmentRepository) ListByCompany(ctx context.Context, companyID string) ([]*models.BadgeAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.BadgeAssignment
	for _, a := range r.assignments {
		if a.CompanyID == companyID {
			copied := *a
			result = append(result, &copied)
		}
	}
	sortAssignments(result)
	return result, nil
}

func (r *memoryAssignmentRepository) DeleteByBadge(ctx context.Context, badgeID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, a := range r.assignments {
		if a.BadgeID == badgeID {
			delete(r.assignments, id)
			removed++
		}
	}
	if removed > 0 {
		r.logger.Debug("assignments cascade deleted",
			zap.String("badge_id", badgeID),
			zap.Int("count", removed),
		)
	}
	return removed, nil
}

// sortAssignments gives listings a stable order (assigned time, then id) so
// results never depend on map iteration.
func sortAssignments(assignments []*models.BadgeAssignment) {
	sort.SliceStable(assignments, func(i, j int) bool {
		if !assignments[i].AssignedAt.Equal(assignments[j].AssignedAt) {
			return assignments[i].AssignedAt.Before(assignments[j].AssignedAt)
		}
		return assignments[i].ID < assignments[j].ID
	})
}
