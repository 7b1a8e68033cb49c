// file: internal/repositories/access_repository.go
package repositories

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// memoryAccessRepository tracks observed user ids per company. Append-only
// by contract; Track on an already-known pair is a no-op.
type memoryAccessRepository struct {
	mu      sync.RWMutex
	tracked map[string]map[string]struct{}
	logger  *zap.Logger
}

// NewMemoryAccessRepository creates an in-memory access-tracking repository.
func NewMemoryAccessRepository(logger *zap.Logger) AccessRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &memoryAccessRepository{
		tracked: make(map[string]map[string]struct{}),
		logger:  logger,
	}
}

func (r *memoryAccessRepository) Track(ctx context.Context, companyID, userID string) error {
	if companyID == "" || userID == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users, ok := r.tracked[companyID]
	if !ok {
		users = make(map[string]struct{})
		r.tracked[companyID] = users
	}
	if _, seen := users[userID]; !seen {
		users[userID] = struct{}{}
		r.logger.Debug("user access tracked",
			zap.String("company_id", companyID),
			zap.String("user_id", userID),
		)
	}
	return nil
}

func (r *memoryAccessRepository) ListUsers(ctx context.Context, companyID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := r.tracked[companyID]
	result := make([]string, 0, len(users))
	for id := range users {
		result = append(result, id)
	}
	sort.Strings(result)
	return result, nil
}
