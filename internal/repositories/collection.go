// file: internal/repositories/collection.go
package repositories

import "go.uber.org/zap"

// Collection bundles every repository behind one constructor so wiring in
// main stays a single call.
type Collection struct {
	Badge      BadgeRepository
	Assignment AssignmentRepository
	Access     AccessRepository
}

// NewCollection creates the in-memory repository set.
func NewCollection(logger *zap.Logger) *Collection {
	return &Collection{
		Badge:      NewMemoryBadgeRepository(logger),
		Assignment: NewMemoryAssignmentRepository(logger),
		Access:     NewMemoryAccessRepository(logger),
	}
}
