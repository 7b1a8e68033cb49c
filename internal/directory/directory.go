// ===============================
// FILE: internal/directory/directory.go
// ===============================

package directory

import (
	"context"

	"badgehub/internal/models"
)

// AccessLevel is the platform's answer to "what is this user to this company".
type AccessLevel string

const (
	AccessAdmin  AccessLevel = "admin"
	AccessMember AccessLevel = "member"
	AccessNone   AccessLevel = "no_access"
)

// Directory is the single capability surface onto the hosting platform's
// member API. Implementations resolve each operation through an explicit,
// ordered fallback chain rather than probing methods speculatively; callers
// never see which source answered.
//
// Lookups signal "not found" by returning (nil, nil), matching the
// repository convention. Errors mean the platform could not be asked.
type Directory interface {
	// CheckAccess reports the caller's access level for a company.
	CheckAccess(ctx context.Context, companyID, userID string) (AccessLevel, error)

	// GetUser fetches one user's public profile.
	GetUser(ctx context.Context, userID string) (*models.Member, error)

	// ListMembers enumerates a company's members. Fallback chain:
	// member list, then active subscriptions.
	ListMembers(ctx context.Context, companyID string) ([]*models.Member, error)

	// FindByEmail locates a company member by email address. Fallback chain:
	// member list, then active subscriptions, then product members.
	FindByEmail(ctx context.Context, companyID, email string) (*models.Member, error)
}
