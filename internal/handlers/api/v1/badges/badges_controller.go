// ===============================
// FILE: internal/handlers/api/v1/badges/badges_controller.go
// ===============================

package badges

import (
	"encoding/json"
	"net/http"

	"badgehub/internal/contextutils"
	"badgehub/internal/response"
	"badgehub/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
	"go.uber.org/zap"
)

// BadgeController handles the badge API endpoints
type BadgeController struct {
	services        *services.Collection
	logger          *zap.Logger
	responseBuilder *response.Builder
	queryDecoder    *schema.Decoder
}

// NewBadgeController creates a new badge controller
func NewBadgeController(
	serviceCollection *services.Collection,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *BadgeController {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &BadgeController{
		services:        serviceCollection,
		logger:          logger,
		responseBuilder: responseBuilder,
		queryDecoder:    decoder,
	}
}

// companyQuery is the query-string shape shared by badge reads.
type companyQuery struct {
	CompanyID string `schema:"company_id"`
}

// ===============================
// BADGE CRUD
// ===============================

// ListBadges handles listing a company's badges
// @Summary List badges
// @Description Returns a company's badges in rank order (lowest order first)
// @Tags badges
// @Produce json
// @Param company_id query string true "Company ID"
// @Success 200 {object} response.APIResponse{data=[]models.Badge}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /api/v1/badges [get]
func (c *BadgeController) ListBadges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query, err := c.parseCompanyQuery(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	// Seeing this caller is what lets them show up on leaderboards later.
	_ = c.services.Badge.TrackUserAccess(ctx, query.CompanyID, contextutils.GetUserID(ctx))

	badges, err := c.services.Badge.ListBadges(ctx, query.CompanyID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, badges)
}

// CreateBadge handles badge creation
// @Summary Create a badge
// @Description Creates a badge at the end of the company's ranking. Admin only.
// @Tags badges
// @Accept json
// @Produce json
// @Param request body services.CreateBadgeRequest true "Badge to create"
// @Success 201 {object} response.APIResponse{data=models.Badge}
// @Failure 400 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /api/v1/badges [post]
func (c *BadgeController) CreateBadge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req services.CreateBadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.CreatedBy = contextutils.GetUserID(ctx)

	if err := c.requireAdmin(r, req.CompanyID); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	badge, err := c.services.Badge.CreateBadge(ctx, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteCreated(w, r, badge)
}

// ReorderBadges handles full reindexing of a company's badge ranking
// @Summary Reorder badges
// @Description Replaces the company's badge ordering; position in the list becomes the badge's order. Admin only.
// @Tags badges
// @Accept json
// @Produce json
// @Param request body services.ReorderBadgesRequest true "Complete ordering"
// @Success 200 {object} response.APIResponse{data=[]models.Badge}
// @Failure 400 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /api/v1/badges [patch]
func (c *BadgeController) ReorderBadges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req services.ReorderBadgesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	if err := c.requireAdmin(r, req.CompanyID); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	badges, err := c.services.Badge.ReorderBadges(ctx, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, badges)
}

// GetBadge handles fetching one badge
// @Summary Get a badge
// @Tags badges
// @Produce json
// @Param badgeID path string true "Badge ID"
// @Success 200 {object} response.APIResponse{data=models.Badge}
// @Failure 404 {object} response.APIResponse
// @Router /api/v1/badges/{badgeID} [get]
func (c *BadgeController) GetBadge(w http.ResponseWriter, r *http.Request) {
	badge, err := c.services.Badge.GetBadge(r.Context(), chi.URLParam(r, "badgeID"))
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, badge)
}

// UpdateBadge handles partial badge updates
// @Summary Update a badge
// @Description Merges the provided fields over the badge; omitted fields, including order, are preserved. Admin only.
// @Tags badges
// @Accept json
// @Produce json
// @Param badgeID path string true "Badge ID"
// @Param request body services.UpdateBadgeRequest true "Fields to update"
// @Success 200 {object} response.APIResponse{data=models.Badge}
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /api/v1/badges/{badgeID} [patch]
func (c *BadgeController) UpdateBadge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	badgeID := chi.URLParam(r, "badgeID")

	// Admin scope comes from the badge's own company.
	badge, err := c.services.Badge.GetBadge(ctx, badgeID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	if err := c.requireAdmin(r, badge.CompanyID); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	var req services.UpdateBadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	updated, err := c.services.Badge.UpdateBadge(ctx, badgeID, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, updated)
}

// DeleteBadge handles badge deletion with assignment cascade
// @Summary Delete a badge
// @Description Removes the badge and every assignment referencing it. Admin only.
// @Tags badges
// @Produce json
// @Param badgeID path string true "Badge ID"
// @Success 200 {object} response.APIResponse{data=services.DeleteBadgeResult}
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /api/v1/badges/{badgeID} [delete]
func (c *BadgeController) DeleteBadge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	badgeID := chi.URLParam(r, "badgeID")

	badge, err := c.services.Badge.GetBadge(ctx, badgeID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	if err := c.requireAdmin(r, badge.CompanyID); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	result, err := c.services.Badge.DeleteBadge(ctx, badgeID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, result)
}

// ===============================
// ASSIGNMENTS
// ===============================

// AssignBadge handles granting a badge to a user
// @Summary Assign a badge
// @Description Grants a badge to a user. Idempotent on the (badge, user, company) triple. Admin only.
// @Tags badges
// @Accept json
// @Produce json
// @Param request body services.AssignBadgeRequest true "Assignment"
// @Success 200 {object} response.APIResponse{data=models.BadgeAssignment}
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /api/v1/badges/assign [post]
func (c *BadgeController) AssignBadge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req services.AssignBadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.AssignedBy = contextutils.GetUserID(ctx)

	if err := c.requireAdmin(r, req.CompanyID); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	assignment, err := c.services.Badge.AssignBadge(ctx, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, assignment)
}

// UnassignBadge handles revoking a badge from a user
// @Summary Unassign a badge
// @Description Revokes a badge from a user. Admin only.
// @Tags badges
// @Accept json
// @Produce json
// @Param request body services.UnassignBadgeRequest true "Assignment to revoke"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /api/v1/badges/unassign [post]
func (c *BadgeController) UnassignBadge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req services.UnassignBadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	if err := c.requireAdmin(r, req.CompanyID); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	if err := c.services.Badge.UnassignBadge(ctx, &req); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, map[string]bool{"removed": true})
}

// AssignBadgeByEmail handles granting a badge to a member located by email
// @Summary Assign a badge by email
// @Description Resolves a company member by email through the directory and grants them the badge. Admin only.
// @Tags badges
// @Accept json
// @Produce json
// @Param request body services.AssignBadgeByEmailRequest true "Assignment by email"
// @Success 200 {object} response.APIResponse{data=services.AssignBadgeByEmailResult}
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /api/v1/badges/assign-by-email [post]
func (c *BadgeController) AssignBadgeByEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req services.AssignBadgeByEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.AssignedBy = contextutils.GetUserID(ctx)

	if err := c.requireAdmin(r, req.CompanyID); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	result, err := c.services.Badge.AssignBadgeByEmail(ctx, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, result)
}

// ===============================
// INTERNALS
// ===============================

func (c *BadgeController) parseCompanyQuery(r *http.Request) (*companyQuery, error) {
	var query companyQuery
	if err := c.queryDecoder.Decode(&query, r.URL.Query()); err != nil {
		return nil, services.NewValidationError("invalid query parameters", err)
	}
	if query.CompanyID == "" {
		return nil, services.NewValidationError("company_id query parameter is required", nil)
	}
	return &query, nil
}

// requireAdmin verifies the caller administers the company, echoing their
// actual access level back on refusal.
func (c *BadgeController) requireAdmin(r *http.Request, companyID string) error {
	ctx := r.Context()
	userID := contextutils.GetUserID(ctx)
	if userID == "" {
		return services.NewUnauthorizedError("authentication required")
	}
	if companyID == "" {
		return services.NewValidationError("company_id is required", nil)
	}

	status, err := c.services.Badge.GetAdminStatus(ctx, companyID, userID)
	if err != nil {
		return err
	}
	if !status.IsAdmin {
		return services.NewForbiddenError("admin access required").WithDetails(map[string]interface{}{
			"access_level": status.AccessLevel,
		})
	}

	// Admins count as active users too.
	_ = c.services.Badge.TrackUserAccess(ctx, companyID, userID)
	return nil
}
