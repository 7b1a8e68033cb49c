// ===============================
// FILE: internal/handlers/api/v1/users/users_controller.go
// ===============================

package users

import (
	"net/http"

	"badgehub/internal/contextutils"
	"badgehub/internal/response"
	"badgehub/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
	"go.uber.org/zap"
)

// UserController handles the per-user API endpoints
type UserController struct {
	services        *services.Collection
	logger          *zap.Logger
	responseBuilder *response.Builder
	queryDecoder    *schema.Decoder
}

// NewUserController creates a new user controller
func NewUserController(
	serviceCollection *services.Collection,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *UserController {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &UserController{
		services:        serviceCollection,
		logger:          logger,
		responseBuilder: responseBuilder,
		queryDecoder:    decoder,
	}
}

type companyQuery struct {
	CompanyID string `schema:"company_id"`
}

// GetUserBadges handles fetching a user's badges within a company
// @Summary Get a user's badges
// @Description Returns the user's badges in rank order plus the derived ranking keys
// @Tags users
// @Produce json
// @Param userID path string true "User ID"
// @Param company_id query string true "Company ID"
// @Success 200 {object} response.APIResponse{data=models.UserBadges}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /api/v1/users/{userID}/badges [get]
func (c *UserController) GetUserBadges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	targetID := chi.URLParam(r, "userID")

	query, err := c.parseCompanyQuery(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	// Both ends of this read matter to the leaderboard.
	_ = c.services.Badge.TrackUserAccess(ctx, query.CompanyID, contextutils.GetUserID(ctx))
	_ = c.services.Badge.TrackUserAccess(ctx, query.CompanyID, targetID)

	userBadges, err := c.services.Badge.GetUserBadges(ctx, targetID, query.CompanyID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, userBadges)
}

// GetAdminStatus answers whether the caller administers a company
// @Summary Get admin status
// @Description Reports whether the authenticated user is an admin of the company. Only answers for the caller's own id.
// @Tags users
// @Produce json
// @Param userID path string true "User ID (must match the caller)"
// @Param company_id query string true "Company ID"
// @Success 200 {object} response.APIResponse{data=services.AdminStatus}
// @Failure 403 {object} response.APIResponse
// @Router /api/v1/users/{userID}/admin [get]
func (c *UserController) GetAdminStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	targetID := chi.URLParam(r, "userID")
	callerID := contextutils.GetUserID(ctx)

	if targetID != callerID {
		c.responseBuilder.WriteError(w, r,
			services.NewForbiddenError("admin status can only be queried for the authenticated user"))
		return
	}

	query, err := c.parseCompanyQuery(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	status, err := c.services.Badge.GetAdminStatus(ctx, query.CompanyID, callerID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, status)
}

func (c *UserController) parseCompanyQuery(r *http.Request) (*companyQuery, error) {
	var query companyQuery
	if err := c.queryDecoder.Decode(&query, r.URL.Query()); err != nil {
		return nil, services.NewValidationError("invalid query parameters", err)
	}
	if query.CompanyID == "" {
		return nil, services.NewValidationError("company_id query parameter is required", nil)
	}
	return &query, nil
}
