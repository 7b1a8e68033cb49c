// ===============================
// FILE: internal/handlers/api/v1/leaderboard/leaderboard_controller.go
// ===============================

package leaderboard

import (
	"net/http"

	"badgehub/internal/contextutils"
	"badgehub/internal/response"
	"badgehub/internal/services"

	"github.com/gorilla/schema"
	"go.uber.org/zap"
)

// LeaderboardController handles the leaderboard API endpoint
type LeaderboardController struct {
	services        *services.Collection
	logger          *zap.Logger
	responseBuilder *response.Builder
	queryDecoder    *schema.Decoder
}

// NewLeaderboardController creates a new leaderboard controller
func NewLeaderboardController(
	serviceCollection *services.Collection,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *LeaderboardController {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &LeaderboardController{
		services:        serviceCollection,
		logger:          logger,
		responseBuilder: responseBuilder,
		queryDecoder:    decoder,
	}
}

type leaderboardQuery struct {
	CompanyID string `schema:"company_id"`
}

// GetLeaderboard handles fetching a company's ranked member list
// @Summary Get the leaderboard
// @Description Returns the company's members ranked by badge value; the calling user is always included
// @Tags leaderboard
// @Produce json
// @Param company_id query string true "Company ID"
// @Success 200 {object} response.APIResponse{data=[]models.LeaderboardEntry}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /api/v1/leaderboard [get]
func (c *LeaderboardController) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var query leaderboardQuery
	if err := c.queryDecoder.Decode(&query, r.URL.Query()); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid query parameters", err))
		return
	}
	if query.CompanyID == "" {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("company_id query parameter is required", nil))
		return
	}

	callerID := contextutils.GetUserID(ctx)
	_ = c.services.Badge.TrackUserAccess(ctx, query.CompanyID, callerID)

	entries, err := c.services.Leaderboard.GetLeaderboard(ctx, query.CompanyID, callerID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, entries)
}
