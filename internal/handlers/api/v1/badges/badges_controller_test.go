package badges

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"badgehub/internal/cache"
	"badgehub/internal/contextutils"
	"badgehub/internal/directory"
	"badgehub/internal/events"
	"badgehub/internal/models"
	"badgehub/internal/repositories"
	"badgehub/internal/response"
	"badgehub/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubDirectory answers access checks from a fixed table and knows no users.
type stubDirectory struct {
	access map[string]directory.AccessLevel
}

func (d *stubDirectory) CheckAccess(ctx context.Context, companyID, userID string) (directory.AccessLevel, error) {
	if level, ok := d.access[userID]; ok {
		return level, nil
	}
	return directory.AccessNone, nil
}

func (d *stubDirectory) GetUser(ctx context.Context, userID string) (*models.Member, error) {
	return nil, nil
}

func (d *stubDirectory) ListMembers(ctx context.Context, companyID string) ([]*models.Member, error) {
	return nil, nil
}

func (d *stubDirectory) FindByEmail(ctx context.Context, companyID, email string) (*models.Member, error) {
	return nil, nil
}

type testEnv struct {
	router   chi.Router
	services *services.Collection
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	bus := events.NewEventBus(nil, logger)
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })

	cacheProvider := cache.NewMemoryCache(cache.DefaultConfig(), logger)
	t.Cleanup(func() { _ = cacheProvider.Close() })

	dir := &stubDirectory{access: map[string]directory.AccessLevel{
		"admin-1":  directory.AccessAdmin,
		"member-1": directory.AccessMember,
	}}

	serviceCollection := services.NewCollection(
		repositories.NewCollection(logger), dir, cacheProvider, bus, logger)

	controller := NewBadgeController(serviceCollection,
		logger, response.NewBuilder(response.DefaultConfig(), logger))

	r := chi.NewRouter()
	r.Route("/badges", func(r chi.Router) {
		r.Get("/", controller.ListBadges)
		r.Post("/", controller.CreateBadge)
		r.Patch("/", controller.ReorderBadges)
		r.Post("/assign", controller.AssignBadge)
		r.Post("/unassign", controller.UnassignBadge)
		r.Route("/{badgeID}", func(r chi.Router) {
			r.Get("/", controller.GetBadge)
			r.Patch("/", controller.UpdateBadge)
			r.Delete("/", controller.DeleteBadge)
		})
	})

	return &testEnv{router: r, services: serviceCollection}
}

// do executes a request as the given user and decodes the envelope.
func (e *testEnv) do(t *testing.T, userID, method, path string, body interface{}) (*httptest.ResponseRecorder, *response.APIResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		req = req.WithContext(contextutils.WithUserID(req.Context(), userID))
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var envelope response.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, &envelope
}

func (e *testEnv) createBadge(t *testing.T, name string) *models.Badge {
	t.Helper()
	badge, err := e.services.Badge.CreateBadge(context.Background(), &services.CreateBadgeRequest{
		CompanyID: "company-1",
		Name:      name,
		Emoji:     "🏆",
		Color:     "#112233",
		CreatedBy: "admin-1",
	})
	require.NoError(t, err)
	return badge
}

func TestBadgeController_CreateBadge(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]string{
		"company_id": "company-1",
		"name":       "Gold",
		"emoji":      "🥇",
		"color":      "#ffd700",
	}

	t.Run("admin creates a badge", func(t *testing.T) {
		rec, envelope := env.do(t, "admin-1", http.MethodPost, "/badges", body)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, envelope.Success)

		data, ok := envelope.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Gold", data["name"])
		assert.Equal(t, float64(0), data["order"])
		assert.Equal(t, "admin-1", data["created_by"], "creator comes from the token, not the body")
	})

	t.Run("member is refused with their access level", func(t *testing.T) {
		rec, envelope := env.do(t, "member-1", http.MethodPost, "/badges", body)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "member", envelope.Error.Details["access_level"])
	})

	t.Run("anonymous caller is unauthorized", func(t *testing.T) {
		rec, _ := env.do(t, "", http.MethodPost, "/badges", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestBadgeController_ListBadges(t *testing.T) {
	env := newTestEnv(t)
	env.createBadge(t, "Gold")
	env.createBadge(t, "Silver")

	t.Run("any authenticated user can list", func(t *testing.T) {
		rec, envelope := env.do(t, "member-1", http.MethodGet, "/badges?company_id=company-1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		data, ok := envelope.Data.([]interface{})
		require.True(t, ok)
		assert.Len(t, data, 2)
	})

	t.Run("listing tracks the caller", func(t *testing.T) {
		tracked, err := env.services.Badge.GetTrackedUsers(context.Background(), "company-1")
		require.NoError(t, err)
		assert.Contains(t, tracked, "member-1")
	})

	t.Run("company_id is required", func(t *testing.T) {
		rec, _ := env.do(t, "member-1", http.MethodGet, "/badges", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBadgeController_UpdateBadge_AdminScopeFromBadge(t *testing.T) {
	env := newTestEnv(t)
	badge := env.createBadge(t, "Gold")

	t.Run("member cannot update", func(t *testing.T) {
		rec, _ := env.do(t, "member-1", http.MethodPatch, "/badges/"+badge.ID,
			map[string]string{"name": "Platinum"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin updates without touching the order", func(t *testing.T) {
		rec, envelope := env.do(t, "admin-1", http.MethodPatch, "/badges/"+badge.ID,
			map[string]string{"name": "Platinum"})
		require.Equal(t, http.StatusOK, rec.Code)

		data, ok := envelope.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Platinum", data["name"])
		assert.Equal(t, float64(badge.Order), data["order"])
	})

	t.Run("unknown badge is 404", func(t *testing.T) {
		rec, _ := env.do(t, "admin-1", http.MethodPatch, "/badges/missing",
			map[string]string{"name": "x"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestBadgeController_DeleteBadge_ReportsCascade(t *testing.T) {
	env := newTestEnv(t)
	badge := env.createBadge(t, "Gold")

	for _, userID := range []string{"user-1", "user-2"} {
		_, err := env.services.Badge.AssignBadge(context.Background(), &services.AssignBadgeRequest{
			BadgeID: badge.ID, UserID: userID, CompanyID: "company-1", AssignedBy: "admin-1",
		})
		require.NoError(t, err)
	}

	rec, envelope := env.do(t, "admin-1", http.MethodDelete, "/badges/"+badge.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, badge.ID, data["badge_id"])
	assert.Equal(t, float64(2), data["removed_assignments"])
}

func TestBadgeController_ReorderBadges(t *testing.T) {
	env := newTestEnv(t)
	gold := env.createBadge(t, "Gold")
	silver := env.createBadge(t, "Silver")

	rec, envelope := env.do(t, "admin-1", http.MethodPatch, "/badges", map[string]interface{}{
		"company_id": "company-1",
		"badge_ids":  []string{silver.ID, gold.ID},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	data, ok := envelope.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, data, 2)
	first, ok := data[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, silver.ID, first["id"])
	assert.Equal(t, float64(0), first["order"])
}

func TestBadgeController_AssignBadge(t *testing.T) {
	env := newTestEnv(t)
	badge := env.createBadge(t, "Gold")

	body := map[string]string{
		"badge_id":   badge.ID,
		"user_id":    "user-1",
		"company_id": "company-1",
	}

	rec, envelope := env.do(t, "admin-1", http.MethodPost, "/badges/assign", body)
	require.Equal(t, http.StatusOK, rec.Code)

	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "user-1", data["user_id"])
	assert.Equal(t, "admin-1", data["assigned_by"], "assigner comes from the token")

	t.Run("repeat assignment returns the same record", func(t *testing.T) {
		rec, repeat := env.do(t, "admin-1", http.MethodPost, "/badges/assign", body)
		require.Equal(t, http.StatusOK, rec.Code)

		repeatData, ok := repeat.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, data["id"], repeatData["id"])
	})
}
