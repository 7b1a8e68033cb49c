// ===============================
// FILE: internal/directory/client.go
// ===============================

package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"badgehub/internal/models"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// ClientConfig configures the HTTP directory client.
type ClientConfig struct {
	BaseURL        string
	APIKey         string
	ProductID      string
	RequestTimeout time.Duration
	MaxRetryTime   time.Duration
}

// client talks to the platform's REST API with a bearer-token HTTP client
// and bounded exponential-backoff retries on transient failures.
type client struct {
	cfg    *ClientConfig
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a Directory backed by the platform API.
func NewClient(cfg *ClientConfig, logger *zap.Logger) Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.MaxRetryTime <= 0 {
		cfg.MaxRetryTime = 15 * time.Second
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey})
	httpClient := oauth2.NewClient(context.Background(), src)
	httpClient.Timeout = cfg.RequestTimeout

	return &client{
		cfg:    cfg,
		http:   httpClient,
		logger: logger,
	}
}

// ===============================
// DIRECTORY OPERATIONS
// ===============================

func (c *client) CheckAccess(ctx context.Context, companyID, userID string) (AccessLevel, error) {
	var payload struct {
		HasAccess   bool   `json:"has_access"`
		AccessLevel string `json:"access_level"`
	}

	path := fmt.Sprintf("/v1/users/%s/access/%s", url.PathEscape(userID), url.PathEscape(companyID))
	found, err := c.getJSON(ctx, path, nil, &payload)
	if err != nil {
		return AccessNone, err
	}
	if !found || !payload.HasAccess {
		return AccessNone, nil
	}

	switch payload.AccessLevel {
	case string(AccessAdmin):
		return AccessAdmin, nil
	case string(AccessMember), "customer":
		return AccessMember, nil
	default:
		return AccessNone, nil
	}
}

func (c *client) GetUser(ctx context.Context, userID string) (*models.Member, error) {
	var payload memberPayload

	path := fmt.Sprintf("/v1/users/%s", url.PathEscape(userID))
	found, err := c.getJSON(ctx, path, nil, &payload)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return payload.toMember(), nil
}

func (c *client) ListMembers(ctx context.Context, companyID string) ([]*models.Member, error) {
	// Preferred source: the company member list.
	members, err := c.listCompanyMembers(ctx, companyID)
	if err == nil && len(members) > 0 {
		return members, nil
	}
	if err != nil {
		c.logger.Warn("member list unavailable, falling back to subscriptions",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
	}

	// Fallback: users holding an active subscription with the company.
	return c.listSubscribers(ctx, companyID)
}

func (c *client) FindByEmail(ctx context.Context, companyID, email string) (*models.Member, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	members, err := c.listCompanyMembers(ctx, companyID)
	if err != nil {
		c.logger.Warn("member list unavailable during email lookup",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
	}
	if m := matchEmail(members, email); m != nil {
		return m, nil
	}

	subscribers, err := c.listSubscribers(ctx, companyID)
	if err != nil {
		c.logger.Warn("subscription list unavailable during email lookup",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
	}
	if m := matchEmail(subscribers, email); m != nil {
		return m, nil
	}

	// Last resort: members attached to the configured product.
	if c.cfg.ProductID != "" {
		productMembers, err := c.listProductMembers(ctx, c.cfg.ProductID)
		if err != nil {
			c.logger.Warn("product member list unavailable during email lookup",
				zap.String("product_id", c.cfg.ProductID),
				zap.Error(err),
			)
		}
		if m := matchEmail(productMembers, email); m != nil {
			return m, nil
		}
	}

	return nil, nil
}

// ===============================
// SOURCE LISTINGS
// ===============================

func (c *client) listCompanyMembers(ctx context.Context, companyID string) ([]*models.Member, error) {
	var payload struct {
		Data []memberPayload `json:"data"`
	}

	query := url.Values{"company_id": {companyID}}
	found, err := c.getJSON(ctx, "/v1/members", query, &payload)
	if err != nil || !found {
		return nil, err
	}
	return toMembers(payload.Data), nil
}

func (c *client) listSubscribers(ctx context.Context, companyID string) ([]*models.Member, error) {
	var payload struct {
		Data []struct {
			Status string        `json:"status"`
			User   memberPayload `json:"user"`
		} `json:"data"`
	}

	query := url.Values{"company_id": {companyID}, "status": {"active"}}
	found, err := c.getJSON(ctx, "/v1/subscriptions", query, &payload)
	if err != nil || !found {
		return nil, err
	}

	members := make([]*models.Member, 0, len(payload.Data))
	for _, sub := range payload.Data {
		if m := sub.User.toMember(); m != nil {
			members = append(members, m)
		}
	}
	return members, nil
}

func (c *client) listProductMembers(ctx context.Context, productID string) ([]*models.Member, error) {
	var payload struct {
		Data []memberPayload `json:"data"`
	}

	path := fmt.Sprintf("/v1/products/%s/members", url.PathEscape(productID))
	found, err := c.getJSON(ctx, path, nil, &payload)
	if err != nil || !found {
		return nil, err
	}
	return toMembers(payload.Data), nil
}

// ===============================
// TRANSPORT
// ===============================

// getJSON performs a GET with retries and decodes the body into out.
// Returns found=false for 404 responses. Non-2xx other than 404 is an error;
// 5xx and transport failures are retried, 4xx are not.
func (c *client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) (bool, error) {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = c.cfg.MaxRetryTime

	found := true
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			found = false
			io.Copy(io.Discard, resp.Body)
			return nil
		case resp.StatusCode >= 500:
			io.Copy(io.Discard, resp.Body)
			return fmt.Errorf("platform API %s: status %d", path, resp.StatusCode)
		case resp.StatusCode >= 400:
			io.Copy(io.Discard, resp.Body)
			return backoff.Permanent(fmt.Errorf("platform API %s: status %d", path, resp.StatusCode))
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("platform API %s: decode: %w", path, err))
		}
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return false, err
	}
	return found, nil
}

// ===============================
// PAYLOAD MAPPING
// ===============================

type memberPayload struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture struct {
		SourceURL string `json:"source_url"`
	} `json:"profile_pic_url"`
	ImageURL string `json:"image_url"`
}

func (p *memberPayload) toMember() *models.Member {
	id := p.UserID
	if id == "" {
		id = p.ID
	}
	if id == "" {
		return nil
	}

	avatar := p.ImageURL
	if avatar == "" {
		avatar = p.ProfilePicture.SourceURL
	}

	return &models.Member{
		ID:          id,
		Username:    p.Username,
		DisplayName: p.Name,
		Email:       p.Email,
		Avatar:      avatar,
	}
}

func toMembers(payloads []memberPayload) []*models.Member {
	members := make([]*models.Member, 0, len(payloads))
	for i := range payloads {
		if m := payloads[i].toMember(); m != nil {
			members = append(members, m)
		}
	}
	return members
}

func matchEmail(members []*models.Member, email string) *models.Member {
	if email == "" {
		return nil
	}
	for _, m := range members {
		if strings.ToLower(strings.TrimSpace(m.Email)) == email {
			return m
		}
	}
	return nil
}
