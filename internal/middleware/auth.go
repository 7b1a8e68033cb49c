// file: internal/middleware/auth.go
package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"badgehub/internal/config"
	"badgehub/internal/contextutils"
	"badgehub/internal/response"
	"badgehub/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Authenticator verifies the platform-issued user token that embedded apps
// forward with every request. The token is an HS256 JWT minted by the
// platform; its subject is the platform user id.
type Authenticator struct {
	cfg    *config.PlatformConfig
	logger *zap.Logger
}

// NewAuthenticator creates an Authenticator from platform config
func NewAuthenticator(cfg *config.PlatformConfig, logger *zap.Logger) *Authenticator {
	return &Authenticator{cfg: cfg, logger: logger}
}

// platformClaims is the subset of the platform token this service reads.
type platformClaims struct {
	jwt.RegisteredClaims
	AppID string `json:"aud_app,omitempty"`
}

// RequireAuth rejects requests without a valid platform user token and
// injects the verified user id into the request context.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := a.verify(r)
		if err != nil {
			a.logger.Debug("Token verification failed",
				zap.Error(err),
				zap.String("path", r.URL.Path),
			)
			response.QuickError(w, r, services.NewUnauthorizedError("invalid or missing user token"))
			return
		}

		ctx := contextutils.WithUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth injects the user id when a valid token is present and
// continues anonymously otherwise.
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, err := a.verify(r); err == nil {
			r = r.WithContext(contextutils.WithUserID(r.Context(), userID))
		}
		next.ServeHTTP(w, r)
	})
}

// verify extracts and validates the token, returning the platform user id.
func (a *Authenticator) verify(r *http.Request) (string, error) {
	raw := r.Header.Get(a.cfg.TokenHeader)
	if raw == "" {
		// Also accept a standard bearer header for direct API callers.
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			raw = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	if raw == "" {
		return "", fmt.Errorf("no token supplied")
	}

	claims := &platformClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(a.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("token invalid")
	}

	if a.cfg.AppID != "" && claims.AppID != "" && claims.AppID != a.cfg.AppID {
		return "", fmt.Errorf("token issued for a different app")
	}

	userID := claims.Subject
	if userID == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return userID, nil
}
