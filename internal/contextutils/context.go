package contextutils

import "context"

type contextKey string

const (
	requestIDKey   contextKey = "request_id"
	userIDKey      contextKey = "user_id"
	companyIDKey   contextKey = "company_id"
	accessLevelKey contextKey = "access_level"
)

// GetRequestID retrieves the request ID from the context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithRequestID adds the request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetUserID retrieves the authenticated platform user ID from the context
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// WithUserID adds the authenticated platform user ID to the context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetCompanyID retrieves the tenant the request is scoped to
func GetCompanyID(ctx context.Context) string {
	if id, ok := ctx.Value(companyIDKey).(string); ok {
		return id
	}
	return ""
}

// WithCompanyID adds the tenant the request is scoped to
func WithCompanyID(ctx context.Context, companyID string) context.Context {
	return context.WithValue(ctx, companyIDKey, companyID)
}

// GetAccessLevel retrieves the caller's verified access level, if any
func GetAccessLevel(ctx context.Context) string {
	if level, ok := ctx.Value(accessLevelKey).(string); ok {
		return level
	}
	return ""
}

// WithAccessLevel adds the caller's verified access level
func WithAccessLevel(ctx context.Context, level string) context.Context {
	return context.WithValue(ctx, accessLevelKey, level)
}
