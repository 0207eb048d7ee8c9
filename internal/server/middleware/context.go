package middleware

import (
	"context"
	"net/http"

	"timetrack/internal/server/httpjson"
)

type contextKey struct{ name string }

var userIDKey = &contextKey{"user-id"}

// HeaderUserID is the request header carrying the caller's identity. The
// gateway in front of this service authenticates the caller and injects it.
const HeaderUserID = "X-User-ID"

// WithUserID returns a context carrying the caller identity.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID extracts the caller identity set by RequireUser.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// RequireUser rejects requests without an X-User-ID header and stores the
// identity on the request context for downstream handlers.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(HeaderUserID)
		if userID == "" {
			httpjson.WriteError(w, http.StatusBadRequest, httpjson.CodeValidation, "missing "+HeaderUserID+" header")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}
