package middleware

import (
	"context"
	"net/http"
)

const userKey ctxKey = "user"

// IdentityLookup resolves the display name stored for a device.
type IdentityLookup interface {
	// Identity returns "" for anonymous devices.
	Identity(ctx context.Context, device string) (string, error)
}

// RequireIdentity is the identity guard for protected views.
//
// Anonymous devices are redirected to loginPath; this is not an error.
// For identified devices the display name is stored in the request context.
// Must be mounted after Device.
func RequireIdentity(lookup IdentityLookup, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name, err := lookup.Identity(r.Context(), GetDeviceFromContext(r.Context()))
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if name == "" {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext extracts the display name set by RequireIdentity.
// Returns an empty string if not found.
func GetUserFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
