// Package middleware provides HTTP middlewares for device identification,
// the identity guard and request logging.
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type ctxKey string

const deviceKey ctxKey = "device"

// DeviceCookie is the cookie carrying the browser's device id.
const DeviceCookie = "sbp_device"

// deviceCookieTTL keeps the device id for about as long as browser storage lives.
const deviceCookieTTL = 400 * 24 * time.Hour

// Device is a middleware that gives every browser a stable device id.
//
// The id is read from the sbp_device cookie. When the cookie is missing or
// does not hold a UUID, a new id is generated and set on the response.
// The id is stored in the request context and namespaces all stored slots,
// which makes it the server-side counterpart of the browser's local storage.
func Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(DeviceCookie); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     DeviceCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(deviceCookieTTL / time.Second),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Secure:   r.TLS != nil,
			})
		}
		ctx := context.WithValue(r.Context(), deviceKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetDeviceFromContext extracts the device id from the request context.
// Returns an empty string if not found.
func GetDeviceFromContext(ctx context.Context) string {
	val := ctx.Value(deviceKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// WithDevice returns a copy of ctx carrying device. Useful in tests and
// for callers that identify devices by other means.
func WithDevice(ctx context.Context, device string) context.Context {
	return context.WithValue(ctx, deviceKey, device)
}
