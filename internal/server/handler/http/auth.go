// Package http provides the HTML pages of the budget planner and the
// router that dispatches them.
package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/sbp/internal/middleware"
	"github.com/atinyakov/sbp/internal/service"
	"github.com/atinyakov/sbp/internal/view"
)

// IdentityService defines the identity operations required by AuthHandler.
type IdentityService interface {
	// Identity returns the display name of a device, "" when anonymous.
	Identity(ctx context.Context, device string) (string, error)
	// Login stores the display name of a device.
	Login(ctx context.Context, device, name string) error
	// Logout forgets the display name of a device.
	Logout(ctx context.Context, device string) error
}

// AuthHandler serves the login page and the logout action.
type AuthHandler struct {
	Pages
	// Service performs the underlying identity operations.
	Service IdentityService
}

// ShowLogin handles GET /login. Identified devices go straight to the dashboard.
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	name, err := h.Service.Identity(r.Context(), middleware.GetDeviceFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if name != "" {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, view.LoginPage, view.Data{Model: view.LoginModel{}})
}

// Login handles POST /login with the "username" form field.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("username")
	err := h.Service.Login(r.Context(), middleware.GetDeviceFromContext(r.Context()), name)
	if ve, ok := service.IsValidation(err); ok {
		h.render(w, r, http.StatusUnprocessableEntity, view.LoginPage, view.Data{
			Error: ve.Message,
			Model: view.LoginModel{Name: name},
		})
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout handles POST /logout. Only the identity is cleared.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Logout(r.Context(), middleware.GetDeviceFromContext(r.Context())); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
