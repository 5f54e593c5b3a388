package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/atinyakov/sbp/internal/middleware"
	"github.com/atinyakov/sbp/internal/models"
	"github.com/atinyakov/sbp/internal/service"
	"github.com/atinyakov/sbp/internal/view"
)

// DashboardService defines the operations required by DashboardHandler.
type DashboardService interface {
	Overview(ctx context.Context, device string) (models.Overview, error)
	SaveIncome(ctx context.Context, device, raw string) (float64, error)
}

// DashboardHandler serves the overview page and the declared income form.
type DashboardHandler struct {
	Pages
	Service DashboardService
}

// Show handles GET /dashboard.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, http.StatusOK, "", nil)
}

// SaveIncome handles POST /dashboard/income with the "income" form field.
func (h *DashboardHandler) SaveIncome(w http.ResponseWriter, r *http.Request) {
	if !h.enabled(w, r, view.DashboardPage, view.SectionIncome) {
		return
	}
	raw := r.FormValue("income")
	_, err := h.Service.SaveIncome(r.Context(), middleware.GetDeviceFromContext(r.Context()), raw)
	if ve, ok := service.IsValidation(err); ok {
		h.show(w, r, http.StatusUnprocessableEntity, ve.Message, &raw)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	seeOther(w, r, "/dashboard", "income-saved")
}

// show renders the dashboard. A non-nil input replaces the stored income
// in the form.
func (h *DashboardHandler) show(w http.ResponseWriter, r *http.Request, status int, msg string, input *string) {
	o, err := h.Service.Overview(r.Context(), middleware.GetDeviceFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	m := view.DashboardModel{Overview: o}
	switch {
	case input != nil:
		m.IncomeInput = *input
	case o.DeclaredIncome > 0:
		m.IncomeInput = strconv.FormatFloat(o.DeclaredIncome, 'f', -1, 64)
	}
	h.render(w, r, status, view.DashboardPage, view.Data{User: o.User, Error: msg, Model: m})
}
