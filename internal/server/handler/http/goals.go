package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/sbp/internal/middleware"
	"github.com/atinyakov/sbp/internal/models"
	"github.com/atinyakov/sbp/internal/service"
	"github.com/atinyakov/sbp/internal/view"
	"github.com/go-chi/chi/v5"
)

// GoalService defines the operations required by GoalHandler.
type GoalService interface {
	Goals(ctx context.Context, device string) ([]models.GoalProgress, error)
	Goal(ctx context.Context, device, id string) (models.GoalProgress, error)
	AddGoal(ctx context.Context, device, name, target string) (models.Goal, error)
	Contribute(ctx context.Context, device, id, amount string) (models.Goal, error)
	RemoveGoal(ctx context.Context, device, id string) error
}

// GoalHandler serves the savings goals.
type GoalHandler struct {
	Pages
	Service GoalService
}

// List handles GET /goals.
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, http.StatusOK, "", view.GoalForm{})
}

// Add handles POST /goals with the name and target fields.
func (h *GoalHandler) Add(w http.ResponseWriter, r *http.Request) {
	if !h.enabled(w, r, view.GoalsPage, view.SectionForm) {
		return
	}
	form := view.GoalForm{Name: r.FormValue("name"), Target: r.FormValue("target")}
	_, err := h.Service.AddGoal(r.Context(), middleware.GetDeviceFromContext(r.Context()), form.Name, form.Target)
	if ve, ok := service.IsValidation(err); ok {
		h.show(w, r, http.StatusUnprocessableEntity, ve.Message, form)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	seeOther(w, r, "/goals", "goal-added")
}

// Contribute handles POST /goals/{id}/contribute with the amount field.
func (h *GoalHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	if !h.enabled(w, r, view.GoalsPage, view.SectionList) {
		return
	}
	_, err := h.Service.Contribute(r.Context(), middleware.GetDeviceFromContext(r.Context()), chi.URLParam(r, "id"), r.FormValue("amount"))
	if ve, ok := service.IsValidation(err); ok {
		h.show(w, r, http.StatusUnprocessableEntity, ve.Message, view.GoalForm{})
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	seeOther(w, r, "/goals", "goal-updated")
}

// ConfirmRemove handles GET /goals/{id}/remove and asks before removing.
func (h *GoalHandler) ConfirmRemove(w http.ResponseWriter, r *http.Request) {
	if !h.enabled(w, r, view.GoalsPage, view.SectionList) {
		return
	}
	g, err := h.Service.Goal(r.Context(), middleware.GetDeviceFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, view.ConfirmRemovalPage, view.Data{Model: view.ConfirmModel{Goal: g}})
}

// Remove handles POST /goals/{id}/remove. Without confirm=yes nothing is
// removed and the user is sent back to the goals.
func (h *GoalHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if !h.enabled(w, r, view.GoalsPage, view.SectionList) {
		return
	}
	if r.FormValue("confirm") != "yes" {
		seeOther(w, r, "/goals", "")
		return
	}
	if err := h.Service.RemoveGoal(r.Context(), middleware.GetDeviceFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	seeOther(w, r, "/goals", "goal-removed")
}

func (h *GoalHandler) show(w http.ResponseWriter, r *http.Request, status int, msg string, form view.GoalForm) {
	goals, err := h.Service.Goals(r.Context(), middleware.GetDeviceFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, status, view.GoalsPage, view.Data{
		Error: msg,
		Model: view.GoalsModel{Goals: goals, Form: form},
	})
}
