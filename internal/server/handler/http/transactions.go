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

// TransactionService defines the operations required by TransactionHandler.
type TransactionService interface {
	Transactions(ctx context.Context, device string) ([]models.Transaction, models.Summary, error)
	AddTransaction(ctx context.Context, device, desc, amount, kind string) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, device, id string) error
}

// TransactionHandler serves the transaction log.
type TransactionHandler struct {
	Pages
	Service TransactionService
}

// List handles GET /transactions.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, http.StatusOK, "", view.TransactionForm{Kind: string(models.Expense)})
}

// Add handles POST /transactions with the desc, amount and type fields.
func (h *TransactionHandler) Add(w http.ResponseWriter, r *http.Request) {
	if !h.enabled(w, r, view.TransactionsPage, view.SectionForm) {
		return
	}
	form := view.TransactionForm{
		Description: r.FormValue("desc"),
		Amount:      r.FormValue("amount"),
		Kind:        r.FormValue("type"),
	}
	_, err := h.Service.AddTransaction(r.Context(), middleware.GetDeviceFromContext(r.Context()), form.Description, form.Amount, form.Kind)
	if ve, ok := service.IsValidation(err); ok {
		h.show(w, r, http.StatusUnprocessableEntity, ve.Message, form)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	seeOther(w, r, "/transactions", "transaction-added")
}

// Delete handles POST /transactions/{id}/delete.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.enabled(w, r, view.TransactionsPage, view.SectionList) {
		return
	}
	err := h.Service.DeleteTransaction(r.Context(), middleware.GetDeviceFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	seeOther(w, r, "/transactions", "transaction-deleted")
}

func (h *TransactionHandler) show(w http.ResponseWriter, r *http.Request, status int, msg string, form view.TransactionForm) {
	txs, sum, err := h.Service.Transactions(r.Context(), middleware.GetDeviceFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, status, view.TransactionsPage, view.Data{
		Error: msg,
		Model: view.TransactionsModel{Transactions: txs, Summary: sum, Form: form},
	})
}
