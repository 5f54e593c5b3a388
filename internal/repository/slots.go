// Package repository maps the planner's typed state onto the four text slots
// of a store.Store: username, transactions, goals and declared income.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/atinyakov/sbp/internal/models"
	"github.com/google/uuid"
)

// ErrCorrupt marks a slot whose stored text cannot be decoded.
// Corrupt data is reported, never replaced by defaults.
var ErrCorrupt = errors.New("corrupt slot data")

// Store defines the raw slot operations the repository relies on.
type Store interface {
	Get(ctx context.Context, device string, slot models.Slot) (string, bool, error)
	Set(ctx context.Context, device string, slot models.Slot, value string) error
	Clear(ctx context.Context, device string, slot models.Slot) error
}

// SlotRepository encodes and decodes planner state for one store.
type SlotRepository struct {
	store Store
	// newID generates record identifiers; replaced in tests.
	newID func() string
}

// NewSlotRepository creates a SlotRepository over s.
func NewSlotRepository(s Store) *SlotRepository {
	return &SlotRepository{store: s, newID: uuid.NewString}
}

// Username returns the stored display name, or "" when nobody is logged in.
func (r *SlotRepository) Username(ctx context.Context, device string) (string, error) {
	v, _, err := r.store.Get(ctx, device, models.UsernameSlot)
	if err != nil {
		return "", err
	}
	return v, nil
}

// SaveUsername stores name as the device's identity.
func (r *SlotRepository) SaveUsername(ctx context.Context, device, name string) error {
	return r.store.Set(ctx, device, models.UsernameSlot, name)
}

// ClearUsername forgets the device's identity. Other slots are untouched.
func (r *SlotRepository) ClearUsername(ctx context.Context, device string) error {
	return r.store.Clear(ctx, device, models.UsernameSlot)
}

// Income returns the declared income, 0 when it was never set.
func (r *SlotRepository) Income(ctx context.Context, device string) (float64, error) {
	v, ok, err := r.store.Get(ctx, device, models.IncomeSlot)
	if err != nil {
		return 0, err
	}
	if !ok || v == "" {
		return 0, nil
	}
	income, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %q", ErrCorrupt, models.IncomeSlot, v)
	}
	return income, nil
}

// SaveIncome stores the declared income as a numeric string.
func (r *SlotRepository) SaveIncome(ctx context.Context, device string, income float64) error {
	return r.store.Set(ctx, device, models.IncomeSlot, strconv.FormatFloat(income, 'f', -1, 64))
}

// Transactions returns the transaction log in insertion order.
// Records written without an id get one, and the log is written back so
// that the ids stay stable across reads.
func (r *SlotRepository) Transactions(ctx context.Context, device string) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := r.readList(ctx, device, models.TransactionsSlot, &txs); err != nil {
		return nil, err
	}
	changed := false
	for i := range txs {
		if txs[i].ID == "" {
			txs[i].ID = r.newID()
			changed = true
		}
	}
	if changed {
		if err := r.SaveTransactions(ctx, device, txs); err != nil {
			return nil, err
		}
	}
	return txs, nil
}

// SaveTransactions replaces the whole transaction log.
func (r *SlotRepository) SaveTransactions(ctx context.Context, device string, txs []models.Transaction) error {
	if txs == nil {
		txs = []models.Transaction{}
	}
	return r.writeList(ctx, device, models.TransactionsSlot, txs)
}

// Goals returns the goal list in insertion order, assigning missing ids
// the same way Transactions does.
func (r *SlotRepository) Goals(ctx context.Context, device string) ([]models.Goal, error) {
	var goals []models.Goal
	if err := r.readList(ctx, device, models.GoalsSlot, &goals); err != nil {
		return nil, err
	}
	changed := false
	for i := range goals {
		if goals[i].ID == "" {
			goals[i].ID = r.newID()
			changed = true
		}
	}
	if changed {
		if err := r.SaveGoals(ctx, device, goals); err != nil {
			return nil, err
		}
	}
	return goals, nil
}

// SaveGoals replaces the whole goal list.
func (r *SlotRepository) SaveGoals(ctx context.Context, device string, goals []models.Goal) error {
	if goals == nil {
		goals = []models.Goal{}
	}
	return r.writeList(ctx, device, models.GoalsSlot, goals)
}

// readList decodes a JSON array slot into dst. An absent slot leaves dst empty.
func (r *SlotRepository) readList(ctx context.Context, device string, slot models.Slot, dst any) error {
	v, ok, err := r.store.Get(ctx, device, slot)
	if err != nil {
		return err
	}
	if !ok || v == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(v), dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, slot, err)
	}
	return nil
}

func (r *SlotRepository) writeList(ctx context.Context, device string, slot models.Slot, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", slot, err)
	}
	return r.store.Set(ctx, device, slot, string(data))
}
