// Package service implements the planner's use cases: identity, declared
// income, the transaction log and savings goals. Persistence is delegated
// to a Repository; derived values come from package budget.
package service

import (
	"context"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/atinyakov/sbp/internal/budget"
	"github.com/atinyakov/sbp/internal/models"
	"github.com/google/uuid"
)

// RecentCount is how many transactions the dashboard lists.
const RecentCount = 3

// Repository defines the persistence operations needed by the PlannerService.
type Repository interface {
	// Username returns the stored display name or "" when anonymous.
	Username(ctx context.Context, device string) (string, error)
	// SaveUsername stores the display name.
	SaveUsername(ctx context.Context, device, name string) error
	// ClearUsername removes the display name.
	ClearUsername(ctx context.Context, device string) error
	// Income returns the declared income, 0 when unset.
	Income(ctx context.Context, device string) (float64, error)
	// SaveIncome stores the declared income.
	SaveIncome(ctx context.Context, device string, income float64) error
	// Transactions returns the transaction log in insertion order.
	Transactions(ctx context.Context, device string) ([]models.Transaction, error)
	// SaveTransactions replaces the transaction log.
	SaveTransactions(ctx context.Context, device string, txs []models.Transaction) error
	// Goals returns the goal list in insertion order.
	Goals(ctx context.Context, device string) ([]models.Goal, error)
	// SaveGoals replaces the goal list.
	SaveGoals(ctx context.Context, device string, goals []models.Goal) error
}

// PlannerService implements the planner business logic for a device.
type PlannerService struct {
	// repo is the underlying persistence repository.
	repo Repository
	// mu serialises every access to the list slots. Reads take it too
	// because the repository writes back ids it assigns to legacy records.
	mu sync.Mutex

	now   func() time.Time
	newID func() string
}

// NewPlannerService constructs a PlannerService with the provided Repository.
func NewPlannerService(repo Repository) *PlannerService {
	return &PlannerService{repo: repo, now: time.Now, newID: uuid.NewString}
}

// Identity returns the display name of the device, "" when anonymous.
func (s *PlannerService) Identity(ctx context.Context, device string) (string, error) {
	return s.repo.Username(ctx, device)
}

// Login stores the trimmed name as the device identity.
func (s *PlannerService) Login(ctx context.Context, device, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("name", "Please enter your name")
	}
	return s.repo.SaveUsername(ctx, device, name)
}

// Logout forgets the identity. Transactions, goals and income are kept.
func (s *PlannerService) Logout(ctx context.Context, device string) error {
	return s.repo.ClearUsername(ctx, device)
}

// Overview gathers the dashboard: greeting, declared income, the three
// derived values and the most recent transactions.
func (s *PlannerService) Overview(ctx context.Context, device string) (models.Overview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, err := s.repo.Username(ctx, device)
	if err != nil {
		return models.Overview{}, err
	}
	income, err := s.repo.Income(ctx, device)
	if err != nil {
		return models.Overview{}, err
	}
	txs, err := s.repo.Transactions(ctx, device)
	if err != nil {
		return models.Overview{}, err
	}
	return models.Overview{
		User:           user,
		DeclaredIncome: income,
		Summary:        budget.Summarize(txs, income),
		Recent:         budget.Recent(txs, RecentCount),
	}, nil
}

// SaveIncome parses raw and stores it as the declared income.
// Unparseable input counts as 0, which falls back to transaction income.
func (s *PlannerService) SaveIncome(ctx context.Context, device, raw string) (float64, error) {
	income, ok := parseNumber(raw)
	if !ok {
		income = 0
	}
	if income < 0 {
		return 0, invalid("income", "Income cannot be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.SaveIncome(ctx, device, income); err != nil {
		return 0, err
	}
	return income, nil
}

// Transactions returns the full log in insertion order with its summary.
func (s *PlannerService) Transactions(ctx context.Context, device string) ([]models.Transaction, models.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txs, err := s.repo.Transactions(ctx, device)
	if err != nil {
		return nil, models.Summary{}, err
	}
	income, err := s.repo.Income(ctx, device)
	if err != nil {
		return nil, models.Summary{}, err
	}
	return txs, budget.Summarize(txs, income), nil
}

// AddTransaction validates the input and appends a transaction stamped with
// the current time.
func (s *PlannerService) AddTransaction(ctx context.Context, device, desc, amount, kind string) (models.Transaction, error) {
	desc = strings.TrimSpace(desc)
	a, ok := parseNumber(amount)
	k := models.Kind(strings.TrimSpace(kind))
	if desc == "" || !ok || a <= 0 || !k.Valid() {
		return models.Transaction{}, invalid("transaction", "Enter valid details")
	}

	tx := models.Transaction{
		ID:          s.newID(),
		Description: desc,
		Amount:      a,
		Kind:        k,
		Date:        s.now().UTC().Format(models.TimestampLayout),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	txs, err := s.repo.Transactions(ctx, device)
	if err != nil {
		return models.Transaction{}, err
	}
	if err := s.repo.SaveTransactions(ctx, device, append(txs, tx)); err != nil {
		return models.Transaction{}, err
	}
	return tx, nil
}

// DeleteTransaction removes the transaction with the given id and keeps
// the order of the rest.
func (s *PlannerService) DeleteTransaction(ctx context.Context, device, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	txs, err := s.repo.Transactions(ctx, device)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(txs, func(t models.Transaction) bool { return t.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	return s.repo.SaveTransactions(ctx, device, slices.Delete(txs, i, i+1))
}

// Goals returns every goal with its progress.
func (s *PlannerService) Goals(ctx context.Context, device string) ([]models.GoalProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	goals, err := s.repo.Goals(ctx, device)
	if err != nil {
		return nil, err
	}
	return budget.Progress(goals), nil
}

// Goal returns a single goal with its progress.
func (s *PlannerService) Goal(ctx context.Context, device, id string) (models.GoalProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	goals, err := s.repo.Goals(ctx, device)
	if err != nil {
		return models.GoalProgress{}, err
	}
	i := slices.IndexFunc(goals, func(g models.Goal) bool { return g.ID == id })
	if i < 0 {
		return models.GoalProgress{}, ErrNotFound
	}
	return models.GoalProgress{Goal: goals[i], Percent: budget.GoalProgress(goals[i])}, nil
}

// AddGoal validates the input and appends a goal with nothing saved.
func (s *PlannerService) AddGoal(ctx context.Context, device, name, target string) (models.Goal, error) {
	name = strings.TrimSpace(name)
	t, ok := parseNumber(target)
	if name == "" || !ok || t <= 0 {
		return models.Goal{}, invalid("goal", "Enter valid goal")
	}
	g := models.Goal{ID: s.newID(), Name: name, Target: t}

	s.mu.Lock()
	defer s.mu.Unlock()
	goals, err := s.repo.Goals(ctx, device)
	if err != nil {
		return models.Goal{}, err
	}
	if err := s.repo.SaveGoals(ctx, device, append(goals, g)); err != nil {
		return models.Goal{}, err
	}
	return g, nil
}

// Contribute adds a positive amount to the saved total of a goal.
// Saved may grow past the target.
func (s *PlannerService) Contribute(ctx context.Context, device, id, amount string) (models.Goal, error) {
	a, ok := parseNumber(amount)
	if !ok || a <= 0 {
		return models.Goal{}, invalid("amount", "Enter a positive amount")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	goals, err := s.repo.Goals(ctx, device)
	if err != nil {
		return models.Goal{}, err
	}
	i := slices.IndexFunc(goals, func(g models.Goal) bool { return g.ID == id })
	if i < 0 {
		return models.Goal{}, ErrNotFound
	}
	goals[i].Saved += a
	if err := s.repo.SaveGoals(ctx, device, goals); err != nil {
		return models.Goal{}, err
	}
	return goals[i], nil
}

// RemoveGoal deletes the goal with the given id.
func (s *PlannerService) RemoveGoal(ctx context.Context, device, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	goals, err := s.repo.Goals(ctx, device)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(goals, func(g models.Goal) bool { return g.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	return s.repo.SaveGoals(ctx, device, slices.Delete(goals, i, i+1))
}

// parseNumber reads a finite decimal number, ignoring surrounding spaces.
func parseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
