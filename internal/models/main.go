// Package models defines the core data structures for the planner:
// transactions, savings goals and the slot names they are stored under.
package models

import "time"

// Slot names a persisted value. Every device owns exactly these four slots.
type Slot string

const (
	// UsernameSlot holds the display name entered at login.
	UsernameSlot Slot = "sbp_username"
	// TransactionsSlot holds the JSON encoded transaction log.
	TransactionsSlot Slot = "sbp_transactions"
	// GoalsSlot holds the JSON encoded goal list.
	GoalsSlot Slot = "sbp_goals"
	// IncomeSlot holds the declared income as a numeric string.
	IncomeSlot Slot = "sbp_income"
)

// Kind tells income and expense transactions apart.
type Kind string

const (
	// Income adds to the available money.
	Income Kind = "income"
	// Expense is subtracted from the available money.
	Expense Kind = "expense"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

// TimestampLayout is the UTC layout transactions are stamped with.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Transaction is a single income or expense record.
type Transaction struct {
	// ID is the stable identifier used to delete the record.
	ID string `json:"id,omitempty"`
	// Description is the user-supplied label.
	Description string `json:"desc"`
	// Amount is always positive; Kind gives its direction.
	Amount float64 `json:"amount"`
	// Kind is income or expense.
	Kind Kind `json:"type"`
	// Date is the creation time formatted with TimestampLayout.
	Date string `json:"date"`
}

// Time parses Date. The zero time is returned for malformed values.
func (t Transaction) Time() time.Time {
	ts, err := time.Parse(time.RFC3339Nano, t.Date)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// Goal is a named savings target with a running saved amount.
type Goal struct {
	// ID is the stable identifier used to update or remove the goal.
	ID string `json:"id,omitempty"`
	// Name is the user-supplied label.
	Name string `json:"name"`
	// Target is the amount the user wants to reach.
	Target float64 `json:"target"`
	// Saved may exceed Target; only the displayed progress is capped.
	Saved float64 `json:"saved"`
}

// Summary holds the derived dashboard values.
type Summary struct {
	Income   float64
	Expenses float64
	Balance  float64
}

// GoalProgress pairs a goal with its completion percentage.
type GoalProgress struct {
	Goal
	Percent int
}

// Overview is everything the dashboard shows.
type Overview struct {
	User           string
	DeclaredIncome float64
	Summary        Summary
	Recent         []Transaction
}
