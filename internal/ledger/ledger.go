// Package ledger tracks the account balance that funds part purchases.
package ledger

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/metric"
)

// Ledger is a mutex-guarded credit account. An unlimited account never
// rejects a spend but still records totals, so spending history stays
// meaningful for reporting.
type Ledger struct {
	mu         sync.Mutex
	balance    float64
	totalSpent float64
	// totalEarned counts credits added after construction; the starting
	// balance is not earnings.
	totalEarned float64
	unlimited   bool

	// OTEL metrics
	spent    metric.Float64Counter
	earned   metric.Float64Counter
	rejected metric.Int64Counter
}

// New creates a Ledger with the given starting balance. An unlimited ledger
// bypasses the balance check on Spend.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(startingBalance float64, unlimited bool) (*Ledger, error) {
	l := &Ledger{
		balance:   startingBalance,
		unlimited: unlimited,
	}

	m := meter()

	var err error

	l.spent, err = m.Float64Counter(
		"ledger.credits.spent",
		metric.WithDescription("Total credits spent on parts"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating spent counter: %w", err)
	}

	l.earned, err = m.Float64Counter(
		"ledger.credits.earned",
		metric.WithDescription("Total credits added to the account"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating earned counter: %w", err)
	}

	l.rejected, err = m.Int64Counter(
		"ledger.spends.rejected",
		metric.WithDescription("Spend attempts rejected for insufficient balance"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rejected counter: %w", err)
	}

	return l, nil
}

// Spend debits amount and reports whether the debit happened. A spend that
// would overdraw a limited account is rejected and leaves the balance
// untouched. An unlimited account always succeeds without touching the
// balance, but the spend still counts toward TotalSpent.
func (l *Ledger) Spend(amount float64) bool {
	if amount <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.unlimited {
		l.totalSpent += amount
		l.spent.Add(context.Background(), amount)
		return true
	}

	if l.balance < amount {
		l.rejected.Add(context.Background(), 1)
		return false
	}

	l.balance -= amount
	l.totalSpent += amount
	l.spent.Add(context.Background(), amount)
	return true
}

// Add credits amount to the account. Zero and negative amounts are ignored.
func (l *Ledger) Add(amount float64) {
	if amount <= 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.balance += amount
	l.totalEarned += amount
	l.earned.Add(context.Background(), amount)
}

// Balance returns the current balance.
func (l *Ledger) Balance() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// TotalSpent returns the lifetime sum of successful debits.
func (l *Ledger) TotalSpent() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalSpent
}

// TotalEarned returns the lifetime sum of credits added.
func (l *Ledger) TotalEarned() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalEarned
}

// Unlimited reports whether this account bypasses the balance check.
func (l *Ledger) Unlimited() bool {
	return l.unlimited
}
