// Package ledger tracks and gates per-owner spendable credits.
package ledger

import (
	"errors"
	"sync"
)

// ErrInsufficientBudget indicates a consume request exceeded the owner's
// remaining balance. No partial deduction is made.
var ErrInsufficientBudget = errors.New("insufficient budget")

// Ledger gates resource consumption per owner. Consume must be atomic:
// concurrent plans for the same owner cannot jointly overspend.
type Ledger interface {
	// HasBudget reports whether the owner can afford the amount.
	HasBudget(ownerID string, amount float64) bool
	// Consume atomically deducts the amount from the owner's balance.
	// Returns ErrInsufficientBudget without deducting if the balance is short.
	Consume(ownerID string, amount float64) error
}

// MemoryLedger is an in-process Ledger guarded by a mutex.
// The zero value is not usable; use NewMemoryLedger.
type MemoryLedger struct {
	mu       sync.Mutex
	granted  map[string]float64
	consumed map[string]float64
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		granted:  make(map[string]float64),
		consumed: make(map[string]float64),
	}
}

// Grant adds credits to the owner's budget.
func (l *MemoryLedger) Grant(ownerID string, amount float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.granted[ownerID] += amount
}

// HasBudget reports whether the owner's remaining balance covers amount.
func (l *MemoryLedger) HasBudget(ownerID string, amount float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.granted[ownerID]-l.consumed[ownerID] >= amount
}

// Consume deducts amount from the owner's balance. The check and the
// deduction happen under one lock acquisition, so two plans racing for
// the last credits cannot both win.
func (l *MemoryLedger) Consume(ownerID string, amount float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.granted[ownerID]-l.consumed[ownerID] < amount {
		return ErrInsufficientBudget
	}
	l.consumed[ownerID] += amount
	return nil
}

// Remaining returns the owner's unspent balance.
func (l *MemoryLedger) Remaining(ownerID string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.granted[ownerID] - l.consumed[ownerID]
}

// Consumed returns the total credits the owner has spent.
func (l *MemoryLedger) Consumed(ownerID string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.consumed[ownerID]
}
