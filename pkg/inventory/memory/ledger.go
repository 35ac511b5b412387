package memory

import (
	"iter"

	"shopledger/pkg/inventory"
)

// Ledger is a first-in-first-out record of completed customer visits.
type Ledger struct {
	visits []inventory.CustomerVisit
	head   int
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// CloseVisit appends v at the tail.
func (l *Ledger) CloseVisit(v inventory.CustomerVisit) {
	l.visits = append(l.visits, v)
}

// DrainNext removes and returns the oldest visit.
func (l *Ledger) DrainNext() (inventory.CustomerVisit, error) {
	if l.IsEmpty() {
		return inventory.CustomerVisit{}, inventory.ErrEmptyCollection
	}
	v := l.visits[l.head]
	l.visits[l.head] = inventory.CustomerVisit{}
	l.head++
	if l.head == len(l.visits) {
		l.visits = l.visits[:0]
		l.head = 0
	}
	return v, nil
}

// IsEmpty reports whether the ledger holds no visits.
func (l *Ledger) IsEmpty() bool { return l.head == len(l.visits) }

// Len returns the number of visits held.
func (l *Ledger) Len() int { return len(l.visits) - l.head }

// Visits iterates the held visits oldest first without removing them.
func (l *Ledger) Visits() iter.Seq[inventory.CustomerVisit] {
	return func(yield func(inventory.CustomerVisit) bool) {
		for i := l.head; i < len(l.visits); i++ {
			if !yield(l.visits[i]) {
				return
			}
		}
	}
}
