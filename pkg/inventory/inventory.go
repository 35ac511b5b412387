// Package inventory holds the entities and errors shared by the catalog,
// the customer ledger and the checkout coordinator.
package inventory

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog record. Products are identified by Name under a
// linear scan; names are not required to be unique.
type Product struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Stock     int             `json:"stock"`
}

// CustomerVisit is a completed shopping visit as written to the ledger.
type CustomerVisit struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Contact     string          `json:"contact"`
	AmountSpent decimal.Decimal `json:"amount_spent"`
	ClosedAt    time.Time       `json:"closed_at"`
}

// Report is a snapshot of the running sales counters.
type Report struct {
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalCustomers int             `json:"total_customers"`
}

// LineTotal returns unitPrice × quantity.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

var (
	// ErrProductNotFound indicates no catalog record matches the given name.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock indicates a purchase asked for more than is on hand.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrEmptyCollection indicates a pop or drain on an empty queue or stack.
	ErrEmptyCollection = errors.New("collection is empty")
	// ErrInvalidState indicates a visit lifecycle call made in the wrong state.
	ErrInvalidState = errors.New("invalid visit state")
	// ErrInvalidArgument indicates a negative price or stock, or a non-positive quantity.
	ErrInvalidArgument = errors.New("invalid argument")
)
