// Package memory implements the in-memory record stores: the product
// catalog, the customer ledger and the low-stock alert stack.
//
// The stores are not safe for concurrent use; checkout.Coordinator
// serializes access to them.
package memory

import (
	"fmt"
	"iter"
	"slices"

	"github.com/shopspring/decimal"

	"shopledger/pkg/inventory"
)

// LowStockNotifier receives the name of a product whose stock fell to or
// below the restock threshold.
type LowStockNotifier interface {
	Push(productName string)
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithRestockThreshold sets the stock level at or below which a purchase
// flags the product. The default is 0.
func WithRestockThreshold(n int) CatalogOption {
	return func(c *Catalog) { c.threshold = n }
}

// WithLowStockNotifier sets where low-stock signals are sent.
func WithLowStockNotifier(n LowStockNotifier) CatalogOption {
	return func(c *Catalog) { c.notifier = n }
}

// Catalog is an insertion-ordered product store.
type Catalog struct {
	products  []inventory.Product
	threshold int
	notifier  LowStockNotifier
}

// NewCatalog creates an empty catalog.
func NewCatalog(opts ...CatalogOption) *Catalog {
	c := &Catalog{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Threshold returns the configured restock threshold.
func (c *Catalog) Threshold() int { return c.threshold }

// Len returns the number of records.
func (c *Catalog) Len() int { return len(c.products) }

// Add appends a product at the tail. Duplicate names are accepted.
func (c *Catalog) Add(name string, unitPrice decimal.Decimal, stock int) {
	c.products = append(c.products, inventory.Product{Name: name, UnitPrice: unitPrice, Stock: stock})
}

// Remove deletes the first product named name.
func (c *Catalog) Remove(name string) error {
	i := c.index(name)
	if i < 0 {
		return fmt.Errorf("remove %q: %w", name, inventory.ErrProductNotFound)
	}
	c.products = slices.Delete(c.products, i, i+1)
	return nil
}

// Search returns every product named name, in insertion order.
func (c *Catalog) Search(name string) ([]inventory.Product, error) {
	var out []inventory.Product
	for _, p := range c.products {
		if p.Name == name {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("search %q: %w", name, inventory.ErrProductNotFound)
	}
	return out, nil
}

// Purchase takes quantity units from the first product named name and
// returns the line total. A request larger than the stock on hand is
// rejected without changing anything.
func (c *Catalog) Purchase(name string, quantity int) (decimal.Decimal, error) {
	i := c.index(name)
	if i < 0 {
		return decimal.Zero, fmt.Errorf("purchase %q: %w", name, inventory.ErrProductNotFound)
	}
	p := &c.products[i]
	if quantity > p.Stock {
		return decimal.Zero, fmt.Errorf("purchase %d of %q with %d on hand: %w",
			quantity, name, p.Stock, inventory.ErrInsufficientStock)
	}
	p.Stock -= quantity
	total := inventory.LineTotal(p.UnitPrice, quantity)
	if p.Stock <= c.threshold && c.notifier != nil {
		c.notifier.Push(p.Name)
	}
	return total, nil
}

// All returns the products in insertion order. The sequence yields copies
// and may be ranged over any number of times.
func (c *Catalog) All() iter.Seq[inventory.Product] {
	return func(yield func(inventory.Product) bool) {
		for i := 0; i < len(c.products); i++ {
			if !yield(c.products[i]) {
				return
			}
		}
	}
}

func (c *Catalog) index(name string) int {
	return slices.IndexFunc(c.products, func(p inventory.Product) bool { return p.Name == name })
}
