// Package checkout coordinates purchases across the catalog, the customer
// ledger and the low-stock alerts, and keeps the running sales totals.
package checkout

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"shopledger/pkg/inventory"
	"shopledger/pkg/inventory/memory"
	"shopledger/pkg/logger"
	"shopledger/pkg/otel"
)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithRestockThreshold sets the stock level at or below which a purchase
// raises a low-stock alert.
func WithRestockThreshold(n int) Option {
	return func(c *Coordinator) { c.threshold = n }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// WithClock sets the time source used to stamp closed visits.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

type visit struct {
	name    string
	contact string
	total   decimal.Decimal
}

// Coordinator owns the record stores and the sales counters for one
// process. Each call is applied as a whole or not at all.
type Coordinator struct {
	mu        sync.Mutex
	catalog   *memory.Catalog
	ledger    *memory.Ledger
	alerts    *memory.AlertStack
	threshold int
	log       *logger.Logger
	now       func() time.Time

	totalSales     decimal.Decimal
	totalCustomers int
	visit          *visit
}

// New creates a Coordinator with an empty catalog, ledger and alert stack.
func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		ledger: memory.NewLedger(),
		alerts: memory.NewAlertStack(),
		log:    logger.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.catalog = memory.NewCatalog(
		memory.WithRestockThreshold(c.threshold),
		memory.WithLowStockNotifier(c.alerts),
	)
	return c
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// AddProduct appends a product to the catalog.
func (c *Coordinator) AddProduct(ctx context.Context, name string, price decimal.Decimal, stock int) error {
	ctx, span := otel.AddSpan(ctx, "checkout.AddProduct", attribute.String("product", name))
	defer span.End()

	if price.IsNegative() || stock < 0 {
		return fail(span, fmt.Errorf("add %q with price %s and stock %d: %w",
			name, price, stock, inventory.ErrInvalidArgument))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.catalog.Add(name, price, stock)
	c.log.Info(ctx, "product added", "product", name, "price", price.StringFixed(2), "stock", stock)
	return nil
}

// RemoveProduct removes the first product named name.
func (c *Coordinator) RemoveProduct(ctx context.Context, name string) error {
	ctx, span := otel.AddSpan(ctx, "checkout.RemoveProduct", attribute.String("product", name))
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.catalog.Remove(name); err != nil {
		return fail(span, err)
	}
	c.log.Info(ctx, "product removed", "product", name)
	return nil
}

// SearchProduct returns every product named name.
func (c *Coordinator) SearchProduct(ctx context.Context, name string) ([]inventory.Product, error) {
	_, span := otel.AddSpan(ctx, "checkout.SearchProduct", attribute.String("product", name))
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	found, err := c.catalog.Search(name)
	if err != nil {
		return nil, fail(span, err)
	}
	span.SetAttributes(attribute.Int("matches", len(found)))
	return found, nil
}

// ListProducts returns the catalog in insertion order. Each range over the
// sequence reads the catalog as it is at that moment.
func (c *Coordinator) ListProducts(ctx context.Context) iter.Seq[inventory.Product] {
	return func(yield func(inventory.Product) bool) {
		_, span := otel.AddSpan(ctx, "checkout.ListProducts")
		c.mu.Lock()
		snapshot := slices.Collect(c.catalog.All())
		c.mu.Unlock()
		span.SetAttributes(attribute.Int("products", len(snapshot)))
		span.End()

		for _, p := range snapshot {
			if !yield(p) {
				return
			}
		}
	}
}

// BeginVisit opens a shopping visit for a customer.
func (c *Coordinator) BeginVisit(ctx context.Context, name, contact string) error {
	ctx, span := otel.AddSpan(ctx, "checkout.BeginVisit", attribute.String("customer", name))
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.visit != nil {
		return fail(span, fmt.Errorf("begin visit for %q while %q is shopping: %w",
			name, c.visit.name, inventory.ErrInvalidState))
	}
	c.visit = &visit{name: name, contact: contact, total: decimal.Zero}
	c.log.Debug(ctx, "visit started", "customer", name)
	return nil
}

// RecordPurchase buys quantity units of product within the open visit and
// returns the line total. On failure the visit stays open with its total
// unchanged.
func (c *Coordinator) RecordPurchase(ctx context.Context, product string, quantity int) (decimal.Decimal, error) {
	ctx, span := otel.AddSpan(ctx, "checkout.RecordPurchase",
		attribute.String("product", product), attribute.Int("quantity", quantity))
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.visit == nil {
		return decimal.Zero, fail(span, fmt.Errorf("purchase outside a visit: %w", inventory.ErrInvalidState))
	}
	if quantity <= 0 {
		return decimal.Zero, fail(span, fmt.Errorf("purchase quantity %d: %w", quantity, inventory.ErrInvalidArgument))
	}

	pending := c.alerts.Len()
	line, err := c.catalog.Purchase(product, quantity)
	if err != nil {
		c.log.Warn(ctx, "purchase rejected", "customer", c.visit.name, "product", product,
			"quantity", quantity, "error", err)
		return decimal.Zero, fail(span, err)
	}
	c.visit.total = c.visit.total.Add(line)
	if c.alerts.Len() > pending {
		c.log.Warn(ctx, "low stock", "product", product, "threshold", c.threshold)
	}
	c.log.Info(ctx, "purchase recorded", "customer", c.visit.name, "product", product,
		"quantity", quantity, "line_total", line.StringFixed(2))
	return line, nil
}

// EndVisit closes the open visit, writes it to the ledger and adds its
// total to the running counters.
func (c *Coordinator) EndVisit(ctx context.Context) (inventory.CustomerVisit, error) {
	ctx, span := otel.AddSpan(ctx, "checkout.EndVisit")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.visit == nil {
		return inventory.CustomerVisit{}, fail(span, fmt.Errorf("end visit: %w", inventory.ErrInvalidState))
	}

	v := inventory.CustomerVisit{
		ID:          uuid.New(),
		Name:        c.visit.name,
		Contact:     c.visit.contact,
		AmountSpent: c.visit.total,
		ClosedAt:    c.now(),
	}
	c.ledger.CloseVisit(v)
	c.totalSales = c.totalSales.Add(v.AmountSpent)
	c.totalCustomers++
	c.visit = nil

	span.SetAttributes(attribute.String("visit_id", v.ID.String()))
	c.log.Info(ctx, "visit closed", "visit_id", v.ID.String(), "customer", v.Name,
		"amount_spent", v.AmountSpent.StringFixed(2))
	return v, nil
}

// AbandonVisit discards the open visit. Nothing is written to the ledger.
// Stock taken by its purchases is not returned.
func (c *Coordinator) AbandonVisit(ctx context.Context) error {
	ctx, span := otel.AddSpan(ctx, "checkout.AbandonVisit")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.visit == nil {
		return fail(span, fmt.Errorf("abandon visit: %w", inventory.ErrInvalidState))
	}
	c.log.Warn(ctx, "visit abandoned", "customer", c.visit.name, "discarded", c.visit.total.StringFixed(2))
	c.visit = nil
	return nil
}

// InVisit reports whether a visit is open.
func (c *Coordinator) InVisit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visit != nil
}

// VisitTotal returns the running total of the open visit, or zero.
func (c *Coordinator) VisitTotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.visit == nil {
		return decimal.Zero
	}
	return c.visit.total
}

// DailyReport returns the running sales counters.
func (c *Coordinator) DailyReport(ctx context.Context) inventory.Report {
	_, span := otel.AddSpan(ctx, "checkout.DailyReport")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	return inventory.Report{TotalSales: c.totalSales, TotalCustomers: c.totalCustomers}
}

// PendingAlerts drains the low-stock alerts, most recent first.
func (c *Coordinator) PendingAlerts(ctx context.Context) []string {
	ctx, span := otel.AddSpan(ctx, "checkout.PendingAlerts")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for !c.alerts.IsEmpty() {
		name, _ := c.alerts.Pop()
		out = append(out, name)
	}
	span.SetAttributes(attribute.Int("alerts", len(out)))
	if len(out) > 0 {
		c.log.Debug(ctx, "alerts drained", "count", len(out))
	}
	return out
}

// CustomerHistory returns the ledger oldest first without draining it.
func (c *Coordinator) CustomerHistory(ctx context.Context) []inventory.CustomerVisit {
	_, span := otel.AddSpan(ctx, "checkout.CustomerHistory")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Collect(c.ledger.Visits())
}

// DrainCustomer removes and returns the oldest ledger record. Draining does
// not change the sales counters.
func (c *Coordinator) DrainCustomer(ctx context.Context) (inventory.CustomerVisit, error) {
	_, span := otel.AddSpan(ctx, "checkout.DrainCustomer")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	v, err := c.ledger.DrainNext()
	if err != nil {
		return inventory.CustomerVisit{}, fail(span, fmt.Errorf("drain customer: %w", err))
	}
	return v, nil
}
