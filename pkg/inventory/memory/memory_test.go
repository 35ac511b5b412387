package memory

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"shopledger/pkg/inventory"
)

func names(c *Catalog) []string {
	var out []string
	for p := range c.All() {
		out = append(out, p.Name)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCatalogOrder(t *testing.T) {
	c := NewCatalog()
	for _, n := range []string{"Pen", "Ink", "Pad", "Pen"} {
		c.Add(n, decimal.RequireFromString("1.00"), 1)
	}
	if got := names(c); !equal(got, []string{"Pen", "Ink", "Pad", "Pen"}) {
		t.Fatalf("unexpected order: %v", got)
	}
	// a second pass sees the same records
	if got := names(c); len(got) != 4 {
		t.Fatalf("expected restartable listing, got %v", got)
	}
}

func TestCatalogRemove(t *testing.T) {
	c := NewCatalog()
	for _, n := range []string{"A", "B", "C", "B", "D"} {
		c.Add(n, decimal.Zero, 0)
	}

	if err := c.Remove("A"); err != nil {
		t.Fatalf("remove head: %v", err)
	}
	if err := c.Remove("D"); err != nil {
		t.Fatalf("remove tail: %v", err)
	}
	if err := c.Remove("B"); err != nil {
		t.Fatalf("remove middle: %v", err)
	}
	if got := names(c); !equal(got, []string{"C", "B"}) {
		t.Fatalf("unexpected order after removals: %v", got)
	}

	err := c.Remove("Z")
	if !errors.Is(err, inventory.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("catalog changed on failed remove: %v", names(c))
	}

	c.Remove("C")
	c.Remove("B")
	if err := c.Remove("B"); !errors.Is(err, inventory.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound on empty catalog, got %v", err)
	}
}

func TestCatalogSearch(t *testing.T) {
	c := NewCatalog()
	c.Add("Pen", decimal.RequireFromString("1.50"), 10)
	c.Add("Ink", decimal.RequireFromString("3.00"), 2)
	c.Add("Pen", decimal.RequireFromString("2.00"), 5)

	got, err := c.Search("Pen")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 || got[0].Stock != 10 || got[1].Stock != 5 {
		t.Fatalf("unexpected matches: %+v", got)
	}

	if err := c.Remove("Ink"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := c.Search("Ink"); !errors.Is(err, inventory.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound after remove, got %v", err)
	}
}

func TestCatalogPurchase(t *testing.T) {
	c := NewCatalog()
	c.Add("Pen", decimal.RequireFromString("1.50"), 10)

	total, err := c.Purchase("Pen", 3)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if !total.Equal(decimal.RequireFromString("4.50")) {
		t.Fatalf("expected 4.50, got %s", total)
	}

	if _, err := c.Purchase("Pen", 20); !errors.Is(err, inventory.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	p, _ := c.Search("Pen")
	if p[0].Stock != 7 {
		t.Fatalf("expected stock 7, got %d", p[0].Stock)
	}

	if _, err := c.Purchase("Cup", 1); !errors.Is(err, inventory.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCatalogPurchaseFirstMatch(t *testing.T) {
	c := NewCatalog()
	c.Add("Pen", decimal.RequireFromString("1.00"), 1)
	c.Add("Pen", decimal.RequireFromString("9.00"), 100)

	// the first record wins even when only the second could cover the request
	if _, err := c.Purchase("Pen", 2); !errors.Is(err, inventory.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	total, err := c.Purchase("Pen", 1)
	if err != nil || !total.Equal(decimal.RequireFromString("1.00")) {
		t.Fatalf("unexpected purchase result: %s, %v", total, err)
	}
}

func TestCatalogLowStockSignal(t *testing.T) {
	alerts := NewAlertStack()
	c := NewCatalog(WithRestockThreshold(2), WithLowStockNotifier(alerts))
	c.Add("Pen", decimal.RequireFromString("1.00"), 5)

	c.Purchase("Pen", 2)
	if !alerts.IsEmpty() {
		t.Fatal("stock 3 is above threshold 2, no alert expected")
	}
	c.Purchase("Pen", 1)
	c.Purchase("Pen", 2)
	if alerts.Len() != 2 {
		t.Fatalf("expected 2 alerts, got %d", alerts.Len())
	}
	c.Purchase("Pen", 1) // rejected, no alert
	if alerts.Len() != 2 {
		t.Fatalf("failed purchase raised an alert")
	}
}

func TestCatalogDefaultThreshold(t *testing.T) {
	alerts := NewAlertStack()
	c := NewCatalog(WithLowStockNotifier(alerts))
	c.Add("Pen", decimal.RequireFromString("1.00"), 2)

	c.Purchase("Pen", 1)
	if !alerts.IsEmpty() {
		t.Fatal("alert raised before depletion")
	}
	c.Purchase("Pen", 1)
	if name, err := alerts.Pop(); err != nil || name != "Pen" {
		t.Fatalf("expected Pen alert, got %q, %v", name, err)
	}
}

func TestLedger(t *testing.T) {
	l := NewLedger()
	if !l.IsEmpty() {
		t.Fatal("new ledger not empty")
	}
	if _, err := l.DrainNext(); !errors.Is(err, inventory.ErrEmptyCollection) {
		t.Fatalf("expected ErrEmptyCollection, got %v", err)
	}

	for _, n := range []string{"ann", "bob", "cid"} {
		l.CloseVisit(inventory.CustomerVisit{Name: n})
	}
	var seen []string
	for v := range l.Visits() {
		seen = append(seen, v.Name)
	}
	if !equal(seen, []string{"ann", "bob", "cid"}) || l.Len() != 3 {
		t.Fatalf("unexpected visits: %v", seen)
	}

	v, err := l.DrainNext()
	if err != nil || v.Name != "ann" {
		t.Fatalf("expected ann, got %+v, %v", v, err)
	}
	l.CloseVisit(inventory.CustomerVisit{Name: "dee"})
	for _, want := range []string{"bob", "cid", "dee"} {
		v, err := l.DrainNext()
		if err != nil || v.Name != want {
			t.Fatalf("expected %s, got %+v, %v", want, v, err)
		}
	}
	if !l.IsEmpty() || l.Len() != 0 {
		t.Fatal("ledger should be empty")
	}

	l.CloseVisit(inventory.CustomerVisit{Name: "eve"})
	if v, _ := l.DrainNext(); v.Name != "eve" {
		t.Fatalf("expected eve after reuse, got %+v", v)
	}
}

func TestAlertStack(t *testing.T) {
	s := NewAlertStack()
	s.Push("A")
	s.Push("B")
	s.Push("C")

	var got []string
	for !s.IsEmpty() {
		n, err := s.Pop()
		if err != nil {
			t.Fatalf("pop: %v", err)
		}
		got = append(got, n)
	}
	if !equal(got, []string{"C", "B", "A"}) {
		t.Fatalf("expected [C B A], got %v", got)
	}
	if _, err := s.Pop(); !errors.Is(err, inventory.ErrEmptyCollection) {
		t.Fatalf("expected ErrEmptyCollection, got %v", err)
	}
}
