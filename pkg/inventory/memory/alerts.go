package memory

import "shopledger/pkg/inventory"

// AlertStack is a last-in-first-out stack of product names flagged for
// restocking. Reading it is destructive: a popped alert is gone until a
// later purchase raises it again.
type AlertStack struct {
	names []string
}

// NewAlertStack creates an empty stack.
func NewAlertStack() *AlertStack {
	return &AlertStack{}
}

// Push places productName on top.
func (s *AlertStack) Push(productName string) {
	s.names = append(s.names, productName)
}

// Pop removes and returns the top name.
func (s *AlertStack) Pop() (string, error) {
	n := len(s.names)
	if n == 0 {
		return "", inventory.ErrEmptyCollection
	}
	name := s.names[n-1]
	s.names = s.names[:n-1]
	return name, nil
}

// IsEmpty reports whether no alerts are pending.
func (s *AlertStack) IsEmpty() bool { return len(s.names) == 0 }

// Len returns the number of pending alerts.
func (s *AlertStack) Len() int { return len(s.names) }
