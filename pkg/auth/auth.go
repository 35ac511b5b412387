// Package auth verifies and rotates the operator's admin credentials.
package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials indicates a failed verification or an empty
// username or password on update.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Credentials holds one admin account. Only a bcrypt hash of the
// password is kept.
type Credentials struct {
	user string
	hash []byte
	cost int
}

// Option configures Credentials.
type Option func(*Credentials)

// WithCost sets the bcrypt cost.
func WithCost(cost int) Option {
	return func(c *Credentials) { c.cost = cost }
}

// New creates credentials for user and password.
func New(user, password string, opts ...Option) (*Credentials, error) {
	c := &Credentials{cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.Update(user, password); err != nil {
		return nil, err
	}
	return c, nil
}

// User returns the current username.
func (c *Credentials) User() string { return c.user }

// Verify checks user and password against the stored account.
func (c *Credentials) Verify(user, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(c.user)) == 1
	if err := bcrypt.CompareHashAndPassword(c.hash, []byte(password)); err != nil || !userOK {
		return ErrInvalidCredentials
	}
	return nil
}

// Update replaces the username and password.
func (c *Credentials) Update(user, password string) error {
	if user == "" || password == "" {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return err
	}
	c.user, c.hash = user, hash
	return nil
}
