// Package session holds the authenticated user's state. The value is
// threaded explicitly through the engine; nothing reads ambient globals.
package session

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInsufficientFunds = errors.New("balance would go negative")

// Session is the logged-in user: an opaque token, the display username,
// and the wallet balance mirrored from the server at login. An empty
// token means logged out.
type Session struct {
	token    string
	username string
	balance  decimal.Decimal
}

func New(token, username string, balance decimal.Decimal) *Session {
	return &Session{token: token, username: username, balance: balance}
}

func (s *Session) Token() string            { return s.token }
func (s *Session) Username() string         { return s.username }
func (s *Session) Balance() decimal.Decimal { return s.balance }

func (s *Session) LoggedIn() bool { return s != nil && s.token != "" }

// Debit reduces the balance by amount. Only the checkout orchestrator
// calls this, and only after the remote checkout succeeded.
func (s *Session) Debit(amount decimal.Decimal) error {
	next := s.balance.Sub(amount)
	if next.IsNegative() {
		return ErrInsufficientFunds
	}
	s.balance = next
	return nil
}
