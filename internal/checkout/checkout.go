// Package checkout gates and executes the order transaction. The
// validator is a pure predicate over cart, address book, and balance;
// the orchestrator issues the single place-order call and applies the
// optimistic balance debit.
package checkout

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Dhwanith/qkart/internal/address"
	"github.com/Dhwanith/qkart/internal/api"
	"github.com/Dhwanith/qkart/internal/cart"
	"github.com/Dhwanith/qkart/internal/session"
)

// Validation failures, in the order they are checked. Address problems
// surface before balance problems regardless of which are true; the
// ordering is a UX contract, not an accident.
var (
	ErrNoAddress         = errors.New("no address to ship to")
	ErrNoAddressSelected = errors.New("no address selected")
	ErrInsufficientFunds = errors.New("insufficient balance")
)

// ErrPaymentFailed is reported when the place-order call fails without a
// server-supplied message.
var ErrPaymentFailed = errors.New("payment unsuccessful")

// Validate decides whether checkout may proceed. Checks run in fixed
// order and short-circuit on the first failure.
func Validate(items []cart.Item, book *address.Book, balance decimal.Decimal) error {
	if book.Empty() {
		return ErrNoAddress
	}
	if book.SelectedID() == "" {
		return ErrNoAddressSelected
	}
	if cart.TotalValue(items).GreaterThan(balance) {
		return ErrInsufficientFunds
	}
	return nil
}

// Gateway is the slice of the API client the orchestrator needs.
type Gateway interface {
	Checkout(ctx context.Context, token, addressID string) error
}

type Orchestrator struct {
	gw  Gateway
	log *zap.Logger
}

func NewOrchestrator(gw Gateway, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{gw: gw, log: log}
}

// PlaceOrder issues the remote checkout and, on success, debits the
// locally computed cart total from the session balance. The debit amount
// is client-derived; the service's success response is opaque, so there
// is no server-confirmed charge to prefer. No retries: a failure leaves
// the balance untouched and the user re-invokes checkout.
//
// Callers must have passed Validate first; PlaceOrder does not
// re-validate.
func (o *Orchestrator) PlaceOrder(ctx context.Context, sess *session.Session, items []cart.Item, addressID string) (decimal.Decimal, error) {
	total := cart.TotalValue(items)

	if err := o.gw.Checkout(ctx, sess.Token(), addressID); err != nil {
		if be, ok := api.AsBusiness(err); ok {
			o.log.Info("checkout rejected", zap.String("message", be.Message))
			return decimal.Zero, be
		}
		o.log.Warn("checkout failed", zap.Error(err))
		return decimal.Zero, ErrPaymentFailed
	}

	if err := sess.Debit(total); err != nil {
		// The order is already placed; the caller skipped validation.
		o.log.Error("balance debit failed after successful checkout",
			zap.String("total", total.String()), zap.Error(err))
	}
	o.log.Info("checkout complete",
		zap.String("address_id", addressID),
		zap.String("total", total.String()),
		zap.Int("items", cart.ItemCount(items)))
	return total, nil
}
