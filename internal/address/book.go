// Package address manages the shipper's saved addresses and the current
// selection. The remote service owns the list; every mutating call
// replaces the local copy wholesale with the server's answer. Selection
// is purely local.
package address

import (
	"context"

	"go.uber.org/zap"

	"github.com/Dhwanith/qkart/internal/api"
)

// Gateway is the slice of the API client the book needs.
type Gateway interface {
	Addresses(ctx context.Context, token string) ([]api.Address, error)
	AddAddress(ctx context.Context, token, text string) ([]api.Address, error)
	DeleteAddress(ctx context.Context, token, id string) ([]api.Address, error)
}

type Book struct {
	gw  Gateway
	log *zap.Logger

	addresses  []api.Address
	selectedID string

	// RestoreSelectionOnError controls what happens when deleting the
	// selected address fails remotely. The storefront has always cleared
	// the selection up front and left it cleared (see Remove); flipping
	// this restores it instead.
	RestoreSelectionOnError bool
}

func NewBook(gw Gateway, log *zap.Logger) *Book {
	if log == nil {
		log = zap.NewNop()
	}
	return &Book{gw: gw, log: log}
}

func (b *Book) Addresses() []api.Address { return b.addresses }
func (b *Book) SelectedID() string       { return b.selectedID }
func (b *Book) Empty() bool              { return len(b.addresses) == 0 }

// Selected returns the selected address, if any.
func (b *Book) Selected() (api.Address, bool) {
	if b.selectedID == "" {
		return api.Address{}, false
	}
	for _, a := range b.addresses {
		if a.ID == b.selectedID {
			return a, true
		}
	}
	return api.Address{}, false
}

// Refresh replaces the local list with the server's.
func (b *Book) Refresh(ctx context.Context, token string) error {
	list, err := b.gw.Addresses(ctx, token)
	if err != nil {
		return err
	}
	b.replace(list)
	return nil
}

// Add stores a new address remotely. Server-side rejections (duplicate,
// invalid text) come back as BusinessError and leave local state alone.
func (b *Book) Add(ctx context.Context, token, text string) error {
	list, err := b.gw.AddAddress(ctx, token, text)
	if err != nil {
		return err
	}
	b.replace(list)
	return nil
}

// Remove deletes an address remotely. If id is the current selection,
// the selection is cleared before the call resolves and, unless
// RestoreSelectionOnError is set, stays cleared even when the remote
// delete fails. The error is still returned for surfacing.
func (b *Book) Remove(ctx context.Context, token, id string) error {
	wasSelected := id == b.selectedID
	if wasSelected {
		b.selectedID = ""
	}

	list, err := b.gw.DeleteAddress(ctx, token, id)
	if err != nil {
		if wasSelected && b.RestoreSelectionOnError {
			b.selectedID = id
		}
		b.log.Warn("address delete failed", zap.String("id", id), zap.Error(err))
		return err
	}
	b.replace(list)
	return nil
}

// Select sets the selection to an address already in the list. Unknown
// ids are ignored so the selection invariant holds.
func (b *Book) Select(id string) {
	for _, a := range b.addresses {
		if a.ID == id {
			b.selectedID = id
			return
		}
	}
}

// replace swaps in the server's list and drops a selection that no
// longer refers to a present address.
func (b *Book) replace(list []api.Address) {
	b.addresses = list
	if b.selectedID == "" {
		return
	}
	for _, a := range b.addresses {
		if a.ID == b.selectedID {
			return
		}
	}
	b.selectedID = ""
}
