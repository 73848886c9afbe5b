package address

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhwanith/qkart/internal/api"
)

type stubGateway struct {
	list    []api.Address
	err     error
	deleted []string
	added   []string
}

func (s *stubGateway) Addresses(ctx context.Context, token string) ([]api.Address, error) {
	return s.list, s.err
}

func (s *stubGateway) AddAddress(ctx context.Context, token, text string) ([]api.Address, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.added = append(s.added, text)
	return s.list, nil
}

func (s *stubGateway) DeleteAddress(ctx context.Context, token, id string) ([]api.Address, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.deleted = append(s.deleted, id)
	return s.list, nil
}

func newTestBook(t *testing.T, gw *stubGateway) *Book {
	t.Helper()
	b := NewBook(gw, nil)
	require.NoError(t, b.Refresh(context.Background(), "tok"))
	return b
}

func TestRefreshReplacesList(t *testing.T) {
	gw := &stubGateway{list: []api.Address{{ID: "a1", Text: "221B Baker Street"}}}
	b := newTestBook(t, gw)

	assert.Len(t, b.Addresses(), 1)
	assert.False(t, b.Empty())
	assert.Empty(t, b.SelectedID())
}

func TestSelectRequiresPresence(t *testing.T) {
	gw := &stubGateway{list: []api.Address{{ID: "a1"}, {ID: "a2"}}}
	b := newTestBook(t, gw)

	b.Select("a2")
	assert.Equal(t, "a2", b.SelectedID())

	// unknown ids leave the selection alone
	b.Select("nope")
	assert.Equal(t, "a2", b.SelectedID())

	sel, ok := b.Selected()
	assert.True(t, ok)
	assert.Equal(t, "a2", sel.ID)
}

func TestRemoveClearsSelectionBeforeRemoteResolves(t *testing.T) {
	gw := &stubGateway{list: []api.Address{{ID: "a1"}, {ID: "a2"}}}
	b := newTestBook(t, gw)
	b.Select("a1")

	gw.list = []api.Address{{ID: "a2"}}
	require.NoError(t, b.Remove(context.Background(), "tok", "a1"))

	assert.Empty(t, b.SelectedID())
	assert.Equal(t, []string{"a1"}, gw.deleted)
	assert.Len(t, b.Addresses(), 1)
}

func TestRemoveFailureKeepsSelectionCleared(t *testing.T) {
	gw := &stubGateway{list: []api.Address{{ID: "a1"}}}
	b := newTestBook(t, gw)
	b.Select("a1")

	gw.err = errors.New("delete rejected")
	err := b.Remove(context.Background(), "tok", "a1")

	// the clear is optimistic and is not rolled back; the error is still
	// surfaced to the caller
	assert.Error(t, err)
	assert.Empty(t, b.SelectedID())
	assert.Len(t, b.Addresses(), 1)
}

func TestRemoveFailureRestoresSelectionWhenPolicySet(t *testing.T) {
	gw := &stubGateway{list: []api.Address{{ID: "a1"}}}
	b := newTestBook(t, gw)
	b.RestoreSelectionOnError = true
	b.Select("a1")

	gw.err = errors.New("delete rejected")
	err := b.Remove(context.Background(), "tok", "a1")

	assert.Error(t, err)
	assert.Equal(t, "a1", b.SelectedID())
}

func TestRemoveUnselectedLeavesSelection(t *testing.T) {
	gw := &stubGateway{list: []api.Address{{ID: "a1"}, {ID: "a2"}}}
	b := newTestBook(t, gw)
	b.Select("a1")

	gw.list = []api.Address{{ID: "a1"}}
	require.NoError(t, b.Remove(context.Background(), "tok", "a2"))

	assert.Equal(t, "a1", b.SelectedID())
}

func TestReplaceDropsStaleSelection(t *testing.T) {
	gw := &stubGateway{list: []api.Address{{ID: "a1"}, {ID: "a2"}}}
	b := newTestBook(t, gw)
	b.Select("a1")

	// server no longer knows a1
	gw.list = []api.Address{{ID: "a2"}}
	require.NoError(t, b.Refresh(context.Background(), "tok"))

	assert.Empty(t, b.SelectedID())
}

func TestAddFailureLeavesLocalStateAlone(t *testing.T) {
	gw := &stubGateway{list: []api.Address{{ID: "a1"}}}
	b := newTestBook(t, gw)

	gw.err = errors.New("duplicate address")
	err := b.Add(context.Background(), "tok", "221B Baker Street")

	assert.Error(t, err)
	assert.Len(t, b.Addresses(), 1)
}
