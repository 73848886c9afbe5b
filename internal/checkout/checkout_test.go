package checkout

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Dhwanith/qkart/internal/address"
	"github.com/Dhwanith/qkart/internal/api"
	"github.com/Dhwanith/qkart/internal/cart"
	"github.com/Dhwanith/qkart/internal/catalog"
	"github.com/Dhwanith/qkart/internal/session"
)

// --- helpers ---

type listGateway struct{ list []api.Address }

func (g *listGateway) Addresses(ctx context.Context, token string) ([]api.Address, error) {
	return g.list, nil
}
func (g *listGateway) AddAddress(ctx context.Context, token, text string) ([]api.Address, error) {
	return g.list, nil
}
func (g *listGateway) DeleteAddress(ctx context.Context, token, id string) ([]api.Address, error) {
	return g.list, nil
}

func bookWith(t *testing.T, selected string, addrs ...api.Address) *address.Book {
	t.Helper()
	b := address.NewBook(&listGateway{list: addrs}, nil)
	require.NoError(t, b.Refresh(context.Background(), "tok"))
	if selected != "" {
		b.Select(selected)
	}
	return b
}

func itemsWorth(costs ...int64) []cart.Item {
	items := make([]cart.Item, 0, len(costs))
	for i, c := range costs {
		items = append(items, cart.Item{
			Product: catalog.Product{ID: string(rune('a' + i)), Cost: decimal.NewFromInt(c)},
			Qty:     1,
		})
	}
	return items
}

// --- validator ---

func TestValidateEmptyAddressBookBeatsEverything(t *testing.T) {
	// items total 10, balance 100: still fails on the missing address
	err := Validate(itemsWorth(10), bookWith(t, ""), decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrNoAddress)
}

func TestValidateNoSelectionBeatsBalance(t *testing.T) {
	book := bookWith(t, "", api.Address{ID: "a1", Text: "221B Baker Street"})
	err := Validate(itemsWorth(10), book, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrNoAddressSelected)
}

func TestValidateInsufficientBalance(t *testing.T) {
	book := bookWith(t, "a1", api.Address{ID: "a1"})
	err := Validate(itemsWorth(500), book, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestValidatePasses(t *testing.T) {
	book := bookWith(t, "a1", api.Address{ID: "a1"})
	assert.NoError(t, Validate(itemsWorth(50, 50), book, decimal.NewFromInt(100)))
}

func TestValidateExactBalancePasses(t *testing.T) {
	book := bookWith(t, "a1", api.Address{ID: "a1"})
	assert.NoError(t, Validate(itemsWorth(100), book, decimal.NewFromInt(100)))
}

func TestValidateFailureMessages(t *testing.T) {
	assert.EqualError(t, ErrNoAddress, "no address to ship to")
	assert.EqualError(t, ErrNoAddressSelected, "no address selected")
	assert.EqualError(t, ErrInsufficientFunds, "insufficient balance")
}

// --- orchestrator ---

type MockGateway struct{ mock.Mock }

func (m *MockGateway) Checkout(ctx context.Context, token, addressID string) error {
	args := m.Called(ctx, token, addressID)
	return args.Error(0)
}

func TestPlaceOrderDebitsBalanceOnSuccess(t *testing.T) {
	gw := new(MockGateway)
	gw.On("Checkout", mock.Anything, "tok", "a1").Return(nil)

	sess := session.New("tok", "criodo", decimal.NewFromInt(500))
	orch := NewOrchestrator(gw, nil)

	total, err := orch.PlaceOrder(context.Background(), sess, itemsWorth(120), "a1")

	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(120)))
	assert.True(t, sess.Balance().Equal(decimal.NewFromInt(380)))
	gw.AssertExpectations(t)
}

func TestPlaceOrderFailureLeavesBalanceUntouched(t *testing.T) {
	gw := new(MockGateway)
	gw.On("Checkout", mock.Anything, "tok", "a1").
		Return(&api.NetworkError{Op: "checkout", Err: assert.AnError})

	sess := session.New("tok", "criodo", decimal.NewFromInt(500))
	orch := NewOrchestrator(gw, nil)

	_, err := orch.PlaceOrder(context.Background(), sess, itemsWorth(120), "a1")

	assert.ErrorIs(t, err, ErrPaymentFailed)
	assert.True(t, sess.Balance().Equal(decimal.NewFromInt(500)))
}

func TestPlaceOrderSurfacesServerMessageVerbatim(t *testing.T) {
	gw := new(MockGateway)
	gw.On("Checkout", mock.Anything, "tok", "a1").
		Return(&api.BusinessError{StatusCode: 400, Message: "Wallet balance not sufficient to place order"})

	sess := session.New("tok", "criodo", decimal.NewFromInt(500))
	orch := NewOrchestrator(gw, nil)

	_, err := orch.PlaceOrder(context.Background(), sess, itemsWorth(120), "a1")

	be, ok := api.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, "Wallet balance not sufficient to place order", be.Message)
	assert.True(t, sess.Balance().Equal(decimal.NewFromInt(500)))
}

func TestPlaceOrderIssuesSingleCall(t *testing.T) {
	gw := new(MockGateway)
	gw.On("Checkout", mock.Anything, "tok", "a1").Return(&api.NetworkError{Op: "checkout", Err: assert.AnError})

	sess := session.New("tok", "criodo", decimal.NewFromInt(500))
	orch := NewOrchestrator(gw, nil)

	_, _ = orch.PlaceOrder(context.Background(), sess, itemsWorth(10), "a1")

	// no retries: the user re-invokes checkout
	gw.AssertNumberOfCalls(t, "Checkout", 1)
}
