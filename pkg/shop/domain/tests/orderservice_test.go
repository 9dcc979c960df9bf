package tests

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mykyta-k1/tx-foundations/pkg/shop/domain/model"
	"github.com/mykyta-k1/tx-foundations/pkg/shop/domain/service"
)

func TestCheckout(t *testing.T) {
	uow, dispatcher := setup(t)
	orderService := service.NewOrderService(uow, dispatcher)
	laptop := storeProduct(t, uow, "Laptop", "1200.00", 5)
	mouse := storeProduct(t, uow, "Mouse", "25.50", 10)
	storeCartWith(t, uow, laptop, mouse)

	total, err := orderService.Checkout(context.Background())

	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("1225.50")), "total = %s", total)

	orders := listOrders(t, uow)
	require.Len(t, orders, 1)
	assert.Equal(t, model.OrderOpen, orders[0].Status)
	assert.Len(t, orders[0].Products, 2)

	cart, err := findFirstCart(t, uow)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	require.Len(t, dispatcher.events, 1)
	event, ok := dispatcher.events[0].(model.OrderPlaced)
	require.True(t, ok)
	assert.Equal(t, 2, event.ProductCount)
	assert.True(t, event.TotalPrice.Equal(total))
}

func TestCheckoutSingleProduct(t *testing.T) {
	uow, dispatcher := setup(t)
	orderService := service.NewOrderService(uow, dispatcher)
	laptop := storeProduct(t, uow, "Laptop", "1200.00", 5)
	storeCartWith(t, uow, laptop)

	total, err := orderService.Checkout(context.Background())

	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("1200.00")), "total = %s", total)
}

func TestCheckoutEmptyCart(t *testing.T) {
	uow, dispatcher := setup(t)
	orderService := service.NewOrderService(uow, dispatcher)
	storeCartWith(t, uow)

	_, err := orderService.Checkout(context.Background())

	assert.ErrorIs(t, err, service.ErrInvalidState)
	assert.Contains(t, err.Error(), "Cannot checkout with empty cart")
	assert.Empty(t, listOrders(t, uow))
}

func TestCheckoutWithoutCart(t *testing.T) {
	uow, dispatcher := setup(t)
	orderService := service.NewOrderService(uow, dispatcher)

	_, err := orderService.Checkout(context.Background())

	assert.ErrorIs(t, err, service.ErrInvalidState)
	assert.Contains(t, err.Error(), "Cart not found")
}

func TestCancel(t *testing.T) {
	uow, dispatcher := setup(t)
	orderService := service.NewOrderService(uow, dispatcher)
	laptop := storeProduct(t, uow, "Laptop", "1200.00", 5)
	mouse := storeProduct(t, uow, "Mouse", "25.50", 10)
	order := storeOrder(t, uow, model.OrderOpen, laptop, mouse)

	err := orderService.Cancel(context.Background())

	require.NoError(t, err)

	orders := listOrders(t, uow)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
	assert.Equal(t, model.OrderClosed, orders[0].Status)

	assert.Equal(t, 6, findProduct(t, uow, laptop).Stock)
	assert.Equal(t, 11, findProduct(t, uow, mouse).Stock)

	require.Len(t, dispatcher.events, 1)
	event, ok := dispatcher.events[0].(model.OrderCancelled)
	require.True(t, ok)
	assert.Equal(t, order.ID, event.OrderID)
}

// Restoration has no upper bound: a product sold down to zero comes back to
// one regardless of what the stock ever was.
func TestCancelRestoresStockFromZero(t *testing.T) {
	uow, dispatcher := setup(t)
	orderService := service.NewOrderService(uow, dispatcher)
	laptop := storeProduct(t, uow, "Laptop", "1200.00", 0)
	storeOrder(t, uow, model.OrderOpen, laptop)

	err := orderService.Cancel(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, findProduct(t, uow, laptop).Stock)
}

func TestCancelWithoutOrders(t *testing.T) {
	uow, dispatcher := setup(t)
	orderService := service.NewOrderService(uow, dispatcher)

	err := orderService.Cancel(context.Background())

	assert.ErrorIs(t, err, service.ErrInvalidState)
	assert.Contains(t, err.Error(), "No order found to cancel")
}

// Cancel works on whichever order the unordered listing yields first, not on
// "the latest open order": the status check comes after selection, so a
// closed order at the head blocks cancellation. Kept as is; these tests pin
// the literal behavior.
func TestCancelClosedOrder(t *testing.T) {
	uow, dispatcher := setup(t)
	orderService := service.NewOrderService(uow, dispatcher)
	laptop := storeProduct(t, uow, "Laptop", "1200.00", 5)
	storeOrder(t, uow, model.OrderClosed, laptop)

	err := orderService.Cancel(context.Background())

	assert.ErrorIs(t, err, service.ErrInvalidState)
	assert.Contains(t, err.Error(), "Cannot cancel order with status: CLOSED")

	// Stock untouched by the failed call.
	assert.Equal(t, 5, findProduct(t, uow, laptop).Stock)
}

func TestCancelMissingProduct(t *testing.T) {
	uow, dispatcher := setup(t)
	orderService := service.NewOrderService(uow, dispatcher)
	laptop := storeProduct(t, uow, "Laptop", "1200.00", 5)
	phantom := &model.Product{ID: uuid.New(), Name: "Phantom", Price: decimal.RequireFromString("1.00"), Stock: 0}
	storeOrder(t, uow, model.OrderOpen, laptop, phantom)

	err := orderService.Cancel(context.Background())

	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Contains(t, err.Error(), "Product not found during cancel")

	// The laptop restore staged before the failure must have been rolled back,
	// and the order must still be open.
	assert.Equal(t, 5, findProduct(t, uow, laptop).Stock)
	orders := listOrders(t, uow)
	require.Len(t, orders, 1)
	assert.Equal(t, model.OrderOpen, orders[0].Status)
}
