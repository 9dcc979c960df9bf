package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/mykyta-k1/tx-foundations/pkg/common/domain"
	"github.com/mykyta-k1/tx-foundations/pkg/shop/domain/model"
)

type OrderService interface {
	Checkout(ctx context.Context) (decimal.Decimal, error)
	Cancel(ctx context.Context) error
}

func NewOrderService(uow model.UnitOfWork, dispatcher domain.EventDispatcher) OrderService {
	return &orderService{uow: uow, dispatcher: dispatcher}
}

type orderService struct {
	uow        model.UnitOfWork
	dispatcher domain.EventDispatcher
}

// Checkout converts the current cart into a new OPEN order, empties the cart
// and returns the order total. Either the order exists and the cart is empty,
// or nothing changed.
func (s *orderService) Checkout(ctx context.Context) (decimal.Decimal, error) {
	var (
		total decimal.Decimal
		event model.OrderPlaced
	)

	err := s.uow.Execute(ctx, func(repos model.Repositories) error {
		cart, err := repos.Carts().FindFirst(ctx)
		if errors.Is(err, model.ErrCartNotFound) {
			return errors.Wrap(ErrInvalidState, "Cart not found")
		}
		if err != nil {
			return err
		}

		if cart.IsEmpty() {
			return errors.Wrap(ErrInvalidState, "Cannot checkout with empty cart")
		}

		orderID, err := repos.Orders().NextID()
		if err != nil {
			return err
		}
		order := &model.Order{
			ID:       orderID,
			Products: append([]model.Product(nil), cart.Products...),
			Status:   model.OrderOpen,
		}

		total = decimal.Zero
		for _, p := range order.Products {
			total = total.Add(p.Price)
		}

		cart.Clear()
		if err := repos.Carts().Store(ctx, cart); err != nil {
			return err
		}
		if err := repos.Orders().Store(ctx, order); err != nil {
			return err
		}

		event = model.OrderPlaced{
			OrderID:      order.ID,
			ProductCount: len(order.Products),
			TotalPrice:   total,
		}
		return nil
	})
	if err != nil {
		return decimal.Decimal{}, err
	}

	_ = s.dispatcher.Dispatch(event)
	return total, nil
}

// Cancel closes an order and puts one unit of stock back for every product it
// references. The order to cancel is whatever storage returns first from an
// unordered find-all; the status is checked only after selection, so a closed
// order at the head of the listing blocks cancellation even when open orders
// exist. That selection rule is kept as is.
func (s *orderService) Cancel(ctx context.Context) error {
	var event model.OrderCancelled

	err := s.uow.Execute(ctx, func(repos model.Repositories) error {
		orders, err := repos.Orders().FindAll(ctx)
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			return errors.Wrap(ErrInvalidState, "No order found to cancel")
		}
		order := orders[0]

		if order.Status != model.OrderOpen {
			return errors.Wrapf(ErrInvalidState, "Cannot cancel order with status: %s", order.Status)
		}

		for _, p := range order.Products {
			stored, err := repos.Products().Find(ctx, p.ID)
			if errors.Is(err, model.ErrProductNotFound) {
				return errors.Wrapf(ErrNotFound, "Product not found during cancel: %s", p.ID)
			}
			if err != nil {
				return err
			}

			stored.Stock++
			if err := repos.Products().Store(ctx, stored); err != nil {
				return err
			}
		}

		order.Status = model.OrderClosed
		if err := repos.Orders().Store(ctx, order); err != nil {
			return err
		}

		event = model.OrderCancelled{OrderID: order.ID}
		return nil
	})
	if err != nil {
		return err
	}

	_ = s.dispatcher.Dispatch(event)
	return nil
}
