package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mykyta-k1/tx-foundations/pkg/common/domain"
	"github.com/mykyta-k1/tx-foundations/pkg/shop/domain/model"
)

type CartService interface {
	AddToCart(ctx context.Context, productID uuid.UUID) (*model.Product, error)
}

func NewCartService(uow model.UnitOfWork, dispatcher domain.EventDispatcher) CartService {
	return &cartService{uow: uow, dispatcher: dispatcher}
}

type cartService struct {
	uow        model.UnitOfWork
	dispatcher domain.EventDispatcher
}

// AddToCart reserves one unit of the product and records its membership in
// the current cart, creating the cart on first use. The stock decrement and
// the membership change land atomically or not at all.
func (s *cartService) AddToCart(ctx context.Context, productID uuid.UUID) (*model.Product, error) {
	var (
		product *model.Product
		event   model.ProductAddedToCart
	)

	err := s.uow.Execute(ctx, func(repos model.Repositories) error {
		var err error
		product, err = repos.Products().Find(ctx, productID)
		if errors.Is(err, model.ErrProductNotFound) {
			return errors.Wrapf(ErrNotFound, "Product not found with id: %s", productID)
		}
		if err != nil {
			return err
		}

		if !product.InStock() {
			return errors.Wrapf(ErrInvalidState, "Product out of stock: %s", product.Name)
		}

		product.Stock--
		if err := repos.Products().Store(ctx, product); err != nil {
			return err
		}

		cart, err := repos.Carts().FindFirst(ctx)
		if errors.Is(err, model.ErrCartNotFound) {
			cart, err = repos.Carts().CreateIfAbsent(ctx)
		}
		if err != nil {
			return err
		}

		cart.Add(*product)
		if err := repos.Carts().Store(ctx, cart); err != nil {
			return err
		}

		event = model.ProductAddedToCart{
			CartID:         cart.ID,
			ProductID:      product.ID,
			RemainingStock: product.Stock,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(event)
	return product, nil
}
