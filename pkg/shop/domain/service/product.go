package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/mykyta-k1/tx-foundations/pkg/common/domain"
	"github.com/mykyta-k1/tx-foundations/pkg/shop/domain/model"
)

var (
	ErrNegativePrice = errors.New("product price cannot be negative")
	ErrNegativeStock = errors.New("product stock cannot be negative")
)

// ProductService manages the catalog the workflows draw from.
type ProductService interface {
	CreateProduct(ctx context.Context, name string, price decimal.Decimal, stock int) (*model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context) ([]*model.Product, error)
}

func NewProductService(uow model.UnitOfWork, dispatcher domain.EventDispatcher) ProductService {
	return &productService{uow: uow, dispatcher: dispatcher}
}

type productService struct {
	uow        model.UnitOfWork
	dispatcher domain.EventDispatcher
}

func (s *productService) CreateProduct(ctx context.Context, name string, price decimal.Decimal, stock int) (*model.Product, error) {
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}
	if stock < 0 {
		return nil, ErrNegativeStock
	}

	var product *model.Product
	err := s.uow.Execute(ctx, func(repos model.Repositories) error {
		productID, err := repos.Products().NextID()
		if err != nil {
			return err
		}

		product = &model.Product{
			ID:    productID,
			Name:  name,
			Price: price,
			Stock: stock,
		}
		return repos.Products().Store(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.ProductCreated{ProductID: product.ID, Name: product.Name})
	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product *model.Product
	err := s.uow.Execute(ctx, func(repos model.Repositories) error {
		var err error
		product, err = repos.Products().Find(ctx, id)
		if errors.Is(err, model.ErrProductNotFound) {
			return errors.Wrapf(ErrNotFound, "Product not found with id: %s", id)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	err := s.uow.Execute(ctx, func(repos model.Repositories) error {
		var err error
		products, err = repos.Products().FindAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}
