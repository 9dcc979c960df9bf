package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mykyta-k1/tx-foundations/pkg/common/domain"
	"github.com/mykyta-k1/tx-foundations/pkg/shop/domain/model"
	"github.com/mykyta-k1/tx-foundations/pkg/shop/infrastructure/memory"
)

// Services run against the go-memdb store so the rollback assertions exercise
// a real transactional storage layer rather than a hand-rolled undo.
func setup(t *testing.T) (model.UnitOfWork, *mockEventDispatcher) {
	t.Helper()
	store, err := memory.NewStore()
	require.NoError(t, err)
	return store, &mockEventDispatcher{}
}

func storeProduct(t *testing.T, uow model.UnitOfWork, name, price string, stock int) *model.Product {
	t.Helper()
	var product *model.Product
	err := uow.Execute(context.Background(), func(repos model.Repositories) error {
		id, err := repos.Products().NextID()
		if err != nil {
			return err
		}
		product = &model.Product{
			ID:    id,
			Name:  name,
			Price: decimal.RequireFromString(price),
			Stock: stock,
		}
		return repos.Products().Store(context.Background(), product)
	})
	require.NoError(t, err)
	return product
}

func findProduct(t *testing.T, uow model.UnitOfWork, p *model.Product) *model.Product {
	t.Helper()
	var found *model.Product
	err := uow.Execute(context.Background(), func(repos model.Repositories) error {
		var err error
		found, err = repos.Products().Find(context.Background(), p.ID)
		return err
	})
	require.NoError(t, err)
	return found
}

func findFirstCart(t *testing.T, uow model.UnitOfWork) (*model.Cart, error) {
	t.Helper()
	var cart *model.Cart
	err := uow.Execute(context.Background(), func(repos model.Repositories) error {
		var err error
		cart, err = repos.Carts().FindFirst(context.Background())
		return err
	})
	return cart, err
}

func storeCartWith(t *testing.T, uow model.UnitOfWork, products ...*model.Product) *model.Cart {
	t.Helper()
	var cart *model.Cart
	err := uow.Execute(context.Background(), func(repos model.Repositories) error {
		var err error
		cart, err = repos.Carts().CreateIfAbsent(context.Background())
		if err != nil {
			return err
		}
		for _, p := range products {
			cart.Add(*p)
		}
		return repos.Carts().Store(context.Background(), cart)
	})
	require.NoError(t, err)
	return cart
}

func storeOrder(t *testing.T, uow model.UnitOfWork, status model.OrderStatus, products ...*model.Product) *model.Order {
	t.Helper()
	var order *model.Order
	err := uow.Execute(context.Background(), func(repos model.Repositories) error {
		id, err := repos.Orders().NextID()
		if err != nil {
			return err
		}
		order = &model.Order{ID: id, Status: status}
		for _, p := range products {
			order.Products = append(order.Products, *p)
		}
		return repos.Orders().Store(context.Background(), order)
	})
	require.NoError(t, err)
	return order
}

func listOrders(t *testing.T, uow model.UnitOfWork) []*model.Order {
	t.Helper()
	var orders []*model.Order
	err := uow.Execute(context.Background(), func(repos model.Repositories) error {
		var err error
		orders, err = repos.Orders().FindAll(context.Background())
		return err
	})
	require.NoError(t, err)
	return orders
}

type mockEventDispatcher struct {
	events []domain.Event
}

func (m *mockEventDispatcher) Dispatch(event domain.Event) error {
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventDispatcher) Reset() {
	m.events = nil
}

// faultyUnitOfWork injects a failing cart store into an otherwise working
// unit of work, to prove that staged writes are discarded.
var errInjected = errors.New("injected storage failure")

type faultyUnitOfWork struct {
	inner model.UnitOfWork
}

func (u *faultyUnitOfWork) Execute(ctx context.Context, fn func(repos model.Repositories) error) error {
	return u.inner.Execute(ctx, func(repos model.Repositories) error {
		return fn(&faultyRepositories{Repositories: repos})
	})
}

type faultyRepositories struct {
	model.Repositories
}

func (f *faultyRepositories) Carts() model.CartRepository {
	return &failingCartRepository{CartRepository: f.Repositories.Carts()}
}

type failingCartRepository struct {
	model.CartRepository
}

func (r *failingCartRepository) Store(context.Context, *model.Cart) error {
	return errInjected
}
