package model

import "context"

// Repositories is the transaction-scoped view of storage handed to a unit of
// work callback. All three repositories share one transaction.
type Repositories interface {
	Products() ProductRepository
	Carts() CartRepository
	Orders() OrderRepository
}

// UnitOfWork runs fn as one atomic unit against storage: every write staged
// inside fn is committed when fn returns nil and discarded when it returns an
// error. Release is guaranteed on every exit path.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}
