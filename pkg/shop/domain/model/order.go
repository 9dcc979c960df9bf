package model

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderStatus is stored and rendered as text; the string form appears in
// error messages.
type OrderStatus string

const (
	OrderOpen   OrderStatus = "OPEN"
	OrderClosed OrderStatus = "CLOSED"
)

// Order snapshots the cart's membership at checkout time. Like the cart it
// carries no quantities. Status moves OPEN -> CLOSED exactly once, via cancel.
type Order struct {
	ID       uuid.UUID
	Products []Product
	Status   OrderStatus
}

type OrderRepository interface {
	NextID() (uuid.UUID, error)
	Store(ctx context.Context, order *Order) error
	Find(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindAll carries no ordering guarantee.
	FindAll(ctx context.Context) ([]*Order, error)
	DeleteAll(ctx context.Context) error
}
