package model

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrProductNotFound = errors.New("product not found")

type Product struct {
	ID    uuid.UUID
	Name  string
	Price decimal.Decimal
	Stock int
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

type ProductRepository interface {
	NextID() (uuid.UUID, error)
	// Store creates the product or replaces the stored record with the same id.
	Store(ctx context.Context, product *Product) error
	Find(ctx context.Context, id uuid.UUID) (*Product, error)
	FindAll(ctx context.Context) ([]*Product, error)
	DeleteAll(ctx context.Context) error
}
