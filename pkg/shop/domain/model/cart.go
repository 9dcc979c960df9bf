package model

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrCartNotFound = errors.New("cart not found")

// Cart holds product membership only. There is no quantity: adding a product
// that is already present leaves the membership unchanged. One cart is treated
// as "the current cart" system-wide; FindFirst defines which one.
type Cart struct {
	ID       uuid.UUID
	Products []Product
}

func (c *Cart) Contains(productID uuid.UUID) bool {
	for _, p := range c.Products {
		if p.ID == productID {
			return true
		}
	}
	return false
}

// Add inserts the product into the membership set. Adding an already-present
// product is a no-op.
func (c *Cart) Add(product Product) {
	if c.Contains(product.ID) {
		return
	}
	c.Products = append(c.Products, product)
}

func (c *Cart) Clear() {
	c.Products = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Products) == 0
}

type CartRepository interface {
	NextID() (uuid.UUID, error)
	Store(ctx context.Context, cart *Cart) error
	Find(ctx context.Context, id uuid.UUID) (*Cart, error)
	// FindFirst returns the cart with the lowest id, products eagerly loaded,
	// or ErrCartNotFound when no cart exists. The ordering is the tie-break
	// that picks "the current cart" should more than one row exist.
	FindFirst(ctx context.Context) (*Cart, error)
	// CreateIfAbsent creates an empty singleton cart. When another caller
	// created one concurrently, the existing cart is returned instead; the
	// storage layer guards this with a uniqueness primitive.
	CreateIfAbsent(ctx context.Context) (*Cart, error)
	FindAll(ctx context.Context) ([]*Cart, error)
	DeleteAll(ctx context.Context) error
}
