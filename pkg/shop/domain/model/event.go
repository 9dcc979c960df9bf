package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductCreated struct {
	ProductID uuid.UUID
	Name      string
}

func (e ProductCreated) Type() string { return "ProductCreated" }

type ProductAddedToCart struct {
	CartID         uuid.UUID
	ProductID      uuid.UUID
	RemainingStock int
}

func (e ProductAddedToCart) Type() string { return "ProductAddedToCart" }

type OrderPlaced struct {
	OrderID      uuid.UUID
	ProductCount int
	TotalPrice   decimal.Decimal
}

func (e OrderPlaced) Type() string { return "OrderPlaced" }

type OrderCancelled struct {
	OrderID uuid.UUID
}

func (e OrderCancelled) Type() string { return "OrderCancelled" }
