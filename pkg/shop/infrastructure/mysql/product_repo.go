package mysql

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/mykyta-k1/tx-foundations/pkg/shop/domain/model"
)

type productRow struct {
	ID    uuid.UUID       `db:"id"`
	Name  string          `db:"name"`
	Price decimal.Decimal `db:"price"`
	Stock int             `db:"stock"`
}

func (r productRow) toModel() *model.Product {
	return &model.Product{ID: r.ID, Name: r.Name, Price: r.Price, Stock: r.Stock}
}

type ProductRepository struct {
	tx *sqlx.Tx
}

func (r *ProductRepository) NextID() (uuid.UUID, error) {
	return uuid.New(), nil
}

func (r *ProductRepository) Store(ctx context.Context, product *model.Product) error {
	const query = `
		INSERT INTO products (id, name, price, stock)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE name = VALUES(name), price = VALUES(price), stock = VALUES(stock)`
	_, err := r.tx.ExecContext(ctx, query, product.ID, product.Name, product.Price, product.Stock)
	return errors.Wrap(err, "store product")
}

func (r *ProductRepository) Find(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var row productRow
	err := r.tx.GetContext(ctx, &row, `SELECT id, name, price, stock FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find product")
	}
	return row.toModel(), nil
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]*model.Product, error) {
	var rows []productRow
	if err := r.tx.SelectContext(ctx, &rows, `SELECT id, name, price, stock FROM products`); err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	products := make([]*model.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toModel())
	}
	return products, nil
}

func (r *ProductRepository) DeleteAll(ctx context.Context) error {
	_, err := r.tx.ExecContext(ctx, `DELETE FROM products`)
	return errors.Wrap(err, "delete products")
}
