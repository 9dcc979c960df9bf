package mysql

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mykyta-k1/tx-foundations/pkg/shop/domain/model"
)

type orderRow struct {
	ID     uuid.UUID `db:"id"`
	Status string    `db:"status"`
}

type OrderRepository struct {
	tx *sqlx.Tx
}

func (r *OrderRepository) NextID() (uuid.UUID, error) {
	return uuid.New(), nil
}

func (r *OrderRepository) Store(ctx context.Context, order *model.Order) error {
	const upsert = `
		INSERT INTO orders (id, status) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE status = VALUES(status)`
	if _, err := r.tx.ExecContext(ctx, upsert, order.ID, string(order.Status)); err != nil {
		return errors.Wrap(err, "store order")
	}

	if _, err := r.tx.ExecContext(ctx, `DELETE FROM order_products WHERE order_id = ?`, order.ID); err != nil {
		return errors.Wrap(err, "clear order membership")
	}
	for _, p := range order.Products {
		const insert = `INSERT INTO order_products (order_id, product_id) VALUES (?, ?)`
		if _, err := r.tx.ExecContext(ctx, insert, order.ID, p.ID); err != nil {
			return errors.Wrap(err, "store order membership")
		}
	}
	return nil
}

func (r *OrderRepository) Find(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var row orderRow
	err := r.tx.GetContext(ctx, &row, `SELECT id, status FROM orders WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find order")
	}
	return r.load(ctx, row)
}

// FindAll deliberately carries no ORDER BY: the workflow contract over this
// listing is "whatever comes back first".
func (r *OrderRepository) FindAll(ctx context.Context) ([]*model.Order, error) {
	var rows []orderRow
	if err := r.tx.SelectContext(ctx, &rows, `SELECT id, status FROM orders`); err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	orders := make([]*model.Order, 0, len(rows))
	for _, row := range rows {
		order, err := r.load(ctx, row)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *OrderRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.tx.ExecContext(ctx, `DELETE FROM order_products`); err != nil {
		return errors.Wrap(err, "delete order memberships")
	}
	_, err := r.tx.ExecContext(ctx, `DELETE FROM orders`)
	return errors.Wrap(err, "delete orders")
}

func (r *OrderRepository) load(ctx context.Context, row orderRow) (*model.Order, error) {
	const query = `
		SELECT p.id, p.name, p.price, p.stock
		FROM products p
		JOIN order_products op ON op.product_id = p.id
		WHERE op.order_id = ?`
	var productRows []productRow
	if err := r.tx.SelectContext(ctx, &productRows, query, row.ID); err != nil {
		return nil, errors.Wrap(err, "load order products")
	}

	order := &model.Order{ID: row.ID, Status: model.OrderStatus(row.Status)}
	for _, p := range productRows {
		order.Products = append(order.Products, *p.toModel())
	}
	return order, nil
}
