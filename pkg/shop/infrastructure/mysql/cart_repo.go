package mysql

import (
	"context"
	"database/sql"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mykyta-k1/tx-foundations/pkg/shop/domain/model"
)

const mysqlDuplicateEntry = 1062

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

type CartRepository struct {
	tx *sqlx.Tx
}

func (r *CartRepository) NextID() (uuid.UUID, error) {
	return uuid.New(), nil
}

func (r *CartRepository) Store(ctx context.Context, cart *model.Cart) error {
	const upsert = `
		INSERT INTO shopping_carts (id) VALUES (?)
		ON DUPLICATE KEY UPDATE id = id`
	if _, err := r.tx.ExecContext(ctx, upsert, cart.ID); err != nil {
		return errors.Wrap(err, "store cart")
	}

	// Membership is replaced wholesale; the set is small by construction.
	if _, err := r.tx.ExecContext(ctx, `DELETE FROM shopping_cart_products WHERE cart_id = ?`, cart.ID); err != nil {
		return errors.Wrap(err, "clear cart membership")
	}
	for _, p := range cart.Products {
		const insert = `INSERT INTO shopping_cart_products (cart_id, product_id) VALUES (?, ?)`
		if _, err := r.tx.ExecContext(ctx, insert, cart.ID, p.ID); err != nil {
			return errors.Wrap(err, "store cart membership")
		}
	}
	return nil
}

func (r *CartRepository) Find(ctx context.Context, id uuid.UUID) (*model.Cart, error) {
	var cartID uuid.UUID
	err := r.tx.GetContext(ctx, &cartID, `SELECT id FROM shopping_carts WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrCartNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find cart")
	}
	return r.load(ctx, cartID)
}

func (r *CartRepository) FindFirst(ctx context.Context) (*model.Cart, error) {
	// Lowest id wins: the tie-break that defines "the current cart" when more
	// than one row exists.
	var cartID uuid.UUID
	err := r.tx.GetContext(ctx, &cartID, `SELECT id FROM shopping_carts ORDER BY id ASC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrCartNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find first cart")
	}
	return r.load(ctx, cartID)
}

func (r *CartRepository) CreateIfAbsent(ctx context.Context) (*model.Cart, error) {
	id, err := r.NextID()
	if err != nil {
		return nil, err
	}

	// The anchor column carries a unique constraint over a constant value, so
	// at most one row can ever be inserted. A duplicate-entry error means a
	// concurrent caller won the race; fall back to their cart.
	_, err = r.tx.ExecContext(ctx, `INSERT INTO shopping_carts (id, anchor) VALUES (?, 1)`, id)
	if isDuplicateEntry(err) {
		return r.FindFirst(ctx)
	}
	if err != nil {
		return nil, errors.Wrap(err, "create cart")
	}
	return &model.Cart{ID: id}, nil
}

func (r *CartRepository) FindAll(ctx context.Context) ([]*model.Cart, error) {
	var ids []uuid.UUID
	if err := r.tx.SelectContext(ctx, &ids, `SELECT id FROM shopping_carts ORDER BY id ASC`); err != nil {
		return nil, errors.Wrap(err, "list carts")
	}
	carts := make([]*model.Cart, 0, len(ids))
	for _, id := range ids {
		cart, err := r.load(ctx, id)
		if err != nil {
			return nil, err
		}
		carts = append(carts, cart)
	}
	return carts, nil
}

func (r *CartRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.tx.ExecContext(ctx, `DELETE FROM shopping_cart_products`); err != nil {
		return errors.Wrap(err, "delete cart memberships")
	}
	_, err := r.tx.ExecContext(ctx, `DELETE FROM shopping_carts`)
	return errors.Wrap(err, "delete carts")
}

// load eagerly fetches the membership's product rows.
func (r *CartRepository) load(ctx context.Context, id uuid.UUID) (*model.Cart, error) {
	const query = `
		SELECT p.id, p.name, p.price, p.stock
		FROM products p
		JOIN shopping_cart_products cp ON cp.product_id = p.id
		WHERE cp.cart_id = ?`
	var rows []productRow
	if err := r.tx.SelectContext(ctx, &rows, query, id); err != nil {
		return nil, errors.Wrap(err, "load cart products")
	}

	cart := &model.Cart{ID: id}
	for _, row := range rows {
		cart.Products = append(cart.Products, *row.toModel())
	}
	return cart, nil
}
