package mysql

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mykyta-k1/tx-foundations/pkg/shop/domain/model"
)

// UnitOfWork maps every workflow operation onto one database transaction.
// The storage layer provides the isolation; no extra locking is taken here.
type UnitOfWork struct {
	db *sqlx.DB
}

func NewUnitOfWork(db *sqlx.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) Execute(ctx context.Context, fn func(repos model.Repositories) error) error {
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}

	if err := fn(&repositories{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Wrapf(err, "rollback failed: %v", rbErr)
		}
		return err
	}
	return errors.Wrap(tx.Commit(), "commit transaction")
}

type repositories struct {
	tx *sqlx.Tx
}

func (r *repositories) Products() model.ProductRepository { return &ProductRepository{tx: r.tx} }
func (r *repositories) Carts() model.CartRepository       { return &CartRepository{tx: r.tx} }
func (r *repositories) Orders() model.OrderRepository     { return &OrderRepository{tx: r.tx} }
