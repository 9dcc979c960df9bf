package memory

import (
	"context"

	"github.com/hashicorp/go-memdb"

	"github.com/mykyta-k1/tx-foundations/pkg/shop/domain/model"
)

const (
	tableProducts = "products"
	tableCarts    = "carts"
	tableOrders   = "orders"
)

func schema() *memdb.DBSchema {
	idIndex := func() map[string]*memdb.IndexSchema {
		return map[string]*memdb.IndexSchema{
			"id": {
				Name:    "id",
				Unique:  true,
				Indexer: &memdb.StringFieldIndex{Field: "ID"},
			},
		}
	}
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableProducts: {Name: tableProducts, Indexes: idIndex()},
			tableCarts:    {Name: tableCarts, Indexes: idIndex()},
			tableOrders:   {Name: tableOrders, Indexes: idIndex()},
		},
	}
}

// Store is a go-memdb backed storage layer. Each unit of work maps onto one
// memdb write transaction, so discarding staged writes is the database's own
// Abort, not a hand-rolled undo.
type Store struct {
	db *memdb.MemDB
}

func NewStore() (*Store, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Execute(ctx context.Context, fn func(repos model.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	txn := s.db.Txn(true)
	if err := fn(&repositories{txn: txn}); err != nil {
		txn.Abort()
		return err
	}
	txn.Commit()
	return nil
}

type repositories struct {
	txn *memdb.Txn
}

func (r *repositories) Products() model.ProductRepository { return &productRepository{txn: r.txn} }
func (r *repositories) Carts() model.CartRepository       { return &cartRepository{txn: r.txn} }
func (r *repositories) Orders() model.OrderRepository     { return &orderRepository{txn: r.txn} }

func deleteAll(txn *memdb.Txn, table string) error {
	it, err := txn.Get(table, "id")
	if err != nil {
		return err
	}
	var records []interface{}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		records = append(records, raw)
	}
	for _, rec := range records {
		if err := txn.Delete(table, rec); err != nil {
			return err
		}
	}
	return nil
}
