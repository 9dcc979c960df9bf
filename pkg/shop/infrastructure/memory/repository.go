package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
	"github.com/shopspring/decimal"

	"github.com/mykyta-k1/tx-foundations/pkg/shop/domain/model"
)

// memdb treats stored records as immutable, so repositories insert fresh
// record values and rebuild model objects on every read.

type productRecord struct {
	ID    string
	Name  string
	Price string
	Stock int
}

type cartRecord struct {
	ID         string
	ProductIDs []string
}

type orderRecord struct {
	ID       string
	Status   string
	Products []productRecord
}

func toProductRecord(p *model.Product) *productRecord {
	return &productRecord{
		ID:    p.ID.String(),
		Name:  p.Name,
		Price: p.Price.String(),
		Stock: p.Stock,
	}
}

func fromProductRecord(rec *productRecord) (*model.Product, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return nil, err
	}
	price, err := decimal.NewFromString(rec.Price)
	if err != nil {
		return nil, err
	}
	return &model.Product{ID: id, Name: rec.Name, Price: price, Stock: rec.Stock}, nil
}

type productRepository struct {
	txn *memdb.Txn
}

func (r *productRepository) NextID() (uuid.UUID, error) {
	return uuid.New(), nil
}

func (r *productRepository) Store(_ context.Context, product *model.Product) error {
	return r.txn.Insert(tableProducts, toProductRecord(product))
}

func (r *productRepository) Find(_ context.Context, id uuid.UUID) (*model.Product, error) {
	raw, err := r.txn.First(tableProducts, "id", id.String())
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, model.ErrProductNotFound
	}
	return fromProductRecord(raw.(*productRecord))
}

func (r *productRepository) FindAll(_ context.Context) ([]*model.Product, error) {
	it, err := r.txn.Get(tableProducts, "id")
	if err != nil {
		return nil, err
	}
	var products []*model.Product
	for raw := it.Next(); raw != nil; raw = it.Next() {
		p, err := fromProductRecord(raw.(*productRecord))
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *productRepository) DeleteAll(_ context.Context) error {
	return deleteAll(r.txn, tableProducts)
}

type cartRepository struct {
	txn *memdb.Txn
}

func (r *cartRepository) NextID() (uuid.UUID, error) {
	return uuid.New(), nil
}

func (r *cartRepository) Store(_ context.Context, cart *model.Cart) error {
	rec := &cartRecord{ID: cart.ID.String()}
	for _, p := range cart.Products {
		rec.ProductIDs = append(rec.ProductIDs, p.ID.String())
	}
	return r.txn.Insert(tableCarts, rec)
}

func (r *cartRepository) Find(_ context.Context, id uuid.UUID) (*model.Cart, error) {
	raw, err := r.txn.First(tableCarts, "id", id.String())
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, model.ErrCartNotFound
	}
	return r.resolve(raw.(*cartRecord))
}

func (r *cartRepository) FindFirst(_ context.Context) (*model.Cart, error) {
	// The id index iterates in ascending order, which is exactly the
	// lowest-id tie-break the singleton lookup relies on.
	it, err := r.txn.Get(tableCarts, "id")
	if err != nil {
		return nil, err
	}
	raw := it.Next()
	if raw == nil {
		return nil, model.ErrCartNotFound
	}
	return r.resolve(raw.(*cartRecord))
}

func (r *cartRepository) CreateIfAbsent(ctx context.Context) (*model.Cart, error) {
	// memdb allows a single writer, so inside one transaction check-then-insert
	// cannot race another creator.
	existing, err := r.FindFirst(ctx)
	if err == nil {
		return existing, nil
	}
	if err != model.ErrCartNotFound {
		return nil, err
	}

	id, err := r.NextID()
	if err != nil {
		return nil, err
	}
	cart := &model.Cart{ID: id}
	if err := r.Store(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *cartRepository) FindAll(_ context.Context) ([]*model.Cart, error) {
	it, err := r.txn.Get(tableCarts, "id")
	if err != nil {
		return nil, err
	}
	var carts []*model.Cart
	for raw := it.Next(); raw != nil; raw = it.Next() {
		cart, err := r.resolve(raw.(*cartRecord))
		if err != nil {
			return nil, err
		}
		carts = append(carts, cart)
	}
	return carts, nil
}

func (r *cartRepository) DeleteAll(_ context.Context) error {
	return deleteAll(r.txn, tableCarts)
}

// resolve loads the membership's product rows, mirroring the relational
// eager fetch.
func (r *cartRepository) resolve(rec *cartRecord) (*model.Cart, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return nil, err
	}
	cart := &model.Cart{ID: id}
	for _, pid := range rec.ProductIDs {
		raw, err := r.txn.First(tableProducts, "id", pid)
		if err != nil {
			return nil, err
		}
		if raw == nil {
			continue
		}
		p, err := fromProductRecord(raw.(*productRecord))
		if err != nil {
			return nil, err
		}
		cart.Products = append(cart.Products, *p)
	}
	return cart, nil
}

type orderRepository struct {
	txn *memdb.Txn
}

func (r *orderRepository) NextID() (uuid.UUID, error) {
	return uuid.New(), nil
}

func (r *orderRepository) Store(_ context.Context, order *model.Order) error {
	rec := &orderRecord{ID: order.ID.String(), Status: string(order.Status)}
	for i := range order.Products {
		rec.Products = append(rec.Products, *toProductRecord(&order.Products[i]))
	}
	return r.txn.Insert(tableOrders, rec)
}

func (r *orderRepository) Find(_ context.Context, id uuid.UUID) (*model.Order, error) {
	raw, err := r.txn.First(tableOrders, "id", id.String())
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, model.ErrOrderNotFound
	}
	return fromOrderRecord(raw.(*orderRecord))
}

func (r *orderRepository) FindAll(_ context.Context) ([]*model.Order, error) {
	it, err := r.txn.Get(tableOrders, "id")
	if err != nil {
		return nil, err
	}
	var orders []*model.Order
	for raw := it.Next(); raw != nil; raw = it.Next() {
		order, err := fromOrderRecord(raw.(*orderRecord))
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *orderRepository) DeleteAll(_ context.Context) error {
	return deleteAll(r.txn, tableOrders)
}

func fromOrderRecord(rec *orderRecord) (*model.Order, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return nil, err
	}
	order := &model.Order{ID: id, Status: model.OrderStatus(rec.Status)}
	for i := range rec.Products {
		p, err := fromProductRecord(&rec.Products[i])
		if err != nil {
			return nil, err
		}
		order.Products = append(order.Products, *p)
	}
	return order, nil
}
