package services

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shoestop/backend/app/models"
	"github.com/shoestop/backend/app/repositories"
	"github.com/shoestop/backend/pkg/apperr"
)

// fakeStore is an in-memory stand-in for the Mongo repositories. One instance
// backs all three store interfaces so the transactional tests can snapshot
// and roll back the whole state at once.
type fakeStore struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]*models.Product
	carts    map[primitive.ObjectID]*models.Cart
	orders   []*models.Order

	insertOrderErr  error // forced failure on the next order insert
	failInsertTimes int   // how many inserts the forced failure applies to
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: make(map[primitive.ObjectID]*models.Product),
		carts:    make(map[primitive.ObjectID]*models.Cart),
	}
}

// Txn returns a TxnRunner that snapshots the store, runs fn, and restores the
// snapshot when fn fails — mimicking a Mongo transaction abort.
func (f *fakeStore) Txn() TxnRunner {
	return func(ctx context.Context, fn func(ctx context.Context) error) error {
		f.mu.Lock()
		products := copyProducts(f.products)
		carts := copyCarts(f.carts)
		orders := copyOrders(f.orders)
		f.mu.Unlock()

		if err := fn(ctx); err != nil {
			f.mu.Lock()
			f.products = products
			f.carts = carts
			f.orders = orders
			f.mu.Unlock()
			return err
		}
		return nil
	}
}

func copyProducts(in map[primitive.ObjectID]*models.Product) map[primitive.ObjectID]*models.Product {
	out := make(map[primitive.ObjectID]*models.Product, len(in))
	for k, v := range in {
		p := *v
		if v.Stock != nil {
			s := *v.Stock
			p.Stock = &s
		}
		out[k] = &p
	}
	return out
}

func copyCarts(in map[primitive.ObjectID]*models.Cart) map[primitive.ObjectID]*models.Cart {
	out := make(map[primitive.ObjectID]*models.Cart, len(in))
	for k, v := range in {
		c := *v
		c.Items = append([]models.CartItem(nil), v.Items...)
		out[k] = &c
	}
	return out
}

func copyOrders(in []*models.Order) []*models.Order {
	out := make([]*models.Order, 0, len(in))
	for _, v := range in {
		o := *v
		o.Items = append([]models.OrderItem(nil), v.Items...)
		out = append(out, &o)
	}
	return out
}

// ── ProductStore ─────────────────────────────────────────────────────────────

func (f *fakeStore) addProduct(p models.Product) primitive.ObjectID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.products[p.ID] = &p
	return p.ID
}

func (f *fakeStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, apperr.NotFound("Product not found")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[primitive.ObjectID]*models.Product, len(ids))
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (f *fakeStore) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok || p.Stock == nil {
		return apperr.NotFound("Product does not track stock")
	}
	*p.Stock -= qty
	return nil
}

func (f *fakeStore) IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok || p.Stock == nil {
		return apperr.NotFound("Product does not track stock")
	}
	*p.Stock += qty
	return nil
}

func (f *fakeStore) stockOf(id primitive.ObjectID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.products[id].Stock
}

// ── CartStore ────────────────────────────────────────────────────────────────

func (f *fakeStore) setCart(user primitive.ObjectID, items []models.CartItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.carts[user] = &models.Cart{
		ID:    primitive.NewObjectID(),
		User:  user,
		Items: items,
	}
}

func (f *fakeStore) FindByUser(ctx context.Context, user primitive.ObjectID) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[user]
	if !ok {
		return &models.Cart{User: user, Items: []models.CartItem{}}, nil
	}
	cp := *c
	cp.Items = append([]models.CartItem(nil), c.Items...)
	return &cp, nil
}

func (f *fakeStore) Save(ctx context.Context, cart *models.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *cart
	cp.Items = append([]models.CartItem(nil), cart.Items...)
	if cp.ID.IsZero() {
		cp.ID = primitive.NewObjectID()
	}
	f.carts[cart.User] = &cp
	return nil
}

func (f *fakeStore) Clear(ctx context.Context, user primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.carts[user]; ok {
		c.Items = []models.CartItem{}
	}
	return nil
}

func (f *fakeStore) cartItems(user primitive.ObjectID) []models.CartItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.carts[user]; ok {
		return append([]models.CartItem(nil), c.Items...)
	}
	return nil
}

// ── OrderStore ───────────────────────────────────────────────────────────────

func (f *fakeStore) Insert(ctx context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertOrderErr != nil && f.failInsertTimes > 0 {
		f.failInsertTimes--
		return f.insertOrderErr
	}

	for _, existing := range f.orders {
		if existing.OrderNo == o.OrderNo {
			return apperr.Conflict("Duplicate order")
		}
		if o.CheckoutToken != "" && existing.User == o.User && existing.CheckoutToken == o.CheckoutToken {
			return apperr.Conflict("Duplicate order")
		}
	}

	o.ID = primitive.NewObjectID()
	o.CreatedAt = time.Now()
	cp := *o
	cp.Items = append([]models.OrderItem(nil), o.Items...)
	f.orders = append(f.orders, &cp)
	return nil
}

func (f *fakeStore) findOrder(id primitive.ObjectID) *models.Order {
	for _, o := range f.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (f *fakeStore) FindByIDOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o := f.findOrder(id); o != nil {
		cp := *o
		return &cp, nil
	}
	return nil, apperr.NotFound("Order not found")
}

func (f *fakeStore) FindByToken(ctx context.Context, user primitive.ObjectID, token string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.User == user && o.CheckoutToken == token {
			cp := *o
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("Order not found")
}

func (f *fakeStore) ListByUser(ctx context.Context, user primitive.ObjectID) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for i := len(f.orders) - 1; i >= 0; i-- {
		if f.orders[i].User == user {
			out = append(out, *f.orders[i])
		}
	}
	return out, nil
}

func (f *fakeStore) List(ctx context.Context, filter repositories.OrderListFilter) ([]models.Order, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for i := len(f.orders) - 1; i >= 0; i-- {
		o := f.orders[i]
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.Query != "" && o.OrderNo != filter.Query && o.ID.Hex() != filter.Query {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.findOrder(id)
	if o == nil {
		return nil, apperr.NotFound("Order not found")
	}
	o.Status = status
	cp := *o
	return &cp, nil
}

func (f *fakeStore) MarkRestocked(ctx context.Context, id primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.findOrder(id)
	if o == nil {
		return false, apperr.NotFound("Order not found")
	}
	if o.Restocked {
		return false, nil
	}
	o.Restocked = true
	return true, nil
}

func (f *fakeStore) orderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

// orderStoreAdapter renames FindByIDOrder to FindByID so fakeStore can serve
// both ProductStore and OrderStore despite the method-name collision.
type orderStoreAdapter struct{ *fakeStore }

func (a orderStoreAdapter) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return a.FindByIDOrder(ctx, id)
}

// fakeUserStore resolves user IDs for order details.
type fakeUserStore struct {
	users map[string]*models.User
}

func (f *fakeUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperr.NotFound("User not found")
}

// fakePublisher records published events.
type fakePublisher struct {
	mu     sync.Mutex
	events []map[string]interface{}
}

func (f *fakePublisher) PublishJSON(v interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := v.(map[string]interface{}); ok {
		f.events = append(f.events, m)
	}
}
