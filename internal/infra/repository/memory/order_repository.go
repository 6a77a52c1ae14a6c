package memory

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
)

type OrderRepository struct {
	base
}

func NewOrderRepository(s *Store) *OrderRepository {
	return &OrderRepository{base{s: s}}
}

func (r *OrderRepository) Create(ctx context.Context, order *model.Order) error {
	defer r.lock()()

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.Status == "" {
		order.Status = model.OrderStatusCompleted
	}
	now := r.s.now()
	order.CreatedAt, order.UpdatedAt = now, now

	items := make([]model.OrderItem, len(order.Items))
	for i, it := range order.Items {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		it.OrderID = order.ID
		it.CreatedAt = now
		it.Product = nil
		items[i] = it
	}
	order.Items = items

	stored := *order
	stored.Items = append([]model.OrderItem(nil), items...)
	r.s.orders = append(r.s.orders, stored)
	return nil
}

func (r *OrderRepository) FindByIDForUser(ctx context.Context, orderID string, userID string) (model.Order, error) {
	defer r.lock()()

	for _, o := range r.s.orders {
		if o.ID == orderID && o.UserID == userID {
			return r.withProducts(o), nil
		}
	}
	return model.Order{}, repo.ErrNotFound
}

// 追加順に積んでいるので逆順が新しい順
func (r *OrderRepository) ListByUserID(ctx context.Context, userID string) ([]model.Order, error) {
	defer r.lock()()

	out := []model.Order{}
	for i := len(r.s.orders) - 1; i >= 0; i-- {
		if r.s.orders[i].UserID == userID {
			out = append(out, r.withProducts(r.s.orders[i]))
		}
	}
	return out, nil
}

func (r *OrderRepository) withProducts(o model.Order) model.Order {
	items := make([]model.OrderItem, len(o.Items))
	for i, it := range o.Items {
		it.Product = r.s.liveProduct(it.ProductID)
		items[i] = it
	}
	o.Items = items
	return o
}
