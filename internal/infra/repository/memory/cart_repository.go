package memory

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartRepositoryとCartItemRepositoryの両方を満たす
type CartRepository struct {
	base
}

func NewCartRepository(s *Store) *CartRepository {
	return &CartRepository{base{s: s}}
}

func (r *CartRepository) GetOrCreateByUserID(ctx context.Context, userID string) (model.Cart, error) {
	defer r.lock()()
	return r.getOrCreate(userID), nil
}

// Storeのmuで直列化されるので、取得と作成をそのまま行えばよい
func (r *CartRepository) LockByUserID(ctx context.Context, userID string) (model.Cart, error) {
	defer r.lock()()
	return r.getOrCreate(userID), nil
}

func (r *CartRepository) getOrCreate(userID string) model.Cart {
	for _, c := range r.s.carts {
		if c.UserID == userID {
			return c
		}
	}
	now := r.s.now()
	c := model.Cart{ID: uuid.NewString(), UserID: userID, CreatedAt: now, UpdatedAt: now}
	r.s.carts = append(r.s.carts, c)
	return c
}

func (r *CartRepository) Clear(ctx context.Context, cartID string) error {
	defer r.lock()()

	kept := r.s.cartItems[:0:0]
	for _, it := range r.s.cartItems {
		if it.CartID != cartID {
			kept = append(kept, it)
		}
	}
	r.s.cartItems = kept
	return nil
}

func (r *CartRepository) ListByCartID(ctx context.Context, cartID string) ([]model.CartItem, error) {
	defer r.lock()()

	out := []model.CartItem{}
	for _, it := range r.s.cartItems {
		if it.CartID == cartID {
			it.Product = r.s.liveProduct(it.ProductID)
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *CartRepository) UpsertByCartAndProduct(ctx context.Context, cartID string, productID string, addQty int, priceAtAddition decimal.Decimal) error {
	if addQty <= 0 {
		return errors.New("invalid quantity")
	}
	defer r.lock()()

	now := r.s.now()
	for i, it := range r.s.cartItems {
		if it.CartID == cartID && it.ProductID == productID {
			r.s.cartItems[i].Quantity += addQty
			r.s.cartItems[i].UpdatedAt = now
			return nil
		}
	}

	r.s.cartItems = append(r.s.cartItems, model.CartItem{
		ID:              uuid.NewString(),
		CartID:          cartID,
		ProductID:       productID,
		Quantity:        addQty,
		PriceAtAddition: model.RoundMoney(priceAtAddition),
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	return nil
}

func (r *CartRepository) FindByIDInCart(ctx context.Context, cartID string, cartItemID string) (model.CartItem, error) {
	defer r.lock()()

	for _, it := range r.s.cartItems {
		if it.ID == cartItemID && it.CartID == cartID {
			it.Product = r.s.liveProduct(it.ProductID)
			return it, nil
		}
	}
	return model.CartItem{}, repo.ErrNotFound
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, cartItemID string, qty int) error {
	defer r.lock()()

	for i, it := range r.s.cartItems {
		if it.ID == cartItemID {
			r.s.cartItems[i].Quantity = qty
			r.s.cartItems[i].UpdatedAt = r.s.now()
			return nil
		}
	}
	return repo.ErrNotFound
}

func (r *CartRepository) DeleteByID(ctx context.Context, cartItemID string) error {
	defer r.lock()()

	for i, it := range r.s.cartItems {
		if it.ID == cartItemID {
			r.s.cartItems = append(r.s.cartItems[:i:i], r.s.cartItems[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}
