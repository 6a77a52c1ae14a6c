package usecase

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/infra/metrics"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartUsecase は /cart の業務ロジックです。
// 変更系はカート行をロックしたTxの中で読み書きする。
type CartUsecase struct {
	tx        repo.TransactionManager
	carts     repo.CartRepository
	cartItems repo.CartItemRepository
	logger    *zap.Logger
}

func NewCartUsecase(
	tx repo.TransactionManager,
	carts repo.CartRepository,
	cartItems repo.CartItemRepository,
	logger *zap.Logger,
) *CartUsecase {
	return &CartUsecase{
		tx:        tx,
		carts:     carts,
		cartItems: cartItems,
		logger:    logger,
	}
}

// priceAtAdditionは追加時点の価格。productは削除済みならnull
type CartItemOutput struct {
	ID              string         `json:"id"`
	ProductID       string         `json:"productId"`
	Quantity        int            `json:"quantity"`
	PriceAtAddition float64        `json:"priceAtAddition"`
	Product         *ProductOutput `json:"product"`
}

// totalAmountとitemCountは注文時に請求される行（商品が残っている行）だけで計算する
type CartOutput struct {
	ID          string           `json:"id"`
	UserID      string           `json:"userId"`
	Items       []CartItemOutput `json:"items"`
	TotalAmount float64          `json:"totalAmount"`
	ItemCount   int              `json:"itemCount"`
}

type AddCartItemInput struct {
	ProductID string
	// 0なら1個
	Quantity int
}

type UpdateCartItemInput struct {
	// 0以下は削除扱い
	Quantity int
}

// GetCart はカート取得（無ければ空で作る）。
func (u *CartUsecase) GetCart(ctx context.Context, userID string) (CartOutput, error) {
	if userID == "" {
		return CartOutput{}, ErrUnauthorized
	}

	cart, err := u.carts.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		u.logger.Error("get cart failed", zap.String("user_id", userID), zap.Error(err))
		return CartOutput{}, ErrInternal
	}

	items, err := u.cartItems.ListByCartID(ctx, cart.ID)
	if err != nil {
		u.logger.Error("list cart items failed", zap.String("cart_id", cart.ID), zap.Error(err))
		return CartOutput{}, ErrInternal
	}
	return toCartOutput(cart, items), nil
}

// AddItem はカートに追加（同一商品は数量加算、価格は最初の追加時のまま）。
func (u *CartUsecase) AddItem(ctx context.Context, userID string, in AddCartItemInput) (CartOutput, error) {
	if userID == "" {
		return CartOutput{}, ErrUnauthorized
	}
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return CartOutput{}, validationError("productId is required")
	}
	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 1 || qty > model.MaxCartQuantity {
		return CartOutput{}, ErrInvalidQty
	}

	return u.mutate(ctx, userID, "add", func(r repo.TxRepos, cart model.Cart) error {
		p, err := r.Products().FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}

		// 加算後の数量も上限内に収める（カートはロック済み）
		items, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return err
		}
		for _, it := range items {
			if it.ProductID == p.ID && it.Quantity+qty > model.MaxCartQuantity {
				return ErrInvalidQty
			}
		}
		return r.CartItems().UpsertByCartAndProduct(ctx, cart.ID, p.ID, qty, p.Price)
	})
}

// UpdateItemQuantity は数量変更。自分のカートの明細でなければ404。
func (u *CartUsecase) UpdateItemQuantity(ctx context.Context, userID string, cartItemID string, in UpdateCartItemInput) (CartOutput, error) {
	if userID == "" {
		return CartOutput{}, ErrUnauthorized
	}
	if cartItemID == "" {
		return CartOutput{}, ErrInvalidID
	}
	if in.Quantity > model.MaxCartQuantity {
		return CartOutput{}, ErrInvalidQty
	}

	return u.mutate(ctx, userID, "update", func(r repo.TxRepos, cart model.Cart) error {
		item, err := r.CartItems().FindByIDInCart(ctx, cart.ID, cartItemID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrItemNotFound
		}
		if err != nil {
			return err
		}

		if in.Quantity <= 0 {
			return r.CartItems().DeleteByID(ctx, item.ID)
		}
		return r.CartItems().UpdateQuantity(ctx, item.ID, in.Quantity)
	})
}

// RemoveItem は明細削除。
func (u *CartUsecase) RemoveItem(ctx context.Context, userID string, cartItemID string) (CartOutput, error) {
	if userID == "" {
		return CartOutput{}, ErrUnauthorized
	}
	if cartItemID == "" {
		return CartOutput{}, ErrInvalidID
	}

	return u.mutate(ctx, userID, "remove", func(r repo.TxRepos, cart model.Cart) error {
		item, err := r.CartItems().FindByIDInCart(ctx, cart.ID, cartItemID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrItemNotFound
		}
		if err != nil {
			return err
		}
		return r.CartItems().DeleteByID(ctx, item.ID)
	})
}

// ClearCart は明細だけを全削除（カートは残す）。
func (u *CartUsecase) ClearCart(ctx context.Context, userID string) (CartOutput, error) {
	if userID == "" {
		return CartOutput{}, ErrUnauthorized
	}

	return u.mutate(ctx, userID, "clear", func(r repo.TxRepos, cart model.Cart) error {
		return r.Carts().Clear(ctx, cart.ID)
	})
}

// カートをロックしてfnを実行し、同じTxの中で最新のカートを読み直す
func (u *CartUsecase) mutate(ctx context.Context, userID string, op string, fn func(r repo.TxRepos, cart model.Cart) error) (CartOutput, error) {
	var out CartOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().LockByUserID(ctx, userID)
		if err != nil {
			return err
		}

		if err := fn(r, cart); err != nil {
			return err
		}

		items, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return err
		}
		out = toCartOutput(cart, items)
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return CartOutput{}, err
		}
		u.logger.Error("cart update failed", zap.String("op", op), zap.String("user_id", userID), zap.Error(err))
		return CartOutput{}, ErrInternal
	}

	metrics.CartMutationsTotal.WithLabelValues(op).Inc()
	return out, nil
}

func toCartOutput(cart model.Cart, items []model.CartItem) CartOutput {
	out := CartOutput{
		ID:     cart.ID,
		UserID: cart.UserID,
		Items:  make([]CartItemOutput, 0, len(items)),
	}

	total := decimal.Zero
	for _, it := range items {
		line := CartItemOutput{
			ID:              it.ID,
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			PriceAtAddition: model.MoneyToFloat(it.PriceAtAddition),
		}
		if it.Product != nil {
			p := ToProductOutput(*it.Product)
			line.Product = &p
			total = total.Add(model.LineTotal(it.PriceAtAddition, it.Quantity))
			out.ItemCount += it.Quantity
		}
		out.Items = append(out.Items, line)
	}
	out.TotalAmount = model.MoneyToFloat(total)
	return out
}
