package repository

import (
	"context"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

type CartItemRepository interface {
	// 明細一覧（Productはプリロード、削除済み商品ならnil）
	ListByCartID(ctx context.Context, cartID string) ([]model.CartItem, error)
	// 同一商品は数量加算。新規の時だけpriceAtAdditionを保存する
	UpsertByCartAndProduct(ctx context.Context, cartID string, productID string, addQty int, priceAtAddition decimal.Decimal) error
	// そのカートに属する明細だけを返す（他人の明細はErrNotFound）
	FindByIDInCart(ctx context.Context, cartID string, cartItemID string) (model.CartItem, error)
	UpdateQuantity(ctx context.Context, cartItemID string, qty int) error
	DeleteByID(ctx context.Context, cartItemID string) error
}
