package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CartRepository interface {
	// カートを取得し、無ければ作成する（ロックなし）
	GetOrCreateByUserID(ctx context.Context, userID string) (model.Cart, error)
	// カートを取得（無ければ作成）して行ロックを取る。Tx内で使う
	LockByUserID(ctx context.Context, userID string) (model.Cart, error)
	// 明細だけを全削除（カート自体は残す）
	Clear(ctx context.Context, cartID string) error
}
