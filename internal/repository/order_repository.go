package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type OrderRepository interface {
	// 注文と明細をまとめて保存
	Create(ctx context.Context, order *model.Order) error
	// 本人の注文だけを返す（他人の注文はErrNotFound）
	FindByIDForUser(ctx context.Context, orderID string, userID string) (model.Order, error)
	// 新しい順
	ListByUserID(ctx context.Context, userID string) ([]model.Order, error)
}
