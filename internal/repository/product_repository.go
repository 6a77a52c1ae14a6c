package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
)

var (
	ErrNotFound = errors.New("not found")
	// 一意制約違反（email・商品IDなど）
	ErrConflict = errors.New("conflict")
)

// 一覧の絞り込み
type ProductListQuery struct {
	Type model.ProductType
	Sort string
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, error)
	FindByID(ctx context.Context, id string) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id string) error
	// 論理削除済みの商品をpの内容で戻す。生きている商品ならErrConflict、無ければErrNotFound
	Restore(ctx context.Context, p model.Product) (model.Product, error)
}
