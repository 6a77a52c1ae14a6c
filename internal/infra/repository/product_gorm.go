package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 削除されていない商品を、種類の絞り込みとソート付きで返す。
func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	var products []model.Product

	tx := r.db.WithContext(ctx).Model(&model.Product{})

	if q.Type != "" {
		tx = tx.Where("type = ?", q.Type)
	}

	//sort
	switch q.Sort {
	case "price_asc":
		tx = tx.Order("price asc").Order("id asc")
	case "price_desc":
		tx = tx.Order("price desc").Order("id asc")
	default:
		tx = tx.Order("type asc").Order("id asc")
	}

	if err := tx.Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 商品の作成
// 論理削除済みの同じIDがあっても主キーが重複するのでErrConflict（戻すのはRestore）
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.Product{}, repo.ErrConflict
		}
		return model.Product{}, err
	}
	return p, nil
}

// 商品の更新
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":      p.Name,
		"type":      p.Type,
		"amd_chip":  p.AmdChip,
		"price":     p.Price,
		"specs":     p.Specs,
		"image_url": p.ImageURL,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 商品削除（論理削除）
func (r *ProductGormRepository) SoftDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 論理削除済みの行だけを対象に、内容を書き戻してdeleted_atを消す
func (r *ProductGormRepository) Restore(ctx context.Context, p model.Product) (model.Product, error) {
	db := r.db.WithContext(ctx)

	res := db.Unscoped().Model(&model.Product{}).
		Where("id = ? AND deleted_at IS NOT NULL", p.ID).
		Updates(map[string]interface{}{
			"name":       p.Name,
			"type":       p.Type,
			"amd_chip":   p.AmdChip,
			"price":      p.Price,
			"specs":      p.Specs,
			"image_url":  p.ImageURL,
			"deleted_at": nil,
		})
	if res.Error != nil {
		return model.Product{}, res.Error
	}
	if res.RowsAffected == 0 {
		// 生きている行があれば重複、無ければ存在しない
		var n int64
		if err := db.Model(&model.Product{}).Where("id = ?", p.ID).Count(&n).Error; err != nil {
			return model.Product{}, err
		}
		if n > 0 {
			return model.Product{}, repo.ErrConflict
		}
		return model.Product{}, repo.ErrNotFound
	}
	return r.FindByID(ctx, p.ID)
}
