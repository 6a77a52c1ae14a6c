package memory

import (
	"context"
	"sort"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type ProductRepository struct {
	base
}

func NewProductRepository(s *Store) *ProductRepository {
	return &ProductRepository{base{s: s}}
}

func (r *ProductRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	defer r.lock()()

	out := []model.Product{}
	for _, p := range r.s.products {
		if p.DeletedAt.Valid {
			continue
		}
		if q.Type != "" && p.Type != q.Type {
			continue
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch q.Sort {
		case "price_asc":
			if !a.Price.Equal(b.Price) {
				return a.Price.LessThan(b.Price)
			}
		case "price_desc":
			if !a.Price.Equal(b.Price) {
				return a.Price.GreaterThan(b.Price)
			}
		default:
			if a.Type != b.Type {
				return a.Type < b.Type
			}
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	defer r.lock()()

	p := r.s.liveProduct(id)
	if p == nil {
		return model.Product{}, repo.ErrNotFound
	}
	return *p, nil
}

// 論理削除済みでも同じIDは使えない（戻すのはRestore）
func (r *ProductRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	defer r.lock()()

	if _, ok := r.s.products[p.ID]; ok {
		return model.Product{}, repo.ErrConflict
	}
	now := r.s.now()
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.products[p.ID] = p
	return p, nil
}

func (r *ProductRepository) Update(ctx context.Context, p model.Product) error {
	defer r.lock()()

	cur := r.s.liveProduct(p.ID)
	if cur == nil {
		return repo.ErrNotFound
	}
	cur.Name = p.Name
	cur.Type = p.Type
	cur.AmdChip = p.AmdChip
	cur.Price = p.Price
	cur.Specs = p.Specs
	cur.ImageURL = p.ImageURL
	cur.UpdatedAt = r.s.now()
	r.s.products[p.ID] = *cur
	return nil
}

func (r *ProductRepository) SoftDelete(ctx context.Context, id string) error {
	defer r.lock()()

	cur := r.s.liveProduct(id)
	if cur == nil {
		return repo.ErrNotFound
	}
	cur.DeletedAt = gorm.DeletedAt{Time: r.s.now(), Valid: true}
	r.s.products[id] = *cur
	return nil
}

func (r *ProductRepository) Restore(ctx context.Context, p model.Product) (model.Product, error) {
	defer r.lock()()

	cur, ok := r.s.products[p.ID]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	if !cur.DeletedAt.Valid {
		return model.Product{}, repo.ErrConflict
	}
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = r.s.now()
	p.DeletedAt = gorm.DeletedAt{}
	r.s.products[p.ID] = p
	return p, nil
}
