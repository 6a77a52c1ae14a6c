package memory

import (
	"context"

	repo "storefront/internal/repository"
)

type txRepos struct {
	orders   *OrderRepository
	carts    *CartRepository
	products *ProductRepository
}

func (r *txRepos) Orders() repo.OrderRepository       { return r.orders }
func (r *txRepos) Carts() repo.CartRepository         { return r.carts }
func (r *txRepos) CartItems() repo.CartItemRepository { return r.carts }
func (r *txRepos) Products() repo.ProductRepository   { return r.products }

type TxManager struct {
	s *Store
}

func NewTxManager(s *Store) *TxManager {
	return &TxManager{s: s}
}

// fnの間はStore全体をロックし、エラーかpanicなら開始時点に戻す
func (tm *TxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tm.s.mu.Lock()
	defer tm.s.mu.Unlock()

	snap := tm.s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			tm.s.restore(snap)
			panic(p)
		}
	}()

	b := base{s: tm.s, inTx: true}
	r := &txRepos{
		orders:   &OrderRepository{b},
		carts:    &CartRepository{b},
		products: &ProductRepository{b},
	}

	if err := fn(r); err != nil {
		tm.s.restore(snap)
		return err
	}
	return nil
}
