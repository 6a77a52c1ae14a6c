// Package memory はDBなしで動かすためのリポジトリ実装。
// 開発用（STORAGE_DRIVER=memory）とテストで使う。
package memory

import (
	"sync"
	"time"

	"storefront/internal/domain/model"
)

// 保存データ一式。スライスは追加順を保つ
type state struct {
	users     []model.User
	products  map[string]model.Product
	carts     []model.Cart
	cartItems []model.CartItem
	orders    []model.Order
	auditLogs []model.AuditLog
}

// Storeは全リポジトリが共有する1つのデータ領域。
// muで直列化し、WithinTxの間はmuを握りっぱなしにする。
type Store struct {
	mu  sync.Mutex
	now func() time.Time
	state
}

func NewStore() *Store {
	return &Store{
		now:   time.Now,
		state: state{products: map[string]model.Product{}},
	}
}

// テスト用に時計を差し替える
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// ロールバック用のコピー。
// 要素は置き換えで更新するので、スライスとmapの複製だけで足りる
func (s *Store) snapshot() state {
	products := make(map[string]model.Product, len(s.products))
	for k, v := range s.products {
		products[k] = v
	}
	return state{
		users:     append([]model.User(nil), s.users...),
		products:  products,
		carts:     append([]model.Cart(nil), s.carts...),
		cartItems: append([]model.CartItem(nil), s.cartItems...),
		orders:    append([]model.Order(nil), s.orders...),
		auditLogs: append([]model.AuditLog(nil), s.auditLogs...),
	}
}

func (s *Store) restore(st state) {
	s.state = st
}

// 削除されていない商品だけを返す（gormのPreloadと同じ扱い）
func (s *Store) liveProduct(id string) *model.Product {
	p, ok := s.products[id]
	if !ok || p.DeletedAt.Valid {
		return nil
	}
	return &p
}

// in-tx のリポジトリはStore側ですでにロック済み
type base struct {
	s    *Store
	inTx bool
}

func (b base) lock() func() {
	if b.inTx {
		return func() {}
	}
	b.s.mu.Lock()
	return b.s.mu.Unlock
}
