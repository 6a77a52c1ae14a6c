package usecase_test

import (
	"context"
	"strings"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/infra/repository/memory"
	"storefront/internal/usecase"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func assertErrContains(t *testing.T, err error, sub string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), sub), "error %q does not contain %q", err.Error(), sub)
}

type fixture struct {
	store    *memory.Store
	products *memory.ProductRepository
	carts    *memory.CartRepository
	orders   *memory.OrderRepository
	tx       *memory.TxManager
	cartUC   *usecase.CartUsecase
	orderUC  *usecase.OrderUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore()
	f := &fixture{
		store:    s,
		products: memory.NewProductRepository(s),
		carts:    memory.NewCartRepository(s),
		orders:   memory.NewOrderRepository(s),
		tx:       memory.NewTxManager(s),
	}
	f.cartUC = usecase.NewCartUsecase(f.tx, f.carts, f.carts, zap.NewNop())
	f.orderUC = usecase.NewOrderUsecase(f.tx, f.orders, zap.NewNop())
	return f
}

func (f *fixture) addProduct(t *testing.T, id, name, price string) {
	t.Helper()
	_, err := f.products.Create(context.Background(), model.Product{
		ID:    id,
		Name:  name,
		Type:  model.ProductTypeGPU,
		Price: decimal.RequireFromString(price),
		Specs: pq.StringArray{"spec"},
	})
	require.NoError(t, err)
}
