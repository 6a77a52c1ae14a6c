package usecase_test

import (
	"context"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/infra/repository/memory"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProductRepoMock) Restore(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	restored, _ := args.Get(0).(model.Product)
	return restored, args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log *model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

const adminID = "7d5e1f0a-4c7b-4b8e-9d61-2f2b8f1e0a11"

func newProductUC(r *ProductRepoMock) *usecase.ProductUsecase {
	uc, _ := newProductUCWithAudit(r)
	return uc
}

func newProductUCWithAudit(r *ProductRepoMock) (*usecase.ProductUsecase, *memory.AuditLogRepository) {
	audit := memory.NewAuditLogRepository(memory.NewStore())
	return usecase.NewProductUsecase(r, audit, zap.NewNop()), audit
}

func validCreateInput() usecase.CreateProductInput {
	return usecase.CreateProductInput{
		ID:    "gpu-rx7800xt",
		Name:  " Radeon RX 7800 XT ",
		Type:  "gpu",
		Price: decimal.RequireFromString("499.99"),
		Specs: []string{"16GB GDDR6"},
	}
}

func TestProductUsecase_ListProducts(t *testing.T) {
	ctx := context.Background()
	pRepo := new(ProductRepoMock)
	uc := newProductUC(pRepo)

	pRepo.On("List", mock.Anything, repo.ProductListQuery{Type: model.ProductTypeCPU}).
		Return([]model.Product{{ID: "cpu-a", Type: model.ProductTypeCPU, Price: decimal.RequireFromString("229.00")}}, nil)

	out, err := uc.ListProducts(ctx, usecase.ListProductsInput{Type: "cpu"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 229.0, out[0].Price)
	assert.Equal(t, []string{}, out[0].Specs)

	_, err = uc.ListProducts(ctx, usecase.ListProductsInput{Type: "APU"})
	assertErrContains(t, err, "type must be CPU or GPU")

	_, err = uc.ListProducts(ctx, usecase.ListProductsInput{Sort: "name"})
	assertErrContains(t, err, "invalid sort")

	pRepo.AssertExpectations(t)
}

func TestProductUsecase_GetProduct_NotFound(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := newProductUC(pRepo)

	pRepo.On("FindByID", mock.Anything, "gpu-x").Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.GetProduct(context.Background(), "gpu-x")
	assert.ErrorIs(t, err, usecase.ErrProductNotFound)
}

func TestProductUsecase_AdminCreateProduct_Validation(t *testing.T) {
	uc := newProductUC(new(ProductRepoMock))

	cases := []struct {
		name   string
		mutate func(in *usecase.CreateProductInput)
		msg    string
	}{
		{"empty id", func(in *usecase.CreateProductInput) { in.ID = " " }, "id is required"},
		{"empty name", func(in *usecase.CreateProductInput) { in.Name = "" }, "name is required"},
		{"bad type", func(in *usecase.CreateProductInput) { in.Type = "RAM" }, "type must be CPU or GPU"},
		{"zero price", func(in *usecase.CreateProductInput) { in.Price = decimal.Zero }, "price must be"},
		{"three decimals", func(in *usecase.CreateProductInput) { in.Price = decimal.RequireFromString("1.005") }, "price must be"},
		{"no specs", func(in *usecase.CreateProductInput) { in.Specs = nil }, "at least one spec"},
		{"blank spec", func(in *usecase.CreateProductInput) { in.Specs = []string{"ok", " "} }, "blank"},
		{"bad url", func(in *usecase.CreateProductInput) { s := "not a url"; in.ImageURL = &s }, "imageUrl"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreateInput()
			tc.mutate(&in)
			_, err := uc.AdminCreateProduct(context.Background(), adminID, in)
			assertErrContains(t, err, tc.msg)
		})
	}
}

func TestProductUsecase_AdminCreateProduct_Success(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := newProductUC(pRepo)

	pRepo.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.ID == "gpu-rx7800xt" && p.Name == "Radeon RX 7800 XT" && p.Type == model.ProductTypeGPU
	})).Return(model.Product{
		ID:    "gpu-rx7800xt",
		Name:  "Radeon RX 7800 XT",
		Type:  model.ProductTypeGPU,
		Price: decimal.RequireFromString("499.99"),
		Specs: pq.StringArray{"16GB GDDR6"},
	}, nil)

	out, err := uc.AdminCreateProduct(context.Background(), adminID, validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, 499.99, out.Price)
	assert.Equal(t, "GPU", out.Type)

	pRepo.AssertExpectations(t)
}

func TestProductUsecase_AdminCreateProduct_Conflict(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := newProductUC(pRepo)

	pRepo.On("Create", mock.Anything, mock.Anything).Return(model.Product{}, repo.ErrConflict)
	pRepo.On("Restore", mock.Anything, mock.Anything).Return(model.Product{}, repo.ErrConflict)

	_, err := uc.AdminCreateProduct(context.Background(), adminID, validCreateInput())
	assert.ErrorIs(t, err, usecase.ErrProductConflict)
	pRepo.AssertExpectations(t)
}

// 論理削除済みのIDで作ると、その商品が新しい内容で戻る
func TestProductUsecase_AdminCreateProduct_RestoresDeleted(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	products := memory.NewProductRepository(s)
	uc := usecase.NewProductUsecase(products, memory.NewAuditLogRepository(s), zap.NewNop())

	_, err := uc.AdminCreateProduct(ctx, adminID, validCreateInput())
	require.NoError(t, err)
	require.NoError(t, uc.AdminDeleteProduct(ctx, adminID, "gpu-rx7800xt"))

	_, err = uc.GetProduct(ctx, "gpu-rx7800xt")
	require.ErrorIs(t, err, usecase.ErrProductNotFound)

	in := validCreateInput()
	in.Price = decimal.RequireFromString("449.99")
	out, err := uc.AdminCreateProduct(ctx, adminID, in)
	require.NoError(t, err)
	assert.Equal(t, 449.99, out.Price)

	got, err := uc.GetProduct(ctx, "gpu-rx7800xt")
	require.NoError(t, err)
	assert.Equal(t, 449.99, got.Price)

	// 生きている商品と同じIDは409のまま
	_, err = uc.AdminCreateProduct(ctx, adminID, in)
	assert.ErrorIs(t, err, usecase.ErrProductConflict)
}

func TestProductUsecase_AdminUpdateProduct_Partial(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := newProductUC(pRepo)

	current := model.Product{
		ID:    "gpu-a",
		Name:  "Old",
		Type:  model.ProductTypeGPU,
		Price: decimal.RequireFromString("10.00"),
		Specs: pq.StringArray{"x"},
	}
	newPrice := decimal.RequireFromString("12.50")
	updated := current
	updated.Price = newPrice

	pRepo.On("FindByID", mock.Anything, "gpu-a").Return(current, nil).Once()
	pRepo.On("Update", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Name == "Old" && p.Price.Equal(newPrice)
	})).Return(nil)
	pRepo.On("FindByID", mock.Anything, "gpu-a").Return(updated, nil).Once()

	out, err := uc.AdminUpdateProduct(context.Background(), adminID, "gpu-a", usecase.UpdateProductInput{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 12.5, out.Price)

	pRepo.AssertExpectations(t)
}

func TestProductUsecase_AdminDeleteProduct(t *testing.T) {
	ctx := context.Background()
	pRepo := new(ProductRepoMock)
	uc, audit := newProductUCWithAudit(pRepo)

	pRepo.On("FindByID", mock.Anything, "gpu-a").Return(model.Product{ID: "gpu-a", Name: "A", Type: model.ProductTypeGPU}, nil)
	pRepo.On("SoftDelete", mock.Anything, "gpu-a").Return(nil)
	pRepo.On("FindByID", mock.Anything, "gpu-x").Return(model.Product{}, repo.ErrNotFound)

	assert.NoError(t, uc.AdminDeleteProduct(ctx, adminID, "gpu-a"))
	assert.ErrorIs(t, uc.AdminDeleteProduct(ctx, adminID, "gpu-x"), usecase.ErrProductNotFound)
	pRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, "gpu-x")

	logs, err := audit.List(ctx, repo.AuditLogFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, model.AuditActionDeleteProduct, logs[0].Action)
	assert.Equal(t, adminID, logs[0].ActorUserID)
	assert.Contains(t, logs[0].BeforeJSON, `"id":"gpu-a"`)
	assert.Empty(t, logs[0].AfterJSON)
}

func TestProductUsecase_AuditTrail(t *testing.T) {
	ctx := context.Background()
	pRepo := new(ProductRepoMock)
	uc, _ := newProductUCWithAudit(pRepo)

	pRepo.On("Create", mock.Anything, mock.Anything).Return(model.Product{
		ID:    "gpu-rx7800xt",
		Name:  "Radeon RX 7800 XT",
		Type:  model.ProductTypeGPU,
		Price: decimal.RequireFromString("499.99"),
	}, nil)
	current := model.Product{ID: "gpu-rx7800xt", Name: "Radeon RX 7800 XT", Type: model.ProductTypeGPU, Price: decimal.RequireFromString("499.99")}
	renamed := current
	renamed.Name = "RX 7800 XT"
	pRepo.On("FindByID", mock.Anything, "gpu-rx7800xt").Return(current, nil).Once()
	pRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	pRepo.On("FindByID", mock.Anything, "gpu-rx7800xt").Return(renamed, nil).Once()

	_, err := uc.AdminCreateProduct(ctx, adminID, validCreateInput())
	require.NoError(t, err)
	name := "RX 7800 XT"
	_, err = uc.AdminUpdateProduct(ctx, adminID, "gpu-rx7800xt", usecase.UpdateProductInput{Name: &name})
	require.NoError(t, err)

	logs, err := uc.ListAuditLogs(ctx, usecase.ListAuditLogsInput{ResourceID: "gpu-rx7800xt"})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, model.AuditActionUpdateProduct, logs[0].Action)
	assert.Contains(t, logs[0].BeforeJSON, "Radeon RX 7800 XT")
	assert.Contains(t, logs[0].AfterJSON, `"name":"RX 7800 XT"`)
	assert.Equal(t, model.AuditActionCreateProduct, logs[1].Action)
	assert.Empty(t, logs[1].BeforeJSON)

	created, err := uc.ListAuditLogs(ctx, usecase.ListAuditLogsInput{Action: "create_product"})
	require.NoError(t, err)
	assert.Len(t, created, 1)

	_, err = uc.ListAuditLogs(ctx, usecase.ListAuditLogsInput{Action: "DROP"})
	assertErrContains(t, err, "action must be")
}

// 監査ログの書き込み失敗で管理操作は失敗しない
func TestProductUsecase_AuditFailureDoesNotFailRequest(t *testing.T) {
	pRepo := new(ProductRepoMock)
	aRepo := new(AuditRepoMock)
	uc := usecase.NewProductUsecase(pRepo, aRepo, zap.NewNop())

	pRepo.On("Create", mock.Anything, mock.Anything).Return(model.Product{ID: "gpu-rx7800xt", Type: model.ProductTypeGPU}, nil)
	aRepo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	out, err := uc.AdminCreateProduct(context.Background(), adminID, validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, "gpu-rx7800xt", out.ID)
	aRepo.AssertExpectations(t)
}

func TestProductUsecase_SeedCatalog_SkipsExisting(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := newProductUC(pRepo)

	pRepo.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.ID == "gpu-rx7800xt"
	})).Return(model.Product{}, repo.ErrConflict)
	pRepo.On("Create", mock.Anything, mock.Anything).Return(model.Product{}, nil)

	n, err := uc.SeedCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(usecase.DefaultCatalog())-1, n)
}

func TestDefaultCatalog_PricesAreValid(t *testing.T) {
	for _, p := range usecase.DefaultCatalog() {
		assert.True(t, model.ValidCatalogPrice(p.Price), p.ID)
		assert.True(t, p.Type.Valid(), p.ID)
		assert.NotEmpty(t, p.Specs, p.ID)
	}
}
