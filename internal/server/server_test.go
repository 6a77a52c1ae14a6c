package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/infra/repository/memory"
	"storefront/internal/infra/token"
	"storefront/internal/usecase"
	auth "storefront/internal/usecase/auth_usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type testApp struct {
	handler http.Handler
	users   *memory.UserRepository
}

func newTestApp(t *testing.T) testApp {
	t.Helper()

	logger := zap.NewNop()
	cfg := config.Config{Port: "0", FEURL: "http://localhost:3000"}

	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	products := memory.NewProductRepository(store)
	carts := memory.NewCartRepository(store)
	orders := memory.NewOrderRepository(store)
	tx := memory.NewTxManager(store)

	tokens, err := token.NewService("test-secret-0123456789", time.Hour, nil)
	require.NoError(t, err)

	productUC := usecase.NewProductUsecase(products, memory.NewAuditLogRepository(store), logger)
	_, err = productUC.SeedCatalog(context.Background())
	require.NoError(t, err)

	clock := auth.SystemClock{}
	h := Handlers{
		Auth: handler.NewAuthHandler(
			auth.NewRegisterUserUsecase(users, auth.NewBcryptPasswordHasher(bcrypt.MinCost), tokens, auth.UUIDGenerator{}, clock, logger),
			auth.NewLoginUsecase(users, auth.NewBcryptPasswordVerifier(), tokens, clock, logger),
			auth.NewMeUsecase(users),
		),
		Product:      handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC, logger),
		Cart:         handler.NewCartHandler(usecase.NewCartUsecase(tx, carts, carts, logger)),
		Order:        handler.NewOrderHandler(usecase.NewOrderUsecase(tx, orders, logger)),
	}

	return testApp{
		handler: New(cfg, tokens, h, logger).Handler(),
		users:   users,
	}
}

func (a testApp) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

func (a testApp) register(t *testing.T, email string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"email":    email,
		"password": "Str0ngPass!",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(t, rec)["accessToken"].(string)
}

// 登録 → カート追加 → 注文 → 履歴 の一連の流れ
func TestCheckoutFlow(t *testing.T) {
	app := newTestApp(t)
	tok := app.register(t, "shopper@example.com")

	rec := app.do(t, http.MethodGet, "/auth/me", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "shopper@example.com", decode(t, rec)["email"])

	rec = app.do(t, http.MethodPost, "/cart/items", tok, map[string]any{"productId": "cpu-r5-7600x", "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = app.do(t, http.MethodPost, "/cart/items", tok, map[string]any{"productId": "gpu-rx7800xt"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	cart := decode(t, rec)
	assert.Equal(t, 957.99, cart["totalAmount"])
	assert.EqualValues(t, 3, cart["itemCount"])

	rec = app.do(t, http.MethodPost, "/orders", tok, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode(t, rec)
	assert.Equal(t, 957.99, order["totalAmount"])
	assert.Equal(t, "COMPLETED", order["status"])
	assert.Len(t, order["items"], 2)

	rec = app.do(t, http.MethodGet, "/cart", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["items"])

	rec = app.do(t, http.MethodGet, "/orders/"+order["id"].(string), tok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// 他人の注文は見えない
	other := app.register(t, "other@example.com")
	rec = app.do(t, http.MethodGet, "/orders/"+order["id"].(string), other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(t, http.MethodPost, "/orders", other, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "cart is empty", decode(t, rec)["error"])
}

func TestPublicProducts(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/products?type=GPU", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.NotEmpty(t, list)
	for _, p := range list {
		assert.Equal(t, "GPU", p["type"])
	}

	rec = app.do(t, http.MethodGet, "/products/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode(t, rec), "error")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/cart"},
		{http.MethodPost, "/cart/items"},
		{http.MethodPost, "/orders"},
		{http.MethodGet, "/orders"},
		{http.MethodGet, "/auth/me"},
		{http.MethodDelete, "/products/gpu-rx7800xt"},
	} {
		rec := app.do(t, r.method, r.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, r.method+" "+r.path)
		assert.Equal(t, "unauthorized", decode(t, rec)["error"])
	}

	rec := app.do(t, http.MethodGet, "/cart", "not.a.jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminProductRoutes(t *testing.T) {
	app := newTestApp(t)
	userTok := app.register(t, "user@example.com")

	rec := app.do(t, http.MethodDelete, "/products/gpu-rx7800xt", userTok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	hash, err := bcrypt.GenerateFromPassword([]byte("Adm1nPass!"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, app.users.Create(context.Background(), &model.User{
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		Roles:        model.Roles{model.RoleUser, model.RoleAdmin},
	}))

	rec = app.do(t, http.MethodPost, "/auth/login", "", map[string]any{"email": "admin@example.com", "password": "Adm1nPass!"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	adminTok := decode(t, rec)["accessToken"].(string)

	rec = app.do(t, http.MethodPost, "/products", adminTok, map[string]any{
		"id":    "cpu-test",
		"name":  "Test CPU",
		"type":  "CPU",
		"price": 10.5,
		"specs": []string{"8 cores"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 10.5, decode(t, rec)["price"])

	rec = app.do(t, http.MethodPatch, "/products/cpu-test", adminTok, map[string]any{"price": 12})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 12, decode(t, rec)["price"])

	rec = app.do(t, http.MethodDelete, "/products/cpu-test", adminTok, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = app.do(t, http.MethodGet, "/products/cpu-test", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(t, http.MethodGet, "/admin/audit-logs?resourceId=cpu-test", adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var logs []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logs))
	require.Len(t, logs, 3)
	assert.Equal(t, "DELETE_PRODUCT", logs[0]["action"])

	rec = app.do(t, http.MethodGet, "/admin/audit-logs", userTok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// 削除済みのIDで作り直すと復活する
	rec = app.do(t, http.MethodPost, "/products", adminTok, map[string]any{
		"id":    "cpu-test",
		"name":  "Test CPU v2",
		"type":  "CPU",
		"price": 11,
		"specs": []string{"8 cores"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = app.do(t, http.MethodGet, "/products/cpu-test", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Test CPU v2", decode(t, rec)["name"])
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode(t, rec), "error")

	rec = app.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
