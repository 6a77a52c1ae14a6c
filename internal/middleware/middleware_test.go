package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/infra/token"
	"storefront/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTokens(t *testing.T) *token.Service {
	t.Helper()
	s, err := token.NewService("test-secret-0123456789", time.Hour, nil)
	require.NoError(t, err)
	return s
}

func newEcho(tokens *token.Service) *echo.Echo {
	e := echo.New()
	logger := zap.NewNop()
	e.Use(middleware.RequestLogger(logger))

	authed := e.Group("", middleware.AuthJWT(tokens, logger))
	authed.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"id":    middleware.UserID(c),
			"roles": middleware.UserRoles(c).Strings(),
		})
	})
	authed.DELETE("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, middleware.AdminRoleGuard())

	// AuthJWTなしでガードだけ
	e.GET("/guard-only", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, middleware.RequireRole(model.RoleUser))
	return e
}

func do(e *echo.Echo, method, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthJWT(t *testing.T) {
	tokens := newTokens(t)
	e := newEcho(tokens)

	raw, _, err := tokens.Issue("user-1", "a@example.com", model.Roles{model.RoleUser})
	require.NoError(t, err)

	rec := do(e, http.MethodGet, "/me", raw)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"user-1","roles":["user"]}`, rec.Body.String())

	for name, bearer := range map[string]string{
		"missing":   "",
		"malformed": "abc.def",
		"garbage":   "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(e, http.MethodGet, "/me", bearer)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
		})
	}

	// Bearer以外のスキーム
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Basic "+raw)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_ForeignSecret(t *testing.T) {
	e := newEcho(newTokens(t))

	other, err := token.NewService("another-secret-9876543210", time.Hour, nil)
	require.NoError(t, err)
	raw, _, err := other.Issue("user-1", "a@example.com", model.Roles{model.RoleAdmin})
	require.NoError(t, err)

	rec := do(e, http.MethodDelete, "/admin", raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoleGuard(t *testing.T) {
	tokens := newTokens(t)
	e := newEcho(tokens)

	userTok, _, err := tokens.Issue("user-1", "u@example.com", model.Roles{model.RoleUser})
	require.NoError(t, err)
	adminTok, _, err := tokens.Issue("admin-1", "a@example.com", model.Roles{model.RoleUser, model.RoleAdmin})
	require.NoError(t, err)

	rec := do(e, http.MethodDelete, "/admin", userTok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"forbidden"}`, rec.Body.String())

	rec = do(e, http.MethodDelete, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodDelete, "/admin", adminTok)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireRole_WithoutAuth(t *testing.T) {
	e := newEcho(newTokens(t))

	rec := do(e, http.MethodGet, "/guard-only", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
