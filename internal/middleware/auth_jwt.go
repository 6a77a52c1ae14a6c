package middleware

import (
	"errors"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/infra/metrics"
	"storefront/internal/infra/token"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	CtxUserIDKey    = "user_id"    // string
	CtxUserEmailKey = "user_email" // string
	CtxUserRolesKey = "user_roles" // model.Roles
)

// トークン検証の約束（token.Serviceが満たす）
type TokenVerifier interface {
	Verify(raw string) (token.Claims, error)
}

// bearerAuth用のJWT検証ミドルウェア。
// 失敗理由はクライアントには返さず、debugログにだけ残す。
func AuthJWT(tokens TokenVerifier, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Bearer形式か確認してtokenを抜く
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return reject(c, logger, token.ErrMissingToken)
			}

			//JWTをパースして検証する
			claims, err := tokens.Verify(raw)
			if err != nil {
				return reject(c, logger, err)
			}

			if len(claims.Unrecognized) > 0 {
				logger.Warn("token carries unrecognized roles",
					zap.String("user_id", claims.UserID),
					zap.Strings("roles", claims.Unrecognized))
			}

			//contextへ保存
			c.Set(CtxUserIDKey, claims.UserID)
			c.Set(CtxUserEmailKey, claims.Email)
			c.Set(CtxUserRolesKey, claims.Roles)

			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	raw := strings.TrimSpace(parts[1])
	return raw, raw != ""
}

func reject(c echo.Context, logger *zap.Logger, err error) error {
	metrics.AuthFailuresTotal.WithLabelValues(reasonLabel(err)).Inc()
	logger.Debug("rejecting request token",
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
}

func reasonLabel(err error) string {
	switch {
	case errors.Is(err, token.ErrMissingToken):
		return "missing_token"
	case errors.Is(err, token.ErrMalformedToken):
		return "malformed_token"
	case errors.Is(err, token.ErrExpiredToken):
		return "expired_token"
	case errors.Is(err, token.ErrInvalidSignature):
		return "invalid_signature"
	default:
		return "invalid_token"
	}
}

// UserIDはAuthJWTが保存したユーザーIDを返す
func UserID(c echo.Context) string {
	id, _ := c.Get(CtxUserIDKey).(string)
	return id
}

// UserRolesはAuthJWTが保存したロールを返す
func UserRoles(c echo.Context) model.Roles {
	roles, _ := c.Get(CtxUserRolesKey).(model.Roles)
	return roles
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
