package handler

import (
	"errors"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// usecaseのHTTPErrorを {"error": msg} にする
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}
	// Bind / Validate のエラー
	var ee *echo.HTTPError
	if errors.As(err, &ee) && ee.Code < http.StatusInternalServerError {
		msg, ok := ee.Message.(string)
		if !ok {
			msg = http.StatusText(ee.Code)
		}
		return c.JSON(ee.Code, ErrorResponse{Error: msg})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// bodyをbindしてvalidateタグを検証する
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	return c.Validate(req)
}

// AuthJWTが入れたユーザーID
func getUserIDFromContext(c echo.Context) (string, bool) {
	id := middleware.UserID(c)
	return id, id != ""
}

// :idがUUIDかどうか
func uuidParam(c echo.Context, name string) (string, error) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", usecase.ErrInvalidID
	}
	return id.String(), nil
}
