package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"storefront/internal/domain/model"
)

// usecaseからhandlerへ渡すエラー。handlerは {"error": Message} で返す
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// errors.Isで同じStatusとMessageなら同じエラーとみなす
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	if !ok {
		return false
	}
	return e.Status == t.Status && e.Message == t.Message
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

var (
	//401
	ErrUnauthorized       = NewHTTPError(http.StatusUnauthorized, "unauthorized")
	ErrInvalidCredentials = NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	//403
	ErrForbidden = NewHTTPError(http.StatusForbidden, "forbidden")
	//404 他人のものも「存在しない」にする
	ErrProductNotFound = NewHTTPError(http.StatusNotFound, "product not found")
	ErrItemNotFound    = NewHTTPError(http.StatusNotFound, "cart item not found")
	ErrOrderNotFound   = NewHTTPError(http.StatusNotFound, "order not found")
	ErrUserNotFound    = NewHTTPError(http.StatusNotFound, "user not found")
	//409
	ErrEmailConflict   = NewHTTPError(http.StatusConflict, "email already registered")
	ErrProductConflict = NewHTTPError(http.StatusConflict, "product id already exists")
	//400 注文の前提条件
	ErrCartEmpty     = NewHTTPError(http.StatusBadRequest, "cart is empty")
	ErrNoValidItems  = NewHTTPError(http.StatusBadRequest, "cart has no valid items")
	ErrInvalidPrice  = NewHTTPError(http.StatusBadRequest, "invalid price in cart")
	ErrInvalidQty    = NewHTTPError(http.StatusBadRequest, fmt.Sprintf("quantity must be between 1 and %d", model.MaxCartQuantity))
	ErrOrderTooLarge = NewHTTPError(http.StatusBadRequest, "order total is too large")
	ErrInvalidID     = NewHTTPError(http.StatusBadRequest, "invalid id")
	//500
	ErrInternal = NewHTTPError(http.StatusInternalServerError, "internal error")
)

// バリデーションエラー（400）
func validationError(msg string) error {
	return NewHTTPError(http.StatusBadRequest, msg)
}
