package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 管理者の商品CRUD
type AdminProductHandler struct {
	uc     *usecase.ProductUsecase
	logger *zap.Logger
}

func NewAdminProductHandler(uc *usecase.ProductUsecase, logger *zap.Logger) *AdminProductHandler {
	return &AdminProductHandler{uc: uc, logger: logger}
}

// priceは数値でも文字列でも受け付ける
type CreateProductRequest struct {
	ID       string           `json:"id" validate:"required,max=50"`
	Name     string           `json:"name" validate:"required,max=255"`
	Type     string           `json:"type" validate:"required"`
	AmdChip  *string          `json:"amdChip" validate:"omitempty,max=100"`
	Price    *decimal.Decimal `json:"price" validate:"required"`
	Specs    []string         `json:"specs" validate:"required,min=1"`
	ImageURL *string          `json:"imageUrl" validate:"omitempty,url"`
}

// 送られた項目だけ更新
type UpdateProductRequest struct {
	Name     *string          `json:"name" validate:"omitempty,max=255"`
	Type     *string          `json:"type"`
	AmdChip  *string          `json:"amdChip" validate:"omitempty,max=100"`
	Price    *decimal.Decimal `json:"price"`
	Specs    []string         `json:"specs" validate:"omitempty,min=1"`
	ImageURL *string          `json:"imageUrl" validate:"omitempty,url"`
}

// bearer + adminロールが必要
func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, authMW echo.MiddlewareFunc) {
	guard := middleware.AdminRoleGuard()

	e.POST("/products", h.create, authMW, guard)
	e.PATCH("/products/:id", h.update, authMW, guard)
	e.DELETE("/products/:id", h.delete, authMW, guard)
	e.GET("/admin/audit-logs", h.auditLogs, authMW, guard)
}

func (h *AdminProductHandler) create(c echo.Context) error {
	var req CreateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.AdminCreateProduct(c.Request().Context(), middleware.UserID(c), usecase.CreateProductInput{
		ID:       req.ID,
		Name:     req.Name,
		Type:     req.Type,
		AmdChip:  req.AmdChip,
		Price:    *req.Price,
		Specs:    req.Specs,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return writeError(c, err)
	}

	h.logger.Info("product created", zap.String("product_id", out.ID), zap.String("admin_id", middleware.UserID(c)))
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminProductHandler) update(c echo.Context) error {
	var req UpdateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.AdminUpdateProduct(c.Request().Context(), middleware.UserID(c), c.Param("id"), usecase.UpdateProductInput{
		Name:     req.Name,
		Type:     req.Type,
		AmdChip:  req.AmdChip,
		Price:    req.Price,
		Specs:    req.Specs,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return writeError(c, err)
	}

	h.logger.Info("product updated", zap.String("product_id", out.ID), zap.String("admin_id", middleware.UserID(c)))
	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.uc.AdminDeleteProduct(c.Request().Context(), middleware.UserID(c), id); err != nil {
		return writeError(c, err)
	}

	h.logger.Info("product deleted", zap.String("product_id", id), zap.String("admin_id", middleware.UserID(c)))
	return c.NoContent(http.StatusNoContent)
}

// GET /admin/audit-logs?resourceId=&action=&limit=&offset=
func (h *AdminProductHandler) auditLogs(c echo.Context) error {
	var q struct {
		ResourceID string `query:"resourceId"`
		Action     string `query:"action"`
		Limit      int    `query:"limit"`
		Offset     int    `query:"offset"`
	}
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return writeError(c, usecase.NewHTTPError(http.StatusBadRequest, "invalid query"))
	}

	logs, err := h.uc.ListAuditLogs(c.Request().Context(), usecase.ListAuditLogsInput{
		ResourceID: q.ResourceID,
		Action:     q.Action,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}
