package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/validator"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// 起動時に組み立てたハンドラ一式
type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	AdminProduct *handler.AdminProductHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
}

type Server struct {
	echo   *echo.Echo
	addr   string
	logger *zap.Logger
}

// Newはechoにミドルウェアとルートを載せる
func New(cfg config.Config, tokens middleware.TokenVerifier, h Handlers, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.NewRequestValidator()
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.FEURL},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(middleware.RequestLogger(logger))

	RegisterRoutes(e, h, middleware.AuthJWT(tokens, logger))

	return &Server{
		echo:   e,
		addr:   fmt.Sprintf(":%s", cfg.Port),
		logger: logger,
	}
}

// テストでhttptestから叩くため
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Startはctxがキャンセルされるまでリクエストを受け、その後やさしく止める
func (s *Server) Start(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting", zap.String("addr", s.addr))
		serverErrors <- s.echo.Start(s.addr)
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
		return nil
	}
}

// echo自身のエラー（404・405・bind失敗など）も {"error": msg} にそろえる
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "internal error"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if s, ok := he.Message.(string); ok && code < http.StatusInternalServerError {
				msg = s
			}
		}
		if code >= http.StatusInternalServerError {
			logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, handler.ErrorResponse{Error: msg})
		}
		if werr != nil {
			logger.Error("write error response failed", zap.Error(werr))
		}
	}
}
