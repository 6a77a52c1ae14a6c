package middleware

import (
	"strconv"
	"time"

	"storefront/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestLoggerは1リクエスト1行のアクセスログとHTTPメトリクスを記録する
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// echo.HTTPErrorなどはここでレスポンスにしてステータスを確定させる
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			elapsed := time.Since(start)

			labels := []string{req.Method, path, strconv.Itoa(status)}
			metrics.HTTPRequestsTotal.WithLabelValues(labels...).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(labels...).Observe(elapsed.Seconds())

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", path),
				zap.Int("status", status),
				zap.Duration("latency", elapsed),
			}
			if uid := UserID(c); uid != "" {
				fields = append(fields, zap.String("user_id", uid))
			}

			switch {
			case status >= 500:
				logger.Error("request", append(fields, zap.Error(err))...)
			case status >= 400:
				logger.Info("request", fields...)
			default:
				logger.Debug("request", fields...)
			}
			return nil
		}
	}
}
