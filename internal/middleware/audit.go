package middleware

import (
	"strings"
	"time"

	"backoffice/internal/common"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var quietPrefixes = []string{"/health", "/metrics", "/swagger"}

// RequestLogger writes one structured line per request. Successful probes and
// scrapes are skipped.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Let the error handler write the response so the status is final.
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			if err == nil && shouldSkipLogging(req.Method, req.URL.Path) {
				return nil
			}

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", c.Path()),
				zap.String("uri", req.RequestURI),
				zap.Int("status", res.Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
				zap.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
				zap.Int64("bytes_out", res.Size),
			}
			if userID, ok := common.GetUserIDFromContext(req.Context()); ok {
				fields = append(fields, zap.Int64("user_id", userID))
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}

			switch {
			case res.Status >= 500:
				logger.Error("request", fields...)
			case res.Status >= 400:
				logger.Warn("request", fields...)
			default:
				logger.Info("request", fields...)
			}
			return nil
		}
	}
}

func shouldSkipLogging(method, path string) bool {
	if method != "GET" {
		return false
	}
	path = strings.TrimPrefix(path, "/api")
	for _, prefix := range quietPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
