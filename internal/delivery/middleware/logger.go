package middleware

import (
	"log/slog"
	"time"

	"rentalhub/config"
	deliverycontext "rentalhub/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// LoggerMiddleware writes one access log line per request.
// Successful requests are only logged in debug mode; 4xx and 5xx are always logged.
type LoggerMiddleware struct {
	logger *slog.Logger
	debug  bool
}

// NewLoggerMiddleware creates a new logger middleware
func NewLoggerMiddleware(logger *slog.Logger, config *config.Config) *LoggerMiddleware {
	return &LoggerMiddleware{
		logger: logger,
		debug:  config.Env.Debug,
	}
}

// Handle processes request logging
func (m *LoggerMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			// Let the error handler write the response so the logged status is final.
			c.Error(err)
		}
		m.logRequest(c, start, err)

		return nil
	}
}

func (m *LoggerMiddleware) logRequest(c echo.Context, start time.Time, err error) {
	req := c.Request()
	res := c.Response()

	logLevel := slog.LevelInfo
	switch {
	case res.Status >= 500:
		logLevel = slog.LevelError
	case res.Status >= 400:
		logLevel = slog.LevelWarn
	case !m.debug:
		return
	}

	latency := time.Since(start)
	fields := []slog.Attr{
		slog.String("request_id", deliverycontext.GetRequestID(c)),
		slog.String("method", req.Method),
		slog.String("uri", req.URL.Path),
		slog.Int("status", res.Status),
		slog.Duration("latency", latency),
		slog.String("remote_ip", c.RealIP()),
		slog.String("user_agent", req.UserAgent()),
	}
	if len(req.URL.RawQuery) > 0 {
		fields = append(fields, slog.String("query", req.URL.RawQuery))
	}
	if principal, ok := deliverycontext.GetPrincipal(c); ok {
		fields = append(fields, slog.String("user_id", principal.ID.String()))
	}
	if err != nil {
		fields = append(fields, slog.Any("error", err))
	}

	m.logger.LogAttrs(req.Context(), logLevel, "HTTP Request", fields...)
}
