// Package http provides the HTTP server of the support desk router.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/auth"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/service"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/transport/http/authn"
	v1 "github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/transport/http/v1"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/transport/ws"
)

// NewServer creates and configures the router's HTTP server. Everything
// under /ai requires a bearer token.
func NewServer(svc *service.Service, verifier *auth.Verifier, wsOpts ws.Options, logger *zap.Logger) *echo.Echo {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc)
	wsServer := ws.NewServer(svc, wsOpts, logger)

	// Register Routes
	e.GET("/health", v1Handler.Health)

	g := e.Group("/ai", authn.Middleware(verifier))
	v1Handler.RegisterRoutes(g)
	g.GET("/ws", wsServer.HandleWebSocket)

	return e
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogMethod:  true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				logger.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}
