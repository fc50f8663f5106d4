package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/task-service/internal/observability"
)

// ServerOptions configures the fiber application.
type ServerOptions struct {
	AppName        string
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	RequestTimeout time.Duration
	Hardened       bool

	// CORSAllowedOrigins is passed to the CORS middleware; empty allows any origin.
	CORSAllowedOrigins string
}

// NewServer builds the fiber application with global middlewares and routes.
func NewServer(opts ServerOptions, routes RouteConfig) *fiber.App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               opts.AppName,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(logger, opts.Metrics, opts.Hardened),
	})

	opts.Logger = logger
	RegisterMiddlewares(app, opts)
	if routes.Metrics == nil && opts.Metrics != nil {
		routes.Metrics = opts.Metrics.Handler()
	}
	RegisterRoutes(app, routes)
	return app
}
