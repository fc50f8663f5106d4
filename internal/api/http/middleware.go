package http

import (
	"context"
	"errors"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/spec-kit/task-service/internal/observability"
	apperrors "github.com/spec-kit/task-service/pkg/util/errorutil"
)

const corsAllowHeaders = "Origin, Content-Type, Accept, Authorization"

// RegisterMiddlewares attaches global middlewares such as CORS, error handling and logging.
func RegisterMiddlewares(app *fiber.App, opts ServerOptions) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app.Use(observability.RequestLogger(logger, opts.Metrics))
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins(opts.CORSAllowedOrigins),
		AllowHeaders: corsAllowHeaders,
	}))
	app.Use(errorHandlingMiddleware(logger, opts.Metrics, opts.Hardened))
	if opts.RequestTimeout > 0 {
		app.Use(requestTimeoutMiddleware(opts.RequestTimeout))
	}
}

func corsOrigins(origins string) string {
	if strings.TrimSpace(origins) == "" {
		return "*"
	}
	return origins
}

// ErrorHandler renders errors that escape the middleware chain, such as body
// limit violations raised by fiber itself.
func ErrorHandler(logger *zap.Logger, metrics *observability.Metrics, hardened bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return writeError(c, err, logger, metrics, hardened)
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics, hardened bool) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				err = writeError(c, err, logger, metrics, hardened)
			}
		}()
		return c.Next()
	}
}

func writeError(c *fiber.Ctx, err error, logger *zap.Logger, metrics *observability.Metrics, hardened bool) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		err = fromFiberError(fiberErr)
	}

	domainErr := apperrors.ToDomainError(err)
	metrics.RecordError(c.Path(), c.Method(), string(domainErr.Kind))
	if domainErr.Kind == apperrors.KindInternal {
		logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
	}

	status, body := apperrors.Render(err, hardened)
	return c.Status(status).JSON(body)
}

func fromFiberError(e *fiber.Error) *apperrors.DomainError {
	switch {
	case e.Code == fiber.StatusNotFound:
		return apperrors.NewDomainError(apperrors.KindNotFound, e.Message)
	case e.Code == fiber.StatusUnauthorized:
		return apperrors.NewUnauthorized(e.Message)
	case e.Code == fiber.StatusForbidden:
		return apperrors.NewForbidden(e.Message)
	case e.Code == fiber.StatusConflict:
		return apperrors.NewConflict(e.Message)
	case e.Code == fiber.StatusBadRequest:
		return apperrors.NewValidationError(e.Message)
	case e.Code > 400 && e.Code < 500:
		return apperrors.NewValidationError(e.Message).WithStatus(e.Code)
	default:
		return apperrors.NewInternalError(e)
	}
}
