package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-service/internal/api/http/handlers"
	"github.com/spec-kit/task-service/internal/auth"
	"github.com/spec-kit/task-service/internal/domain"
	apperrors "github.com/spec-kit/task-service/pkg/util/errorutil"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Root         *handlers.RootHandler
	Health       *handlers.HealthHandler
	Users        *handlers.UsersHandler
	Tasks        *handlers.TasksHandler
	IdentityGate *auth.IdentityGate
	Metrics      fiber.Handler
}

// RegisterRoutes wires HTTP routes. Gates are attached per route so that route
// parameters are visible to RequireSelf.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Root.Index)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics)
	}

	authenticated := cfg.IdentityGate.Handle
	anyRole := auth.RequireRole()

	users := app.Group("/api/users")
	users.Post("/register", cfg.Users.Register)
	users.Post("/login", cfg.Users.Login)
	users.Get("/profile", authenticated, anyRole, cfg.Users.Profile)
	users.Get("/", authenticated, auth.RequireRole(domain.RoleAdmin), cfg.Users.List)
	users.Get("/:id", authenticated, anyRole, cfg.Users.Get)
	users.Put("/:id", authenticated, anyRole, auth.RequireSelf("id", "update"), cfg.Users.Update)
	users.Delete("/:id", authenticated, anyRole, auth.RequireSelf("id", "delete"), cfg.Users.Delete)

	tasks := app.Group("/api/tasks")
	tasks.Post("/", authenticated, anyRole, cfg.Tasks.Create)
	tasks.Get("/", authenticated, anyRole, cfg.Tasks.List)
	tasks.Get("/:id", authenticated, anyRole, cfg.Tasks.Get)
	tasks.Put("/:id", authenticated, anyRole, cfg.Tasks.Update)
	tasks.Delete("/:id", authenticated, anyRole, cfg.Tasks.Delete)

	app.Use(func(c *fiber.Ctx) error {
		return apperrors.NewDomainError(apperrors.KindNotFound, fmt.Sprintf("Cannot %s %s", c.Method(), c.OriginalURL()))
	})
}
