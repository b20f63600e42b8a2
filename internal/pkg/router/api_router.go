package router

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/condutamedx/medx-backend/app/controllers"
	"github.com/condutamedx/medx-backend/internal/pkg/cache"
	"github.com/condutamedx/medx-backend/internal/pkg/env"
	"github.com/condutamedx/medx-backend/internal/pkg/middleware"
)

type ApiRouter struct {
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		Storage:    newLimiterStorage(),
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "CondutaMedX API",
		})
	})

	v1 := api.Group("/v1", middleware.UserContextMiddleware)

	// Public routes
	auth := v1.Group("/auth")
	auth.Post("/register", controllers.HandleRegister)
	auth.Post("/login", controllers.HandleLogin)
	auth.Post("/forgot-password", controllers.HandleForgotPassword)
	auth.Post("/reset-password", controllers.HandleResetPassword)

	v1.Get("/plans", controllers.HandleListPlans)

	v1.Get("/account", middleware.RequireAuth, controllers.HandleGetAccount)

	subs := v1.Group("/subscriptions")
	// Payment provider notifications carry no user auth. The handler
	// verifies the event against the provider API instead.
	subs.Post("/webhook", controllers.HandleSubscriptionWebhook)
	subs.Post("/checkout", middleware.RequireAuth, controllers.HandleCreateCheckout)
	subs.Get("/orders", middleware.RequireAuth, controllers.HandleListOrders)
	subs.Get("/orders/:id/status", middleware.RequireAuth, controllers.HandleOrderStatus)
	subs.Get("/active-plan", middleware.RequireAuth, controllers.HandleActivePlan)

	history := v1.Group("/history", middleware.RequireAuth)
	history.Get("/", controllers.HandleListMyHistory)
	history.Post("/:id/actions", controllers.HandleHistoryAction)

	// Admin routes
	admin := v1.Group("/admin", middleware.RequireAdmin)
	admin.Get("/dashboard", controllers.HandleAdminDashboard)

	admin.Get("/users", controllers.HandleAdminListUsers)
	admin.Put("/users/:id", controllers.HandleAdminUpdateUser)
	admin.Put("/users/:id/password", controllers.HandleAdminUpdateUserPassword)
	admin.Put("/users/:id/plan", controllers.HandleAdminAssignPlan)
	admin.Delete("/users/:id", controllers.HandleAdminDeleteUser)

	admin.Get("/plans", controllers.HandleAdminListPlans)
	admin.Post("/plans", controllers.HandleAdminCreatePlan)
	admin.Put("/plans/:id", controllers.HandleAdminUpdatePlan)
	admin.Delete("/plans/:id", controllers.HandleAdminDeletePlan)

	admin.Get("/settings", controllers.HandleAdminListSettings)
	admin.Put("/settings/:key", controllers.HandleAdminUpdateSetting)

	admin.Get("/transcriptions", controllers.HandleAdminListTranscriptions)
	admin.Put("/transcriptions/:id", controllers.HandleAdminUpdateTranscription)
	admin.Delete("/transcriptions/:id", controllers.HandleAdminDeleteTranscription)

	admin.Get("/history", controllers.HandleAdminListHistory)
}

// newLimiterStorage backs the rate limiter with Redis so limits hold across
// instances. Reuses the cache client's connection details, database 1.
func newLimiterStorage() *redisstorage.Storage {
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")

	if cacheClient := cache.GetClient(); cacheClient != nil {
		addr := cacheClient.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := cacheClient.Options().Password; p != "" {
			password = p
		}
	}

	return redisstorage.New(redisstorage.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
		Reset:    false,
	})
}
