package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/condutamedx/medx-backend/app/controllers"
	"github.com/condutamedx/medx-backend/app/repository"
	"github.com/condutamedx/medx-backend/internal/pkg/cache"
	"github.com/condutamedx/medx-backend/internal/pkg/database"
	"github.com/condutamedx/medx-backend/internal/pkg/env"
	"github.com/condutamedx/medx-backend/internal/pkg/mercadopago"
	"github.com/condutamedx/medx-backend/internal/pkg/router"
	"github.com/condutamedx/medx-backend/internal/pkg/subscription"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	repository.InitializeFactory(database.GetDB())
	controllers.InitSubscriptionController(subscription.NewServiceFromDB(
		database.GetDB(),
		mercadopago.NewClientFromEnv(),
		subscription.ConfigFromEnv(),
	))

	app := fiber.New(fiber.Config{
		AppName:   "CondutaMedX API",
		BodyLimit: 10 * 1024 * 1024,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			"admin": env.GetEnv("METRICS_PASSWORD", "test"),
		},
	}), monitor.New())

	// SWAGGER / OPENAPI
	if basePath := findProjectRoot(); basePath != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/docs/api/",
			FilePath: basePath + "public/docs/v1/openapi.yml",
			Path:     "v1",
		}))
	}

	// ROUTER
	router.InstallRouter(app)

	return app
}

func findProjectRoot() string {
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/medx to project root
		"../../../", // Fallback
	}
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public/docs"); !os.IsNotExist(err) {
			return path
		}
	}
	return ""
}
