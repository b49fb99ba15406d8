package restapi

import (
	"net/http"

	"github.com/andreyxaxa/Photo-QC/config"
	"github.com/andreyxaxa/Photo-QC/internal/controller/restapi/middleware"
	v1 "github.com/andreyxaxa/Photo-QC/internal/controller/restapi/v1"
	"github.com/andreyxaxa/Photo-QC/internal/usecase"
	"github.com/andreyxaxa/Photo-QC/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// @title Photo QC
// @version 1.0.0
// @host localhost:8080
// @BasePath /v1
func NewRouter(app *fiber.App, cfg *config.Config, photo usecase.PhotoUseCase, l logger.Interface) {
	// Options
	app.Use(middleware.Logger(l))
	app.Use(middleware.Recovery(l))

	// Swagger
	if cfg.Swagger.Enabled {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	// K8s probe
	app.Get("/healthz", func(ctx *fiber.Ctx) error { return ctx.SendStatus(http.StatusOK) })

	// Routers
	apiV1Group := app.Group("/v1")
	{
		v1.NewPhotoRoutes(apiV1Group, photo, l)
	}
}
