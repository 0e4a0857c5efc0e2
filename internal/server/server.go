package server

import (
	"strings"

	"github.com/arzan03/scholarship-server/internal/handlers"
	"github.com/arzan03/scholarship-server/internal/metrics"
	"github.com/arzan03/scholarship-server/internal/routes"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// Options configures the Fiber application.
type Options struct {
	AppName     string
	CORSOrigins []string
	ReadOnly    bool
	// AccessLog enables Fiber's request logger.
	AccessLog bool
	// Metrics, when set, instruments every route and serves GET /metrics.
	Metrics *metrics.Metrics
}

// New builds the Fiber app with middleware and all routes mounted.
func New(h *handlers.Handler, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      opts.AppName,
		ErrorHandler: handlers.ErrorHandler(h.Log),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	corsConfig := cors.Config{AllowOrigins: strings.Join(opts.CORSOrigins, ",")}
	// Fiber refuses credentials with a wildcard origin.
	corsConfig.AllowCredentials = corsConfig.AllowOrigins != "" && corsConfig.AllowOrigins != "*"
	app.Use(cors.New(corsConfig))

	if opts.Metrics != nil {
		app.Use(opts.Metrics.Middleware())
		app.Get("/metrics", opts.Metrics.Handler())
	}

	routes.Register(app, h, routes.Options{ReadOnly: opts.ReadOnly})
	return app
}
