package server

import (
	"context"
	"errors"
	"log"

	"aquatech-web/internal/bootstrap"
	"aquatech-web/internal/config"
	"aquatech-web/internal/pkg/serverutils"
	"aquatech-web/internal/pkg/view"
	"aquatech-web/internal/websocket"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const messageInternalError = "Something went wrong on our side. Please try again."

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:             2 * 1024 * 1024,
		Views:                 view.New(),
		ErrorHandler:          errorHandler(container),
		DisableStartupMessage: cfg.IsProduction(),
	})

	app.Use(recover.New())
	app.Use(requestid.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	if cfg.Session.CookieKey != "" {
		app.Use(encryptcookie.New(encryptcookie.Config{Key: cfg.Session.CookieKey}))
	}
	app.Use(serverutils.SessionMiddleware(serverutils.SessionCookieConfig{
		MaxAge: cfg.Session.TTL,
		Secure: cfg.IsProduction(),
	}))

	app.Use(serverutils.ErrorHandlerMiddleware())

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on %s (port %s)", s.cfg.App.BaseURL, s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	app.Get("/ws/session", websocket.Upgrade(c.Registry), websocket.ServeSession(c.WebSocketHub))

	c.AuthController.RegisterRoutes(app)

	api := app.Group("/api")
	c.SessionController.RegisterRoutes(api)
	c.ProductController.RegisterRoutes(api)
	c.VisionController.RegisterRoutes(api)

	c.PageController.RegisterRoutes(app)
	app.Use(c.PageController.NotFound)
}

// errorHandler answers API requests with JSON and page requests with the
// error page.
func errorHandler(c *bootstrap.Container) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := messageInternalError

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		if code >= fiber.StatusInternalServerError {
			c.Logger.Error("Server", "Request failed", map[string]interface{}{
				"method":     ctx.Method(),
				"path":       ctx.Path(),
				"request_id": ctx.GetRespHeader(fiber.HeaderXRequestID),
				"error":      err.Error(),
			})
		}

		if serverutils.IsAPIRequest(ctx) {
			return ctx.Status(code).JSON(serverutils.ErrorResponse(code, message))
		}

		ctx.Status(code)
		if renderErr := ctx.Render("pages/error", fiber.Map{"Message": message}, view.LayoutMain); renderErr != nil {
			return ctx.SendString(message)
		}
		return nil
	}
}
