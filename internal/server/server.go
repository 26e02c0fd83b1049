package server

import (
	"log"

	"aia-campus-be/internal/bootstrap"
	"aia-campus-be/internal/config"
	"aia-campus-be/internal/pkg/serverutils"
	ws "aia-campus-be/internal/websocket"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024, // 50MB, resources arrive base64-encoded
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, " + serverutils.HeaderUserRole,
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	// Routes
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
	log.Printf("Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.CourseController.RegisterRoutes(api)
	c.ResourceController.RegisterRoutes(api)
	c.ChatController.RegisterRoutes(api)
	c.ProgressController.RegisterRoutes(api)

	registerWebsockets(app, c)
}

func registerWebsockets(app *fiber.App, c *bootstrap.Container) {
	wsGroup := app.Group("/ws", serverutils.RoleMiddleware, func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// Push channel for bus notices.
	wsGroup.Get("/notifications", websocket.New(func(conn *websocket.Conn) {
		userId, _ := conn.Locals(serverutils.LocalsUserId).(string)
		ws.Serve(c.WebSocketHub, conn, userId)
	}))

	// Duplex voice tutor sessions.
	wsGroup.Get("/live", websocket.New(c.LiveHandler.Handle))
}
