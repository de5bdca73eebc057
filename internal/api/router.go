package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/facegate/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/facegate/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/facegate/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/facegate/internal/config"
	"github.com/saturnino-fabrica-de-software/facegate/internal/service"
)

type Dependencies struct {
	AuthService *service.AuthService
	SweepWorker *service.SweepWorker
	DB          *pgxpool.Pool
	Config      *config.Config
}

type Router struct {
	app         *fiber.App
	logger      *slog.Logger
	deps        *Dependencies
	sessions    *middleware.SessionStore
	cancelSweep context.CancelFunc
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Facegate API",
		BodyLimit:    12 * 1024 * 1024,
	})

	return &Router{
		app:      app,
		logger:   logger,
		deps:     deps,
		sessions: middleware.NewSessionStore(),
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept",
		AllowCredentials: true,
	}))

	// Swagger documentation (no session required)
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints (no session required)
	var pinger handler.Pinger
	if r.deps != nil && r.deps.DB != nil {
		pinger = r.deps.DB
	}
	healthHandler := handler.NewHealthHandler(pinger)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	if r.deps == nil {
		return
	}

	cookieName := "facegate_session"
	if r.deps.Config != nil && r.deps.Config.SessionCookie != "" {
		cookieName = r.deps.Config.SessionCookie
	}

	v1 := r.app.Group("/v1")
	v1.Use(middleware.Session(cookieName))

	authHandler := handler.NewAuthHandler(r.deps.AuthService, r.sessions, r.logger)
	accountHandler := handler.NewAccountHandler(r.deps.AuthService, r.sessions, r.logger)

	// Public auth flows
	auth := v1.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/activate", authHandler.Activate)
	auth.Post("/login", authHandler.Login)
	auth.Post("/login/verify-otp", authHandler.VerifyOTP)
	auth.Post("/logout", authHandler.Logout)

	// Session-holder routes
	me := v1.Group("/me", middleware.RequireAuth(r.sessions))
	me.Get("/", accountHandler.Me)
	me.Get("/security-report", accountHandler.SecurityReport)
	me.Post("/face/update-request", accountHandler.UpdateFaceRequest)
	me.Post("/face/update-confirm", accountHandler.UpdateFaceConfirm)
	me.Post("/delete-request", accountHandler.DeleteRequest)
	me.Post("/delete-confirm", accountHandler.DeleteConfirm)

	if r.deps.SweepWorker != nil {
		ctx, cancel := context.WithCancel(context.Background())
		r.cancelSweep = cancel
		go r.deps.SweepWorker.Start(ctx)
	}
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	if r.cancelSweep != nil {
		r.cancelSweep()
	}
	return r.app.Shutdown()
}

// App exposes the underlying fiber app for tests.
func (r *Router) App() *fiber.App {
	return r.app
}
