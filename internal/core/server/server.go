package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payurl-service/internal/core/config"
	"payurl-service/internal/core/logger"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "payurl-service/docs/swagger"
)

// shutdownTimeout bounds how long in-flight requests may run after a stop signal.
const shutdownTimeout = 10 * time.Second

// Server holds the Fiber application and configuration.
type Server struct {
	// App is the main Fiber application instance.
	App *fiber.App
	// cfg holds the application configuration.
	cfg *config.AppConfig
}

// HealthResponse is returned by GET /.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// New creates a new Server instance with configured middleware.
func New(cfg *config.AppConfig) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               logger.ServiceName,
	})

	app.Use(requestid.New(requestid.Config{
		Header:    "X-Ray-ID",
		Generator: uuid.NewString,
	}))

	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger.Get(),
	}))

	app.Get("/", health)
	app.Get("/swagger/*", swagger.HandlerDefault)

	return &Server{
		App: app,
		cfg: cfg,
	}
}

// health reports that the process is up.
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router / [get]
func health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "ok",
		Service: logger.ServiceName,
	})
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// listener fails. On cancellation the server is shut down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	logger.Get().Info("Starting server", zap.String("address", addr))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.App.Listen(addr)
	})

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() == nil {
			// Listen failed; nothing to shut down.
			return nil
		}
		logger.Get().Info("Shutting down server")
		return s.App.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
