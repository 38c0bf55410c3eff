package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/ytqa/internal/logger"
)

// shutdownTimeout bounds how long in-flight answers may finish after cancel.
const shutdownTimeout = 30 * time.Second

// Config configures the HTTP server.
type Config struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP API for ytqa.
type Server struct {
	app *fiber.App
}

// NewServer creates the server and registers its routes.
func NewServer(ports *Ports, cfg Config) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "ytqa",
		ErrorHandler:          ErrorHandler,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		DisableStartupMessage: true,
	})

	h := &handler{ports: ports}
	app.Get("/healthz", h.health)

	v1 := app.Group("/api/v1")
	v1.Post("/ask", h.ask)
	v1.Post("/index", h.index)
	v1.Delete("/index", h.reset)

	return &Server{app: app}, nil
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening on %s", addr)
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("HTTP API shutting down")
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return <-errCh
	}
}
