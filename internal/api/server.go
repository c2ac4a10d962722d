// Package api serves the expense session over a JSON HTTP interface.
package api

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"time"

	"github.com/Veraticus/pennywise/internal/common"
	"github.com/Veraticus/pennywise/internal/finance"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Server exposes a finance.Session over HTTP.
type Server struct {
	app      *fiber.App
	session  *finance.Session
	logger   *slog.Logger
	currency string
}

// New creates a server with every route registered.
func New(session *finance.Session, currency string, logger *slog.Logger) *Server {
	s := &Server{
		session:  session,
		logger:   common.LoggerOrDefault(logger),
		currency: currency,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "penny",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New())
	s.app.Use(s.logRequests)

	api := s.app.Group("/api")
	api.Get("/months", s.listMonths)
	api.Get("/expenses", s.listExpenses)
	api.Post("/expenses", s.addExpense)
	api.Get("/summary", s.summary)
	api.Get("/total", s.total)
	api.Post("/budget", s.budget)
	api.Post("/goals", s.goals)

	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("API listening", "addr", addr)
	return s.app.Listen(addr)
}

// ListenTLS serves HTTPS on addr with the given certificate until Shutdown is called.
func (s *Server) ListenTLS(addr string, cert tls.Certificate) error {
	s.logger.Info("API listening", "addr", addr, "tls", true)
	return s.app.ListenTLSWithCertificate(addr, cert)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debug("Request handled",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start))
	return err
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		s.logger.Error("Request failed",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"error", err)
	}

	message := err.Error()
	var fe *fiber.Error
	if errors.As(err, &fe) {
		message = fe.Message
	}

	return c.Status(status).JSON(errorResponse{Error: message})
}

func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case common.IsValidation(err):
		return fiber.StatusBadRequest
	case common.IsService(err):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
