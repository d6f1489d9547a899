package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// HTTPServer serves the subscription endpoints
type HTTPServer struct {
	echo                   *echo.Echo
	subscriptionController *SubscriptionController
	healthController       *HealthController
}

// NewHTTPServer creates the echo instance and registers routes.
// verbose enables request logging.
func NewHTTPServer(
	subscriptionController *SubscriptionController,
	healthController *HealthController,
	verbose bool,
) *HTTPServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	}))
	if verbose {
		e.Use(middleware.Logger())
	}

	server := &HTTPServer{
		echo:                   e,
		subscriptionController: subscriptionController,
		healthController:       healthController,
	}

	server.setupRoutes()

	return server
}

func (s *HTTPServer) setupRoutes() {
	s.echo.GET("/health", s.healthController.HealthCheck)

	s.echo.GET("/subscribe", s.subscriptionController.Subscribe)
	s.echo.POST("/subscribe", s.subscriptionController.SubscribeJSON)
	s.echo.GET("/subscriptions/:subscriber", s.subscriptionController.ListSubscriptions)
	s.echo.POST("/reconcile", s.subscriptionController.Reconcile)

	log.Printf("[HTTP] Registered routes for %s, %s", s.healthController.GetName(), s.subscriptionController.GetName())
}

// Handler returns the underlying http.Handler
func (s *HTTPServer) Handler() http.Handler {
	return s.echo
}

// Start listens on address until Shutdown is called
func (s *HTTPServer) Start(address string) error {
	if err := s.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
