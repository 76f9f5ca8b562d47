package server

import (
	"capicare-backend/internal/handler"
	"capicare-backend/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	echo           *echo.Echo
	webhookHandler *handler.WebhookHandler
	accessHandler  *handler.AccessHandler
	adminHandler   *handler.AdminHandler
}

func NewServer(
	reconcileService service.ReconcileService,
	accessService service.AccessService,
	adminService service.AdminService,
) *Server {
	e := echo.New()

	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(MetricsMiddleware())

	s := &Server{
		echo:           e,
		webhookHandler: handler.NewWebhookHandler(reconcileService),
		accessHandler:  handler.NewAccessHandler(accessService),
		adminHandler:   handler.NewAdminHandler(adminService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")

	api.GET("/health", s.accessHandler.Health)

	// -------- provider webhooks --------
	api.POST("/webhook", s.webhookHandler.Receive)
	api.GET("/webhook", s.webhookHandler.Info)
	api.POST("/kirvano-webhook", s.webhookHandler.Receive)
	api.GET("/kirvano-webhook", s.webhookHandler.Info)

	// -------- access gate --------
	api.POST("/verify-access", s.accessHandler.Verify)
	api.GET("/verify-access", s.accessHandler.Health)

	// -------- operator / diagnostics --------
	api.GET("/debug-users", s.adminHandler.ListUsers)
	api.DELETE("/debug-users", s.adminHandler.DeleteUser)
	api.POST("/force-register", s.adminHandler.ForceRegister)
	api.POST("/simulate-kirvano", s.adminHandler.Simulate)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
