package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/novalearn/safegate/pkg/config"
	handlers "github.com/novalearn/safegate/pkg/handlers/http"
	"github.com/novalearn/safegate/pkg/middleware"
)

type (
	ModerationServerDI struct {
		MiddlewareTransport middleware.Transport
		HandlerTransport    handlers.HandlerTransport
		Config              *config.Config
		Logger              *logrus.Logger
	}
	ModerationServer struct {
		*BaseServer
		middlewareTransport middleware.Transport
		handlerTransport    handlers.HandlerTransport
	}
)

func NewModerationServer(di ModerationServerDI) *ModerationServer {
	return &ModerationServer{
		BaseServer:          NewBaseServer(di.Config, di.Logger),
		middlewareTransport: di.MiddlewareTransport,
		handlerTransport:    di.HandlerTransport,
	}
}

func (s *ModerationServer) Run() error {
	s.setupRoutes()
	s.setupHealthCheck()
	s.setupMetricsEndpoint()

	addr := fmt.Sprintf(":%d", s.config.Server.Port)
	s.logger.WithField("addr", addr).Info("Starting moderation server")
	return s.router.Listen(addr)
}

func (s *ModerationServer) setupRoutes() {
	s.router.Use(recover.New())
	s.router.Get("/version", s.handlerTransport.GetVersionHandler.Handle)

	baseRouter := s.router.Group("")
	s.addRoutes(baseRouter)
}

func (s *ModerationServer) addRoutes(router fiber.Router) {
	v1 := router.Group("/api/v1")
	v1.Use(s.middlewareTransport.AuthMiddleware.Middleware())
	{
		mod := v1.Group("/moderation")
		{
			mod.Post("", s.handlerTransport.ModerateContentHandler.Handle)
			mod.Post("/quick-check", s.handlerTransport.QuickCheckHandler.Handle)
			mod.Get("/users/:user_id/stats", s.handlerTransport.UserStatsHandler.Handle)
		}
	}
}

func (s *ModerationServer) Shutdown() error {
	return s.router.Shutdown()
}
