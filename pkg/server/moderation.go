package server

import (
	"fmt"

	"github.com/blogora/moderation/pkg/config"
	handlers "github.com/blogora/moderation/pkg/handlers/http"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type (
	ModerationServerDI struct {
		HandlerTransport handlers.HandlerTransport
		Config           *config.Config
		Logger           *logrus.Logger
	}
	ModerationServer struct {
		*BaseServer
		handlerTransport handlers.HandlerTransport
	}
)

func NewModerationServer(di ModerationServerDI) *ModerationServer {
	return &ModerationServer{
		BaseServer:       NewBaseServer(di.Config, di.Logger),
		handlerTransport: di.HandlerTransport,
	}
}

func (s *ModerationServer) Run() error {
	s.setupRoutes()
	s.setupHealthCheck()
	s.setupMetricsEndpoint()

	addr := fmt.Sprintf(":%d", s.config.Server.Port)
	s.logger.WithField("addr", addr).Info("starting moderation server")
	return s.router.Listen(addr)
}

func (s *ModerationServer) setupRoutes() {
	s.addRoutes(s.router.Group(""))
}

func (s *ModerationServer) addRoutes(router fiber.Router) {
	api := router.Group("/api")
	{
		moderate := api.Group("/moderate")
		{
			moderate.Post("/nsfw", s.handlerTransport.ModeratePostHandler.Handle)
		}
	}
}

func (s *ModerationServer) Shutdown() error {
	return s.router.Shutdown()
}
