package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/painel-operadoras/internal/api/handler"
	"github.com/vfg2006/painel-operadoras/internal/api/handler/router"
	"github.com/vfg2006/painel-operadoras/internal/config"
	"github.com/vfg2006/painel-operadoras/internal/scheduler"
	"github.com/vfg2006/painel-operadoras/internal/session"
	"github.com/vfg2006/painel-operadoras/internal/theme"
	"github.com/vfg2006/painel-operadoras/internal/views"
	"github.com/vfg2006/painel-operadoras/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	httpServer *http.Server
}

// Dependencies são os serviços que o servidor expõe
type Dependencies struct {
	Factory       *views.Factory
	Renderer      *handler.Renderer
	Theme         *theme.Service
	Sessions      *session.Manager
	SessionSweep  *scheduler.SessionSweepService
	BackendHealth *scheduler.BackendHealthService
}

func New(config *config.Config, deps Dependencies) (*Server, error) {
	pages := handler.NewPages(deps.Renderer, deps.Factory, deps.Theme, config.View.RenderTimeout)

	cronServices := handler.CronJobServices{
		SessionSweep:  deps.SessionSweep,
		BackendHealth: deps.BackendHealth,
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck(deps.BackendHealth, deps.Sessions)...),
		router.WithRoutes(handler.Metrics()...),
		router.WithRoutes(handler.PageRoutes(pages)...),
		router.WithRoutes(handler.Theme(deps.Theme)...),
		router.WithRoutes(handler.API(deps.Factory)...),
		router.WithRoutes(handler.CronJobs(cronServices, config.SecretKey)...),
		router.WithNotFound(handler.NotFound()),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.SessionMiddleware(deps.Sessions, !config.IsDevelopment()),
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           alice.New(middlewares...).Then(rt),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logrus.WithField("timeout", shutdownTimeout.String()).Info("Iniciando desligamento gracioso do servidor")

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}
