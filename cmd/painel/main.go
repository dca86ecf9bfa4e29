package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/painel-operadoras/infrastructure/database/postgres"
	"github.com/vfg2006/painel-operadoras/infrastructure/integrator/ans/ansclient"
	"github.com/vfg2006/painel-operadoras/infrastructure/repository"
	"github.com/vfg2006/painel-operadoras/internal/api"
	"github.com/vfg2006/painel-operadoras/internal/api/handler"
	"github.com/vfg2006/painel-operadoras/internal/config"
	"github.com/vfg2006/painel-operadoras/internal/scheduler"
	"github.com/vfg2006/painel-operadoras/internal/session"
	"github.com/vfg2006/painel-operadoras/internal/theme"
	"github.com/vfg2006/painel-operadoras/internal/usecases/loading"
	"github.com/vfg2006/painel-operadoras/internal/usecases/summarizing"
	"github.com/vfg2006/painel-operadoras/internal/views"
	"github.com/vfg2006/painel-operadoras/pkg/log"
)

// dataSource é a origem dos dados: a API do backend ou o banco direto
type dataSource interface {
	loading.Fetcher
	scheduler.HealthChecker
}

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	if err := log.Setup(cfg.App.LogLevel); err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
	}
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source, closeSource := newDataSource(ctx, cfg)
	defer closeSource()

	policy, err := summarizing.ParseRankingPolicy(cfg.View.RankingPolicy)
	if err != nil {
		logrus.Fatal(err)
	}
	factory := views.NewFactory(source, policy, cfg.View.FetchTimeout, cfg.View.OperatorsPageLimit)

	themeStore, err := theme.NewFileStore(cfg.Theme.File)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao abrir o arquivo de preferências")
	}
	themeService := theme.NewService(themeStore)
	applied, err := themeService.Init()
	if err != nil {
		logrus.WithError(err).Warn("Não foi possível salvar o tema inicial")
	}
	logrus.Infof("Tema aplicado: %s", applied)

	codec, err := session.NewCodec(cfg.SecretKey, cfg.Session.TTL)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao preparar o cookie de sessão")
	}
	sessions := session.NewManager(codec, cfg.Session.TTL, session.WithMaxSessions(cfg.Session.Max))

	sessionSweep := scheduler.NewSessionSweepService(sessions, cfg)
	backendHealth := scheduler.NewBackendHealthService(source, cfg)

	if err := sessionSweep.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de limpeza de sessões")
	} else {
		logrus.Info("Agendador de limpeza de sessões iniciado com sucesso")
	}

	if err := backendHealth.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar a verificação da origem dos dados")
	}

	renderer, err := handler.NewRenderer()
	if err != nil {
		logrus.Fatal(err)
	}

	server, err := api.New(cfg, api.Dependencies{
		Factory:       factory,
		Renderer:      renderer,
		Theme:         themeService,
		Sessions:      sessions,
		SessionSweep:  sessionSweep,
		BackendHealth: backendHealth,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// newDataSource escolhe a origem dos dados pela configuração
func newDataSource(ctx context.Context, cfg *config.Config) (dataSource, func()) {
	if cfg.Backend.DataSource == config.DataSourcePostgres {
		conn := pgconn(ctx, cfg.Database)
		return repository.NewDirectSource(conn), func() { conn.Close() }
	}

	logrus.WithField("url", cfg.Backend.URL).Info("Usando a API do backend como origem dos dados")
	return ansclient.NewClient(cfg.Backend), func() {}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
