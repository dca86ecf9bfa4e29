package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/painel-operadoras/internal/config"
)

const healthCheckTimeout = 5 * time.Second

type BackendHealthConfig struct {
	CronSchedule string
	Enabled      bool
	DataSource   string
}

// HealthReport é o resultado da última verificação da origem dos dados
type HealthReport struct {
	Checked   bool      `json:"checked"`
	Healthy   bool      `json:"healthy"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at,omitempty"`
	Latency   string    `json:"latency,omitempty"`
}

// BackendHealthService verifica periodicamente se a origem dos dados responde
type BackendHealthService struct {
	scheduler   *gocron.Scheduler
	checker     HealthChecker
	config      BackendHealthConfig
	syncRunning bool
	syncMutex   sync.Mutex
	last        HealthReport
}

func NewBackendHealthService(checker HealthChecker, cfg *config.Config) *BackendHealthService {
	healthConfig := BackendHealthConfig{
		CronSchedule: cfg.BackendHealth.CronSchedule,
		Enabled:      cfg.BackendHealth.Enabled,
		DataSource:   cfg.Backend.DataSource,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": healthConfig.CronSchedule,
		"data_source":   healthConfig.DataSource,
	}).Info("Configuração da verificação da origem dos dados carregada")

	return &BackendHealthService{
		scheduler: gocron.NewScheduler(time.Local),
		checker:   checker,
		config:    healthConfig,
	}
}

func (s *BackendHealthService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Verificação da origem dos dados desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de verificação da origem dos dados")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.Check(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar verificação da origem dos dados: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de verificação da origem dos dados")
		s.scheduler.Stop()
	}()

	return nil
}

// Check consulta a origem dos dados e guarda o resultado
func (s *BackendHealthService) Check(ctx context.Context) HealthReport {
	s.syncMutex.Lock()
	if s.syncRunning {
		last := s.last
		s.syncMutex.Unlock()
		return last
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	checkCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	started := time.Now()
	err := s.checker.Health(checkCtx)

	report := HealthReport{
		Checked:   true,
		Healthy:   err == nil,
		CheckedAt: started,
		Latency:   time.Since(started).Round(time.Millisecond).String(),
	}
	if err != nil {
		report.Error = err.Error()
		logrus.WithError(err).Warn("Origem dos dados não respondeu à verificação")
	}

	s.syncMutex.Lock()
	s.syncRunning = false
	s.last = report
	s.syncMutex.Unlock()

	return report
}

// LastReport devolve o resultado da última verificação
func (s *BackendHealthService) LastReport() HealthReport {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	return s.last
}

// TriggerManualSync dispara uma verificação fora do agendamento
func (s *BackendHealthService) TriggerManualSync() {
	logrus.Info("Iniciando verificação manual da origem dos dados")
	go s.Check(context.Background())
}

// GetStatus retorna o status atual do agendador
func (s *BackendHealthService) GetStatus() map[string]any {
	last := s.LastReport()

	return map[string]any{
		"health_enabled": s.config.Enabled,
		"health_cron":    s.config.CronSchedule,
		"data_source":    s.config.DataSource,
		"last_check":     last,
	}
}
