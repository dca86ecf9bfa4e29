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

type SessionSweepConfig struct {
	CronSchedule string
	TTL          time.Duration
}

// SessionSweepService encerra periodicamente as sessões paradas há mais que o TTL
type SessionSweepService struct {
	scheduler            *gocron.Scheduler
	sessions             SessionSweeper
	config               SessionSweepConfig
	syncRunning          bool
	syncMutex            sync.Mutex
	lastSweepStartedAt   time.Time
	lastSweepCompletedAt time.Time
	lastRemoved          int
}

func NewSessionSweepService(sessions SessionSweeper, cfg *config.Config) *SessionSweepService {
	sweepConfig := SessionSweepConfig{
		CronSchedule: cfg.Session.SweepCron,
		TTL:          cfg.Session.TTL,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": sweepConfig.CronSchedule,
		"ttl":           sweepConfig.TTL.String(),
	}).Info("Configuração da limpeza de sessões carregada")

	return &SessionSweepService{
		scheduler: gocron.NewScheduler(time.Local),
		sessions:  sessions,
		config:    sweepConfig,
	}
}

func (s *SessionSweepService) Start(ctx context.Context) error {
	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de limpeza de sessões")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(s.Sweep)
	if err != nil {
		return fmt.Errorf("erro ao agendar limpeza de sessões: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de limpeza de sessões")
		s.scheduler.Stop()
	}()

	return nil
}

// Sweep remove as sessões expiradas. Uma limpeza em andamento faz a chamada ser ignorada.
func (s *SessionSweepService) Sweep() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Warn("Limpeza de sessões já está em execução")
		return
	}
	s.syncRunning = true
	s.lastSweepStartedAt = time.Now()
	s.syncMutex.Unlock()

	removed := s.sessions.Sweep()

	s.syncMutex.Lock()
	s.syncRunning = false
	s.lastSweepCompletedAt = time.Now()
	s.lastRemoved = removed
	s.syncMutex.Unlock()

	if removed > 0 {
		logrus.WithFields(logrus.Fields{
			"removed": removed,
			"active":  s.sessions.Len(),
		}).Info("Sessões expiradas removidas")
	}
}

// TriggerManualSync dispara uma limpeza fora do agendamento
func (s *SessionSweepService) TriggerManualSync() {
	logrus.Info("Iniciando limpeza manual de sessões")
	go s.Sweep()
}

// GetStatus retorna o status atual do agendador
func (s *SessionSweepService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sweep_cron":              s.config.CronSchedule,
		"session_ttl":             s.config.TTL.String(),
		"active_sessions":         s.sessions.Len(),
		"last_sweep_started_at":   s.lastSweepStartedAt,
		"last_sweep_completed_at": s.lastSweepCompletedAt,
		"last_sweep_removed":      s.lastRemoved,
	}
}
