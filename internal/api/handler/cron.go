package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/painel-operadoras/pkg/apiErrors"
)

// Tipos de cron job que podem ser executadas manualmente
const (
	CronJobTypeSessions      = "sessions"
	CronJobTypeBackendHealth = "backend-health"
	CronJobTypeAll           = "all"
)

// CronJob é o que o handler precisa de um serviço agendado
type CronJob interface {
	TriggerManualSync()
	GetStatus() map[string]any
}

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	SessionSweep  CronJob
	BackendHealth CronJob
}

func (s CronJobServices) byType() map[string]CronJob {
	return map[string]CronJob{
		CronJobTypeSessions:      s.SessionSweep,
		CronJobTypeBackendHealth: s.BackendHealth,
	}
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")

		switch cronType {
		case CronJobTypeSessions, CronJobTypeBackendHealth:
			job := services.byType()[cronType]
			if job == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço "+cronType+" não disponível", nil)
				return
			}
			job.TriggerManualSync()

		case CronJobTypeAll:
			for _, job := range services.byType() {
				if job != nil {
					job.TriggerManualSync()
				}
			}

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: sessions, backend-health, all", nil)
			return
		}

		writeJSON(w, r, http.StatusOK, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCronStatus")

		status := make(map[string]any)
		for name, job := range services.byType() {
			if job != nil {
				status[name] = job.GetStatus()
			}
		}

		writeJSON(w, r, http.StatusOK, status)
	}
}
