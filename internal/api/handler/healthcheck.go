package handler

import (
	"net/http"
	"time"

	"github.com/vfg2006/painel-operadoras/internal/scheduler"
)

// HealthReporter expõe a última verificação da origem dos dados
type HealthReporter interface {
	LastReport() scheduler.HealthReport
}

// SessionCounter informa quantas sessões estão abertas
type SessionCounter interface {
	Len() int
}

type healthResponse struct {
	Status         string                 `json:"status"`
	Time           time.Time              `json:"time"`
	Backend        scheduler.HealthReport `json:"backend"`
	ActiveSessions int                    `json:"active_sessions"`
}

// HealthcheckHandler responde à sonda de vida. A origem dos dados fora do ar não
// derruba o painel, apenas aparece no relatório.
func HealthcheckHandler(reporter HealthReporter, sessions SessionCounter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, healthResponse{
			Status:         "ok",
			Time:           time.Now(),
			Backend:        reporter.LastReport(),
			ActiveSessions: sessions.Len(),
		})
	})
}
