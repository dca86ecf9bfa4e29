// Package metrics concentra os coletores Prometheus do painel.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "painel"

// Resultados registrados pelos coletores
const (
	OutcomeSuccess   = "success"
	OutcomeError     = "error"
	OutcomeDiscarded = "discarded"
)

// Registry é o registro usado pelo endpoint /metrics
var Registry = prometheus.NewRegistry()

var (
	fetchBatches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_batches_total",
		Help:      "Lotes de requisições concluídos por tela e resultado.",
	}, []string{"view", "outcome"})

	backendRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Requisições feitas à origem dos dados por resultado.",
	}, []string{"outcome"})

	backendDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duração das requisições à origem dos dados.",
		Buckets:   prometheus.DefBuckets,
	})

	activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Sessões de navegação ativas.",
	})
)

func init() {
	Registry.MustRegister(
		fetchBatches,
		backendRequests,
		backendDuration,
		activeSessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// FetchBatch registra o término de um lote de carregamento de uma tela
func FetchBatch(view, outcome string) {
	fetchBatches.WithLabelValues(view, outcome).Inc()
}

// BackendRequest registra uma requisição à origem dos dados
func BackendRequest(err error, started time.Time) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}

	backendRequests.WithLabelValues(outcome).Inc()
	backendDuration.Observe(time.Since(started).Seconds())
}

// SetActiveSessions atualiza o número de sessões ativas
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

// Handler expõe o registro no formato Prometheus
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
