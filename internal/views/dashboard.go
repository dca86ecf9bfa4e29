package views

import (
	"github.com/vfg2006/painel-operadoras/internal/domain"
	"github.com/vfg2006/painel-operadoras/internal/usecases/loading"
	"github.com/vfg2006/painel-operadoras/internal/usecases/summarizing"
)

const (
	PathStats   = "/api/estatisticas"
	PathStatsUF = "/api/estatisticas/uf"

	dashboardErrorPrefix = "Erro ao carregar o dashboard: "
)

// DashboardModel é o snapshot da tela de dashboard
type DashboardModel struct {
	Status  loading.Status      `json:"status"`
	Error   string              `json:"error,omitempty"`
	Summary summarizing.Summary `json:"summary"`
	UFs     summarizing.UFChart `json:"ufs"`
}

// DashboardView carrega as estatísticas gerais e o total por UF em um único lote
type DashboardView struct {
	base
	policy summarizing.RankingPolicy
}

func NewDashboardView(fetcher loading.Fetcher, policy summarizing.RankingPolicy, opts ...loading.Option) *DashboardView {
	requests := func() []loading.Request {
		return []loading.Request{
			loading.Get[domain.DashboardStats](PathStats),
			loading.Get[[]domain.UFAggregate](PathStatsUF),
		}
	}

	return &DashboardView{
		base:   newBase(NameDashboard, NameDashboard, fetcher, requests, opts...),
		policy: policy,
	}
}

func (v *DashboardView) Snapshot() DashboardModel {
	state := v.loader.State()
	model := DashboardModel{Status: state.Status}

	switch state.Status {
	case loading.StatusError:
		model.Error = dashboardErrorPrefix + state.Message
	case loading.StatusSuccess:
		stats, _ := loading.Value[domain.DashboardStats](state, 0)
		ufs, _ := loading.Value[[]domain.UFAggregate](state, 1)
		model.Summary = summarizing.Summarize(stats, v.policy)
		model.UFs = summarizing.ChartUFs(ufs)
	}

	return model
}
