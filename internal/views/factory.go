package views

import (
	"time"

	"github.com/vfg2006/painel-operadoras/internal/domain"
	"github.com/vfg2006/painel-operadoras/internal/usecases/loading"
	"github.com/vfg2006/painel-operadoras/internal/usecases/summarizing"
)

// Factory cria telas novas ligadas à mesma origem dos dados
type Factory struct {
	fetcher      loading.Fetcher
	policy       summarizing.RankingPolicy
	fetchTimeout time.Duration
	pageLimit    int
}

func NewFactory(fetcher loading.Fetcher, policy summarizing.RankingPolicy, fetchTimeout time.Duration, pageLimit int) *Factory {
	return &Factory{
		fetcher:      fetcher,
		policy:       policy,
		fetchTimeout: fetchTimeout,
		pageLimit:    pageLimit,
	}
}

func (f *Factory) options() []loading.Option {
	return []loading.Option{loading.WithTimeout(f.fetchTimeout)}
}

func (f *Factory) Dashboard() *DashboardView {
	return NewDashboardView(f.fetcher, f.policy, f.options()...)
}

func (f *Factory) OperatorDetail(cnpj domain.CNPJ) *OperatorDetailView {
	return NewOperatorDetailView(f.fetcher, cnpj, f.options()...)
}

// OperatorList normaliza a consulta com o limite de página configurado
func (f *Factory) OperatorList(query ListQuery) *OperatorListView {
	return NewOperatorListView(f.fetcher, query.Normalize(f.pageLimit), f.options()...)
}

// ListQuery devolve a consulta normalizada, usada para calcular a chave da tela
func (f *Factory) ListQuery(query ListQuery) ListQuery {
	return query.Normalize(f.pageLimit)
}
