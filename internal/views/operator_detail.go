package views

import (
	"sync"

	"github.com/vfg2006/painel-operadoras/internal/domain"
	"github.com/vfg2006/painel-operadoras/internal/usecases/filtering"
	"github.com/vfg2006/painel-operadoras/internal/usecases/loading"
)

const detailErrorPrefix = "Erro ao carregar detalhes: "

// OperatorPath é o caminho dos dados cadastrais de uma operadora
func OperatorPath(cnpj domain.CNPJ) string {
	return "/api/operadoras/" + cnpj.String()
}

// ExpensesPath é o caminho do histórico de despesas de uma operadora
func ExpensesPath(cnpj domain.CNPJ) string {
	return OperatorPath(cnpj) + "/despesas"
}

// OperatorDetailKey identifica a tela de detalhes de uma operadora
func OperatorDetailKey(cnpj domain.CNPJ) string {
	return NameOperatorDetail + "|" + cnpj.String()
}

// DetailModel é o snapshot da tela de detalhes de uma operadora.
// Em erro ou carregando, Operator é nil e não há registros.
type DetailModel struct {
	Status    loading.Status         `json:"status"`
	Error     string                 `json:"error,omitempty"`
	CNPJ      domain.CNPJ            `json:"cnpj"`
	Operator  *domain.Operator       `json:"operator,omitempty"`
	Selection domain.FilterSelection `json:"selection"`
	Years     []int                  `json:"years,omitempty"`
	Quarters  []int                  `json:"quarters,omitempty"`
	Visible   []domain.ExpenseRecord `json:"visible,omitempty"`
	Total     float64                `json:"total"`
}

// OperatorDetailView carrega a operadora e o histórico de despesas em um único lote.
// A seleção de ano e trimestre é aplicada localmente, sem nova busca.
type OperatorDetailView struct {
	base
	cnpj domain.CNPJ

	mu        sync.RWMutex
	selection domain.FilterSelection
}

func NewOperatorDetailView(fetcher loading.Fetcher, cnpj domain.CNPJ, opts ...loading.Option) *OperatorDetailView {
	requests := func() []loading.Request {
		return []loading.Request{
			loading.Get[domain.Operator](OperatorPath(cnpj)),
			loading.Get[[]domain.ExpenseRecord](ExpensesPath(cnpj)),
		}
	}

	return &OperatorDetailView{
		base:      newBase(NameOperatorDetail, OperatorDetailKey(cnpj), fetcher, requests, opts...),
		cnpj:      cnpj,
		selection: domain.DefaultSelection(),
	}
}

// Activate volta a seleção para "todos" e dispara o carregamento
func (v *OperatorDetailView) Activate() {
	v.mu.Lock()
	v.selection = domain.DefaultSelection()
	v.mu.Unlock()

	v.base.Activate()
}

func (v *OperatorDetailView) CNPJ() domain.CNPJ {
	return v.cnpj
}

// Select troca o filtro de ano e trimestre. Antes do sucesso do carregamento
// retorna ErrNotLoaded e não altera nada.
func (v *OperatorDetailView) Select(selection domain.FilterSelection) error {
	if v.loader.State().Status != loading.StatusSuccess {
		return ErrNotLoaded
	}

	v.mu.Lock()
	v.selection = selection
	v.mu.Unlock()

	return nil
}

func (v *OperatorDetailView) Selection() domain.FilterSelection {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.selection
}

func (v *OperatorDetailView) Snapshot() DetailModel {
	state := v.loader.State()
	model := DetailModel{
		Status:    state.Status,
		CNPJ:      v.cnpj,
		Selection: v.Selection(),
	}

	switch state.Status {
	case loading.StatusError:
		model.Error = detailErrorPrefix + state.Message
	case loading.StatusSuccess:
		operator, _ := loading.Value[domain.Operator](state, 0)
		records, _ := loading.Value[[]domain.ExpenseRecord](state, 1)

		model.Operator = &operator
		model.Years = filtering.AvailableYears(records)
		model.Quarters = filtering.Quarters()
		model.Visible = filtering.Filter(records, model.Selection)
		model.Total = filtering.Total(model.Visible)
	}

	return model
}
