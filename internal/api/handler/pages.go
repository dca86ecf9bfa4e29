package handler

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/painel-operadoras/internal/domain"
	"github.com/vfg2006/painel-operadoras/internal/session"
	"github.com/vfg2006/painel-operadoras/internal/theme"
	"github.com/vfg2006/painel-operadoras/internal/usecases/loading"
	"github.com/vfg2006/painel-operadoras/internal/views"
	"github.com/vfg2006/painel-operadoras/pkg/log"
)

// ThemeProvider é o serviço de tema usado pelas páginas
type ThemeProvider interface {
	Get() theme.Theme
	Toggle() (theme.Theme, error)
}

// Pages renderiza as telas HTML. Cada tela pertence à sessão de quem navega.
type Pages struct {
	renderer      *Renderer
	factory       *views.Factory
	theme         ThemeProvider
	renderTimeout time.Duration
}

func NewPages(renderer *Renderer, factory *views.Factory, themeProvider ThemeProvider, renderTimeout time.Duration) *Pages {
	return &Pages{
		renderer:      renderer,
		factory:       factory,
		theme:         themeProvider,
		renderTimeout: renderTimeout,
	}
}

type dashboardPage struct {
	views.DashboardModel
	UFMax float64
}

type operatorsPage struct {
	views.ListModel
	PreviousURL string
	NextURL     string
}

// navigate leva a sessão da requisição para a tela key. Sem sessão, a tela é avulsa.
func navigate[V views.View](r *http.Request, key string, build func() V) V {
	if s, ok := session.FromContext(r.Context()); ok {
		if v, ok := s.Navigate(key, func() views.View { return build() }).(V); ok {
			return v
		}
	}

	v := build()
	v.Activate()
	return v
}

// wait espera o carregamento até o limite de renderização; depois disso a página
// mostra o indicador de carregamento e o lote continua rodando
func (p *Pages) wait(r *http.Request, v views.View) {
	ctx := r.Context()
	if p.renderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.renderTimeout)
		defer cancel()
	}
	v.Wait(ctx)
}

func (p *Pages) render(w http.ResponseWriter, r *http.Request, page, title string, status loading.Status, content any) {
	data := PageData{
		Title:   title,
		Active:  page,
		Theme:   p.theme.Get(),
		Content: content,
	}
	if status == loading.StatusLoading {
		data.Refresh = loadingRefresh
	}

	p.renderer.Render(w, r, http.StatusOK, page, data)
}

func (p *Pages) Home() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.render(w, r, pageHome, "Início", loading.StatusSuccess, nil)
	}
}

func (p *Pages) Dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := navigate(r, views.NameDashboard, p.factory.Dashboard)
		p.wait(r, view)

		model := view.Snapshot()
		p.render(w, r, pageDashboard, "Dashboard", model.Status, dashboardPage{
			DashboardModel: model,
			UFMax:          maxUFTotal(model.UFs.Items),
		})
	}
}

func (p *Pages) Operators() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values := r.URL.Query()
		page, _ := strconv.Atoi(values.Get("page"))
		query := p.factory.ListQuery(views.ListQuery{Page: page, Search: values.Get("search")})

		view := navigate(r, views.OperatorListKey(query), func() *views.OperatorListView {
			return p.factory.OperatorList(query)
		})
		p.wait(r, view)

		model := view.Snapshot()
		p.render(w, r, pageOperators, "Operadoras", model.Status, operatorsPage{
			ListModel:   model,
			PreviousURL: operatorsURL(query.Page-1, query.Search),
			NextURL:     operatorsURL(query.Page+1, query.Search),
		})
	}
}

// Operator mostra os detalhes de uma operadora. Os parâmetros ano e trimestre
// são aplicados na tela já carregada, sem nova busca.
func (p *Pages) Operator() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := httprouter.ParamsFromContext(r.Context()).ByName("cnpj")
		cnpj, err := domain.ParseCNPJ(raw)
		if err != nil {
			log.ForContext(r.Context()).WithFields(log.Fields{
				"cnpj":  raw,
				"error": err.Error(),
			}).Info("CNPJ inválido na rota, redirecionando para o início")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		view := navigate(r, views.OperatorDetailKey(cnpj), func() *views.OperatorDetailView {
			return p.factory.OperatorDetail(cnpj)
		})
		p.wait(r, view)

		if view.Status() == loading.StatusSuccess {
			if err := view.Select(selectionFromQuery(r.URL.Query())); err != nil {
				log.ForContext(r.Context()).WithError(err).Debug("Filtro ignorado")
			}
		}

		model := view.Snapshot()
		title := "Operadora"
		if model.Operator != nil {
			title = model.Operator.RazaoSocial
		}
		p.render(w, r, pageOperator, title, model.Status, model)
	}
}

// noMatch é um valor fora de qualquer domínio: o filtro não encontra nenhum registro
const noMatch = -1

// selectionFromQuery lê ano e trimestre. Ausente significa "todos"; um valor não
// numérico vira noMatch e a tabela fica vazia.
func selectionFromQuery(values url.Values) domain.FilterSelection {
	return domain.FilterSelection{
		Year:    selectorValue(values.Get("ano")),
		Quarter: selectorValue(values.Get("trimestre")),
	}
}

func selectorValue(raw string) int {
	if raw == "" {
		return domain.AllValues
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return noMatch
	}
	return n
}

func operatorsURL(page int, search string) string {
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	if search != "" {
		values.Set("search", search)
	}
	return "/operadoras?" + values.Encode()
}

func maxUFTotal(items []domain.UFAggregate) float64 {
	var highest float64
	for _, item := range items {
		if item.Total > highest {
			highest = item.Total
		}
	}
	return highest
}

// NotFound redireciona rotas desconhecidas para o início
func NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	}
}
