package views

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/vfg2006/painel-operadoras/internal/domain"
	"github.com/vfg2006/painel-operadoras/internal/usecases/loading"
)

const (
	PathOperators = "/api/operadoras"

	listErrorLabel = "Erro ao carregar operadoras"
)

// ListQuery são os parâmetros da listagem paginada de operadoras
type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

// Normalize garante página e limite positivos e remove espaços da busca
func (q ListQuery) Normalize(defaultLimit int) ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// Path monta o caminho da listagem com os parâmetros da consulta
func (q ListQuery) Path() string {
	values := url.Values{}
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("limit", strconv.Itoa(q.Limit))
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	return PathOperators + "?" + values.Encode()
}

// OperatorListKey identifica a tela de listagem de uma consulta
func OperatorListKey(query ListQuery) string {
	return NameOperatorList + "|" + query.Path()
}

// ListModel é o snapshot da listagem de operadoras
type ListModel struct {
	Status loading.Status       `json:"status"`
	Error  string               `json:"error,omitempty"`
	Query  ListQuery            `json:"-"`
	Page   *domain.OperatorPage `json:"page,omitempty"`
}

// OperatorListView carrega uma página da listagem de operadoras
type OperatorListView struct {
	base
	query ListQuery
}

func NewOperatorListView(fetcher loading.Fetcher, query ListQuery, opts ...loading.Option) *OperatorListView {
	requests := func() []loading.Request {
		return []loading.Request{loading.Get[domain.OperatorPage](query.Path())}
	}

	return &OperatorListView{
		base:  newBase(NameOperatorList, OperatorListKey(query), fetcher, requests, opts...),
		query: query,
	}
}

func (v *OperatorListView) Query() ListQuery {
	return v.query
}

func (v *OperatorListView) Snapshot() ListModel {
	state := v.loader.State()
	model := ListModel{Status: state.Status, Query: v.query}

	switch state.Status {
	case loading.StatusError:
		model.Error = listErrorLabel + ": " + state.Message
	case loading.StatusSuccess:
		page, _ := loading.Value[domain.OperatorPage](state, 0)
		model.Page = &page
	}

	return model
}
