// Package views liga o ciclo de carregamento, os filtros e o resumo às telas do painel.
// Cada tela tem o próprio Loader e a própria seleção; o que chega à camada de
// apresentação são snapshots imutáveis.
package views

import (
	"context"
	"errors"

	"github.com/vfg2006/painel-operadoras/internal/usecases/loading"
	"github.com/vfg2006/painel-operadoras/pkg/metrics"
)

// Nomes das telas, usados como rota e como rótulo de métricas
const (
	NameDashboard      = "dashboard"
	NameOperatorList   = "operadoras"
	NameOperatorDetail = "operadora"
)

// ErrNotLoaded indica uma ação que depende dos dados antes de a tela carregar
var ErrNotLoaded = errors.New("dados ainda não carregados")

// View é uma tela com ciclo de vida controlado pela navegação
type View interface {
	// Key identifica a rota da tela; duas telas com a mesma chave são a mesma tela
	Key() string
	Activate()
	Deactivate()
	Status() loading.Status
	// Wait bloqueia até o ciclo atual terminar ou o ctx expirar
	Wait(ctx context.Context) loading.Status
}

// base agrupa o comportamento comum das telas
type base struct {
	name     string
	key      string
	loader   *loading.Loader
	requests func() []loading.Request
}

func newBase(name, key string, fetcher loading.Fetcher, requests func() []loading.Request, opts ...loading.Option) base {
	b := base{
		name:     name,
		key:      key,
		loader:   loading.NewLoader(fetcher, opts...),
		requests: requests,
	}

	b.loader.Subscribe(func(s loading.State) {
		switch s.Status {
		case loading.StatusSuccess:
			metrics.FetchBatch(name, metrics.OutcomeSuccess)
		case loading.StatusError:
			metrics.FetchBatch(name, metrics.OutcomeError)
		}
	})

	return b
}

func (b *base) Key() string {
	return b.key
}

// Activate dispara o lote de carregamento da tela
func (b *base) Activate() {
	b.loader.Load(b.requests()...)
}

// Deactivate invalida o lote pendente; o resultado que chegar depois é descartado
func (b *base) Deactivate() {
	if b.loader.State().Status == loading.StatusLoading {
		metrics.FetchBatch(b.name, metrics.OutcomeDiscarded)
	}
	b.loader.Deactivate()
}

func (b *base) Status() loading.Status {
	return b.loader.State().Status
}

func (b *base) Wait(ctx context.Context) loading.Status {
	return b.loader.Wait(ctx).Status
}

// Subscribe registra um observador das transições de estado da tela
func (b *base) Subscribe(fn func(loading.State)) func() {
	return b.loader.Subscribe(fn)
}
