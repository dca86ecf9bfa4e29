// Package loading implementa o ciclo de carregamento assíncrono de uma tela:
// Idle → Loading → Success | Error.
package loading

import (
	"context"
	"sync"
	"time"

	"github.com/vfg2006/painel-operadoras/pkg/log"
	"golang.org/x/sync/errgroup"
)

// Loader controla um lote de requisições de uma tela.
// O lote só termina em sucesso quando todas as requisições resolvem; a primeira
// rejeição leva ao erro e descarta as demais respostas. Não há retry.
type Loader struct {
	fetcher Fetcher
	timeout time.Duration

	mu         sync.Mutex
	state      State
	generation uint64
	settled    chan struct{}
	observers  map[int]func(State)
	nextID     int
}

type Option func(*Loader)

// WithTimeout limita a duração de um lote. Zero desabilita o limite.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		l.timeout = d
	}
}

func NewLoader(fetcher Fetcher, opts ...Option) *Loader {
	l := &Loader{
		fetcher:   fetcher,
		state:     idle(),
		settled:   make(chan struct{}),
		observers: make(map[int]func(State)),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load reinicia o ciclo (Idle e depois Loading) e dispara todas as requisições em paralelo.
// Um lote anterior ainda pendente é invalidado e o resultado dele será descartado.
func (l *Loader) Load(requests ...Request) {
	l.mu.Lock()
	l.generation++
	gen := l.generation
	l.closeSettledLocked()
	l.settled = make(chan struct{})
	l.state = idle()
	l.mu.Unlock()
	l.notify(idle())

	l.mu.Lock()
	if gen != l.generation {
		l.mu.Unlock()
		return
	}
	l.state = loadingState()
	l.mu.Unlock()
	l.notify(loadingState())

	if len(requests) == 0 {
		l.settle(gen, succeeded([]any{}))
		return
	}

	go l.run(gen, requests)
}

// Deactivate marca a tela dona do loader como inativa. Requisições pendentes não são
// canceladas, mas o resultado delas não altera mais o estado.
func (l *Loader) Deactivate() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.generation++
	l.closeSettledLocked()
}

// State retorna o estado atual
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.state
}

// Wait bloqueia até o ciclo atual terminar, a tela ser desativada ou o contexto expirar,
// e retorna o estado nesse momento.
func (l *Loader) Wait(ctx context.Context) State {
	l.mu.Lock()
	state, settled := l.state, l.settled
	l.mu.Unlock()

	if state.Status != StatusLoading {
		return state
	}

	select {
	case <-settled:
	case <-ctx.Done():
	}

	return l.State()
}

// Subscribe registra uma função chamada a cada transição de estado.
// A função não deve bloquear. O retorno remove a inscrição.
func (l *Loader) Subscribe(fn func(State)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++
	l.observers[id] = fn

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.observers, id)
	}
}

func (l *Loader) run(gen uint64, requests []Request) {
	ctx := context.Background()
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	payload := make([]any, len(requests))
	g, gctx := errgroup.WithContext(ctx)

	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			value, err := l.fetch(gctx, req)
			if err != nil {
				l.settle(gen, failed(err.Error()))
				return err
			}

			payload[i] = value
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return
	}

	l.settle(gen, succeeded(payload))
}

func (l *Loader) fetch(ctx context.Context, req Request) (any, error) {
	body, err := l.fetcher.Get(ctx, req.Path)
	if err != nil {
		return nil, err
	}

	if req.Decode == nil {
		return body, nil
	}

	return req.Decode(body)
}

// settle aplica o estado final se o lote ainda for o atual e estiver pendente
func (l *Loader) settle(gen uint64, state State) {
	l.mu.Lock()
	if gen != l.generation || l.state.Status != StatusLoading {
		l.mu.Unlock()
		log.L.WithFields(log.Fields{
			"status": state.Status.String(),
		}).Debug("loading: resultado descartado (lote substituído ou tela inativa)")
		return
	}

	l.state = state
	l.closeSettledLocked()
	l.mu.Unlock()

	l.notify(state)
}

func (l *Loader) closeSettledLocked() {
	select {
	case <-l.settled:
	default:
		close(l.settled)
	}
}

func (l *Loader) notify(state State) {
	l.mu.Lock()
	observers := make([]func(State), 0, len(l.observers))
	for _, fn := range l.observers {
		observers = append(observers, fn)
	}
	l.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}
