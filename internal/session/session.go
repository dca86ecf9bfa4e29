// Package session mantém as sessões de navegação. Cada sessão é dona de no máximo
// uma tela ativa, como uma aplicação de página única.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/vfg2006/painel-operadoras/internal/usecases/loading"
	"github.com/vfg2006/painel-operadoras/internal/views"
	"github.com/vfg2006/painel-operadoras/pkg/log"
	"github.com/vfg2006/painel-operadoras/pkg/metrics"
	"github.com/vfg2006/painel-operadoras/pkg/utils"
)

const idSize = 21

type contextKey string

const contextKeySession contextKey = "session"

// Session é a navegação de um navegador
type Session struct {
	ID string

	mu       sync.Mutex
	current  views.View
	lastSeen time.Time
}

// Navigate leva a sessão para a tela identificada por key.
//   - tela diferente: a atual é desativada e a nova é criada e ativada;
//   - mesma tela em erro: a tela é ativada de novo;
//   - mesma tela nos demais casos: a tela é reaproveitada sem nova busca.
func (s *Session) Navigate(key string, build func() views.View) views.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.current == nil || s.current.Key() != key:
		if s.current != nil {
			s.current.Deactivate()
		}
		s.current = build()
		s.current.Activate()
	case s.current.Status() == loading.StatusError:
		s.current.Activate()
	}

	return s.current
}

// Current devolve a tela ativa, se houver
func (s *Session) Current() views.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.Deactivate()
		s.current = nil
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Manager guarda as sessões em memória
type Manager struct {
	codec *Codec
	ttl   time.Duration
	max   int
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

type Option func(*Manager)

// WithClock troca a fonte de tempo
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithMaxSessions limita as sessões em memória. Ao atingir o limite, a sessão
// parada há mais tempo é removida antes de criar a nova. Zero desliga o limite.
func WithMaxSessions(max int) Option {
	return func(m *Manager) {
		m.max = max
	}
}

func NewManager(codec *Codec, ttl time.Duration, opts ...Option) *Manager {
	m := &Manager{
		codec:    codec,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Resolve encontra a sessão do token ou cria uma nova. O token devolvido deve ser
// regravado no cookie: a validade dele é renovada a cada requisição.
func (m *Manager) Resolve(token string) (*Session, string, error) {
	now := m.now()

	if token != "" {
		id, err := m.codec.Decode(token)
		if err == nil {
			m.mu.Lock()
			s, ok := m.sessions[id]
			m.mu.Unlock()

			if ok {
				s.touch(now)
				refreshed, err := m.codec.Encode(id, now)
				if err != nil {
					return nil, "", err
				}
				return s, refreshed, nil
			}
		} else {
			log.L.WithError(err).Debug("Cookie de sessão descartado")
		}
	}

	id, err := utils.GenerateID(idSize)
	if err != nil {
		return nil, "", err
	}

	newToken, err := m.codec.Encode(id, now)
	if err != nil {
		return nil, "", err
	}

	s := &Session{ID: id, lastSeen: now}

	m.mu.Lock()
	var evicted *Session
	if m.max > 0 && len(m.sessions) >= m.max {
		evicted = m.oldestLocked(now)
		delete(m.sessions, evicted.ID)
	}
	m.sessions[id] = s
	count := len(m.sessions)
	m.mu.Unlock()

	if evicted != nil {
		evicted.close()
		log.L.Debug("Sessão mais antiga removida pelo limite de sessões")
	}

	metrics.SetActiveSessions(count)

	return s, newToken, nil
}

func (m *Manager) oldestLocked(now time.Time) *Session {
	var oldest *Session
	var idle time.Duration
	for _, s := range m.sessions {
		if d := s.idleSince(now); oldest == nil || d > idle {
			oldest, idle = s, d
		}
	}
	return oldest
}

// Sweep remove as sessões paradas há mais que o TTL e desativa as telas delas.
// Devolve quantas sessões foram removidas.
func (m *Manager) Sweep() int {
	now := m.now()

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.idleSince(now) > m.ttl {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	for _, s := range expired {
		s.close()
	}

	metrics.SetActiveSessions(count)

	return len(expired)
}

// Len devolve o número de sessões ativas
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// TTL é o tempo máximo de inatividade de uma sessão
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// WithSession guarda a sessão no contexto da requisição
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKeySession, s)
}

// FromContext recupera a sessão guardada por WithSession
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKeySession).(*Session)
	return s, ok
}
