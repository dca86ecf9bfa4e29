// Package theme guarda a preferência de tema claro/escuro do painel.
package theme

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vfg2006/painel-operadoras/pkg/log"
)

// Key é a chave única da preferência no armazenamento
const Key = "theme"

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

var ErrInvalidTheme = errors.New("tema inválido")

// Parse converte o valor armazenado; valores desconhecidos viram Light
func Parse(value string) Theme {
	if Theme(value) == Dark {
		return Dark
	}
	return Light
}

func (t Theme) IsValid() bool {
	return t == Light || t == Dark
}

// Opposite devolve o outro tema
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Store é o armazenamento chave/valor da preferência
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Service mantém o tema atual do processo
type Service struct {
	store Store

	mu      sync.RWMutex
	current Theme
}

func NewService(store Store) *Service {
	return &Service{store: store, current: Light}
}

// Init lê a preferência salva, aplica e grava de volta o valor aplicado
func (s *Service) Init() (Theme, error) {
	value, found, err := s.store.Get(Key)
	if err != nil {
		return Light, fmt.Errorf("erro ao ler tema: %w", err)
	}

	applied := Parse(value)
	if found && !Theme(value).IsValid() {
		log.L.WithField("value", value).Warn("Tema salvo desconhecido, usando light")
	}

	if err := s.apply(applied); err != nil {
		return applied, err
	}

	return applied, nil
}

func (s *Service) Get() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Service) Set(t Theme) error {
	if !t.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, t)
	}
	return s.apply(t)
}

// Toggle alterna entre claro e escuro e devolve o novo tema
func (s *Service) Toggle() (Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Opposite()
	if err := s.applyLocked(next); err != nil {
		return s.current, err
	}
	return next, nil
}

func (s *Service) apply(t Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(t)
}

// applyLocked grava e aplica o tema; exige s.mu
func (s *Service) applyLocked(t Theme) error {
	if err := s.store.Set(Key, string(t)); err != nil {
		return fmt.Errorf("erro ao salvar tema: %w", err)
	}
	s.current = t

	return nil
}
