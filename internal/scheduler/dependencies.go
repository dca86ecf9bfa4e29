// Package scheduler contém os serviços agendados do painel
package scheduler

import "context"

//go:generate mockgen -source=dependencies.go -destination=mocks/mock_dependencies.go -package=mocks

// SessionSweeper remove sessões de navegação paradas
type SessionSweeper interface {
	Sweep() int
	Len() int
}

// HealthChecker verifica se a origem dos dados responde
type HealthChecker interface {
	Health(ctx context.Context) error
}
