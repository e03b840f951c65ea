// Package pool fornece o pool de conexões SQL Server compartilhado pelo processo.
// O pool é criado sob demanda no primeiro uso, compartilhado por todas as
// requisições e recriado numa chamada posterior se a criação falhou.
package pool

import (
	"github.com/joao-brasil/stock-overview/internal/metrics"
)

// State representa o estado do ciclo de vida do pool compartilhado.
type State int

const (
	StateUninitialized State = iota // Nenhuma tentativa feita ainda
	StateInitializing               // Uma tentativa de criação em andamento
	StateReady                      // Pool ativo e memorizado
	StateFailed                     // A última tentativa falhou; o próximo Get tenta de novo
)

var allStates = []State{StateUninitialized, StateInitializing, StateReady, StateFailed}

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// publishState reflete o estado atual no gauge stock_pool_state.
func publishState(current State) {
	for _, s := range allStates {
		v := 0.0
		if s == current {
			v = 1
		}
		metrics.PoolState.WithLabelValues(s.String()).Set(v)
	}
}
