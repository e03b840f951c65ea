package pool

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/joao-brasil/stock-overview/internal/config"
	"github.com/joao-brasil/stock-overview/internal/metrics"
)

// ErrClosed é retornado por Get depois de Close.
var ErrClosed = errors.New("pool manager closed")

const connectKey = "connect"

// Manager cria sob demanda e memoriza o único pool compartilhado.
//
// Chamadas concorrentes de Get durante a primeira tentativa compartilham essa
// tentativa. Um pool criado com sucesso é reutilizado até o fim do processo;
// uma tentativa com falha não é memorizada e o próximo Get tenta de novo.
type Manager struct {
	cfg     config.ConnectionConfig
	open    OpenFunc
	onReady func(*sql.DB)

	group singleflight.Group

	mu      sync.RWMutex
	state   State
	db      *sql.DB
	lastErr error
	closed  bool
}

// Option configura um Manager.
type Option func(*Manager)

// WithOpener substitui a função usada para criar o pool.
func WithOpener(open OpenFunc) Option {
	return func(m *Manager) {
		m.open = open
	}
}

// WithOnReady registra fn para rodar uma única vez com o pool logo após a criação.
func WithOnReady(fn func(*sql.DB)) Option {
	return func(m *Manager) {
		m.onReady = fn
	}
}

// NewManager cria um Manager para cfg. Nenhuma conexão é aberta antes do Get.
func NewManager(cfg config.ConnectionConfig, opts ...Option) *Manager {
	m := &Manager{
		cfg:   cfg,
		open:  OpenSQLServer,
		state: StateUninitialized,
	}
	for _, opt := range opts {
		opt(m)
	}
	publishState(m.state)
	return m
}

// Get retorna o pool compartilhado, criando-o se necessário. Se ctx terminar
// durante uma tentativa, Get retorna ctx.Err() e a tentativa continua para os
// demais chamadores.
func (m *Manager) Get(ctx context.Context) (*sql.DB, error) {
	m.mu.RLock()
	db, closed := m.db, m.closed
	m.mu.RUnlock()

	if closed {
		return nil, ErrClosed
	}
	if db != nil {
		return db, nil
	}

	ch := m.group.DoChan(connectKey, func() (any, error) {
		return m.connect(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*sql.DB), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// connect executa uma tentativa de criação. Apenas uma roda por vez.
func (m *Manager) connect(ctx context.Context) (*sql.DB, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	if m.db != nil {
		db := m.db
		m.mu.Unlock()
		return db, nil
	}
	m.setState(StateInitializing)
	m.mu.Unlock()

	if m.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.ConnectTimeout)
		defer cancel()
	}

	logger := log.With().Str("component", "pool").Str("addr", m.cfg.Addr()).Logger()
	logger.Info().Str("database", m.cfg.Database).Msg("creating connection pool")

	start := time.Now()
	db, err := m.open(ctx, m.cfg)
	metrics.PoolConnectDuration.Observe(time.Since(start).Seconds())

	m.mu.Lock()
	if err != nil {
		m.lastErr = err
		m.setState(StateFailed)
		m.mu.Unlock()

		metrics.PoolConnectAttempts.WithLabelValues("error").Inc()
		logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("connection pool creation failed")
		return nil, fmt.Errorf("connecting to %s: %w", m.cfg.Addr(), err)
	}
	if m.closed {
		m.mu.Unlock()
		db.Close()
		return nil, ErrClosed
	}
	m.db = db
	m.lastErr = nil
	m.setState(StateReady)
	m.mu.Unlock()

	metrics.PoolConnectAttempts.WithLabelValues("ok").Inc()
	logger.Info().
		Dur("elapsed", time.Since(start)).
		Int("max_open", m.cfg.Pool.MaxOpen).
		Msg("connection pool ready")

	if m.onReady != nil {
		m.onReady(db)
	}
	return db, nil
}

// setState deve ser chamado com mu travado.
func (m *Manager) setState(s State) {
	m.state = s
	publishState(s)
}

// State retorna o estado atual do ciclo de vida.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// LastError retorna o erro da última tentativa com falha, ou nil quando o pool está pronto.
func (m *Manager) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// Config retorna a configuração de conexão usada pelo manager.
func (m *Manager) Config() config.ConnectionConfig {
	return m.cfg
}

// Close fecha o pool, se existir. Depois disso Get falha com ErrClosed.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	log.Info().Str("component", "pool").Msg("connection pool closed")
	if err != nil {
		return fmt.Errorf("closing pool: %w", err)
	}
	return nil
}
