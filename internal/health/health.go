// Package health fornece os health checks do serviço: o pool compartilhado
// do SQL Server e, quando habilitado, o cache Redis do resumo de materiais.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/joao-brasil/stock-overview/internal/config"
	"github.com/joao-brasil/stock-overview/internal/pool"
)

// Status representa o status de saúde de um componente.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// PoolStatus é o retrato do pool compartilhado no momento do check.
type PoolStatus struct {
	State   string `json:"state"`
	Open    int    `json:"open"`
	InUse   int    `json:"in_use"`
	Idle    int    `json:"idle"`
	MaxOpen int    `json:"max_open"`
}

// ComponentHealth representa a saúde de um único componente.
type ComponentHealth struct {
	Name    string      `json:"name"`
	Status  Status      `json:"status"`
	Message string      `json:"message,omitempty"`
	Latency string      `json:"latency"`
	Pool    *PoolStatus `json:"pool,omitempty"`
}

// Report é o relatório de prontidão com todos os componentes.
type Report struct {
	Status     Status            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Components []ComponentHealth `json:"components"`
}

// DatabaseReport é o corpo do endpoint de health do banco.
type DatabaseReport struct {
	OK      bool           `json:"ok"`
	DB      string         `json:"db"`
	Details string         `json:"details,omitempty"`
	Config  config.Summary `json:"config"`
}

// Database é o pool visto pelo checker.
type Database interface {
	Ping(ctx context.Context) error
	Stats() pool.Stats
	Config() config.ConnectionConfig
}

// Pinger é qualquer dependência que responde a um ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker realiza health checks contra o pool e o cache.
type Checker struct {
	db      Database
	cache   Pinger
	timeout time.Duration
}

// NewChecker cria um novo health checker. cache é nil quando o cache está desabilitado.
func NewChecker(db Database, cache Pinger) *Checker {
	return &Checker{
		db:      db,
		cache:   cache,
		timeout: 10 * time.Second,
	}
}

// CheckDatabase obtém o pool compartilhado e faz um ping nele.
func (c *Checker) CheckDatabase(ctx context.Context) DatabaseReport {
	report := DatabaseReport{
		OK:     true,
		DB:     "connected",
		Config: c.db.Config().Summary(),
	}

	if _, err := c.probe(ctx, c.db.Ping); err != nil {
		report.OK = false
		report.DB = "disconnected"
		report.Details = err.Error()
		log.Warn().Str("component", "health").Err(err).Msg("database health check failed")
	}
	return report
}

// Check verifica todos os componentes em paralelo e retorna um relatório.
// Os componentes aparecem sempre na mesma ordem: sqlserver, depois redis.
func (c *Checker) Check(ctx context.Context) *Report {
	components := make([]ComponentHealth, 1, 2)
	if c.cache != nil {
		components = components[:2]
	}

	var wg sync.WaitGroup
	wg.Add(len(components))
	go func() {
		defer wg.Done()
		components[0] = c.checkSQLServer(ctx)
	}()
	if c.cache != nil {
		go func() {
			defer wg.Done()
			components[1] = c.checkRedis(ctx)
		}()
	}
	wg.Wait()

	report := &Report{
		Status:     StatusHealthy,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Components: components,
	}
	for _, comp := range components {
		if comp.Status == StatusUnhealthy {
			report.Status = StatusUnhealthy
			break
		}
	}
	return report
}

// checkSQLServer faz o ping pelo pool e anexa o estado e a ocupação do pool.
func (c *Checker) checkSQLServer(ctx context.Context) ComponentHealth {
	latency, err := c.probe(ctx, c.db.Ping)
	stats := c.db.Stats()

	comp := ComponentHealth{
		Name:    "sqlserver",
		Status:  StatusHealthy,
		Latency: latency.String(),
		Pool: &PoolStatus{
			State:   stats.State.String(),
			Open:    stats.Open,
			InUse:   stats.InUse,
			Idle:    stats.Idle,
			MaxOpen: stats.MaxOpen,
		},
	}
	if err != nil {
		comp.Status = StatusUnhealthy
		comp.Message = fmt.Sprintf("pool %s: %v", stats.State, err)
		return comp
	}
	comp.Message = fmt.Sprintf("pool %s, %d of %d connections in use", stats.State, stats.InUse, stats.MaxOpen)
	return comp
}

// checkRedis verifica a conectividade com o cache do resumo.
func (c *Checker) checkRedis(ctx context.Context) ComponentHealth {
	latency, err := c.probe(ctx, c.cache.Ping)
	comp := ComponentHealth{
		Name:    "redis",
		Status:  StatusHealthy,
		Message: "ok",
		Latency: latency.String(),
	}
	if err != nil {
		comp.Status = StatusUnhealthy
		comp.Message = fmt.Sprintf("ping failed: %v", err)
	}
	return comp
}

// probe executa ping com o timeout do checker e mede a latência.
func (c *Checker) probe(ctx context.Context, ping func(context.Context) error) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	return time.Since(start), err
}
