// Package inventory implements the read-only materials summary: quantities of
// logistic units aggregated per material.
package inventory

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/joao-brasil/stock-overview/internal/metrics"
)

// summaryQuery sums logistic unit quantities per material. Materials without
// logistic units report zero.
const summaryQuery = `
SELECT
  m.id AS Id,
  m.Reference,
  m.Name,
  COALESCE(SUM(lu.Quantity), 0) AS TotalQuantity
FROM dbo_Materials m
LEFT JOIN dbo_LogisticUnits lu ON lu.material = m.id
GROUP BY m.id, m.Reference, m.Name
ORDER BY m.Name ASC;
`

// MaterialSummary is one row of the summary, carried as the database
// returned it. NULL Reference or Name encode as JSON null.
type MaterialSummary struct {
	Id            MaterialID `json:"Id"`
	Reference     *string    `json:"Reference"`
	Name          *string    `json:"Name"`
	TotalQuantity float64    `json:"TotalQuantity"`
}

// PoolGetter hands out the shared database pool.
type PoolGetter interface {
	Get(ctx context.Context) (*sql.DB, error)
}

// Cache stores a previously computed summary.
type Cache interface {
	Load(ctx context.Context, dst any) (bool, error)
	Store(ctx context.Context, v any) error
}

// Service runs the materials summary against the shared pool.
type Service struct {
	pools  PoolGetter
	cache  Cache
	logger zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCache serves summaries from c when present and refreshes it after
// every database read.
func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// NewService creates a Service that obtains connections from pools.
func NewService(pools PoolGetter, opts ...Option) *Service {
	s := &Service{
		pools:  pools,
		logger: log.With().Str("component", "inventory").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchMaterialsSummary returns every material with its total quantity,
// ordered by name. Failures are returned as *Error.
func (s *Service) FetchMaterialsSummary(ctx context.Context) ([]MaterialSummary, error) {
	if rows, ok := s.loadCached(ctx); ok {
		metrics.SummaryRequests.WithLabelValues("cache", "ok").Inc()
		return rows, nil
	}

	rows, err := s.query(ctx)
	if err != nil {
		metrics.SummaryRequests.WithLabelValues("database", "error").Inc()
		return nil, err
	}
	metrics.SummaryRequests.WithLabelValues("database", "ok").Inc()

	s.storeCached(ctx, rows)
	return rows, nil
}

func (s *Service) query(ctx context.Context) ([]MaterialSummary, error) {
	db, err := s.pools.Get(ctx)
	if err != nil {
		return nil, &Error{Kind: KindConnection, Op: "acquire pool", Err: err}
	}

	start := time.Now()
	defer func() {
		metrics.SummaryQueryDuration.Observe(time.Since(start).Seconds())
	}()

	rs, err := db.QueryContext(ctx, summaryQuery)
	if err != nil {
		return nil, &Error{Kind: KindQuery, Op: "query materials summary", Err: err}
	}
	defer rs.Close()

	cols, err := rs.ColumnTypes()
	if err != nil {
		return nil, &Error{Kind: KindQuery, Op: "describe materials summary", Err: err}
	}
	idType := cols[0].DatabaseTypeName()

	summary := make([]MaterialSummary, 0)
	for rs.Next() {
		var (
			row   MaterialSummary
			rawID any
		)
		if err := rs.Scan(&rawID, &row.Reference, &row.Name, &row.TotalQuantity); err != nil {
			return nil, &Error{Kind: KindQuery, Op: "scan materials summary", Err: err}
		}
		if row.Id, err = newMaterialID(rawID, idType); err != nil {
			return nil, &Error{Kind: KindQuery, Op: "scan materials summary", Err: err}
		}
		summary = append(summary, row)
	}
	if err := rs.Err(); err != nil {
		return nil, &Error{Kind: KindQuery, Op: "read materials summary", Err: err}
	}

	metrics.SummaryRows.Set(float64(len(summary)))
	s.logger.Debug().
		Int("rows", len(summary)).
		Dur("elapsed", time.Since(start)).
		Msg("materials summary loaded")

	return summary, nil
}

func (s *Service) loadCached(ctx context.Context) ([]MaterialSummary, bool) {
	if s.cache == nil {
		return nil, false
	}
	var rows []MaterialSummary
	ok, err := s.cache.Load(ctx, &rows)
	if err != nil {
		s.logger.Warn().Err(err).Msg("summary cache read failed, querying database")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	if rows == nil {
		rows = make([]MaterialSummary, 0)
	}
	return rows, true
}

func (s *Service) storeCached(ctx context.Context, rows []MaterialSummary) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Store(ctx, rows); err != nil {
		s.logger.Warn().Err(err).Msg("summary cache write failed")
	}
}
