package pool

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/joao-brasil/stock-overview/internal/config"
)

// DriverName is the database/sql driver registered by go-mssqldb.
const DriverName = "sqlserver"

// OpenFunc creates a live pool for cfg. It must either return a pool that has
// answered a ping or close whatever it opened and return an error.
type OpenFunc func(ctx context.Context, cfg config.ConnectionConfig) (*sql.DB, error)

// OpenSQLServer is the default OpenFunc. It opens a go-mssqldb pool sized by
// cfg.Pool and verifies that the server is reachable.
func OpenSQLServer(ctx context.Context, cfg config.ConnectionConfig) (*sql.DB, error) {
	db, err := sql.Open(DriverName, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	ApplyLimits(db, cfg.Pool)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return db, nil
}

// ApplyLimits sizes db according to limits. database/sql has no minimum
// idle setting; MinIdle of zero means no connections are opened eagerly.
func ApplyLimits(db *sql.DB, limits config.PoolLimits) {
	db.SetMaxOpenConns(limits.MaxOpen)
	db.SetMaxIdleConns(limits.MaxOpen)
	db.SetConnMaxIdleTime(limits.IdleTimeout)
}
