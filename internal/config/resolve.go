package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/joao-brasil/stock-overview/internal/address"
)

// Defaults used when neither the environment nor the composite address
// provides a value.
const (
	DefaultAddress  = `192.168.1.10,1433\WEAVER`
	DefaultServer   = "192.168.1.10"
	DefaultUser     = "sa"
	DefaultDatabase = "wms3"
)

// PoolLimits are the fixed sizing parameters of the shared connection pool.
type PoolLimits struct {
	MaxOpen     int
	MinIdle     int
	IdleTimeout time.Duration
}

// DefaultPoolLimits is applied to every resolved configuration.
var DefaultPoolLimits = PoolLimits{
	MaxOpen:     10,
	MinIdle:     0,
	IdleTimeout: 30 * time.Second,
}

// DefaultConnectTimeout bounds a single pool-creation attempt.
const DefaultConnectTimeout = 15 * time.Second

// ConnectionConfig is the fully resolved SQL Server connection setting.
// Port and InstanceName are never both set.
type ConnectionConfig struct {
	User                   string
	Password               string
	Server                 string
	Database               string
	Port                   int
	InstanceName           string
	Encrypt                bool
	TrustServerCertificate bool
	Pool                   PoolLimits
	ConnectTimeout         time.Duration
}

// Resolve merges environment overrides, the composite SQL_SERVER address and
// hardcoded defaults into one ConnectionConfig. Per field the precedence is
// override, then parsed address, then default.
func Resolve(env Lookup) ConnectionConfig {
	raw := lookupOr(env, "SQL_SERVER", DefaultAddress)
	parsed := address.Parse(raw)
	if parsed.InvalidPort != "" {
		log.Warn().
			Str("component", "config").
			Str("address", raw).
			Str("port", parsed.InvalidPort).
			Msg("ignoring non-numeric port in SQL_SERVER")
	}

	encrypt, _ := env("SQL_ENCRYPT")
	trust, _ := env("SQL_TRUST_CERT")

	cfg := ConnectionConfig{
		User:                   lookupOr(env, "SQL_USER", DefaultUser),
		Password:               lookupOr(env, "SQL_PASSWORD", ""),
		Server:                 firstNonEmpty(lookupOr(env, "SQL_HOST", ""), parsed.Server, DefaultServer),
		Database:               lookupOr(env, "SQL_DATABASE", DefaultDatabase),
		Encrypt:                encrypt == "true",
		TrustServerCertificate: trust != "false",
		Pool:                   DefaultPoolLimits,
		ConnectTimeout:         DefaultConnectTimeout,
	}

	instance := firstNonEmpty(lookupOr(env, "SQL_INSTANCE", ""), parsed.InstanceName)
	cfg.Port, cfg.InstanceName = resolvePortAndInstance(explicitPort(env), parsed.Port, instance)

	return cfg
}

// resolvePortAndInstance applies the exclusivity rule: an explicit port wins
// and drops any instance; a parsed port is only used without an instance.
func resolvePortAndInstance(explicit, parsed int, instance string) (int, string) {
	switch {
	case explicit > 0:
		return explicit, ""
	case parsed > 0 && instance == "":
		return parsed, ""
	default:
		return 0, instance
	}
}

// explicitPort returns the SQL_PORT override, or 0 when unset or unusable.
func explicitPort(env Lookup) int {
	v, ok := env("SQL_PORT")
	if !ok || v == "" {
		return 0
	}
	port, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || port <= 0 {
		log.Warn().
			Str("component", "config").
			Str("SQL_PORT", v).
			Msg("ignoring invalid SQL_PORT")
		return 0
	}
	return port
}

// lookupOr returns the non-empty value for key or def.
func lookupOr(env Lookup, key, def string) string {
	if v, ok := env(key); ok && v != "" {
		return v
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
