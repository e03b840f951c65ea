// Package main is the entrypoint for the stock overview API. It loads the
// configuration, wires the lazily-connected SQL Server pool, the optional
// Redis cache and the HTTP facade, and handles graceful shutdown.
package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("stock-overview exited with error")
		os.Exit(1)
	}
}
