// Package logging holds the shared zerolog helpers: component loggers and a
// hook that lifts table and dataset identifiers out of the context.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a new logger with a component identifier under the
// "cmp" key.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// Table creates the logger for one table slot.
func Table(name string) zerolog.Logger {
	return log.With().Str("cmp", "table").Str("table", name).Logger()
}
