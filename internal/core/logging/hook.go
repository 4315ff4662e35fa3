package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies the table, dataset and batch values of an event's
// context onto the event.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if table := GetTable(ctx); table != "" {
		e.Str("table", table)
	}
	if key := GetDataset(ctx); key != "" {
		e.Str("dataset", key)
	}
	if batch := GetBatch(ctx); batch != "" {
		e.Str("batch", batch)
	}
}
