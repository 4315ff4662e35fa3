package app

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/ballotview/internal/core/table"
)

// recentTTL bounds how long the last opened dataset key of a table is
// remembered.
const recentTTL = 30 * 24 * time.Hour

// Prefs are the per-table view preferences kept between runs.
type Prefs struct {
	View    table.ViewState `json:"view"`
	Widths  map[string]int  `json:"widths,omitempty"`
	Stacked *bool           `json:"stacked,omitempty"`
}

// LoadPrefs returns the saved preferences of a table, or zero Prefs when
// none were saved.
func (a *App) LoadPrefs(ctx context.Context, name string) (Prefs, error) {
	p, _, err := a.prefs.Lookup(ctx, name)
	if err != nil {
		return Prefs{}, fmt.Errorf("load prefs for %s: %w", name, err)
	}
	return p, nil
}

// SavePrefs stores the preferences of a table.
func (a *App) SavePrefs(ctx context.Context, name string, p Prefs) error {
	if err := a.prefs.Set(ctx, name, p); err != nil {
		return fmt.Errorf("save prefs for %s: %w", name, err)
	}
	return nil
}

// ResetPrefs forgets the preferences of a table.
func (a *App) ResetPrefs(ctx context.Context, name string) error {
	return a.prefs.Delete(ctx, name)
}

// Remember records key as the last dataset opened for a table. Failures are
// logged only.
func (a *App) Remember(ctx context.Context, name, key string) {
	if err := a.recent.SetTTL(ctx, name, key, recentTTL); err != nil {
		a.log.Debug().Err(err).Str("table", name).Msg("failed to remember dataset key")
	}
}

// LastKey returns the dataset key last opened for a table.
func (a *App) LastKey(ctx context.Context, name string) (string, bool) {
	key, ok, err := a.recent.Lookup(ctx, name)
	if err != nil {
		a.log.Debug().Err(err).Str("table", name).Msg("failed to read last dataset key")
		return "", false
	}
	return key, ok
}
