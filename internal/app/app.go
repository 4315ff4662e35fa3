// Package app wires the configuration, database, stores and notification bus
// into the handles that commands and the terminal browser consume.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/colonyops/ballotview/internal/core/config"
	"github.com/colonyops/ballotview/internal/core/kv"
	"github.com/colonyops/ballotview/internal/core/logging"
	"github.com/colonyops/ballotview/internal/core/record"
	"github.com/colonyops/ballotview/internal/core/table"
	"github.com/colonyops/ballotview/internal/data/db"
	"github.com/colonyops/ballotview/internal/data/stores"
	"github.com/colonyops/ballotview/internal/notify"
)

// App is the central entry point for ballotview operations. Commands and
// the TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Config        *config.Config
	DB            *db.DB
	KV            *stores.KVStore
	Notifications *stores.NotifyStore
	Bus           *notify.Bus

	prefs  *kv.TypedKV[Prefs]
	recent *kv.TypedKV[string]
	log    zerolog.Logger
}

// New constructs an App over an open database.
func New(cfg *config.Config, database *db.DB) *App {
	kvStore := stores.NewKVStore(database)
	notifyStore := stores.NewNotifyStore(database)

	return &App{
		Config:        cfg,
		DB:            database,
		KV:            kvStore,
		Notifications: notifyStore,
		Bus:           notify.NewBus(notifyStore),
		prefs:         kv.Scoped[Prefs](kvStore, "prefs"),
		recent:        kv.Scoped[string](kvStore, "recent"),
		log:           logging.Component("app"),
	}
}

// OpenDB opens the database in the configured data directory. A database
// that fails to open because it is corrupt is moved aside and recreated.
func OpenDB(cfg *config.Config) (*db.DB, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	opts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}

	database, err := db.Open(cfg.DataDir, opts)
	if err == nil {
		return database, nil
	}
	if !stores.IsCorruptionError(err) {
		return nil, fmt.Errorf("open database: %w", err)
	}

	backup, rerr := stores.RecoverFromCorruption(cfg.DataDir)
	if rerr != nil {
		return nil, errors.Join(fmt.Errorf("open database: %w", err), rerr)
	}
	log := logging.Component("app")
	log.Warn().
		Err(err).
		Str("backup", backup).
		Msg("database was corrupt, moved aside and recreated")

	database, err = db.Open(cfg.DataDir, opts)
	if err != nil {
		return nil, fmt.Errorf("open database after recovery: %w", err)
	}
	return database, nil
}

// Close closes the database.
func (a *App) Close() error {
	return a.DB.Close()
}

// Handle bundles everything needed to work with one configured table.
type Handle struct {
	Name   string
	Config config.TableConfig
	Schema record.Schema
	Store  *stores.RecordStore
	Table  *table.Table
}

// Records returns the record store of the named table without building a
// table slot.
func (a *App) Records(name string) (*stores.RecordStore, record.Schema, error) {
	tc, err := a.Config.Table(name)
	if err != nil {
		return nil, record.Schema{}, err
	}
	schema := tc.Schema(name)
	return stores.NewRecordStore(a.DB, schema), schema, nil
}

// OpenTable builds the table slot for name. Failures inside the slot are
// published on the bus under the table name.
func (a *App) OpenTable(name string) (*Handle, error) {
	tc, err := a.Config.Table(name)
	if err != nil {
		return nil, err
	}
	schema := tc.Schema(name)
	store := stores.NewRecordStore(a.DB, schema)

	t := table.New(table.Options{
		Schema:   schema,
		Kinds:    tc.Kinds(),
		Source:   store,
		Reporter: a.Bus.For(name),
		Logger:   logging.Table(name),
	})

	return &Handle{
		Name:   name,
		Config: tc,
		Schema: schema,
		Store:  store,
		Table:  t,
	}, nil
}

// OpenView opens the named table, restores its saved sort and filters and
// loads the dataset for key.
func (a *App) OpenView(ctx context.Context, name, key string) (*Handle, Prefs, error) {
	h, err := a.OpenTable(name)
	if err != nil {
		return nil, Prefs{}, err
	}

	prefs, err := a.LoadPrefs(ctx, name)
	if err != nil {
		a.log.Warn().Err(err).Str("table", name).Msg("failed to load view preferences")
	}
	h.Table.Restore(prefs.View)

	if err := h.Table.Load(ctx, key); err != nil {
		return nil, prefs, err
	}
	a.Remember(ctx, name, key)
	return h, prefs, nil
}
