package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/ballotview/internal/core/logging"
	"github.com/colonyops/ballotview/internal/core/merge"
	"github.com/colonyops/ballotview/internal/core/record"
	"github.com/colonyops/ballotview/internal/core/table"
	"github.com/colonyops/ballotview/internal/data/db"
)

// RecordStore keeps the datasets of one table in SQLite. Each owning key
// (a ballot id, or "all" for unscoped tables) is a separate dataset.
type RecordStore struct {
	db     *db.DB
	schema record.Schema
	log    zerolog.Logger
	now    func() time.Time
}

var _ table.Source = (*RecordStore)(nil)

// NewRecordStore creates the store for the table described by schema.
func NewRecordStore(db *db.DB, schema record.Schema) *RecordStore {
	return &RecordStore{
		db:     db,
		schema: schema,
		log:    logging.Component("recordstore").With().Str("table", schema.Name).Logger(),
		now:    time.Now,
	}
}

// DatasetInfo summarizes one stored dataset.
type DatasetInfo struct {
	Key       string
	Records   int64
	UpdatedAt time.Time
}

// ImportResult counts what an import changed.
type ImportResult struct {
	Inserted int
	Updated  int
	Removed  int
}

// PatchEntry is one applied patch from the history.
type PatchEntry struct {
	BatchID   string
	RowKey    string
	Changes   record.Record
	CreatedAt time.Time
}

func (s *RecordStore) dataset(key string) string {
	return s.schema.Name + "/" + key
}

// FetchDataset returns every record stored under key in import order. An
// unknown key is an empty dataset.
func (s *RecordStore) FetchDataset(ctx context.Context, key string) ([]record.Record, error) {
	rows, err := s.db.Queries().ListRecords(ctx, s.dataset(key))
	if err != nil {
		return nil, fmt.Errorf("list %s records: %w", s.dataset(key), err)
	}

	out := make([]record.Record, 0, len(rows))
	for _, row := range rows {
		r, err := decode(row.Body)
		if err != nil {
			return nil, fmt.Errorf("decode record %s: %w", row.RowKey, err)
		}
		out = append(out, r)
	}

	s.log.Debug().Ctx(ctx).Str("key", key).Int("records", len(out)).Msg("fetched dataset")
	return out, nil
}

// SubmitPatch applies every patch in one transaction and returns the updated
// records. If any patch targets a missing record nothing is written and the
// error wraps ErrRecordNotFound. Each applied patch is appended to the patch
// log under one batch id.
func (s *RecordStore) SubmitPatch(ctx context.Context, key string, patches []merge.Patch) ([]record.Record, error) {
	if len(patches) == 0 {
		return nil, nil
	}

	batch := logging.GetBatch(ctx)
	if batch == "" {
		batch = uuid.NewString()
	}
	dataset := s.dataset(key)
	now := s.now().UnixNano()

	updated := make([]record.Record, 0, len(patches))
	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		for _, p := range patches {
			row, err := q.GetRecord(ctx, dataset, p.ID)
			if IsNotFoundError(err) {
				return fmt.Errorf("%s %s: %w", dataset, p.ID, ErrRecordNotFound)
			}
			if err != nil {
				return fmt.Errorf("get %s: %w", p.ID, err)
			}

			current, err := decode(row.Body)
			if err != nil {
				return fmt.Errorf("decode record %s: %w", p.ID, err)
			}
			next := merge.Apply(current, p)

			if rk := s.schema.RowKey(next); rk != p.ID {
				return fmt.Errorf("patch of %s changes its identity to %q", p.ID, rk)
			}

			body, err := json.Marshal(next)
			if err != nil {
				return fmt.Errorf("encode record %s: %w", p.ID, err)
			}
			if _, err := q.UpdateRecordBody(ctx, dataset, p.ID, body, now); err != nil {
				return fmt.Errorf("update %s: %w", p.ID, err)
			}

			changes, err := json.Marshal(p.Changes)
			if err != nil {
				return fmt.Errorf("encode changes %s: %w", p.ID, err)
			}
			if err := q.InsertPatchLog(ctx, db.InsertPatchLogParams{
				BatchID:   batch,
				Dataset:   dataset,
				RowKey:    p.ID,
				Changes:   changes,
				CreatedAt: now,
			}); err != nil {
				return fmt.Errorf("log patch %s: %w", p.ID, err)
			}

			// round-trip so callers see the same value shapes a fetch returns
			stored, err := decode(body)
			if err != nil {
				return err
			}
			updated = append(updated, stored)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Ctx(ctx).Str("key", key).Str("batch", batch).Int("patches", len(patches)).Msg("patches applied")
	return updated, nil
}

// Import upserts records into the dataset of key by row key. New records are
// appended after the existing ones. With replace set, records missing from
// the import are removed first.
func (s *RecordStore) Import(ctx context.Context, key string, records []record.Record, replace bool) (ImportResult, error) {
	if err := s.schema.Check(records); err != nil {
		return ImportResult{}, err
	}

	var res ImportResult
	dataset := s.dataset(key)
	now := s.now().UnixNano()

	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		if replace {
			n, err := q.DeleteDataset(ctx, dataset)
			if err != nil {
				return fmt.Errorf("clear %s: %w", dataset, err)
			}
			res.Removed = int(n)
		}

		pos, err := q.NextPosition(ctx, dataset)
		if err != nil {
			return fmt.Errorf("next position: %w", err)
		}

		seen := make(map[string]bool, len(records))
		for _, r := range records {
			rk := s.schema.RowKey(r)
			if seen[rk] {
				return fmt.Errorf("duplicate row key %q in import", rk)
			}
			seen[rk] = true

			body, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("encode record %s: %w", rk, err)
			}

			_, err = q.GetRecord(ctx, dataset, rk)
			switch {
			case err == nil:
				res.Updated++
			case IsNotFoundError(err):
				res.Inserted++
			default:
				return fmt.Errorf("get %s: %w", rk, err)
			}

			if err := q.UpsertRecord(ctx, db.UpsertRecordParams{
				Dataset:   dataset,
				RowKey:    rk,
				Position:  pos,
				Body:      body,
				CreatedAt: now,
				UpdatedAt: now,
			}); err != nil {
				return fmt.Errorf("upsert %s: %w", rk, err)
			}
			pos++
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	if replace {
		res.Updated, res.Inserted = 0, res.Updated+res.Inserted
	}

	s.log.Info().Ctx(ctx).
		Str("key", key).
		Int("inserted", res.Inserted).
		Int("updated", res.Updated).
		Int("removed", res.Removed).
		Msg("dataset imported")
	return res, nil
}

// Datasets lists the stored datasets of the table.
func (s *RecordStore) Datasets(ctx context.Context) ([]DatasetInfo, error) {
	prefix := s.schema.Name + "/"
	rows, err := s.db.Queries().ListDatasets(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}

	out := make([]DatasetInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, DatasetInfo{
			Key:       strings.TrimPrefix(row.Dataset, prefix),
			Records:   row.Records,
			UpdatedAt: time.Unix(0, row.UpdatedAt),
		})
	}
	return out, nil
}

// History returns the newest applied patches of the dataset of key.
func (s *RecordStore) History(ctx context.Context, key string, limit int) ([]PatchEntry, error) {
	rows, err := s.db.Queries().ListPatchLog(ctx, s.dataset(key), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list patch log: %w", err)
	}

	out := make([]PatchEntry, 0, len(rows))
	for _, row := range rows {
		changes, err := decode(row.Changes)
		if err != nil {
			return nil, fmt.Errorf("decode patch %d: %w", row.ID, err)
		}
		out = append(out, PatchEntry{
			BatchID:   row.BatchID,
			RowKey:    row.RowKey,
			Changes:   changes,
			CreatedAt: time.Unix(0, row.CreatedAt),
		})
	}
	return out, nil
}

func decode(body []byte) (record.Record, error) {
	var r record.Record
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, err
	}
	if r == nil {
		r = record.Record{}
	}
	return r, nil
}
