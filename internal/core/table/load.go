package table

import (
	"context"
	"errors"
	"fmt"

	"github.com/colonyops/ballotview/internal/core/record"
)

// Request identifies one outstanding dataset fetch.
type Request struct {
	Key string
	Seq uint64
}

// BeginLoad starts a fetch for key. Switching to a different key clears the
// dataset, selection and expansion immediately; reloading the same key keeps
// them until the response arrives. Only the most recent request is accepted
// by CompleteLoad.
func (t *Table) BeginLoad(key string) Request {
	if key != t.key {
		t.log.Debug().Str("from", t.key).Str("to", key).Msg("switching dataset key")
		t.reset(key)
	}
	t.seq++
	t.inflight = Request{Key: key, Seq: t.seq}
	return t.inflight
}

// Loading reports whether a fetch is outstanding.
func (t *Table) Loading() bool {
	return t.inflight.Seq != 0
}

// CompleteLoad applies the response to req. Responses to superseded requests
// are discarded and report false. A failed fetch is reported and leaves the
// current state untouched.
func (t *Table) CompleteLoad(req Request, records []record.Record, err error) bool {
	if req != t.inflight {
		t.log.Debug().
			Str("key", req.Key).
			Uint64("seq", req.Seq).
			Uint64("current", t.inflight.Seq).
			Msg("discarding stale dataset response")
		return false
	}
	t.inflight = Request{}

	if err != nil {
		t.log.Error().Err(err).Str("key", req.Key).Msg("dataset fetch failed")
		t.reporter.Errorf("load %s %s: %v", t.schema.Name, req.Key, err)
		return false
	}

	if err := t.schema.Check(records); err != nil {
		t.log.Warn().Err(err).Str("key", req.Key).Msg("dataset contains records with invalid identity")
	}

	t.ReplaceDataset(records)
	t.log.Info().Str("key", req.Key).Int("records", len(records)).Msg("dataset loaded")
	return true
}

// Load fetches key through the source and applies the result.
func (t *Table) Load(ctx context.Context, key string) error {
	if t.source == nil {
		return errors.New("table has no data source")
	}
	req := t.BeginLoad(key)
	records, err := t.source.FetchDataset(ctx, key)
	if !t.CompleteLoad(req, records, err) && err != nil {
		return fmt.Errorf("fetch dataset %q: %w", key, err)
	}
	return nil
}
