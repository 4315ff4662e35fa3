package table

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/colonyops/ballotview/internal/core/merge"
	"github.com/colonyops/ballotview/internal/core/record"
)

// EditSession presents the selected records as one merged record. Edits are
// staged on a copy and never touch the underlying records; only Commit writes
// them, as per-record patches.
type EditSession struct {
	table   *Table
	key     string
	records []record.Record
	merged  record.Record
	edited  record.Record
	closed  bool
}

// BeginEdit merges the current selection into an edit session.
func (t *Table) BeginEdit() (*EditSession, error) {
	if !t.loaded {
		return nil, ErrNotLoaded
	}
	if t.pending {
		return nil, ErrEditPending
	}
	records := t.SelectedRecords()
	if len(records) == 0 {
		return nil, ErrEmptySelection
	}

	snapshot := make([]record.Record, len(records))
	for i, r := range records {
		snapshot[i] = r.Clone()
	}
	merged := merge.Merge(snapshot)
	return &EditSession{
		table:   t,
		key:     t.key,
		records: snapshot,
		merged:  merged,
		edited:  merged.Clone(),
	}, nil
}

// Records returns the snapshot of records being edited.
func (s *EditSession) Records() []record.Record {
	return s.records
}

// Merged returns the merged record as it was when the session began.
func (s *EditSession) Merged() record.Record {
	return s.merged
}

// Edited returns the merged record with the staged edits applied.
func (s *EditSession) Edited() record.Record {
	return s.edited
}

// Value returns the staged value of field.
func (s *EditSession) Value(field string) any {
	return s.edited.Get(field)
}

// IsMultiple reports whether field still differs across the records.
func (s *EditSession) IsMultiple(field string) bool {
	return merge.IsMultiple(s.edited.Get(field))
}

// Set stages a new value for field.
func (s *EditSession) Set(field string, value any) {
	s.edited[field] = value
}

// Reset discards the staged edit of field.
func (s *EditSession) Reset(field string) {
	if v, ok := s.merged[field]; ok {
		s.edited[field] = record.CloneValue(v)
		return
	}
	delete(s.edited, field)
}

// Changes returns the fields whose staged value differs from the merge.
func (s *EditSession) Changes() record.Record {
	return merge.ShallowDiff(s.merged, s.edited)
}

// Patches returns the minimal per-record patches for the staged edits.
func (s *EditSession) Patches() []merge.Patch {
	return merge.ApplyEdits(s.merged, s.edited, s.records, s.table.schema.RowKey)
}

// Cancel closes the session without writing anything.
func (s *EditSession) Cancel() {
	s.closed = true
}

// Closed reports whether the session was committed or cancelled.
func (s *EditSession) Closed() bool {
	return s.closed
}

// Submission is one outstanding patch write.
type Submission struct {
	ID      string
	Key     string
	Patches []merge.Patch
}

// BeginCommit computes the patches and marks the table pending. A session
// with no effective changes returns a submission with no patches and closes.
func (s *EditSession) BeginCommit() (Submission, error) {
	if s.closed {
		return Submission{}, errors.New("edit session closed")
	}
	t := s.table
	if t.pending {
		return Submission{}, ErrEditPending
	}

	sub := Submission{ID: uuid.NewString(), Key: s.key, Patches: s.Patches()}
	if len(sub.Patches) == 0 {
		s.closed = true
		return sub, nil
	}
	t.pending = true
	return sub, nil
}

// CompleteCommit applies the authoritative records returned for sub. On
// failure the error is reported, the table keeps its pre-edit records and the
// session stays open for a retry.
func (s *EditSession) CompleteCommit(sub Submission, records []record.Record, err error) error {
	t := s.table
	t.pending = false

	if err != nil {
		t.log.Error().Err(err).Str("batch", sub.ID).Int("patches", len(sub.Patches)).Msg("patch submission failed")
		t.reporter.Errorf("save %d %s record(s): %v", len(sub.Patches), t.schema.Name, err)
		return err
	}

	s.closed = true
	if sub.Key != t.key {
		t.log.Debug().Str("batch", sub.ID).Str("key", sub.Key).Msg("discarding patch response for inactive key")
		return nil
	}
	t.Upsert(records)
	t.log.Info().Str("batch", sub.ID).Int("patches", len(sub.Patches)).Int("records", len(records)).Msg("patches applied")
	return nil
}

// Commit submits the staged edits through the table's source.
func (s *EditSession) Commit(ctx context.Context) ([]merge.Patch, error) {
	if s.table.source == nil {
		return nil, errors.New("table has no data source")
	}
	sub, err := s.BeginCommit()
	if err != nil {
		return nil, err
	}
	if len(sub.Patches) == 0 {
		return nil, nil
	}

	records, err := s.table.source.SubmitPatch(ctx, sub.Key, sub.Patches)
	if err := s.CompleteCommit(sub, records, err); err != nil {
		return nil, fmt.Errorf("submit patches: %w", err)
	}
	return sub.Patches, nil
}

// Pending reports whether a patch submission is outstanding.
func (t *Table) Pending() bool {
	return t.pending
}
