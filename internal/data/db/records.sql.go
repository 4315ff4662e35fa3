package db

import (
	"context"
	"database/sql"
)

const listRecords = `
SELECT dataset, row_key, position, body, created_at, updated_at
FROM records
WHERE dataset = ?
ORDER BY position, row_key
`

func scanRecord(rows *sql.Rows, r *Record) error {
	return rows.Scan(&r.Dataset, &r.RowKey, &r.Position, &r.Body, &r.CreatedAt, &r.UpdatedAt)
}

// ListRecords returns the records of a dataset in insertion order.
func (q *Queries) ListRecords(ctx context.Context, dataset string) ([]Record, error) {
	rows, err := q.db.QueryContext(ctx, listRecords, dataset)
	if err != nil {
		return nil, err
	}
	return scanRows(rows, scanRecord)
}

const getRecord = `
SELECT dataset, row_key, position, body, created_at, updated_at
FROM records
WHERE dataset = ? AND row_key = ?
`

// GetRecord returns one record. A missing record yields sql.ErrNoRows.
func (q *Queries) GetRecord(ctx context.Context, dataset, rowKey string) (Record, error) {
	var r Record
	err := q.db.QueryRowContext(ctx, getRecord, dataset, rowKey).
		Scan(&r.Dataset, &r.RowKey, &r.Position, &r.Body, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

const upsertRecord = `
INSERT INTO records (dataset, row_key, position, body, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (dataset, row_key) DO UPDATE SET
    body = excluded.body,
    updated_at = excluded.updated_at
`

// UpsertRecordParams are the values of one inserted or replaced record.
type UpsertRecordParams struct {
	Dataset   string
	RowKey    string
	Position  int64
	Body      []byte
	CreatedAt int64
	UpdatedAt int64
}

// UpsertRecord inserts a record or replaces the body of an existing one.
// An existing record keeps its position.
func (q *Queries) UpsertRecord(ctx context.Context, arg UpsertRecordParams) error {
	_, err := q.db.ExecContext(ctx, upsertRecord,
		arg.Dataset, arg.RowKey, arg.Position, arg.Body, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const updateRecordBody = `
UPDATE records SET body = ?, updated_at = ?
WHERE dataset = ? AND row_key = ?
`

// UpdateRecordBody replaces the body of an existing record and returns the
// number of rows changed.
func (q *Queries) UpdateRecordBody(ctx context.Context, dataset, rowKey string, body []byte, updatedAt int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateRecordBody, body, updatedAt, dataset, rowKey)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const nextPosition = `
SELECT COALESCE(MAX(position) + 1, 0) FROM records WHERE dataset = ?
`

// NextPosition returns the position a newly appended record receives.
func (q *Queries) NextPosition(ctx context.Context, dataset string) (int64, error) {
	var pos int64
	err := q.db.QueryRowContext(ctx, nextPosition, dataset).Scan(&pos)
	return pos, err
}

const deleteDataset = `DELETE FROM records WHERE dataset = ?`

// DeleteDataset removes every record of a dataset.
func (q *Queries) DeleteDataset(ctx context.Context, dataset string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteDataset, dataset)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listDatasets = `
SELECT dataset, COUNT(*), MAX(updated_at)
FROM records
WHERE dataset LIKE ? ESCAPE '\'
GROUP BY dataset
ORDER BY dataset
`

// ListDatasets summarizes every dataset whose name starts with prefix.
func (q *Queries) ListDatasets(ctx context.Context, prefix string) ([]DatasetSummary, error) {
	rows, err := q.db.QueryContext(ctx, listDatasets, escapeLike(prefix)+"%")
	if err != nil {
		return nil, err
	}
	return scanRows(rows, func(rows *sql.Rows, d *DatasetSummary) error {
		return rows.Scan(&d.Dataset, &d.Records, &d.UpdatedAt)
	})
}

const insertPatchLog = `
INSERT INTO patch_log (batch_id, dataset, row_key, changes, created_at)
VALUES (?, ?, ?, ?, ?)
`

// InsertPatchLogParams describe one applied patch.
type InsertPatchLogParams struct {
	BatchID   string
	Dataset   string
	RowKey    string
	Changes   []byte
	CreatedAt int64
}

// InsertPatchLog records an applied patch.
func (q *Queries) InsertPatchLog(ctx context.Context, arg InsertPatchLogParams) error {
	_, err := q.db.ExecContext(ctx, insertPatchLog,
		arg.BatchID, arg.Dataset, arg.RowKey, arg.Changes, arg.CreatedAt)
	return err
}

const listPatchLog = `
SELECT id, batch_id, dataset, row_key, changes, created_at
FROM patch_log
WHERE dataset = ?
ORDER BY id DESC
LIMIT ?
`

// ListPatchLog returns the newest applied patches of a dataset.
func (q *Queries) ListPatchLog(ctx context.Context, dataset string, limit int64) ([]PatchLog, error) {
	rows, err := q.db.QueryContext(ctx, listPatchLog, dataset, limit)
	if err != nil {
		return nil, err
	}
	return scanRows(rows, func(rows *sql.Rows, p *PatchLog) error {
		return rows.Scan(&p.ID, &p.BatchID, &p.Dataset, &p.RowKey, &p.Changes, &p.CreatedAt)
	})
}

func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
