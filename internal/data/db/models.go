package db

import "database/sql"

// Record is one row of the records table.
type Record struct {
	Dataset   string
	RowKey    string
	Position  int64
	Body      []byte
	CreatedAt int64
	UpdatedAt int64
}

// PatchLog is one applied per-record patch.
type PatchLog struct {
	ID        int64
	BatchID   string
	Dataset   string
	RowKey    string
	Changes   []byte
	CreatedAt int64
}

// DatasetSummary is a dataset key with its record count.
type DatasetSummary struct {
	Dataset   string
	Records   int64
	UpdatedAt int64
}

// Notification is one row of the notifications table.
type Notification struct {
	ID        int64
	Level     string
	Source    string
	Message   string
	CreatedAt int64
}

// KvStore is one row of the kv_store table.
type KvStore struct {
	Key       string
	Value     []byte
	ExpiresAt sql.NullInt64
	CreatedAt int64
	UpdatedAt int64
}
