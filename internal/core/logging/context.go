package logging

import "context"

type contextKey string

const (
	tableKey   contextKey = "table"
	datasetKey contextKey = "dataset"
	batchKey   contextKey = "batch"
)

// WithTable adds a table name to the context.
func WithTable(ctx context.Context, table string) context.Context {
	return context.WithValue(ctx, tableKey, table)
}

// WithDataset adds the owning key of a dataset (e.g. a ballot id) to the context.
func WithDataset(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, datasetKey, key)
}

// WithBatch adds a patch batch id to the context.
func WithBatch(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, batchKey, id)
}

// GetTable retrieves the table name from the context.
// Returns empty string if not present.
func GetTable(ctx context.Context) string {
	return value(ctx, tableKey)
}

// GetDataset retrieves the dataset key from the context.
// Returns empty string if not present.
func GetDataset(ctx context.Context) string {
	return value(ctx, datasetKey)
}

// GetBatch retrieves the patch batch id from the context.
func GetBatch(ctx context.Context) string {
	return value(ctx, batchKey)
}

func value(ctx context.Context, key contextKey) string {
	if id, ok := ctx.Value(key).(string); ok {
		return id
	}
	return ""
}
