package stores

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/ballotview/internal/core/logging"
	"github.com/colonyops/ballotview/internal/core/merge"
	"github.com/colonyops/ballotview/internal/core/record"
	"github.com/colonyops/ballotview/internal/data/db"
)

func commentSchema() record.Schema {
	return record.Schema{
		Name:        "comments",
		IdentityKey: "CID",
		Composite:   &record.Composite{ParentField: "CID", SubField: "ResolutionID"},
		Types:       record.TypeMap{"CID": record.TypeNumeric},
	}
}

func seedComments(t *testing.T, store *RecordStore) {
	t.Helper()
	_, err := store.Import(context.Background(), "B1", []record.Record{
		{"CID": 10.0, "ResolutionID": "", "Status": "Open"},
		{"CID": 11.0, "ResolutionID": "1", "Status": "Open"},
		{"CID": 11.0, "ResolutionID": "2", "Status": "Closed"},
	}, false)
	require.NoError(t, err)
}

func TestRecordStore_ImportAndFetch(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore(openTestDB(t), commentSchema())
	seedComments(t, store)

	got, err := store.FetchDataset(ctx, "B1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 10.0, got[0]["CID"])
	assert.Equal(t, "2", got[2]["ResolutionID"])

	t.Run("unknown key is empty", func(t *testing.T) {
		got, err := store.FetchDataset(ctx, "B404")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("reimport upserts by row key", func(t *testing.T) {
		res, err := store.Import(ctx, "B1", []record.Record{
			{"CID": 11.0, "ResolutionID": "2", "Status": "Reopened"},
			{"CID": 12.0, "ResolutionID": "", "Status": "Open"},
		}, false)
		require.NoError(t, err)
		assert.Equal(t, ImportResult{Inserted: 1, Updated: 1}, res)

		got, err := store.FetchDataset(ctx, "B1")
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.Equal(t, "Reopened", got[2]["Status"])
		assert.Equal(t, 12.0, got[3]["CID"])
	})

	t.Run("replace drops records missing from the import", func(t *testing.T) {
		res, err := store.Import(ctx, "B1", []record.Record{
			{"CID": 10.0, "ResolutionID": "", "Status": "Open"},
		}, true)
		require.NoError(t, err)
		assert.Equal(t, ImportResult{Inserted: 1, Removed: 4}, res)

		got, err := store.FetchDataset(ctx, "B1")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("records without identity are rejected", func(t *testing.T) {
		_, err := store.Import(ctx, "B1", []record.Record{{"Status": "Open"}}, false)
		assert.ErrorIs(t, err, record.ErrMissingIdentity)
	})

	t.Run("duplicate row keys are rejected", func(t *testing.T) {
		_, err := store.Import(ctx, "B2", []record.Record{
			{"CID": 1.0, "ResolutionID": ""},
			{"CID": 1.0, "ResolutionID": ""},
		}, false)
		require.Error(t, err)

		got, err := store.FetchDataset(ctx, "B2")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("missing sub id beside a sibling is rejected", func(t *testing.T) {
		_, err := store.Import(ctx, "B3", []record.Record{
			{"CID": 4.0, "ResolutionID": ""},
			{"CID": 4.0, "ResolutionID": "2"},
		}, false)
		assert.ErrorIs(t, err, record.ErrAmbiguousIdentity)
	})
}

func TestRecordStore_SubmitPatch(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore(openTestDB(t), commentSchema())
	seedComments(t, store)

	ctx = logging.WithBatch(ctx, "batch-1")
	updated, err := store.SubmitPatch(ctx, "B1", []merge.Patch{
		{ID: "10", Changes: record.Record{"Status": "Done"}},
		{ID: "11.2", Changes: record.Record{"Status": "Done", "Notes": []any{"a"}}},
	})
	require.NoError(t, err)
	require.Len(t, updated, 2)
	assert.Equal(t, "Done", updated[0]["Status"])
	assert.Equal(t, []any{"a"}, updated[1]["Notes"])

	got, err := store.FetchDataset(ctx, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Done", got[0]["Status"])
	assert.Equal(t, "Open", got[1]["Status"])
	assert.Equal(t, "Done", got[2]["Status"])

	history, err := store.History(ctx, "B1", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "11.2", history[0].RowKey)
	assert.Equal(t, "batch-1", history[0].BatchID)
	assert.Equal(t, record.Record{"Status": "Done"}, history[1].Changes)
}

func TestRecordStore_SubmitPatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore(openTestDB(t), commentSchema())
	seedComments(t, store)

	_, err := store.SubmitPatch(ctx, "B1", []merge.Patch{
		{ID: "10", Changes: record.Record{"Status": "Done"}},
		{ID: "99", Changes: record.Record{"Status": "Done"}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRecordNotFound))
	assert.True(t, IsNotFoundError(err))

	got, err := store.FetchDataset(ctx, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Open", got[0]["Status"])

	history, err := store.History(ctx, "B1", 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRecordStore_PatchCannotChangeIdentity(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore(openTestDB(t), commentSchema())
	seedComments(t, store)

	_, err := store.SubmitPatch(ctx, "B1", []merge.Patch{
		{ID: "10", Changes: record.Record{"CID": 77.0}},
	})
	require.Error(t, err)
}

func TestRecordStore_Datasets(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	comments := NewRecordStore(database, commentSchema())
	seedComments(t, comments)

	voters := NewRecordStore(database, record.Schema{Name: "voters", IdentityKey: "SAPIN"})
	_, err := voters.Import(ctx, "all", []record.Record{{"SAPIN": 1.0}}, false)
	require.NoError(t, err)

	infos, err := comments.Datasets(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "B1", infos[0].Key)
	assert.Equal(t, int64(3), infos[0].Records)
	assert.False(t, infos[0].UpdatedAt.IsZero())
}

func TestRecoverFromCorruption(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, db.FileName)
	require.NoError(t, os.WriteFile(dbPath, []byte("garbage"), 0o644))
	require.NoError(t, os.WriteFile(dbPath+"-wal", []byte("wal"), 0o644))

	backup, err := RecoverFromCorruption(dir)
	require.NoError(t, err)

	assert.NoFileExists(t, dbPath)
	assert.NoFileExists(t, dbPath+"-wal")
	assert.FileExists(t, backup)
	assert.FileExists(t, backup+"-wal")

	database, err := db.Open(dir, db.DefaultOpenOptions())
	require.NoError(t, err)
	require.NoError(t, database.Close())
}

func TestIsNotFoundError(t *testing.T) {
	assert.False(t, IsNotFoundError(nil))
	assert.False(t, IsNotFoundError(errors.New("other")))
	assert.True(t, IsNotFoundError(ErrRecordNotFound))
	assert.False(t, IsBusyError(errors.New("other")))
	assert.True(t, IsCorruptionError(errors.New("file is not a database")))
}
