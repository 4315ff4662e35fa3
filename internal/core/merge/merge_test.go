package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/ballotview/internal/core/record"
)

func byID(r record.Record) string {
	return record.String(r.Get("id"))
}

func TestMerge(t *testing.T) {
	t.Run("disagreeing field becomes multiple", func(t *testing.T) {
		got := Merge([]record.Record{
			{"A": 1.0, "B": "x"},
			{"A": 1.0, "B": "y"},
		})
		assert.Equal(t, 1.0, got["A"])
		assert.True(t, IsMultiple(got["B"]))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Merge(nil))
	})

	t.Run("single record is a deep copy", func(t *testing.T) {
		in := record.Record{"A": 1.0, "Tags": []any{"a"}, "Meta": map[string]any{"k": "v"}}
		got := Merge([]record.Record{in})
		assert.Equal(t, in, got)

		got["Tags"].([]any)[0] = "changed"
		got["Meta"].(map[string]any)["k"] = "changed"
		assert.Equal(t, "a", in["Tags"].([]any)[0])
		assert.Equal(t, "v", in["Meta"].(map[string]any)["k"])
	})

	t.Run("arrays merge element-wise", func(t *testing.T) {
		got := Merge([]record.Record{
			{"Tags": []any{"a", "b"}},
			{"Tags": []any{"a", "c"}},
		})
		tags := got["Tags"].([]any)
		require.Len(t, tags, 2)
		assert.Equal(t, "a", tags[0])
		assert.True(t, IsMultiple(tags[1]))
	})

	t.Run("arrays of different length are multiple", func(t *testing.T) {
		got := Merge([]record.Record{
			{"Tags": []any{"a"}},
			{"Tags": []any{"a", "b"}},
		})
		assert.True(t, IsMultiple(got["Tags"]))
	})

	t.Run("nested objects merge per key", func(t *testing.T) {
		got := Merge([]record.Record{
			{"Meta": map[string]any{"k": "v", "n": 1.0, "only": true}},
			{"Meta": map[string]any{"k": "v", "n": 2.0}},
		})
		meta := got["Meta"].(map[string]any)
		assert.Equal(t, "v", meta["k"])
		assert.True(t, IsMultiple(meta["n"]))
		assert.Equal(t, true, meta["only"])
	})

	t.Run("object against scalar is multiple", func(t *testing.T) {
		got := Merge([]record.Record{
			{"Meta": map[string]any{"k": "v"}},
			{"Meta": "flat"},
		})
		assert.True(t, IsMultiple(got["Meta"]))
	})

	t.Run("field on one side only carries over", func(t *testing.T) {
		got := Merge([]record.Record{{"A": 1.0}, {"B": 2.0}})
		assert.Equal(t, record.Record{"A": 1.0, "B": 2.0}, got)
	})

	t.Run("numbers of different go types agree", func(t *testing.T) {
		got := Merge([]record.Record{{"A": 1}, {"A": 1.0}})
		assert.False(t, IsMultiple(got["A"]))
	})
}

func TestApplyEdits(t *testing.T) {
	records := []record.Record{
		{"id": "r1", "A": 1.0, "B": "x"},
		{"id": "r2", "A": 1.0, "B": "y"},
	}

	t.Run("edit of a multiple field patches every record", func(t *testing.T) {
		original := Merge(records)
		edited := original.Clone()
		edited["B"] = "z"

		patches := ApplyEdits(original, edited, records, byID)
		assert.Equal(t, []Patch{
			{ID: "r1", Changes: record.Record{"B": "z"}},
			{ID: "r2", Changes: record.Record{"B": "z"}},
		}, patches)
	})

	t.Run("no edits gives no patches", func(t *testing.T) {
		original := Merge(records)
		assert.Empty(t, ApplyEdits(original, original.Clone(), records, byID))
	})

	t.Run("records already holding the value are skipped", func(t *testing.T) {
		original := Merge(records)
		edited := original.Clone()
		edited["B"] = "x"

		patches := ApplyEdits(original, edited, records, byID)
		assert.Equal(t, []Patch{{ID: "r2", Changes: record.Record{"B": "x"}}}, patches)
	})

	t.Run("untouched multiple fields are left alone", func(t *testing.T) {
		original := Merge(records)
		edited := original.Clone()
		edited["A"] = 2.0

		patches := ApplyEdits(original, edited, records, byID)
		require.Len(t, patches, 2)
		for _, p := range patches {
			assert.Equal(t, record.Record{"A": 2.0}, p.Changes)
		}
	})

	t.Run("partial nested edit keeps each record's own values", func(t *testing.T) {
		recs := []record.Record{
			{"id": "r1", "Tags": []any{"a", "b"}},
			{"id": "r2", "Tags": []any{"a", "c"}},
		}
		original := Merge(recs)
		edited := original.Clone()
		edited["Tags"] = []any{"z", Multiple}

		patches := ApplyEdits(original, edited, recs, byID)
		assert.Equal(t, []Patch{
			{ID: "r1", Changes: record.Record{"Tags": []any{"z", "b"}}},
			{ID: "r2", Changes: record.Record{"Tags": []any{"z", "c"}}},
		}, patches)
	})

	t.Run("single record round trip", func(t *testing.T) {
		one := []record.Record{{"id": "r1", "A": 1.0, "Meta": map[string]any{"k": "v"}}}
		original := Merge(one)
		edited := original.Clone()
		edited["Meta"] = map[string]any{"k": "w"}

		patches := ApplyEdits(original, edited, one, byID)
		require.Len(t, patches, 1)

		applied := Apply(one[0], patches[0])
		assert.Equal(t, record.Record{"id": "r1", "A": 1.0, "Meta": map[string]any{"k": "w"}}, applied)
		assert.Equal(t, "v", one[0]["Meta"].(map[string]any)["k"])
	})
}

func TestApplyEdits_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		a, b record.Record
		edit func(record.Record)
	}{
		{
			name: "scalar on a multiple field",
			a:    record.Record{"id": "r1", "A": 1.0, "B": "x"},
			b:    record.Record{"id": "r2", "A": 1.0, "B": "y"},
			edit: func(m record.Record) { m["B"] = "z" },
		},
		{
			name: "scalar on an agreeing field",
			a:    record.Record{"id": "r1", "A": 1.0, "B": "x"},
			b:    record.Record{"id": "r2", "A": 1.0, "B": "y"},
			edit: func(m record.Record) { m["A"] = 2.0 },
		},
		{
			name: "partial array edit",
			a:    record.Record{"id": "r1", "Tags": []any{"a", "b"}},
			b:    record.Record{"id": "r2", "Tags": []any{"a", "c"}},
			edit: func(m record.Record) { m["Tags"] = []any{"z", Multiple} },
		},
		{
			name: "partial object edit",
			a:    record.Record{"id": "r1", "Meta": map[string]any{"k": "v", "n": 1.0}},
			b:    record.Record{"id": "r2", "Meta": map[string]any{"k": "v", "n": 2.0}},
			edit: func(m record.Record) { m["Meta"] = map[string]any{"k": "w", "n": Multiple} },
		},
		{
			name: "new field",
			a:    record.Record{"id": "r1", "A": 1.0},
			b:    record.Record{"id": "r2", "A": 2.0},
			edit: func(m record.Record) { m["Note"] = "checked" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []record.Record{tt.a, tt.b}
			original := Merge(records)
			edited := original.Clone()
			tt.edit(edited)

			patches := ApplyEdits(original, edited, records, byID)
			require.NotEmpty(t, patches)

			byPatch := make(map[string]Patch, len(patches))
			for _, p := range patches {
				byPatch[p.ID] = p
			}
			applied := make([]record.Record, len(records))
			for i, r := range records {
				applied[i] = r
				if p, ok := byPatch[byID(r)]; ok {
					applied[i] = Apply(r, p)
				}
			}

			assert.Equal(t, edited, Merge(applied))
		})
	}
}

func TestShallowDiff(t *testing.T) {
	diff := ShallowDiff(
		record.Record{"A": 1.0, "B": "x"},
		record.Record{"A": 1, "B": "y", "C": true},
	)
	assert.Equal(t, record.Record{"B": "y", "C": true}, diff)
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "own", Resolve(Multiple, "own"))
	assert.Equal(t, "new", Resolve("new", "own"))
	assert.Equal(t,
		map[string]any{"k": "own", "n": 2.0},
		Resolve(map[string]any{"k": Multiple, "n": 2.0}, map[string]any{"k": "own", "n": 1.0}),
	)
}
