package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/ballotview/internal/core/record"
)

func TestCompile_Exact(t *testing.T) {
	t.Run("strict equality", func(t *testing.T) {
		fv := Compile("Status", "Open", Exact)
		require.True(t, fv.Valid)
		assert.True(t, fv.Match("Open"))
		assert.False(t, fv.Match("open"))
		assert.False(t, fv.Match("Open "))
	})

	t.Run("numbers do not equal strings", func(t *testing.T) {
		fv := Compile("CID", 12.0, Exact)
		assert.True(t, fv.Match(12))
		assert.False(t, fv.Match("12"))
	})

	t.Run("falsy raw matches any falsy value", func(t *testing.T) {
		fv := Compile("Assignee", "", Exact)
		assert.True(t, fv.Match(nil))
		assert.True(t, fv.Match(""))
		assert.True(t, fv.Match(0.0))
		assert.True(t, fv.Match(false))
		assert.False(t, fv.Match("bob"))
	})
}

func TestCompile_Contains(t *testing.T) {
	fv := Compile("Comment", "TyPo", Contains)
	assert.True(t, fv.Match("fix the typo here"))
	assert.True(t, fv.Match("TYPOGRAPHY"))
	assert.False(t, fv.Match("spelling"))
	assert.False(t, fv.Match(nil))
}

func TestCompile_Regex(t *testing.T) {
	t.Run("slash form with flags", func(t *testing.T) {
		fv := Compile("Comment", "/^fix/i", Regex)
		require.True(t, fv.Valid)
		assert.True(t, fv.Match("Fix it"))
		assert.False(t, fv.Match("please fix"))
	})

	t.Run("bare pattern", func(t *testing.T) {
		fv := Compile("Comment", "a+b", Regex)
		require.True(t, fv.Valid)
		assert.True(t, fv.Match("caab"))
	})

	t.Run("global flag is accepted", func(t *testing.T) {
		fv := Compile("Comment", "/x/g", Regex)
		assert.True(t, fv.Valid)
	})

	t.Run("unparseable pattern is invalid", func(t *testing.T) {
		fv := Compile("Comment", "/([a-z/", Regex)
		assert.False(t, fv.Valid)
		assert.Contains(t, fv.Reason, "Comment")
		assert.False(t, fv.Match("anything"))
	})

	t.Run("unknown flag is invalid", func(t *testing.T) {
		fv := Compile("Comment", "/x/q", Regex)
		assert.False(t, fv.Valid)
	})
}

func TestCompile_Numeric(t *testing.T) {
	t.Run("exact strips formatting", func(t *testing.T) {
		fv := Compile("Votes", "#1,024", NumericExact)
		require.True(t, fv.Valid)
		assert.True(t, fv.Match(1024.0))
		assert.True(t, fv.Match("1024 votes"))
		assert.False(t, fv.Match(1023.0))
	})

	tests := []struct {
		raw   string
		value any
		want  bool
	}{
		{"<5", 4.0, true},
		{"<5", 5.0, false},
		{"<=5", 5.0, true},
		{">5", 5.5, true},
		{">5", "5", false},
		{">= 10", "10", true},
		{"=3", 3.0, true},
		{"3", 3.0, true},
		{"3", 4.0, false},
		{">1", "n/a", false},
	}
	for _, tt := range tests {
		t.Run("range "+tt.raw, func(t *testing.T) {
			fv := Compile("Votes", tt.raw, NumericRange)
			require.True(t, fv.Valid)
			assert.Equal(t, tt.want, fv.Match(tt.value))
		})
	}

	t.Run("range without number is invalid", func(t *testing.T) {
		assert.False(t, Compile("Votes", ">=", NumericRange).Valid)
		assert.False(t, Compile("Votes", "abc", NumericExact).Valid)
	})
}

func TestCompile_ClausePrefix(t *testing.T) {
	fv := Compile("Clause", "4.3.", ClausePrefix)
	assert.True(t, fv.Match("4.3"))
	assert.True(t, fv.Match("4.3.1"))
	assert.False(t, fv.Match("4.30"))
	assert.False(t, fv.Match(4.2))
}

func TestCompile_Page(t *testing.T) {
	t.Run("page and line", func(t *testing.T) {
		fv := Compile("Page", "12.15", Page)
		assert.True(t, fv.Match(12.15))
		assert.False(t, fv.Match(12.16))
		assert.False(t, fv.Match(12.0))
	})

	t.Run("page only", func(t *testing.T) {
		fv := Compile("Page", "12", Page)
		assert.True(t, fv.Match(12.0))
		assert.True(t, fv.Match(12.15))
		assert.True(t, fv.Match("12.40"))
		assert.True(t, fv.Match(11.5))
		assert.False(t, fv.Match(12.6))
		assert.False(t, fv.Match(13.01))
	})
}

func TestCompile_UnknownKind(t *testing.T) {
	fv := Compile("x", "y", Kind("fuzzy"))
	assert.False(t, fv.Valid)
}

func TestField_Match(t *testing.T) {
	t.Run("values combine with OR", func(t *testing.T) {
		f := Field{Kind: Contains, Values: []Value{
			Compile("Status", "open", Contains),
			Compile("Status", "review", Contains),
		}}
		assert.True(t, f.Match("Open"))
		assert.True(t, f.Match("In Review"))
		assert.False(t, f.Match("Closed"))
	})

	t.Run("empty field is satisfied", func(t *testing.T) {
		assert.True(t, Field{Kind: Contains}.Match("anything"))
	})

	t.Run("invalid values are excluded from the group", func(t *testing.T) {
		f := Field{Kind: Regex, Values: []Value{
			Compile("Comment", "/(/", Regex),
			Compile("Comment", "/^a/", Regex),
		}}
		assert.True(t, f.Active())
		assert.True(t, f.Match("abc"))
		assert.False(t, f.Match("bcd"))
	})

	t.Run("valid value without matcher matches nothing", func(t *testing.T) {
		f := Field{Kind: Exact, Values: []Value{{Raw: "x", Valid: true}}}
		assert.NotPanics(t, func() { f.Match("x") })
		assert.True(t, f.Active())
		assert.False(t, f.Match("x"))
	})

	t.Run("only invalid values behaves as no filter", func(t *testing.T) {
		f := Field{Kind: Regex, Values: []Value{Compile("Comment", "/(/", Regex)}}
		assert.False(t, f.Active())
		assert.True(t, f.Match("bcd"))
	})
}

func TestDataset(t *testing.T) {
	ds := record.Dataset{
		{"id": 1.0, "Status": "Open", "Page": 4.2},
		{"id": 2.0, "Status": "Closed", "Page": 4.1},
		{"id": 3.0, "Status": "Open", "Page": 7.0},
		{"id": 4.0, "Status": "Review", "Page": 4.4},
	}

	t.Run("no filters keeps everything in order", func(t *testing.T) {
		assert.Equal(t, []int{0, 1, 2, 3}, Dataset(ds, nil))
	})

	t.Run("fields combine with AND", func(t *testing.T) {
		state := State{
			"Status": {Kind: Exact, Values: []Value{
				Compile("Status", "Open", Exact),
				Compile("Status", "Review", Exact),
			}},
			"Page": {Kind: Page, Values: []Value{Compile("Page", "4", Page)}},
		}
		assert.Equal(t, []int{0, 3}, Dataset(ds, state))
	})

	t.Run("field missing from record", func(t *testing.T) {
		state := State{"Assignee": {Kind: Contains, Values: []Value{Compile("Assignee", "bob", Contains)}}}
		assert.Empty(t, Dataset(ds, state))
	})
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Clause_Prefix")
	require.NoError(t, err)
	assert.Equal(t, ClausePrefix, k)

	_, err = ParseKind("fuzzy")
	assert.Error(t, err)
}

func TestDefaultKind(t *testing.T) {
	assert.Equal(t, NumericRange, DefaultKind(record.TypeNumeric))
	assert.Equal(t, ClausePrefix, DefaultKind(record.TypeClause))
	assert.Equal(t, Contains, DefaultKind(record.TypeString))
	assert.Equal(t, Contains, DefaultKind(""))
}
