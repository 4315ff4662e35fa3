package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/ballotview/internal/core/record"
)

var (
	voterSchema   = record.Schema{Name: "voters", IdentityKey: "SAPIN"}
	commentSchema = record.Schema{
		Name:        "comments",
		IdentityKey: "CID",
		Composite:   &record.Composite{ParentField: "CID", SubField: "ResolutionID"},
	}
)

func TestSet(t *testing.T) {
	s := NewSet("b", "a")
	assert.True(t, s.Has("a"))
	assert.Equal(t, 2, s.Len())

	assert.False(t, s.Toggle("a"))
	assert.True(t, s.Toggle("c"))
	assert.Equal(t, []string{"b", "c"}, s.Sorted())

	c := s.Clone()
	c.Remove("b")
	assert.True(t, s.Has("b"))
	assert.False(t, s.Equal(c))
	assert.True(t, s.Equal(NewSet("c", "b")))
}

func TestReconcile_Simple(t *testing.T) {
	ds := record.Dataset{{"SAPIN": 1.0}, {"SAPIN": 2.0}, {"SAPIN": 4.0}}

	got := Reconcile(NewSet("1", "3", "4"), ds, voterSchema)
	assert.Equal(t, []string{"1", "4"}, got.Sorted())

	t.Run("input is not modified", func(t *testing.T) {
		in := NewSet("1", "3")
		_ = Reconcile(in, ds, voterSchema)
		assert.Equal(t, []string{"1", "3"}, in.Sorted())
	})

	t.Run("removing a record drops exactly that identity", func(t *testing.T) {
		smaller := record.Dataset{{"SAPIN": 1.0}, {"SAPIN": 4.0}}
		got := Reconcile(NewSet("1", "2", "4"), smaller, voterSchema)
		assert.Equal(t, []string{"1", "4"}, got.Sorted())
	})
}

func TestReconcile_Composite(t *testing.T) {
	ds := record.Dataset{
		{"CID": 10.0, "ResolutionID": ""},
		{"CID": 11.0, "ResolutionID": 1.0},
		{"CID": 11.0, "ResolutionID": 2.0},
	}

	t.Run("parent id expands to its subordinates", func(t *testing.T) {
		got := Reconcile(NewSet("11"), ds, commentSchema)
		assert.Equal(t, []string{"11.1", "11.2"}, got.Sorted())
	})

	t.Run("full identity is kept", func(t *testing.T) {
		got := Reconcile(NewSet("10", "11.2"), ds, commentSchema)
		assert.Equal(t, []string{"10", "11.2"}, got.Sorted())
	})

	t.Run("unknown identities are dropped", func(t *testing.T) {
		got := Reconcile(NewSet("12", "11.3", "10.1"), ds, commentSchema)
		assert.Equal(t, 0, got.Len())
	})

	t.Run("last subordinate removed drops parent entry", func(t *testing.T) {
		without := record.Dataset{{"CID": 10.0, "ResolutionID": ""}}
		got := Reconcile(NewSet("11", "11.1", "10"), without, commentSchema)
		assert.Equal(t, []string{"10"}, got.Sorted())
	})

	t.Run("surviving sibling keeps its selection", func(t *testing.T) {
		without := record.Dataset{
			{"CID": 10.0, "ResolutionID": ""},
			{"CID": 11.0, "ResolutionID": 1.0},
		}
		got := Reconcile(NewSet("11.1"), without, commentSchema)
		assert.Equal(t, []string{"11"}, got.Sorted())

		got = Reconcile(NewSet("11.1", "11.2"), without, commentSchema)
		assert.Equal(t, []string{"11"}, got.Sorted())

		got = Reconcile(NewSet("11.2"), without, commentSchema)
		assert.Equal(t, 0, got.Len())
	})

	t.Run("new sibling does not widen a row key selection", func(t *testing.T) {
		got := Reconcile(NewSet("11.1"), ds, commentSchema)
		assert.Equal(t, []string{"11.1"}, got.Sorted())
	})
}

func TestReconcile_Idempotent(t *testing.T) {
	ds := record.Dataset{
		{"CID": 10.0, "ResolutionID": ""},
		{"CID": 11.0, "ResolutionID": 1.0},
		{"CID": 11.0, "ResolutionID": 2.0},
		{"CID": 12.0, "ResolutionID": 5.0},
	}
	inputs := []Set{
		NewSet(),
		NewSet("11"),
		NewSet("10", "11", "12", "13"),
		NewSet("11.1", "12.5", "12"),
		NewSet("12.5", "10"),
	}
	for _, in := range inputs {
		once := Reconcile(in, ds, commentSchema)
		twice := Reconcile(once, ds, commentSchema)
		assert.True(t, once.Equal(twice), "input %v", in.Sorted())
	}
}
