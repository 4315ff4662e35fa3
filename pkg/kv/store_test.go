package kv

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_GetSet(t *testing.T) {
	s := New[string, int]()

	s.Set("foo", 42)
	val, ok := s.Get("foo")
	assert.True(t, ok)
	assert.Equal(t, 42, val)

	_, ok = s.Get("bar")
	assert.False(t, ok)
}

func TestStore_Delete(t *testing.T) {
	s := New[string, string]()
	s.Set("a", "1")
	s.Set("b", "2")

	s.Delete("a")
	s.Delete("missing")

	_, ok := s.Get("a")
	assert.False(t, ok)
	assert.Equal(t, []string{"b"}, s.Keys())
}

func TestStore_BoundedEvictsOldest(t *testing.T) {
	s := NewBounded[string, int](2)

	s.Set("a", 1)
	s.Set("b", 2)
	s.Set("a", 10) // overwrite keeps position
	s.Set("c", 3)

	assert.Equal(t, 2, s.Len())
	_, ok := s.Get("a")
	assert.False(t, ok)
	assert.Equal(t, []string{"b", "c"}, s.Keys())
}

func TestStore_GetOrCompute(t *testing.T) {
	s := New[string, string]()
	calls := 0
	compute := func() string {
		calls++
		return "rendered"
	}

	assert.Equal(t, "rendered", s.GetOrCompute("row", compute))
	assert.Equal(t, "rendered", s.GetOrCompute("row", compute))
	assert.Equal(t, 1, calls)
}

func TestStore_Clear(t *testing.T) {
	s := New[int, int]()
	s.Set(1, 1)
	s.Set(2, 2)

	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Keys())
}

func TestStore_Concurrent(t *testing.T) {
	s := NewBounded[int, int](50)
	var wg sync.WaitGroup

	for i := range 100 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Set(n, n*2)
			_, _ = s.Get(n)
		}(i)
	}

	wg.Wait()
	assert.Equal(t, 50, s.Len())
}
