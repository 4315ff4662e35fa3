package iojson

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, Write(&out, &errOut, map[string]int{"count": 2}))
	assert.Equal(t, "{\n  \"count\": 2\n}\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestWrite_MarshalFailure(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, Write(&out, &errOut, math.Inf(1)))
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), `"json_error"`)
}

func TestWriteError(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, WriteError(&out, "load failed", map[string]any{"table": "comments"}))
	assert.Contains(t, out.String(), `"message": "load failed"`)
	assert.Contains(t, out.String(), `"table": "comments"`)
}

func TestDecode(t *testing.T) {
	type doc struct {
		Name  string `json:"name" yaml:"name"`
		Count int    `json:"count" yaml:"count"`
	}

	got, err := Decode[doc](strings.NewReader(`{"name":"a","count":3}`), false)
	require.NoError(t, err)
	assert.Equal(t, doc{Name: "a", Count: 3}, got)

	got, err = Decode[doc](strings.NewReader("name: b\ncount: 4\n"), true)
	require.NoError(t, err)
	assert.Equal(t, doc{Name: "b", Count: 4}, got)

	_, err = Decode[doc](strings.NewReader("{"), false)
	assert.ErrorContains(t, err, "decode JSON")
}

func TestFileReader_ReadsByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edits.yml")
	require.NoError(t, os.WriteFile(path, []byte("Resolution: done\n"), 0o644))

	var fr FileReader[map[string]any]
	assert.False(t, fr.Provided())
	fr.Set(path)
	assert.True(t, fr.Provided())

	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Resolution": "done"}, got)

	fr.Set(filepath.Join(dir, "missing.json"))
	_, err = fr.Read()
	assert.ErrorContains(t, err, "open file")
}
