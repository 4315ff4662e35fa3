package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/ballotview/internal/app"
	"github.com/colonyops/ballotview/internal/core/config"
	"github.com/colonyops/ballotview/internal/printer"
	"github.com/colonyops/ballotview/pkg/tuitest"
)

type harness struct {
	flags *Flags
	app   *app.App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	database, err := app.OpenDB(&cfg)
	require.NoError(t, err)

	a := app.New(&cfg, database)
	t.Cleanup(func() { _ = a.Close() })

	return &harness{
		flags: &Flags{Config: &cfg, DataDir: cfg.DataDir},
		app:   a,
	}
}

// run executes args against a fresh root command and returns what was
// written to stdout and to the printer.
func (h *harness) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, msgs bytes.Buffer

	root := &cli.Command{
		Name:      "ballotview",
		Writer:    &out,
		ErrWriter: &msgs,
		// keep cli.Exit from terminating the test binary
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	root = NewLsCmd(h.flags, h.app).Register(root)
	root = NewImportCmd(h.flags, h.app).Register(root)
	root = NewEditCmd(h.flags, h.app).Register(root)
	root = NewDatasetsCmd(h.flags, h.app).Register(root)
	root = NewHistoryCmd(h.flags, h.app).Register(root)
	root = NewErrorsCmd(h.flags, h.app).Register(root)
	root = NewDBCmd(h.flags, h.app).Register(root)
	root = NewConfigValidateCmd(h.flags).Register(root)

	ctx := printer.NewContext(context.Background(), printer.New(&msgs))
	err := root.Run(ctx, append([]string{"ballotview"}, args...))
	return out.String(), tuitest.StripANSI(msgs.String()), err
}

const ballotsJSON = `[
  {"id": 1, "BallotID": "LB250", "Project": "802.11be", "Type": "WG", "Topic": "Initial"},
  {"id": 2, "BallotID": "LB251", "Project": "802.11be", "Type": "WG", "Topic": "Recirc"},
  {"id": 3, "BallotID": "SA101", "Project": "802.11bf", "Type": "SA", "Topic": "Sponsor"}
]`

func (h *harness) seed(t *testing.T, key string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ballots.json")
	require.NoError(t, os.WriteFile(path, []byte(ballotsJSON), 0o644))

	_, msgs, err := h.run(t, "import", "ballots", key, path)
	require.NoError(t, err)
	assert.Contains(t, msgs, "Imported 3 record(s) into ballots "+key)
}

func decodeRecords(t *testing.T, out string) []map[string]any {
	t.Helper()
	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	return records
}

func ids(records []map[string]any) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i], _ = r["id"].(float64)
	}
	return out
}

func TestImport_CountsInsertsAndUpdates(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "wg")

	path := filepath.Join(t.TempDir(), "update.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- id: 3\n  Topic: Revised\n- id: 4\n  Topic: New\n"), 0o644))

	_, msgs, err := h.run(t, "import", "ballots", "wg", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, msgs, "inserted: 1  updated: 1  removed: 0")
}

func TestImport_RequiresKey(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run(t, "import", "ballots")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset key required")
}

func TestImport_UnknownTable(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run(t, "import", "motions", "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown table")
}

func TestLs_Text(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "wg")

	out, _, err := h.run(t, "ls", "ballots", "wg")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "BALLOTID")
	assert.Contains(t, out, "LB250")
	assert.Contains(t, out, "SA101")
}

func TestLs_FallsBackToLastKey(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "wg")

	out, _, err := h.run(t, "ls", "ballots", "--json")
	require.NoError(t, err)
	assert.Len(t, decodeRecords(t, out), 3)
}

func TestLs_FilterAndSort(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "wg")

	out, _, err := h.run(t, "ls", "ballots", "wg", "--filter", "Type=WG", "--sort", "Topic:desc", "--json")
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 1}, ids(decodeRecords(t, out)))
}

func TestLs_RepeatedFilterValuesOr(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "wg")

	out, _, err := h.run(t, "ls", "ballots", "wg", "--filter", "id=1", "--filter", "id=3", "--json")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3}, ids(decodeRecords(t, out)))
}

func TestLs_HTML(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "wg")

	out, _, err := h.run(t, "ls", "ballots", "wg", "--html")
	require.NoError(t, err)
	assert.Contains(t, out, "<table")
	assert.Contains(t, out, "LB251")
}

func TestLs_JSONAndHTMLExclusive(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run(t, "ls", "ballots", "wg", "--html", "--json")
	require.Error(t, err)
}

func TestEdit_SetSelected(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "wg")

	_, msgs, err := h.run(t, "edit", "ballots", "wg", "--select", "1", "--select", "3", "--set", "Type=SB")
	require.NoError(t, err)
	assert.Contains(t, msgs, "Saved 2 ballots record(s)")

	out, _, err := h.run(t, "ls", "ballots", "wg", "--filter", "Type=SB", "--json")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3}, ids(decodeRecords(t, out)))

	out, _, err = h.run(t, "history", "ballots", "wg", "--json")
	require.NoError(t, err)
	var entries []historyJSON
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, entries[0].Batch, entries[1].Batch)
	assert.Equal(t, "SB", entries[0].Changes["Type"])
}

func TestEdit_WhereSelectsMatches(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "wg")

	_, msgs, err := h.run(t, "edit", "ballots", "wg", "--where", "Type=WG", "--set", "Project=802.11bn")
	require.NoError(t, err)
	assert.Contains(t, msgs, "Saved 2 ballots record(s)")
}

func TestEdit_UnchangedValueSavesNothing(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "wg")

	_, msgs, err := h.run(t, "edit", "ballots", "wg", "--select", "1", "--set", "Type=WG")
	require.NoError(t, err)
	assert.Contains(t, msgs, "No changes")
}

func TestEdit_DryRunDoesNotSave(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "wg")

	out, _, err := h.run(t, "edit", "ballots", "wg", "--select", "2", "--set", "Topic=Final", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, `"Topic": "Final"`)

	out, _, err = h.run(t, "history", "ballots", "wg", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestEdit_FileChanges(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "wg")

	path := filepath.Join(t.TempDir(), "changes.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Topic": "Merged"}`), 0o644))

	_, msgs, err := h.run(t, "edit", "ballots", "wg", "--select", "1", "--select", "2", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, msgs, "Saved 2 ballots record(s)")
}

func TestEdit_Validation(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "wg")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "no selection",
			args: []string{"edit", "ballots", "wg", "--set", "Type=SB"},
			want: "use --select or --where",
		},
		{
			name: "no changes source",
			args: []string{"edit", "ballots", "wg", "--select", "1"},
			want: "exactly one of",
		},
		{
			name: "unknown identity",
			args: []string{"edit", "ballots", "wg", "--select", "99", "--set", "Type=SB"},
			want: "no records selected",
		},
		{
			name: "bad assignment",
			args: []string{"edit", "ballots", "wg", "--select", "1", "--set", "Type"},
			want: "expected Field=value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := h.run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDatasets_ListsKeys(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "wg")
	h.seed(t, "sa")

	out, _, err := h.run(t, "datasets", "ballots", "--json")
	require.NoError(t, err)

	var rows []datasetJSON
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	keys := []string{rows[0].Key, rows[1].Key}
	assert.ElementsMatch(t, []string{"wg", "sa"}, keys)
	assert.Equal(t, int64(3), rows[0].Records)
}

func TestDatasets_Empty(t *testing.T) {
	h := newHarness(t)

	_, msgs, err := h.run(t, "datasets")
	require.NoError(t, err)
	assert.Contains(t, msgs, "No datasets")
}

func TestErrors_ListAndClear(t *testing.T) {
	h := newHarness(t)
	h.app.Bus.For("ballots").Errorf("load ballots wg: network down")

	out, _, err := h.run(t, "errors")
	require.NoError(t, err)
	assert.Contains(t, out, "network down")
	assert.Contains(t, out, "ballots")

	_, msgs, err := h.run(t, "errors", "--clear")
	require.NoError(t, err)
	assert.Contains(t, msgs, "Notifications cleared")

	_, msgs, err = h.run(t, "errors")
	require.NoError(t, err)
	assert.Contains(t, msgs, "No notifications")
}

func TestDB_Status(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run(t, "db", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "VERSION")
	assert.Contains(t, out, "0001")
	assert.NotContains(t, out, "pending")
}

func TestConfigValidate(t *testing.T) {
	h := newHarness(t)

	_, msgs, err := h.run(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, msgs, "Configuration is valid")
}

func TestConfigValidate_JSONReportsErrors(t *testing.T) {
	h := newHarness(t)
	h.flags.Config.View.Theme = "nope"

	out, _, err := h.run(t, "config", "validate", "--format", "json")
	require.Error(t, err)

	var res struct {
		Valid  bool              `json:"valid"`
		Errors []validationError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.False(t, res.Valid)
	require.NotEmpty(t, res.Errors)
	assert.Equal(t, "view.theme", res.Errors[0].Item)
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"Type=WG", " Topic =a=b", "Empty="})
	require.NoError(t, err)
	assert.Equal(t, []assignment{
		{Field: "Type", Value: "WG"},
		{Field: "Topic", Value: "a=b"},
		{Field: "Empty", Value: ""},
	}, got)

	_, err = parseAssignments([]string{"=x"})
	require.Error(t, err)
}

func TestParseSort(t *testing.T) {
	spec, err := parseSort([]string{"Topic:desc", "id"})
	require.NoError(t, err)
	assert.Equal(t, "Topic:desc,id:asc", spec.String())
}

func TestTableArgs_RejectsBadKey(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run(t, "ls", "ballots", "lb/250")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not contain")
}
