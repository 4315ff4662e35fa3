package merge

import "github.com/colonyops/ballotview/internal/core/record"

// Patch is the set of changes to write to one record.
type Patch struct {
	ID      string        `json:"id"`
	Changes record.Record `json:"changes"`
}

// ShallowDiff returns the top-level fields of edited whose value differs from
// original.
func ShallowDiff(original, edited record.Record) record.Record {
	out := record.Record{}
	for k, ev := range edited {
		ov, ok := original[k]
		if !ok || !record.Equal(ov, ev) {
			out[k] = record.CloneValue(ev)
		}
	}
	return out
}

// Resolve fills the Multiple placeholders left inside an edited value with
// the record's own value at the same position, so a partly edited nested
// field only rewrites the parts that were edited.
func Resolve(edited, own any) any {
	if IsMultiple(edited) {
		return own
	}
	switch ev := edited.(type) {
	case []any:
		ov, ok := own.([]any)
		if !ok || len(ov) != len(ev) {
			return edited
		}
		out := make([]any, len(ev))
		for i := range ev {
			out[i] = Resolve(ev[i], ov[i])
		}
		return out
	case map[string]any, record.Record:
		em, _ := asMap(ev)
		om, _ := asMap(own)
		out := make(map[string]any, len(em))
		for k, v := range em {
			out[k] = Resolve(v, om[k])
		}
		return out
	}
	return edited
}

// ApplyEdits diffs the edited merged record against the original merge and
// returns one patch per record that actually needs a write. A record only
// receives the changed fields whose target value differs from what it holds
// already; records with nothing to change get no patch. key names each patch.
func ApplyEdits(original, edited record.Record, records []record.Record, key func(record.Record) string) []Patch {
	diff := ShallowDiff(original, edited)
	if len(diff) == 0 {
		return nil
	}

	var patches []Patch
	for _, r := range records {
		changes := record.Record{}
		for field, target := range diff {
			cur, has := r[field]
			want := Resolve(target, cur)
			if containsMultiple(want) {
				continue
			}
			if !has || !record.Equal(cur, want) {
				changes[field] = want
			}
		}
		if len(changes) > 0 {
			patches = append(patches, Patch{ID: key(r), Changes: changes})
		}
	}
	return patches
}

// Apply returns a copy of r with the patch changes written over it.
func Apply(r record.Record, p Patch) record.Record {
	out := r.Clone()
	if out == nil {
		out = record.Record{}
	}
	for k, v := range p.Changes {
		out[k] = record.CloneValue(v)
	}
	return out
}

func containsMultiple(v any) bool {
	if IsMultiple(v) {
		return true
	}
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if containsMultiple(item) {
				return true
			}
		}
	case map[string]any:
		for _, item := range val {
			if containsMultiple(item) {
				return true
			}
		}
	case record.Record:
		for _, item := range val {
			if containsMultiple(item) {
				return true
			}
		}
	}
	return false
}
