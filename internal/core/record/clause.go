package record

import (
	"strconv"
	"strings"
)

// CompareClause orders dotted hierarchical identifiers such as standards
// clause numbers: "4.3" < "4.3.1" < "4.10" < "5". Segments compare
// numerically when both parse as numbers, otherwise case-insensitively.
// A clause sorts before every clause it is a prefix of.
func CompareClause(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := compareSegment(as[i], bs[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	}
	return 0
}

// HasClausePrefix reports whether value lies under the clause prefix: "4.3"
// matches "4.3" and "4.3.1" but not "4.30". A trailing "." on the prefix is
// ignored and an empty prefix matches everything.
func HasClausePrefix(value, prefix string) bool {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		return true
	}
	ps := strings.Split(prefix, ".")
	vs := strings.Split(strings.TrimSpace(value), ".")
	if len(vs) < len(ps) {
		return false
	}
	for i, p := range ps {
		if compareSegment(p, vs[i]) != 0 {
			return false
		}
	}
	return true
}

func compareSegment(a, b string) int {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
