// Package document implements the X12 document value tree: a tagged tree
// of scalars, segment maps, composite maps, and loop/repetition lists, all
// represented with Go's own dynamic typing (map[string]any / []any /
// scalar).
//
// A top-level or loop-iteration value is a map[string]any keyed by
// segment/loop id. A decoded segment value is a map[string]any keyed by
// element name (SSSnn); a composite value is a map[string]any keyed by
// sub-element name (SSSnn-mm). A repeating segment is a []any of segment
// values. A loop value is a []any of top-level-shaped maps.
//
// In encoder input form a segment's elements may instead be given
// positionally, as an ordered []any of scalars (and a repeating segment as
// a []any of such lists) — see ToElementList/ToElementDict.
package document

import (
	"fmt"

	"github.com/duke-git/lancet/v2/maputil"
)

// ElementName returns the SSSnn element name for the idx'th (1-based)
// element of segment segID.
func ElementName(segID string, idx int) string {
	return fmt.Sprintf("%s%02d", segID, idx)
}

// CompositeElementName returns the SSSnn-mm sub-element name for the
// subIdx'th (1-based) sub-element of the idx'th (1-based) element of
// segment segID.
func CompositeElementName(segID string, idx, subIdx int) string {
	return fmt.Sprintf("%s%02d-%02d", segID, idx, subIdx)
}

// LoopName returns the bounded loop id (L_ prefix) for a segment id.
func LoopName(segID string) string {
	return "L_" + segID
}

// SetName returns the set loop id (S_ prefix) for a segment id.
func SetName(segID string) string {
	return "S_" + segID
}

// PruneEmpty removes top-level entries whose value is nil or an empty
// slice/map. It does not recurse: nested empty elements are meaningful
// (an optional element that was explicitly cleared) while an empty
// top-level loop/segment is not present at all.
func PruneEmpty(doc map[string]any) {
	empty := make([]string, 0)
	for key, val := range doc {
		if isEmptyValue(val) {
			empty = append(empty, key)
		}
	}
	for _, key := range empty {
		delete(doc, key)
	}
}

func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}

// SortedKeys returns doc's keys in a deterministic order, used wherever a
// document map must be walked reproducibly (e.g. debug rendering).
func SortedKeys(doc map[string]any) []string {
	keys := maputil.Keys(doc)
	return sortStrings(keys)
}

func sortStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
