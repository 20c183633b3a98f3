package document

// ElementShape describes one segment element's shape for the purpose of
// converting between a segment's two equivalent representations: a named
// map (decoder output form, keyed by ElementName/CompositeElementName) and
// a positional list (encoder input form, one slot per element, a composite
// slot holding a nested []any of its sub-values). Sub > 0 marks a
// composite element with that many sub-elements; Sub == 0 is a scalar.
type ElementShape struct {
	Sub int
}

// ToElementList converts a segment's named-map value into its positional
// list equivalent, given the ordered shapes of segID's elements. Missing
// entries become nil in their slot rather than shrinking the list, so
// position is always preserved.
func ToElementList(segID string, shapes []ElementShape, named map[string]any) []any {
	out := make([]any, len(shapes))
	for i, sh := range shapes {
		name := ElementName(segID, i+1)
		if sh.Sub <= 0 {
			out[i] = named[name]
			continue
		}
		comp, _ := named[name].(map[string]any)
		subs := make([]any, sh.Sub)
		for j := 0; j < sh.Sub; j++ {
			subs[j] = comp[CompositeElementName(segID, i+1, j+1)]
		}
		out[i] = subs
	}
	return out
}

// ToElementDict converts a segment's positional list value into its
// named-map equivalent, given the ordered shapes of segID's elements.
// Positions beyond the end of positional are left unset.
func ToElementDict(segID string, shapes []ElementShape, positional []any) map[string]any {
	out := make(map[string]any, len(shapes))
	for i, sh := range shapes {
		if i >= len(positional) {
			continue
		}
		name := ElementName(segID, i+1)
		if sh.Sub <= 0 {
			out[name] = positional[i]
			continue
		}
		subs, _ := positional[i].([]any)
		comp := make(map[string]any, sh.Sub)
		for j := 0; j < sh.Sub && j < len(subs); j++ {
			comp[CompositeElementName(segID, i+1, j+1)] = subs[j]
		}
		out[name] = comp
	}
	return out
}
