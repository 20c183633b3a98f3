package document

// CreateControlNumber folds value into maxPlaces digits by adding its
// high-order and low-order halves rather than truncating. Used for
// SE/GE/IEA control numbers, which are ordinary N0 elements from the
// schema's point of view but must stay numerically stable (not wrap to
// zero) when the running counter exceeds maxPlaces digits.
func CreateControlNumber(value int64, maxPlaces int) int64 {
	mod := pow10(maxPlaces)
	return value/mod + value%mod
}

func pow10(n int) int64 {
	v := int64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}

// EntryCount recursively counts how many "segments-worth" a document
// subtree represents: a child that is itself a named map counts as one
// segment; a child that is a list recurses, summing the count of each
// item (a repeating segment or a loop); a subtree that is itself a flat
// segment value (all children scalar) counts as 1 if it holds any data,
// else 0. Used by callers to compute SE/GE/IEA count fields — the codec
// itself never calls this, since those fields are ordinary document
// values supplied like any other element.
func EntryCount(v any) int {
	switch val := v.(type) {
	case map[string]any:
		return entryCountMap(val)
	case []any:
		count := 0
		for _, item := range val {
			count += EntryCount(item)
		}
		return count
	default:
		return 0
	}
}

func entryCountMap(val map[string]any) int {
	hasContainerChild := false
	for _, entry := range val {
		switch entry.(type) {
		case map[string]any, []any:
			hasContainerChild = true
		}
		if hasContainerChild {
			break
		}
	}
	if !hasContainerChild {
		for _, entry := range val {
			if isTruthyScalar(entry) {
				return 1
			}
		}
		return 0
	}
	count := 0
	for _, entry := range val {
		switch e := entry.(type) {
		case map[string]any:
			count++
		case []any:
			for _, item := range e {
				count += EntryCount(item)
			}
		}
	}
	return count
}

func isTruthyScalar(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	default:
		return true
	}
}
