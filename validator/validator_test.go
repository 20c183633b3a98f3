package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"x12codec/schema"
)

func mustLoad(t *testing.T, formatsDir string) *schema.Registry {
	t.Helper()
	reg, err := schema.NewBuilder(formatsDir, formatsDir+"/codes").Load()
	require.NoError(t, err)
	return reg
}

func hasFinding(errs []Error, name string, contains string) bool {
	for _, e := range errs {
		if e.Name == name && (contains == "" || containsSubstring(e.Message, contains)) {
			return true
		}
	}
	return false
}

func containsSubstring(s, substr string) bool {
	return len(substr) == 0 || (len(s) >= len(substr) && indexOf(s, substr) >= 0)
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

func TestValidateMissingMandatorySegment(t *testing.T) {
	reg := mustLoad(t, "../testdata/formats")
	nodes, ok := reg.Lookup("810")
	require.True(t, ok)

	doc := map[string]any{
		"ISA": true,
		"IEA": true,
		"ST":  map[string]any{"ST01": "810", "ST02": "1"},
		"SE":  map[string]any{"SE01": int64(1), "SE02": "1"},
	}

	errs := Validate(doc, nodes)
	assert.True(t, hasFinding(errs, "BIG", "missing required segment"))
}

func TestValidateLoopTooManyRepetitions(t *testing.T) {
	reg := mustLoad(t, "../testdata/formats")
	nodes, ok := reg.Lookup("810L")
	require.True(t, ok)

	doc := map[string]any{
		"ISA": true,
		"IEA": true,
		"ST":  map[string]any{"ST01": "810L", "ST02": "1"},
		"BIG": map[string]any{"BIG01": time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), "BIG02": "INV001"},
		"L_N1": []any{
			map[string]any{"N1": map[string]any{"N101": "40", "N102": "A"}},
			map[string]any{"N1": map[string]any{"N101": "40", "N102": "B"}},
			map[string]any{"N1": map[string]any{"N101": "40", "N102": "C"}},
			map[string]any{"N1": map[string]any{"N101": "40", "N102": "D"}},
		},
		"SE": map[string]any{"SE01": int64(2), "SE02": "1"},
	}

	errs := Validate(doc, nodes)
	assert.True(t, hasFinding(errs, "L_N1", "max allowed is 3"))
}

func TestValidateSyntaxRuleViolation(t *testing.T) {
	reg := mustLoad(t, "../encoder/testdata/syntax")
	nodes, ok := reg.Lookup("XYZTEST")
	require.True(t, ok)

	doc := map[string]any{
		"ISA": true,
		"IEA": true,
		"ST":  map[string]any{"ST01": "XYZTEST", "ST02": "1"},
		"XYZ": map[string]any{"XYZ01": "", "XYZ02": ""},
		"SE":  map[string]any{"SE01": int64(2), "SE02": "1"},
	}

	errs := Validate(doc, nodes)
	assert.True(t, hasFinding(errs, "XYZ", "at least one of"))
}

func TestValidateElementTypeMismatch(t *testing.T) {
	reg := mustLoad(t, "../testdata/formats")
	nodes, ok := reg.Lookup("810")
	require.True(t, ok)

	doc := map[string]any{
		"ISA": true,
		"IEA": true,
		"ST":  map[string]any{"ST01": "810", "ST02": "1"},
		"BIG": map[string]any{"BIG01": "not-a-date", "BIG02": "INV001"},
		"SE":  map[string]any{"SE01": int64(2), "SE02": "1"},
	}

	errs := Validate(doc, nodes)
	assert.True(t, hasFinding(errs, "BIG01", "invalid data type"))
}
