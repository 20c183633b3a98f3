package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNaming(t *testing.T) {
	assert.Equal(t, "BIG02", ElementName("BIG", 2))
	assert.Equal(t, "N101-02", CompositeElementName("N1", 1, 2))
	assert.Equal(t, "L_N1", LoopName("N1"))
	assert.Equal(t, "S_N1", SetName("N1"))
}

func TestToElementListAndBack(t *testing.T) {
	shapes := []ElementShape{{Sub: 0}, {Sub: 0}, {Sub: 2}}
	named := map[string]any{
		"PER01": "IC",
		"PER02": "Jane Doe",
		"PER03": map[string]any{"PER03-01": "TE", "PER03-02": "5551234567"},
	}
	list := ToElementList("PER", shapes, named)
	require.Len(t, list, 3)
	assert.Equal(t, "IC", list[0])
	assert.Equal(t, "Jane Doe", list[1])
	assert.Equal(t, []any{"TE", "5551234567"}, list[2])

	back := ToElementDict("PER", shapes, list)
	assert.Equal(t, named, back)
}

func TestToElementListMissingEntries(t *testing.T) {
	shapes := []ElementShape{{Sub: 0}, {Sub: 0}}
	list := ToElementList("N1", shapes, map[string]any{"N101": "40"})
	require.Len(t, list, 2)
	assert.Equal(t, "40", list[0])
	assert.Nil(t, list[1])
}

func TestCreateControlNumber(t *testing.T) {
	assert.Equal(t, int64(1), CreateControlNumber(1, 9))
	// 1000000001 / 10^9 == 1, 1000000001 % 10^9 == 1 -> folds to 2.
	assert.Equal(t, int64(2), CreateControlNumber(1000000001, 9))
}

func TestEntryCountFlatSegment(t *testing.T) {
	assert.Equal(t, 1, EntryCount(map[string]any{"BIG01": "2020", "BIG02": ""}))
	assert.Equal(t, 0, EntryCount(map[string]any{"BIG01": "", "BIG02": nil}))
}

func TestEntryCountNested(t *testing.T) {
	doc := map[string]any{
		"ST": map[string]any{"ST01": "810", "ST02": "0001"},
		"N1": []any{
			map[string]any{"N101": "40"},
			map[string]any{"N101": "41"},
		},
	}
	assert.Equal(t, 3, EntryCount(doc))
}

func TestPruneEmpty(t *testing.T) {
	doc := map[string]any{
		"BIG": map[string]any{"BIG01": "2020"},
		"N1":  []any{},
		"REF": nil,
	}
	PruneEmpty(doc)
	_, hasBIG := doc["BIG"]
	_, hasN1 := doc["N1"]
	_, hasREF := doc["REF"]
	assert.True(t, hasBIG)
	assert.False(t, hasN1)
	assert.False(t, hasREF)
}
