package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newFixtureDirs(t *testing.T) (formatsDir, codesDir string) {
	t.Helper()
	formatsDir = t.TempDir()
	codesDir = t.TempDir()
	return
}

func TestLoadResolvesSegmentPlaceholder(t *testing.T) {
	formatsDir, codesDir := newFixtureDirs(t)

	writeFixture(t, formatsDir, "ST.json", `[
		{"type":"segment","id":"ST","req":"M","max_uses":1,"elements":[
			{"type":"element","id":"ST01","name":"id","req":"M","data_type":"AN","length":{"min":3,"max":3}}
		]}
	]`)
	writeFixture(t, formatsDir, "810.json", `[
		{"type":"placeholder","id":"ST","req":"O"},
		{"type":"segment","id":"BIG","req":"M","max_uses":1,"elements":[
			{"type":"element","id":"BIG01","name":"date","req":"M","data_type":"DT","length":{"min":8,"max":8}}
		]}
	]`)

	reg, err := NewBuilder(formatsDir, codesDir).Load()
	require.NoError(t, err)

	nodes, ok := reg.Lookup("810")
	require.True(t, ok)
	require.Len(t, nodes, 2)
	assert.Equal(t, Segment, nodes[0].Type)
	assert.Equal(t, "ST", nodes[0].ID)
	assert.Equal(t, Optional, nodes[0].Req, "placeholder's req override should win")
	assert.Equal(t, "BIG", nodes[1].ID)
}

func TestLoadResolvesLoopPlaceholder(t *testing.T) {
	formatsDir, codesDir := newFixtureDirs(t)

	writeFixture(t, formatsDir, "N1.json", `[
		{"type":"segment","id":"N1","req":"M","max_uses":1,"elements":[
			{"type":"element","id":"N101","name":"code","req":"M","data_type":"ID","length":{"min":2,"max":2},"data_type_ids":"N101"}
		]}
	]`)
	writeFixture(t, formatsDir, "L_N1.json", `[
		{"type":"loop","id":"L_N1","req":"O","repeat":3,"segments":[
			{"type":"placeholder","id":"N1"}
		]}
	]`)
	writeFixture(t, formatsDir, "810.json", `[
		{"type":"placeholder","id":"L_N1","replacement":"L_N1","repeat":5}
	]`)
	writeFixture(t, codesDir, "N101.json", `{"40":"Receiver"}`)

	reg, err := NewBuilder(formatsDir, codesDir).Load()
	require.NoError(t, err)

	nodes, ok := reg.Lookup("810")
	require.True(t, ok)
	require.Len(t, nodes, 1)
	assert.Equal(t, Loop, nodes[0].Type)
	assert.Equal(t, 5, nodes[0].Repeat, "placeholder's repeat override should win")
	require.Len(t, nodes[0].Segments, 1)
	n1 := nodes[0].Segments[0]
	assert.Equal(t, "N1", n1.ID)
	codes := n1.Elements[0].ResolvedCodes()
	assert.Equal(t, map[string]string{"40": "Receiver"}, codes)
}

func TestLoadPlaceholderIDMismatch(t *testing.T) {
	formatsDir, codesDir := newFixtureDirs(t)
	writeFixture(t, formatsDir, "ST.json", `[{"type":"segment","id":"ST","req":"M","elements":[]}]`)
	writeFixture(t, formatsDir, "810.json", `[{"type":"placeholder","id":"WRONG","replacement":"ST"}]`)

	_, err := NewBuilder(formatsDir, codesDir).Load()
	require.Error(t, err)
	var schemaErr *Error
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, SegmentMismatch, schemaErr.Kind)
}

func TestLoadMissingCodeList(t *testing.T) {
	formatsDir, codesDir := newFixtureDirs(t)
	writeFixture(t, formatsDir, "810.json", `[
		{"type":"segment","id":"BIG","req":"M","elements":[
			{"type":"element","id":"BIG01","name":"x","req":"M","data_type":"ID","length":{"min":1,"max":2},"data_type_ids":"MISSING"}
		]}
	]`)

	_, err := NewBuilder(formatsDir, codesDir).Load()
	require.Error(t, err)
	var schemaErr *Error
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, CodeListUnresolved, schemaErr.Kind)
}

func TestLoadBadTopLevelShape(t *testing.T) {
	formatsDir, codesDir := newFixtureDirs(t)
	writeFixture(t, formatsDir, "810.json", `{"not": "an array"}`)

	_, err := NewBuilder(formatsDir, codesDir).Load()
	require.Error(t, err)
	var schemaErr *Error
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, BadShape, schemaErr.Kind)
}
