package decoder

import (
	"strings"
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

// buildISA assembles a minimal, schema-agnostic ISA header line whose
// trailing byte is the segment terminator "\n", so the caller's remaining
// segments can simply be joined with "\n".
func buildISA(elementSep, repeatSep, componentSep, version string) string {
	fields := []string{
		"ISA", "00", "          ", "00", "          ",
		"ZZ", "SENDER         ", "ZZ", "RECEIVER       ",
		"200101", "0100", repeatSep, version, "000000001", "0", "P",
		componentSep,
	}
	return strings.Join(fields, elementSep) + "\n"
}

func TestDecodeMinimalInvoice(t *testing.T) {
	reg := mustLoad(t, "../testdata/formats")

	text := buildISA("^", "`", ":", "00401") + strings.Join([]string{
		"GS^IN^SENDER^RECEIVER^20200101^0100^1^X^004010",
		"ST^810^000000001",
		"BIG^20200101^INV001",
		"SE^2^000000001",
		"GE^1^1",
		"IEA^1^000000001",
	}, "\n") + "\n"

	order, doc, err := Decode(reg, text, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ST", "BIG", "SE"}, order)

	st, ok := doc["ST"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "810", st["ST01"])

	big, ok := doc["BIG"].(map[string]any)
	require.True(t, ok)
	date, ok := big["BIG01"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), date)
	assert.Equal(t, "INV001", big["BIG02"])

	se, ok := doc["SE"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(2), se["SE01"])
}

func TestDecodeISA16ComponentSeparatorDrivesCompositeSplit(t *testing.T) {
	reg := mustLoad(t, "testdata/dtm")

	text := buildISA("^", "`", ":", "00401") + strings.Join([]string{
		"GS^IN^SENDER^RECEIVER^20200101^0100^1^X^004010",
		"ST^DTMTEST^1",
		"DTM^20200101:120000",
		"SE^2^1",
		"GE^1^1",
		"IEA^1^1",
	}, "\n") + "\n"

	_, doc, err := Decode(reg, text, Options{})
	require.NoError(t, err)

	dtm, ok := doc["DTM"].(map[string]any)
	require.True(t, ok)
	comp, ok := dtm["DTM01"].(map[string]any)
	require.True(t, ok)

	date, ok := comp["DTM01-01"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), date)

	tm, ok := comp["DTM01-02"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, 12, tm.Hour())
	assert.Equal(t, 0, tm.Minute())
	assert.Equal(t, 0, tm.Second())
}

func setGroupText(geCount string) string {
	return buildISA("^", "`", ":", "00401") + strings.Join([]string{
		"GS^IN^SENDER^RECEIVER^20200101^0100^1^X^004010",
		"ST^810^000000001",
		"BIG^20200101^INV001",
		"SE^2^000000001",
		"ST^810^000000002",
		"BIG^20200102^INV002",
		"SE^2^000000002",
		"GE^" + geCount + "^1",
		"IEA^1^000000001",
	}, "\n") + "\n"
}

func TestParseSetGroupTwoTransactionSets(t *testing.T) {
	reg := mustLoad(t, "../testdata/formats")

	docs, err := ParseSetGroup(reg, setGroupText("2"), Options{})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	first := docs[0]["ST"].(map[string]any)
	second := docs[1]["ST"].(map[string]any)
	assert.Equal(t, "000000001", first["ST02"])
	assert.Equal(t, "000000002", second["ST02"])
}

func TestParseSetGroupCountMismatch(t *testing.T) {
	reg := mustLoad(t, "../testdata/formats")

	_, err := ParseSetGroup(reg, setGroupText("3"), Options{})
	require.Error(t, err)
	var decErr *Error
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, MissingEnvelopeTrailer, decErr.Kind)
}

func TestDecodeBadEnvelope(t *testing.T) {
	reg := mustLoad(t, "../testdata/formats")

	_, _, err := Decode(reg, "GS^IN\n", Options{})
	require.Error(t, err)
	var decErr *Error
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, BadEnvelope, decErr.Kind)
}
