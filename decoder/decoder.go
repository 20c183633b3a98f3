package decoder

import (
	"fmt"
	"log"
	"strings"

	"x12codec/delimiter"
	"x12codec/schema"
)

// Options configures a Decode or ParseSetGroup call.
type Options struct {
	// TransactionSetID, when set, is used instead of reading ST01 from the
	// wire text — the caller already knows which schema applies.
	TransactionSetID string
	// Logger receives one line per unrecognized segment skipped during
	// parsing. A nil Logger discards these notices.
	Logger *log.Logger
}

// Decode discovers delimiters from the ISA envelope, splits the text into
// segments, verifies the required envelope segments are present, and
// walks the schema registered for the transaction-set id. Returns
// first-seen segment/loop order alongside the decoded document.
func Decode(reg *schema.Registry, text string, opts Options) ([]string, map[string]any, error) {
	env, err := parseISAHeader(text)
	if err != nil {
		return nil, nil, err
	}
	segs := splitSegments(text, env.Delims)

	stLine, ok := findSegment(segs, "ST", env.Delims)
	if !ok {
		return nil, nil, &Error{Kind: MissingST, Msg: "EDI data missing required segment ST"}
	}
	if !hasSegment(segs, "SE", env.Delims) {
		return nil, nil, &Error{Kind: MissingEnvelopeTrailer, SegmentID: "SE", Msg: "EDI data missing required segment SE"}
	}
	if !hasSegment(segs, "IEA", env.Delims) {
		return nil, nil, &Error{Kind: MissingEnvelopeTrailer, SegmentID: "IEA", Msg: "EDI data missing required segment IEA"}
	}

	transactionSetID := opts.TransactionSetID
	if transactionSetID == "" {
		fields := strings.Split(stLine, env.Delims.Element)
		if len(fields) < 2 {
			return nil, nil, &Error{Kind: MissingST, Msg: "ST segment has no transaction-set id element"}
		}
		transactionSetID = fields[1]
	}

	nodes, ok := reg.Lookup(transactionSetID)
	if !ok {
		return nil, nil, &Error{Kind: UnknownTransactionSet, Msg: fmt.Sprintf("transaction set %q is not registered", transactionSetID)}
	}

	return parseSegments(nodes, segs, env.Delims, unrecognizedLogger(opts.Logger))
}

// ParseSetGroup handles a GS/GE functional group: when the stream carries
// a GS/GE pair, every ST/SE pair inside is decoded independently into its
// own document, with the envelope context before the first ST and after
// the last SE preserved around each extracted sub-stream. A stream with
// no GS/GE pair decodes as a single document.
func ParseSetGroup(reg *schema.Registry, text string, opts Options) ([]map[string]any, error) {
	env, err := parseISAHeader(text)
	if err != nil {
		return nil, err
	}
	segs := splitSegments(text, env.Delims)

	count, hasGroup, err := scanGroup(segs, env.Delims)
	if err != nil {
		return nil, err
	}
	if !hasGroup {
		_, doc, err := Decode(reg, text, opts)
		if err != nil {
			return nil, err
		}
		return []map[string]any{doc}, nil
	}

	pairs := stSEIndices(segs, env.Delims)
	if len(pairs) == 0 {
		return nil, &Error{Kind: MissingST, Msg: "EDI data missing required ST/SE segment pairs"}
	}
	if len(pairs) != count {
		return nil, &Error{Kind: MissingEnvelopeTrailer, Msg: fmt.Sprintf("ST/SE pairs found: %d, does not match count in GE: %d", len(pairs), count)}
	}

	firstST := pairs[0].stIndex
	lastSE := pairs[len(pairs)-1].seIndex

	docs := make([]map[string]any, 0, len(pairs))
	for _, pair := range pairs {
		sub := buildSubStream(segs, pair, firstST, lastSE)
		subText := strings.Join(sub, env.Delims.Segment) + env.Delims.Segment
		_, doc, err := Decode(reg, subText, opts)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// splitSegments splits text on delims.Segment, dropping the trailing
// empty element the final terminator leaves behind.
func splitSegments(text string, delims delimiter.Set) []string {
	segs := strings.Split(text, delims.Segment)
	if len(segs) > 0 && segs[len(segs)-1] == "" {
		segs = segs[:len(segs)-1]
	}
	return segs
}

func findSegment(segs []string, id string, delims delimiter.Set) (string, bool) {
	for _, seg := range segs {
		if headID(seg, delims) == id {
			return seg, true
		}
	}
	return "", false
}

func hasSegment(segs []string, id string, delims delimiter.Set) bool {
	_, ok := findSegment(segs, id, delims)
	return ok
}

func unrecognizedLogger(logger *log.Logger) func(string) {
	if logger == nil {
		return nil
	}
	return func(raw string) {
		logger.Printf("decode: unrecognized segment skipped: %s", raw)
	}
}
