package decoder

import (
	"fmt"
	"strconv"
	"strings"

	"x12codec/delimiter"
)

// stPair is one ST..SE index range within a segment list.
type stPair struct {
	stIndex int
	seIndex int
}

// scanGroup finds the GS/GE pair, if any, and returns the ST/SE pair
// count declared in GE01. ok is false when the stream carries no GS/GE
// pair at all.
func scanGroup(segs []string, delims delimiter.Set) (count int, ok bool, err error) {
	gsFound := false
	for _, seg := range segs {
		id := headID(seg, delims)
		switch id {
		case "GS":
			gsFound = true
		case "GE":
			if !gsFound {
				return 0, false, &Error{Kind: MissingEnvelopeTrailer, SegmentID: "GE", Msg: "GE segment has no matching GS"}
			}
			fields := strings.Split(seg, delims.Element)
			if len(fields) < 2 {
				return 0, false, &Error{Kind: MissingEnvelopeTrailer, SegmentID: "GE", Msg: "GE segment has no count element"}
			}
			n, convErr := strconv.Atoi(fields[1])
			if convErr != nil {
				return 0, false, &Error{Kind: MissingEnvelopeTrailer, SegmentID: "GE", Msg: fmt.Sprintf("GE count %q is not numeric", fields[1]), Err: convErr}
			}
			return n, true, nil
		}
	}
	return 0, false, nil
}

// stSEIndices returns every (ST, SE) index pair found in segs, in order,
// pairing each ST with the next SE encountered.
func stSEIndices(segs []string, delims delimiter.Set) []stPair {
	var pairs []stPair
	stIdx, seIdx := -1, -1
	for i, seg := range segs {
		switch headID(seg, delims) {
		case "ST":
			stIdx = i
		case "SE":
			seIdx = i
		}
		if stIdx > -1 && seIdx > -1 {
			pairs = append(pairs, stPair{stIndex: stIdx, seIndex: seIdx})
			stIdx, seIdx = -1, -1
		}
	}
	return pairs
}

// buildSubStream constructs the synthetic segment list for one ST/SE
// pair: the envelope context before the first ST and after the last SE is
// kept around every extracted transaction set so ISA/GS/GE/IEA context
// survives independent parsing of each pair.
func buildSubStream(segs []string, pair stPair, firstST, lastSE int) []string {
	out := make([]string, 0, len(segs))
	out = append(out, segs[:firstST]...)
	out = append(out, segs[pair.stIndex:pair.seIndex+1]...)
	out = append(out, segs[lastSE+1:]...)
	return out
}
