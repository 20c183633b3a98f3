package decoder

import (
	"strings"

	"x12codec/delimiter"
)

// Envelope is the result of pre-processing an ISA header: the delimiter
// set discovered from its fixed byte positions, and the interchange
// version string carried in ISA12.
type Envelope struct {
	Delims  delimiter.Set
	Version string
}

// parseISAHeader recovers the delimiter set and interchange version from
// a raw ISA header. The segment terminator is one of the things being
// discovered, so this splits on the element separator alone, never on a
// terminator it doesn't know yet.
func parseISAHeader(text string) (Envelope, error) {
	if !strings.HasPrefix(text, "ISA") {
		return Envelope{}, &Error{Kind: BadEnvelope, Msg: "EDI data must start with ISA"}
	}
	if len(text) < 4 {
		return Envelope{}, &Error{Kind: BadEnvelope, Msg: "EDI data too short to carry an element separator"}
	}

	elementSep := text[3:4]
	fields := strings.Split(text, elementSep)
	if len(fields) <= 16 {
		return Envelope{}, &Error{Kind: BadEnvelope, Msg: "ISA header has fewer than 16 elements"}
	}

	delims := delimiter.Set{
		Segment: "\n",
		Element: elementSep,
		Repeat:  fields[11],
	}
	version := fields[12]

	// The last split field still carries everything that follows ISA16 in
	// the document, since the segment terminator hasn't been applied as a
	// split boundary yet: byte 0 is the component separator, byte 1 (if
	// present) is the segment terminator, and any immediately-following
	// CR/LF bytes extend that terminator.
	last := fields[16]
	if last == "" {
		return Envelope{}, &Error{Kind: BadEnvelope, Msg: "ISA16 is empty"}
	}
	delims.Component = last[0:1]
	if len(last) > 1 {
		delims.Segment = last[1:2]
		for i := 2; i < len(last) && i < 4; i++ {
			c := last[i]
			if c == '\r' || c == '\n' {
				delims.Segment += string(c)
			}
		}
	}

	return Envelope{Delims: delims, Version: version}, nil
}
