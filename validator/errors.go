// Package validator implements the independent X12 validator: given an
// already-decoded document and its schema, it reports every violation it
// can find without aborting on the first one.
package validator

import "fmt"

// Error is one accumulated validation finding: Kind names the schema-node
// category the finding concerns ("segment", "loop", "element", ...), Name
// is the offending id, Segment is the owning segment id where applicable,
// and Message is human-readable detail. Kind is a plain string rather than
// an enum because a couple of malformed-input branches report a Go type
// name as the kind, which doesn't reduce to a closed set.
type Error struct {
	Kind    string
	Name    string
	Segment string
	Message string
}

func (e Error) Error() string {
	if e.Segment != "" {
		return fmt.Sprintf("%s %s, segment: %s: %s", e.Kind, e.Name, e.Segment, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Kind, e.Name, e.Message)
}
