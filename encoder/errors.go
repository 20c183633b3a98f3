// Package encoder implements the X12 encoder: given a registered
// transaction-set schema and a document value, it walks the schema and
// emits one line per segment.
package encoder

import "fmt"

// Kind enumerates the encoder's fail-fast error conditions.
type Kind int

const (
	MissingMandatorySegment Kind = iota
	MissingMandatoryLoop
	TooManyRepetitions
	UnknownDataType
	SyntaxRuleViolation
	UnknownTransactionSet
	InvalidLength
)

func (k Kind) String() string {
	switch k {
	case MissingMandatorySegment:
		return "MissingMandatorySegment"
	case MissingMandatoryLoop:
		return "MissingMandatoryLoop"
	case TooManyRepetitions:
		return "TooManyRepetitions"
	case UnknownDataType:
		return "UnknownDataType"
	case SyntaxRuleViolation:
		return "SyntaxRuleViolation"
	case UnknownTransactionSet:
		return "UnknownTransactionSet"
	case InvalidLength:
		return "InvalidLength"
	default:
		return "Unknown"
	}
}

// Error is the encoder's fail-fast error: it names the offending segment
// and, where applicable, the element within it, and wraps any underlying
// cause so errors.Is/errors.As keep working through the boundary.
type Error struct {
	Kind      Kind
	SegmentID string
	ElementID string
	Msg       string
	Err       error
}

func (e *Error) Error() string {
	if e.ElementID != "" {
		return fmt.Sprintf("encode: segment %s, element %s: %s: %s", e.SegmentID, e.ElementID, e.Kind, e.Msg)
	}
	if e.SegmentID != "" {
		return fmt.Sprintf("encode: segment %s: %s: %s", e.SegmentID, e.Kind, e.Msg)
	}
	return fmt.Sprintf("encode: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// wrapSegment re-raises err with segID attached if it doesn't already
// carry one, so an element-level error surfaces the segment it occurred
// in without every lower-level call needing to know its own segment id.
func wrapSegment(segID string, err error) error {
	if err == nil {
		return nil
	}
	if encErr, ok := err.(*Error); ok && encErr.SegmentID == "" {
		encErr.SegmentID = segID
		return encErr
	}
	return err
}
