// Package schema implements the Schema Loader: reading a directory of
// transaction-set JSON files and a directory of code-list JSON files into
// a frozen, read-only Registry, resolving segment placeholders and
// code-list references along the way.
package schema

import "encoding/json"

// NodeType discriminates the five schema node shapes: segment, loop,
// composite, element, and placeholder.
type NodeType string

const (
	Segment     NodeType = "segment"
	Loop        NodeType = "loop"
	Composite   NodeType = "composite"
	Element     NodeType = "element"
	Placeholder NodeType = "placeholder"
)

// Req is a node's requirement level.
type Req string

const (
	Mandatory   Req = "M"
	Optional    Req = "O"
	Conditional Req = "C"
)

// Data type names. N0..N9 are implicit-decimal integers; the digit names
// how many implied decimal places the wire form carries. An element's
// DataType is kept as a plain string (not this named type) since N0..N9 is
// a family, not an enum; ImplicitDecimalPlaces parses it.
const (
	AN DataType = "AN"
	ID DataType = "ID"
	DT DataType = "DT"
	TM DataType = "TM"
	R  DataType = "R"
)

// DataType is the element data-type family.
type DataType string

// Length bounds an element's formatted/parsed text width.
type Length struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// SyntaxKind names one of the three segment-level cross-element rules.
type SyntaxKind string

const (
	AtLeastOne   SyntaxKind = "ATLEASTONE"
	AllOrNone    SyntaxKind = "ALLORNONE"
	IfAtLeastOne SyntaxKind = "IFATLEASTONE"
)

// SyntaxRule is one segment-level constraint, with one-based element-slot
// indices (slot 0 is the segment id itself, so a criteria value of 1
// addresses the segment's first element).
type SyntaxRule struct {
	Kind     SyntaxKind `json:"kind"`
	Criteria []int      `json:"criteria"`
}

// Node is a schema tree node. Every node carries Type and ID; the other
// fields are populated according to Type, matching the flat JSON shape of
// the schema files (a segment's json object has "elements", a loop's has
// "segments", an element's has "data_type"/"length", and so on).
type Node struct {
	Type NodeType `json:"type"`
	ID   string   `json:"id"`

	// segment, loop, placeholder
	Req     Req `json:"req,omitempty"`
	MaxUses int `json:"max_uses,omitempty"` // segment; -1 = unbounded
	Repeat  int `json:"repeat,omitempty"`   // loop; -1 = unbounded

	// placeholder: overrides for the replacement's req/max_uses/repeat,
	// populated by UnmarshalJSON alongside the fields above so that an
	// override's presence can be told apart from it being unspecified.
	Override *PlaceholderOverride `json:"-"`

	// segment: its elements/composites, in authoritative order.
	// composite: its sub-elements, in authoritative order.
	Elements []Node `json:"elements,omitempty"`

	// loop: its child segments/loops, in authoritative order.
	Segments []Node `json:"segments,omitempty"`

	// segment
	Syntax []SyntaxRule `json:"syntax,omitempty"`

	// element
	Name     string  `json:"name,omitempty"`
	DataType string  `json:"data_type,omitempty"`
	DataLen  *Length `json:"length,omitempty"`

	// element: before Pass B this is a string naming a code list; after
	// Pass B it is the resolved map itself.
	DataTypeIDs any `json:"data_type_ids,omitempty"`

	// placeholder
	Replacement string `json:"replacement,omitempty"`
}

// PlaceholderOverride holds a placeholder node's optional req/max_uses/repeat
// overrides for its replacement's head node. MaxUses and Repeat are pointers
// so an override's absence can be told apart from it explicitly setting 0.
type PlaceholderOverride struct {
	Req     Req  `json:"req,omitempty"`
	MaxUses *int `json:"max_uses"`
	Repeat  *int `json:"repeat"`
}

// UnmarshalJSON decodes a node normally, then, for a placeholder node,
// decodes the same bytes a second time into Override so its MaxUses/Repeat
// overrides keep pointer semantics instead of collapsing to the plain int
// fields' zero value.
func (n *Node) UnmarshalJSON(data []byte) error {
	type plain Node
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*n = Node(p)
	if n.Type == Placeholder {
		var ov PlaceholderOverride
		if err := json.Unmarshal(data, &ov); err != nil {
			return err
		}
		n.Override = &ov
	}
	return nil
}

// ResolvedCodes returns DataTypeIDs as a resolved code map, or nil if the
// node carries no code list or it hasn't been resolved (Pass B not run).
func (n Node) ResolvedCodes() map[string]string {
	codes, _ := n.DataTypeIDs.(map[string]string)
	return codes
}

// IsComposite reports whether a segment's element slot is a composite
// bundle rather than a scalar element.
func (n Node) IsComposite() bool {
	return n.Type == Composite
}

// Unbounded matches the schema's -1 sentinel for MaxUses/Repeat.
const Unbounded = -1

// ImplicitDecimalPlaces reports whether dataType is one of N0..N9 and, if
// so, how many implied decimal places it carries.
func ImplicitDecimalPlaces(dataType string) (places int, ok bool) {
	if len(dataType) != 2 || dataType[0] != 'N' {
		return 0, false
	}
	d := dataType[1]
	if d < '0' || d > '9' {
		return 0, false
	}
	return int(d - '0'), true
}
