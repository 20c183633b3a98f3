package encoder

import (
	"fmt"
	"strings"

	"x12codec/delimiter"
	"x12codec/document"
	"x12codec/schema"
)

// Encode builds X12 text for transactionSetID by walking its registered
// schema against doc, using delims as the starting delimiter set. If doc's
// ISA segment carries an ISA16 slot (data_type ""), its value overrides
// delims.Component for the remainder of the encode, matching the decoder's
// symmetric discovery of the component separator from ISA16.
func Encode(reg *schema.Registry, doc map[string]any, transactionSetID string, delims delimiter.Set) (string, error) {
	nodes, ok := reg.Lookup(transactionSetID)
	if !ok {
		return "", &Error{Kind: UnknownTransactionSet, Msg: fmt.Sprintf("transaction set %q is not registered", transactionSetID)}
	}
	if err := checkSTMatchesTransactionSet(doc["ST"], transactionSetID); err != nil {
		return "", err
	}

	st := &state{registry: reg, delims: delims}
	lines, err := st.buildNodes(nodes, doc)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, st.delims.Segment) + st.delims.Segment, nil
}

func checkSTMatchesTransactionSet(st any, transactionSetID string) error {
	if st == nil {
		return &Error{Kind: MissingMandatorySegment, SegmentID: "ST", Msg: "document has no ST entry"}
	}
	var first any
	switch v := st.(type) {
	case []any:
		if len(v) > 0 {
			first = v[0]
		}
	case map[string]any:
		first = v["ST01"]
	}
	if fmt.Sprintf("%v", first) != transactionSetID {
		return &Error{Kind: UnknownTransactionSet, SegmentID: "ST", Msg: fmt.Sprintf("ST01 %v does not match transaction set %q", first, transactionSetID)}
	}
	return nil
}

// state threads the live delimiter set (mutable only via ISA16) through a
// single Encode call.
type state struct {
	registry *schema.Registry
	delims   delimiter.Set
}

func (st *state) buildNodes(nodes []schema.Node, doc map[string]any) ([]string, error) {
	var lines []string
	for _, node := range nodes {
		switch node.Type {
		case schema.Segment:
			segLines, err := st.buildSegmentEntry(node, doc)
			if err != nil {
				return nil, err
			}
			lines = append(lines, segLines...)
		case schema.Loop:
			loopLines, err := st.buildLoop(node, doc)
			if err != nil {
				return nil, err
			}
			lines = append(lines, loopLines...)
		}
	}
	return lines, nil
}

func (st *state) buildLoop(node schema.Node, doc map[string]any) ([]string, error) {
	raw, present := doc[node.ID]
	if !present {
		if hasMandatoryChild(node.Segments) {
			return nil, &Error{Kind: MissingMandatoryLoop, SegmentID: node.ID, Msg: "loop is missing and has a mandatory child segment"}
		}
		return nil, nil
	}
	iterations, ok := raw.([]any)
	if !ok {
		return nil, &Error{Kind: InvalidLength, SegmentID: node.ID, Msg: "loop value must be a list of iterations"}
	}
	if node.Repeat != schema.Unbounded && len(iterations) > node.Repeat {
		return nil, &Error{Kind: TooManyRepetitions, SegmentID: node.ID, Msg: fmt.Sprintf("loop has %d iterations, max %d", len(iterations), node.Repeat)}
	}
	var lines []string
	for _, iter := range iterations {
		iterDoc, ok := iter.(map[string]any)
		if !ok {
			return nil, &Error{Kind: InvalidLength, SegmentID: node.ID, Msg: "loop iteration must be a map"}
		}
		iterLines, err := st.buildNodes(node.Segments, iterDoc)
		if err != nil {
			return nil, err
		}
		lines = append(lines, iterLines...)
	}
	return lines, nil
}

func hasMandatoryChild(nodes []schema.Node) bool {
	for _, n := range nodes {
		if n.Req == schema.Mandatory {
			return true
		}
	}
	return false
}

func (st *state) buildSegmentEntry(node schema.Node, doc map[string]any) ([]string, error) {
	raw, present := doc[node.ID]
	if !present {
		if node.Req == schema.Mandatory {
			return nil, &Error{Kind: MissingMandatorySegment, SegmentID: node.ID, Msg: "segment is missing"}
		}
		return nil, nil
	}

	if isRepeatingSegment(node) {
		items, ok := raw.([]any)
		if !ok {
			return nil, &Error{Kind: InvalidLength, SegmentID: node.ID, Msg: "repeating segment value must be a list"}
		}
		if node.MaxUses != schema.Unbounded && len(items) > node.MaxUses {
			return nil, &Error{Kind: TooManyRepetitions, SegmentID: node.ID, Msg: fmt.Sprintf("segment repeats %d times, max %d", len(items), node.MaxUses)}
		}
		lines := make([]string, 0, len(items))
		for _, item := range items {
			line, err := st.buildSegment(node, item)
			if err != nil {
				return nil, err
			}
			lines = append(lines, line)
		}
		return lines, nil
	}

	line, err := st.buildSegment(node, raw)
	if err != nil {
		return nil, err
	}
	return []string{line}, nil
}

func isRepeatingSegment(node schema.Node) bool {
	return node.MaxUses == schema.Unbounded || node.MaxUses > 1
}

// buildSegment formats one segment line: the caller's value may be either
// the positional-list form or the named-map form (document.ToElementList
// bridges the latter), each schema element is formatted per its
// data_type, syntax rules are checked over the laid-out slots, and
// trailing empty slots are trimmed before emission.
func (st *state) buildSegment(node schema.Node, value any) (string, error) {
	shapes := elementShapes(node)
	var positional []any
	switch v := value.(type) {
	case []any:
		positional = v
	case map[string]any:
		positional = document.ToElementList(node.ID, shapes, v)
	default:
		return "", &Error{Kind: InvalidLength, SegmentID: node.ID, Msg: "segment value must be a list or map"}
	}

	slots := make([]string, len(node.Elements)+1)
	slots[0] = node.ID
	for i, elemNode := range node.Elements {
		var val any
		if i < len(positional) {
			val = positional[i]
		}
		text, err := st.formatElement(elemNode, val)
		if err != nil {
			return "", wrapSegment(node.ID, err)
		}
		slots[i+1] = text
	}

	if err := checkSyntaxRules(node.ID, node.Syntax, slots); err != nil {
		return "", err
	}

	trimmed := trimTrailingEmpty(slots[1:])
	parts := append([]string{node.ID}, trimmed...)
	return strings.Join(parts, st.delims.Element), nil
}

func (st *state) formatElement(elemNode schema.Node, value any) (string, error) {
	if elemNode.IsComposite() {
		return st.formatComposite(elemNode, value)
	}
	if elemNode.DataType == "" {
		s := formatString(value)
		if s != "" {
			st.delims.Component = s
		}
		return s, nil
	}
	return formatScalar(elemNode, value)
}

func (st *state) formatComposite(elemNode schema.Node, value any) (string, error) {
	subs, _ := value.([]any)
	parts := make([]string, len(elemNode.Elements))
	for i, sub := range elemNode.Elements {
		var v any
		if i < len(subs) {
			v = subs[i]
		}
		text, err := formatScalar(sub, v)
		if err != nil {
			return "", err
		}
		parts[i] = text
	}
	return strings.Join(parts, st.delims.Component), nil
}

func elementShapes(node schema.Node) []document.ElementShape {
	shapes := make([]document.ElementShape, len(node.Elements))
	for i, el := range node.Elements {
		if el.IsComposite() {
			shapes[i] = document.ElementShape{Sub: len(el.Elements)}
		}
	}
	return shapes
}

func trimTrailingEmpty(slots []string) []string {
	end := len(slots)
	for end > 0 && slots[end-1] == "" {
		end--
	}
	return slots[:end]
}
