package decoder

import (
	"fmt"
	"strings"

	"x12codec/delimiter"
	"x12codec/document"
	"x12codec/schema"
)

// parseSegments walks segs against nodes left-to-right, returning
// first-seen segment/loop order alongside the decoded document. A segment
// id matching nothing in nodes is logged via logUnrecognized and skipped
// rather than failing the whole decode.
func parseSegments(nodes []schema.Node, segs []string, delims delimiter.Set, logUnrecognized func(string)) ([]string, map[string]any, error) {
	var order []string
	doc := make(map[string]any)

	for len(segs) > 0 {
		if segs[0] == "" {
			segs = segs[1:]
			continue
		}
		headSegID := headID(segs[0], delims)

		resultID, value, rest, err, handled := consumeOne(nodes, headSegID, segs, delims)
		if !handled {
			if logUnrecognized != nil {
				logUnrecognized(segs[0])
			}
			segs = segs[1:]
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		segs = rest

		if _, present := doc[resultID]; !present {
			order = append(order, resultID)
		}
		addSegmentValue(doc, resultID, value)
	}

	return order, doc, nil
}

// consumeOne dispatches the head of segs to a single segment, a
// repeating segment, or a loop, according to which node in nodes matches
// its id. handled is false when nothing matches, in which case the
// caller treats segs[0] as unrecognized.
func consumeOne(nodes []schema.Node, headSegID string, segs []string, delims delimiter.Set) (id string, value any, rest []string, err error, handled bool) {
	if node, found := findSegmentNode(nodes, headSegID); found {
		if isRepeatingNode(node) {
			value, rest, err = parseRepeatingSegment(node, segs, delims)
		} else {
			value, err = parseSegment(node, segs[0], delims)
			rest = segs[1:]
			if err != nil {
				rest = segs
			}
		}
		return headSegID, value, rest, err, true
	}
	if loopNode, found := findLoopNode(nodes, headSegID); found {
		value, rest, err = parseLoop(loopNode, segs, delims)
		return loopNode.ID, value, rest, err, true
	}
	return "", nil, segs, nil, false
}

// parseLoop consumes consecutive segments belonging to loop, modeled as
// an AwaitFirst/InIteration/BetweenIterations/Done state machine: a new
// iteration starts when the current segment matches the loop's first
// child id and the accumulator already holds data, and the loop ends the
// moment a segment matches none of its children, returning the
// unconsumed remainder to the caller.
func parseLoop(loop schema.Node, segs []string, delims delimiter.Set) (any, []string, error) {
	var iterations []any
	iterDoc := make(map[string]any)
	firstChildID := loop.Segments[0].ID

	for len(segs) > 0 {
		headSegID := headID(segs[0], delims)

		resultID, value, rest, err, handled := consumeOne(loop.Segments, headSegID, segs, delims)
		if !handled {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		segs = rest

		if resultID == firstChildID && len(iterDoc) > 0 {
			iterations = append(iterations, iterDoc)
			iterDoc = make(map[string]any)
		}
		addSegmentValue(iterDoc, resultID, value)
	}

	if len(iterDoc) > 0 {
		iterations = append(iterations, iterDoc)
	}
	return iterations, segs, nil
}

// parseRepeatingSegment consumes every consecutive segment matching
// node.ID into a list, stopping at the first segment that doesn't.
func parseRepeatingSegment(node schema.Node, segs []string, delims delimiter.Set) ([]any, []string, error) {
	var list []any
	for len(segs) > 0 && headID(segs[0], delims) == node.ID {
		value, err := parseSegment(node, segs[0], delims)
		if err != nil {
			return nil, nil, err
		}
		list = append(list, value)
		segs = segs[1:]
	}
	return list, segs, nil
}

// parseSegment decodes one wire segment line into its element-name-keyed
// map.
func parseSegment(node schema.Node, line string, delims delimiter.Set) (map[string]any, error) {
	fields := strings.Split(line, delims.Element)
	if fields[0] != node.ID {
		return nil, &Error{Kind: SegmentMismatch, SegmentID: node.ID, Msg: fmt.Sprintf("segment %q does not match schema id %q", fields[0], node.ID)}
	}
	payload := fields[1:]
	if len(payload) > len(node.Elements) {
		return nil, &Error{Kind: TooManyElements, SegmentID: node.ID, Msg: fmt.Sprintf("expected at most %d elements, found %d", len(node.Elements), len(payload))}
	}

	out := make(map[string]any, len(node.Elements))
	for i, elemNode := range node.Elements {
		if i >= len(payload) {
			continue
		}
		name := document.ElementName(node.ID, i+1)
		field := payload[i]
		if elemNode.IsComposite() {
			comp, err := parseComposite(node.ID, i+1, elemNode, field, delims)
			if err != nil {
				return nil, err
			}
			out[name] = comp
			continue
		}
		value, err := parseElement(elemNode, field)
		if err != nil {
			return nil, wrapElement(node.ID, elemNode.ID, err)
		}
		out[name] = value
	}
	return out, nil
}

func parseComposite(segID string, idx int, node schema.Node, field string, delims delimiter.Set) (map[string]any, error) {
	subs := strings.Split(field, delims.Component)
	out := make(map[string]any, len(node.Elements))
	for j, sub := range node.Elements {
		if j >= len(subs) {
			continue
		}
		name := document.CompositeElementName(segID, idx, j+1)
		value, err := parseElement(sub, subs[j])
		if err != nil {
			return nil, wrapElement(segID, sub.ID, err)
		}
		out[name] = value
	}
	return out, nil
}

func headID(segment string, delims delimiter.Set) string {
	idx := strings.Index(segment, delims.Element)
	if idx < 0 {
		return segment
	}
	return segment[:idx]
}

func findSegmentNode(nodes []schema.Node, id string) (schema.Node, bool) {
	for _, n := range nodes {
		if n.Type == schema.Segment && n.ID == id {
			return n, true
		}
	}
	return schema.Node{}, false
}

func findLoopNode(nodes []schema.Node, segID string) (schema.Node, bool) {
	for _, n := range nodes {
		if n.Type != schema.Loop {
			continue
		}
		if n.ID == document.LoopName(segID) || n.ID == document.SetName(segID) {
			return n, true
		}
	}
	return schema.Node{}, false
}

func isRepeatingNode(n schema.Node) bool {
	return n.MaxUses == schema.Unbounded || n.MaxUses > 1
}

// addSegmentValue records value under key id, promoting an existing entry
// to a list on a second occurrence — tolerant decoding of a same-id
// collision the schema didn't predict; validation surfaces the resulting
// cardinality violation separately.
func addSegmentValue(doc map[string]any, id string, value any) {
	existing, present := doc[id]
	if !present {
		doc[id] = value
		return
	}
	list, ok := existing.([]any)
	if !ok {
		list = []any{existing}
	}
	if appended, ok := value.([]any); ok {
		list = append(list, appended...)
	} else {
		list = append(list, value)
	}
	doc[id] = list
}
