package validator

import (
	"fmt"

	"x12codec/schema"
)

var requiredEnvelopeSegments = []string{"ISA", "ST", "SE", "IEA"}

// validator accumulates findings across one Validate call.
type validator struct {
	errors []Error
}

func (v *validator) add(kind, name, segment, message string) {
	v.errors = append(v.errors, Error{Kind: kind, Name: name, Segment: segment, Message: message})
}

// Validate never aborts: it accumulates every violation found against
// nodes and returns them. doc is the decoder's named-map document shape
// (element-name keys), the same shape Decode produces.
func Validate(doc map[string]any, nodes []schema.Node) []Error {
	v := &validator{}

	for _, segID := range requiredEnvelopeSegments {
		if _, ok := doc[segID]; !ok {
			v.add(segID, segID, "", "required segment not found")
		}
	}

	v.validateChildren("", doc, nodes)
	return v.errors
}

// validateChildren is the generic structural recursion: a map is a
// segment/loop/document level (validated against schemas by id), a list
// is a repetition of the same shape (validated element-wise against the
// same schemas).
func (v *validator) validateChildren(parentID string, children any, schemas []schema.Node) {
	if len(schemas) == 0 {
		v.add(fmt.Sprintf("%T", children), "", "", "children have no associated schema list")
		return
	}

	switch c := children.(type) {
	case map[string]any:
		v.validateRequired(c, schemas)
		for name, data := range c {
			childSchema, found := findSchemaNode(schemas, name)
			if !found {
				v.add(fmt.Sprintf("%T", name), name, "", fmt.Sprintf("found unexpected child for schema list: %v", schemaIDList(schemas)))
				continue
			}
			_, isMap := data.(map[string]any)
			_, isList := data.([]any)
			if (isMap || isList) && childSchema.Type != schema.Composite {
				switch childSchema.Type {
				case schema.Segment:
					v.validateSegment(name, data, childSchema)
				case schema.Loop:
					v.validateLoop(name, data, childSchema)
				default:
					v.add(string(childSchema.Type), name, "", fmt.Sprintf("unknown type %q", childSchema.Type))
				}
				v.validateChildren(name, data, getChildSchemas(childSchema))
			} else {
				switch childSchema.Type {
				case schema.Element:
					v.validateElement(parentID, name, data, childSchema)
				case schema.Composite:
					v.validateComposite(parentID, name, data, childSchema)
				default:
					if data != nil {
						v.add(string(childSchema.Type), name, "", fmt.Sprintf("unexpected type %q", childSchema.Type))
					}
				}
			}
		}
	case []any:
		for _, each := range c {
			v.validateChildren(parentID, each, schemas)
		}
	default:
		v.add(fmt.Sprintf("%T", children), "", "", "children must be a map or list")
	}
}

func (v *validator) validateComposite(parentID, name string, data any, compSchema schema.Node) {
	comp, ok := data.(map[string]any)
	if !ok {
		return
	}
	compSchemas := getChildSchemas(compSchema)
	for compName, compData := range comp {
		if compElemSchema, found := findSchemaNode(compSchemas, compName); found {
			v.validateElement(parentID, compName, compData, compElemSchema)
		}
	}
}

// validateRequired checks that every mandatory segment/loop child is
// present in children.
func (v *validator) validateRequired(children map[string]any, schemas []schema.Node) {
	for _, s := range schemas {
		if (s.Type == schema.Segment || s.Type == schema.Loop) && s.Req == schema.Mandatory {
			if _, ok := children[s.ID]; !ok {
				v.add(string(s.Type), s.ID, "", fmt.Sprintf("missing required %s", s.Type))
			}
		}
	}
}

// validateLoop checks loop cardinality.
func (v *validator) validateLoop(loopID string, data any, loopSchema schema.Node) {
	list, _ := data.([]any)
	if loopSchema.Repeat != schema.Unbounded && len(list) > loopSchema.Repeat {
		v.add("loop", loopID, "", fmt.Sprintf("loop repeats %d times, max allowed is %d", len(list), loopSchema.Repeat))
	}
}

// validateSegment checks segment cardinality then validates each
// occurrence.
func (v *validator) validateSegment(segID string, data any, segSchema schema.Node) {
	if list, ok := data.([]any); ok {
		if segSchema.MaxUses != schema.Unbounded && len(list) > segSchema.MaxUses {
			v.add("segment", segID, segID, fmt.Sprintf("segment repeats %d times, max allowed is %d", len(list), segSchema.MaxUses))
		}
		for _, item := range list {
			if seg, ok := item.(map[string]any); ok {
				v.validateSingleSegment(segID, seg, segSchema)
			}
		}
		return
	}
	if seg, ok := data.(map[string]any); ok {
		v.validateSingleSegment(segID, seg, segSchema)
	}
}

// validateSingleSegment checks the element-count bound and syntax rules
// over one occurrence of the segment.
func (v *validator) validateSingleSegment(segID string, segData map[string]any, segSchema schema.Node) {
	if len(segData) > len(segSchema.Elements) {
		v.add("segment", segID, segID, fmt.Sprintf("segment contains more elements than definition: defined %d, found %d", len(segSchema.Elements), len(segData)))
	}
	v.checkSyntaxRules(segID, segSchema.Syntax, segData)
}

func getChildSchemas(node schema.Node) []schema.Node {
	if node.Type == schema.Loop {
		return node.Segments
	}
	return node.Elements
}

func findSchemaNode(schemas []schema.Node, id string) (schema.Node, bool) {
	for _, n := range schemas {
		if n.ID == id {
			return n, true
		}
	}
	return schema.Node{}, false
}

func schemaIDList(schemas []schema.Node) []string {
	ids := make([]string, len(schemas))
	for i, n := range schemas {
		ids[i] = n.ID
	}
	return ids
}
