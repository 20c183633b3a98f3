package validator

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"x12codec/document"
	"x12codec/schema"
)

// checkSyntaxRules re-implements the encoder's three segment-level syntax
// checks independently, over the named-map shape a decoded segment
// carries (element-name keys) rather than the encoder's positional slot
// array.
func (v *validator) checkSyntaxRules(segID string, rules []schema.SyntaxRule, segData map[string]any) {
	for _, rule := range rules {
		v.checkSyntaxRule(segID, rule, segData)
	}
}

func (v *validator) checkSyntaxRule(segID string, rule schema.SyntaxRule, segData map[string]any) {
	present := func(idx int) bool {
		return isPresentValue(segData[document.ElementName(segID, idx)])
	}

	switch rule.Kind {
	case schema.AtLeastOne:
		if lo.CountBy(rule.Criteria, present) == 0 {
			v.add("segment", segID, segID, fmt.Sprintf("at least one of %s is required", joinCriteria(segID, rule.Criteria)))
		}
	case schema.AllOrNone:
		count := lo.CountBy(rule.Criteria, present)
		if count != 0 && count != len(rule.Criteria) {
			v.add("segment", segID, segID, fmt.Sprintf("if one of %s is present, all are required", joinCriteria(segID, rule.Criteria)))
		}
	case schema.IfAtLeastOne:
		if len(rule.Criteria) == 0 || !present(rule.Criteria[0]) {
			return
		}
		rest := rule.Criteria[1:]
		if !lo.SomeBy(rest, present) {
			v.add("segment", segID, segID, fmt.Sprintf("if %s is present, at least one of %s is required",
				document.ElementName(segID, rule.Criteria[0]), joinCriteria(segID, rest)))
		}
	}
}

func isPresentValue(value any) bool {
	switch val := value.(type) {
	case nil:
		return false
	case string:
		return val != ""
	default:
		return true
	}
}

func joinCriteria(segID string, idxs []int) string {
	names := make([]string, len(idxs))
	for i, idx := range idxs {
		names[i] = document.ElementName(segID, idx)
	}
	return strings.Join(names, ", ")
}

// validateElement is the per-element leaf check: presence vs. req,
// data-type conformance, code-list membership, and length bounds.
func (v *validator) validateElement(segID, elemID string, value any, node schema.Node) {
	if value == nil {
		switch node.Req {
		case schema.Mandatory:
			v.add("element", elemID, segID, fmt.Sprintf("element is mandatory in segment %q", segID))
		case schema.Optional, schema.Conditional:
		default:
			v.add("element", elemID, "", fmt.Sprintf("unknown req value %q when processing element in segment %q", node.Req, segID))
		}
		return
	}

	dataType := strings.ToUpper(node.DataType)
	var minLen, maxLen int
	if node.DataLen != nil {
		minLen, maxLen = node.DataLen.Min, node.DataLen.Max
	}
	_, isImplicitDecimal := schema.ImplicitDecimalPlaces(dataType)

	switch {
	case dataType == string(schema.DT):
		if maxLen != 6 && maxLen != 8 {
			v.add("element", elemID, segID, fmt.Sprintf("invalid length (%d) for date field in segment %q", maxLen, segID))
		}
		if _, ok := value.(time.Time); !ok {
			v.add("element", elemID, segID, fmt.Sprintf("invalid data type (%T) for date field in segment %q", value, segID))
		}
	case dataType == string(schema.TM):
		if maxLen != 4 && maxLen != 6 && maxLen != 7 && maxLen != 8 {
			v.add("element", elemID, segID, fmt.Sprintf("invalid length (%d) for time field in segment %q", maxLen, segID))
		}
		if _, ok := value.(time.Time); !ok {
			v.add("element", elemID, "", fmt.Sprintf("invalid data type (%T) for time field in segment %q", value, segID))
		}
	case dataType == string(schema.R):
		if !isFloat(value) {
			v.add("element", elemID, segID, fmt.Sprintf("invalid data type (%T) for decimal field in segment %q", value, segID))
		}
	case isImplicitDecimal:
		if !isNumeric(value) {
			v.add("element", elemID, segID, fmt.Sprintf("invalid data type (%T) for number field in segment %q", value, segID))
		}
	case dataType == string(schema.ID):
		if codes := node.ResolvedCodes(); len(codes) > 0 {
			s := fmt.Sprintf("%v", value)
			if _, ok := codes[s]; !ok {
				v.add("element", elemID, segID, fmt.Sprintf("invalid data value %q for id field in segment %q, valid values: %s", s, segID, codeListString(codes)))
			}
		}
	}

	if dataType == string(schema.DT) || dataType == string(schema.TM) {
		return
	}
	dataLen := len([]rune(fmt.Sprintf("%v", value)))
	if isImplicitDecimal {
		if dataLen > maxLen {
			v.add("element", elemID, segID, fmt.Sprintf("element data length %d greater than %d in segment %q", dataLen, maxLen, segID))
		}
		return
	}
	if dataLen < minLen || dataLen > maxLen {
		v.add("element", elemID, segID, fmt.Sprintf("element data length %d outside range of %d to %d in segment %q", dataLen, minLen, maxLen, segID))
	}
}

func isFloat(v any) bool {
	switch v.(type) {
	case float64, float32:
		return true
	}
	return false
}

func isNumeric(v any) bool {
	switch v.(type) {
	case float64, float32, int, int64:
		return true
	}
	return false
}

func codeListString(codes map[string]string) string {
	asAny := make(map[string]any, len(codes))
	for k := range codes {
		asAny[k] = struct{}{}
	}
	keys := document.SortedKeys(asAny)
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = fmt.Sprintf("%q", k)
	}
	return strings.Join(quoted, ", ")
}
