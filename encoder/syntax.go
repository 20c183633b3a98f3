package encoder

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"x12codec/schema"
)

// checkSyntaxRules enforces a segment's syntax rules against its laid-out
// slots, where slots[0] is the segment id (a non-empty sentinel) so
// criteria indices stay one-based and address slots[1:] directly.
func checkSyntaxRules(segID string, rules []schema.SyntaxRule, slots []string) error {
	for _, rule := range rules {
		if err := checkSyntaxRule(segID, rule, slots); err != nil {
			return err
		}
	}
	return nil
}

func checkSyntaxRule(segID string, rule schema.SyntaxRule, slots []string) error {
	present := func(idx int) bool {
		return idx >= 0 && idx < len(slots) && slots[idx] != ""
	}

	switch rule.Kind {
	case schema.AtLeastOne:
		count := lo.CountBy(rule.Criteria, func(idx int) bool { return present(idx) })
		if count == 0 {
			return &Error{Kind: SyntaxRuleViolation, SegmentID: segID, Msg: fmt.Sprintf("ATLEASTONE(%s) not satisfied", joinCriteria(segID, rule.Criteria))}
		}
	case schema.AllOrNone:
		count := lo.CountBy(rule.Criteria, func(idx int) bool { return present(idx) })
		if count != 0 && count != len(rule.Criteria) {
			return &Error{Kind: SyntaxRuleViolation, SegmentID: segID, Msg: fmt.Sprintf("ALLORNONE(%s) not satisfied", joinCriteria(segID, rule.Criteria))}
		}
	case schema.IfAtLeastOne:
		if len(rule.Criteria) == 0 {
			return nil
		}
		if !present(rule.Criteria[0]) {
			return nil
		}
		rest := rule.Criteria[1:]
		if ok := lo.SomeBy(rest, func(idx int) bool { return present(idx) }); !ok {
			return &Error{Kind: SyntaxRuleViolation, SegmentID: segID, Msg: fmt.Sprintf("IFATLEASTONE(%s) not satisfied", joinCriteria(segID, rule.Criteria))}
		}
	}
	return nil
}

func joinCriteria(segID string, criteria []int) string {
	names := make([]string, len(criteria))
	for i, idx := range criteria {
		names[i] = fmt.Sprintf("%s%02d", segID, idx)
	}
	return strings.Join(names, ", ")
}
