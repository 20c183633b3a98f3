package encoder

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/duke-git/lancet/v2/strutil"

	"x12codec/schema"
)

// formatScalar converts one document value into its wire text according
// to node's data_type, then right-pads to length.min and truncates to
// length.max. node must be an element (not a composite). A nil or
// empty-string value (element absent from the document) stays the empty
// string with no padding applied, so a missing optional trailing element
// trims away cleanly instead of becoming a run of spaces.
func formatScalar(node schema.Node, value any) (string, error) {
	if value == nil || value == "" {
		return "", nil
	}
	text, err := formatByDataType(node, value)
	if err != nil {
		return "", err
	}
	if node.DataLen != nil {
		text = strutil.PadEnd(text, node.DataLen.Min, " ")
		if node.DataLen.Max > 0 && len([]rune(text)) > node.DataLen.Max {
			text = strutil.Substring(text, 0, uint(node.DataLen.Max))
		}
	}
	return text, nil
}

func formatByDataType(node schema.Node, value any) (string, error) {
	dataType := strings.ToUpper(node.DataType)
	switch {
	case dataType == "" || dataType == string(schema.AN) || dataType == string(schema.ID):
		return formatString(value), nil
	case dataType == string(schema.DT):
		return formatDate(node, value)
	case dataType == string(schema.TM):
		return formatTime(value)
	case dataType == string(schema.R):
		return formatReal(value)
	default:
		if places, ok := schema.ImplicitDecimalPlaces(dataType); ok {
			return formatImplicitDecimal(node, value, places)
		}
		return "", &Error{Kind: UnknownDataType, ElementID: node.ID, Msg: fmt.Sprintf("unknown data type %q", node.DataType)}
	}
}

func formatString(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func formatDate(node schema.Node, value any) (string, error) {
	if value == nil {
		return "", nil
	}
	t, err := asTime(value)
	if err != nil {
		return "", &Error{Kind: UnknownDataType, ElementID: node.ID, Msg: err.Error()}
	}
	if node.DataLen != nil && node.DataLen.Max == 6 {
		return t.Format("060102"), nil
	}
	return t.Format("20060102"), nil
}

func formatTime(value any) (string, error) {
	if value == nil {
		return "", nil
	}
	t, err := asTime(value)
	if err != nil {
		return "", &Error{Kind: UnknownDataType, Msg: err.Error()}
	}
	return t.Format("1504"), nil
}

func asTime(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		for _, layout := range []string{"2006-01-02T15:04:05Z07:00", "2006-01-02", "20060102"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("value %v is not a date/time", value)
}

func formatReal(value any) (string, error) {
	if value == nil {
		return "", nil
	}
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int:
		return strconv.Itoa(v), nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("value %v is not a real number", value)
	}
}

// formatImplicitDecimal renders value as a fixed-point integer string with
// places implicit decimal digits, zero-padded on the left to length.min,
// with no radix point. The scaled value is rounded to the nearest integer
// rather than truncated, so a value whose scaled fraction falls exactly
// between two integers resolves the same way consistently.
func formatImplicitDecimal(node schema.Node, value any, places int) (string, error) {
	if value == nil {
		return "", nil
	}
	f, err := toFloat(value)
	if err != nil {
		return "", &Error{Kind: UnknownDataType, ElementID: node.ID, Msg: err.Error()}
	}
	scaled := int64(math.Round(f * math.Pow10(places)))
	digits := strconv.FormatInt(scaled, 10)
	minWidth := 0
	if node.DataLen != nil {
		minWidth = node.DataLen.Min
	}
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}
	for len(digits) < minWidth {
		digits = "0" + digits
	}
	if neg {
		digits = "-" + digits
	}
	return digits, nil
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not numeric", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("value %v is not numeric", value)
	}
}
