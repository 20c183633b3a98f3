package decoder

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"x12codec/schema"
)

// parseElement converts field's wire text into a document scalar per
// node's data_type. A nil return always means "this slot carries no
// value", never a zero scalar.
func parseElement(node schema.Node, field string) (any, error) {
	switch strings.ToUpper(node.DataType) {
	case string(schema.DT):
		return parseDate(field)
	case string(schema.TM):
		return parseTime(field)
	case string(schema.R):
		return parseReal(node, field)
	case string(schema.AN), string(schema.ID), "":
		if field == "" {
			return nil, nil
		}
		return field, nil
	default:
		places, ok := schema.ImplicitDecimalPlaces(node.DataType)
		if !ok {
			return field, nil
		}
		return parseImplicitDecimal(node, field, places)
	}
}

func parseDate(field string) (any, error) {
	switch len(field) {
	case 8:
		t, err := time.Parse("20060102", field)
		if err != nil {
			return nil, fmt.Errorf("date %q does not match YYYYMMDD: %w", field, err)
		}
		return t, nil
	case 6:
		t, err := time.Parse("060102", field)
		if err != nil {
			return nil, fmt.Errorf("date %q does not match YYMMDD: %w", field, err)
		}
		return t, nil
	case 0:
		return nil, nil
	default:
		return field, nil
	}
}

// parseTime treats a length other than 4 or 6 (including empty) as the
// value being unset rather than an error.
func parseTime(field string) (any, error) {
	switch len(field) {
	case 4:
		t, err := time.Parse("1504", field)
		if err != nil {
			return nil, fmt.Errorf("time %q does not match HHMM: %w", field, err)
		}
		return t, nil
	case 6:
		t, err := time.Parse("150405", field)
		if err != nil {
			return nil, fmt.Errorf("time %q does not match HHMMSS: %w", field, err)
		}
		return t, nil
	default:
		return nil, nil
	}
}

func parseReal(node schema.Node, field string) (any, error) {
	if field == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return nil, fmt.Errorf("value %q is not a real number: %w", field, err)
	}
	return f, nil
}

// parseImplicitDecimal parses an N0..N9 field. N0 (places == 0) is a bare
// integer. For places > 0, an explicit decimal point is rejected outright
// rather than silently misaligning the scale when an input carries more
// fractional digits than the schema declares.
func parseImplicitDecimal(node schema.Node, field string, places int) (any, error) {
	if field == "" {
		return nil, nil
	}
	if places == 0 {
		n, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("value %q is not an integer: %w", field, err)
		}
		return n, nil
	}
	if strings.Contains(field, ".") {
		return nil, fmt.Errorf("value %q carries an explicit decimal point, which N%d does not permit", field, places)
	}
	n, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("value %q is not numeric: %w", field, err)
	}
	return float64(n) / math.Pow10(places), nil
}
