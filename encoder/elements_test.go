package encoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"x12codec/schema"
)

func TestFormatImplicitDecimalRounding(t *testing.T) {
	node := schema.Node{ID: "TST01", DataType: "N2", DataLen: &schema.Length{Min: 1, Max: 10}}

	cases := []struct {
		name  string
		value float64
		want  string
	}{
		{"clearly past the half cent rounds up", 1.006, "101"},
		{"nearest float64 to 1.005 falls just short of the half cent", 1.005, "100"},
		{"an exact tie rounds away from zero", 0.125, "13"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := formatImplicitDecimal(node, c.value, 2)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}
