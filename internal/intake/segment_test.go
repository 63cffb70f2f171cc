package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"typical", "mesa az, wedding, pu at 9pm, 30 people", []string{"mesa az", "wedding", "pu at 9pm", "30 people"}},
		{"drops empty fragments", " ,a,, b ,", []string{"a", "b"}},
		{"no commas", "dallas pu", []string{"dallas pu"}},
		{"empty", "", []string{}},
		{"whitespace only", "   ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Segment(tt.input))
		})
	}
}
