package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Plain", input: "groceries", want: "groceries"},
		{name: "Percent", input: "100% cotton", want: `100\% cotton`},
		{name: "Underscore", input: "gift_card", want: `gift\_card`},
		{name: "Backslash", input: `a\b`, want: `a\\b`},
		{name: "Mixed", input: `50%_\`, want: `50\%\_\\`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeLike(tt.input))
		})
	}
}
