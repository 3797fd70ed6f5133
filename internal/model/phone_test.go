package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPhone(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"2105551234", "(210) 555-1234"},
		{"(210) 555-1234", "(210) 555-1234"},
		{"210.555.1234", "(210) 555-1234"},
		{"+1 210 555 1234", "(210) 555-1234"},
		{"12105551234", "(210) 555-1234"},
		{"555-1234", "555-1234"}, // too short, returned trimmed
		{"  +44 20 7946 0958 ", "+44 20 7946 0958"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatPhone(c.in), "input %q", c.in)
	}
}
