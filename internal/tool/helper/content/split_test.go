package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single line", "a", []string{"a"}},
		{"trailing LF", "a\nb\n", []string{"a", "b"}},
		{"only LF", "\n", []string{""}},
		{"CRLF", "a\r\nb\r\n", []string{"a", "b"}},
		{"mixed", "a\nb\r\nc", []string{"a", "b", "c"}},
		{"lone CR is content", "a\rb", []string{"a\rb"}},
		{"blank lines kept", "a\n\nb", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.input))
		})
	}
}
