package texting

import (
	"reflect"
	"testing"
)

func TestParseCmdArgs(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Space separated",
			input:    "a.com b.com",
			expected: []string{"a.com", "b.com"},
		},
		{
			name:     "Quoted argument",
			input:    "a.com --note 'call me after six'",
			expected: []string{"a.com", "--note", "call me after six"},
		},
		{
			name:     "Escaped quote",
			input:    `--note 'it\'s urgent'`,
			expected: []string{"--note", "it's urgent"},
		},
		{
			name:     "Double quotes",
			input:    `--note "two words" c.org`,
			expected: []string{"--note", "two words", "c.org"},
		},
		{
			name:     "Newlines and tabs",
			input:    "a.com\nb.com\tc.com",
			expected: []string{"a.com", "b.com", "c.com"},
		},
		{
			name:     "Backslash kept before other characters",
			input:    `path\x`,
			expected: []string{`path\x`},
		},
		{
			name:     "Extra spaces",
			input:    "  a.com   b.com  ",
			expected: []string{"a.com", "b.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseCmdArgs(tt.input)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("ParseCmdArgs() = %q, expected %q", result, tt.expected)
			}
		})
	}
}
