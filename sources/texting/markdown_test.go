package texting

import (
	"testing"
)

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Plain text",
			input:    "Hello world",
			expected: "Hello world",
		},
		{
			name:     "Domain name dots",
			input:    "shop.example.com",
			expected: "shop\\.example\\.com",
		},
		{
			name:     "Hyphenated name",
			input:    "my-site.io",
			expected: "my\\-site\\.io",
		},
		{
			name:     "Username with underscores",
			input:    "@domain_buyer",
			expected: "@domain\\_buyer",
		},
		{
			name:     "Price with currency",
			input:    "$1,250.00 (negotiable!)",
			expected: "$1,250\\.00 \\(negotiable\\!\\)",
		},
		{
			name:     "Every reserved character",
			input:    "_*[]()~`>#+-=|{}.!\\",
			expected: "\\_\\*\\[\\]\\(\\)\\~\\`\\>\\#\\+\\-\\=\\|\\{\\}\\.\\!\\\\",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EscapeMarkdown(tt.input)
			if result != tt.expected {
				t.Errorf("EscapeMarkdown() = %q, expected %q", result, tt.expected)
			}
		})
	}
}

func TestEscapedWidth(t *testing.T) {
	input := "a.b-c_d \\ é!"
	width := 0
	for _, r := range input {
		width += EscapedWidth(r)
	}
	if expected := len([]rune(EscapeMarkdown(input))); width != expected {
		t.Errorf("EscapedWidth() total = %d, expected %d", width, expected)
	}
}
