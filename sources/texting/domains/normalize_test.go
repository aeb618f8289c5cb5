package domains

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Bare name", input: "example.com", expected: "example.com"},
		{name: "Mixed case and spaces", input: "  Example.COM ", expected: "example.com"},
		{name: "URL with path and query", input: "HTTPS://www.Example.com/path?x=1", expected: "example.com"},
		{name: "Trailing dot", input: "example.com.", expected: "example.com"},
		{name: "Port and userinfo", input: "user@example.com:8080", expected: "example.com"},
		{name: "Subdomain kept", input: "shop.example.co.uk", expected: "shop.example.co.uk"},
		{name: "Internationalized name", input: "münchen.de", expected: "xn--mnchen-3ya.de"},
		{name: "Punycode passes through", input: "xn--mnchen-3ya.de", expected: "xn--mnchen-3ya.de"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizeRejects(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"localhost",
		"exa mple.com",
		"-bad.com",
		"under_score.com",
		"example..com",
		"1.2.3.4",
		"https://",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Normalize(input)
			assert.ErrorIs(t, err, ErrInvalidDomainName)
		})
	}
}

func TestNormalizeList(t *testing.T) {
	valid, invalid := NormalizeList([]string{"B.com", "a.com", "www.b.com", "nope", "a.com"})

	assert.Equal(t, []string{"b.com", "a.com"}, valid)
	assert.Equal(t, []string{"nope"}, invalid)
}

func TestFields(t *testing.T) {
	got := Fields("a.com, b.com;c.com\n d.com\t")
	assert.Equal(t, []string{"a.com", "b.com", "c.com", "d.com"}, got)
}

func TestParseFlag(t *testing.T) {
	for _, truthy := range []any{true, "true", "Available", "Posted", "YES", "1", float64(1)} {
		assert.True(t, ParseFlag(truthy), "%v", truthy)
	}
	for _, falsy := range []any{false, "false", "Sold", "", nil, float64(0), "2"} {
		assert.False(t, ParseFlag(falsy), "%v", falsy)
	}
}

func TestParseCount(t *testing.T) {
	assert.Equal(t, 42, ParseCount("42"))
	assert.Equal(t, 12, ParseCount("12abc"))
	assert.Equal(t, 0, ParseCount("abc"))
	assert.Equal(t, 0, ParseCount("-5"))
	assert.Equal(t, 7, ParseCount(float64(7.9)))
	assert.Equal(t, 0, ParseCount(nil))
}

func TestParsePrice(t *testing.T) {
	got, err := ParsePrice("$1,250.499")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1250.50").Equal(got), got.String())

	got, err = ParsePrice(float64(99.9))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("99.9").Equal(got))

	for _, bad := range []any{"", "abc", nil, true} {
		_, err := ParsePrice(bad)
		assert.ErrorIs(t, err, ErrInvalidPrice, "%v", bad)
	}
}
