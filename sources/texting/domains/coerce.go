package domains

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidPrice = errors.New("invalid price")

// ParseFlag accepts booleans and the textual spellings used by the admin panel
// and spreadsheet exports ("true", "Available", "Posted", "yes", "1").
func ParseFlag(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v == 1
	case int:
		return v == 1
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "available", "posted", "yes", "1":
			return true
		}
	}
	return false
}

// ParseCount reads a leading integer, falling back to zero. Negative values clamp to zero.
func ParseCount(value any) int {
	var n int

	switch v := value.(type) {
	case float64:
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			n = int(v)
		}
	case int:
		n = v
	case string:
		n = leadingInt(strings.TrimSpace(v))
	}

	if n < 0 {
		return 0
	}
	return n
}

// ParsePrice reads a monetary amount rounded to cents. A currency sign and
// thousands separators are tolerated.
func ParsePrice(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, ErrInvalidPrice
		}
		return decimal.NewFromFloat(v).Round(2), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case decimal.Decimal:
		return v.Round(2), nil
	case string:
		s := strings.TrimSpace(v)
		s = strings.TrimPrefix(s, "$")
		s = strings.ReplaceAll(s, ",", "")
		s = strings.ReplaceAll(s, " ", "")
		if s == "" {
			return decimal.Zero, ErrInvalidPrice
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, v)
		}
		return d.Round(2), nil
	case nil:
		return decimal.Zero, ErrInvalidPrice
	}
	return decimal.Zero, fmt.Errorf("%w: unsupported type %T", ErrInvalidPrice, value)
}

// ParseText returns trimmed string values; numbers are rendered as text.
func ParseText(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func leadingInt(s string) int {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
