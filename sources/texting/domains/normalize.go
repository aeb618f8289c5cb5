package domains

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/net/idna"
)

var ErrInvalidDomainName = errors.New("invalid domain name")

const (
	maxNameLength  = 253
	maxLabelLength = 63
)

// Normalize reduces user input (bare names, URLs, host:port pairs) to the
// canonical lowercase ASCII form used as the listing key.
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidDomainName)
	}

	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, "@"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, ":"); i >= 0 && isDigits(s[i+1:]) {
		s = s[:i]
	}

	s = strings.ToLower(strings.TrimRight(s, "."))
	s = strings.TrimPrefix(s, "www.")

	ascii, err := idna.Lookup.ToASCII(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidDomainName, raw, err)
	}

	if len(ascii) > maxNameLength {
		return "", fmt.Errorf("%w: %q is too long", ErrInvalidDomainName, raw)
	}

	labels := strings.Split(ascii, ".")
	if len(labels) < 2 {
		return "", fmt.Errorf("%w: %q has no top-level domain", ErrInvalidDomainName, raw)
	}
	for _, label := range labels {
		if label == "" || len(label) > maxLabelLength {
			return "", fmt.Errorf("%w: %q has a bad label", ErrInvalidDomainName, raw)
		}
	}
	if isDigits(labels[len(labels)-1]) {
		return "", fmt.Errorf("%w: %q has a numeric top-level domain", ErrInvalidDomainName, raw)
	}

	return ascii, nil
}

// NormalizeList normalizes every input, drops repeats while keeping the first
// occurrence's position, and returns unparseable inputs separately.
func NormalizeList(raws []string) (valid []string, invalid []string) {
	seen := make(map[string]struct{}, len(raws))
	valid = []string{}

	for _, raw := range raws {
		name, err := Normalize(raw)
		if err != nil {
			invalid = append(invalid, raw)
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		valid = append(valid, name)
	}

	return valid, invalid
}

// Fields splits free text (a chat message, a pasted list) into candidate names.
func Fields(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';'
	})
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
