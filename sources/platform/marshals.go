package platform

import (
	"fmt"
	"strconv"
	"strings"
)

// UnmarshalText reads a chat id. A leading "~" stands for the minus sign of
// channel and supergroup ids, so "-100..." survives shells and YAML tooling.
func (c *ChatID) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if rest, ok := strings.CutPrefix(raw, "~"); ok {
		raw = "-" + rest
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", string(text), err)
	}

	*c = ChatID(id)
	return nil
}
