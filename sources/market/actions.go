package market

import (
	"context"
	"fmt"
	"strings"

	"domainhub/sources/tracing"
)

type Action string

const (
	ActionSold      Action = "sold"
	ActionAvailable Action = "available"
	ActionPost      Action = "post"
	ActionUnpost    Action = "unpost"
	ActionDelete    Action = "delete"
)

func ParseAction(value string) (Action, error) {
	action := Action(strings.ToLower(strings.TrimSpace(value)))
	switch action {
	case ActionSold, ActionAvailable, ActionPost, ActionUnpost, ActionDelete:
		return action, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, value)
}

// ApplyDomainAction moves one listing between available/sold or
// posted/unposted, or deletes it. Repeating an action is harmless.
func (m *Market) ApplyDomainAction(ctx context.Context, logger *tracing.Logger, id string, action Action) error {
	switch action {
	case ActionSold:
		return m.domains.SetAvailability(ctx, logger, id, false)
	case ActionAvailable:
		return m.domains.SetAvailability(ctx, logger, id, true)
	case ActionPost:
		return m.domains.SetPosted(ctx, logger, id, true)
	case ActionUnpost:
		return m.domains.SetPosted(ctx, logger, id, false)
	case ActionDelete:
		return m.domains.DeleteDomain(ctx, logger, id)
	}
	return fmt.Errorf("%w: %q", ErrUnknownAction, action)
}
