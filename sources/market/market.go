// Package market holds the listing and ticket workflows that span more than
// one repository call: bulk file import, multi-create, bulk status actions,
// and the ticket sale that marks every requested domain sold.
package market

import (
	"context"
	"errors"

	"domainhub/sources/configuration"
	"domainhub/sources/metrics"
	"domainhub/sources/realtime"
	"domainhub/sources/repository"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownAction     = errors.New("unknown action")
)

// Notifier delivers events to the admin feed.
type Notifier interface {
	Notify(ctx context.Context, event realtime.Event)
}

type Market struct {
	domains  *repository.DomainsRepository
	tickets  *repository.TicketsRepository
	metrics  *metrics.MetricsService
	notifier Notifier
	config   configuration.MarketConfig
}

func NewMarket(
	config *configuration.Config,
	domains *repository.DomainsRepository,
	tickets *repository.TicketsRepository,
	metrics *metrics.MetricsService,
	notifier Notifier,
) *Market {
	return &Market{
		domains:  domains,
		tickets:  tickets,
		metrics:  metrics,
		notifier: notifier,
		config:   config.Market,
	}
}

func (m *Market) notify(ctx context.Context, event realtime.Event) {
	if m.notifier != nil {
		m.notifier.Notify(ctx, event)
	}
}
