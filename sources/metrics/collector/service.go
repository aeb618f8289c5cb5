package collector

import (
	"context"
	"time"

	"domainhub/sources/metrics"
	"domainhub/sources/persistence/entities"
	"domainhub/sources/platform"
	"domainhub/sources/repository"
	"domainhub/sources/tracing"
)

const collectInterval = time.Minute

type StatsCollector struct {
	log         *tracing.Logger
	metrics     *metrics.MetricsService
	domains     *repository.DomainsRepository
	tickets     *repository.TicketsRepository
	comments    *repository.CommentsRepository
	subscribers *repository.SubscribersRepository
	stop        chan struct{}
}

func NewStatsCollector(
	log *tracing.Logger,
	metrics *metrics.MetricsService,
	domains *repository.DomainsRepository,
	tickets *repository.TicketsRepository,
	comments *repository.CommentsRepository,
	subscribers *repository.SubscribersRepository,
) *StatsCollector {
	return &StatsCollector{
		log:         log,
		metrics:     metrics,
		domains:     domains,
		tickets:     tickets,
		comments:    comments,
		subscribers: subscribers,
		stop:        make(chan struct{}),
	}
}

// Start refreshes the gauges now and then once per interval until Stop.
func (s *StatsCollector) Start() {
	go s.run()
}

func (s *StatsCollector) Stop() {
	close(s.stop)
}

func (s *StatsCollector) run() {
	ticker := time.NewTicker(collectInterval)
	defer ticker.Stop()

	s.collectStats(context.Background())

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.collectStats(context.Background())
		}
	}
}

func (s *StatsCollector) collectStats(ctx context.Context) {
	if count, err := s.domains.CountDomains(ctx, s.log, repository.DomainFilter{Available: platform.Ptr(true)}); err == nil {
		s.metrics.SetAvailableDomains(float64(count))
	} else {
		s.log.E("Failed to collect available domains stats", tracing.InnerError, err)
	}

	if count, err := s.domains.CountDomains(ctx, s.log, repository.DomainFilter{Posted: platform.Ptr(true)}); err == nil {
		s.metrics.SetPostedDomains(float64(count))
	} else {
		s.log.E("Failed to collect posted domains stats", tracing.InnerError, err)
	}

	if count, err := s.tickets.CountTicketsByStatus(ctx, s.log, entities.TicketStatusNew); err == nil {
		s.metrics.SetNewTickets(float64(count))
	} else {
		s.log.E("Failed to collect new tickets stats", tracing.InnerError, err)
	}

	if count, err := s.comments.CountNewComments(ctx, s.log); err == nil {
		s.metrics.SetNewComments(float64(count))
	} else {
		s.log.E("Failed to collect new comments stats", tracing.InnerError, err)
	}

	if count, err := s.subscribers.CountSubscribers(ctx, s.log); err == nil {
		s.metrics.SetSubscribers(float64(count))
	} else {
		s.log.E("Failed to collect subscribers stats", tracing.InnerError, err)
	}
}
