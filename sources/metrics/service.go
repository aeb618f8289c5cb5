package metrics

import (
	"strconv"
	"time"

	"domainhub/sources/tracing"

	"github.com/prometheus/client_golang/prometheus"
)

type MetricsService struct {
	log *tracing.Logger
}

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domainhub_http_requests_total",
			Help: "Total number of API requests served",
		},
		[]string{"route", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "domainhub_http_request_duration_seconds",
			Help:    "Duration of API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	botUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domainhub_bot_updates_total",
			Help: "Total number of bot updates received by the poller",
		},
		[]string{"kind"},
	)

	commandsUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domainhub_bot_commands_used_total",
			Help: "Total number of bot commands and callbacks used",
		},
		[]string{"command"},
	)

	gateOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domainhub_bot_gate_outcomes_total",
			Help: "Total number of channel membership checks by outcome",
		},
		[]string{"outcome"},
	)

	joinApprovals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domainhub_bot_join_approvals_total",
			Help: "Total number of channel join requests by outcome",
		},
		[]string{"outcome"},
	)

	leadsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domainhub_leads_total",
			Help: "Total number of leads by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	messagesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domainhub_bot_messages_sent_total",
			Help: "Total number of messages sent by the diplomat",
		},
		[]string{"status"},
	)

	importRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domainhub_import_rows_total",
			Help: "Total number of imported listing rows by outcome",
		},
		[]string{"outcome"},
	)

	bulkOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domainhub_bulk_outcomes_total",
			Help: "Total number of bulk action items by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	wsClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "domainhub_ws_clients",
			Help: "Number of connected admin feed clients",
		},
	)

	statsAvailableDomains = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "domainhub_stats_available_domains",
			Help: "Number of listings available for sale",
		},
	)

	statsPostedDomains = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "domainhub_stats_posted_domains",
			Help: "Number of listings posted to the channel",
		},
	)

	statsNewTickets = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "domainhub_stats_new_tickets",
			Help: "Number of tickets waiting in New status",
		},
	)

	statsNewComments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "domainhub_stats_new_comments",
			Help: "Number of unread comments",
		},
	)

	statsSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "domainhub_stats_subscribers",
			Help: "Number of known Telegram subscribers",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequests)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(botUpdates)
	prometheus.MustRegister(commandsUsed)
	prometheus.MustRegister(gateOutcomes)
	prometheus.MustRegister(joinApprovals)
	prometheus.MustRegister(leadsReceived)
	prometheus.MustRegister(messagesSent)
	prometheus.MustRegister(importRows)
	prometheus.MustRegister(bulkOutcomes)
	prometheus.MustRegister(wsClients)
	prometheus.MustRegister(statsAvailableDomains)
	prometheus.MustRegister(statsPostedDomains)
	prometheus.MustRegister(statsNewTickets)
	prometheus.MustRegister(statsNewComments)
	prometheus.MustRegister(statsSubscribers)
}

func NewMetricsService(log *tracing.Logger) *MetricsService {
	return &MetricsService{
		log: log,
	}
}

func (s *MetricsService) RecordHttpRequest(route string, method string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

func (s *MetricsService) RecordBotUpdate(kind string) {
	botUpdates.WithLabelValues(kind).Inc()
}

func (s *MetricsService) RecordCommandUsed(command string) {
	commandsUsed.WithLabelValues(command).Inc()
}

func (s *MetricsService) RecordGateOutcome(outcome string) {
	gateOutcomes.WithLabelValues(outcome).Inc()
}

func (s *MetricsService) RecordJoinApproval(outcome string) {
	joinApprovals.WithLabelValues(outcome).Inc()
}

func (s *MetricsService) RecordLead(source string, outcome string) {
	leadsReceived.WithLabelValues(source, outcome).Inc()
}

func (s *MetricsService) RecordMessageSent(status string) {
	messagesSent.WithLabelValues(status).Inc()
}

func (s *MetricsService) RecordImportRows(outcome string, count int) {
	importRows.WithLabelValues(outcome).Add(float64(count))
}

func (s *MetricsService) RecordBulkOutcome(action string, outcome string, count int) {
	bulkOutcomes.WithLabelValues(action, outcome).Add(float64(count))
}

func (s *MetricsService) SetWsClients(count int) {
	wsClients.Set(float64(count))
}

func (s *MetricsService) SetAvailableDomains(count float64) {
	statsAvailableDomains.Set(count)
}

func (s *MetricsService) SetPostedDomains(count float64) {
	statsPostedDomains.Set(count)
}

func (s *MetricsService) SetNewTickets(count float64) {
	statsNewTickets.Set(count)
}

func (s *MetricsService) SetNewComments(count float64) {
	statsNewComments.Set(count)
}

func (s *MetricsService) SetSubscribers(count float64) {
	statsSubscribers.Set(count)
}
