package market

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"domainhub/sources/persistence/entities"
	"domainhub/sources/platform"
	"domainhub/sources/realtime"
	"domainhub/sources/repository"
	"domainhub/sources/texting/domains"
	"domainhub/sources/tracing"

	"github.com/shopspring/decimal"
)

var ticketTransitions = map[entities.TicketStatus][]entities.TicketStatus{
	entities.TicketStatusNew:       {entities.TicketStatusRead, entities.TicketStatusSold, entities.TicketStatusCancelled},
	entities.TicketStatusRead:      {entities.TicketStatusRead, entities.TicketStatusSold, entities.TicketStatusCancelled},
	entities.TicketStatusSold:      {entities.TicketStatusSold},
	entities.TicketStatusCancelled: {entities.TicketStatusCancelled},
}

// CheckTicketTransition reports whether a ticket in status from may move to
// status to. Staying in place is allowed for every status but New.
func CheckTicketTransition(from entities.TicketStatus, to entities.TicketStatus) error {
	if slices.Contains(ticketTransitions[from], to) {
		return nil
	}
	return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
}

// LeadInput is a purchase request from the storefront or the bot.
type LeadInput struct {
	CustomerID string
	Domains    []string
	Price      decimal.Decimal
	Source     entities.TicketSource
}

// RequestedDomains cleans a request list: names are normalized where
// possible, kept verbatim otherwise, and repeats are dropped.
func RequestedDomains(raws []string) []string {
	seen := make(map[string]struct{}, len(raws))
	names := []string{}

	for _, raw := range raws {
		name, err := domains.Normalize(raw)
		if err != nil {
			name = strings.TrimSpace(raw)
		}
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	return names
}

// SubmitLead opens a New ticket and announces it on the admin feed.
func (m *Market) SubmitLead(ctx context.Context, logger *tracing.Logger, in LeadInput) (*entities.Ticket, error) {
	defer tracing.ProfilePoint(logger, "Market submit lead completed", "market.submit.lead", tracing.CustomerId, in.CustomerID)()

	customerID := strings.TrimSpace(in.CustomerID)
	requested := RequestedDomains(in.Domains)
	if customerID == "" || len(requested) == 0 {
		return nil, platform.NewValidationError("Required fields: customer_id, request_domains (array)", "customer_id", "request_domains")
	}
	if limit := m.config.MaxLeadDomains; limit > 0 && len(requested) > limit {
		return nil, platform.NewValidationError(fmt.Sprintf("At most %d domains per request", limit), "request_domains")
	}

	source := in.Source
	if source == "" {
		source = entities.TicketSourceWeb
	}

	price := in.Price
	if price.IsNegative() {
		price = decimal.Zero
	}

	ticket := &entities.Ticket{
		CustomerID:     customerID,
		RequestDomains: requested,
		Price:          price.Round(2),
		Status:         entities.TicketStatusNew,
		Source:         source,
	}

	if err := m.tickets.CreateTicket(ctx, logger, ticket); err != nil {
		return nil, err
	}

	m.metrics.RecordLead(string(source), "created")
	m.notify(ctx, realtime.NewTicketEvent(ticket))
	return ticket, nil
}

// SetTicketStatus moves a ticket to Read or Cancelled. Sales go through
// MarkTicketSold so the listings follow.
func (m *Market) SetTicketStatus(ctx context.Context, logger *tracing.Logger, id string, status entities.TicketStatus) (*entities.Ticket, error) {
	defer tracing.ProfilePoint(logger, "Market set ticket status completed", "market.set.ticket.status", tracing.TicketId, id, tracing.TicketStatus, status)()

	if status == entities.TicketStatusSold {
		ticket, _, err := m.MarkTicketSold(ctx, logger, id, decimal.Zero)
		return ticket, err
	}

	ticket, err := m.tickets.GetTicket(ctx, logger, id)
	if err != nil {
		return nil, err
	}

	if err := CheckTicketTransition(ticket.Status, status); err != nil {
		logger.W("Rejected ticket transition", tracing.TicketId, id, "from", ticket.Status, "to", status)
		return nil, err
	}
	if ticket.Status == status {
		return ticket, nil
	}

	if err := m.tickets.SetTicketStatus(ctx, logger, id, status, nil); err != nil {
		return nil, err
	}
	ticket.Status = status

	m.notify(ctx, realtime.TicketUpdatedEvent(ticket))
	return ticket, nil
}

// MarkTicketSold records the sale and marks every requested domain sold.
// Requested names without a listing are counted, not treated as failures.
// Selling an already sold ticket re-runs the listing update.
func (m *Market) MarkTicketSold(ctx context.Context, logger *tracing.Logger, id string, price decimal.Decimal) (*entities.Ticket, *BulkReport, error) {
	defer tracing.ProfilePoint(logger, "Market mark ticket sold completed", "market.mark.ticket.sold", tracing.TicketId, id)()

	ticket, err := m.tickets.GetTicket(ctx, logger, id)
	if err != nil {
		return nil, nil, err
	}

	if err := CheckTicketTransition(ticket.Status, entities.TicketStatusSold); err != nil {
		logger.W("Rejected ticket sale", tracing.TicketId, id, "from", ticket.Status)
		return nil, nil, err
	}

	if price.IsNegative() {
		price = decimal.Zero
	}
	price = price.Round(2)

	if err := m.tickets.SetTicketStatus(ctx, logger, id, entities.TicketStatusSold, &price); err != nil {
		return nil, nil, err
	}
	ticket.Status = entities.TicketStatusSold
	ticket.Price = price

	report, err := m.syncSold(ctx, logger, ticket.RequestDomains)
	if err != nil {
		logger.E("Failed to mark requested domains sold", tracing.InnerError, err, tracing.TicketId, id)
		return nil, nil, err
	}

	logger.I("Ticket sold",
		tracing.TicketId, id,
		"total", report.TotalDomains,
		"updated", report.Updated,
		"not_found", report.NotFound,
		"errors", report.Errors,
	)

	m.notify(ctx, realtime.TicketUpdatedEvent(ticket))
	return ticket, report, nil
}

// TicketEdit is an admin correction of a ticket. Status is not editable here.
type TicketEdit struct {
	CustomerID     *string
	RequestDomains []string
	Price          *decimal.Decimal
}

// UpdateTicket applies an admin edit and announces the result.
func (m *Market) UpdateTicket(ctx context.Context, logger *tracing.Logger, id string, edit TicketEdit) (*entities.Ticket, error) {
	defer tracing.ProfilePoint(logger, "Market update ticket completed", "market.update.ticket", tracing.TicketId, id)()

	patch := &repository.TicketPatch{}

	if edit.CustomerID != nil {
		customerID := strings.TrimSpace(*edit.CustomerID)
		if customerID == "" {
			return nil, platform.NewValidationError("customer_id cannot be empty", "customer_id")
		}
		patch.CustomerID = &customerID
	}
	if edit.RequestDomains != nil {
		requested := RequestedDomains(edit.RequestDomains)
		if len(requested) == 0 {
			return nil, platform.NewValidationError("request_domains cannot be empty", "request_domains")
		}
		patch.RequestDomains = requested
	}
	if edit.Price != nil {
		price := *edit.Price
		if price.IsNegative() {
			price = decimal.Zero
		}
		price = price.Round(2)
		patch.Price = &price
	}

	ticket, err := m.tickets.UpdateTicket(ctx, logger, id, patch)
	if err != nil {
		return nil, err
	}

	m.notify(ctx, realtime.TicketUpdatedEvent(ticket))
	return ticket, nil
}

// MatchedTicket is a customer ticket together with the requested names that
// matched a lookup.
type MatchedTicket struct {
	entities.Ticket
	MatchingDomains []string `json:"matchingDomains"`
}

// MatchCustomerTickets returns the customer's tickets, newest first, that
// request at least one of names.
func (m *Market) MatchCustomerTickets(ctx context.Context, logger *tracing.Logger, customerID string, names []string) ([]MatchedTicket, error) {
	defer tracing.ProfilePoint(logger, "Market match customer tickets completed", "market.match.customer.tickets", tracing.CustomerId, customerID)()

	wanted := make(map[string]struct{}, len(names))
	for _, name := range RequestedDomains(names) {
		wanted[name] = struct{}{}
	}

	tickets, err := m.tickets.ListTicketsByCustomer(ctx, logger, customerID)
	if err != nil {
		return nil, err
	}

	matched := []MatchedTicket{}
	for _, ticket := range tickets {
		var matching []string
		for _, name := range ticket.RequestDomains {
			if _, ok := wanted[name]; ok {
				matching = append(matching, name)
			}
		}
		if len(matching) > 0 {
			matched = append(matched, MatchedTicket{Ticket: ticket, MatchingDomains: matching})
		}
	}

	return matched, nil
}
