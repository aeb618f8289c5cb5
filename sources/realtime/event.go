package realtime

import "time"

const (
	EventConnected       = "CONNECTED"
	EventNewTicket       = "NEW_TICKET"
	EventNewComment      = "NEW_COMMENT"
	EventTicketUpdated   = "TICKET_UPDATED"
	EventDomainsImported = "DOMAINS_IMPORTED"
)

// Event is one message on the admin feed.
type Event struct {
	Type      string    `json:"type"`
	Message   string    `json:"message,omitempty"`
	Ticket    any       `json:"ticket,omitempty"`
	Comment   any       `json:"comment,omitempty"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTicketEvent(ticket any) Event {
	return Event{Type: EventNewTicket, Ticket: ticket, Timestamp: time.Now()}
}

func TicketUpdatedEvent(ticket any) Event {
	return Event{Type: EventTicketUpdated, Ticket: ticket, Timestamp: time.Now()}
}

func NewCommentEvent(comment any) Event {
	return Event{Type: EventNewComment, Comment: comment, Timestamp: time.Now()}
}

func DomainsImportedEvent(summary any) Event {
	return Event{Type: EventDomainsImported, Data: summary, Timestamp: time.Now()}
}
