package api

import (
	"net/http"

	"domainhub/sources/market"
	"domainhub/sources/persistence/entities"
	"domainhub/sources/platform"
	"domainhub/sources/texting/domains"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// ticketRequest takes customer_id as any JSON scalar; Telegram IDs often
// arrive as numbers.
type ticketRequest struct {
	CustomerID     any              `json:"customer_id"`
	RequestDomains []string         `json:"request_domains"`
	Price          *decimal.Decimal `json:"price"`
}

type countResponse struct {
	Success bool  `json:"success"`
	Count   int64 `json:"count"`
}

type soldResponse struct {
	Success       bool               `json:"success"`
	Message       string             `json:"message"`
	Data          *entities.Ticket   `json:"data"`
	DomainUpdates *market.BulkReport `json:"domainUpdates"`
}

func (x *Server) getTickets(w http.ResponseWriter, r *http.Request) {
	var status *entities.TicketStatus
	if value := r.URL.Query().Get("status"); value != "" {
		parsed := entities.TicketStatus(value)
		if !parsed.Valid() {
			WriteMessage(w, http.StatusBadRequest, "Invalid status. Use one of: New, Read, Sold, Cancelled")
			return
		}
		status = &parsed
	}

	tickets, err := x.tickets.ListTickets(r.Context(), x.log, status)
	if err != nil {
		WriteError(w, x.log, err)
		return
	}
	WriteData(w, http.StatusOK, "", tickets)
}

func (x *Server) countNewTickets(w http.ResponseWriter, r *http.Request) {
	count, err := x.tickets.CountTicketsByStatus(r.Context(), x.log, entities.TicketStatusNew)
	if err != nil {
		WriteError(w, x.log, err)
		return
	}
	WriteJSON(w, http.StatusOK, countResponse{Success: true, Count: count})
}

func (x *Server) createTicket(w http.ResponseWriter, r *http.Request) {
	var req ticketRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, x.log, err)
		return
	}

	in := market.LeadInput{
		CustomerID: domains.ParseText(req.CustomerID),
		Domains:    req.RequestDomains,
		Source:     entities.TicketSourceWeb,
	}
	if req.Price != nil {
		in.Price = *req.Price
	}

	ticket, err := x.market.SubmitLead(r.Context(), x.log, in)
	if err != nil {
		WriteError(w, x.log, err)
		return
	}
	WriteData(w, http.StatusCreated, "Ticket created successfully", ticket)
}

func (x *Server) updateTicket(w http.ResponseWriter, r *http.Request) {
	var req ticketRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, x.log, err)
		return
	}

	edit := market.TicketEdit{RequestDomains: req.RequestDomains, Price: req.Price}
	if req.CustomerID != nil {
		edit.CustomerID = platform.Ptr(domains.ParseText(req.CustomerID))
	}

	ticket, err := x.market.UpdateTicket(r.Context(), x.log, mux.Vars(r)["id"], edit)
	if err != nil {
		WriteError(w, x.log, err)
		return
	}
	WriteData(w, http.StatusOK, "Ticket updated successfully", ticket)
}

func (x *Server) deleteTicket(w http.ResponseWriter, r *http.Request) {
	if err := x.tickets.DeleteTicket(r.Context(), x.log, mux.Vars(r)["id"]); err != nil {
		WriteError(w, x.log, err)
		return
	}
	WriteMessage(w, http.StatusOK, "Ticket deleted successfully")
}

func (x *Server) ticketStatus(status entities.TicketStatus, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ticket, err := x.market.SetTicketStatus(r.Context(), x.log, mux.Vars(r)["id"], status)
		if err != nil {
			WriteError(w, x.log, err)
			return
		}
		WriteData(w, http.StatusOK, message, ticket)
	}
}

func (x *Server) markTicketSold(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Price *decimal.Decimal `json:"price"`
	}
	if err := decode(r, &req); err != nil {
		WriteError(w, x.log, err)
		return
	}

	price := decimal.Zero
	if req.Price != nil {
		price = *req.Price
	}

	ticket, report, err := x.market.MarkTicketSold(r.Context(), x.log, mux.Vars(r)["id"], price)
	if err != nil {
		WriteError(w, x.log, err)
		return
	}

	WriteJSON(w, http.StatusOK, soldResponse{
		Success:       true,
		Message:       "Ticket marked as sold",
		Data:          ticket,
		DomainUpdates: report,
	})
}

func (x *Server) customerDomains(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID any      `json:"customer_id"`
		Domains    []string `json:"domains"`
	}
	if err := decode(r, &req); err != nil {
		WriteError(w, x.log, err)
		return
	}

	customerID := domains.ParseText(req.CustomerID)
	if customerID == "" || len(req.Domains) == 0 {
		WriteMessage(w, http.StatusBadRequest, "customer_id and domains array are required")
		return
	}

	tickets, err := x.market.MatchCustomerTickets(r.Context(), x.log, customerID, req.Domains)
	if err != nil {
		WriteError(w, x.log, err)
		return
	}
	WriteData(w, http.StatusOK, "", tickets)
}
