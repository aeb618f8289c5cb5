package repository

import (
	"context"
	"errors"
	"time"

	"domainhub/sources/persistence/entities"
	"domainhub/sources/platform"
	"domainhub/sources/tracing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrTicketNotFound = errors.New("ticket not found")
)

// TicketPatch is a partial update. Status changes go through SetTicketStatus.
type TicketPatch struct {
	CustomerID     *string
	RequestDomains []string
	Price          *decimal.Decimal
}

type TicketsRepository struct {
	db *gorm.DB
}

func NewTicketsRepository(db *gorm.DB) *TicketsRepository {
	return &TicketsRepository{db: db}
}

func (x *TicketsRepository) CreateTicket(ctx context.Context, logger *tracing.Logger, ticket *entities.Ticket) error {
	defer tracing.ProfilePoint(logger, "Tickets create ticket completed", "repository.tickets.create.ticket", tracing.CustomerId, ticket.CustomerID)()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	if ticket.RequestTime.IsZero() {
		ticket.RequestTime = time.Now()
	}

	if err := x.db.WithContext(ctx).Create(ticket).Error; err != nil {
		logger.E("Failed to create ticket", tracing.InnerError, err)
		return err
	}

	logger.I("Created ticket", tracing.TicketId, ticket.ID, tracing.CustomerId, ticket.CustomerID, "domains", len(ticket.RequestDomains))
	return nil
}

func (x *TicketsRepository) GetTicket(ctx context.Context, logger *tracing.Logger, id string) (*entities.Ticket, error) {
	defer tracing.ProfilePoint(logger, "Tickets get ticket completed", "repository.tickets.get.ticket", tracing.TicketId, id)()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	var ticket entities.Ticket
	err := x.db.WithContext(ctx).Where("id = ?", id).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.W("Ticket not found", tracing.TicketId, id)
			return nil, ErrTicketNotFound
		}
		logger.E("Failed to get ticket", tracing.InnerError, err)
		return nil, err
	}

	return &ticket, nil
}

// ListTickets returns tickets newest request first, optionally of one status.
func (x *TicketsRepository) ListTickets(ctx context.Context, logger *tracing.Logger, status *entities.TicketStatus) ([]entities.Ticket, error) {
	defer tracing.ProfilePoint(logger, "Tickets list tickets completed", "repository.tickets.list.tickets")()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	tx := x.db.WithContext(ctx).Order("request_time desc")
	if status != nil {
		tx = tx.Where("status = ?", *status)
	}

	tickets := []entities.Ticket{}
	if err := tx.Find(&tickets).Error; err != nil {
		logger.E("Failed to list tickets", tracing.InnerError, err)
		return nil, err
	}

	return tickets, nil
}

func (x *TicketsRepository) ListTicketsByCustomer(ctx context.Context, logger *tracing.Logger, customerID string) ([]entities.Ticket, error) {
	defer tracing.ProfilePoint(logger, "Tickets list tickets by customer completed", "repository.tickets.list.tickets.by.customer", tracing.CustomerId, customerID)()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	tickets := []entities.Ticket{}
	err := x.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("request_time desc").
		Find(&tickets).Error
	if err != nil {
		logger.E("Failed to list tickets by customer", tracing.InnerError, err)
		return nil, err
	}

	return tickets, nil
}

func (x *TicketsRepository) UpdateTicket(ctx context.Context, logger *tracing.Logger, id string, patch *TicketPatch) (*entities.Ticket, error) {
	defer tracing.ProfilePoint(logger, "Tickets update ticket completed", "repository.tickets.update.ticket", tracing.TicketId, id)()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	ticket, err := x.GetTicket(ctx, logger, id)
	if err != nil {
		return nil, err
	}

	if patch.CustomerID != nil {
		ticket.CustomerID = *patch.CustomerID
	}
	if patch.RequestDomains != nil {
		ticket.RequestDomains = patch.RequestDomains
	}
	if patch.Price != nil {
		ticket.Price = *patch.Price
	}

	err = x.db.WithContext(ctx).
		Select("customer_id", "request_domains", "price", "updated_at").
		Save(ticket).Error
	if err != nil {
		logger.E("Failed to update ticket", tracing.InnerError, err)
		return nil, err
	}

	logger.I("Updated ticket", tracing.TicketId, id)
	return ticket, nil
}

// SetTicketStatus writes the status, and the price when given. It does not
// validate the transition.
func (x *TicketsRepository) SetTicketStatus(ctx context.Context, logger *tracing.Logger, id string, status entities.TicketStatus, price *decimal.Decimal) error {
	defer tracing.ProfilePoint(logger, "Tickets set ticket status completed", "repository.tickets.set.ticket.status", tracing.TicketId, id, tracing.TicketStatus, status)()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	cols := map[string]any{"status": status, "updated_at": time.Now()}
	if price != nil {
		cols["price"] = *price
	}

	result := x.db.WithContext(ctx).Model(&entities.Ticket{}).Where("id = ?", id).Updates(cols)
	if result.Error != nil {
		logger.E("Failed to set ticket status", tracing.InnerError, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTicketNotFound
	}

	logger.I("Ticket status changed", tracing.TicketId, id, tracing.TicketStatus, status)
	return nil
}

func (x *TicketsRepository) DeleteTicket(ctx context.Context, logger *tracing.Logger, id string) error {
	defer tracing.ProfilePoint(logger, "Tickets delete ticket completed", "repository.tickets.delete.ticket", tracing.TicketId, id)()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	result := x.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Ticket{})
	if result.Error != nil {
		logger.E("Failed to delete ticket", tracing.InnerError, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTicketNotFound
	}

	logger.I("Deleted ticket", tracing.TicketId, id)
	return nil
}

func (x *TicketsRepository) CountTicketsByStatus(ctx context.Context, logger *tracing.Logger, status entities.TicketStatus) (int64, error) {
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	var count int64
	if err := x.db.WithContext(ctx).Model(&entities.Ticket{}).Where("status = ?", status).Count(&count).Error; err != nil {
		logger.E("Failed to count tickets", tracing.InnerError, err, tracing.TicketStatus, status)
		return 0, err
	}
	return count, nil
}
