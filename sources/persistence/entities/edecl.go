package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type TicketStatus string

const (
	TicketStatusNew       TicketStatus = "New"
	TicketStatusRead      TicketStatus = "Read"
	TicketStatusSold      TicketStatus = "Sold"
	TicketStatusCancelled TicketStatus = "Cancelled"
)

type TicketSource string

const (
	TicketSourceWeb      TicketSource = "web"
	TicketSourceTelegram TicketSource = "telegram"
)

type CommentStatus string

const (
	CommentStatusNew  CommentStatus = "New"
	CommentStatusRead CommentStatus = "Read"
)

type (
	Domain struct {
		ID              string          `gorm:"type:varchar(36);primaryKey" json:"id"`
		DomainName      string          `gorm:"column:domain_name;size:253;not null;uniqueIndex" json:"domainName"`
		Country         string          `gorm:"size:128;not null;index" json:"country"`
		Category        string          `gorm:"size:128;not null;index" json:"category"`
		DA              int             `gorm:"column:da;not null" json:"da"`
		PA              int             `gorm:"column:pa;not null" json:"pa"`
		SS              int             `gorm:"column:ss;not null" json:"ss"`
		Backlink        int             `gorm:"not null" json:"backlink"`
		Price           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
		Available       bool            `gorm:"column:status;not null;index" json:"status"`
		PanelLink       string          `gorm:"size:512" json:"panelLink"`
		PanelUsername   string          `gorm:"size:255" json:"panelUsername"`
		PanelPassword   string          `gorm:"size:255" json:"panelPassword"`
		GoodLink        string          `gorm:"size:512" json:"goodLink"`
		HostingLink     string          `gorm:"size:512" json:"hostingLink"`
		HostingUsername string          `gorm:"size:255" json:"hostingUsername"`
		HostingPassword string          `gorm:"size:255" json:"hostingPassword"`
		Posted          bool            `gorm:"column:ischannel;not null;index" json:"ischannel"`
		PostDateTime    *time.Time      `gorm:"column:post_date_time;index" json:"postDateTime"`
		CreatedAt       time.Time       `gorm:"not null;index" json:"createdAt"`
		UpdatedAt       time.Time       `gorm:"not null" json:"updatedAt"`
	}

	Ticket struct {
		ID             string          `gorm:"type:varchar(36);primaryKey" json:"id"`
		CustomerID     string          `gorm:"column:customer_id;size:128;not null;index" json:"customer_id"`
		RequestDomains []string        `gorm:"column:request_domains;type:text;serializer:json;not null" json:"request_domains"`
		RequestTime    time.Time       `gorm:"column:request_time;not null;index" json:"request_time"`
		Price          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
		Status         TicketStatus    `gorm:"size:16;not null;index" json:"status"`
		Source         TicketSource    `gorm:"size:16;not null" json:"source"`
		CreatedAt      time.Time       `gorm:"not null" json:"createdAt"`
		UpdatedAt      time.Time       `gorm:"not null" json:"updatedAt"`
	}

	Comment struct {
		ID               string        `gorm:"type:varchar(36);primaryKey" json:"id"`
		TelegramUsername string        `gorm:"column:telegram_username;size:255;not null" json:"telegram_username"`
		Content          string        `gorm:"type:text;not null" json:"content"`
		Status           CommentStatus `gorm:"size:16;not null;index" json:"status"`
		CreatedAt        time.Time     `gorm:"not null;index" json:"createdAt"`
		UpdatedAt        time.Time     `gorm:"not null" json:"updatedAt"`
	}

	Subscriber struct {
		ID              string    `gorm:"type:varchar(36);primaryKey" json:"id"`
		TelegramID      string    `gorm:"column:telegram_id;size:32;not null;uniqueIndex" json:"telegram_id"`
		Username        string    `gorm:"size:255" json:"username"`
		FirstName       string    `gorm:"column:first_name;size:255" json:"first_name"`
		LastName        string    `gorm:"column:last_name;size:255" json:"last_name"`
		LanguageCode    string    `gorm:"column:language_code;size:16" json:"language_code"`
		IsSubscribed    bool      `gorm:"column:is_subscribed;not null" json:"is_subscribed"`
		IsMember        bool      `gorm:"column:is_member;not null" json:"is_member"`
		LastInteraction time.Time `gorm:"column:last_interaction;not null" json:"last_interaction"`
		CreatedAt       time.Time `gorm:"not null" json:"createdAt"`
		UpdatedAt       time.Time `gorm:"not null" json:"updatedAt"`
	}

	Admin struct {
		ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
		Username     string    `gorm:"size:255;not null;uniqueIndex" json:"username"`
		PasswordHash string    `gorm:"column:password_hash;size:255;not null" json:"-"`
		CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	}
)

func (Domain) TableName() string     { return "domains" }
func (Ticket) TableName() string     { return "tickets" }
func (Comment) TableName() string    { return "comments" }
func (Subscriber) TableName() string { return "telegram_users" }
func (Admin) TableName() string      { return "admins" }

// All lists every persisted model in migration order.
func All() []any {
	return []any{&Domain{}, &Ticket{}, &Comment{}, &Subscriber{}, &Admin{}}
}

// PublicDomain is the storefront projection of a listing: no credentials.
type PublicDomain struct {
	ID           string          `json:"id"`
	DomainName   string          `json:"domainName"`
	Country      string          `json:"country"`
	Category     string          `json:"category"`
	DA           int             `json:"da"`
	PA           int             `json:"pa"`
	SS           int             `json:"ss"`
	Backlink     int             `json:"backlink"`
	Price        decimal.Decimal `json:"price"`
	Available    bool            `json:"status"`
	PostDateTime *time.Time      `json:"postDateTime"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func (d *Domain) Public() PublicDomain {
	return PublicDomain{
		ID:           d.ID,
		DomainName:   d.DomainName,
		Country:      d.Country,
		Category:     d.Category,
		DA:           d.DA,
		PA:           d.PA,
		SS:           d.SS,
		Backlink:     d.Backlink,
		Price:        d.Price,
		Available:    d.Available,
		PostDateTime: d.PostDateTime,
		CreatedAt:    d.CreatedAt,
	}
}

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusNew, TicketStatusRead, TicketStatusSold, TicketStatusCancelled:
		return true
	}
	return false
}
