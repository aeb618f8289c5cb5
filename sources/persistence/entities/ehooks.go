package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (d *Domain) BeforeCreate(tx *gorm.DB) error {
	assignID(&d.ID)
	return nil
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.ID)
	if t.RequestDomains == nil {
		t.RequestDomains = []string{}
	}
	if t.Status == "" {
		t.Status = TicketStatusNew
	}
	if t.Source == "" {
		t.Source = TicketSourceWeb
	}
	return nil
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	if c.Status == "" {
		c.Status = CommentStatusNew
	}
	return nil
}

func (s *Subscriber) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}

func (a *Admin) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.ID)
	return nil
}
