package market

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"domainhub/sources/persistence/entities"
	"domainhub/sources/platform"
	"domainhub/sources/repository"
	"domainhub/sources/texting/domains"
	"domainhub/sources/tracing"

	"github.com/shopspring/decimal"
)

const requiredListingFields = "Required fields: domainName, country, category, price"

// ListingInput is a listing as submitted by the admin panel. Numeric and flag
// fields are loosely typed: JSON numbers, numeric strings and textual flags
// are all accepted.
type ListingInput struct {
	DomainName      string `json:"domainName"`
	Country         string `json:"country"`
	Category        string `json:"category"`
	DA              any    `json:"da"`
	PA              any    `json:"pa"`
	SS              any    `json:"ss"`
	Backlink        any    `json:"backlink"`
	Price           any    `json:"price"`
	Status          any    `json:"status"`
	PanelLink       string `json:"panelLink"`
	PanelUsername   string `json:"panelUsername"`
	PanelPassword   string `json:"panelPassword"`
	GoodLink        string `json:"goodLink"`
	HostingLink     string `json:"hostingLink"`
	HostingUsername string `json:"hostingUsername"`
	HostingPassword string `json:"hostingPassword"`
	Ischannel       any    `json:"ischannel"`
}

// Credentials are panel and hosting logins shared by every listing of one
// multi-create request. Non-empty values replace the per-listing ones.
type Credentials struct {
	PanelLink       string `json:"panelLink"`
	PanelUsername   string `json:"panelUsername"`
	PanelPassword   string `json:"panelPassword"`
	HostingLink     string `json:"hostingLink"`
	HostingUsername string `json:"hostingUsername"`
	HostingPassword string `json:"hostingPassword"`
}

func (c Credentials) apply(domain *entities.Domain) {
	for _, pair := range []struct {
		target *string
		value  string
	}{
		{&domain.PanelLink, c.PanelLink},
		{&domain.PanelUsername, c.PanelUsername},
		{&domain.PanelPassword, c.PanelPassword},
		{&domain.HostingLink, c.HostingLink},
		{&domain.HostingUsername, c.HostingUsername},
		{&domain.HostingPassword, c.HostingPassword},
	} {
		if value := strings.TrimSpace(pair.value); value != "" {
			*pair.target = value
		}
	}
}

// Listing validates the input and builds the entity to store. A missing
// status means the listing is sold.
func (in *ListingInput) Listing() (*entities.Domain, error) {
	if err := platform.RequireFields(requiredListingFields,
		"domainName", in.DomainName,
		"country", in.Country,
		"category", in.Category,
		"price", domains.ParseText(in.Price),
	); err != nil {
		return nil, err
	}

	name, err := domains.Normalize(in.DomainName)
	if err != nil {
		return nil, platform.NewValidationError(fmt.Sprintf("Invalid domain name '%s'", in.DomainName), "domainName")
	}

	price, err := positivePrice(in.Price)
	if err != nil {
		return nil, err
	}

	return &entities.Domain{
		DomainName:      name,
		Country:         strings.TrimSpace(in.Country),
		Category:        strings.TrimSpace(in.Category),
		DA:              domains.ParseCount(in.DA),
		PA:              domains.ParseCount(in.PA),
		SS:              domains.ParseCount(in.SS),
		Backlink:        domains.ParseCount(in.Backlink),
		Price:           price,
		Available:       domains.ParseFlag(in.Status),
		PanelLink:       strings.TrimSpace(in.PanelLink),
		PanelUsername:   strings.TrimSpace(in.PanelUsername),
		PanelPassword:   in.PanelPassword,
		GoodLink:        strings.TrimSpace(in.GoodLink),
		HostingLink:     strings.TrimSpace(in.HostingLink),
		HostingUsername: strings.TrimSpace(in.HostingUsername),
		HostingPassword: in.HostingPassword,
		Posted:          domains.ParseFlag(in.Ischannel),
	}, nil
}

func positivePrice(value any) (decimal.Decimal, error) {
	price, err := domains.ParsePrice(value)
	if err != nil || !price.IsPositive() {
		return decimal.Zero, platform.NewValidationError("Price must be greater than 0", "price")
	}
	return price, nil
}

// ListingUpdate is a partial listing edit. Absent fields are left untouched.
type ListingUpdate struct {
	DomainName      *string `json:"domainName"`
	Country         *string `json:"country"`
	Category        *string `json:"category"`
	DA              any     `json:"da"`
	PA              any     `json:"pa"`
	SS              any     `json:"ss"`
	Backlink        any     `json:"backlink"`
	Price           any     `json:"price"`
	Status          any     `json:"status"`
	PanelLink       *string `json:"panelLink"`
	PanelUsername   *string `json:"panelUsername"`
	PanelPassword   *string `json:"panelPassword"`
	GoodLink        *string `json:"goodLink"`
	HostingLink     *string `json:"hostingLink"`
	HostingUsername *string `json:"hostingUsername"`
	HostingPassword *string `json:"hostingPassword"`
	Ischannel       any     `json:"ischannel"`
}

func (u *ListingUpdate) Patch() (*repository.DomainPatch, error) {
	patch := &repository.DomainPatch{
		Country:         trimmed(u.Country),
		Category:        trimmed(u.Category),
		PanelLink:       trimmed(u.PanelLink),
		PanelUsername:   trimmed(u.PanelUsername),
		PanelPassword:   u.PanelPassword,
		GoodLink:        trimmed(u.GoodLink),
		HostingLink:     trimmed(u.HostingLink),
		HostingUsername: trimmed(u.HostingUsername),
		HostingPassword: u.HostingPassword,
	}

	if u.DomainName != nil {
		name, err := domains.Normalize(*u.DomainName)
		if err != nil {
			return nil, platform.NewValidationError(fmt.Sprintf("Invalid domain name '%s'", *u.DomainName), "domainName")
		}
		patch.DomainName = &name
	}
	if patch.Country != nil && *patch.Country == "" {
		return nil, platform.NewValidationError("Country cannot be empty", "country")
	}
	if patch.Category != nil && *patch.Category == "" {
		return nil, platform.NewValidationError("Category cannot be empty", "category")
	}

	for _, pair := range []struct {
		target **int
		value  any
	}{
		{&patch.DA, u.DA},
		{&patch.PA, u.PA},
		{&patch.SS, u.SS},
		{&patch.Backlink, u.Backlink},
	} {
		if pair.value != nil {
			count := domains.ParseCount(pair.value)
			*pair.target = &count
		}
	}

	if u.Price != nil {
		price, err := positivePrice(u.Price)
		if err != nil {
			return nil, err
		}
		patch.Price = &price
	}
	if u.Status != nil {
		patch.Available = platform.Ptr(domains.ParseFlag(u.Status))
	}
	if u.Ischannel != nil {
		patch.Posted = platform.Ptr(domains.ParseFlag(u.Ischannel))
	}

	return patch, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func (m *Market) CreateListing(ctx context.Context, logger *tracing.Logger, in *ListingInput) (*entities.Domain, error) {
	defer tracing.ProfilePoint(logger, "Market create listing completed", "market.create.listing", tracing.DomainName, in.DomainName)()

	domain, err := in.Listing()
	if err != nil {
		return nil, err
	}

	if err := m.domains.CreateDomain(ctx, logger, domain); err != nil {
		return nil, err
	}

	return domain, nil
}

func (m *Market) UpdateListing(ctx context.Context, logger *tracing.Logger, id string, update *ListingUpdate) (*entities.Domain, error) {
	defer tracing.ProfilePoint(logger, "Market update listing completed", "market.update.listing", tracing.DomainId, id)()

	patch, err := update.Patch()
	if err != nil {
		return nil, err
	}

	return m.domains.UpdateDomain(ctx, logger, id, patch)
}

// IndexedFailure is one rejected item of a multi-create request.
type IndexedFailure struct {
	Index  int          `json:"index"`
	Error  string       `json:"error"`
	Domain ListingInput `json:"domain"`
}

type CreateManyReport struct {
	Created []entities.Domain `json:"created"`
	Errors  []IndexedFailure  `json:"errors"`
}

// CreateMany stores each valid listing and reports the rest by index. One bad
// item never stops the others.
func (m *Market) CreateMany(ctx context.Context, logger *tracing.Logger, items []ListingInput, shared Credentials) *CreateManyReport {
	defer tracing.ProfilePoint(logger, "Market create many completed", "market.create.many", "count", len(items))()

	report := &CreateManyReport{Created: []entities.Domain{}, Errors: []IndexedFailure{}}

	for i := range items {
		item := items[i]

		domain, err := item.Listing()
		if err == nil {
			shared.apply(domain)
			err = m.domains.CreateDomain(ctx, logger, domain)
		}

		switch {
		case err == nil:
			report.Created = append(report.Created, *domain)
		case errors.Is(err, repository.ErrDomainExists):
			report.Errors = append(report.Errors, IndexedFailure{Index: i, Error: fmt.Sprintf("Domain '%s' already exists", domain.DomainName), Domain: item})
		default:
			report.Errors = append(report.Errors, IndexedFailure{Index: i, Error: err.Error(), Domain: item})
		}
	}

	logger.I("Created listings", "created", len(report.Created), "failed", len(report.Errors))
	return report
}
