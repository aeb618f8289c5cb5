package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"domainhub/sources/persistence/entities"
	"domainhub/sources/platform"
	"domainhub/sources/tracing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrDomainNotFound = errors.New("domain not found")
	ErrDomainExists   = errors.New("domain already exists")
)

// DomainFilter narrows the admin listing. Nil pointers mean "any".
type DomainFilter struct {
	Available *bool
	Posted    *bool
	Category  string
	Country   string
	Query     string
}

// DomainPatch is a partial update; only non-nil fields are written.
type DomainPatch struct {
	DomainName      *string
	Country         *string
	Category        *string
	DA              *int
	PA              *int
	SS              *int
	Backlink        *int
	Price           *decimal.Decimal
	Available       *bool
	Posted          *bool
	PanelLink       *string
	PanelUsername   *string
	PanelPassword   *string
	GoodLink        *string
	HostingLink     *string
	HostingUsername *string
	HostingPassword *string
}

func (p *DomainPatch) columns(now time.Time) map[string]any {
	cols := map[string]any{"updated_at": now}

	if p.DomainName != nil {
		cols["domain_name"] = *p.DomainName
	}
	if p.Country != nil {
		cols["country"] = *p.Country
	}
	if p.Category != nil {
		cols["category"] = *p.Category
	}
	if p.DA != nil {
		cols["da"] = *p.DA
	}
	if p.PA != nil {
		cols["pa"] = *p.PA
	}
	if p.SS != nil {
		cols["ss"] = *p.SS
	}
	if p.Backlink != nil {
		cols["backlink"] = *p.Backlink
	}
	if p.Price != nil {
		cols["price"] = *p.Price
	}
	if p.Available != nil {
		cols["status"] = *p.Available
	}
	if p.Posted != nil {
		cols["ischannel"] = *p.Posted
		if *p.Posted {
			cols["post_date_time"] = now
		} else {
			cols["post_date_time"] = nil
		}
	}

	for column, value := range map[string]*string{
		"panel_link":       p.PanelLink,
		"panel_username":   p.PanelUsername,
		"panel_password":   p.PanelPassword,
		"good_link":        p.GoodLink,
		"hosting_link":     p.HostingLink,
		"hosting_username": p.HostingUsername,
		"hosting_password": p.HostingPassword,
	} {
		if value != nil {
			cols[column] = *value
		}
	}

	return cols
}

type DomainsRepository struct {
	db *gorm.DB
}

func NewDomainsRepository(db *gorm.DB) *DomainsRepository {
	return &DomainsRepository{db: db}
}

func (x *DomainsRepository) CreateDomain(ctx context.Context, logger *tracing.Logger, domain *entities.Domain) error {
	defer tracing.ProfilePoint(logger, "Domains create domain completed", "repository.domains.create.domain", tracing.DomainName, domain.DomainName)()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	if domain.Posted && domain.PostDateTime == nil {
		now := time.Now()
		domain.PostDateTime = &now
	}
	if !domain.Posted {
		domain.PostDateTime = nil
	}

	err := x.db.WithContext(ctx).Create(domain).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.W("Domain already exists", tracing.DomainName, domain.DomainName)
			return ErrDomainExists
		}
		logger.E("Failed to create domain", tracing.InnerError, err)
		return err
	}

	logger.I("Created domain", tracing.DomainId, domain.ID, tracing.DomainName, domain.DomainName)
	return nil
}

func (x *DomainsRepository) GetDomain(ctx context.Context, logger *tracing.Logger, id string) (*entities.Domain, error) {
	defer tracing.ProfilePoint(logger, "Domains get domain completed", "repository.domains.get.domain", tracing.DomainId, id)()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	var domain entities.Domain
	err := x.db.WithContext(ctx).Where("id = ?", id).First(&domain).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.W("Domain not found", tracing.DomainId, id)
			return nil, ErrDomainNotFound
		}
		logger.E("Failed to get domain", tracing.InnerError, err)
		return nil, err
	}

	return &domain, nil
}

// FindDomainsByNames resolves names to listings. Names without a listing are
// absent from the returned map.
func (x *DomainsRepository) FindDomainsByNames(ctx context.Context, logger *tracing.Logger, names []string) (map[string]*entities.Domain, error) {
	defer tracing.ProfilePoint(logger, "Domains find domains by names completed", "repository.domains.find.domains.by.names", "count", len(names))()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	found := make(map[string]*entities.Domain, len(names))
	if len(names) == 0 {
		return found, nil
	}

	var domains []*entities.Domain
	if err := x.db.WithContext(ctx).Where("domain_name IN ?", names).Find(&domains).Error; err != nil {
		logger.E("Failed to find domains by names", tracing.InnerError, err)
		return nil, err
	}

	for _, domain := range domains {
		found[domain.DomainName] = domain
	}
	return found, nil
}

func (x *DomainsRepository) ListDomains(ctx context.Context, logger *tracing.Logger, filter DomainFilter) ([]entities.Domain, error) {
	defer tracing.ProfilePoint(logger, "Domains list domains completed", "repository.domains.list.domains")()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	domains := []entities.Domain{}
	if err := x.filtered(ctx, filter).Order("created_at desc").Find(&domains).Error; err != nil {
		logger.E("Failed to list domains", tracing.InnerError, err)
		return nil, err
	}

	return domains, nil
}

// ListPublicDomains returns listings posted to the channel, most recent post first.
func (x *DomainsRepository) ListPublicDomains(ctx context.Context, logger *tracing.Logger) ([]entities.Domain, error) {
	defer tracing.ProfilePoint(logger, "Domains list public domains completed", "repository.domains.list.public.domains")()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	domains := []entities.Domain{}
	err := x.db.WithContext(ctx).
		Where("ischannel = ?", true).
		Order("post_date_time desc").
		Find(&domains).Error
	if err != nil {
		logger.E("Failed to list public domains", tracing.InnerError, err)
		return nil, err
	}

	return domains, nil
}

func (x *DomainsRepository) CountDomains(ctx context.Context, logger *tracing.Logger, filter DomainFilter) (int64, error) {
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	var count int64
	if err := x.filtered(ctx, filter).Count(&count).Error; err != nil {
		logger.E("Failed to count domains", tracing.InnerError, err)
		return 0, err
	}
	return count, nil
}

// UpdateDomain applies a partial update. Renaming onto a name held by another
// listing fails with ErrDomainExists.
func (x *DomainsRepository) UpdateDomain(ctx context.Context, logger *tracing.Logger, id string, patch *DomainPatch) (*entities.Domain, error) {
	defer tracing.ProfilePoint(logger, "Domains update domain completed", "repository.domains.update.domain", tracing.DomainId, id)()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	if patch.DomainName != nil {
		var clash int64
		err := x.db.WithContext(ctx).Model(&entities.Domain{}).
			Where("domain_name = ? AND id <> ?", *patch.DomainName, id).
			Count(&clash).Error
		if err != nil {
			logger.E("Failed to check domain name clash", tracing.InnerError, err)
			return nil, err
		}
		if clash > 0 {
			logger.W("Domain rename clashes with existing listing", tracing.DomainName, *patch.DomainName)
			return nil, ErrDomainExists
		}
	}

	if err := x.apply(ctx, logger, id, patch.columns(time.Now())); err != nil {
		return nil, err
	}

	return x.GetDomain(ctx, logger, id)
}

func (x *DomainsRepository) SetAvailability(ctx context.Context, logger *tracing.Logger, id string, available bool) error {
	defer tracing.ProfilePoint(logger, "Domains set availability completed", "repository.domains.set.availability", tracing.DomainId, id, "available", available)()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	return x.apply(ctx, logger, id, (&DomainPatch{Available: &available}).columns(time.Now()))
}

// SetPosted toggles the channel flag; posting stamps postDateTime, unposting clears it.
func (x *DomainsRepository) SetPosted(ctx context.Context, logger *tracing.Logger, id string, posted bool) error {
	defer tracing.ProfilePoint(logger, "Domains set posted completed", "repository.domains.set.posted", tracing.DomainId, id, "posted", posted)()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	return x.apply(ctx, logger, id, (&DomainPatch{Posted: &posted}).columns(time.Now()))
}

func (x *DomainsRepository) DeleteDomain(ctx context.Context, logger *tracing.Logger, id string) error {
	defer tracing.ProfilePoint(logger, "Domains delete domain completed", "repository.domains.delete.domain", tracing.DomainId, id)()
	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	result := x.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Domain{})
	if result.Error != nil {
		logger.E("Failed to delete domain", tracing.InnerError, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDomainNotFound
	}

	logger.I("Deleted domain", tracing.DomainId, id)
	return nil
}

func (x *DomainsRepository) apply(ctx context.Context, logger *tracing.Logger, id string, cols map[string]any) error {
	result := x.db.WithContext(ctx).Model(&entities.Domain{}).Where("id = ?", id).Updates(cols)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDomainExists
		}
		logger.E("Failed to update domain", tracing.InnerError, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		logger.W("Domain not found for update", tracing.DomainId, id)
		return ErrDomainNotFound
	}
	return nil
}

func (x *DomainsRepository) filtered(ctx context.Context, filter DomainFilter) *gorm.DB {
	tx := x.db.WithContext(ctx).Model(&entities.Domain{})

	if filter.Available != nil {
		tx = tx.Where("status = ?", *filter.Available)
	}
	if filter.Posted != nil {
		tx = tx.Where("ischannel = ?", *filter.Posted)
	}
	if filter.Category != "" {
		tx = tx.Where("category = ?", filter.Category)
	}
	if filter.Country != "" {
		tx = tx.Where("country = ?", filter.Country)
	}
	if q := strings.ToLower(strings.TrimSpace(filter.Query)); q != "" {
		tx = tx.Where("LOWER(domain_name) LIKE ?", "%"+q+"%")
	}

	return tx
}
