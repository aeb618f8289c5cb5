package market

import (
	"context"
	"errors"

	"domainhub/sources/persistence/entities"
	"domainhub/sources/repository"
	"domainhub/sources/texting/domains"
	"domainhub/sources/tracing"

	"golang.org/x/sync/errgroup"
)

type BulkFailure struct {
	DomainName string `json:"domainName"`
	Error      string `json:"error"`
}

type BulkDetails struct {
	Updated  []string      `json:"updated"`
	NotFound []string      `json:"notFound"`
	Errors   []BulkFailure `json:"errors"`
}

// BulkReport is the per-name outcome of an action over many listings.
type BulkReport struct {
	Action       Action      `json:"action"`
	TotalDomains int         `json:"totalDomains"`
	Updated      int         `json:"updated"`
	NotFound     int         `json:"notFound"`
	Errors       int         `json:"errors"`
	Details      BulkDetails `json:"details"`
}

func newBulkReport(action Action, total int) *BulkReport {
	return &BulkReport{
		Action:       action,
		TotalDomains: total,
		Details: BulkDetails{
			Updated:  []string{},
			NotFound: []string{},
			Errors:   []BulkFailure{},
		},
	}
}

func (r *BulkReport) updated(name string) {
	r.Updated++
	r.Details.Updated = append(r.Details.Updated, name)
}

func (r *BulkReport) notFound(name string) {
	r.NotFound++
	r.Details.NotFound = append(r.Details.NotFound, name)
}

func (r *BulkReport) fail(name string, message string) {
	r.Errors++
	r.Details.Errors = append(r.Details.Errors, BulkFailure{DomainName: name, Error: message})
}

// BulkActions applies action to every named listing. Names are normalized and
// de-duplicated first; names that cannot be normalized are reported as errors.
func (m *Market) BulkActions(ctx context.Context, logger *tracing.Logger, action Action, names []string) (*BulkReport, error) {
	defer tracing.ProfilePoint(logger, "Market bulk actions completed", "market.bulk.actions", tracing.BulkAction, action, "count", len(names))()

	if _, err := ParseAction(string(action)); err != nil {
		return nil, err
	}

	valid, invalid := domains.NormalizeList(names)
	report := newBulkReport(action, len(valid)+len(invalid))
	for _, raw := range invalid {
		report.fail(raw, "Invalid domain name")
	}

	if err := m.fanOut(ctx, logger, action, valid, report); err != nil {
		return nil, err
	}

	m.record(report)
	return report, nil
}

// syncSold marks the names of a sold ticket as sold. Names are de-duplicated
// like BulkActions does; names that cannot be normalized cannot match a
// listing and count as not found.
func (m *Market) syncSold(ctx context.Context, logger *tracing.Logger, names []string) (*BulkReport, error) {
	valid, invalid := domains.NormalizeList(names)

	report := newBulkReport(ActionSold, len(valid)+len(invalid))
	for _, raw := range invalid {
		report.notFound(raw)
	}

	if err := m.fanOut(ctx, logger, ActionSold, valid, report); err != nil {
		return nil, err
	}

	m.record(report)
	return report, nil
}

type bulkOutcome struct {
	found bool
	err   error
}

// fanOut resolves names to listings and updates them concurrently, bounded
// by the configured concurrency. Outcomes are reported in input order.
func (m *Market) fanOut(ctx context.Context, logger *tracing.Logger, action Action, names []string, report *BulkReport) error {
	if len(names) == 0 {
		return nil
	}

	resolved, err := m.resolveNames(ctx, logger, names)
	if err != nil {
		return err
	}

	outcomes := make([]bulkOutcome, len(names))

	var g errgroup.Group
	g.SetLimit(max(m.config.BulkConcurrency, 1))

	for i, name := range names {
		domain, ok := resolved[name]
		if !ok {
			continue
		}
		outcomes[i].found = true

		g.Go(func() error {
			outcomes[i].err = m.applyToListing(ctx, logger, domain, action)
			return nil
		})
	}

	_ = g.Wait()

	for i, name := range names {
		outcome := outcomes[i]
		switch {
		case !outcome.found, errors.Is(outcome.err, repository.ErrDomainNotFound):
			report.notFound(name)
		case outcome.err != nil:
			report.fail(name, outcome.err.Error())
		default:
			report.updated(name)
		}
	}

	return nil
}

func (m *Market) applyToListing(ctx context.Context, logger *tracing.Logger, domain *entities.Domain, action Action) error {
	return m.ApplyDomainAction(ctx, logger.With(tracing.DomainName, domain.DomainName), domain.ID, action)
}

func (m *Market) record(report *BulkReport) {
	action := string(report.Action)
	m.metrics.RecordBulkOutcome(action, "updated", report.Updated)
	m.metrics.RecordBulkOutcome(action, "not_found", report.NotFound)
	m.metrics.RecordBulkOutcome(action, "error", report.Errors)
}
