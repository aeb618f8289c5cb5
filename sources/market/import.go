package market

import (
	"context"
	"errors"
	"strings"

	"domainhub/sources/importer"
	"domainhub/sources/persistence/entities"
	"domainhub/sources/realtime"
	"domainhub/sources/repository"
	"domainhub/sources/texting/domains"
	"domainhub/sources/tracing"
)

const lookupBatch = 500

type ImportSummary struct {
	TotalRows  int `json:"totalRows"`
	Successful int `json:"successful"`
	Duplicates int `json:"duplicates"`
	Errors     int `json:"errors"`
}

type ImportedRow struct {
	Row        int    `json:"row"`
	DomainName string `json:"domainName"`
	ID         string `json:"id"`
}

type DuplicateRow struct {
	Row        int               `json:"row"`
	DomainName string            `json:"domainName"`
	Data       map[string]string `json:"data"`
}

type FailedRow struct {
	Row   int               `json:"row"`
	Error string            `json:"error"`
	Data  map[string]string `json:"data"`
}

type ImportDetails struct {
	Successful []ImportedRow  `json:"successful"`
	Duplicates []DuplicateRow `json:"duplicates"`
	Errors     []FailedRow    `json:"errors"`
}

type ImportReport struct {
	Summary ImportSummary `json:"summary"`
	Details ImportDetails `json:"details"`
}

func newImportReport(total int) *ImportReport {
	return &ImportReport{
		Summary: ImportSummary{TotalRows: total},
		Details: ImportDetails{
			Successful: []ImportedRow{},
			Duplicates: []DuplicateRow{},
			Errors:     []FailedRow{},
		},
	}
}

func (r *ImportReport) success(row importer.Row, domain *entities.Domain) {
	r.Summary.Successful++
	r.Details.Successful = append(r.Details.Successful, ImportedRow{Row: row.Number, DomainName: domain.DomainName, ID: domain.ID})
}

func (r *ImportReport) duplicate(row importer.Row, name string) {
	r.Summary.Duplicates++
	r.Details.Duplicates = append(r.Details.Duplicates, DuplicateRow{Row: row.Number, DomainName: name, Data: row.Values})
}

func (r *ImportReport) fail(row importer.Row, message string) {
	r.Summary.Errors++
	r.Details.Errors = append(r.Details.Errors, FailedRow{Row: row.Number, Error: message, Data: row.Values})
}

// Import stores every valid row of sheet. Rows whose name is already listed,
// or repeats an earlier row of the same file, are reported as duplicates, so
// importing a file twice creates nothing the second time. Rows are
// independent: a failing row never aborts the import.
func (m *Market) Import(ctx context.Context, logger *tracing.Logger, sheet *importer.Sheet) (*ImportReport, error) {
	defer tracing.ProfilePoint(logger, "Market import completed", "market.import", "rows", len(sheet.Rows))()

	report := newImportReport(len(sheet.Rows))

	existing, err := m.existingNames(ctx, logger, sheet)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(sheet.Rows))

	for _, row := range sheet.Rows {
		rlog := logger.With(tracing.ImportRow, row.Number)

		raw := row.Get(importer.ColDomainName)
		if raw == "" {
			report.fail(row, "Domain Name is required")
			continue
		}

		name, err := domains.Normalize(raw)
		if err != nil {
			report.fail(row, "Invalid domain name '"+raw+"'")
			continue
		}

		_, repeated := seen[name]
		if _, listed := existing[name]; repeated || listed {
			report.duplicate(row, name)
			continue
		}

		domain, message := listingFromRow(row, name)
		if message != "" {
			report.fail(row, message)
			continue
		}

		// Only stored names shadow later rows, so a failed row does not hide
		// a valid one further down.
		err = m.domains.CreateDomain(ctx, rlog, domain)
		switch {
		case err == nil:
			seen[name] = struct{}{}
			report.success(row, domain)
		case errors.Is(err, repository.ErrDomainExists):
			seen[name] = struct{}{}
			report.duplicate(row, name)
		default:
			report.fail(row, err.Error())
		}
	}

	m.metrics.RecordImportRows("successful", report.Summary.Successful)
	m.metrics.RecordImportRows("duplicate", report.Summary.Duplicates)
	m.metrics.RecordImportRows("error", report.Summary.Errors)

	logger.I("Import completed",
		"total", report.Summary.TotalRows,
		"successful", report.Summary.Successful,
		"duplicates", report.Summary.Duplicates,
		"errors", report.Summary.Errors,
	)

	if report.Summary.Successful > 0 {
		m.notify(ctx, realtime.DomainsImportedEvent(report.Summary))
	}

	return report, nil
}

// existingNames looks up every normalizable name of the sheet.
func (m *Market) existingNames(ctx context.Context, logger *tracing.Logger, sheet *importer.Sheet) (map[string]*entities.Domain, error) {
	names := make([]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if name, err := domains.Normalize(row.Get(importer.ColDomainName)); err == nil {
			names = append(names, name)
		}
	}

	return m.resolveNames(ctx, logger, names)
}

// resolveNames looks names up in batches of lookupBatch. Names without a
// listing are absent from the result.
func (m *Market) resolveNames(ctx context.Context, logger *tracing.Logger, names []string) (map[string]*entities.Domain, error) {
	resolved := make(map[string]*entities.Domain, len(names))
	for start := 0; start < len(names); start += lookupBatch {
		end := min(start+lookupBatch, len(names))

		found, err := m.domains.FindDomainsByNames(ctx, logger, names[start:end])
		if err != nil {
			return nil, err
		}
		for name, domain := range found {
			resolved[name] = domain
		}
	}

	return resolved, nil
}

// listingFromRow returns the listing, or a message explaining why the row
// cannot be stored.
func listingFromRow(row importer.Row, name string) (*entities.Domain, string) {
	country := row.Get(importer.ColCountry)
	category := row.Get(importer.ColCategory)
	rawPrice := row.Get(importer.ColPrice)

	if country == "" || category == "" || rawPrice == "" {
		return nil, "Missing required fields (Country, Category, or Price)"
	}

	price, err := domains.ParsePrice(rawPrice)
	if err != nil || !price.IsPositive() {
		return nil, "Price must be greater than 0"
	}

	return &entities.Domain{
		DomainName:      name,
		Country:         country,
		Category:        category,
		DA:              domains.ParseCount(row.Get(importer.ColDA)),
		PA:              domains.ParseCount(row.Get(importer.ColPA)),
		SS:              domains.ParseCount(row.Get(importer.ColSS)),
		Backlink:        domains.ParseCount(row.Get(importer.ColBacklinks)),
		Price:           price,
		Available:       domains.ParseFlag(row.Get(importer.ColStatus)),
		PanelLink:       row.Get(importer.ColPanelLink),
		PanelUsername:   row.Get(importer.ColPanelUsername),
		PanelPassword:   row.Get(importer.ColPanelPassword),
		GoodLink:        row.Get(importer.ColShellLink),
		HostingLink:     row.Get(importer.ColHostingLink),
		HostingUsername: row.Get(importer.ColHostingUsername),
		HostingPassword: row.Get(importer.ColHostingPassword),
		Posted:          domains.ParseFlag(strings.TrimSpace(row.Get(importer.ColIschannel))),
	}, ""
}
