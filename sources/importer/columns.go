package importer

import (
	"strings"
)

const (
	ColDomainName      = "Domain Name"
	ColCountry         = "Country"
	ColCategory        = "Category"
	ColDA              = "DA"
	ColPA              = "PA"
	ColSS              = "SS"
	ColBacklinks       = "Backlinks"
	ColPrice           = "Price"
	ColStatus          = "Status"
	ColPanelLink       = "Panel Link"
	ColPanelUsername   = "Panel Username"
	ColPanelPassword   = "Panel Password"
	ColShellLink       = "Shell Link"
	ColHostingLink     = "Hosting Link"
	ColHostingUsername = "Hosting Username"
	ColHostingPassword = "Hosting Password"
	ColIschannel       = "Ischannel"
)

// ExpectedFormat is shown to the uploader when required columns are missing.
const ExpectedFormat = "Domain Name, Country, Category, DA, PA, SS, Backlinks, Price, Status, Panel Link, Panel Username, Panel Password, Shell Link, Hosting Link, Hosting Username, Hosting Password, Ischannel"

var RequiredColumns = []string{ColDomainName, ColCountry, ColCategory, ColPrice}

var knownColumns = []string{
	ColDomainName, ColCountry, ColCategory, ColDA, ColPA, ColSS, ColBacklinks, ColPrice, ColStatus,
	ColPanelLink, ColPanelUsername, ColPanelPassword, ColShellLink,
	ColHostingLink, ColHostingUsername, ColHostingPassword, ColIschannel,
}

var aliases = map[string]string{
	"domain":    ColDomainName,
	"domains":   ColDomainName,
	"backlink":  ColBacklinks,
	"goodlink":  ColShellLink,
	"posted":    ColIschannel,
	"available": ColStatus,
}

var canonical = func() map[string]string {
	m := make(map[string]string, len(knownColumns)+len(aliases))
	for _, column := range knownColumns {
		m[headerKey(column)] = column
	}
	for alias, column := range aliases {
		m[alias] = column
	}
	return m
}()

// headerKey folds case, spacing, underscores and a byte order mark.
func headerKey(header string) string {
	header = strings.TrimPrefix(header, "\ufeff")
	var b strings.Builder
	for _, r := range strings.ToLower(header) {
		switch r {
		case ' ', '\t', '_', '-':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// resolveColumns maps header cells to canonical names. Unknown headers keep
// their trimmed text so the row data still carries them.
func resolveColumns(header []string) []string {
	columns := make([]string, len(header))
	for i, cell := range header {
		if column, ok := canonical[headerKey(cell)]; ok {
			columns[i] = column
			continue
		}
		columns[i] = strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))
	}
	return columns
}

func missingColumns(columns []string) []string {
	present := make(map[string]bool, len(columns))
	for _, column := range columns {
		present[column] = true
	}

	var missing []string
	for _, column := range RequiredColumns {
		if !present[column] {
			missing = append(missing, column)
		}
	}
	return missing
}
