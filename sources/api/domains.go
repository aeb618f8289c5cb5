package api

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"domainhub/sources/features"
	"domainhub/sources/importer"
	"domainhub/sources/market"
	"domainhub/sources/persistence/entities"
	"domainhub/sources/platform"
	"domainhub/sources/repository"
	"domainhub/sources/texting/domains"
	"domainhub/sources/tracing"

	"github.com/gorilla/mux"
)

const importField = "csvFile"

func publicListings(list []entities.Domain) []entities.PublicDomain {
	result := make([]entities.PublicDomain, 0, len(list))
	for i := range list {
		result = append(result, list[i].Public())
	}
	return result
}

func (x *Server) getPublicDomains(w http.ResponseWriter, r *http.Request) {
	list, err := x.domains.ListPublicDomains(r.Context(), x.log)
	if err != nil {
		WriteError(w, x.log, err)
		return
	}
	WriteData(w, http.StatusOK, "", publicListings(list))
}

func (x *Server) getAllDomains(w http.ResponseWriter, r *http.Request) {
	list, err := x.domains.ListDomains(r.Context(), x.log, repository.DomainFilter{})
	if err != nil {
		WriteError(w, x.log, err)
		return
	}
	WriteData(w, http.StatusOK, "", publicListings(list))
}

func (x *Server) getAdminDomains(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := repository.DomainFilter{
		Category: strings.TrimSpace(query.Get("category")),
		Country:  strings.TrimSpace(query.Get("country")),
		Query:    strings.TrimSpace(query.Get("search")),
	}
	if value := query.Get("status"); value != "" {
		filter.Available = platform.Ptr(domains.ParseFlag(value))
	}
	if value := query.Get("ischannel"); value != "" {
		filter.Posted = platform.Ptr(domains.ParseFlag(value))
	}

	list, err := x.domains.ListDomains(r.Context(), x.log, filter)
	if err != nil {
		WriteError(w, x.log, err)
		return
	}
	WriteData(w, http.StatusOK, "", list)
}

func (x *Server) createDomain(w http.ResponseWriter, r *http.Request) {
	var in market.ListingInput
	if err := decode(r, &in); err != nil {
		WriteError(w, x.log, err)
		return
	}

	domain, err := x.market.CreateListing(r.Context(), x.log, &in)
	if errors.Is(err, repository.ErrDomainExists) {
		WriteMessage(w, http.StatusConflict, fmt.Sprintf("Domain '%s' already exists", strings.TrimSpace(in.DomainName)))
		return
	}
	if err != nil {
		WriteError(w, x.log, err)
		return
	}

	WriteData(w, http.StatusCreated, "Domain created successfully", domain)
}

type createManyRequest struct {
	Domains []market.ListingInput `json:"domains"`
	market.Credentials
}

func (x *Server) createDomains(w http.ResponseWriter, r *http.Request) {
	var req createManyRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, x.log, err)
		return
	}
	if len(req.Domains) == 0 {
		WriteMessage(w, http.StatusBadRequest, "Domains array is required")
		return
	}

	report := x.market.CreateMany(r.Context(), x.log, req.Domains, req.Credentials)
	WriteData(w, http.StatusCreated, fmt.Sprintf("%d domains created successfully", len(report.Created)), report)
}

type importResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Summary market.ImportSummary `json:"summary"`
	Details market.ImportDetails `json:"details"`
}

func (x *Server) importDomains(w http.ResponseWriter, r *http.Request) {
	limit := x.uploadLimit()
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)

	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteMessage(w, http.StatusBadRequest, x.tooLargeMessage())
			return
		}
		WriteMessage(w, http.StatusBadRequest, "No CSV file uploaded")
		return
	}

	file, header, err := r.FormFile(importField)
	if err != nil {
		WriteMessage(w, http.StatusBadRequest, "No CSV file uploaded")
		return
	}
	defer file.Close()

	if header.Size > limit {
		WriteMessage(w, http.StatusBadRequest, x.tooLargeMessage())
		return
	}

	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".xlsx", ".xlsm":
		if !x.features.Enabled(features.FeatureImportSpreadsheet) {
			WriteMessage(w, http.StatusBadRequest, "Only CSV files are allowed")
			return
		}
	}

	sheet, err := importer.Read(header.Filename, file, x.config.Market.ImportMaxRows)
	if err != nil {
		var missing *importer.MissingColumnsError
		switch {
		case errors.As(err, &missing):
			WriteJSON(w, http.StatusBadRequest, map[string]any{
				"success":        false,
				"message":        missing.Error(),
				"expectedFormat": importer.ExpectedFormat,
			})
		case errors.Is(err, importer.ErrEmptyFile):
			WriteMessage(w, http.StatusBadRequest, "CSV file is empty")
		case errors.Is(err, importer.ErrTooManyRows):
			WriteMessage(w, http.StatusBadRequest, fmt.Sprintf("Too many rows. Maximum is %d.", x.config.Market.ImportMaxRows))
		default:
			x.log.W("Failed to read uploaded file", tracing.ImportFile, header.Filename, tracing.InnerError, err)
			WriteMessage(w, http.StatusBadRequest, "Failed to parse CSV file")
		}
		return
	}

	report, err := tracing.ReportExecutionForRE(x.log.With(tracing.ImportFile, header.Filename),
		func() (*market.ImportReport, error) { return x.market.Import(r.Context(), x.log, sheet) },
		func(l *tracing.Logger, report *market.ImportReport, err error) {
			if err != nil {
				l.E("Import failed", tracing.InnerError, err)
				return
			}
			l.I("Import finished",
				"total_rows", report.Summary.TotalRows,
				"successful", report.Summary.Successful,
				"duplicates", report.Summary.Duplicates,
				"errors", report.Summary.Errors,
			)
		},
	)
	if err != nil {
		WriteError(w, x.log, err)
		return
	}

	WriteJSON(w, http.StatusOK, importResponse{
		Success: true,
		Message: "CSV import completed",
		Summary: report.Summary,
		Details: report.Details,
	})
}

func (x *Server) uploadLimit() int64 {
	mb := x.config.Service.UploadLimitMB
	if mb <= 0 {
		mb = 5
	}
	return mb << 20
}

func (x *Server) tooLargeMessage() string {
	return fmt.Sprintf("File too large. Maximum size is %dMB.", x.uploadLimit()>>20)
}

type bulkRequest struct {
	Action  string   `json:"action"`
	Domains []string `json:"domains"`
}

func (x *Server) bulkActions(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, x.log, err)
		return
	}
	if strings.TrimSpace(req.Action) == "" || len(req.Domains) == 0 {
		WriteMessage(w, http.StatusBadRequest, "Action and domains array are required")
		return
	}

	action, err := market.ParseAction(req.Action)
	if err != nil {
		WriteError(w, x.log, err)
		return
	}

	report, err := tracing.ReportExecutionForRE(x.log.With(tracing.BulkAction, action),
		func() (*market.BulkReport, error) { return x.market.BulkActions(r.Context(), x.log, action, req.Domains) },
		func(l *tracing.Logger, report *market.BulkReport, err error) {
			if err == nil {
				l.I("Bulk action finished", "total", report.TotalDomains, "updated", report.Updated, "not_found", report.NotFound, "errors", report.Errors)
			}
		},
	)
	if err != nil {
		WriteError(w, x.log, err)
		return
	}

	message := fmt.Sprintf("Bulk %s completed: %d updated, %d not found, %d errors",
		action, report.Updated, report.NotFound, report.Errors)
	WriteData(w, http.StatusOK, message, report)
}

func (x *Server) updateDomain(w http.ResponseWriter, r *http.Request) {
	var update market.ListingUpdate
	if err := decode(r, &update); err != nil {
		WriteError(w, x.log, err)
		return
	}

	domain, err := x.market.UpdateListing(r.Context(), x.log, mux.Vars(r)["id"], &update)
	if err != nil {
		WriteError(w, x.log, err)
		return
	}
	WriteData(w, http.StatusOK, "Domain updated successfully", domain)
}

func (x *Server) deleteDomain(w http.ResponseWriter, r *http.Request) {
	if err := x.market.ApplyDomainAction(r.Context(), x.log, mux.Vars(r)["id"], market.ActionDelete); err != nil {
		WriteError(w, x.log, err)
		return
	}
	WriteMessage(w, http.StatusOK, "Domain deleted successfully")
}

var domainActionMessages = map[market.Action]string{
	market.ActionSold:      "Domain marked as sold",
	market.ActionAvailable: "Domain marked as available",
	market.ActionPost:      "Domain posted to channel",
	market.ActionUnpost:    "Domain removed from channel",
}

// domainAction serves PATCH /domains/{id}/{action} and answers with the
// updated listing.
func (x *Server) domainAction(action market.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		if err := x.market.ApplyDomainAction(r.Context(), x.log, id, action); err != nil {
			WriteError(w, x.log, err)
			return
		}

		domain, err := x.domains.GetDomain(r.Context(), x.log, id)
		if err != nil {
			WriteError(w, x.log, err)
			return
		}
		WriteData(w, http.StatusOK, domainActionMessages[action], domain)
	}
}
