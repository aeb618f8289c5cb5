package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"domainhub/sources/auth"
	"domainhub/sources/configuration"
	"domainhub/sources/features"
	"domainhub/sources/market"
	"domainhub/sources/metrics"
	"domainhub/sources/persistence/entities"
	"domainhub/sources/persistence/testdb"
	"domainhub/sources/realtime"
	"domainhub/sources/repository"
	"domainhub/sources/tracing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	t           *testing.T
	url         string
	token       string
	subscribers *repository.SubscribersRepository
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db := testdb.New(t)
	log := tracing.NewNopLogger()
	config := configuration.Defaults()
	config.Auth.JwtSecret = "api-secret"
	config.Market.BulkConcurrency = 2

	metricsService := metrics.NewMetricsService(log)
	domains := repository.NewDomainsRepository(db)
	tickets := repository.NewTicketsRepository(db)
	subscribers := repository.NewSubscribersRepository(db)

	authService := auth.NewAuthService(config, repository.NewAdminsRepository(db))
	require.NoError(t, authService.SeedDefaultAdmin(context.Background(), log))

	hub := realtime.NewHub(config, log, authService, metricsService, nil)
	server := NewServer(
		log,
		config,
		authService,
		market.NewMarket(config, domains, tickets, metricsService, hub),
		hub,
		hub,
		features.NewStaticFeatureManager(log, nil),
		domains,
		tickets,
		repository.NewCommentsRepository(db),
		subscribers,
		repository.NewHealthRepository(db, nil),
		metricsService,
	)

	srv := httptest.NewServer(server.Handler())
	t.Cleanup(srv.Close)

	a := &testAPI{t: t, url: srv.URL, subscribers: subscribers}
	status, body := a.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, status)
	a.token = body["token"].(string)
	return a
}

func (a *testAPI) request(req *http.Request) (int, map[string]any) {
	a.t.Helper()

	if a.token != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)

	body := map[string]any{}
	if len(raw) > 0 {
		require.NoError(a.t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp.StatusCode, body
}

func (a *testAPI) do(method string, path string, payload any) (int, map[string]any) {
	a.t.Helper()

	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(a.t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, a.url+path, reader)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	return a.request(req)
}

func (a *testAPI) upload(field string, filename string, content string) (int, map[string]any) {
	a.t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(a.t, err)
	_, err = part.Write([]byte(content))
	require.NoError(a.t, err)
	require.NoError(a.t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, a.url+"/api/domains/import", &buf)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return a.request(req)
}

func (a *testAPI) createDomain(name string) string {
	a.t.Helper()

	status, body := a.do(http.MethodPost, "/api/domains", map[string]any{
		"domainName":    name,
		"country":       "US",
		"category":      "Tech",
		"price":         "150",
		"status":        "Available",
		"panelPassword": "secret",
	})
	require.Equal(a.t, http.StatusCreated, status, body)
	return body["data"].(map[string]any)["id"].(string)
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t)

	status, body := a.do(http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Server is running!", body["message"])
	assert.Equal(t, map[string]any{"connections": float64(0), "status": "active"}, body["websocket"])
}

func TestLogin(t *testing.T) {
	a := newTestAPI(t)
	a.token = ""

	status, body := a.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Username and password are required", body["message"])

	status, body = a.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", body["message"])
	assert.Equal(t, false, body["success"])

	status, body = a.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Login successful", body["message"])
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "admin", body["user"].(map[string]any)["username"])
}

func TestAdminRoutesRequireToken(t *testing.T) {
	a := newTestAPI(t)

	req, err := http.NewRequest(http.MethodGet, a.url+"/api/domains", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer garbage")
	status, _ := a.request(req)
	assert.Equal(t, http.StatusUnauthorized, status)

	a.token = ""
	for _, path := range []string{"/api/domains", "/api/tickets", "/api/comments", "/api/telegram/users"} {
		status, body := a.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
		assert.Equal(t, "Access token required", body["message"], path)
	}

	status, _ = a.do(http.MethodGet, "/api/domains/public", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestCreateDomain(t *testing.T) {
	a := newTestAPI(t)

	status, body := a.do(http.MethodPost, "/api/domains", map[string]any{"domainName": "x.com"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Required fields: domainName, country, category, price", body["message"])

	a.createDomain("shop.com")

	status, body = a.do(http.MethodPost, "/api/domains", map[string]any{
		"domainName": "shop.com", "country": "US", "category": "Tech", "price": 10,
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Domain 'shop.com' already exists", body["message"])
}

func TestPublicListingHidesCredentials(t *testing.T) {
	a := newTestAPI(t)
	a.createDomain("public.com")

	for _, path := range []string{"/api/domains/public", "/api/domains/all"} {
		status, body := a.do(http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, status)

		list := body["data"].([]any)
		require.Len(t, list, 1, path)
		item := list[0].(map[string]any)
		assert.Equal(t, "public.com", item["domainName"])
		assert.NotContains(t, item, "panelPassword", path)
	}

	status, body := a.do(http.MethodGet, "/api/domains", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "secret", body["data"].([]any)[0].(map[string]any)["panelPassword"])
}

func TestDomainActions(t *testing.T) {
	a := newTestAPI(t)
	id := a.createDomain("act.com")

	status, body := a.do(http.MethodPatch, "/api/domains/"+id+"/sold", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Domain marked as sold", body["message"])
	assert.Equal(t, false, body["data"].(map[string]any)["status"])

	status, body = a.do(http.MethodPatch, "/api/domains/"+id+"/post", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["data"].(map[string]any)["ischannel"])

	status, body = a.do(http.MethodPut, "/api/domains/"+id, map[string]any{"price": "99.5"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 99.5, body["data"].(map[string]any)["price"])

	status, _ = a.do(http.MethodDelete, "/api/domains/"+id, nil)
	require.Equal(t, http.StatusOK, status)

	status, body = a.do(http.MethodPatch, "/api/domains/"+id+"/available", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Domain not found", body["message"])
}

func TestCreateMultiple(t *testing.T) {
	a := newTestAPI(t)

	status, body := a.do(http.MethodPost, "/api/domains/multiple", map[string]any{"domains": []any{}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Domains array is required", body["message"])

	status, body = a.do(http.MethodPost, "/api/domains/multiple", map[string]any{
		"domains": []any{
			map[string]any{"domainName": "one.com", "country": "US", "category": "Tech", "price": 10},
			map[string]any{"domainName": "two.com", "country": "US"},
		},
		"panelUsername": "shared",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "1 domains created successfully", body["message"])

	data := body["data"].(map[string]any)
	created := data["created"].([]any)
	require.Len(t, created, 1)
	assert.Equal(t, "shared", created[0].(map[string]any)["panelUsername"])
	assert.Len(t, data["errors"].([]any), 1)
}

func TestImport(t *testing.T) {
	a := newTestAPI(t)
	a.createDomain("taken.com")

	status, body := a.upload("wrongField", "domains.csv", "Domain Name\n")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No CSV file uploaded", body["message"])

	status, body = a.upload("csvFile", "domains.csv", "Domain Name,Price\na.com,1\n")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid CSV format. Missing columns: Country, Category", body["message"])
	assert.NotEmpty(t, body["expectedFormat"])

	content := "Domain Name,Country,Category,Price\n" +
		"fresh.com,US,Tech,100\n" +
		"taken.com,US,Tech,100\n" +
		"broken,US,Tech,100\n"
	status, body = a.upload("csvFile", "domains.csv", content)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "CSV import completed", body["message"])
	assert.Equal(t, map[string]any{
		"totalRows":  float64(3),
		"successful": float64(1),
		"duplicates": float64(1),
		"errors":     float64(1),
	}, body["summary"])
}

func TestImportTooLarge(t *testing.T) {
	a := newTestAPI(t)

	big := "Domain Name,Country,Category,Price\n" + string(bytes.Repeat([]byte("x"), 5<<20+1024))
	status, body := a.upload("csvFile", "domains.csv", big)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "File too large. Maximum size is 5MB.", body["message"])
}

func TestBulkActions(t *testing.T) {
	a := newTestAPI(t)
	a.createDomain("b1.com")
	a.createDomain("b2.com")

	status, body := a.do(http.MethodPost, "/api/domains/bulk-actions", map[string]any{"action": "explode", "domains": []string{"b1.com"}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["message"], "Invalid action")

	status, body = a.do(http.MethodPost, "/api/domains/bulk-actions", map[string]any{
		"action":  "sold",
		"domains": []string{"b1.com", "B2.com", "ghost.com"},
	})
	require.Equal(t, http.StatusOK, status)

	report := body["data"].(map[string]any)
	assert.Equal(t, float64(3), report["totalDomains"])
	assert.Equal(t, float64(2), report["updated"])
	assert.Equal(t, float64(1), report["notFound"])
}

func TestTicketLifecycle(t *testing.T) {
	a := newTestAPI(t)
	a.createDomain("lead.com")

	status, body := a.do(http.MethodPost, "/api/tickets", map[string]any{"customer_id": "42"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Required fields: customer_id, request_domains (array)", body["message"])

	saved := a.token
	a.token = ""
	status, body = a.do(http.MethodPost, "/api/tickets", map[string]any{
		"customer_id":     "42",
		"request_domains": []string{"Lead.com", "missing.com"},
	})
	require.Equal(t, http.StatusCreated, status)
	ticket := body["data"].(map[string]any)
	id := ticket["id"].(string)
	assert.Equal(t, "New", ticket["status"])

	status, body = a.do(http.MethodPost, "/api/tickets/customer-domains", map[string]any{"customer_id": "42", "domains": []string{"lead.com"}})
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"].([]any), 1)
	a.token = saved

	status, body = a.do(http.MethodGet, "/api/tickets/count/new", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])

	status, body = a.do(http.MethodPatch, "/api/tickets/"+id+"/read", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ticket marked as read", body["message"])

	status, body = a.do(http.MethodPatch, "/api/tickets/"+id+"/sold", map[string]any{"price": 250})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ticket marked as sold", body["message"])
	updates := body["domainUpdates"].(map[string]any)
	assert.Equal(t, float64(1), updates["updated"])
	assert.Equal(t, float64(1), updates["notFound"])

	status, body = a.do(http.MethodGet, "/api/domains", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["data"].([]any)[0].(map[string]any)["status"])

	status, _ = a.do(http.MethodPatch, "/api/tickets/"+id+"/cancelled", nil)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = a.do(http.MethodGet, "/api/tickets?status=Bogus", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = a.do(http.MethodGet, "/api/tickets?status=Sold", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"].([]any), 1)

	status, _ = a.do(http.MethodDelete, "/api/tickets/"+id, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = a.do(http.MethodPatch, "/api/tickets/"+id+"/read", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTicketNumericCustomerID(t *testing.T) {
	a := newTestAPI(t)

	status, body := a.do(http.MethodPost, "/api/tickets", map[string]any{
		"customer_id":     123456789,
		"request_domains": []string{"a.com"},
	})
	require.Equal(t, http.StatusCreated, status, body)
	ticket := body["data"].(map[string]any)
	assert.Equal(t, "123456789", ticket["customer_id"])

	status, body = a.do(http.MethodPost, "/api/tickets/customer-domains", map[string]any{"customer_id": 123456789, "domains": []string{"a.com"}})
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"].([]any), 1)

	status, body = a.do(http.MethodPut, "/api/tickets/"+ticket["id"].(string), map[string]any{"customer_id": 987654321})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "987654321", body["data"].(map[string]any)["customer_id"])
}

func TestComments(t *testing.T) {
	a := newTestAPI(t)

	status, body := a.do(http.MethodPost, "/api/comments", map[string]any{"content": "hi"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Telegram username and content are required", body["message"])

	status, body = a.do(http.MethodPost, "/api/comments", map[string]any{"telegram_username": "@buyer", "content": "Is it still for sale?"})
	require.Equal(t, http.StatusCreated, status)
	comment := body["data"].(map[string]any)
	assert.Equal(t, "buyer", comment["telegram_username"])
	assert.Equal(t, string(entities.CommentStatusNew), comment["status"])

	status, body = a.do(http.MethodGet, "/api/comments/count/new", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])

	id := comment["id"].(string)
	status, _ = a.do(http.MethodPatch, "/api/comments/"+id+"/read", nil)
	require.Equal(t, http.StatusOK, status)

	status, body = a.do(http.MethodGet, "/api/comments/count/new", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["count"])

	status, body = a.do(http.MethodDelete, "/api/comments/"+id, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Comment deleted successfully", body["message"])
}

func TestTelegramUsers(t *testing.T) {
	a := newTestAPI(t)

	_, err := a.subscribers.UpsertSubscriber(context.Background(), tracing.NewNopLogger(), &entities.Subscriber{
		TelegramID: "1001",
		Username:   "alice",
	})
	require.NoError(t, err)

	status, body := a.do(http.MethodGet, "/api/telegram/users", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["total"])

	status, body = a.do(http.MethodGet, "/api/telegram/users/1001", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", body["data"].(map[string]any)["username"])

	status, body = a.do(http.MethodGet, "/api/telegram/users/999", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User not found", body["message"])
}
