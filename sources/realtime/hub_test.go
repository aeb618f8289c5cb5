package realtime

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"domainhub/sources/auth"
	"domainhub/sources/configuration"
	"domainhub/sources/metrics"
	"domainhub/sources/persistence/entities"
	"domainhub/sources/tracing"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHub(t *testing.T) (*Hub, *auth.AuthService, string) {
	t.Helper()

	config := configuration.Defaults()
	config.Auth.JwtSecret = "hub-secret"
	log := tracing.NewNopLogger()

	service := auth.NewAuthService(config, nil)
	hub := NewHub(config, log, service, metrics.NewMetricsService(log), nil)

	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	return hub, service, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) (*websocket.Conn, context.Context) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })
	return conn, ctx
}

func closeReason(err error) string {
	var ce websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Reason
	}
	return ""
}

func TestHubRejectsMissingToken(t *testing.T) {
	_, _, url := newHub(t)
	conn, ctx := dial(t, url)

	_, _, err := conn.Read(ctx)
	assert.Equal(t, websocket.StatusPolicyViolation, websocket.CloseStatus(err))
	assert.Equal(t, "No token provided", closeReason(err))
}

func TestHubRejectsInvalidToken(t *testing.T) {
	_, _, url := newHub(t)
	conn, ctx := dial(t, url+"?token=garbage")

	_, _, err := conn.Read(ctx)
	assert.Equal(t, websocket.StatusPolicyViolation, websocket.CloseStatus(err))
	assert.Equal(t, "Invalid token", closeReason(err))
}

func TestHubDeliversEvents(t *testing.T) {
	hub, service, url := newHub(t)

	token, err := service.Issue(&entities.Admin{ID: "1", Username: "admin"})
	require.NoError(t, err)

	conn, ctx := dial(t, url+"?token="+token)

	var hello Event
	require.NoError(t, wsjson.Read(ctx, conn, &hello))
	assert.Equal(t, EventConnected, hello.Type)
	assert.Equal(t, "WebSocket connection established", hello.Message)

	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Notify(ctx, NewTicketEvent(map[string]string{"id": "t1"}))

	var got struct {
		Type      string            `json:"type"`
		Ticket    map[string]string `json:"ticket"`
		Timestamp time.Time         `json:"timestamp"`
	}
	require.NoError(t, wsjson.Read(ctx, conn, &got))
	assert.Equal(t, EventNewTicket, got.Type)
	assert.Equal(t, "t1", got.Ticket["id"])
	assert.False(t, got.Timestamp.IsZero())

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))
	require.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestAcceptOptions(t *testing.T) {
	assert.True(t, acceptOptions([]string{"*"}).InsecureSkipVerify)

	opts := acceptOptions([]string{"https://admin.example.com", "shop.example.com"})
	assert.False(t, opts.InsecureSkipVerify)
	assert.Equal(t, []string{"admin.example.com", "shop.example.com"}, opts.OriginPatterns)
}
