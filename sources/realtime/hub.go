package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"domainhub/sources/auth"
	"domainhub/sources/configuration"
	"domainhub/sources/metrics"
	"domainhub/sources/tracing"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/redis/go-redis/v9"
)

const (
	clientBuffer = 32
	writeTimeout = 10 * time.Second
)

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	name string
}

// Hub keeps the admin feed connections and fans events out to them. With
// redis configured, events travel through a pub/sub channel so that clients
// of every instance receive them.
type Hub struct {
	log      *tracing.Logger
	verifier TokenVerifier
	metrics  *metrics.MetricsService
	redis    *redis.Client
	channel  string
	accept   *websocket.AcceptOptions

	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewHub(config *configuration.Config, log *tracing.Logger, verifier TokenVerifier, metrics *metrics.MetricsService, redis *redis.Client) *Hub {
	return &Hub{
		log:      log,
		verifier: verifier,
		metrics:  metrics,
		redis:    redis,
		channel:  config.Redis.Channel,
		accept:   acceptOptions(config.Service.CorsOrigins),
		clients:  make(map[*client]struct{}),
	}
}

func acceptOptions(origins []string) *websocket.AcceptOptions {
	opts := &websocket.AcceptOptions{}
	for _, origin := range origins {
		if origin == "*" {
			opts.InsecureSkipVerify = true
			return opts
		}
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			opts.OriginPatterns = append(opts.OriginPatterns, u.Host)
		} else {
			opts.OriginPatterns = append(opts.OriginPatterns, origin)
		}
	}
	return opts
}

// ServeHTTP upgrades an admin connection authenticated by the token query
// parameter and streams events until the peer goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, h.accept)
	if err != nil {
		h.log.W("WebSocket upgrade failed", tracing.InnerError, err, tracing.RemoteAddr, r.RemoteAddr)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		conn.Close(websocket.StatusPolicyViolation, "No token provided")
		return
	}

	claims, err := h.verifier.Verify(token)
	if err != nil {
		h.log.W("WebSocket token rejected", tracing.InnerError, err, tracing.RemoteAddr, r.RemoteAddr)
		conn.Close(websocket.StatusPolicyViolation, "Invalid token")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBuffer), name: claims.Username}
	log := h.log.With(tracing.AdminName, c.name, tracing.RemoteAddr, r.RemoteAddr)

	hello := Event{Type: EventConnected, Message: "WebSocket connection established", Timestamp: time.Now()}
	if err := h.write(r.Context(), conn, hello); err != nil {
		log.W("Failed to greet WebSocket client", tracing.InnerError, err)
		conn.CloseNow()
		return
	}

	h.register(c)
	log.I("WebSocket client connected", tracing.WsClients, h.Count())
	defer func() {
		h.unregister(c)
		log.I("WebSocket client disconnected", tracing.WsClients, h.Count())
	}()

	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-c.send:
			if !ok {
				conn.Close(websocket.StatusTryAgainLater, "Client too slow")
				return
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Write(wctx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				log.D("WebSocket write failed", tracing.InnerError, err)
				return
			}
		}
	}
}

func (h *Hub) write(ctx context.Context, conn *websocket.Conn, event Event) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, event)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.metrics.SetWsClients(count)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	count := len(h.clients)
	h.mu.Unlock()

	h.metrics.SetWsClients(count)
}

// Count reports the number of connected clients of this instance.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Notify publishes event to every connected admin.
func (h *Hub) Notify(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		h.log.E("Failed to marshal event", tracing.InnerError, err, tracing.EventType, event.Type)
		return
	}

	if h.redis != nil {
		err := h.redis.Publish(ctx, h.channel, payload).Err()
		if err == nil {
			return
		}
		h.log.W("Failed to publish event, delivering locally", tracing.InnerError, err, tracing.EventType, event.Type)
	}

	h.broadcast(payload)
}

// broadcast queues payload for every client. Clients whose queue is full are
// dropped.
func (h *Hub) broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			h.log.W("Dropping slow WebSocket client", tracing.AdminName, c.name)
			delete(h.clients, c)
			close(c.send)
		}
	}

	h.metrics.SetWsClients(len(h.clients))
}
