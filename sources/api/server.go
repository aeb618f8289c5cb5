package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"domainhub/sources/auth"
	"domainhub/sources/configuration"
	"domainhub/sources/features"
	"domainhub/sources/market"
	"domainhub/sources/metrics"
	"domainhub/sources/persistence/entities"
	"domainhub/sources/realtime"
	"domainhub/sources/repository"
	"domainhub/sources/tracing"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Server is the admin and storefront HTTP API together with the admin
// WebSocket feed.
type Server struct {
	log         *tracing.Logger
	config      *configuration.Config
	auth        *auth.AuthService
	market      *market.Market
	notifier    market.Notifier
	hub         *realtime.Hub
	features    *features.FeatureManager
	domains     *repository.DomainsRepository
	tickets     *repository.TicketsRepository
	comments    *repository.CommentsRepository
	subscribers *repository.SubscribersRepository
	checks      *repository.HealthRepository
	metrics     *metrics.MetricsService

	handler http.Handler
	server  *http.Server
}

func NewServer(
	log *tracing.Logger,
	config *configuration.Config,
	auth *auth.AuthService,
	market *market.Market,
	notifier market.Notifier,
	hub *realtime.Hub,
	features *features.FeatureManager,
	domains *repository.DomainsRepository,
	tickets *repository.TicketsRepository,
	comments *repository.CommentsRepository,
	subscribers *repository.SubscribersRepository,
	checks *repository.HealthRepository,
	metrics *metrics.MetricsService,
) *Server {
	x := &Server{
		log:         log,
		config:      config,
		auth:        auth,
		market:      market,
		notifier:    notifier,
		hub:         hub,
		features:    features,
		domains:     domains,
		tickets:     tickets,
		comments:    comments,
		subscribers: subscribers,
		checks:      checks,
		metrics:     metrics,
	}

	x.handler = x.routes()
	x.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Service.HttpPort),
		Handler:           x.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return x
}

func (x *Server) Handler() http.Handler {
	return x.handler
}

func (x *Server) routes() http.Handler {
	root := mux.NewRouter()
	root.Handle("/ws", x.hub)

	router := root.PathPrefix("/api").Subrouter()
	router.Use(metricsMiddleware(x.metrics, x.log))
	router.HandleFunc("/health", x.getHealth).Methods(http.MethodGet)

	admin := authMiddleware(x.auth)

	authRouter := router.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/login", x.login).Methods(http.MethodPost)
	authRouter.Handle("/me", admin(http.HandlerFunc(x.me))).Methods(http.MethodGet)

	domains := router.PathPrefix("/domains").Subrouter()
	domains.HandleFunc("/public", x.getPublicDomains).Methods(http.MethodGet)
	domains.HandleFunc("/all", x.getAllDomains).Methods(http.MethodGet)

	adminDomains := domains.NewRoute().Subrouter()
	adminDomains.Use(admin)
	adminDomains.HandleFunc("", x.getAdminDomains).Methods(http.MethodGet)
	adminDomains.HandleFunc("/", x.getAdminDomains).Methods(http.MethodGet)
	adminDomains.HandleFunc("", x.createDomain).Methods(http.MethodPost)
	adminDomains.HandleFunc("/", x.createDomain).Methods(http.MethodPost)
	adminDomains.HandleFunc("/multiple", x.createDomains).Methods(http.MethodPost)
	adminDomains.HandleFunc("/import", x.importDomains).Methods(http.MethodPost)
	adminDomains.HandleFunc("/bulk-actions", x.bulkActions).Methods(http.MethodPost)
	adminDomains.HandleFunc("/{id}", x.updateDomain).Methods(http.MethodPut)
	adminDomains.HandleFunc("/{id}", x.deleteDomain).Methods(http.MethodDelete)
	for _, action := range []market.Action{market.ActionSold, market.ActionAvailable, market.ActionPost, market.ActionUnpost} {
		adminDomains.HandleFunc("/{id}/"+string(action), x.domainAction(action)).Methods(http.MethodPatch)
	}

	tickets := router.PathPrefix("/tickets").Subrouter()
	tickets.HandleFunc("", x.createTicket).Methods(http.MethodPost)
	tickets.HandleFunc("/", x.createTicket).Methods(http.MethodPost)
	tickets.HandleFunc("/customer-domains", x.customerDomains).Methods(http.MethodPost)

	adminTickets := tickets.NewRoute().Subrouter()
	adminTickets.Use(admin)
	adminTickets.HandleFunc("", x.getTickets).Methods(http.MethodGet)
	adminTickets.HandleFunc("/", x.getTickets).Methods(http.MethodGet)
	adminTickets.HandleFunc("/count/new", x.countNewTickets).Methods(http.MethodGet)
	adminTickets.HandleFunc("/{id}", x.updateTicket).Methods(http.MethodPut)
	adminTickets.HandleFunc("/{id}", x.deleteTicket).Methods(http.MethodDelete)
	adminTickets.HandleFunc("/{id}/read", x.ticketStatus(entities.TicketStatusRead, "Ticket marked as read")).Methods(http.MethodPatch)
	adminTickets.HandleFunc("/{id}/cancelled", x.ticketStatus(entities.TicketStatusCancelled, "Ticket marked as cancelled")).Methods(http.MethodPatch)
	adminTickets.HandleFunc("/{id}/sold", x.markTicketSold).Methods(http.MethodPatch)

	comments := router.PathPrefix("/comments").Subrouter()
	comments.HandleFunc("", x.createComment).Methods(http.MethodPost)
	comments.HandleFunc("/", x.createComment).Methods(http.MethodPost)

	adminComments := comments.NewRoute().Subrouter()
	adminComments.Use(admin)
	adminComments.HandleFunc("", x.getComments).Methods(http.MethodGet)
	adminComments.HandleFunc("/", x.getComments).Methods(http.MethodGet)
	adminComments.HandleFunc("/count/new", x.countNewComments).Methods(http.MethodGet)
	adminComments.HandleFunc("/{id}/read", x.markCommentRead).Methods(http.MethodPatch)
	adminComments.HandleFunc("/{id}", x.deleteComment).Methods(http.MethodDelete)

	telegram := router.PathPrefix("/telegram").Subrouter()
	telegram.Use(admin)
	telegram.HandleFunc("/users", x.getTelegramUsers).Methods(http.MethodGet)
	telegram.HandleFunc("/users/{telegram_id}", x.getTelegramUser).Methods(http.MethodGet)

	return x.cors().Handler(root)
}

func (x *Server) cors() *cors.Cors {
	origins := x.config.Service.CorsOrigins
	for _, origin := range origins {
		if origin == "*" {
			return cors.AllowAll()
		}
	}

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
}

func (x *Server) Start() {
	go func() {
		x.log.I("API server is starting", "port", x.config.Service.HttpPort)

		if err := x.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			x.log.E("Failed to start API server", tracing.InnerError, err)
		}
	}()
}

func (x *Server) Stop(ctx context.Context) error {
	x.log.I("Stopping API server")
	return x.server.Shutdown(ctx)
}
