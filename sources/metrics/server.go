package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"domainhub/sources/configuration"
	"domainhub/sources/platform"
	"domainhub/sources/tracing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer exposes application metrics on /metrics and runtime metrics
// on /metrics/system, on a port separate from the API.
type MetricsServer struct {
	log    *tracing.Logger
	port   int
	server *http.Server
}

func NewMetricsServer(log *tracing.Logger, config *configuration.Config) *MetricsServer {
	systemRegistry := prometheus.NewRegistry()

	systemRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)

	return &MetricsServer{
		log:  log,
		port: config.Service.MetricsPort,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.Service.MetricsPort),
			ReadHeaderTimeout: 10 * time.Second,
			Handler: platform.Curry(http.NewServeMux, func(m *http.ServeMux) {
				m.Handle("/metrics", promhttp.Handler())
				m.Handle("/metrics/system", promhttp.HandlerFor(systemRegistry, promhttp.HandlerOpts{}))
			}),
		},
	}
}

func (x *MetricsServer) Start() {
	if x.port <= 0 {
		x.log.I("Metrics server disabled")
		return
	}

	go func() {
		x.log.I("Metrics server is starting", "port", x.port)

		if err := x.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			x.log.E("Failed to start metrics server", tracing.InnerError, err)
		}
	}()
}

func (x *MetricsServer) Stop(ctx context.Context) error {
	if x.port <= 0 {
		return nil
	}
	x.log.I("Stopping metrics server")
	return x.server.Shutdown(ctx)
}
