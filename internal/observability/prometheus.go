package observability

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"interviewlens/internal/config"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type prometheusEndpoint struct {
	reader  sdkmetric.Reader
	handler http.Handler
	mux     *http.ServeMux
	port    string
	server  *http.Server
}

// newPrometheusEndpoint registers the exporter on a private registry so
// several managers can coexist in one process.
func newPrometheusEndpoint(cfg config.PrometheusConfig) (*prometheusEndpoint, error) {
	registry := promclient.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	mux := http.NewServeMux()
	mux.Handle(cfg.Endpoint, handler)

	return &prometheusEndpoint{
		reader:  exporter,
		handler: handler,
		mux:     mux,
		port:    cfg.Port,
	}, nil
}

func (p *prometheusEndpoint) start() error {
	p.server = &http.Server{
		Addr:              ":" + p.port,
		Handler:           p.mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := p.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Prometheus server error: %v", err)
		}
	}()
	return nil
}

func (p *prometheusEndpoint) shutdown(ctx context.Context) error {
	if p.server == nil {
		return nil
	}
	return p.server.Shutdown(ctx)
}
