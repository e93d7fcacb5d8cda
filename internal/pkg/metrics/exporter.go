package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/endorses/wordmask/internal/pkg/constants"
	"github.com/endorses/wordmask/internal/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthFunc returns the body of the /health response.
type HealthFunc func() any

// Exporter serves /metrics and /health over HTTP.
type Exporter struct {
	enabled  atomic.Bool
	registry *prometheus.Registry
	server   *http.Server
	listener net.Listener
	addr     string
	health   HealthFunc
	mu       sync.Mutex
}

// NewExporter creates an exporter that will listen on addr. The registry
// comes with Go runtime and process collectors.
func NewExporter(addr string, health HealthFunc) *Exporter {
	registry := prometheus.NewRegistry()

	// Add Go runtime metrics
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	return &Exporter{
		registry: registry,
		addr:     addr,
		health:   health,
	}
}

// Registry returns the registry served on /metrics.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Start binds the listener and serves in the background.
func (e *Exporter) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.enabled.Load() {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("/health", e.healthHandler)

	ln, err := net.Listen("tcp", e.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", e.addr, err)
	}
	e.listener = ln
	e.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	e.enabled.Store(true)

	server := e.server
	go func() {
		logger.Info("Starting metrics server", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server error", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address once started, or the configured one.
func (e *Exporter) Addr() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.listener != nil {
		return e.listener.Addr().String()
	}
	return e.addr
}

// Stop shuts the server down.
func (e *Exporter) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.enabled.Load() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.GracefulShutdownTimeout)
	defer cancel()

	err := e.server.Shutdown(ctx)
	e.server = nil
	e.listener = nil
	e.enabled.Store(false)
	logger.Info("Metrics server stopped")
	return err
}

func (e *Exporter) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !e.enabled.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"disabled"}`))
		return
	}

	body := map[string]any{"status": "healthy"}
	if e.health != nil {
		body["service"] = e.health()
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("failed to write health response", "error", err)
	}
}
