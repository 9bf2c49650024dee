package inspect

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quotely/signal/pkg/reactive"
)

// Config configures the inspector.
type Config struct {
	// Addr is the listen address (default ":9090").
	Addr string

	// Registry holds the signals to expose. Required.
	Registry *reactive.Registry

	// Gatherer serves /metrics. Default: prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// Logger receives request and stream errors. Default: slog.Default().
	Logger *slog.Logger

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration

	// MaxBodyBytes limits PUT bodies (default 1 MiB).
	MaxBodyBytes int64

	// StreamBuffer is the number of pending messages per websocket before
	// new values are dropped (default 64).
	StreamBuffer int

	// WriteTimeout bounds each websocket write (default 10s).
	WriteTimeout time.Duration

	// CheckOrigin validates websocket origins. Default: same-origin only.
	CheckOrigin func(r *http.Request) bool
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":9090"
	}
	if c.Gatherer == nil {
		c.Gatherer = prometheus.DefaultGatherer
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 1 << 20
	}
	if c.StreamBuffer <= 0 {
		c.StreamBuffer = 64
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
}

// Server is the diagnostics HTTP server.
type Server struct {
	config   Config
	registry *reactive.Registry
	router   chi.Router
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// New creates a server. It panics if cfg.Registry is nil.
func New(cfg Config) *Server {
	if cfg.Registry == nil {
		panic("inspect: nil registry")
	}
	cfg.applyDefaults()

	s := &Server{
		config:   cfg,
		registry: cfg.Registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     cfg.CheckOrigin,
		},
		logger: cfg.Logger.With("component", "inspect"),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/ws", s.handleStream)

	r.Route("/signals", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/{name}", s.handleSnapshot)
		r.Get("/{name}/value", s.handleSnapshot)
		r.Put("/{name}/value", s.handleAssign)
		r.Get("/{name}/{key}", s.handleProperty)
	})
	return r
}

// Handler returns the HTTP handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("inspector listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("inspector shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
