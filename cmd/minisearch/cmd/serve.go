package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/searcher/handler"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/resilience"
)

type serveOptions struct {
	dir  string
	port int
}

func newServeCmd(g *globals) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search API over HTTP",
		Long: `Index the configured corpus once and serve it over HTTP until
interrupted. The corpus is corpus.dir, or a PostgreSQL table when
corpus.source is postgres. --dir always reads a directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.port > 0 {
				g.cfg.Server.Port = opts.port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := newServer(ctx, g.cfg, opts.dir, metrics.New())
			if err != nil {
				return err
			}
			defer srv.close()

			ln, err := net.Listen("tcp", fmt.Sprintf(":%d", g.cfg.Server.Port))
			if err != nil {
				return fmt.Errorf("listening on port %d: %w", g.cfg.Server.Port, err)
			}
			return srv.serve(ctx, ln)
		},
	}

	cmd.Flags().StringVar(&opts.dir, "dir", "", "Directory of .txt files to serve (overrides corpus config)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "HTTP port (overrides server.port)")

	return cmd
}

// server holds everything serve wires together so tests can drive it
// without signals.
type server struct {
	cfg        *config.Config
	http       *http.Server
	exec       *executor.Executor
	cache      *cache.QueryCache
	collector  *analytics.Collector
	aggregator *analytics.Aggregator
	metrics    *metrics.Metrics
	shutdowns  []func(context.Context) error
	logger     *slog.Logger
}

func newServer(ctx context.Context, cfg *config.Config, dir string, m *metrics.Metrics) (*server, error) {
	s := &server{
		cfg:     cfg,
		metrics: m,
		logger:  slog.Default().With("component", "server"),
	}

	exec, err := newExecutor(ctx, cfg, dir, m)
	if err != nil {
		return nil, fmt.Errorf("building index: %w", err)
	}
	s.exec = exec
	stats := exec.Stats()
	s.logger.Info("index ready",
		"documents", stats.Documents,
		"terms", stats.Terms,
		"policy", exec.Policy().String(),
	)

	s.cache = newQueryCache(ctx, cfg, m)

	s.aggregator = analytics.NewAggregator()
	if cfg.Analytics.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.SearchEvents)
		s.collector = analytics.NewCollector(producer, cfg.Analytics.BufferSize, analytics.WithMetrics(m))
		s.collector.Start(ctx)
		s.logger.Info("analytics publishing enabled", "topic", cfg.Kafka.Topics.SearchEvents)
	}

	checker := health.NewChecker()
	checker.Register("index", func(context.Context) health.ComponentHealth {
		st := exec.Stats()
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d documents, %d terms", st.Documents, st.Terms),
		}
	})
	if s.cache != nil {
		checker.Register("cache", health.Ping(s.cache.Ping, health.StatusDegraded))
	}

	var tracker analytics.Tracker = s.aggregator
	if s.collector != nil {
		tracker = analytics.Multi(s.aggregator, s.collector)
	}
	h := handler.New(exec,
		handler.WithCache(s.cache),
		handler.WithTracker(tracker),
		handler.WithMetrics(m),
		handler.WithLimits(cfg.Search.DefaultLimit, cfg.Search.MaxResults),
	)

	mux := http.NewServeMux()
	h.Routes(mux)
	analytics.NewHandler(s.aggregator, s.collector).Routes(mux)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())
	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port > 0 {
			s.shutdowns = append(s.shutdowns, m.StartServer(cfg.Metrics.Port))
		} else {
			mux.Handle("GET /metrics", m.Handler())
		}
	}

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.RequestTimeout)(chain)
	chain = middleware.CORS(cfg.Server.CORSOrigins)(chain)
	chain = middleware.Metrics(m)(chain)
	chain = middleware.RequestID(chain)

	s.http = &http.Server{
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s, nil
}

// newQueryCache returns nil when caching is off. An unreachable Redis
// disables caching rather than failing startup.
func newQueryCache(ctx context.Context, cfg *config.Config, m *metrics.Metrics) *cache.QueryCache {
	switch cfg.Cache.Backend {
	case "memory":
		slog.Info("search cache enabled", "backend", "memory", "size", cfg.Cache.Size)
		return cache.New(cache.NewMemoryStore(cfg.Cache.Size), m)
	case "redis":
		store, err := cache.NewRedisStore(ctx, cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, search caching disabled", "error", err)
			return nil
		}
		cb := resilience.NewCircuitBreaker("redis", resilience.CircuitBreakerConfig{})
		slog.Info("search cache enabled",
			"backend", "redis",
			"addr", cfg.Redis.Addr,
			"ttl", cfg.Redis.CacheTTL,
		)
		return cache.New(cache.NewBreakerStore(store, cb), m)
	default:
		return nil
	}
}

// serve blocks until ctx is done, then shuts the server down gracefully.
func (s *server) serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("search service listening", "addr", ln.Addr().String())
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	s.logger.Info("search service stopped")
	return nil
}

func (s *server) close() {
	if s.collector != nil {
		if err := s.collector.Close(); err != nil {
			s.logger.Error("closing analytics collector", "error", err)
		}
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.logger.Error("closing cache", "error", err)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	for _, shutdown := range s.shutdowns {
		if err := shutdown(ctx); err != nil {
			s.logger.Error("shutting down metrics server", "error", err)
		}
	}
}
