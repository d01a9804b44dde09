package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/engabdalla/portfolio-api/internal/api/handlers"
	"github.com/engabdalla/portfolio-api/internal/api/middleware"
	"github.com/engabdalla/portfolio-api/internal/config"
	"github.com/engabdalla/portfolio-api/internal/logging"
	"github.com/engabdalla/portfolio-api/internal/mailer"
	"github.com/engabdalla/portfolio-api/internal/metrics"
	"github.com/engabdalla/portfolio-api/internal/ratelimit"
	"github.com/engabdalla/portfolio-api/internal/server/routes"
	"github.com/engabdalla/portfolio-api/internal/service"
	"github.com/engabdalla/portfolio-api/internal/tasks"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 15 * time.Second

// Server represents the HTTP server
type Server struct {
	router     *gin.Engine
	cfg        *config.Config
	httpServer *http.Server
	logger     *logging.Logger

	sender    mailer.Sender
	rateStore ratelimit.Store
	clock     ratelimit.Clock
	metrics   *metrics.Metrics
	health    map[string]handlers.Pinger

	closers []func() error
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, opts ...Option) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Gin's own logger is replaced by middleware.RequestLogger
	gin.DisableConsoleColor()
	gin.DefaultWriter = io.Discard

	s := &Server{
		router: gin.New(),
		cfg:    cfg,
		logger: logging.GetGlobalLogger(),
		health: map[string]handlers.Pinger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init wires the contact pipeline and registers all routes. ctx bounds
// background work such as the rate limit janitor.
func (s *Server) Init(ctx context.Context) error {
	if s.metrics == nil && s.cfg.MetricsEnabled {
		s.metrics = metrics.New()
	}

	if err := s.initRateStore(ctx); err != nil {
		return err
	}

	limiterOpts := []ratelimit.Option{}
	if s.clock != nil {
		limiterOpts = append(limiterOpts, ratelimit.WithClock(s.clock))
	}
	limiter := ratelimit.NewLimiter(s.rateStore, s.cfg.Contact.RateLimit, s.cfg.Contact.RateWindow, limiterOpts...)

	if s.sender == nil && s.cfg.Contact.HasProviderCredential() {
		sender, err := mailer.New(s.cfg.Contact)
		if err != nil {
			return fmt.Errorf("failed to create email sender: %w", err)
		}
		s.sender = sender
	}

	contactService := service.NewContactService(s.cfg.Contact, s.sender, s.metrics)
	if contactService.DevMode() {
		s.logger.Warn("No %s credential configured: contact submissions are accepted without sending email", s.cfg.Contact.ProviderName())
	}
	if !s.cfg.Contact.HasDestination() {
		s.logger.Warn("CONTACT_TO or CONTACT_FROM not set: contact submissions will fail with 500")
	}

	h := &routes.Handlers{
		Contact: handlers.NewContactHandler(contactService),
		Health:  handlers.NewHealthHandler(s.health),
	}
	m := &routes.Middleware{
		Validation:       middleware.NewValidationMiddleware(s.metrics),
		GlobalRateLimit:  middleware.RateLimitMiddleware(s.initClientBuckets(), nil),
		ContactRateLimit: middleware.ContactRateLimit(limiter, s.metrics),
		Metrics:          s.metrics,
	}

	routes.SetupGlobalMiddleware(s.router, s.cfg, s.logger, m)
	routes.Setup(s.router, h, m)

	s.httpServer = &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return nil
}

func (s *Server) initRateStore(ctx context.Context) error {
	if s.rateStore != nil {
		return nil
	}

	if addr := s.cfg.RateStore.RedisAddr; addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: s.cfg.RateStore.RedisPassword,
			DB:       s.cfg.RateStore.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			// Not fatal: the limiter fails open until Redis is back
			s.logger.Warn("Redis rate limit store at %s not reachable: %v", addr, err)
		}

		s.rateStore = ratelimit.NewRedisStore(rdb, ratelimit.WithKeyPrefix(s.cfg.RateStore.RedisPrefix))
		s.health["redis"] = handlers.PingerFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		s.closers = append(s.closers, rdb.Close)
		s.logger.Info("Contact rate limit shared through Redis at %s", addr)
		return nil
	}

	store := ratelimit.NewMemoryStore()
	cleanup := tasks.NewRateLimitCleanup(store, s.cfg.Contact.RateWindow, s.cfg.Contact.RateWindow, s.clock)
	cleanup.Start()
	s.closers = append(s.closers, cleanup.Stop)
	s.rateStore = store
	return nil
}

// initClientBuckets sets up the per-client flood guard and the task that
// forgets idle clients
func (s *Server) initClientBuckets() *ratelimit.TokenBuckets {
	buckets := ratelimit.NewTokenBuckets(s.cfg.GlobalRateRPS, s.cfg.GlobalRateBurst)
	idle := buckets.RefillInterval()
	cleanup := tasks.NewRateLimitCleanup(buckets, idle, idle, nil)
	cleanup.Start()
	s.closers = append(s.closers, cleanup.Stop)
	return buckets
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on PORT and blocks until the server stops. It returns nil
// after a graceful Shutdown. Init must have been called.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("server not initialized")
	}

	s.logger.Info("Listening on :%s", s.cfg.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and releases dependencies
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run initializes and starts the server, then shuts it down gracefully on
// SIGINT or SIGTERM or when ctx is cancelled
func Run(ctx context.Context, cfg *config.Config, opts ...Option) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := NewServer(cfg, opts...)
	if err := srv.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger := logging.GetGlobalLogger()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("Server stopped")
	return <-errCh
}
