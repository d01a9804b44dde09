package server

import (
	"github.com/engabdalla/portfolio-api/internal/mailer"
	"github.com/engabdalla/portfolio-api/internal/metrics"
	"github.com/engabdalla/portfolio-api/internal/ratelimit"
)

// Option overrides a dependency Init would otherwise build from config
type Option func(*Server)

// WithSender replaces the provider chosen from EMAIL_PROVIDER
func WithSender(s mailer.Sender) Option {
	return func(srv *Server) { srv.sender = s }
}

// WithRateStore replaces the memory or Redis store
func WithRateStore(store ratelimit.Store) Option {
	return func(srv *Server) { srv.rateStore = store }
}

// WithClock replaces the limiter's clock
func WithClock(clock ratelimit.Clock) Option {
	return func(srv *Server) { srv.clock = clock }
}

// WithMetrics replaces the metrics registry
func WithMetrics(m *metrics.Metrics) Option {
	return func(srv *Server) { srv.metrics = m }
}
