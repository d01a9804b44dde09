package service

import (
	"context"
	"fmt"
	"time"

	"github.com/engabdalla/portfolio-api/internal/api/dto/v1/contact"
	"github.com/engabdalla/portfolio-api/internal/config"
	"github.com/engabdalla/portfolio-api/internal/logging"
	"github.com/engabdalla/portfolio-api/internal/mailer"
	"github.com/engabdalla/portfolio-api/internal/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Messages returned to the visitor
const (
	MsgSpamAccepted  = "Thanks! We'll be in touch soon."
	MsgDevMode       = "Message accepted (dev mode). I'll reply shortly!"
	MsgSent          = "Thanks! Your message was sent - I'll reply soon."
	MsgNotConfigured = "Server not configured. Missing CONTACT_TO or CONTACT_FROM environment variables."
	MsgDeliveryError = "Failed to send email. Please try again shortly or use a social link."
)

// Result is a successful outcome of Submit
type Result struct {
	Message   string
	Outcome   string
	MessageID string
}

// ContactService decides what happens to a validated submission
type ContactService struct {
	cfg     config.ContactConfig
	sender  mailer.Sender
	metrics *metrics.Metrics
	logger  *logging.Logger
	tracer  trace.Tracer
}

// NewContactService creates a new contact service. sender may be nil when
// no provider credential is configured.
func NewContactService(cfg config.ContactConfig, sender mailer.Sender, m *metrics.Metrics) *ContactService {
	return &ContactService{
		cfg:     cfg,
		sender:  sender,
		metrics: m,
		logger:  logging.GetGlobalLogger(),
		tracer:  otel.Tracer("github.com/engabdalla/portfolio-api/internal/service"),
	}
}

// DevMode reports whether submissions are accepted without sending
func (s *ContactService) DevMode() bool {
	return s.sender == nil || !s.cfg.HasProviderCredential()
}

// Submit applies, in order: honeypot, destination check, dev mode, send.
// req must already be validated. ErrNotConfigured and ErrDelivery are
// returned wrapped.
func (s *ContactService) Submit(ctx context.Context, req *contact.ContactRequest, meta mailer.Meta) (*Result, error) {
	if req.IsSpam() {
		s.logger.Info("Honeypot triggered from %s, dropping submission", ipOrUnknown(meta.IP))
		s.metrics.ContactOutcome(metrics.OutcomeSpam)
		return &Result{Message: MsgSpamAccepted, Outcome: metrics.OutcomeSpam}, nil
	}

	if !s.cfg.HasDestination() {
		s.logger.Error("Contact submission rejected: CONTACT_TO or CONTACT_FROM not set")
		s.metrics.ContactOutcome(metrics.OutcomeNotConfigured)
		return nil, ErrNotConfigured
	}

	if s.DevMode() {
		s.logger.Warn("No %s credential configured, accepting submission without sending", s.cfg.ProviderName())
		s.metrics.ContactOutcome(metrics.OutcomeDevMode)
		return &Result{Message: MsgDevMode, Outcome: metrics.OutcomeDevMode}, nil
	}

	msg, err := mailer.Compose(s.cfg.To, s.cfg.From, toSubmission(req), meta)
	if err != nil {
		s.metrics.ContactOutcome(metrics.OutcomeFailed)
		return nil, fmt.Errorf("compose message: %w", err)
	}

	id, err := s.send(ctx, msg)
	if err != nil {
		s.logger.Error("Failed to send contact email via %s: %v", s.cfg.ProviderName(), err)
		s.metrics.ContactOutcome(metrics.OutcomeFailed)
		return nil, fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	s.logger.Info("Contact email sent via %s (id=%s)", s.cfg.ProviderName(), id)
	s.metrics.ContactOutcome(metrics.OutcomeSent)
	return &Result{Message: MsgSent, Outcome: metrics.OutcomeSent, MessageID: id}, nil
}

func (s *ContactService) send(ctx context.Context, msg mailer.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "contact.send",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("email.provider", s.cfg.ProviderName())),
	)
	defer span.End()

	start := time.Now()
	id, err := s.sender.Send(ctx, msg)
	s.metrics.ObserveSend(s.cfg.ProviderName(), err, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		return "", err
	}
	span.SetAttributes(attribute.String("email.id", id))
	return id, nil
}

func toSubmission(req *contact.ContactRequest) mailer.Submission {
	return mailer.Submission{
		Name:    req.Name,
		Email:   req.Email,
		Service: req.Service,
		Message: req.Message,
	}
}

func ipOrUnknown(ip string) string {
	if ip == "" {
		return "unknown"
	}
	return ip
}
