package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/engabdalla/portfolio-api/internal/api/dto/v1/contact"
	"github.com/engabdalla/portfolio-api/internal/config"
	"github.com/engabdalla/portfolio-api/internal/mailer"
	"github.com/engabdalla/portfolio-api/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu    sync.Mutex
	calls []mailer.Message
	err   error
	block bool
}

func (f *fakeSender) Send(ctx context.Context, msg mailer.Message) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, msg)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	return "msg_1", nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func configured() config.ContactConfig {
	return config.ContactConfig{
		To:           "me@example.com",
		From:         "site@example.com",
		Provider:     config.ProviderResend,
		ResendAPIKey: "re_live_key",
		SendTimeout:  time.Second,
	}
}

func validRequest() *contact.ContactRequest {
	return &contact.ContactRequest{
		Name:    "Ada",
		Email:   "ada@example.com",
		Service: "Web Hosting",
		Message: "Please host my site.",
	}
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name        string
		cfg         func() config.ContactConfig
		req         func() *contact.ContactRequest
		senderErr   error
		wantErr     error
		wantMessage string
		wantOutcome string
		wantCalls   int
	}{
		{
			name:        "sent",
			cfg:         configured,
			req:         validRequest,
			wantMessage: MsgSent,
			wantOutcome: metrics.OutcomeSent,
			wantCalls:   1,
		},
		{
			name: "honeypot skips send",
			cfg:  configured,
			req: func() *contact.ContactRequest {
				r := validRequest()
				r.Website = "http://bot.example"
				return r
			},
			wantMessage: MsgSpamAccepted,
			wantOutcome: metrics.OutcomeSpam,
		},
		{
			name: "honeypot wins over missing config",
			cfg:  func() config.ContactConfig { return config.ContactConfig{} },
			req: func() *contact.ContactRequest {
				r := validRequest()
				r.Website = "x"
				return r
			},
			wantMessage: MsgSpamAccepted,
			wantOutcome: metrics.OutcomeSpam,
		},
		{
			name: "missing destination",
			cfg: func() config.ContactConfig {
				c := configured()
				c.To = ""
				return c
			},
			req:     validRequest,
			wantErr: ErrNotConfigured,
		},
		{
			name: "missing from beats dev mode",
			cfg: func() config.ContactConfig {
				c := configured()
				c.From = ""
				c.ResendAPIKey = ""
				return c
			},
			req:     validRequest,
			wantErr: ErrNotConfigured,
		},
		{
			name: "no key is dev mode",
			cfg: func() config.ContactConfig {
				c := configured()
				c.ResendAPIKey = ""
				return c
			},
			req:         validRequest,
			wantMessage: MsgDevMode,
			wantOutcome: metrics.OutcomeDevMode,
		},
		{
			name: "key without prefix is dev mode",
			cfg: func() config.ContactConfig {
				c := configured()
				c.ResendAPIKey = "sk_live_abc"
				return c
			},
			req:         validRequest,
			wantMessage: MsgDevMode,
			wantOutcome: metrics.OutcomeDevMode,
		},
		{
			name:      "provider failure",
			cfg:       configured,
			req:       validRequest,
			senderErr: errors.New("resend: 422 invalid from"),
			wantErr:   ErrDelivery,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{err: tt.senderErr}
			svc := NewContactService(tt.cfg(), sender, nil)

			res, err := svc.Submit(context.Background(), tt.req(), mailer.Meta{IP: "203.0.113.9"})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantMessage, res.Message)
				assert.Equal(t, tt.wantOutcome, res.Outcome)
			}
			assert.Equal(t, tt.wantCalls, sender.count())
		})
	}
}

func TestSubmit_MessageContents(t *testing.T) {
	sender := &fakeSender{}
	svc := NewContactService(configured(), sender, nil)

	res, err := svc.Submit(context.Background(), validRequest(), mailer.Meta{IP: "203.0.113.9", UserAgent: "UA"})
	require.NoError(t, err)
	assert.Equal(t, "msg_1", res.MessageID)

	require.Equal(t, 1, sender.count())
	msg := sender.calls[0]
	assert.Equal(t, "me@example.com", msg.To)
	assert.Equal(t, "site@example.com", msg.From)
	assert.Equal(t, "ada@example.com", msg.ReplyTo)
	assert.Equal(t, "New Contact: Web Hosting - Ada", msg.Subject)
	assert.Contains(t, msg.Text, "IP: 203.0.113.9  UA: UA")
}

func TestSubmit_SendTimeout(t *testing.T) {
	cfg := configured()
	cfg.SendTimeout = 20 * time.Millisecond
	sender := &fakeSender{block: true}
	svc := NewContactService(cfg, sender, nil)

	start := time.Now()
	_, err := svc.Submit(context.Background(), validRequest(), mailer.Meta{})
	assert.ErrorIs(t, err, ErrDelivery)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSubmit_NilSenderIsDevMode(t *testing.T) {
	svc := NewContactService(configured(), nil, nil)
	assert.True(t, svc.DevMode())

	res, err := svc.Submit(context.Background(), validRequest(), mailer.Meta{})
	require.NoError(t, err)
	assert.Equal(t, MsgDevMode, res.Message)
}
