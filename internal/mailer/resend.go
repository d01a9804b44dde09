package mailer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/resend/resend-go/v2"
)

// ResendSender delivers through the Resend HTTP API
type ResendSender struct {
	client *resend.Client
}

func NewResendSender(apiKey string, timeout time.Duration) *ResendSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}
	return &ResendSender{
		client: resend.NewCustomClient(httpClient, apiKey),
	}
}

// Send implements Sender.
func (s *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	resp, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		Text:    msg.Text,
		Html:    msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("resend send: %w", err)
	}
	if resp == nil {
		return "", nil
	}
	return resp.Id, nil
}
