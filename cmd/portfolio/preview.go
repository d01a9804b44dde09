package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/engabdalla/portfolio-api/internal/api/dto/v1/contact"
	"github.com/engabdalla/portfolio-api/internal/api/validation"
	"github.com/engabdalla/portfolio-api/internal/mailer"
	"github.com/engabdalla/portfolio-api/internal/service"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render the email a submission would produce",
	Long: `Validate a submission stored as JSON and print the email it would produce.

Example:
  portfolio preview --file submission.json
  portfolio preview --file submission.json --html > preview.html`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		asHTML, _ := cmd.Flags().GetBool("html")

		req, err := readSubmission(file)
		if err != nil {
			return err
		}

		sub := mailer.Submission{Name: req.Name, Email: req.Email, Service: req.Service, Message: req.Message}
		meta := mailer.Meta{UserAgent: "portfolio-cli"}

		out := cmd.OutOrStdout()
		if asHTML {
			html, err := mailer.BuildHTML(sub, meta)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, html)
			return nil
		}

		fmt.Fprintf(out, "Subject: %s\n\n%s\n", mailer.BuildSubject(sub), mailer.BuildPlainText(sub, meta))
		if req.IsSpam() {
			fmt.Fprintln(out, "\nNOTE: honeypot field is set, this submission would not be sent")
		}
		return nil
	},
}

var sendTestCmd = &cobra.Command{
	Use:   "send-test",
	Short: "Run a submission through the full delivery pipeline",
	Long: `Validate a submission stored as JSON and dispatch it exactly as the
HTTP endpoint would, using the configured provider.

Example:
  portfolio send-test --file submission.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}

		file, _ := cmd.Flags().GetString("file")
		req, err := readSubmission(file)
		if err != nil {
			return err
		}

		var sender mailer.Sender
		if cfg.Contact.HasProviderCredential() {
			sender, err = mailer.New(cfg.Contact)
			if err != nil {
				return err
			}
		}
		svc := service.NewContactService(cfg.Contact, sender, nil)

		s := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
		s.Suffix = fmt.Sprintf(" Sending via %s...", cfg.Contact.ProviderName())
		s.Writer = cmd.ErrOrStderr()
		s.Start()
		result, err := svc.Submit(context.Background(), req, mailer.Meta{UserAgent: "portfolio-cli"})
		s.Stop()

		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotConfigured):
				logger.Error("%s", service.MsgNotConfigured)
			case errors.Is(err, service.ErrDelivery):
				logger.Error("Delivery failed: %v", err)
			}
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", result.Message, result.Outcome)
		if result.MessageID != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Message id: %s\n", result.MessageID)
		}
		return nil
	},
}

// readSubmission loads and validates a submission from path, "-" is stdin
func readSubmission(path string) (*contact.ContactRequest, error) {
	var (
		body []byte
		err  error
	)
	if path == "-" {
		body, err = io.ReadAll(os.Stdin)
	} else {
		body, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read submission: %w", err)
	}

	req, prior, err := validation.Decode(body)
	if err != nil {
		return nil, err
	}
	if res := validation.New().Validate(req, prior); !res.Valid() {
		return nil, fmt.Errorf("invalid submission: %s", res.Message())
	}
	return req, nil
}

func init() {
	for _, c := range []*cobra.Command{previewCmd, sendTestCmd} {
		c.Flags().StringP("file", "f", "", "JSON submission file, - for stdin")
		_ = c.MarkFlagRequired("file")
	}
	previewCmd.Flags().Bool("html", false, "Print the HTML body instead of plain text")
}
