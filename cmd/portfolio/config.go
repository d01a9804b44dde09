package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/engabdalla/portfolio-api/internal/config"

	"github.com/spf13/cobra"
)

var errMissingDestination = errors.New("CONTACT_TO or CONTACT_FROM is not set")

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Print the resolved configuration",
	Long: `Print the configuration the server would run with. Secrets are masked.
Exits non-zero when the contact destination is incomplete.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}
		return printConfig(cmd.OutOrStdout(), cfg)
	},
}

func printConfig(w io.Writer, cfg *config.Config) error {
	c := cfg.Contact
	orUnset := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "(unset)"
		}
		return s
	}

	fmt.Fprintf(w, "Environment:        %s\n", cfg.Environment)
	fmt.Fprintf(w, "Port:               %s\n", cfg.Port)
	fmt.Fprintf(w, "Log level:          %s (file %s)\n", cfg.LogLevel, cfg.LogFile)
	fmt.Fprintf(w, "Allowed origins:    %s\n", orUnset(strings.Join(cfg.AllowedOrigins, ", ")))
	fmt.Fprintf(w, "Per-client rate:    %.1f rps, burst %d\n", cfg.GlobalRateRPS, cfg.GlobalRateBurst)
	fmt.Fprintf(w, "Contact rate limit: %d per %s\n", c.RateLimit, c.RateWindow)
	if cfg.RateStore.RedisAddr != "" {
		fmt.Fprintf(w, "Rate limit store:   redis %s (db %d, prefix %s)\n", cfg.RateStore.RedisAddr, cfg.RateStore.RedisDB, cfg.RateStore.RedisPrefix)
	} else {
		fmt.Fprintf(w, "Rate limit store:   memory\n")
	}
	fmt.Fprintf(w, "CONTACT_TO:         %s\n", orUnset(c.To))
	fmt.Fprintf(w, "CONTACT_FROM:       %s\n", orUnset(c.From))
	fmt.Fprintf(w, "Email provider:     %s\n", c.ProviderName())
	switch c.ProviderName() {
	case config.ProviderSMTP:
		fmt.Fprintf(w, "SMTP relay:         %s:%d (user %s, password %s)\n", orUnset(c.SMTPHost), c.SMTPPort, orUnset(c.SMTPUsername), config.MaskSecret(c.SMTPPassword))
	default:
		fmt.Fprintf(w, "RESEND_API_KEY:     %s\n", config.MaskSecret(c.ResendAPIKey))
	}
	fmt.Fprintf(w, "Send timeout:       %s\n", c.SendTimeout)
	fmt.Fprintf(w, "Metrics:            %t\n", cfg.MetricsEnabled)
	fmt.Fprintf(w, "OTLP endpoint:      %s\n", orUnset(cfg.OTLPEndpoint))

	if !c.HasProviderCredential() {
		fmt.Fprintf(w, "\nWARNING: no usable %s credential, submissions are accepted in dev mode without sending\n", c.ProviderName())
	}
	if !c.HasDestination() {
		fmt.Fprintf(w, "\nERROR: %v, every submission will fail with 500\n", errMissingDestination)
		return errMissingDestination
	}
	return nil
}
