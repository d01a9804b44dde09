package main

import (
	"context"
	"fmt"
	"os"

	"github.com/engabdalla/portfolio-api/internal/config"
	"github.com/engabdalla/portfolio-api/internal/logging"
	"github.com/engabdalla/portfolio-api/internal/server"
	"github.com/engabdalla/portfolio-api/internal/telemetry"
	"github.com/engabdalla/portfolio-api/internal/version"

	"github.com/spf13/cobra"
)

var logger *logging.Logger

// loadConfig loads the environment and sets up the global logger. CLI
// commands log to stdout only unless serving.
func loadConfig(toFile bool) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logConfig := cfg.LogConfig()
	if !toFile {
		logConfig.File = ""
	}
	if err := logging.InitLogger(logConfig); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = logging.GetGlobalLogger()
	return cfg, nil
}

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio API - contact form backend",
	Long: `Portfolio API serves the contact form endpoint of the portfolio site and
provides tools to inspect its configuration and test email delivery.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(true)
		if err != nil {
			return err
		}
		defer logger.Close()

		logger.Info("Starting %s in %s mode", version.Info(), cfg.Environment)

		ctx := cmd.Context()
		shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
			Endpoint:    cfg.OTLPEndpoint,
			ServiceName: cfg.ServiceName,
			Version:     version.Version,
			Insecure:    cfg.OTLPInsecure,
		})
		if err != nil {
			return err
		}
		defer shutdownTracing(context.Background())

		return server.Run(ctx, cfg)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.GetBuildInfo()
		fmt.Fprintf(cmd.OutOrStdout(), "Portfolio API %s\n", version.GetVersionString())
		fmt.Fprintf(cmd.OutOrStdout(), "Commit:   %s\n", info.GitCommit)
		fmt.Fprintf(cmd.OutOrStdout(), "Go:       %s\n", info.GoVersion)
		fmt.Fprintf(cmd.OutOrStdout(), "Platform: %s\n", info.Platform)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(checkConfigCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(sendTestCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
