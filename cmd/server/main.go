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
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logging.InitLogger(cfg.LogConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := logging.GetGlobalLogger()
	defer logger.Close()

	logger.Info("Starting %s in %s mode", version.Info(), cfg.Environment)

	ctx := context.Background()
	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: cfg.ServiceName,
		Version:     version.Version,
		Insecure:    cfg.OTLPInsecure,
	})
	if err != nil {
		logger.Error("Failed to initialize tracing: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("Failed to flush traces: %v", err)
		}
	}()

	if err := server.Run(ctx, cfg); err != nil {
		logger.Error("Server error: %v", err)
		os.Exit(1)
	}
}
