package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_DisabledIsNoop(t *testing.T) {
	cfg := Config{ServiceName: "portfolio-api"}
	assert.False(t, cfg.Enabled())

	shutdown, err := Init(context.Background(), cfg)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_WithEndpoint(t *testing.T) {
	// The gRPC client connects lazily, so no collector is needed here
	shutdown, err := Init(context.Background(), Config{
		Endpoint:    "127.0.0.1:4317",
		ServiceName: "portfolio-api",
		Version:     "test",
		Insecure:    true,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
