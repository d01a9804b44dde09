package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, LevelWarn)

	logger.Debug("debug %d", 1)
	logger.Info("info %d", 2)
	assert.Empty(t, buf.String())

	logger.Warn("warn %d", 3)
	assert.Contains(t, buf.String(), "[WARN]")
	assert.Contains(t, buf.String(), "warn 3")

	logger.Error("error %d", 4)
	assert.Contains(t, buf.String(), "[ERROR]")
}

func TestLogger_HTTPErrorGating(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, LevelInfo)

	logger.LogHTTPError("POST", "/api/contact", "1.2.3.4", 400, "bad input", nil)
	assert.Empty(t, buf.String(), "client errors are only logged with request logging on")

	logger.LogHTTPError("POST", "/api/contact", "1.2.3.4", 502, "provider down", errors.New("boom"))
	assert.Contains(t, buf.String(), "provider down: boom")

	buf.Reset()
	logger.logRequests = true
	logger.LogHTTPError("POST", "/api/contact", "1.2.3.4", 429, "TOO_MANY_REQUESTS: slow down", nil)
	assert.Contains(t, buf.String(), "TOO_MANY_REQUESTS: slow down")
	assert.NotContains(t, buf.String(), "<nil>")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"stdout only", Config{Level: "info"}, false},
		{"file with sizes", Config{Level: "debug", File: "x.log", MaxSize: 10}, false},
		{"bad level", Config{Level: "verbose"}, true},
		{"file without size", Config{Level: "info", File: "x.log"}, true},
		{"negative backups", Config{Level: "info", File: "x.log", MaxSize: 1, MaxBackups: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
