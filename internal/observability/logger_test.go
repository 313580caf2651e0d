package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/Black-And-White-Club/ultistats/config"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.ObservabilityConfig
		wantJSON  bool
		wantDebug bool
	}{
		{
			name:     "json info",
			cfg:      config.ObservabilityConfig{LogLevel: "info", LogFormat: "json"},
			wantJSON: true,
		},
		{
			name:      "text debug",
			cfg:       config.ObservabilityConfig{LogLevel: "debug", LogFormat: "TEXT"},
			wantDebug: true,
		},
		{
			name:     "unknown level and format",
			cfg:      config.ObservabilityConfig{LogLevel: "loud", LogFormat: "xml"},
			wantJSON: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(tt.cfg, &buf)

			logger.Debug("debug line")
			logger.Info("info line", slog.String("k", "v"))

			out := buf.String()
			require.Equal(t, tt.wantDebug, strings.Contains(out, "debug line"))
			require.Contains(t, out, "info line")

			lines := strings.Split(strings.TrimSpace(out), "\n")
			last := lines[len(lines)-1]
			var decoded map[string]any
			err := json.Unmarshal([]byte(last), &decoded)
			if tt.wantJSON {
				require.NoError(t, err)
				require.Equal(t, "v", decoded["k"])
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestNewLoggerEnvironment(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.ObservabilityConfig{LogFormat: "json", Environment: "staging"}, &buf)
	logger.Info("hello")
	require.Contains(t, buf.String(), `"env":"staging"`)
}
