package config_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-ohira/custodian/pkg/cli/config"
)

func TestLogger_Configure(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		level      string
		wantErr    bool
		enabled    slog.Level
		notEnabled slog.Level
	}{
		{
			name:       "debug enables everything",
			level:      "debug",
			enabled:    slog.LevelDebug,
			notEnabled: slog.LevelDebug,
		},
		{
			name:       "info filters debug",
			level:      "info",
			enabled:    slog.LevelInfo,
			notEnabled: slog.LevelDebug,
		},
		{
			name:       "level is case insensitive",
			level:      "WARN",
			enabled:    slog.LevelWarn,
			notEnabled: slog.LevelInfo,
		},
		{
			name:       "error filters warn",
			level:      "Error",
			enabled:    slog.LevelError,
			notEnabled: slog.LevelWarn,
		},
		{
			name:    "unknown level is rejected",
			level:   "verbose",
			wantErr: true,
		},
		{
			name:    "empty level is rejected",
			level:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Logger{Level: tt.level}

			logger, err := cfg.Configure()
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.Value(t, logger).NotNil()

			gt.Value(t, logger.Enabled(ctx, tt.enabled)).Equal(true)
			if tt.notEnabled < tt.enabled {
				gt.Value(t, logger.Enabled(ctx, tt.notEnabled)).Equal(false)
			}
		})
	}
}

func TestLogger_Configure_HandlerFormat(t *testing.T) {
	jsonCfg := &config.Logger{Level: "info", JSON: true}
	jsonLogger, err := jsonCfg.Configure()
	gt.NoError(t, err)
	_, isJSON := jsonLogger.Handler().(*slog.JSONHandler)
	gt.Value(t, isJSON).Equal(true)

	textCfg := &config.Logger{Level: "info"}
	textLogger, err := textCfg.Configure()
	gt.NoError(t, err)
	_, isText := textLogger.Handler().(*slog.TextHandler)
	gt.Value(t, isText).Equal(true)
}

// Outcome reporting writes tab-separated lines to stdout; logs must never
// interleave with them.
func TestLogger_Configure_KeepsStdoutClean(t *testing.T) {
	r, w, err := os.Pipe()
	gt.NoError(t, err)

	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	cfg := &config.Logger{Level: "debug"}
	logger, err := cfg.Configure()
	gt.NoError(t, err)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Error("error message")

	gt.NoError(t, w.Close())
	captured, err := io.ReadAll(r)
	gt.NoError(t, err)
	gt.Number(t, len(captured)).Equal(0)
}

func TestLogger_Flags(t *testing.T) {
	cfg := &config.Logger{}
	flags := cfg.Flags()
	gt.Number(t, len(flags)).Equal(2)

	names := make(map[string]bool)
	for _, flag := range flags {
		for _, name := range flag.Names() {
			names[name] = true
		}
	}
	gt.Value(t, names["log-level"]).Equal(true)
	gt.Value(t, names["log-json"]).Equal(true)
}
