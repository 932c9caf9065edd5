package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librescoot/asyncfsm/internal/logger"
)

func TestNew_JSONDefault(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithAttr(logger.Component("fsm")))

	log.Info("state changed", logger.To("menu"))
	log.Debug("hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "state changed", rec["msg"])
	assert.Equal(t, "menu", rec["to"])
	assert.Equal(t, "fsm", rec["component"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_Development(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithEnvironment("development", "fsmplay"))

	log.Debug("running step", logger.Step("exit"))

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "step=exit")
	assert.Contains(t, out, "service=fsmplay")
}

func TestNew_Production(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithEnvironment("prod", "fsmplay"))

	log.Debug("hidden")
	log.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"env":"production"`)
}

func TestWithFormat_Invalid(t *testing.T) {
	assert.Panics(t, func() {
		logger.New(logger.WithFormat("xml"))
	})
	assert.NotPanics(t, func() {
		logger.New(logger.WithFormat(logger.FormatText))
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := logger.ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
