package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librescoot/asyncfsm/internal/config"
)

type playConfig struct {
	Blueprint   string        `env:"TEST_FSM_BLUEPRINT" envDefault:"blueprint.yaml"`
	HistorySize int           `env:"TEST_FSM_HISTORY_SIZE" envDefault:"16"`
	WaitTimeout time.Duration `env:"TEST_FSM_WAIT_TIMEOUT" envDefault:"30s"`
	LogLevel    string        `env:"TEST_FSM_LOG_LEVEL" envDefault:"info"`
}

type requiredConfig struct {
	Required string `env:"TEST_FSM_REQUIRED,required"`
}

func unsetPlayEnv() {
	os.Unsetenv("TEST_FSM_BLUEPRINT")
	os.Unsetenv("TEST_FSM_HISTORY_SIZE")
	os.Unsetenv("TEST_FSM_WAIT_TIMEOUT")
	os.Unsetenv("TEST_FSM_LOG_LEVEL")
}

func TestLoad_Defaults(t *testing.T) {
	unsetPlayEnv()

	var cfg playConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "blueprint.yaml", cfg.Blueprint)
	assert.Equal(t, 16, cfg.HistorySize)
	assert.Equal(t, 30*time.Second, cfg.WaitTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FromEnvironment(t *testing.T) {
	unsetPlayEnv()
	t.Setenv("TEST_FSM_HISTORY_SIZE", "3")
	t.Setenv("TEST_FSM_WAIT_TIMEOUT", "150ms")

	var cfg playConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, 3, cfg.HistorySize)
	assert.Equal(t, 150*time.Millisecond, cfg.WaitTimeout)
}

func TestLoad_InvalidValue(t *testing.T) {
	unsetPlayEnv()
	t.Setenv("TEST_FSM_HISTORY_SIZE", "many")

	var cfg playConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoad_Required(t *testing.T) {
	os.Unsetenv("TEST_FSM_REQUIRED")

	var cfg requiredConfig
	require.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)

	t.Setenv("TEST_FSM_REQUIRED", "yes")
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "yes", cfg.Required)
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *playConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
}

func TestLoadEnv(t *testing.T) {
	unsetPlayEnv()
	t.Cleanup(unsetPlayEnv)

	require.NoError(t, config.LoadEnv("testdata/.env.play"))

	var cfg playConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "testdata/menu.yaml", cfg.Blueprint)
	assert.Equal(t, 4, cfg.HistorySize)
	assert.Equal(t, 2*time.Second, cfg.WaitTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadEnv_NonExistentPath(t *testing.T) {
	err := config.LoadEnv("testdata/missing.env")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
}
