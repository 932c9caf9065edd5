// Command fsmplay loads a YAML blueprint, plays its change script on an
// asyncfsm machine and prints the hook trace.
//
// Usage:
//
//	fsmplay [blueprint.yaml]
//
// Configuration is read from the environment (and a local .env file):
// APP_ENV, LOG_LEVEL, LOG_FORMAT, FSM_BLUEPRINT, FSM_HISTORY_SIZE, FSM_WAIT_TIMEOUT.
// FSM_ENV_FILE names an extra .env file to load first.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/librescoot/asyncfsm"
	"github.com/librescoot/asyncfsm/internal/blueprint"
	"github.com/librescoot/asyncfsm/internal/config"
	"github.com/librescoot/asyncfsm/internal/logger"
)

// Config holds the process configuration
type Config struct {
	Env         string        `env:"APP_ENV" envDefault:"development"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string        `env:"LOG_FORMAT" envDefault:"text"`
	Blueprint   string        `env:"FSM_BLUEPRINT" envDefault:"blueprint.yaml"`
	HistorySize int           `env:"FSM_HISTORY_SIZE" envDefault:"16"`
	WaitTimeout time.Duration `env:"FSM_WAIT_TIMEOUT" envDefault:"30s"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "fsmplay: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if path := os.Getenv("FSM_ENV_FILE"); path != "" {
		if err := config.LoadEnv(path); err != nil {
			return err
		}
	}

	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.Blueprint = args[0]
	}

	log, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}

	bp, err := blueprint.Load(cfg.Blueprint)
	if err != nil {
		return err
	}

	m := asyncfsm.New(
		asyncfsm.WithLogger(log),
		asyncfsm.WithHistorySize(cfg.HistorySize),
	)
	defer m.Stop()

	rec := &blueprint.Recorder{}
	if err := bp.Feed(m, rec); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.WaitTimeout)
	defer cancel()

	started := time.Now()
	if err := bp.Play(ctx, m); err != nil {
		return fmt.Errorf("play %s: %w", cfg.Blueprint, err)
	}
	log.Debug("script finished", logger.Duration(time.Since(started)))

	for _, line := range rec.Lines() {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "current: %s\n", m.Current())
	fmt.Fprintf(out, "history: %v\n", m.History())

	return nil
}

func newLogger(cfg Config, w io.Writer) (*slog.Logger, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	format := logger.Format(cfg.LogFormat)
	if format != logger.FormatJSON && format != logger.FormatText {
		return nil, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}

	return logger.New(
		logger.WithEnvironment(cfg.Env, "fsmplay"),
		logger.WithFormat(format),
		logger.WithLevel(level),
		logger.WithOutput(w),
		logger.WithAttr(logger.Component("fsmplay")),
	), nil
}
