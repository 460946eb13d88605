package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codecrawl/internal/config"
	"codecrawl/internal/logx"
)

// settings is the resolved view of codecrawl.toml plus persistent flags.
type settings struct {
	cfg     config.Config
	color   bool
	quiet   bool
	timings bool
	logger  *zap.Logger
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	pf := cmd.Root().PersistentFlags()

	configPath, err := pf.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return nil, err
	}

	colorFlag, err := pf.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	color, err := readColorMode(colorFlag, stdoutFile(cmd))
	if err != nil {
		return nil, err
	}
	quiet, err := pf.GetBool("quiet")
	if err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := pf.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}

	if pf.Changed("log-level") {
		if cfg.Log.Level, err = pf.GetString("log-level"); err != nil {
			return nil, fmt.Errorf("failed to get log-level flag: %w", err)
		}
	}
	if pf.Changed("log-format") {
		if cfg.Log.Format, err = pf.GetString("log-format"); err != nil {
			return nil, fmt.Errorf("failed to get log-format flag: %w", err)
		}
	}
	level, err := logx.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	format, err := logx.ParseFormat(cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	if quiet && level < zap.ErrorLevel {
		level = zap.ErrorLevel
	}
	stderrColor := color && isTerminal(os.Stderr)

	return &settings{
		cfg:     cfg,
		color:   color,
		quiet:   quiet,
		timings: timings,
		logger:  logx.New(cmd.ErrOrStderr(), level, format, stderrColor),
	}, nil
}
