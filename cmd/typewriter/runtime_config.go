package main

import (
	"strings"

	"typewriter-cli/internal/config"
	"typewriter-cli/internal/logger"
	"typewriter-cli/internal/typewriter"
)

// sessionFlags are the flags shared by every subcommand that drives an engine.
type sessionFlags struct {
	cfgPath         string
	configOverrides stringSlice
	delayMs         int
	lineDelayMs     int
	initial         string
	paused          bool
}

const unsetDelay = -1

// loadRuntimeConfig resolves file, env, root -c and subcommand flags, in that
// order, into the effective config.
func loadRuntimeConfig(root rootArgs, flags *sessionFlags) (config.Config, typewriter.Config, error) {
	cfg, err := config.Load(flags.cfgPath)
	if err != nil {
		return cfg, typewriter.Config{}, err
	}
	cfg, err = config.ApplyKVOverrides(cfg, prependOverrides(root.overrides, []string(flags.configOverrides)))
	if err != nil {
		return cfg, typewriter.Config{}, err
	}
	if flags.delayMs != unsetDelay {
		cfg.DelayPerCharacterMs = flags.delayMs
	}
	if flags.lineDelayMs != unsetDelay {
		cfg.DelayBetweenLinesMs = flags.lineDelayMs
	}
	if flags.initial != "" {
		cfg.InitialValue = flags.initial
	}
	if flags.paused {
		cfg.StartRunning = false
	}
	level := cfg.LogLevel
	if strings.TrimSpace(root.logLevel) != "" {
		level = root.logLevel
	}
	if err := logger.SetLevel(level); err != nil {
		return cfg, typewriter.Config{}, err
	}
	engineCfg, err := cfg.Engine()
	if err != nil {
		return cfg, typewriter.Config{}, err
	}
	return cfg, engineCfg, nil
}
