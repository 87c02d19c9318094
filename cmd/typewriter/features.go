package main

import (
	"flag"
	"fmt"
	"io"

	"typewriter-cli/internal/config"
	"typewriter-cli/internal/features"
)

// runFeatures lists every feature flag with its stage and effective value.
func runFeatures(root rootArgs, args []string, out io.Writer) error {
	var overrides stringSlice
	var cfgPath string
	fs := flag.NewFlagSet("features", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Var(&overrides, "c", "Override config value key=value (repeatable)")
	fs.StringVar(&cfgPath, "config", "", "Path to config file (default ~/.typewriter/config.toml)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	cfg, err = config.ApplyKVOverrides(cfg, prependOverrides(root.overrides, []string(overrides)))
	if err != nil {
		return err
	}
	for _, spec := range features.Specs {
		if _, err := fmt.Fprintf(out, "%s\t%s\t%t\t%s\n", spec.Key, spec.Stage, cfg.Enabled(spec.Key), spec.Description); err != nil {
			return err
		}
	}
	return nil
}
