package config

import (
	"fmt"
	"strconv"
	"strings"

	"typewriter-cli/internal/features"
)

// ApplyKVOverrides applies free-form -c key=value overrides. Unknown keys and
// malformed entries are reported as errors.
func ApplyKVOverrides(cfg Config, overrides []string) (Config, error) {
	if len(overrides) == 0 {
		return cfg, nil
	}
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			return cfg, fmt.Errorf("override %q: want key=value", raw)
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		var err error
		switch key {
		case "delay", "delay_per_character_ms", "delay-per-character-ms":
			cfg.DelayPerCharacterMs, err = strconv.Atoi(val)
		case "line_delay", "delay_between_lines_ms", "delay-between-lines-ms":
			cfg.DelayBetweenLinesMs, err = strconv.Atoi(val)
		case "initial_value", "initial":
			cfg.InitialValue = parts[1]
		case "start_running", "running":
			cfg.StartRunning, err = strconv.ParseBool(val)
		case "log_path":
			cfg.LogPath = val
		case "log_level":
			cfg.LogLevel = val
		case "style.background", "background":
			cfg.Style.Background = val
		case "style.foreground", "foreground", "color":
			cfg.Style.Foreground = val
		case "style.cols", "cols":
			cfg.Style.Cols, err = strconv.Atoi(val)
		case "style.rows", "rows":
			cfg.Style.Rows, err = strconv.Atoi(val)
		case "style.padding", "padding":
			cfg.Style.Padding, err = strconv.Atoi(val)
		default:
			name, ok := strings.CutPrefix(key, "features.")
			if !ok {
				return cfg, fmt.Errorf("override %q: unknown key %q", raw, key)
			}
			if !features.IsKnown(name) {
				return cfg, fmt.Errorf("override %q: unknown feature %q", raw, name)
			}
			var on bool
			on, err = strconv.ParseBool(val)
			if err == nil {
				if cfg.Features == nil {
					cfg.Features = map[string]bool{}
				}
				cfg.Features[name] = on
			}
		}
		if err != nil {
			return cfg, fmt.Errorf("override %q: %w", raw, err)
		}
	}
	return cfg, nil
}
