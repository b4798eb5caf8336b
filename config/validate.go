package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/castsync/castsync/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// choices lists the accepted values of enumerated keys.
var choices = map[string][]string{
	key.PlayerEngine: {"terminal", "mpv"},
	key.PlayerFit:    {"width", "height", "both", "none"},
	key.RenderFormat: {"txt", "text", "ans", "ansi"},
	key.LogsLevel:    {"panic", "fatal", "error", "warn", "warning", "info", "debug", "trace"},
}

// Validate checks the loaded configuration and joins every problem it finds.
func Validate() error {
	var errs []error

	for name, allowed := range choices {
		value := strings.ToLower(viper.GetString(name))
		if value != "" && !lo.Contains(allowed, value) {
			errs = append(errs, fmt.Errorf("%s: %q is not one of %s", name, value, strings.Join(allowed, ", ")))
		}
	}

	if viper.GetFloat64(key.RenderFPS) <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", key.RenderFPS))
	}
	if viper.GetInt(key.SyncPollIntervalMs) <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", key.SyncPollIntervalMs))
	}
	if viper.GetInt(key.SyncMaxPolls) < 0 {
		errs = append(errs, fmt.Errorf("%s must be non-negative", key.SyncMaxPolls))
	}
	if viper.GetFloat64(key.SyncToleranceFrames) < 0 {
		errs = append(errs, fmt.Errorf("%s must be non-negative", key.SyncToleranceFrames))
	}
	if viper.GetInt(key.PlayerColumns) < 0 || viper.GetInt(key.PlayerRows) < 0 {
		errs = append(errs, fmt.Errorf("%s and %s must be non-negative", key.PlayerColumns, key.PlayerRows))
	}

	return errors.Join(errs...)
}
