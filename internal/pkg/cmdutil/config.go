// Package cmdutil provides shared utilities for CLI command implementations.
package cmdutil

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// GetStringSliceConfig returns flagValue when it is non-empty and the config
// value for key otherwise.
func GetStringSliceConfig(key string, flagValue []string) []string {
	if len(flagValue) > 0 {
		return flagValue
	}
	// viper.IsSet reports bound flags as set even when the config file does
	// not define them, so look at the value itself.
	if configValue := viper.GetStringSlice(key); len(configValue) > 0 {
		return configValue
	}
	return flagValue
}

// GetDurationConfig resolves a duration flag against the config key: an
// explicitly set flag wins, then the config value, then the flag default.
// Config values are Go durations ("250ms", "2s").
func GetDurationConfig(cmd *cobra.Command, flagName, key string) time.Duration {
	flag := cmd.Flags().Lookup(flagName)
	if flag != nil && flag.Changed {
		d, _ := cmd.Flags().GetDuration(flagName)
		return d
	}
	if viper.IsSet(key) {
		return viper.GetDuration(key)
	}
	d, _ := cmd.Flags().GetDuration(flagName)
	return d
}
