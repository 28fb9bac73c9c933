// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/options"
)

// CreateLogger creates a logger with appropriate settings. Instruction
// tracing logs at debug level and therefore implies debug output.
func CreateLogger(opts options.Program) *log.Logger {
	cfg := log.DefaultConfig()
	switch {
	case opts.Debug, opts.Trace:
		cfg.Level = log.DebugLevel
	case opts.Quiet:
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
