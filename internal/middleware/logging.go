// Package middleware wraps command handlers with cross-cutting behavior.
package middleware

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

// RunE is the signature of a cobra command handler.
type RunE func(cmd *cobra.Command, args []string) error

// Logged wraps a command handler so every invocation is logged with its
// command path, duration and any error.
func Logged(next RunE) RunE {
	return func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		path := cmd.CommandPath()

		err := next(cmd, args)

		duration := time.Since(start).Milliseconds()
		if err != nil {
			slog.Error("Command failed",
				"command", path,
				"error", err,
				"duration_ms", duration,
			)
		} else {
			slog.Info("Command ok",
				"command", path,
				"duration_ms", duration,
			)
		}

		return err
	}
}
