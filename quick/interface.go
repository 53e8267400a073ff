package quick

import (
	"fmt"

	"github.com/coredump-labs/limlog"
)

// Debug logs a debug message on the default facade, initializing it with
// defaults on first use.
func Debug(args ...any) {
	if !limlog.EnsureInitialized() {
		return
	}
	limlog.Debug(args...)
}

// Info logs an info message on the default facade.
func Info(args ...any) {
	if !limlog.EnsureInitialized() {
		return
	}
	limlog.Info(args...)
}

// Warn logs a warning message on the default facade.
func Warn(args ...any) {
	if !limlog.EnsureInitialized() {
		return
	}
	limlog.Warn(args...)
}

// Error logs an error message on the default facade.
func Error(args ...any) {
	if !limlog.EnsureInitialized() {
		return
	}
	limlog.Error(args...)
}

// DebugTrace is Debug with an explicit call-chain depth.
func DebugTrace(depth int, args ...any) {
	if !limlog.EnsureInitialized() {
		return
	}
	limlog.DebugTrace(depth, args...)
}

// InfoTrace is Info with an explicit call-chain depth.
func InfoTrace(depth int, args ...any) {
	if !limlog.EnsureInitialized() {
		return
	}
	limlog.InfoTrace(depth, args...)
}

// WarnTrace is Warn with an explicit call-chain depth.
func WarnTrace(depth int, args ...any) {
	if !limlog.EnsureInitialized() {
		return
	}
	limlog.WarnTrace(depth, args...)
}

// ErrorTrace is Error with an explicit call-chain depth.
func ErrorTrace(depth int, args ...any) {
	if !limlog.EnsureInitialized() {
		return
	}
	limlog.ErrorTrace(depth, args...)
}

// Config changes the default facade's configuration from string
// statements, e.g. quick.Config("level=debug", "max_backups=8").
func Config(args ...string) error {
	if !limlog.EnsureInitialized() {
		return fmt.Errorf("limlog initialization failed")
	}
	if len(args) == 0 {
		return fmt.Errorf("no config provided")
	}

	cfg, err := config(args...)
	if err != nil {
		return err
	}
	return limlog.Reconfigure(cfg)
}

// Shutdown performs a graceful shutdown of the default facade.
func Shutdown() {
	limlog.Shutdown()
}
