// Package logging provides the category-based zap loggers shared by the CLI
// layer. Core components take a *zap.Logger by injection; this registry only
// exists so commands can hand out consistently named loggers.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"insightatlas/internal/config"
)

// Category names one subsystem's log stream.
type Category string

const (
	CategoryEditorial Category = "editorial" // normalization passes
	CategoryBudget    Category = "budget"    // governor decisions
	CategoryContract  Category = "contract"  // validation runs
	CategoryConfig    Category = "config"    // config loading
	CategoryCLI       Category = "cli"       // command plumbing
)

var (
	mu      sync.RWMutex
	root    = zap.NewNop()
	enabled map[Category]bool
)

// Initialize builds the root logger from config. Called once at startup;
// before initialization every category logger is a no-op.
func Initialize(cfg config.LoggingConfig) error {
	zc := zap.NewProductionConfig()
	if !cfg.JSONFormat {
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	if cfg.Debug {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := zc.Build()
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	root = logger
	enabled = nil
	if len(cfg.Categories) > 0 {
		enabled = make(map[Category]bool, len(cfg.Categories))
		for _, c := range cfg.Categories {
			enabled[Category(c)] = true
		}
	}
	return nil
}

// Get returns the logger for a category. Categories filtered out by config
// get a no-op logger.
func Get(cat Category) *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if enabled != nil && !enabled[cat] {
		return zap.NewNop()
	}
	return root.Named(string(cat))
}

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}
