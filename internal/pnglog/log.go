// Package pnglog provides the logging abstraction used by the CLI and the
// core's StatsLogger hook.
package pnglog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines the narrow interface pngloss depends on. It matches
// lossypng.StatsLogger so a *logger can be passed straight into Optimize.
type Logger interface {
	Printf(format string, args ...interface{})
}

type logger struct {
	sugar *zap.SugaredLogger
}

func (l *logger) Printf(format string, args ...interface{}) {
	if l == nil || l.sugar == nil {
		return
	}
	l.sugar.Infof(format, args...)
}

// pngloss's loggers: Debug for per-file diagnostics, Info for the
// compression-summary line printed per input, Stats for the core's
// per-row fallback notices (wired as lossypng.StatsLogger).
var (
	Debug = &logger{}
	Info  = &logger{}
	Stats = &logger{}
)

// SetDebugLogger sets the debug logger.
func SetDebugLogger(l *zap.SugaredLogger) { Debug.sugar = l }

// SetInfoLogger sets the info logger.
func SetInfoLogger(l *zap.SugaredLogger) { Info.sugar = l }

// SetStatsLogger sets the stats logger.
func SetStatsLogger(l *zap.SugaredLogger) { Stats.sugar = l }

// Init wires all three loggers from a single zap base logger built for the
// requested verbosity. verbose enables Debug; Info and Stats are always on
// unless quiet suppresses everything but errors.
func Init(verbose, quiet bool) error {
	level := zapcore.InfoLevel
	switch {
	case quiet:
		level = zapcore.ErrorLevel
	case verbose:
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = ""

	base, err := cfg.Build()
	if err != nil {
		return err
	}
	sugar := base.Sugar()

	debug := zap.NewNop().Sugar()
	if verbose {
		debug = sugar.Named("debug")
	}
	SetDebugLogger(debug)
	SetInfoLogger(sugar.Named("info"))
	SetStatsLogger(sugar.Named("stats"))
	return nil
}

// DisableLoggers turns off all logging, routing to a no-op core.
func DisableLoggers() {
	nop := zap.NewNop().Sugar()
	SetDebugLogger(nop)
	SetInfoLogger(nop)
	SetStatsLogger(nop)
}

// Sync flushes any buffered log entries. Call before process exit.
func Sync() {
	if Info.sugar != nil {
		_ = Info.sugar.Sync()
	}
}
