// Package telemetry wires the emulator's diagnostic output to a
// structured zap logger, carrying a per-run correlation id. It is the
// single implementation of the small cpu.Logger interface that pkg/cpu
// depends on, keeping the core decode/execute datapath free of any
// logging-library import.
package telemetry

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Logger adapts a zap.SugaredLogger, tagged with a run id, to the
// cpu.Logger interface.
type Logger struct {
	sugar *zap.SugaredLogger
	runID string
}

// New builds a Logger. When trace is true the underlying zap core is
// configured at Debug level; otherwise Info and above.
func New(trace bool) (*Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !trace {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	return &Logger{
		sugar: base.Sugar().With("run_id", runID),
		runID: runID,
	}, nil
}

// RunID returns the correlation id minted for this logger's run.
func (l *Logger) RunID() string {
	return l.runID
}

// Infof implements cpu.Logger.
func (l *Logger) Infof(format string, args ...any) {
	l.sugar.Infof(format, args...)
}

// Warnf implements cpu.Logger.
func (l *Logger) Warnf(format string, args ...any) {
	l.sugar.Warnf(format, args...)
}

// Sync flushes any buffered log entries. Callers should defer Sync
// before process exit, mirroring zap's own recommended usage.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
