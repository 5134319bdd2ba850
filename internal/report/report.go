// Package report defines the injected reporting collaborator used across the
// pipeline. Components take a Reporter instead of writing to process-global
// console state so tests can run silently.
package report

import "go.uber.org/zap"

// Reporter surfaces per-file progress, skips, retries and the final summary
// to the user as they occur.
type Reporter interface {
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Success(msg string, fields ...zap.Field)
}

type zapReporter struct {
	log *zap.Logger
}

// New returns a Reporter backed by the given zap logger. A nil logger falls
// back to the global one.
func New(log *zap.Logger) Reporter {
	if log == nil {
		log = zap.L()
	}
	return &zapReporter{log: log}
}

// Nop returns a Reporter that discards everything.
func Nop() Reporter {
	return &zapReporter{log: zap.NewNop()}
}

func (r *zapReporter) Info(msg string, fields ...zap.Field) {
	r.log.Info(msg, fields...)
}

func (r *zapReporter) Warn(msg string, fields ...zap.Field) {
	r.log.Warn(msg, fields...)
}

func (r *zapReporter) Error(msg string, fields ...zap.Field) {
	r.log.Error(msg, fields...)
}

func (r *zapReporter) Success(msg string, fields ...zap.Field) {
	r.log.Info(msg, append(fields, zap.String("status", "success"))...)
}
