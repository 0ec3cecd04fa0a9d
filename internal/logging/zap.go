package logging

import (
	"go.uber.org/zap"
)

// ZapLogger adapts a *zap.Logger to the Logger interface so the production
// serve mode gets leveled, sampled output without the rest of the codebase
// depending on zap directly.
type ZapLogger struct {
	z *zap.Logger
}

// NewZapLogger wraps an existing zap logger. Passing nil builds a production
// config logger; errors during construction fall back to a no-op zap core.
func NewZapLogger(z *zap.Logger) *ZapLogger {
	if z == nil {
		built, err := zap.NewProduction()
		if err != nil {
			built = zap.NewNop()
		}
		z = built
	}
	return &ZapLogger{z: z}
}

func toZapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

func (l *ZapLogger) Debug(msg string, fields ...Field) { l.z.Debug(msg, toZapFields(fields)...) }
func (l *ZapLogger) Info(msg string, fields ...Field)  { l.z.Info(msg, toZapFields(fields)...) }
func (l *ZapLogger) Warn(msg string, fields ...Field)  { l.z.Warn(msg, toZapFields(fields)...) }
func (l *ZapLogger) Error(msg string, fields ...Field) { l.z.Error(msg, toZapFields(fields)...) }

func (l *ZapLogger) With(fields ...Field) Logger {
	return &ZapLogger{z: l.z.With(toZapFields(fields)...)}
}

// Sync flushes any buffered log entries.
func (l *ZapLogger) Sync() error { return l.z.Sync() }
