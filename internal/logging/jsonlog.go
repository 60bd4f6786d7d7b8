package logging

import (
	"io"
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stdout, defaultLevel())
)

// defaultLevel turns on debug output when the runner has step debugging enabled.
func defaultLevel() zapcore.Level {
	if os.Getenv("RUNNER_DEBUG") == "1" {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

func newLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.MessageKey = "message"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core)
}

// SetOutput redirects log lines to w, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(w, defaultLevel())
}

// Sync flushes buffered entries.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return logger.Sync()
}

func Log(level zapcore.Level, msg string, fields map[string]any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if ce := l.Check(level, msg); ce != nil {
		ce.Write(toFields(fields)...)
	}
}

func toFields(m map[string]any) []zap.Field {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, m[k]))
	}
	return out
}

func Debug(msg string, fields map[string]any) { Log(zapcore.DebugLevel, msg, fields) }
func Info(msg string, fields map[string]any)  { Log(zapcore.InfoLevel, msg, fields) }
func Error(msg string, fields map[string]any) { Log(zapcore.ErrorLevel, msg, fields) }
