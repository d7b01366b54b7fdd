package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Level is the severity of an operation log line.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the upper-case level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a level name to a Level, defaulting to LevelDebug.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelDebug
	}
}

// Sink receives pre-formatted operation log lines.
type Sink interface {
	Log(level Level, line string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(level Level, line string)

// Log calls f(level, line).
func (f SinkFunc) Log(level Level, line string) { f(level, line) }

// NopSink discards every line.
type NopSink struct{}

// Log does nothing.
func (NopSink) Log(Level, string) {}

// LogrusSink writes operation lines through a Logger.
type LogrusSink struct {
	log Logger
}

// NewLogrusSink creates a Sink backed by log.
func NewLogrusSink(log Logger) *LogrusSink {
	return &LogrusSink{log: log}
}

// Log writes line at the matching logrus level.
func (s *LogrusSink) Log(level Level, line string) {
	switch level {
	case LevelInfo:
		s.log.Info(line)
	case LevelWarn:
		s.log.Warn(line)
	case LevelError:
		s.log.Error(line)
	default:
		s.log.Debug(line)
	}
}

// ZapSink writes operation lines through a zap logger.
type ZapSink struct {
	log *zap.Logger
}

// NewZapSink creates a Sink backed by log.
func NewZapSink(log *zap.Logger) *ZapSink {
	return &ZapSink{log: log}
}

// Log writes line at the matching zap level.
func (s *ZapSink) Log(level Level, line string) {
	switch level {
	case LevelInfo:
		s.log.Info(line)
	case LevelWarn:
		s.log.Warn(line)
	case LevelError:
		s.log.Error(line)
	default:
		s.log.Debug(line)
	}
}
