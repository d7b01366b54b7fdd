package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"mog/internal/shared/contextkeys"

	"github.com/sirupsen/logrus"
)

const (
	formatJSON      = "json"
	timestampFormat = "2006-01-02T15:04:05.000Z07:00"
)

// Logger is the structured logger used across mog.
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	WithFields(fields map[string]interface{}) Logger
	WithContext(ctx context.Context) Logger
	WithComponent(component string) Logger
}

// LogrusLogger implements Logger on top of a logrus entry. The leveled
// methods come straight from the embedded entry.
type LogrusLogger struct {
	*logrus.Entry
}

// contextFields maps the context keys mog sets to log field names.
var contextFields = []struct {
	key   interface{}
	field string
}{
	{contextkeys.RequestIDKey, "request_id"},
	{contextkeys.SubjectKey, "subject"},
	{contextkeys.OperationKey, "operation"},
	{contextkeys.CollectionKey, "collection"},
}

// NewLogger reads LOG_LEVEL, LOG_FORMAT and ENVIRONMENT. Production
// environments log JSON.
func NewLogger() Logger {
	format := os.Getenv("LOG_FORMAT")
	if env := strings.ToLower(os.Getenv("ENVIRONMENT")); env == "production" || env == "prod" {
		format = formatJSON
	}
	return NewLoggerWithOutput(os.Getenv("LOG_LEVEL"), format, os.Stdout)
}

// NewLoggerWithConfig creates a logger writing to stdout.
func NewLoggerWithConfig(level string, format string) Logger {
	return NewLoggerWithOutput(level, format, os.Stdout)
}

// NewLoggerWithOutput creates a logger writing to out. Unknown levels fall back to info.
func NewLoggerWithOutput(level string, format string, out io.Writer) Logger {
	l := logrus.New()
	l.SetOutput(out)

	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)

	if strings.EqualFold(format, formatJSON) {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: timestampFormat})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: timestampFormat})
	}
	return NewFromLogrus(l)
}

// NewFromLogrus wraps an existing logrus logger.
func NewFromLogrus(l *logrus.Logger) Logger {
	return &LogrusLogger{Entry: logrus.NewEntry(l)}
}

func (l *LogrusLogger) WithFields(fields map[string]interface{}) Logger {
	return &LogrusLogger{Entry: l.Entry.WithFields(fields)}
}

// WithContext adds the non-empty mog identifiers found in ctx.
func (l *LogrusLogger) WithContext(ctx context.Context) Logger {
	fields := logrus.Fields{}
	for _, cf := range contextFields {
		if v, ok := ctx.Value(cf.key).(string); ok && v != "" {
			fields[cf.field] = v
		}
	}
	return &LogrusLogger{Entry: l.Entry.WithContext(ctx).WithFields(fields)}
}

func (l *LogrusLogger) WithComponent(component string) Logger {
	return &LogrusLogger{Entry: l.Entry.WithField("component", component)}
}
