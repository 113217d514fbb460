package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Output formats accepted by Options.Format.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// TimestampLayout is used by both formatters.
const TimestampLayout = "2006-01-02 15:04:05"

// Options configures a logrus-backed Logger.
type Options struct {
	// Level is a logrus level name. Unknown names fall back to info.
	Level string
	// Format is FormatText or FormatJSON. Anything else means text.
	Format string
	// Output defaults to stderr so that command output on stdout stays clean.
	Output io.Writer
}

// LogrusAdapter implements Logger on top of a logrus entry.
type LogrusAdapter struct {
	logger *logrus.Logger
	entry  *logrus.Entry
}

// New builds a Logger from opts.
func New(opts Options) *LogrusAdapter {
	logger := logrus.New()
	if opts.Output != nil {
		logger.SetOutput(opts.Output)
	} else {
		logger.SetOutput(os.Stderr)
	}
	logger.SetFormatter(formatterFor(opts.Format))

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	adapter := Wrap(logger)
	if err != nil && opts.Level != "" {
		adapter.Warn("Unknown log level, using info", F("level", opts.Level))
	}
	return adapter
}

// NewLogrusAdapter is New with the default output.
func NewLogrusAdapter(level, format string) Logger {
	return New(Options{Level: level, Format: format})
}

// Wrap adapts an existing logrus logger. A nil logger gets a fresh one.
func Wrap(logger *logrus.Logger) *LogrusAdapter {
	if logger == nil {
		logger = logrus.New()
	}
	return &LogrusAdapter{logger: logger, entry: logrus.NewEntry(logger)}
}

// NewDiscard returns a logger that drops everything, used as the default when none is injected.
func NewDiscard() Logger {
	return New(Options{Output: io.Discard})
}

func formatterFor(format string) logrus.Formatter {
	if format == FormatJSON {
		return &logrus.JSONFormatter{TimestampFormat: TimestampLayout}
	}
	return &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: TimestampLayout}
}

func (l *LogrusAdapter) Debug(msg string, fields ...Field) { l.log(logrus.DebugLevel, msg, fields) }

func (l *LogrusAdapter) Info(msg string, fields ...Field) { l.log(logrus.InfoLevel, msg, fields) }

func (l *LogrusAdapter) Warn(msg string, fields ...Field) { l.log(logrus.WarnLevel, msg, fields) }

func (l *LogrusAdapter) Error(msg string, fields ...Field) { l.log(logrus.ErrorLevel, msg, fields) }

func (l *LogrusAdapter) log(level logrus.Level, msg string, fields []Field) {
	if !l.logger.IsLevelEnabled(level) {
		return
	}
	l.entry.WithFields(convertFields(fields)).Log(level, msg)
}

// WithError returns a child logger carrying err under FieldError.
func (l *LogrusAdapter) WithError(err error) Logger {
	return l.derive(l.entry.WithError(err))
}

// WithField returns a child logger carrying one extra field.
func (l *LogrusAdapter) WithField(key string, value interface{}) Logger {
	return l.derive(l.entry.WithFields(convertFields([]Field{{Key: key, Value: value}})))
}

// WithFields returns a child logger carrying extra fields.
func (l *LogrusAdapter) WithFields(fields ...Field) Logger {
	return l.derive(l.entry.WithFields(convertFields(fields)))
}

func (l *LogrusAdapter) derive(entry *logrus.Entry) *LogrusAdapter {
	return &LogrusAdapter{logger: l.logger, entry: entry}
}

// Logrus exposes the underlying logger.
func (l *LogrusAdapter) Logrus() *logrus.Logger {
	return l.logger
}

// convertFields flattens error values to their message; the JSON formatter would otherwise
// render most error types as an empty object.
func convertFields(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, field := range fields {
		if err, ok := field.Value.(error); ok && err != nil {
			out[field.Key] = err.Error()
			continue
		}
		out[field.Key] = field.Value
	}
	return out
}
