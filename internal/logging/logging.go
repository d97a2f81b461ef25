// Package logging provides a leveled logger backed by zap, writing a console
// format to a stream and optionally to a rotating file.
package logging

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

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

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		// Above every level we emit.
		return zapcore.DPanicLevel
	}
}

// ParseLevel parses a log level string.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "info", "INFO":
		return LevelInfo
	case "warn", "WARN", "warning", "WARNING":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// FileConfig holds rotating file output settings.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig returns default file logging settings.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}
}

// sink is the output state shared by a logger and its children.
type sink struct {
	mu     sync.Mutex
	level  zap.AtomicLevel
	output io.Writer
	file   *lumberjack.Logger
	base   *zap.Logger
}

// Logger is a leveled logger. Children created with With share their
// parent's level and outputs.
type Logger struct {
	sink   *sink
	fields []interface{}
}

// New creates a new logger writing to stderr.
func New(level Level) *Logger {
	s := &sink{
		level:  zap.NewAtomicLevelAt(level.zapLevel()),
		output: os.Stderr,
	}
	s.rebuild()
	return &Logger{sink: s}
}

// Discard returns a logger that discards all output.
func Discard() *Logger {
	l := New(LevelError + 1)
	l.SetOutput(io.Discard)
	return l
}

// SetOutput sets the stream destination. File output is unaffected.
func (l *Logger) SetOutput(w io.Writer) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.output = w
	l.sink.rebuild()
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.sink.level.SetLevel(level.zapLevel())
}

// SetFile adds rotating file output, replacing any previous file.
// An empty path disables file output.
func (l *Logger) SetFile(cfg FileConfig) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if l.sink.file != nil {
		_ = l.sink.file.Close()
		l.sink.file = nil
	}
	if cfg.Path != "" {
		l.sink.file = &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
			LocalTime:  true,
		}
	}
	l.sink.rebuild()
}

// Close flushes buffered entries and closes the log file, if any.
func (l *Logger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	_ = l.sink.base.Sync()
	if l.sink.file != nil {
		err := l.sink.file.Close()
		l.sink.file = nil
		l.sink.rebuild()
		return err
	}
	return nil
}

// With returns a child logger that adds key=value to every entry.
func (l *Logger) With(key string, value interface{}) *Logger {
	fields := make([]interface{}, 0, len(l.fields)+2)
	fields = append(fields, l.fields...)
	fields = append(fields, key, value)
	return &Logger{sink: l.sink, fields: fields}
}

// rebuild assembles the zap core from the current outputs. Callers hold mu.
func (s *sink) rebuild() {
	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig(zapcore.TimeEncoderOfLayout("15:04:05.000"))),
			zapcore.Lock(zapcore.AddSync(s.output)),
			s.level,
		),
	}

	if s.file != nil {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig(zapcore.ISO8601TimeEncoder)),
			zapcore.AddSync(s.file),
			s.level,
		))
	}

	s.base = zap.New(zapcore.NewTee(cores...))
}

func encoderConfig(timeEnc zapcore.TimeEncoder) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		EncodeTime:       timeEnc,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		ConsoleSeparator: " ",
	}
}

func (l *Logger) sugar() *zap.SugaredLogger {
	l.sink.mu.Lock()
	base := l.sink.base
	l.sink.mu.Unlock()
	return base.Sugar().With(l.fields...)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar().Debugf(format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar().Infof(format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.sugar().Warnf(format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar().Errorf(format, args...)
}
