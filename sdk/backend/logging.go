package backend

import (
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the logging level.
type LogLevel int

const (
	// LevelDebug logs verbose debugging information.
	LevelDebug LogLevel = iota
	// LevelInfo logs normal operational messages.
	LevelInfo
	// LevelWarn logs warning messages.
	LevelWarn
	// LevelError logs error messages only.
	LevelError
	// LevelOff disables all logging.
	LevelOff
)

// ParseLogLevel maps a level name (debug, info, warn, error, off) to a
// LogLevel. Unknown or empty names map to LevelOff.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelOff
	}
}

// Logger wraps zap for SDK/TUI logging.
type Logger struct {
	zap   *zap.SugaredLogger
	level LogLevel
}

// Default logger instance (disabled by default for SDK usage).
var defaultLogger = &Logger{level: LevelOff}

// SetLogger sets the global default logger.
func SetLogger(l *Logger) {
	if l != nil {
		defaultLogger = l
	}
}

// GetLogger returns the current default logger.
func GetLogger() *Logger {
	return defaultLogger
}

// NewLogger creates a new logger with the specified level and output.
func NewLogger(level LogLevel, w io.Writer) *Logger {
	if level == LevelOff {
		return &Logger{level: LevelOff}
	}
	if w == nil {
		w = os.Stderr
	}

	var zapLevel zapcore.Level
	switch level {
	case LevelDebug:
		zapLevel = zapcore.DebugLevel
	case LevelWarn:
		zapLevel = zapcore.WarnLevel
	case LevelError:
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	// Simplify time format
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(zapLevel),
	)

	return &Logger{
		zap:   zap.New(core).Sugar(),
		level: level,
	}
}

// NewLoggerFromEnv creates a logger based on LOG_LEVEL environment variable.
// Defaults to LevelOff (no logging) if not set.
func NewLoggerFromEnv() *Logger {
	return NewLogger(ParseLogLevel(os.Getenv("LOG_LEVEL")), os.Stderr)
}

// IsEnabled returns true if logging is enabled at any level.
func (l *Logger) IsEnabled() bool {
	return l != nil && l.level != LevelOff && l.zap != nil
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	if l.IsEnabled() && l.level <= LevelDebug {
		l.zap.Debugw(msg, args...)
	}
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	if l.IsEnabled() && l.level <= LevelInfo {
		l.zap.Infow(msg, args...)
	}
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	if l.IsEnabled() && l.level <= LevelWarn {
		l.zap.Warnw(msg, args...)
	}
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	if l.IsEnabled() && l.level <= LevelError {
		l.zap.Errorw(msg, args...)
	}
}

// With returns a new logger with the given attributes.
func (l *Logger) With(args ...any) *Logger {
	if !l.IsEnabled() {
		return l
	}
	return &Logger{
		zap:   l.zap.With(args...),
		level: l.level,
	}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	if !l.IsEnabled() {
		return nil
	}
	return l.zap.Sync()
}

// RequestLogger provides helpers for logging HTTP requests.
type RequestLogger struct {
	logger    *Logger
	method    string
	path      string
	startTime time.Time
}

// StartRequest begins timing an HTTP request.
func (l *Logger) StartRequest(method, path string) *RequestLogger {
	if !l.IsEnabled() {
		return &RequestLogger{logger: l}
	}
	l.Debug("request started", "method", method, "path", path)
	return &RequestLogger{
		logger:    l,
		method:    method,
		path:      path,
		startTime: time.Now(),
	}
}

// Success logs a successful request completion.
func (r *RequestLogger) Success(statusCode int) {
	if !r.logger.IsEnabled() {
		return
	}
	duration := time.Since(r.startTime)
	r.logger.Info("request completed",
		"method", r.method,
		"path", r.path,
		"status", statusCode,
		"duration_ms", duration.Milliseconds(),
	)
}

// Error logs a request error.
func (r *RequestLogger) Error(err error) {
	if !r.logger.IsEnabled() {
		return
	}
	duration := time.Since(r.startTime)
	r.logger.Error("request failed",
		"method", r.method,
		"path", r.path,
		"kind", KindOf(err).String(),
		"error", err.Error(),
		"duration_ms", duration.Milliseconds(),
	)
}
