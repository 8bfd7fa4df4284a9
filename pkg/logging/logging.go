package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var DefaultLevel = "info"

const (
	LogLevel = "GTOTP_LOG_LEVEL"
	LogPath  = "GTOTP_LOG_FILE"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

type Config struct {
	Level      Level
	FilePath   string
	AlsoStderr bool
}

type logger struct {
	mu     sync.Mutex
	level  Level
	logger *log.Logger
	file   *os.File
}

var defaultLogger = newLogger()

func newLogger() *logger {
	l := log.New(os.Stderr, "", log.LstdFlags|log.LUTC)
	return &logger{
		level:  LevelInfo,
		logger: l,
	}
}

// ConfigureDefault configures the global logger from GTOTP_LOG_LEVEL and
// GTOTP_LOG_FILE.
func ConfigureDefault() error {
	return defaultLogger.configure(Config{
		Level:      ParseLevel(firstNonEmpty(os.Getenv(LogLevel), DefaultLevel)),
		FilePath:   os.Getenv(LogPath),
		AlsoStderr: true,
	})
}

// Configure applies level and file from the service config. Environment
// variables still win so an operator can raise verbosity without editing files.
func Configure(level, file string) error {
	return defaultLogger.configure(Config{
		Level:      ParseLevel(firstNonEmpty(os.Getenv(LogLevel), level, DefaultLevel)),
		FilePath:   firstNonEmpty(os.Getenv(LogPath), file),
		AlsoStderr: true,
	})
}

// SetOutput redirects the global logger, returning a function that restores
// stderr. Intended for tests.
func SetOutput(w io.Writer, level Level) (restore func()) {
	defaultLogger.mu.Lock()
	defaultLogger.logger.SetOutput(w)
	prev := defaultLogger.level
	defaultLogger.level = level
	defaultLogger.mu.Unlock()
	return func() {
		defaultLogger.mu.Lock()
		defaultLogger.logger.SetOutput(os.Stderr)
		defaultLogger.level = prev
		defaultLogger.mu.Unlock()
	}
}

// Close releases the log file, if any.
func Close() error {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	if defaultLogger.file == nil {
		return nil
	}
	err := defaultLogger.file.Close()
	defaultLogger.file = nil
	defaultLogger.logger.SetOutput(os.Stderr)
	return err
}

func (l *logger) configure(cfg Config) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	var writers []io.Writer
	if cfg.FilePath != "" {
		f, err := openFile(cfg.FilePath)
		if err != nil {
			return err
		}
		l.file = f
		writers = append(writers, f)
	}
	if cfg.AlsoStderr || len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}

	l.logger.SetOutput(io.MultiWriter(writers...))
	l.level = cfg.Level
	return nil
}

func openFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
}

func ParseLevel(value string) Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *logger) logf(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level || l.logger == nil {
		return
	}
	l.logger.Printf("[%s] %s", level.String(), fmt.Sprintf(format, args...))
}

func Debugf(format string, args ...any) {
	defaultLogger.logf(LevelDebug, format, args...)
}

func Infof(format string, args ...any) {
	defaultLogger.logf(LevelInfo, format, args...)
}

func Warnf(format string, args ...any) {
	defaultLogger.logf(LevelWarn, format, args...)
}

func Errorf(format string, args ...any) {
	defaultLogger.logf(LevelError, format, args...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

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
		return "INFO"
	}
}
