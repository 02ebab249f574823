// Package logging configures the process-wide slog logger with optional
// rotating file output and runtime level changes.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes the desired logging configuration.
type Config struct {
	Level    string
	Format   string
	FilePath string
}

// Manager owns the logger lifecycle. Level changes apply instantly via
// slog.LevelVar; format and output changes require a restart.
type Manager struct {
	levelVar *slog.LevelVar
	mu       sync.Mutex
	closer   io.Closer // lumberjack writer, if any
}

// New builds a logger from cfg and returns it with its Manager.
func New(cfg Config) (*Manager, *slog.Logger) {
	lvl := &slog.LevelVar{}
	lvl.Set(ParseLevel(cfg.Level))

	writer, closer := buildWriter(cfg.FilePath)

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(writer, opts)
	} else {
		handler = slog.NewJSONHandler(writer, opts)
	}

	m := &Manager{levelVar: lvl, closer: closer}
	return m, slog.New(handler)
}

// SetLevel changes the active log level at runtime.
func (m *Manager) SetLevel(level string) {
	m.levelVar.Set(ParseLevel(level))
}

// Close releases the log file writer, if one is open.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closer != nil {
		err := m.closer.Close()
		m.closer = nil
		return err
	}
	return nil
}

// ParseLevel converts a string to slog.Level, defaulting to Info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ValidLevel reports whether s is a recognized log level.
func ValidLevel(s string) bool {
	switch s {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

// buildWriter creates the log output writer. With a file path configured,
// output goes to stdout and a size-rotated file.
func buildWriter(filePath string) (io.Writer, io.Closer) {
	if filePath == "" {
		return os.Stdout, nil
	}

	lj := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    100, // MB
		MaxBackups: 3,
		MaxAge:     30, // days
	}
	return io.MultiWriter(os.Stdout, lj), lj
}
