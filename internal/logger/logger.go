// Package logger wraps a process-wide charmbracelet logger that writes to
// a rotated file under the data directory.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger stays nil until Init is called, and every helper below is a
// no-op while it is nil.
var Logger *log.Logger

const (
	fileName      = "objectives.log"
	maxSizeMB     = 10
	maxBackups    = 3
	maxAgeDays    = 28
	FormatText    = "text"
	FormatJSON    = "json"
	FormatLogfmt  = "logfmt"
	defaultPrefix = "objectives"
)

type Config struct {
	Debug   bool
	DataDir string
	// Stderr mirrors log output to stderr, for running under a process
	// supervisor.
	Stderr bool
	// Format is one of FormatText (default), FormatJSON or FormatLogfmt.
	Format string
}

// ParseFormat maps a configured format name to a formatter.
func ParseFormat(name string) (log.Formatter, error) {
	switch name {
	case "", FormatText:
		return log.TextFormatter, nil
	case FormatJSON:
		return log.JSONFormatter, nil
	case FormatLogfmt:
		return log.LogfmtFormatter, nil
	default:
		return 0, fmt.Errorf("unknown log format %q (want text, json or logfmt)", name)
	}
}

// Init replaces the global logger.
func Init(cfg Config) error {
	formatter, err := ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	logDir := filepath.Join(cfg.DataDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	var out io.Writer = &lumberjack.Logger{
		Filename:   filepath.Join(logDir, fileName),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
	if cfg.Debug || cfg.Stderr {
		out = io.MultiWriter(os.Stderr, out)
	}

	level := log.InfoLevel
	if cfg.Debug {
		level = log.DebugLevel
	}

	Logger = log.NewWithOptions(out, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          defaultPrefix,
		Formatter:       formatter,
	})
	return nil
}

// With returns a child logger carrying keyvals, or nil before Init.
func With(keyvals ...interface{}) *log.Logger {
	if Logger == nil {
		return nil
	}
	return Logger.With(keyvals...)
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
