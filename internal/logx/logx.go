// Package logx is the component-tagged logger shared by both binaries.
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogSizeMB  = 5
	maxLogBackups = 3
	maxLogAgeDays = 14
)

type Options struct {
	Level  string // debug, info, warn, error
	Format string // console or json
	File   string // rotated log file; empty means Out
	Color  bool
	Out    io.Writer // defaults to stderr
}

var (
	mu     sync.RWMutex
	logger = newLogger(Options{})
)

// Init replaces the process logger. The returned closer releases the log
// file, if one was opened.
func Init(opts Options) (io.Closer, error) {
	if _, err := parseLevel(opts.Level); err != nil {
		return nil, err
	}
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "console", "json":
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
			MaxAge:     maxLogAgeDays,
		}
		opts.Out = lj
		opts.Color = false
		closer = lj
	}

	l := newLogger(opts)
	mu.Lock()
	logger = l
	mu.Unlock()
	return closer, nil
}

func newLogger(opts Options) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if !strings.EqualFold(opts.Format, "json") {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    !opts.Color,
		}
	}
	level, _ := parseLevel(opts.Level)
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func parseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

// --- Public API ---

func Debug(component, msg string, args ...any) {
	emit(current().Debug(), component, "", msg, args...)
}

func Info(component, msg string, args ...any) {
	emit(current().Info(), component, "", msg, args...)
}

func Warn(component, msg string, args ...any) {
	emit(current().Warn(), component, "", msg, args...)
}

func Error(component, msg string, args ...any) {
	emit(current().Error(), component, "", msg, args...)
}

// L logs at info level with a request id attached.
func L(id, component, msg string, args ...any) {
	emit(current().Info(), component, id, msg, args...)
}

func emit(ev *zerolog.Event, component, id, msg string, args ...any) {
	if ev == nil {
		return
	}
	ev = ev.Str("component", component)
	if id != "" {
		ev = ev.Str("request_id", id)
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	ev.Msg(msg)
}
