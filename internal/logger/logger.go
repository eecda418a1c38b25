// Package logger wraps log/slog with the component/file/function chain used
// across the service. Err-style methods log and hand back an error so call
// sites can `return log.Err(...)`.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level      string
	Format     string
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Service    string
	Version    string
}

type Logger struct {
	component string
	file      string
	function  string
	attrs     []any
}

func New(component string) Logger {
	return Logger{component: component}
}

// Setup installs the process-wide slog handler. The returned closer flushes
// the rotating file sink, if any.
func Setup(opts Options) io.Closer {
	writers := []io.Writer{os.Stdout}

	var rotating *lumberjack.Logger
	if opts.FilePath != "" {
		rotating = &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		writers = append(writers, rotating)
	}

	w := io.MultiWriter(writers...)
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	l := slog.New(handler)
	if opts.Service != "" {
		l = l.With(slog.String("service", opts.Service), slog.String("version", opts.Version))
	}
	slog.SetDefault(l)

	if rotating == nil {
		return nopCloser{}
	}
	return rotating
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l Logger) File(name string) Logger {
	l.file = name
	return l
}

func (l Logger) Function(name string) Logger {
	l.function = name
	return l
}

func (l Logger) With(args ...any) Logger {
	attrs := make([]any, 0, len(l.attrs)+len(args))
	attrs = append(attrs, l.attrs...)
	l.attrs = append(attrs, args...)
	return l
}

func (l Logger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

func (l Logger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args...)
}

func (l Logger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

// Er logs err without returning it.
func (l Logger) Er(msg string, err error, args ...any) {
	l.log(slog.LevelError, msg, append(args, "error", err)...)
}

// Err logs err and returns it wrapped with msg.
func (l Logger) Err(msg string, err error, args ...any) error {
	l.Er(msg, err, args...)
	if err == nil {
		return errors.New(msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Error logs msg at error level and returns it as an error.
func (l Logger) Error(msg string, args ...any) error {
	l.log(slog.LevelError, msg, args...)
	return errors.New(msg)
}

func (l Logger) ErMsg(msg string) {
	l.log(slog.LevelError, msg)
}

func (l Logger) ErrMsg(msg string) error {
	l.ErMsg(msg)
	return errors.New(msg)
}

func (l Logger) log(level slog.Level, msg string, args ...any) {
	base := slog.Default()
	if !base.Enabled(context.Background(), level) {
		return
	}

	attrs := make([]any, 0, len(l.attrs)+len(args)+6)
	if l.component != "" {
		attrs = append(attrs, "component", l.component)
	}
	if l.file != "" {
		attrs = append(attrs, "file", l.file)
	}
	if l.function != "" {
		attrs = append(attrs, "function", l.function)
	}
	attrs = append(attrs, l.attrs...)
	attrs = append(attrs, args...)

	base.Log(context.Background(), level, msg, attrs...)
}
