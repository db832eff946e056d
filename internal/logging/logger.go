// Package logging provides the leveled console logger used by every
// command. Output goes to stdout (errors to stderr) with an optional plain
// text file sink. Each logger carries a run ID that is written to the file
// sink so concurrent or repeated runs can be told apart.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/backmassage/djvu2cbz/internal/config"
	"github.com/backmassage/djvu2cbz/internal/term"
)

const (
	timeFormat = "2006-01-02 15:04:05"
	runField   = "run"
	statusSucc = "success"
)

// Logger provides leveled, optionally colored logging with optional file sink.
type Logger struct {
	zl    zerolog.Logger
	file  *os.File
	runID string
}

// Options configures [New]. Nil writers are discarded.
type Options struct {
	Stdout  io.Writer
	Stderr  io.Writer
	File    io.Writer
	Color   bool
	Verbose bool
	RunID   string // Generated when empty.
}

// NewLogger initializes colors from cfg and optionally opens cfg.LogFile.
// Call Close() when done if LogFile was set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)

	opts := Options{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Color:   term.Enabled(),
		Verbose: cfg.Verbose,
	}

	var file *os.File
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
		opts.File = f
	}

	l := New(opts)
	l.file = file
	return l, nil
}

// New builds a Logger over explicit writers.
func New(opts Options) *Logger {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	stdout := orDiscard(opts.Stdout)
	stderr := orDiscard(opts.Stderr)

	split := levelSplit{
		out: console(zerolog.SyncWriter(stdout), opts.Color, runField),
		err: console(zerolog.SyncWriter(stderr), opts.Color, runField),
	}
	var w io.Writer = split
	if opts.File != nil {
		w = zerolog.MultiLevelWriter(split, console(zerolog.SyncWriter(opts.File), false))
	}

	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	zl := zerolog.New(w).Level(level).With().Timestamp().Str(runField, opts.RunID).Logger()
	return &Logger{zl: zl, runID: opts.RunID}
}

// RunID returns the identifier stamped on every file log line.
func (l *Logger) RunID() string { return l.runID }

// With returns a child logger that adds key=value to every line. The child
// shares the parent's sinks; only the parent should be closed.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{zl: l.zl.With().Str(key, value).Logger(), runID: l.runID}
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...any) {
	l.zl.Log().Str(zerolog.LevelFieldName, statusSucc).Msgf(format, args...)
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...any) {
	l.zl.Warn().Msgf(format, args...)
}

// Error logs at ERROR level (red), to stderr.
func (l *Logger) Error(format string, args ...any) {
	l.zl.Error().Msgf(format, args...)
}

// Debug logs at DEBUG level (cyan) only when verbose.
func (l *Logger) Debug(format string, args ...any) {
	l.zl.Debug().Msgf(format, args...)
}

// levelSplit sends error-and-above events to err and everything else to out.
type levelSplit struct {
	out io.Writer
	err io.Writer
}

func (s levelSplit) Write(p []byte) (int, error) { return s.out.Write(p) }

func (s levelSplit) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level >= zerolog.ErrorLevel && level < zerolog.NoLevel {
		return s.err.Write(p)
	}
	return s.out.Write(p)
}

var levelLabels = map[string]string{
	"debug":    "DEBUG",
	"info":     "INFO",
	"warn":     "WARN",
	"error":    "ERROR",
	"fatal":    "FATAL",
	"panic":    "PANIC",
	statusSucc: "SUCCESS",
}

var levelColors = map[string]*color.Color{
	"debug":    term.Cyan,
	"info":     term.Blue,
	"warn":     term.Yellow,
	"error":    term.Red,
	"fatal":    term.Red,
	"panic":    term.Red,
	statusSucc: term.Green,
}

// console renders events as "<time> [LEVEL] message key=value".
func console(w io.Writer, colored bool, exclude ...string) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:           w,
		NoColor:       !colored,
		TimeFormat:    timeFormat,
		FieldsExclude: exclude,
		FormatLevel: func(i any) string {
			name, _ := i.(string)
			label, ok := levelLabels[name]
			if !ok {
				label = strings.ToUpper(name)
			}
			label = "[" + label + "]"
			if c := levelColors[name]; colored && c != nil {
				return c.Sprint(label)
			}
			return label
		},
	}
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
