package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogFilePath is the default log file, relative to the working directory.
const LogFilePath = "logs/piano.log"

// maxLines bounds the in-memory history shown by the console overlay.
const maxLines = 500

// Options selects where log output goes.
type Options struct {
	Level   string    // trace, debug, info, warn or error
	File    string    // empty disables the file sink
	Console io.Writer // nil disables the console sink
}

// Logger fans zerolog events out to the console, a log file and an in-memory history
// that the in-window console renders.
type Logger struct {
	zl   zerolog.Logger
	file *os.File

	mu    sync.Mutex
	lines []string
}

// New builds a logger from opts and creates the log directory if needed.
func New(opts Options) (*Logger, error) {
	l := &Logger{lines: make([]string, 0)}

	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: (*history)(l), TimeFormat: time.TimeOnly, NoColor: true},
	}
	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: opts.Console, TimeFormat: time.RFC3339})
	}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
		writers = append(writers, zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339, NoColor: true})
	}

	l.zl = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(opts.Level)).
		With().Timestamp().Logger()
	return l, nil
}

// ParseLevel maps a level name to a zerolog level. Unknown names give info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToUpper(s) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	}
	return zerolog.InfoLevel
}

// Zerolog returns the structured logger handed to the core packages.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}

// Log records a free-form line, e.g. a console command typed by the user.
func (l *Logger) Log(line string) {
	l.zl.Info().Str("source", "console").Msg(line)
}

// Writer returns a writer that records every complete line written to it via Log.
func (l *Logger) Writer() io.Writer {
	return &lineWriter{l: l}
}

type lineWriter struct {
	l       *Logger
	pending string
}

func (w *lineWriter) Write(p []byte) (int, error) {
	buf := w.pending + string(p)
	for {
		i := strings.IndexByte(buf, '\n')
		if i < 0 {
			break
		}
		w.l.Log(buf[:i])
		buf = buf[i+1:]
	}
	w.pending = buf
	return len(p), nil
}

// Lines returns a copy of the in-memory history, oldest first.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// history is the in-memory sink. Each write from the console writer is one event.
type history Logger

func (h *history) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}
		h.lines = append(h.lines, line)
	}
	if over := len(h.lines) - maxLines; over > 0 {
		h.lines = append(h.lines[:0], h.lines[over:]...)
	}
	return len(p), nil
}
