// Package logging builds the structured loggers used across the editor.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const permission = 0664

// Builder configures a logger before it is made
type Builder struct {
	writer io.Writer
	path   string
	level  zerolog.Level
	pretty bool
}

// Logger is a built logger plus the file it writes to, if any
type Logger struct {
	File   *os.File
	Logger zerolog.Logger
}

// NewBuilder starts a builder that writes info-level JSON lines to stderr
func NewBuilder() *Builder {
	return &Builder{writer: os.Stderr, level: zerolog.InfoLevel}
}

// ToWriter sends output to w
func (b *Builder) ToWriter(w io.Writer) *Builder {
	b.writer = w
	return b
}

// ToPath appends output to the file at path
func (b *Builder) ToPath(path string) *Builder {
	b.path = path
	return b
}

// Level sets the minimum level by name. Unknown names keep the current level.
func (b *Builder) Level(name string) *Builder {
	if lvl, ok := ParseLevel(name); ok {
		b.level = lvl
	}
	return b
}

// Pretty switches to human-readable console output
func (b *Builder) Pretty(on bool) *Builder {
	b.pretty = on
	return b
}

// Make opens the output and builds the logger
func (b *Builder) Make() (*Logger, error) {
	out := &Logger{}
	w := b.writer
	if b.path != "" {
		f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		out.File = f
		w = zerolog.SyncWriter(f)
	}
	if b.pretty {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}
	out.Logger = zerolog.New(w).Level(b.level).With().Timestamp().Logger()
	return out, nil
}

// Close closes the log file, if one was opened
func (l *Logger) Close() error {
	if l.File == nil {
		return nil
	}
	return l.File.Close()
}

// New returns a timestamped logger writing to w at the named level
func New(level string, w io.Writer) zerolog.Logger {
	l, _ := NewBuilder().ToWriter(w).Level(level).Make()
	return l.Logger
}

// ParseLevel maps a level name to a zerolog level. An empty name is info.
func ParseLevel(name string) (zerolog.Level, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel, true
	}
	if name == "warning" {
		name = "warn"
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, false
	}
	return lvl, true
}
