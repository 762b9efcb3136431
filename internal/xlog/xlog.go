// Package xlog is a small leveled logger for the compiler's own
// diagnostics (not user-facing diagnostics, which go through
// internal/errors' Report/ReportError). It colorizes level tags the same
// way the teacher's CLI driver colorizes its own output, so a single
// color scheme runs from the REPL down to the pipeline's own trace
// logging.
package xlog

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Level orders logger verbosity, lowest to highest.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelTag = map[Level]func(a ...interface{}) string{
	LevelDebug: color.New(color.FgCyan).SprintFunc(),
	LevelInfo:  color.New(color.FgGreen).SprintFunc(),
	LevelWarn:  color.New(color.FgYellow).SprintFunc(),
	LevelError: color.New(color.FgRed, color.Bold).SprintFunc(),
}

var levelName = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

// Logger writes leveled, colorized lines to an io.Writer (os.Stderr by
// default). Safe for concurrent use from several goroutines: writes are
// serialised by mu.
type Logger struct {
	mu  sync.Mutex
	out io.Writer
	min Level
}

// New returns a Logger writing to os.Stderr at LevelInfo and above.
func New() *Logger {
	return &Logger{out: os.Stderr, min: LevelInfo}
}

// SetLevel changes the minimum level that reaches the output.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.min = level
}

// SetOutput redirects the logger, mainly for tests.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.min {
		return
	}
	tag := levelTag[level](levelName[level])
	fmt.Fprintf(l.out, "[%s] %s\n", tag, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.log(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.log(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.log(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(LevelError, format, args...) }

// Default is the package-level logger cmd/sablec and the pipeline
// stages share, mirroring the teacher's package-level color helpers.
var Default = New()

func Debugf(format string, args ...interface{}) { Default.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { Default.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { Default.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { Default.Errorf(format, args...) }

// ParseLevel parses a level name from a CLI flag or config file value.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return 0, fmt.Errorf("xlog: unknown level %q", s)
	}
}
