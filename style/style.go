package style

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Level is the severity of a log line.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelFatal
)

var levelNames = [...]string{
	LevelDebug:   "DEBUG",
	LevelInfo:    "INFO",
	LevelWarning: "WARNING",
	LevelError:   "ERROR",
	LevelFatal:   "FATAL",
}

func (l Level) String() string {
	if l < LevelDebug || l > LevelFatal {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
	return levelNames[l]
}

// Logger prints leveled diagnostic lines, normally to stderr.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	min    Level
	pace   func()
	colors [len(levelNames)]*color.Color
}

// Option configures a Logger.
type Option func(*Logger)

// WithLevel drops every line below min.
func WithLevel(min Level) Option {
	return func(l *Logger) { l.min = min }
}

// WithColor turns ANSI colors on or off regardless of the global color state.
func WithColor(on bool) Option {
	return func(l *Logger) {
		for _, c := range l.colors {
			if on {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

// WithPacer runs p before every line that is actually written.
func WithPacer(p func()) Option {
	return func(l *Logger) { l.pace = p }
}

// NewLogger returns a Logger writing to out at LevelInfo without colors.
func NewLogger(out io.Writer, opts ...Option) *Logger {
	l := &Logger{
		out: out,
		min: LevelInfo,
		colors: [...]*color.Color{
			LevelDebug:   color.New(color.FgHiBlack),
			LevelInfo:    color.New(color.FgHiBlack),
			LevelWarning: color.New(color.FgYellow),
			LevelError:   color.New(color.FgRed),
			LevelFatal:   color.New(color.FgRed, color.Bold),
		},
	}
	WithColor(false)(l)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Enabled reports whether lines at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return l != nil && level >= l.min
}

func (l *Logger) log(level Level, format string, a ...any) {
	if !l.Enabled(level) {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pace != nil {
		l.pace()
	}
	msg := fmt.Sprintf(format, a...)
	fmt.Fprintln(l.out, l.colors[level].Sprintf("[%s] %s", level, msg))
}

func (l *Logger) Debug(format string, a ...any) { l.log(LevelDebug, format, a...) }
func (l *Logger) Info(format string, a ...any)  { l.log(LevelInfo, format, a...) }
func (l *Logger) Warn(format string, a ...any)  { l.log(LevelWarning, format, a...) }
func (l *Logger) Error(format string, a ...any) { l.log(LevelError, format, a...) }

// Fatal writes a FATAL line. Unlike log.Fatal it does not exit; the caller
// decides the exit code.
func (l *Logger) Fatal(format string, a ...any) { l.log(LevelFatal, format, a...) }

// Printer writes user-facing status messages, normally to stdout.
type Printer struct {
	out     io.Writer
	plain   *color.Color
	sub     *color.Color
	success *color.Color
}

func NewPrinter(out io.Writer, colored bool) *Printer {
	p := &Printer{
		out:     out,
		plain:   color.New(),
		sub:     color.RGB(150, 150, 150),
		success: color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.plain, p.sub, p.success} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Print message without styling
func (p *Printer) Plain(format string, a ...any) {
	p.println(p.plain, format, a...)
}

// Print message in soft gray
func (p *Printer) Sub(format string, a ...any) {
	p.println(p.sub, format, a...)
}

// Print success message in bold green
func (p *Printer) Success(format string, a ...any) {
	p.println(p.success, format, a...)
}

func (p *Printer) println(c *color.Color, format string, a ...any) {
	fmt.Fprintln(p.out, c.Sprintf(format, a...))
}

// Terminal reports whether f is a terminal that should receive colors.
// NO_COLOR and TERM=dumb always disable them.
func Terminal(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Writer wraps f so ANSI sequences also render on Windows consoles.
func Writer(f *os.File) io.Writer {
	return colorable.NewColorable(f)
}
