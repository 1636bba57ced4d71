package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Redactor scrubs sensitive values out of a formatted message.
type Redactor interface {
	Redact(s string) string
}

// Logger writes leveled diagnostics to stderr. Stdout is reserved for
// command output such as resolved variables.
type Logger struct {
	Verbose  bool
	Debug    bool
	Redactor Redactor

	// Out overrides the destination; nil means os.Stderr.
	Out io.Writer
}

func (l Logger) Infof(msg string, args ...any) {
	if l.Verbose || l.Debug {
		l.write(color.GreenString("[info] "), msg, args...)
	}
}

func (l Logger) Debugf(msg string, args ...any) {
	if l.Debug {
		l.write(color.CyanString("[debug] "), msg, args...)
	}
}

func (l Logger) Warnf(msg string, args ...any) {
	l.write(color.YellowString("[warn] "), msg, args...)
}

func (l Logger) Errorf(msg string, args ...any) {
	l.write(color.RedString("[error] "), msg, args...)
}

func (l Logger) write(prefix, msg string, args ...any) {
	line := fmt.Sprintf(msg, args...)
	if l.Redactor != nil {
		line = l.Redactor.Redact(line)
	}

	out := l.Out
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintln(out, prefix+line)
}
