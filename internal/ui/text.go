package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Formatter renders one kind of content. With color disabled the text is
// wrapped in open/close instead.
type Formatter struct {
	attrs []color.Attribute
	open  string
	close string
}

func newFormatter(open, close string, attrs ...color.Attribute) Formatter {
	return Formatter{attrs: attrs, open: open, close: close}
}

// Sprint formats a with fmt.Sprint semantics.
func (f Formatter) Sprint(a ...any) string {
	return f.render(fmt.Sprint(a...))
}

// Sprintf formats with fmt.Sprintf semantics.
func (f Formatter) Sprintf(format string, a ...any) string {
	return f.render(fmt.Sprintf(format, a...))
}

func (f Formatter) render(text string) string {
	if !ColorEnabled() {
		return f.open + text + f.close
	}
	c := color.New(f.attrs...)
	c.EnableColor()
	return c.Sprint(text)
}

// ColorEnabled reports whether output is colorized. NO_COLOR (any value)
// and fatih/color's own terminal detection both turn it off.
func ColorEnabled() bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return !color.NoColor
}

var (
	// Code is for commands and settings keys: `backticks` without color.
	Code = newFormatter("`", "`", color.FgYellow)

	Path    = newFormatter("", "", color.FgYellow)
	Success = newFormatter("", "", color.FgGreen)
	Error   = newFormatter("", "", color.FgRed)
	Warning = newFormatter("", "", color.FgYellow)
	Info    = newFormatter("", "", color.FgCyan)

	// Highlight is for profile names: 'quoted' without color.
	Highlight = newFormatter("'", "'", color.FgCyan, color.Bold)

	// Variable is for environment variable names. Never use it for values.
	Variable = newFormatter("", "", color.FgMagenta)

	// Muted is for secondary detail: (parenthesized) without color.
	Muted = newFormatter("(", ")", color.FgHiBlack)
)

// Status lines start with a colored mark.
func Done(msg string) string   { return Success.Sprint("✓") + " " + msg }
func Failed(msg string) string { return Error.Sprint("✗") + " " + msg }
func Warn(msg string) string   { return Warning.Sprint("⚠") + " " + msg }
func Hint(msg string) string   { return Info.Sprint("→") + " " + msg }

// EnsureNewline appends a newline unless s already ends with one.
func EnsureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
