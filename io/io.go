// Package specio centralizes the standard streams and terminal capabilities
// a program writes diagnostics to.
package specio

import (
	stdio "io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// IOManager centralizes IO and terminal capabilities
type IOManager struct {
	in  stdio.Reader
	out stdio.Writer
	err stdio.Writer

	forceColor bool
	noColor    bool
}

// New returns a manager bound to process stdio
func New() *IOManager {
	return &IOManager{in: os.Stdin, out: os.Stdout, err: os.Stderr}
}

// WithIn sets the input reader.
func (m *IOManager) WithIn(r stdio.Reader) *IOManager { m.in = r; return m }

// WithOut sets the standard output writer.
func (m *IOManager) WithOut(w stdio.Writer) *IOManager { m.out = w; return m }

// WithErr sets the standard error writer.
func (m *IOManager) WithErr(w stdio.Writer) *IOManager { m.err = w; return m }

// ForceColor forces color output on, regardless of environment.
func (m *IOManager) ForceColor() *IOManager { m.forceColor = true; m.noColor = false; return m }

// NoColor disables color output, regardless of environment.
func (m *IOManager) NoColor() *IOManager { m.noColor = true; m.forceColor = false; return m }

// ColorAuto uses the environment and the terminal to decide.
func (m *IOManager) ColorAuto() *IOManager { m.noColor = false; m.forceColor = false; return m }

// In returns the configured input reader.
func (m *IOManager) In() stdio.Reader { return m.in }

// Out returns the configured standard output writer.
func (m *IOManager) Out() stdio.Writer { return m.out }

// Err returns the configured standard error writer.
func (m *IOManager) Err() stdio.Writer { return m.err }

// IsTTY reports whether the output writer is a terminal.
func (m *IOManager) IsTTY() bool { return isTerminal(m.out) }

// IsInteractive reports whether input comes from a terminal outside CI.
func (m *IOManager) IsInteractive() bool { return isTerminal(m.in) && os.Getenv("CI") == "" }

// IsPiped reports whether input is not a terminal.
func (m *IOManager) IsPiped() bool { return !isTerminal(m.in) }

// Width returns the terminal width, falling back to $COLUMNS and then 80.
func (m *IOManager) Width() int {
	if w, _, ok := m.size(); ok && w > 0 {
		return w
	}
	if w := envInt("COLUMNS"); w > 0 {
		return w
	}
	return 80
}

// Height returns the terminal height, falling back to $LINES and then 24.
func (m *IOManager) Height() int {
	if _, h, ok := m.size(); ok && h > 0 {
		return h
	}
	if h := envInt("LINES"); h > 0 {
		return h
	}
	return 24
}

// SupportsColor reports whether ANSI color should be emitted on the output.
// NO_COLOR wins over FORCE_COLOR; explicit NoColor/ForceColor win over both.
func (m *IOManager) SupportsColor() bool {
	switch {
	case m.noColor:
		return false
	case m.forceColor:
		return true
	case os.Getenv("NO_COLOR") != "":
		return false
	case os.Getenv("FORCE_COLOR") != "":
		return true
	}
	if !m.IsTTY() {
		return false
	}
	t := os.Getenv("TERM")
	return t != "" && t != "dumb"
}

// Colorize renders s with the given attributes when color is supported.
func (m *IOManager) Colorize(s string, attrs ...color.Attribute) string {
	c := color.New(attrs...)
	if m.SupportsColor() {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

// Bold returns s in bold when color is supported; otherwise s unchanged.
func (m *IOManager) Bold(s string) string { return m.Colorize(s, color.Bold) }

// Faint returns s in faint intensity when supported; otherwise s unchanged.
func (m *IOManager) Faint(s string) string { return m.Colorize(s, color.Faint) }

func (m *IOManager) size() (int, int, bool) {
	f, ok := m.out.(*os.File)
	if !ok {
		return 0, 0, false
	}
	w, h, err := term.GetSize(int(f.Fd()))
	return w, h, err == nil
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func envInt(name string) int {
	n, err := strconv.Atoi(os.Getenv(name))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
