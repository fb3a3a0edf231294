// Package terminal detects whether output goes to an interactive
// terminal and how wide report separators should be.
package terminal

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
)

// DefaultWidth is the separator width used when no terminal width is known.
const DefaultWidth = 50

// ColorMode selects when report output is styled.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a --color value. Empty means auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch mode := ColorMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
	}
}

// Context is computed once at startup and handed to the report printer.
type Context struct {
	Interactive bool
	Width       int
}

// Detect inspects f. Width is the terminal width when f is a terminal
// whose size can be read, DefaultWidth otherwise.
func Detect(f *os.File) Context {
	if f == nil || !term.IsTerminal(f.Fd()) {
		return Context{Width: DefaultWidth}
	}

	ctx := Context{Interactive: true, Width: DefaultWidth}
	if w, _, err := term.GetSize(f.Fd()); err == nil && w > 0 {
		ctx.Width = w
	}
	return ctx
}

// WithColorMode applies a color override. In auto mode a non-empty
// NO_COLOR environment variable disables styling.
func (c Context) WithColorMode(mode ColorMode) Context {
	switch mode {
	case ColorAlways:
		c.Interactive = true
	case ColorNever:
		c.Interactive = false
	default:
		if os.Getenv("NO_COLOR") != "" {
			c.Interactive = false
		}
	}
	return c
}

// WithWidth overrides the detected width when width is positive.
func (c Context) WithWidth(width int) Context {
	if width > 0 {
		c.Width = width
	}
	return c
}
