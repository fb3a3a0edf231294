package report

import (
	"bytes"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/srgsanky/recursive-runner/internal/terminal"
	"github.com/srgsanky/recursive-runner/internal/types"
)

// SeparatorRune draws separators. U+2500 renders as a continuous line in
// terminals with ligature support.
const SeparatorRune = "─"

var (
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	neutralStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Printer writes rendered blocks. Report blocks go to Out, launch
// errors and diagnostics to Err.
type Printer struct {
	out     io.Writer
	err     io.Writer
	context terminal.Context
}

// NewPrinter creates a Printer. Nil writers default to the process's
// standard streams.
func NewPrinter(out, errOut io.Writer, ctx terminal.Context) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	if ctx.Width <= 0 {
		ctx.Width = terminal.DefaultWidth
	}
	return &Printer{out: out, err: errOut, context: ctx}
}

// Print writes blocks in order. Consecutive blocks bound for the same
// stream are written with a single call.
func (p *Printer) Print(blocks []types.Block) error {
	var buf bytes.Buffer
	toErr := false

	flush := func() error {
		if buf.Len() == 0 {
			return nil
		}
		w := p.out
		if toErr {
			w = p.err
		}
		_, err := w.Write(buf.Bytes())
		buf.Reset()
		return err
	}

	for _, b := range blocks {
		if b.ToStderr() != toErr {
			if err := flush(); err != nil {
				return err
			}
			toErr = b.ToStderr()
		}
		buf.WriteString(p.format(b))
	}
	return flush()
}

// Diagnostic writes a single failure-toned line to the error stream.
func (p *Printer) Diagnostic(msg string) error {
	_, err := io.WriteString(p.err, p.style(types.ToneFailure, msg)+"\n")
	return err
}

func (p *Printer) format(b types.Block) string {
	switch b.Kind {
	case types.BlockSeparator:
		return p.style(b.Tone, strings.Repeat(SeparatorRune, p.context.Width)) + "\n"
	case types.BlockBlank:
		return "\n"
	case types.BlockStdout:
		// Child output is passed through untouched; it may carry its own colors
		return withNewline(b.Text)
	case types.BlockStderr:
		return withNewline(p.styleLines(b.Tone, b.Text))
	default:
		return p.style(b.Tone, b.Text) + "\n"
	}
}

func (p *Printer) style(tone types.Tone, text string) string {
	if !p.context.Interactive || text == "" {
		return text
	}
	return toneStyle(tone).Render(text)
}

// styleLines styles each line on its own so lipgloss does not pad
// multi-line text to a common width.
func (p *Printer) styleLines(tone types.Tone, text string) string {
	if !p.context.Interactive {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = p.style(tone, line)
	}
	return strings.Join(lines, "\n")
}

func toneStyle(tone types.Tone) lipgloss.Style {
	switch tone {
	case types.ToneAccent:
		return accentStyle
	case types.ToneFailure:
		return failureStyle
	default:
		return neutralStyle
	}
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
