package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/yolodolo42/msgsign/internal/ethmsg"
	"golang.org/x/term"
)

var (
	_ ethmsg.ConfirmationGate = (*TerminalGate)(nil)
	_ ethmsg.ConfirmationGate = (*LineGate)(nil)
)

// TerminalGate asks for confirmation with an interactive bubbletea screen.
type TerminalGate struct {
	in  io.Reader
	out io.Writer
	log zerolog.Logger
}

// NewTerminalGate creates a gate reading keys from in and drawing to out.
func NewTerminalGate(in io.Reader, out io.Writer) *TerminalGate {
	return &TerminalGate{
		in:  in,
		out: out,
		log: log.With().Str("component", "confirm").Logger(),
	}
}

// Confirm blocks until the user answers. Any failure to run the screen,
// including cancellation of ctx, counts as a rejection.
func (g *TerminalGate) Confirm(ctx context.Context, params ethmsg.ConfirmParams) bool {
	p := tea.NewProgram(
		NewConfirmModel(params),
		tea.WithInput(g.in),
		tea.WithOutput(g.out),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil {
		g.log.Warn().Err(err).Msg("confirmation screen failed")
		return false
	}

	m, ok := final.(ConfirmModel)
	return ok && m.Accepted()
}

// LineGate asks for confirmation on a plain line-oriented stream. Only an
// explicit "y" or "yes" is an acceptance.
type LineGate struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLineGate creates a gate reading answers from in.
func NewLineGate(in io.Reader, out io.Writer) *LineGate {
	return &LineGate{in: bufio.NewReader(in), out: out}
}

// Confirm prints params and reads one answer line.
func (g *LineGate) Confirm(ctx context.Context, params ethmsg.ConfirmParams) bool {
	if ctx.Err() != nil {
		return false
	}

	title := strings.ReplaceAll(params.Title, "\n", " ")
	fmt.Fprintf(g.out, "%s\n  %s\n%s ", title, SanitizeBody(params.Body), PromptStyle.Render(SymbolPrompt+" Confirm? [y/N]:"))

	line, err := g.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(g.out)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// IsInteractive reports whether f is a terminal.
func IsInteractive(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// NewGate returns a TerminalGate when tty is a terminal. Otherwise it
// returns a LineGate over lines, which should share its buffer with any
// other reader of the same stream.
//
//nolint:ireturn // the concrete gate depends on the input stream
func NewGate(tty *os.File, lines io.Reader, out io.Writer) ethmsg.ConfirmationGate {
	if IsInteractive(tty) {
		return NewTerminalGate(tty, out)
	}
	return NewLineGate(lines, out)
}
