// Package ui is the interactive side of the command line: framed intro and
// outro lines, a progress spinner, a yes/no prompt and final notices.
package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrCancelled is returned by Confirm when input ends before an answer.
var ErrCancelled = errors.New("prompt cancelled")

// Prompter is everything the command needs from the user-facing side.
type Prompter interface {
	Intro(text string)
	Outro(text string)
	Spinner() Spinner
	Confirm(prompt string) (bool, error)
	Cancel(text string)
	Success(text string)
}

// Spinner shows progress of a long-running step.
type Spinner interface {
	Start(text string)
	Message(text string)
	Stop(text string)
}

const (
	barSymbol     = "│"
	introSymbol   = "┌"
	outroSymbol   = "└"
	activeSymbol  = "◒"
	stepSymbol    = "◇"
	promptSymbol  = "◆"
	cancelSymbol  = "■"
	successSymbol = "✔"
	clearLine     = "\r\033[K"
)

// Terminal writes to out and reads answers from in. On a real terminal the
// spinner redraws its line in place; otherwise every message gets its own
// line so logs and pipes stay readable.
type Terminal struct {
	in       *bufio.Reader
	out      io.Writer
	tty      bool
	spinning bool
}

var _ Prompter = (*Terminal)(nil)

// NewTerminal returns a Terminal reading from in and writing to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:  bufio.NewReader(in),
		out: out,
		tty: isTerminal(out),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Intro opens the framed session with a title line.
func (t *Terminal) Intro(text string) {
	fmt.Fprintf(t.out, "%s  %s\n%s\n", introSymbol, text, barSymbol)
}

// Outro closes the frame with a final line.
func (t *Terminal) Outro(text string) {
	t.endLine()
	fmt.Fprintf(t.out, "%s\n%s  %s\n", barSymbol, outroSymbol, text)
}

// Spinner returns a progress spinner drawing on the terminal.
func (t *Terminal) Spinner() Spinner {
	return &spinner{t: t}
}

// Confirm asks a yes/no question; only "y" and "yes" count as yes.
// Input ending before a newline-terminated answer returns ErrCancelled.
func (t *Terminal) Confirm(prompt string) (bool, error) {
	t.endLine()
	fmt.Fprintf(t.out, "%s  %s (y/N) ", promptSymbol, prompt)

	line, err := t.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		fmt.Fprintln(t.out)
		return false, ErrCancelled
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Cancel reports a failed or aborted operation.
func (t *Terminal) Cancel(text string) {
	t.endLine()
	fmt.Fprintf(t.out, "%s  %s\n", cancelSymbol, text)
}

// Success reports a completed operation.
func (t *Terminal) Success(text string) {
	t.endLine()
	fmt.Fprintf(t.out, "%s  %s\n", successSymbol, text)
}

// endLine terminates an in-place spinner line before other output.
func (t *Terminal) endLine() {
	if t.tty && t.spinning {
		fmt.Fprintln(t.out)
	}
}

type spinner struct {
	t *Terminal
}

func (s *spinner) Start(text string) {
	s.t.spinning = true
	s.draw(text)
}

func (s *spinner) Message(text string) {
	if !s.t.spinning {
		s.Start(text)
		return
	}
	s.draw(text)
}

func (s *spinner) Stop(text string) {
	if s.t.tty && s.t.spinning {
		fmt.Fprintf(s.t.out, "%s%s  %s\n", clearLine, stepSymbol, text)
	} else {
		fmt.Fprintf(s.t.out, "%s  %s\n", stepSymbol, text)
	}
	s.t.spinning = false
}

func (s *spinner) draw(text string) {
	if s.t.tty {
		fmt.Fprintf(s.t.out, "%s%s  %s", clearLine, activeSymbol, text)
		return
	}
	fmt.Fprintf(s.t.out, "%s  %s\n", barSymbol, text)
}
