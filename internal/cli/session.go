// Package cli runs the interactive question loop.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ccastromar/askai/internal/llm"
	"github.com/ccastromar/askai/internal/logx"
	"github.com/ccastromar/askai/internal/textnorm"
)

const DefaultExitKeyword = "exit"

type State int

const (
	Idle State = iota
	AwaitingInput
	Processing
	Displaying
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingInput:
		return "awaiting_input"
	case Processing:
		return "processing"
	case Displaying:
		return "displaying"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Asker is the slice of the backend client the loop needs.
type Asker interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

type Options struct {
	ExitKeyword string
	// Styled turns on terminal colors. Leave off when out is not a TTY.
	Styled bool
}

type Session struct {
	asker       Asker
	in          io.Reader
	out         io.Writer
	exitKeyword string
	theme       theme
	state       State
}

func NewSession(a Asker, in io.Reader, out io.Writer, opts Options) *Session {
	kw := strings.TrimSpace(opts.ExitKeyword)
	if kw == "" {
		kw = DefaultExitKeyword
	}
	return &Session{
		asker:       a,
		in:          in,
		out:         out,
		exitKeyword: kw,
		theme:       newTheme(opts.Styled),
		state:       Idle,
	}
}

func (s *Session) State() State { return s.state }

type lineResult struct {
	text string
	err  error
}

// Run loops until the exit keyword, end of input or ctx cancellation, all
// of which return nil. Only a failing reader produces an error.
func (s *Session) Run(ctx context.Context) error {
	lines := make(chan lineResult)
	done := make(chan struct{})
	defer close(done)
	go readLines(s.in, lines, done)

	s.printf("\n%s\n", s.theme.title("--- askai: LLM Q&A ---"))
	s.printf("Ask your question, or type '%s' to quit.\n", s.exitKeyword)

	for {
		s.state = AwaitingInput
		s.printf("\n%s ", s.theme.prompt("[question] >"))

		var res lineResult
		select {
		case <-ctx.Done():
			s.printf("\n")
			return s.terminate()
		case res = <-lines:
		}

		if res.err != nil && !errors.Is(res.err, io.EOF) {
			s.state = Terminated
			return fmt.Errorf("reading input: %w", res.err)
		}

		line := strings.TrimRight(res.text, "\r\n")
		switch {
		// surrounding spaces and case are ignored, so "  EXIT " also quits
		case strings.EqualFold(strings.TrimSpace(line), s.exitKeyword):
			return s.terminate()
		case strings.TrimSpace(line) == "":
			// re-prompt
		default:
			s.process(ctx, line)
			if ctx.Err() != nil {
				s.printf("\n")
				return s.terminate()
			}
		}

		if errors.Is(res.err, io.EOF) {
			s.printf("\n")
			return s.terminate()
		}
	}
}

func (s *Session) process(ctx context.Context, question string) {
	s.state = Processing
	processed := textnorm.Normalize(question)
	s.printf("%s %s\n", s.theme.label("[processed]"), processed)
	s.printf("%s\n", s.theme.muted("Waiting for response..."))

	answer, err := s.asker.Ask(ctx, processed)
	if ctx.Err() != nil {
		return
	}

	s.state = Displaying
	if err != nil {
		logx.Warn("CLI", "question failed kind=%s: %v", llm.KindOf(err), err)
		s.printf("%s %s\n", s.theme.failure("[error]"), err.Error())
		return
	}
	s.printf("%s %s\n", s.theme.label("[answer]"), answer)
}

func (s *Session) terminate() error {
	s.state = Terminated
	s.printf("Exiting application. Goodbye!\n")
	return nil
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// readLines feeds one line per send so a blocked read never stalls
// cancellation in Run.
func readLines(in io.Reader, out chan<- lineResult, done <-chan struct{}) {
	r := bufio.NewReader(in)
	for {
		text, err := r.ReadString('\n')
		select {
		case out <- lineResult{text: text, err: err}:
		case <-done:
			return
		}
		if err != nil {
			return
		}
	}
}

type theme struct {
	title   func(string) string
	prompt  func(string) string
	label   func(string) string
	muted   func(string) string
	failure func(string) string
}

func newTheme(styled bool) theme {
	if !styled {
		plain := func(s string) string { return s }
		return theme{title: plain, prompt: plain, label: plain, muted: plain, failure: plain}
	}
	return theme{
		title:   render(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))),
		prompt:  render(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))),
		label:   render(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))),
		muted:   render(lipgloss.NewStyle().Faint(true)),
		failure: render(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))),
	}
}

func render(st lipgloss.Style) func(string) string {
	return func(s string) string { return st.Render(s) }
}
