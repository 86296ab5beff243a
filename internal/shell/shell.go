// Package shell is the terminal surface: it reads one utterance at a time,
// runs it through the pipeline and prints the student answer, the
// integrity analysis and any warnings.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"academic-integrity-simulator/internal/client"
	"academic-integrity-simulator/internal/model"
	"academic-integrity-simulator/internal/service"
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	studentPrompt   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true).Render("student>")
	titleStyle      = lipgloss.NewStyle().Bold(true)
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	analysisStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	originalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	plagiarismStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type TurnRunner interface {
	RunTurn(ctx context.Context, conv *model.Conversation, userText string) (*service.TurnResult, error)
}

type Shell struct {
	conv   *model.Conversation
	runner TurnRunner
	in     io.Reader
	out    io.Writer
	style  string
	md     *glamour.TermRenderer
}

type Option func(*Shell)

// WithMarkdownStyle picks the glamour style used for student answers:
// "auto" (the default) detects the terminal, "notty" renders plain text.
func WithMarkdownStyle(style string) Option {
	return func(s *Shell) {
		s.style = style
	}
}

func New(conv *model.Conversation, runner TurnRunner, in io.Reader, out io.Writer, opts ...Option) (*Shell, error) {
	s := &Shell{conv: conv, runner: runner, in: in, out: out, style: "auto"}
	for _, opt := range opts {
		opt(s)
	}

	styleOpt := glamour.WithAutoStyle()
	if s.style != "auto" {
		styleOpt = glamour.WithStandardStyle(s.style)
	}
	md, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(80))
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	s.md = md
	return s, nil
}

// OnState prints the busy indicator for a pipeline state. Register it with
// service.WithStateObserver.
func (s *Shell) OnState(state service.State) {
	switch state {
	case service.StateAwaitingStudent:
		fmt.Fprintf(s.out, "  %s\n", dimStyle.Render("The AI student is thinking..."))
	case service.StateAwaitingVerdict:
		fmt.Fprintf(s.out, "  %s\n", dimStyle.Render("Analyzing response for plagiarism..."))
	}
}

func (s *Shell) Run(ctx context.Context) error {
	s.banner()

	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		fmt.Fprint(s.out, userPrompt)
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, "/") {
			if quit := s.command(input); quit {
				break
			}
			continue
		}

		s.turn(ctx, input)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	fmt.Fprintln(s.out)
	return nil
}

func (s *Shell) banner() {
	fmt.Fprintf(s.out, "\n  %s\n", titleStyle.Render("🕵️ Academic Integrity Simulator"))
	fmt.Fprintf(s.out, "  %s\n", dimStyle.Render("Test whether you can spot AI-generated student answers that might not be original work."))
	fmt.Fprintf(s.out, "  %s\n\n", dimStyle.Render(fmt.Sprintf("Integrity check: %s. Commands: /check on|off, /history, /help, /exit.", onOff(s.conv.IntegrityCheck()))))
}

func (s *Shell) command(input string) bool {
	fields := strings.Fields(input)
	switch fields[0] {
	case "/exit", "/quit":
		return true
	case "/check":
		if len(fields) == 2 && (fields[1] == "on" || fields[1] == "off") {
			s.conv.SetIntegrityCheck(fields[1] == "on")
		}
		fmt.Fprintf(s.out, "  %s\n", dimStyle.Render("Integrity check: "+onOff(s.conv.IntegrityCheck())))
	case "/history":
		s.history()
	case "/help":
		fmt.Fprintf(s.out, "  %s\n", dimStyle.Render("/check on|off  toggle the integrity check\n  /history       show the conversation\n  /exit          quit"))
	default:
		fmt.Fprintf(s.out, "  %s\n", warningStyle.Render("Unknown command "+fields[0]+", try /help"))
	}
	return false
}

func (s *Shell) history() {
	turns := s.conv.Turns()
	if len(turns) == 0 {
		fmt.Fprintf(s.out, "  %s\n", dimStyle.Render("No messages yet."))
		return
	}
	for _, t := range turns {
		if t.Role == model.RoleUser {
			fmt.Fprintf(s.out, "%s%s\n", userPrompt, t.Content)
			continue
		}
		s.printAnswer(t, model.VerdictUnparsed)
	}
}

func (s *Shell) turn(ctx context.Context, input string) {
	result, err := s.runner.RunTurn(ctx, s.conv, input)
	if err != nil {
		fmt.Fprintf(s.out, "  %s\n\n", errorStyle.Render(errorBanner(err)))
		return
	}

	s.printAnswer(result.Turn, result.Verdict)
	if result.Warning != nil {
		fmt.Fprintf(s.out, "  %s\n", warningStyle.Render("The integrity checker could not provide an analysis."))
	}
	fmt.Fprintln(s.out)
}

func (s *Shell) printAnswer(t model.Turn, verdict model.Verdict) {
	fmt.Fprintln(s.out, studentPrompt)
	rendered, err := s.md.Render(t.Content)
	if err != nil {
		rendered = t.Content + "\n"
	}
	fmt.Fprint(s.out, rendered)

	if t.Analysis == nil {
		return
	}
	if verdict == model.VerdictUnparsed {
		verdict = model.ParseVerdict(*t.Analysis)
	}
	fmt.Fprintf(s.out, "  %s\n", dimStyle.Render("── Academic Integrity Analysis ──"))
	fmt.Fprintf(s.out, "  %s\n", analysisStyle.Render(*t.Analysis))
	switch verdict {
	case model.VerdictOriginalWork:
		fmt.Fprintf(s.out, "  %s\n", originalStyle.Render("✅ "+verdict.Label()))
	case model.VerdictPotentialPlagiarism:
		fmt.Fprintf(s.out, "  %s\n", plagiarismStyle.Render("⚠️ "+verdict.Label()))
	}
}

func errorBanner(err error) string {
	switch {
	case errors.Is(err, service.ErrEmptyInput):
		return "Please type a question."
	case errors.Is(err, service.ErrConfig):
		return fmt.Sprintf("Configuration error: %v", err)
	case errors.Is(err, service.ErrEmptyResponse):
		return "The AI student didn't provide a response."
	case errors.Is(err, client.ErrRateLimited):
		return fmt.Sprintf("The model is rate limiting requests, please try again later: %v", err)
	default:
		return fmt.Sprintf("An API error occurred: %v", err)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
