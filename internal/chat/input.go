package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/Cyclone1070/aiterm/internal/interrupt"
	"github.com/Cyclone1070/aiterm/internal/tool"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

// outcome records how a line read ended.
type outcome int

const (
	outcomeSubmitted outcome = iota
	outcomeInterrupted
	outcomeEOF
	outcomeRestored
)

// restoreMsg ends a read early and keeps the typed text.
type restoreMsg struct{}

// lineModel is the bubbletea model for reading one line.
type lineModel struct {
	input   textinput.Model
	outcome outcome
	done    bool
}

func newLineModel(prompt, initial string) lineModel {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.CharLimit = 0
	ti.SetValue(initial)
	ti.CursorEnd()
	ti.Focus()
	return lineModel{input: ti}
}

func (m lineModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m lineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case restoreMsg:
		return m.finish(outcomeRestored)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			return m.finish(outcomeSubmitted)
		case tea.KeyCtrlC:
			return m.finish(outcomeInterrupted)
		case tea.KeyCtrlD:
			if m.input.Value() == "" {
				return m.finish(outcomeEOF)
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m lineModel) finish(o outcome) (tea.Model, tea.Cmd) {
	m.outcome = o
	m.done = true
	return m, tea.Quit
}

func (m lineModel) View() string {
	if m.done {
		return ""
	}
	return m.input.View()
}

// Reader reads user input line by line. Ctrl-C while reading is delivered
// to the interrupt handler as a raw interrupt.
type Reader struct {
	handler *interrupt.Handler
	in      io.Reader
	out     io.Writer
	logger  *zap.Logger

	// readLine is replaced in tests.
	readLine func(ctx context.Context, prompt, initial string) (string, outcome, error)

	pumpOnce sync.Once
	lines    chan string
}

// NewReader creates a reader on the given streams. Input that is not a
// terminal, such as a pipe, is read as plain lines without editing.
func NewReader(handler *interrupt.Handler, in io.Reader, out io.Writer, logger *zap.Logger) *Reader {
	if handler == nil {
		panic("handler is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Reader{handler: handler, in: in, out: out, logger: logger}
	r.readLine = r.runProgram
	if !isTerminal(in) {
		r.readLine = r.readPlain
	}
	return r
}

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ReadLine reads one line after prompt, starting from initial.
//
// Ctrl-C raises an interrupt and returns interrupt.ErrCanceled. Ctrl-D on
// an empty line returns io.EOF. When ctx is done the read stops and the
// text typed so far is returned together with ctx's error.
func (r *Reader) ReadLine(ctx context.Context, prompt, initial string) (string, error) {
	text, o, err := r.readLine(ctx, prompt, initial)
	if err != nil {
		return "", err
	}

	switch o {
	case outcomeInterrupted:
		r.handler.Interrupt()
		return "", interrupt.ErrCanceled
	case outcomeEOF:
		return "", io.EOF
	case outcomeRestored:
		return text, ctx.Err()
	}

	fmt.Fprintln(r.out, prompt+text)
	return text, nil
}

func (r *Reader) runProgram(ctx context.Context, prompt, initial string) (string, outcome, error) {
	if err := ctx.Err(); err != nil {
		return initial, outcomeRestored, nil
	}

	p := tea.NewProgram(newLineModel(prompt, initial),
		tea.WithInput(r.in),
		tea.WithOutput(r.out),
		tea.WithoutSignalHandler(),
	)
	stop := context.AfterFunc(ctx, func() { p.Send(restoreMsg{}) })
	defer stop()

	final, err := p.Run()
	if err != nil {
		return "", 0, fmt.Errorf("read input: %w", err)
	}
	m, ok := final.(lineModel)
	if !ok {
		return "", 0, fmt.Errorf("unexpected model type %T", final)
	}
	return m.input.Value(), m.outcome, nil
}

// readPlain reads the next line of non-terminal input.
func (r *Reader) readPlain(ctx context.Context, _, initial string) (string, outcome, error) {
	if ctx.Err() != nil {
		return initial, outcomeRestored, nil
	}
	r.pumpOnce.Do(func() {
		r.lines = make(chan string)
		go r.pump()
	})

	select {
	case <-ctx.Done():
		return initial, outcomeRestored, nil
	case line, ok := <-r.lines:
		if !ok {
			return "", outcomeEOF, nil
		}
		return line, outcomeSubmitted, nil
	}
}

// pump feeds input lines to readPlain until the input ends.
func (r *Reader) pump() {
	defer close(r.lines)
	if r.in == nil {
		return
	}
	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		r.lines <- scanner.Text()
	}
	if err := scanner.Err(); err != nil {
		r.logger.Warn("input ended", zap.Error(err))
	}
}

// Choice asks question until one of choices is picked. An empty answer
// picks the default choice.
func (r *Reader) Choice(ctx context.Context, question string, choices []tool.Choice) (string, error) {
	fmt.Fprint(r.out, formatChoices(choices))
	prompt := formatQuestion(question, choices)
	for {
		answer, err := r.ReadLine(ctx, prompt, "")
		if err != nil {
			return "", err
		}
		answer = strings.ToLower(strings.TrimSpace(answer))

		for _, c := range choices {
			if answer == c.Name || (answer == "" && c.Default) {
				return c.Name, nil
			}
		}
		r.logger.Debug("invalid choice", zap.String("answer", answer))
		fmt.Fprintln(r.out, errorStyle.Render("Please answer with one of the listed options."))
	}
}

// Edit lets the user edit initial in place.
func (r *Reader) Edit(ctx context.Context, label, initial string) (string, error) {
	return r.ReadLine(ctx, label+": ", initial)
}

// formatChoices lists each choice with its description.
func formatChoices(choices []tool.Choice) string {
	var b strings.Builder
	for _, c := range choices {
		fmt.Fprintf(&b, "  %s  %s\n", c.Name, dimStyle.Render(c.Description))
	}
	return b.String()
}

// formatQuestion renders "question? [y/N]" with the default in upper case.
func formatQuestion(question string, choices []tool.Choice) string {
	names := make([]string, 0, len(choices))
	for _, c := range choices {
		name := c.Name
		if c.Default {
			name = strings.ToUpper(name)
		}
		names = append(names, name)
	}
	return fmt.Sprintf("%s? [%s] ", question, strings.Join(names, "/"))
}
