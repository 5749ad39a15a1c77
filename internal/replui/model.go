// Package replui is the interactive evaluator behind `internal repl`: a
// single-line bubbletea textinput bound to the lexer/parser/interpreter
// running in expression-only mode, echoing the stringified result or a
// lipgloss-styled error block with source line and caret.
package replui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/standardbeagle/mbs/internal/arena"
	"github.com/standardbeagle/mbs/internal/builtin"
	"github.com/standardbeagle/mbs/internal/display"
	"github.com/standardbeagle/mbs/internal/interp"
	"github.com/standardbeagle/mbs/internal/lexer"
	"github.com/standardbeagle/mbs/internal/parser"
)

// Model is the bubbletea model for one REPL session bound to a single
// interpreter: every expression is evaluated in the same scope, so a
// binding defined on that interpreter stays visible across lines. Only
// expressions are accepted; an assignment such as `x = 1` is a parse error.
type Model struct {
	ip        *interp.Interp
	textInput textinput.Model
	history   []string
	quitting  bool
}

// New builds a REPL model evaluating against ip.
func New(ip *interp.Interp) Model {
	ti := textinput.New()
	ti.Placeholder = "expr"
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = 60

	return Model{ip: ip, textInput: ti}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			line := strings.TrimSpace(m.textInput.Value())
			m.textInput.SetValue("")
			if line == "" {
				return m, nil
			}
			if line == "exit" || line == "quit" {
				m.quitting = true
				return m, tea.Quit
			}
			m.history = append(m.history, promptStyle.Render("> "+line))
			m.history = append(m.history, m.evalLine(line))
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m Model) evalLine(line string) string {
	h, err := Eval(m.ip, line)
	if err != nil {
		return RenderError(line, err)
	}
	return resultStyle.Render(builtin.Stringify(m.ip, h))
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	for _, line := range m.history {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(m.textInput.View())
	b.WriteByte('\n')
	b.WriteString(dimStyle.Render("enter: evaluate  ctrl+c: quit"))
	return b.String()
}

// Eval lexes, parses, and evaluates a single expression against ip,
// running the lexer and parser in Extended mode and accepting exactly one
// expression (parser.ParseExpr).
func Eval(ip *interp.Interp, src string) (arena.Handle, error) {
	lx := lexer.New("<repl>", src, lexer.Extended)
	toks, err := lx.Scan()
	if err != nil {
		return arena.NullHandle, err
	}
	p := parser.New("<repl>", toks, lexer.Extended)
	node, err := p.ParseExpr()
	if err != nil {
		return arena.NullHandle, err
	}
	return ip.EvalExpr(node)
}

// RenderError styles display.RenderError's plain-text rendering for the
// terminal: message line in errorStyle, source line dimmed, caret line bold.
func RenderError(src string, err error) string {
	plain := display.RenderError(src, err)
	lines := strings.Split(plain, "\n")
	if len(lines) == 1 {
		return errorStyle.Render(lines[0])
	}
	var b strings.Builder
	b.WriteString(errorStyle.Render(lines[0]))
	b.WriteByte('\n')
	for _, line := range lines[1 : len(lines)-1] {
		b.WriteString(dimStyle.Render(line))
		b.WriteByte('\n')
	}
	b.WriteString(caretStyle.Render(lines[len(lines)-1]))
	return b.String()
}

// Run starts the interactive REPL against ip and blocks until the user quits.
func Run(ip *interp.Interp) error {
	p := tea.NewProgram(New(ip))
	_, err := p.Run()
	return err
}
