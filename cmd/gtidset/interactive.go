package main

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	gtidsets "github.com/wippyai/gtid-sets"
	"github.com/wippyai/gtid-sets/adapter"
	"github.com/wippyai/gtid-sets/gtids"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	opStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#98FB98"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	result   string
	ops      []opInfo
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
}

type opInfo struct {
	name  string
	desc  string
	arity int
	apply func(a, b *gtids.Set) (string, error)
}

type modelState int

const (
	stateSelectOp modelState = iota
	stateInputSets
	stateShowResult
)

type callResultMsg struct {
	err    error
	result string
}

func operations() []opInfo {
	formatted := func(set *gtids.Set) (string, error) {
		out, err := adapter.FormatSet(set)
		if err != nil {
			return "", err
		}
		if out == "" {
			return "(empty set)", nil
		}
		return out, nil
	}
	inplace := func(op func(a, b *gtids.Set) error) func(a, b *gtids.Set) (string, error) {
		return func(a, b *gtids.Set) (string, error) {
			if err := op(a, b); err != nil {
				return "", adapter.OutOfResources(err)
			}
			return formatted(a)
		}
	}
	return []opInfo{
		{
			name:  "parse",
			desc:  "canonical form of one set",
			arity: 1,
			apply: func(a, _ *gtids.Set) (string, error) {
				out, err := formatted(a)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%s\n\n%d sources, %d GTIDs", out, a.SourceCount(), a.Count()), nil
			},
		},
		{
			name:  "union",
			desc:  "GTIDs in either set",
			arity: 2,
			apply: inplace((*gtids.Set).InplaceUnion),
		},
		{
			name:  "subtract",
			desc:  "GTIDs of a not in b",
			arity: 2,
			apply: inplace((*gtids.Set).InplaceSubtract),
		},
		{
			name:  "intersect",
			desc:  "GTIDs in both sets",
			arity: 2,
			apply: inplace((*gtids.Set).InplaceIntersect),
		},
		{
			name:  "subset",
			desc:  "is a contained in b",
			arity: 2,
			apply: func(a, b *gtids.Set) (string, error) {
				if a.IsSubsetOf(b) {
					return "yes", nil
				}
				return "no", nil
			},
		},
	}
}

func newInteractiveModel() *interactiveModel {
	return &interactiveModel{
		ops:   operations(),
		state: stateSelectOp,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			// While a set is being typed, q is input: tags may contain it.
			if m.state != stateInputSets {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectOp && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectOp && m.selected < len(m.ops)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectOp:
				m.prepareInputs()
				m.state = stateInputSets

			case stateInputSets:
				return m, m.compute

			case stateShowResult:
				m.state = stateSelectOp
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputSets && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputSets:
				m.state = stateSelectOp
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectOp
				m.result = ""
				m.err = nil
			}
		}

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputSets {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) prepareInputs() {
	op := m.ops[m.selected]
	m.inputs = make([]textinput.Model, op.arity)
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = "uuid:1-5:8,uuid:tag:1-3"
		ti.Prompt = inputPrompt(op, i)
		ti.Width = 60
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func inputPrompt(op opInfo, i int) string {
	if op.arity == 1 {
		return "set: "
	}
	if i == 0 {
		return "a: "
	}
	return "b: "
}

func (m *interactiveModel) compute() tea.Msg {
	op := m.ops[m.selected]
	parsed := make([]*gtids.Set, len(m.inputs))
	for i, input := range m.inputs {
		set, err := adapter.ParseSet(gtidsets.Resource{}, input.Value())
		if err != nil {
			return callResultMsg{err: err}
		}
		parsed[i] = set
	}
	var b *gtids.Set
	if len(parsed) > 1 {
		b = parsed[1]
	}
	result, err := op.apply(parsed[0], b)
	if err != nil {
		return callResultMsg{err: err}
	}
	return callResultMsg{result: result}
}

// liveDiag parses the field as it is typed and renders either the
// canonical form or the bounded diagnostic under it.
func liveDiag(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	set, err := adapter.ParseSet(gtidsets.Resource{}, text)
	if err != nil {
		var ae *adapter.Error
		if stderrors.As(err, &ae) && ae.Diagnostic != "" {
			return errorStyle.Render(ae.Diagnostic)
		}
		return errorStyle.Render(err.Error())
	}
	out, err := adapter.FormatSet(set)
	if err != nil {
		return errorStyle.Render(err.Error())
	}
	return okStyle.Render(strings.ReplaceAll(out, "\n", ""))
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("GTID Sets"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectOp:
		b.WriteString("Select an operation:\n\n")
		for i, op := range m.ops {
			line := opStyle.Render(op.name) + "  " + op.desc
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + op.name + "  " + op.desc))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter choose • q quit"))

	case stateInputSets:
		op := m.ops[m.selected]
		b.WriteString(fmt.Sprintf("Computing %s\n\n", opStyle.Render(op.name)))
		for i := range m.inputs {
			b.WriteString(m.inputs[i].View())
			b.WriteString("\n")
			if diag := liveDiag(m.inputs[i].Value()); diag != "" {
				b.WriteString("  ")
				b.WriteString(diag)
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter compute • esc back"))

	case stateShowResult:
		op := m.ops[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", opStyle.Render(op.name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
