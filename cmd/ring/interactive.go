package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateConfigure modelState = iota
	stateRunning
	stateShowResult
)

type interactiveModel struct {
	err      error
	report   string
	inputs   []textinput.Model
	spin     spinner.Model
	focusIdx int
	state    modelState
}

func newInteractiveModel(ranks, count int) *interactiveModel {
	ri := textinput.New()
	ri.Prompt = "ranks: "
	ri.SetValue(strconv.Itoa(ranks))
	ri.Width = 8
	ri.Focus()

	ci := textinput.New()
	ci.Prompt = "count: "
	ci.SetValue(strconv.Itoa(count))
	ci.Width = 8

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &interactiveModel{
		inputs: []textinput.Model{ri, ci},
		spin:   sp,
		state:  stateConfigure,
	}
}

type ringDoneMsg struct {
	err    error
	report string
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) startRun() tea.Cmd {
	ranksStr := strings.TrimSpace(m.inputs[0].Value())
	countStr := strings.TrimSpace(m.inputs[1].Value())
	return func() tea.Msg {
		ranks, err := strconv.Atoi(ranksStr)
		if err != nil {
			return ringDoneMsg{err: fmt.Errorf("ranks: %w", err)}
		}
		count, err := strconv.Atoi(countStr)
		if err != nil {
			return ringDoneMsg{err: fmt.Errorf("count: %w", err)}
		}
		report, err := runRing(ranks, count, 1)
		return ringDoneMsg{report: report, err: err}
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateConfigure {
				return m, tea.Quit
			}

		case "tab":
			if m.state == stateConfigure {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "enter":
			switch m.state {
			case stateConfigure:
				m.state = stateRunning
				return m, tea.Batch(m.spin.Tick, m.startRun())
			case stateShowResult:
				m.state = stateConfigure
				m.report = ""
				m.err = nil
			}

		case "esc":
			if m.state == stateShowResult {
				m.state = stateConfigure
				m.report = ""
				m.err = nil
			}
		}

	case ringDoneMsg:
		m.report = msg.report
		m.err = msg.err
		m.state = stateShowResult

	case spinner.TickMsg:
		if m.state == stateRunning {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	}

	if m.state == stateConfigure {
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

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Ring Exchange"))
	b.WriteString("\n\n")

	switch m.state {
	case stateConfigure:
		b.WriteString("Configure the exchange:\n\n")
		for _, input := range m.inputs {
			b.WriteString(fieldStyle.Render(input.View()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter run • ctrl+c quit"))

	case stateRunning:
		b.WriteString(m.spin.View())
		b.WriteString(" running...\n")

	case stateShowResult:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.report))
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter again • q quit"))
	}

	return b.String()
}

func runInteractive(ranks, count int) error {
	p := tea.NewProgram(newInteractiveModel(ranks, count), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
