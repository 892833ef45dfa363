package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned by RunLoader when the user pressed ctrl+c.
var ErrCancelled = errors.New("cancelled")

type loadDoneMsg struct {
	result string
	err    error
}

type loaderModel struct {
	label   string
	timeout time.Duration
	fn      func(ctx context.Context) (string, error)
	spinner spinner.Model
	result  string
	err     error
	done    bool
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.run(), m.spinner.Tick)
}

func (m loaderModel) run() tea.Cmd {
	fn, timeout := m.fn, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		result, err := fn(ctx)
		return loadDoneMsg{result: result, err: err}
	}
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDoneMsg:
		m.result = msg.result
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = ErrCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s...\n", m.spinner.View(), m.label)
}

// RunLoader shows a spinner labelled label while fn runs, bounded by timeout.
// It renders inline (no alt screen).
func RunLoader(label string, timeout time.Duration, fn func(ctx context.Context) (string, error)) (string, error) {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

	m := loaderModel{
		label:   label,
		timeout: timeout,
		fn:      fn,
		spinner: sp,
	}
	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return "", err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
