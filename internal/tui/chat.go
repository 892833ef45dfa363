package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/talentscout/internal/interview"
	"github.com/amishk599/talentscout/internal/model"
)

const (
	sidebarWidth = 34
	// Header (1) + chat border (2) + input border (2) + input (1) + status bar (1).
	chatChrome = 7
)

// Session is the part of interview.Session the chat drives.
type Session interface {
	Advance(ctx context.Context, utterance string) interview.Turn
	Reset()
	Snapshot() interview.Snapshot
}

// turnDoneMsg is sent when the controller has answered an utterance.
type turnDoneMsg struct {
	turn interview.Turn
	snap interview.Snapshot
}

// revealTickMsg shows one more word of the latest reply. gen ties the tick
// to the reply it belongs to so ticks from a cancelled reveal are dropped.
type revealTickMsg struct{ gen int }

// reveal is the progressive display of the newest assistant message.
type reveal struct {
	words  []string
	shown  int
	gen    int
	active bool
}

type chatModel struct {
	ctx         context.Context
	session     Session
	snap        interview.Snapshot
	typingDelay time.Duration

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	progress progress.Model

	reveal   reveal
	thinking bool
	width    int
	height   int
	ready    bool
}

func newChatModel(ctx context.Context, s Session, typingDelay time.Duration) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Type your message and press Enter"
	ti.CharLimit = 4000
	ti.Prompt = "› "
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

	return chatModel{
		ctx:         ctx,
		session:     s,
		snap:        s.Snapshot(),
		typingDelay: typingDelay,
		input:       ti,
		spinner:     sp,
		progress:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(sidebarWidth-4)),
	}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case turnDoneMsg:
		m.thinking = false
		m.snap = msg.snap
		m.input.Focus()
		cmd := m.startReveal(msg.turn.Response)
		m.refresh()
		return m, cmd

	case revealTickMsg:
		if !m.reveal.active || msg.gen != m.reveal.gen {
			return m, nil
		}
		m.reveal.shown++
		if m.reveal.shown >= len(m.reveal.words) {
			m.reveal.active = false
		}
		m.refresh()
		if m.reveal.active {
			return m, m.revealTick()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.thinking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key finishes a running reveal at once.
	if m.reveal.active {
		m.reveal.active = false
		m.refresh()
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "ctrl+r":
		if m.thinking {
			return m, nil
		}
		m.session.Reset()
		m.snap = m.session.Snapshot()
		m.reveal = reveal{gen: m.reveal.gen + 1}
		m.input.Reset()
		m.refresh()
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case "enter":
		return m.submit()
	}

	if m.thinking {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the typed text to the session on a background command.
func (m chatModel) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if m.thinking || text == "" {
		return m, nil
	}

	m.thinking = true
	m.input.Reset()
	m.input.Blur()
	// Show the candidate's message right away; the session records it too.
	m.snap.Transcript = append(m.snap.Transcript, model.Message{Role: model.RoleUser, Content: text, At: time.Now()})
	m.refresh()

	ctx, s := m.ctx, m.session
	advance := func() tea.Msg {
		turn := s.Advance(ctx, text)
		return turnDoneMsg{turn: turn, snap: s.Snapshot()}
	}
	return m, tea.Batch(advance, m.spinner.Tick)
}

func (m *chatModel) startReveal(text string) tea.Cmd {
	m.reveal = reveal{gen: m.reveal.gen + 1}
	if m.typingDelay <= 0 {
		return nil
	}
	words := strings.Fields(text)
	if len(words) < 2 {
		return nil
	}
	m.reveal.words = words
	m.reveal.shown = 1
	m.reveal.active = true
	return m.revealTick()
}

func (m chatModel) revealTick() tea.Cmd {
	gen := m.reveal.gen
	return tea.Tick(m.typingDelay, func(time.Time) tea.Msg {
		return revealTickMsg{gen: gen}
	})
}

func (m *chatModel) recalcLayout() {
	chatWidth := max(m.width-sidebarWidth-5, 20)
	chatHeight := max(m.height-chatChrome, 3)

	if !m.ready {
		m.viewport = viewport.New(chatWidth, chatHeight)
		m.ready = true
	} else {
		m.viewport.Width = chatWidth
		m.viewport.Height = chatHeight
	}
	m.input.Width = chatWidth - 4
	m.refresh()
}

// refresh re-renders the transcript and keeps the newest message in view.
func (m *chatModel) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m chatModel) renderTranscript() string {
	width := max(m.viewport.Width-2, 10)
	body := messageBodyStyle.Width(width)

	var b strings.Builder
	last := len(m.snap.Transcript) - 1
	for i, msg := range m.snap.Transcript {
		content := msg.Content
		if i == last && msg.Role == model.RoleAssistant && m.reveal.active {
			content = strings.Join(m.reveal.words[:m.reveal.shown], " ") + " ▌"
		}

		if msg.Role == model.RoleUser {
			b.WriteString(userLabelStyle.Render("You"))
		} else {
			b.WriteString(assistantLabelStyle.Render("TalentScout"))
		}
		b.WriteByte('\n')
		b.WriteString(body.Render(content))
		b.WriteString("\n\n")
	}
	if m.thinking {
		b.WriteString(m.spinner.View() + hintStyle.Render(" thinking..."))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m chatModel) renderSidebar() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Candidate") + "\n\n")

	c := m.snap.Candidate
	for _, f := range model.Fields {
		b.WriteString(detailLabelStyle.Width(sidebarWidth - 4).Render(f.Label()))
		b.WriteByte('\n')
		if v := c.Get(f); v != "" {
			b.WriteString(detailValueStyle.Width(sidebarWidth - 4).Render(v))
		} else {
			b.WriteString(missingValueStyle.Render("not provided yet"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + headerStyle.Render("Progress") + "\n")
	b.WriteString(m.progress.ViewAs(float64(m.snap.Progress)/100) + "\n")
	if len(m.snap.Questions) > 0 {
		b.WriteString(hintStyle.Render(fmt.Sprintf("technical questions %d/%d", m.snap.Answered, len(m.snap.Questions))))
	}
	return b.String()
}

func (m chatModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	title := headerStyle.Render("TalentScout Hiring Assistant")

	chat := activeBorderStyle.Width(m.viewport.Width).Render(m.viewport.View())
	inputBorder := activeBorderStyle
	if m.thinking {
		inputBorder = inactiveBorderStyle
	}
	input := inputBorder.Width(m.viewport.Width).Render(m.input.View())
	left := lipgloss.JoinVertical(lipgloss.Left, chat, input)

	sidebar := inactiveBorderStyle.
		Width(sidebarWidth - 2).
		Height(lipgloss.Height(left) - 2).
		Render(m.renderSidebar())

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", sidebar)

	status := " Enter send  PgUp/PgDn scroll  ctrl+r restart  esc quit"
	if m.snap.Done {
		status = " Interview complete.  ctrl+r start over  esc quit"
	}
	statusBar := statusBarStyle.Width(m.width).Render(status)

	return title + "\n" + body + "\n" + statusBar
}

// RunChat runs an interactive interview in the terminal until the user quits.
// typingDelay is the per-word reveal delay for replies; zero shows them at once.
func RunChat(ctx context.Context, s Session, typingDelay time.Duration) error {
	m := newChatModel(ctx, s, typingDelay)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
