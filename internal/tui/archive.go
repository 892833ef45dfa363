package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/talentscout/internal/model"
)

// Lines per interview in the list view (title + subtitle + blank separator).
const recordItemHeight = 3

type archiveView int

const (
	archiveList archiveView = iota
	archiveDetail
)

type archiveModel struct {
	records        []model.InterviewRecord
	cursor         int
	view           archiveView
	listViewport   viewport.Model
	detailViewport viewport.Model
	width          int
	height         int
	ready          bool
}

func (m archiveModel) Init() tea.Cmd {
	return nil
}

func (m archiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		if m.view == archiveDetail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m archiveModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.cursor = clamp(m.cursor-1, 0, max(len(m.records)-1, 0))
		m.listViewport.SetContent(renderRecords(m.records, m.cursor))
		m.ensureCursorVisible()
		return m, nil
	case "down", "j":
		m.cursor = clamp(m.cursor+1, 0, max(len(m.records)-1, 0))
		m.listViewport.SetContent(renderRecords(m.records, m.cursor))
		m.ensureCursorVisible()
		return m, nil
	case "enter":
		if len(m.records) == 0 {
			return m, nil
		}
		m.view = archiveDetail
		m.detailViewport.SetContent(m.renderDetail())
		m.detailViewport.SetYOffset(0)
		return m, nil
	}

	var cmd tea.Cmd
	m.listViewport, cmd = m.listViewport.Update(msg)
	return m, cmd
}

func (m archiveModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = archiveList
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m *archiveModel) ensureCursorVisible() {
	top := m.cursor * recordItemHeight
	bottom := top + recordItemHeight - 1

	if top < m.listViewport.YOffset {
		m.listViewport.SetYOffset(top)
	} else if bottom >= m.listViewport.YOffset+m.listViewport.Height {
		m.listViewport.SetYOffset(bottom - m.listViewport.Height + 1)
	}
}

func (m *archiveModel) recalcLayout() {
	// Border (2) + header (1) + status bar (1).
	w := max(m.width-4, 20)
	h := max(m.height-4, 5)

	if !m.ready {
		m.listViewport = viewport.New(w, h)
		m.detailViewport = viewport.New(w, h)
		m.ready = true
	} else {
		m.listViewport.Width, m.listViewport.Height = w, h
		m.detailViewport.Width, m.detailViewport.Height = w, h
	}
	m.listViewport.SetContent(renderRecords(m.records, m.cursor))
	m.detailViewport.SetContent(m.renderDetail())
}

func (m archiveModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.view == archiveDetail {
		title := headerStyle.Render("Interview Details")
		content := activeBorderStyle.Width(m.width - 2).Render(m.detailViewport.View())
		status := statusBarStyle.Width(m.width).Render(" esc/backspace back  ↑/↓ scroll  q quit")
		return title + "\n" + content + "\n" + status
	}

	title := headerStyle.Render(fmt.Sprintf("Archived Interviews (%d)", len(m.records)))
	content := activeBorderStyle.Width(m.width - 2).Render(m.listViewport.View())
	status := statusBarStyle.Width(m.width).Render(" ↑/↓ cursor  Enter detail  q quit")
	return title + "\n" + content + "\n" + status
}

func (m archiveModel) renderDetail() string {
	if len(m.records) == 0 {
		return ""
	}
	rec := m.records[m.cursor]
	var b strings.Builder

	for _, f := range model.Fields {
		b.WriteString(detailLabelStyle.Render(f.Label()))
		if v := rec.Candidate.Get(f); v != "" {
			b.WriteString(detailValueStyle.Render(v))
		} else {
			b.WriteString(missingValueStyle.Render("not provided"))
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(detailLabelStyle.Render("Session"))
	b.WriteString(rec.SessionID + "\n")
	b.WriteString(detailLabelStyle.Render("Completed"))
	b.WriteString(rec.CompletedAt.Local().Format("2006-01-02 15:04 MST") + "\n")
	b.WriteString(detailLabelStyle.Render("Duration"))
	b.WriteString(rec.CompletedAt.Sub(rec.StartedAt).Round(time.Second).String() + "\n")

	wrapWidth := max(m.width-8, 20)
	divider := func(label string) string {
		fill := strings.Repeat("─", max(wrapWidth-len(label), 3))
		return dividerStyle.Render(label + fill)
	}

	if len(rec.Answers) > 0 {
		b.WriteString("\n" + divider("── Technical Answers ") + "\n\n")
		for i, qa := range rec.Answers {
			b.WriteString(itemTitleStyle.Render(wordWrap(fmt.Sprintf("%d. %s", i+1, qa.Question), wrapWidth)) + "\n")
			b.WriteString(messageBodyStyle.Render(wordWrap(qa.Answer, wrapWidth)) + "\n\n")
		}
	}

	if len(rec.Transcript) > 0 {
		b.WriteString("\n" + divider("── Transcript ") + "\n\n")
		for _, msg := range rec.Transcript {
			label := assistantLabelStyle.Render("TalentScout")
			if msg.Role == model.RoleUser {
				label = userLabelStyle.Render("Candidate")
			}
			b.WriteString(label + "\n" + wordWrap(msg.Content, wrapWidth) + "\n\n")
		}
	}
	return b.String()
}

func renderRecords(records []model.InterviewRecord, cursor int) string {
	if len(records) == 0 {
		return "  (no interviews archived)"
	}

	var b strings.Builder
	for i, r := range records {
		titleSt, subtitleSt, prefix := itemTitleStyle, itemSubtitleStyle, "  "
		if i == cursor {
			titleSt, subtitleSt, prefix = selectedTitleStyle, selectedSubtitleStyle, "> "
		}

		name := r.Candidate.FullName
		if name == "" {
			name = "(unnamed)"
		}
		b.WriteString(prefix + titleSt.Render(name) + "\n")

		sub := fmt.Sprintf("%s · %s · %d answers",
			orDash(r.Candidate.DesiredPosition),
			r.CompletedAt.Local().Format("2006-01-02 15:04"),
			len(r.Answers),
		)
		b.WriteString(prefix + subtitleSt.Render(sub) + "\n")

		if i < len(records)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func wordWrap(text string, width int) string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if lipgloss.Width(line)+1+lipgloss.Width(w) <= width {
				line += " " + w
			} else {
				out = append(out, line)
				line = w
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RunArchiveBrowser launches a list/detail viewer over archived interviews.
func RunArchiveBrowser(records []model.InterviewRecord) error {
	m := archiveModel{records: records}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
