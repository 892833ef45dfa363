package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/talentscout/internal/interview"
	"github.com/amishk599/talentscout/internal/model"
)

type fakeSession struct {
	transcript model.Transcript
	resets     int
	reply      string
}

func newFakeSession() *fakeSession {
	s := &fakeSession{reply: "Thanks! What is your email address?"}
	s.transcript.Append(model.RoleAssistant, interview.Greeting, time.Now())
	return s
}

func (s *fakeSession) Advance(_ context.Context, utterance string) interview.Turn {
	s.transcript.Append(model.RoleUser, utterance, time.Now())
	s.transcript.Append(model.RoleAssistant, s.reply, time.Now())
	return interview.Turn{Next: interview.StateCollectingEmail, Response: s.reply}
}

func (s *fakeSession) Reset() {
	s.resets++
	s.transcript = nil
	s.transcript.Append(model.RoleAssistant, interview.Greeting, time.Now())
}

func (s *fakeSession) Snapshot() interview.Snapshot {
	return interview.Snapshot{
		State:      interview.StateCollectingName,
		Transcript: append(model.Transcript(nil), s.transcript...),
	}
}

func readyModel(t *testing.T, s Session, delay time.Duration) chatModel {
	t.Helper()
	m := newChatModel(context.Background(), s, delay)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(chatModel)
}

// findTurn runs every command of a batch and returns the turnDoneMsg it produced.
func findTurn(t *testing.T, cmd tea.Cmd) turnDoneMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	switch msg := cmd().(type) {
	case turnDoneMsg:
		return msg
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if done, ok := c().(turnDoneMsg); ok {
				return done
			}
		}
	}
	t.Fatal("no turnDoneMsg in command output")
	return turnDoneMsg{}
}

func TestChat_EmptySubmitIgnored(t *testing.T) {
	m := readyModel(t, newFakeSession(), 0)
	m.input.SetValue("   ")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := updated.(chatModel)
	if got.thinking {
		t.Error("blank input should not start a turn")
	}
	if cmd != nil {
		t.Error("expected no command for blank input")
	}
}

func TestChat_SubmitRunsTurn(t *testing.T) {
	s := newFakeSession()
	m := readyModel(t, s, 0)
	m.input.SetValue("I'm Jane Doe")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(chatModel)
	if !m.thinking {
		t.Fatal("expected thinking after submit")
	}
	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}
	last := m.snap.Transcript[len(m.snap.Transcript)-1]
	if last.Role != model.RoleUser || last.Content != "I'm Jane Doe" {
		t.Errorf("expected optimistic user message, got %+v", last)
	}

	done := findTurn(t, cmd)
	updated, _ = m.Update(done)
	m = updated.(chatModel)
	if m.thinking {
		t.Error("thinking should clear when the turn completes")
	}
	if m.reveal.active {
		t.Error("zero typing delay should not reveal word by word")
	}
	if n := len(m.snap.Transcript); n != 3 {
		t.Errorf("expected 3 transcript entries, got %d", n)
	}
}

func TestChat_RevealAndStaleTicks(t *testing.T) {
	s := newFakeSession()
	m := readyModel(t, s, time.Millisecond)

	turn := s.Advance(context.Background(), "hello")
	updated, cmd := m.Update(turnDoneMsg{turn: turn, snap: s.Snapshot()})
	m = updated.(chatModel)
	if !m.reveal.active || cmd == nil {
		t.Fatal("expected a running reveal")
	}
	if m.reveal.shown != 1 {
		t.Errorf("expected first word shown, got %d", m.reveal.shown)
	}

	// A tick for an older reply changes nothing.
	updated, _ = m.Update(revealTickMsg{gen: m.reveal.gen - 1})
	if got := updated.(chatModel); got.reveal.shown != 1 {
		t.Errorf("stale tick advanced the reveal to %d", got.reveal.shown)
	}

	updated, _ = m.Update(revealTickMsg{gen: m.reveal.gen})
	if got := updated.(chatModel); got.reveal.shown != 2 {
		t.Errorf("expected 2 words shown, got %d", got.reveal.shown)
	}

	// Any key finishes the reveal.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if updated.(chatModel).reveal.active {
		t.Error("keypress should finish the reveal")
	}
}

func TestChat_ResetKey(t *testing.T) {
	s := newFakeSession()
	m := readyModel(t, s, 0)
	s.Advance(context.Background(), "Jane")
	m.snap = s.Snapshot()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = updated.(chatModel)
	if s.resets != 1 {
		t.Fatalf("expected 1 reset, got %d", s.resets)
	}
	if n := len(m.snap.Transcript); n != 1 {
		t.Errorf("expected only the greeting after reset, got %d entries", n)
	}
}

func TestChat_ResetIgnoredWhileThinking(t *testing.T) {
	s := newFakeSession()
	m := readyModel(t, s, 0)
	m.thinking = true

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if s.resets != 0 {
		t.Errorf("reset ran during a pending turn")
	}
}

func TestWordWrap(t *testing.T) {
	got := wordWrap("one two three four", 9)
	want := "one two\nthree\nfour"
	if got != want {
		t.Errorf("wordWrap = %q, want %q", got, want)
	}
}

func TestRenderRecords_Empty(t *testing.T) {
	if got := renderRecords(nil, 0); got != "  (no interviews archived)" {
		t.Errorf("unexpected empty render %q", got)
	}
}
