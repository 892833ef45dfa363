package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/amishk599/talentscout/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func record(id, name string, completed time.Time) model.InterviewRecord {
	return model.InterviewRecord{
		SessionID: id,
		Candidate: model.CandidateRecord{FullName: name, Email: "jane@example.com", TechStack: "Go"},
		Answers:   []model.QuestionAnswer{{Question: "What is a goroutine?", Answer: "A lightweight thread."}},
		Transcript: model.Transcript{
			{Role: model.RoleAssistant, Content: "Hello!", At: completed.Add(-time.Minute)},
			{Role: model.RoleUser, Content: "bye", At: completed},
		},
		StartedAt:   completed.Add(-time.Minute),
		CompletedAt: completed,
	}
}

func TestSaveThenList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)

	if err := s.Save(ctx, record("s-1", "Jane Doe", now)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("List returned %d records, want 1", len(got))
	}
	rec := got[0]
	if rec.SessionID != "s-1" || rec.Candidate.FullName != "Jane Doe" || rec.Candidate.TechStack != "Go" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if len(rec.Answers) != 1 || rec.Answers[0].Answer != "A lightweight thread." {
		t.Errorf("answers not round-tripped: %+v", rec.Answers)
	}
	if len(rec.Transcript) != 2 || rec.Transcript[1].Role != model.RoleUser {
		t.Errorf("transcript not round-tripped: %+v", rec.Transcript)
	}
	if !rec.CompletedAt.Equal(now) {
		t.Errorf("CompletedAt = %v, want %v", rec.CompletedAt, now)
	}
}

func TestListNewestFirstAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Now()

	for i, name := range []string{"first", "second", "third"} {
		if err := s.Save(ctx, record("s", name, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
	}

	got, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List returned %d records, want 2", len(got))
	}
	if got[0].Candidate.FullName != "third" || got[1].Candidate.FullName != "second" {
		t.Errorf("order = %q, %q; want third, second", got[0].Candidate.FullName, got[1].Candidate.FullName)
	}

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List(0) returned %d records, want 3", len(all))
	}
}

func TestSaveWithoutAnswers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := model.InterviewRecord{SessionID: "s-2", Candidate: model.CandidateRecord{FullName: "Sam"}, CompletedAt: time.Now()}
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.List(ctx, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got[0].Answers) != 0 || len(got[0].Transcript) != 0 {
		t.Errorf("expected empty answers and transcript, got %+v", got[0])
	}
}

func TestCleanupRemovesOldKeepsFresh(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	if err := s.Save(ctx, record("old", "Old", now.Add(-48*time.Hour))); err != nil {
		t.Fatalf("Save old: %v", err)
	}
	if err := s.Save(ctx, record("fresh", "Fresh", now)); err != nil {
		t.Fatalf("Save fresh: %v", err)
	}

	removed, err := s.Cleanup(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if removed != 1 {
		t.Errorf("Cleanup removed %d, want 1", removed)
	}

	got, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].SessionID != "fresh" {
		t.Errorf("expected only the fresh interview to survive, got %+v", got)
	}
}
