package notifier

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amishk599/talentscout/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRecord() model.InterviewRecord {
	started := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	return model.InterviewRecord{
		SessionID: "sess-1",
		Candidate: model.CandidateRecord{
			FullName:        "Jane Doe",
			Email:           "jane@example.com",
			Phone:           "+15551234567",
			Experience:      "5 years",
			DesiredPosition: "Backend Engineer",
			Location:        "Berlin, Germany",
			TechStack:       "Go, PostgreSQL",
		},
		Answers: []model.QuestionAnswer{
			{Question: "What is a goroutine?", Answer: "A lightweight thread managed by the runtime."},
			{Question: "Explain MVCC", Answer: strings.Repeat("x", 500)},
		},
		StartedAt:   started,
		CompletedAt: started.Add(10 * time.Minute),
	}
}

func TestSlackNotifier_SingleInterview(t *testing.T) {
	var body []byte
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		contentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	if err := n.Notify(context.Background(), sampleRecord()); err != nil {
		t.Fatalf("Notify() = %v, want nil", err)
	}
	if contentType != "application/json" {
		t.Errorf("Content-Type = %q", contentType)
	}

	var payload slackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	header := payload.Blocks[0]
	if header.Text.Text != "🧑‍💻 New candidate: Jane Doe" {
		t.Errorf("header text = %q", header.Text.Text)
	}

	emailField := payload.Blocks[1].Fields[0]
	if emailField.Text != "*Email:*\njane@example.com" {
		t.Errorf("email field = %q", emailField.Text)
	}
}

func TestSlackNotifier_SlackReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	if err := n.Notify(context.Background(), sampleRecord()); err == nil {
		t.Error("expected error when slack returns 500, got nil")
	}
}

func TestSlackNotifier_RateLimited(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := calls.Add(1)
		if c == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
		} else {
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	if err := n.Notify(context.Background(), sampleRecord()); err != nil {
		t.Fatalf("expected nil after retry, got %v", err)
	}
	if c := calls.Load(); c != 2 {
		t.Errorf("expected 2 HTTP calls (initial + retry), got %d", c)
	}
}

func TestSlackNotifier_RateLimitWaitCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	start := time.Now()
	if err := n.Notify(ctx, sampleRecord()); err == nil {
		t.Fatal("expected error when context expires during Retry-After wait")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Notify ignored cancellation, took %v", elapsed)
	}
}

func TestSlackNotifier_PayloadFormat(t *testing.T) {
	rec := sampleRecord()
	rec.Candidate.Location = ""
	payload := buildPayload(rec)

	if len(payload.Blocks) != 5 {
		t.Fatalf("expected 5 blocks, got %d", len(payload.Blocks))
	}
	if payload.Blocks[0].Type != "header" {
		t.Errorf("block[0] type = %q, want header", payload.Blocks[0].Type)
	}
	// Six fields: everything except the name, which is in the header.
	if payload.Blocks[1].Type != "section" || len(payload.Blocks[1].Fields) != 6 {
		t.Errorf("block[1] not a 6-field section")
	}
	if got := payload.Blocks[1].Fields[4].Text; got != "*Location:*\n_not provided_" {
		t.Errorf("missing location field = %q", got)
	}
	answers := payload.Blocks[2].Text.Text
	if !strings.HasPrefix(answers, "*1. What is a goroutine?*") {
		t.Errorf("answers block = %q", answers)
	}
	if strings.Contains(answers, strings.Repeat("x", maxAnswerLen+1)) {
		t.Error("long answers should be truncated")
	}
	if payload.Blocks[3].Type != "context" || !strings.Contains(payload.Blocks[3].Elements[0].Text, "sess-1") {
		t.Errorf("block[3] should be a context block naming the session")
	}
	if payload.Blocks[4].Type != "divider" {
		t.Errorf("block[4] type = %q, want divider", payload.Blocks[4].Type)
	}
}

func TestSlackNotifier_PayloadWithoutAnswers(t *testing.T) {
	rec := sampleRecord()
	rec.Answers = nil
	rec.Candidate.FullName = ""

	payload := buildPayload(rec)
	if len(payload.Blocks) != 4 {
		t.Fatalf("expected 4 blocks without answers, got %d", len(payload.Blocks))
	}
	if payload.Blocks[0].Text.Text != "🧑‍💻 New candidate: Unnamed candidate" {
		t.Errorf("header = %q", payload.Blocks[0].Text.Text)
	}
}

func TestSendTestMessage(t *testing.T) {
	var got model.InterviewRecord
	n := notifierFunc(func(_ context.Context, rec model.InterviewRecord) error {
		got = rec
		return nil
	})
	if err := SendTestMessage(context.Background(), n); err != nil {
		t.Fatalf("SendTestMessage: %v", err)
	}
	if got.Candidate.Filled() != len(model.Fields) {
		t.Errorf("test record should fill every field, got %d", got.Candidate.Filled())
	}
}

type notifierFunc func(ctx context.Context, rec model.InterviewRecord) error

func (f notifierFunc) Notify(ctx context.Context, rec model.InterviewRecord) error { return f(ctx, rec) }
