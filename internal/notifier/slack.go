package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/talentscout/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// maxAnswerLen keeps long free-text answers from blowing Slack's block limits.
const maxAnswerLen = 280

// SlackNotifier posts finished interviews to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackNotifier returns a notifier that posts each interview to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Notify sends the interview as one Block Kit message. A 429 is retried once
// after the advertised Retry-After.
func (s *SlackNotifier) Notify(ctx context.Context, rec model.InterviewRecord) error {
	body, err := json.Marshal(buildPayload(rec))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	status, retryAfter, err := s.post(ctx, body)
	if err != nil {
		return err
	}

	if status == http.StatusTooManyRequests {
		s.logger.Warn("slack rate limited, retrying", "retry_after", retryAfter.String())
		select {
		case <-ctx.Done():
			return fmt.Errorf("slack retry cancelled: %w", ctx.Err())
		case <-time.After(retryAfter):
		}

		status, _, err = s.post(ctx, body)
		if err != nil {
			return fmt.Errorf("retry: %w", err)
		}
		if status != http.StatusOK {
			return fmt.Errorf("slack returned %d on retry", status)
		}
		s.logger.Info("slack message sent", "session", rec.SessionID, "retried", true)
		return nil
	}

	if status != http.StatusOK {
		return fmt.Errorf("slack returned %d", status)
	}
	s.logger.Info("slack message sent", "session", rec.SessionID)
	return nil
}

func (s *SlackNotifier) post(ctx context.Context, body []byte) (int, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
	if secs <= 0 {
		secs = 1
	}
	return resp.StatusCode, time.Duration(secs) * time.Second, nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string      `json:"type"`
	Text     *slackText  `json:"text,omitempty"`
	Fields   []slackText `json:"fields,omitempty"`
	Elements []slackText `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SendTestMessage sends a sample interview to verify the integration works.
func SendTestMessage(ctx context.Context, n model.Notifier) error {
	now := time.Now()
	rec := model.InterviewRecord{
		SessionID: "test-001",
		Candidate: model.CandidateRecord{
			FullName:        "TalentScout Test",
			Email:           "test@example.com",
			Phone:           "+15551234567",
			Experience:      "5 years",
			DesiredPosition: "Integration Check",
			Location:        "Everywhere",
			TechStack:       "Go, PostgreSQL",
		},
		Answers: []model.QuestionAnswer{
			{Question: "Is the webhook configured?", Answer: "If you can read this, yes."},
		},
		StartedAt:   now.Add(-5 * time.Minute),
		CompletedAt: now,
	}
	return n.Notify(ctx, rec)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func buildPayload(rec model.InterviewRecord) slackPayload {
	name := rec.Candidate.FullName
	if name == "" {
		name = "Unnamed candidate"
	}

	var fields []slackText
	for _, f := range model.Fields {
		if f == model.FieldName {
			continue
		}
		v := rec.Candidate.Get(f)
		if v == "" {
			v = "_not provided_"
		}
		fields = append(fields, slackText{Type: "mrkdwn", Text: "*" + f.Label() + ":*\n" + v})
	}

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "🧑‍💻 New candidate: " + name},
		},
		{
			Type:   "section",
			Fields: fields,
		},
	}

	if len(rec.Answers) > 0 {
		var b strings.Builder
		for i, qa := range rec.Answers {
			fmt.Fprintf(&b, "*%d. %s*\n%s\n", i+1, qa.Question, truncate(qa.Answer, maxAnswerLen))
		}
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: strings.TrimSpace(b.String())},
		})
	}

	completed := rec.CompletedAt.Format(time.RFC1123)
	blocks = append(blocks,
		slackBlock{
			Type: "context",
			Elements: []slackText{
				{Type: "mrkdwn", Text: "Session `" + rec.SessionID + "` · completed " + completed},
			},
		},
		slackBlock{Type: "divider"},
	)

	return slackPayload{Blocks: blocks}
}
