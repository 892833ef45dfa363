package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/talentscout/internal/interview"
	"github.com/amishk599/talentscout/internal/model"
	"github.com/amishk599/talentscout/internal/session"
)

// echoExtractor accepts every utterance as the requested field.
type echoExtractor struct{}

func (echoExtractor) ExtractField(_ context.Context, utterance string, _ model.Field) (string, error) {
	return utterance, nil
}

func (echoExtractor) GenerateTechnicalQuestions(_ context.Context, _ string) []string {
	return []string{"What is a closure?", "Explain REST"}
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := interview.NewController(echoExtractor{}, nil, 0, logger)
	m := session.NewManager(c, nil, 0, logger)
	return NewApp(NewSessionHandler(m), NewHealthHandler(m, "test"), logger)
}

func do(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func createSession(t *testing.T, app *fiber.App) interview.Snapshot {
	t.Helper()
	resp, body := do(t, app, http.MethodPost, "/api/v1/sessions", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var snap interview.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Equal(t, "/api/v1/sessions/"+snap.ID, resp.Header.Get("Location"))
	return snap
}

func TestCreateSession(t *testing.T) {
	app := newTestApp(t)
	snap := createSession(t, app)

	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, interview.StateCollectingName, snap.State)
	require.Len(t, snap.Transcript, 1)
	assert.Equal(t, interview.Greeting, snap.Transcript[0].Content)
}

func TestMessage_AdvancesConversation(t *testing.T) {
	app := newTestApp(t)
	snap := createSession(t, app)

	resp, body := do(t, app, http.MethodPost, "/api/v1/sessions/"+snap.ID+"/messages", `{"message":"  Jane Doe  "}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got messageResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, interview.StateCollectingEmail, got.State)
	assert.Equal(t, "Nice to meet you, Jane Doe! Could you please provide your email address?", got.Response)
	assert.Equal(t, "Jane Doe", got.Session.Candidate.FullName)
	assert.Equal(t, 12, got.Session.Progress)
}

func TestMessage_Validation(t *testing.T) {
	app := newTestApp(t)
	snap := createSession(t, app)
	path := "/api/v1/sessions/" + snap.ID + "/messages"

	resp, _ := do(t, app, http.MethodPost, path, `{"message":"   "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPost, path, `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	long := strings.Repeat("a", maxMessageLen+1)
	resp, _ = do(t, app, http.MethodPost, path, `{"message":"`+long+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestUnknownSession(t *testing.T) {
	app := newTestApp(t)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/v1/sessions/nope", ""},
		{http.MethodPost, "/api/v1/sessions/nope/messages", `{"message":"hi"}`},
		{http.MethodPost, "/api/v1/sessions/nope/reset", ""},
		{http.MethodDelete, "/api/v1/sessions/nope", ""},
	} {
		resp, body := do(t, app, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "%s %s", tc.method, tc.path)

		var e ErrorResponse
		require.NoError(t, json.Unmarshal(body, &e))
		assert.Equal(t, "session not found", e.Message)
	}
}

func TestResetAndDelete(t *testing.T) {
	app := newTestApp(t)
	snap := createSession(t, app)

	do(t, app, http.MethodPost, "/api/v1/sessions/"+snap.ID+"/messages", `{"message":"Jane"}`)

	resp, body := do(t, app, http.MethodPost, "/api/v1/sessions/"+snap.ID+"/reset", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reset interview.Snapshot
	require.NoError(t, json.Unmarshal(body, &reset))
	assert.Equal(t, interview.StateCollectingName, reset.State)
	assert.True(t, reset.Candidate.IsEmpty())

	resp, _ = do(t, app, http.MethodDelete, "/api/v1/sessions/"+snap.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/api/v1/sessions/"+snap.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFullInterviewOverHTTP(t *testing.T) {
	app := newTestApp(t)
	snap := createSession(t, app)
	path := "/api/v1/sessions/" + snap.ID + "/messages"

	var last messageResponse
	for i := 0; i < 9; i++ {
		resp, body := do(t, app, http.MethodPost, path, `{"message":"answer"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.Unmarshal(body, &last))
	}

	assert.Equal(t, interview.StateConversationEnd, last.State)
	assert.Equal(t, interview.QuestionsDoneMessage, last.Response)
	assert.True(t, last.Session.Done)
	assert.Equal(t, 100, last.Session.Progress)
	assert.Equal(t, 2, last.Session.Answered)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	createSession(t, app)

	resp, body := do(t, app, http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "ok", got["status"])
	assert.Equal(t, "test", got["version"])
	assert.EqualValues(t, 1, got["sessions"])
}

func TestUnknownRouteIsJSON(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, http.MethodGet, "/api/v1/nowhere", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var e ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.NotEmpty(t, e.Message)
}
