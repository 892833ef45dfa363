package api

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"github.com/amishk599/talentscout/internal/interview"
	"github.com/amishk599/talentscout/internal/session"
)

// maxMessageLen caps a single candidate utterance, in characters.
const maxMessageLen = 4000

// SessionService is the subset of session.Manager the handlers need.
type SessionService interface {
	Create() interview.Snapshot
	Get(id string) (interview.Snapshot, error)
	Advance(ctx context.Context, id, utterance string) (interview.Turn, interview.Snapshot, error)
	Reset(id string) (interview.Snapshot, error)
	Delete(id string) error
	Len() int
}

// SessionHandler exposes interview sessions over HTTP.
type SessionHandler struct {
	sessions SessionService
}

func NewSessionHandler(sessions SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type messageRequest struct {
	Message string `json:"message"`
}

type messageResponse struct {
	State    interview.State    `json:"state"`
	Response string             `json:"response"`
	Session  interview.Snapshot `json:"session"`
}

// Create starts a new interview. The greeting is the first transcript entry.
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	snap := h.sessions.Create()
	c.Location("/api/v1/sessions/" + snap.ID)
	return writeJSON(c, fiber.StatusCreated, snap)
}

// Get returns the current state of an interview.
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	snap, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return sessionError(c, err)
	}
	return writeJSON(c, fiber.StatusOK, snap)
}

// Message sends one candidate utterance and returns the assistant's reply.
func (h *SessionHandler) Message(c *fiber.Ctx) error {
	var req messageRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return writeError(c, fiber.StatusBadRequest, "message is required")
	}
	if utf8.RuneCountInString(msg) > maxMessageLen {
		return writeError(c, fiber.StatusRequestEntityTooLarge, "message is too long")
	}

	turn, snap, err := h.sessions.Advance(c.UserContext(), c.Params("id"), msg)
	if err != nil {
		return sessionError(c, err)
	}
	return writeJSON(c, fiber.StatusOK, messageResponse{
		State:    turn.Next,
		Response: turn.Response,
		Session:  snap,
	})
}

// Reset restarts an interview from the greeting.
func (h *SessionHandler) Reset(c *fiber.Ctx) error {
	snap, err := h.sessions.Reset(c.Params("id"))
	if err != nil {
		return sessionError(c, err)
	}
	return writeJSON(c, fiber.StatusOK, snap)
}

// Delete discards an interview.
func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	if err := h.sessions.Delete(c.Params("id")); err != nil {
		return sessionError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func sessionError(c *fiber.Ctx, err error) error {
	if errors.Is(err, session.ErrNotFound) {
		return writeError(c, fiber.StatusNotFound, "session not found")
	}
	return writeError(c, fiber.StatusInternalServerError, err.Error())
}

// HealthHandler serves the liveness probe.
type HealthHandler struct {
	sessions SessionService
	version  string
}

func NewHealthHandler(sessions SessionService, version string) *HealthHandler {
	return &HealthHandler{sessions: sessions, version: version}
}

// Health reports liveness with the number of live sessions.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return writeJSON(c, fiber.StatusOK, fiber.Map{
		"status":   "ok",
		"version":  h.version,
		"sessions": h.sessions.Len(),
	})
}
