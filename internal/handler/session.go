package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"callintake/internal/chips"
	"callintake/internal/model"
	"callintake/internal/session"
)

const (
	defaultIntakeLimit = 20
	maxIntakeLimit     = 100
)

// IntakeLogReader reads the classification audit trail
type IntakeLogReader interface {
	RecentIntakes(ctx context.Context, sessionID string, limit int) ([]model.IntakeLog, error)
}

// SessionHandler serves live intake sessions
type SessionHandler struct {
	manager *session.Manager
	logs    IntakeLogReader
}

// NewSessionHandler creates a new session handler. logs may be nil when no
// database is configured.
func NewSessionHandler(manager *session.Manager, logs IntakeLogReader) *SessionHandler {
	return &SessionHandler{manager: manager, logs: logs}
}

type sessionView struct {
	SessionID string `json:"session_id"`
	chips.State
}

type chipOp func(s *session.Session, chipID string) (chips.Chip, error)

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	s := h.manager.Create()
	c.JSON(http.StatusCreated, model.SessionResponse{SessionID: s.ID})
}

// Get handles GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionView{SessionID: s.ID, State: s.State()})
}

// Input handles POST /api/v1/sessions/:id/input
func (h *SessionHandler) Input(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req model.SessionInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	classify := model.ClassifyRequest{Text: req.Text, UseAI: req.UseAI}

	if req.Live {
		if err := s.Debounce(classify); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "scheduled"})
		return
	}

	res, err := s.Submit(c.Request.Context(), classify)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Confirm handles POST /api/v1/sessions/:id/chips/:chip/confirm
func (h *SessionHandler) Confirm(c *gin.Context) {
	h.chipAction(c, (*session.Session).Confirm)
}

// Reject handles POST /api/v1/sessions/:id/chips/:chip/reject
func (h *SessionHandler) Reject(c *gin.Context) {
	h.chipAction(c, (*session.Session).Reject)
}

// Reclassify handles POST /api/v1/sessions/:id/chips/:chip/reclassify
func (h *SessionHandler) Reclassify(c *gin.Context) {
	var req model.ReclassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	kind, ok := model.ParseKind(req.Kind)
	if !ok {
		respondError(c, fmt.Errorf("%w: %q", model.ErrUnknownKind, req.Kind))
		return
	}

	h.chipAction(c, func(s *session.Session, chipID string) (chips.Chip, error) {
		return s.Reclassify(chipID, kind, req.Value)
	})
}

// ConfirmAll handles POST /api/v1/sessions/:id/confirm-all
func (h *SessionHandler) ConfirmAll(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	changed := s.ConfirmAll()
	if changed == nil {
		changed = []chips.Chip{}
	}
	c.JSON(http.StatusOK, gin.H{"confirmed": changed, "record": s.Board().Record()})
}

// Delete handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.manager.Close(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Intakes handles GET /api/v1/sessions/:id/intakes - the audited
// submissions of a session, newest first. Rows outlive the session itself.
func (h *SessionHandler) Intakes(c *gin.Context) {
	if h.logs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "intake audit log is not configured"})
		return
	}

	limit := defaultIntakeLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxIntakeLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("limit must be between 1 and %d", maxIntakeLimit)})
			return
		}
		limit = n
	}

	logs, err := h.logs.RecentIntakes(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load intake log: " + err.Error()})
		return
	}
	if logs == nil {
		logs = []model.IntakeLog{}
	}
	c.JSON(http.StatusOK, gin.H{"session_id": c.Param("id"), "intakes": logs})
}

// Events handles GET /api/v1/sessions/:id/events - SSE stream of debounced results
func (h *SessionHandler) Events(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	results := make(chan session.Result, 8)
	unsubscribe := s.Subscribe(func(res session.Result, err error) {
		if err != nil || res.Superseded {
			return
		}
		select {
		case results <- res:
		default:
		}
	})
	defer unsubscribe()

	sendSSE(c, "state", sessionView{SessionID: s.ID, State: s.State()})
	flusher.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.Done():
			sendSSE(c, "closed", nil)
			flusher.Flush()
			return
		case res := <-results:
			sendSSE(c, "result", res)
			flusher.Flush()
		}
	}
}

func (h *SessionHandler) chipAction(c *gin.Context, op chipOp) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	chip, err := op(s, c.Param("chip"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chip": chip, "record": s.Board().Record()})
}

func (h *SessionHandler) session(c *gin.Context) (*session.Session, bool) {
	s, err := h.manager.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return s, true
}

// sendSSE sends a Server-Sent Event
func sendSSE(c *gin.Context, event string, data any) {
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
			return
		}
		fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, string(jsonData))
	} else {
		fmt.Fprintf(c.Writer, "event: %s\ndata: {}\n\n", event)
	}
}
