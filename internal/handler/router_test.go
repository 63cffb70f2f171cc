package handler

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callintake/internal/chips"
	"callintake/internal/config"
	"callintake/internal/gazetteer"
	"callintake/internal/intake"
	"callintake/internal/metrics"
	"callintake/internal/model"
	"callintake/internal/service"
	"callintake/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var wednesday = time.Date(2026, time.October, 21, 15, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return newTestRouterWithLogs(t, nil)
}

func newTestRouterWithLogs(t *testing.T, logs IntakeLogReader) *gin.Engine {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.MustNew(reg)

	svc := service.NewIntakeService(
		intake.NewDetector(gazetteer.Default()),
		nil,
		service.WithMetrics(m),
		service.WithNow(func() time.Time { return wednesday }),
	)
	manager := session.NewManager(svc,
		session.WithMetrics(m),
		session.WithDebounce(10*time.Millisecond),
	)
	t.Cleanup(manager.CloseAll)

	return NewRouter(RouterDeps{
		Server:   config.ServerConfig{AllowedOrigins: "*"},
		Intake:   svc,
		Sessions: manager,
		Intakes:  logs,
		Metrics:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Logger:   zerolog.Nop(),
		Build:    BuildInfo{Version: "test"},
	})
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestClassify(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/v1/classify", model.ClassifyRequest{Text: "mesa az, 30 people, zzz"})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[model.ClassifyResponse](t, w)
	require.Len(t, resp.Items, 3)
	assert.Equal(t, "Phoenix", resp.Items[0].NormalizedCity)
	assert.Equal(t, "30", resp.Items[1].Value)
	assert.Equal(t, model.KindUnknown, resp.Items[2].Kind)
	assert.NotContains(t, w.Body.String(), `"normalizedCity":""`)
}

func TestClassify_BadRequest(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodPost, "/api/v1/classify", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestSessionWorkflow(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[model.SessionResponse](t, w).SessionID
	require.NotEmpty(t, id)
	base := "/api/v1/sessions/" + id

	w = do(t, router, http.MethodPost, base+"/input", model.SessionInputRequest{Text: "555-123-4567, blah, 4 hours"})
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[session.Result](t, w)
	require.Len(t, res.Added, 3)
	assert.Equal(t, chips.StatusConfirmed, res.Added[0].Status)
	assert.Equal(t, chips.StatusPending, res.Added[1].Status)
	assert.Equal(t, "555-123-4567", res.State.Record.Phone)

	w = do(t, router, http.MethodPost, base+"/chips/c1/confirm", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, router, http.MethodPost, base+"/chips/c9/reject", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodPost, base+"/chips/c2/reclassify", model.ReclassifyRequest{Kind: "shoe size"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, base+"/chips/c2/reclassify", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, base+"/chips/c2/reclassify", model.ReclassifyRequest{Kind: "Stop"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tripNotes":"Stop: blah"`)

	w = do(t, router, http.MethodPost, base+"/confirm-all", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	type sessionBody struct {
		SessionID string           `json:"session_id"`
		Chips     []chips.Chip     `json:"chips"`
		Record    chips.CallRecord `json:"record"`
	}
	view := decode[sessionBody](t, w)
	assert.Equal(t, id, view.SessionID)
	assert.Len(t, view.Chips, 3)
	assert.Equal(t, "555-123-4567", view.Record.Phone)
	assert.Equal(t, "Stop: blah", view.Record.TripNotes)
	for _, c := range view.Chips {
		assert.Equal(t, chips.StatusConfirmed, c.Status)
	}

	w = do(t, router, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, router, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, router, http.MethodPost, base+"/input", model.SessionInputRequest{Text: "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func createSession(t *testing.T, srvURL string) string {
	t.Helper()
	resp, err := http.Post(srvURL+"/api/v1/sessions", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	var created model.SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	return srvURL + "/api/v1/sessions/" + created.SessionID
}

func postLiveInput(t *testing.T, base, text string) {
	t.Helper()
	body, err := json.Marshal(model.SessionInputRequest{Text: text, Live: true})
	require.NoError(t, err)
	resp, err := http.Post(base+"/input", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

// openEvents subscribes to a session's SSE stream and returns a reader for
// the next event's name and data
func openEvents(t *testing.T, ctx context.Context, base string) func() (string, string) {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/events", nil)
	require.NoError(t, err)
	stream, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { stream.Body.Close() })
	assert.Contains(t, stream.Header.Get("Content-Type"), "text/event-stream")

	events := bufio.NewScanner(stream.Body)
	return func() (string, string) {
		var name string
		for events.Scan() {
			line := events.Text()
			switch {
			case strings.HasPrefix(line, "event: "):
				name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				return name, strings.TrimPrefix(line, "data: ")
			}
		}
		t.Fatalf("stream ended: %v", events.Err())
		return "", ""
	}
}

func TestSessionEvents(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t))
	defer srv.Close()
	base := createSession(t, srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	nextEvent := openEvents(t, ctx, base)

	name, _ := nextEvent()
	require.Equal(t, "state", name)

	postLiveInput(t, base, "wedding")

	name, data := nextEvent()
	require.Equal(t, "result", name)
	assert.Contains(t, data, `"eventType":"Wedding"`)

	delReq, err := http.NewRequest(http.MethodDelete, base, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(delReq)
	require.NoError(t, err)
	resp.Body.Close()

	name, _ = nextEvent()
	assert.Equal(t, "closed", name)
}

func TestSessionEvents_OneDisconnectKeepsOtherStream(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t))
	defer srv.Close()
	base := createSession(t, srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	firstCtx, disconnectFirst := context.WithCancel(ctx)
	first := openEvents(t, firstCtx, base)
	second := openEvents(t, ctx, base)

	name, _ := first()
	require.Equal(t, "state", name)
	name, _ = second()
	require.Equal(t, "state", name)

	postLiveInput(t, base, "wedding")
	name, data := first()
	require.Equal(t, "result", name)
	assert.Contains(t, data, `"eventType":"Wedding"`)
	name, data = second()
	require.Equal(t, "result", name)
	assert.Contains(t, data, `"eventType":"Wedding"`)

	disconnectFirst()
	// let the first stream's handler return and drop its subscription
	time.Sleep(100 * time.Millisecond)

	postLiveInput(t, base, "party bus")
	name, data = second()
	require.Equal(t, "result", name)
	assert.Contains(t, data, `"vehicleType":"Party Bus"`)
}

type fakeIntakeLogs struct {
	logs      []model.IntakeLog
	err       error
	sessionID string
	limit     int
}

func (f *fakeIntakeLogs) RecentIntakes(_ context.Context, sessionID string, limit int) ([]model.IntakeLog, error) {
	f.sessionID, f.limit = sessionID, limit
	return f.logs, f.err
}

func TestSessionIntakes(t *testing.T) {
	sessionID := "3f1c"
	rows := []model.IntakeLog{
		{ID: 2, SessionID: &sessionID, RawText: "wedding", Items: model.JSONItems{{Kind: model.KindEventType, Value: "Wedding", Confidence: 0.9, Original: "wedding"}}},
		{ID: 1, SessionID: &sessionID, RawText: "blah", UnknownCount: 1},
	}

	tests := []struct {
		name      string
		logs      *fakeIntakeLogs
		query     string
		status    int
		wantLimit int
		wantRows  int
	}{
		{name: "no database", status: http.StatusServiceUnavailable},
		{name: "default limit", logs: &fakeIntakeLogs{logs: rows}, status: http.StatusOK, wantLimit: 20, wantRows: 2},
		{name: "explicit limit", logs: &fakeIntakeLogs{logs: rows[:1]}, query: "?limit=1", status: http.StatusOK, wantLimit: 1, wantRows: 1},
		{name: "no rows is an empty list", logs: &fakeIntakeLogs{}, status: http.StatusOK, wantLimit: 20},
		{name: "bad limit", logs: &fakeIntakeLogs{}, query: "?limit=0", status: http.StatusBadRequest},
		{name: "limit too large", logs: &fakeIntakeLogs{}, query: "?limit=500", status: http.StatusBadRequest},
		{name: "database error", logs: &fakeIntakeLogs{err: assert.AnError}, status: http.StatusInternalServerError, wantLimit: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reader IntakeLogReader
			if tt.logs != nil {
				reader = tt.logs
			}
			router := newTestRouterWithLogs(t, reader)

			w := do(t, router, http.MethodGet, "/api/v1/sessions/"+sessionID+"/intakes"+tt.query, nil)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status != http.StatusOK {
				assert.Contains(t, w.Body.String(), "error")
				if tt.logs != nil {
					assert.Equal(t, tt.wantLimit, tt.logs.limit)
				}
				return
			}

			type intakesBody struct {
				SessionID string            `json:"session_id"`
				Intakes   []model.IntakeLog `json:"intakes"`
			}
			body := decode[intakesBody](t, w)
			assert.Equal(t, sessionID, body.SessionID)
			assert.Len(t, body.Intakes, tt.wantRows)
			assert.NotNil(t, body.Intakes)
			assert.Equal(t, sessionID, tt.logs.sessionID)
			assert.Equal(t, tt.wantLimit, tt.logs.limit)
		})
	}
}

func TestHealthVersionMetrics(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[map[string]any](t, w)
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, false, health["ai_enabled"])

	w = do(t, router, http.MethodGet, "/version", nil)
	assert.Contains(t, w.Body.String(), `"version":"test"`)

	do(t, router, http.MethodPost, "/api/v1/classify", model.ClassifyRequest{Text: "wedding"})
	w = do(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `callintake_fragments_classified_total{kind="event_type",source="rules"} 1`)

	w = do(t, router, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
