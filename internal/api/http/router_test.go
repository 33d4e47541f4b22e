package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/spec-kit/ticket-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/ticket-dashboard/internal/events"
	"github.com/spec-kit/ticket-dashboard/internal/observability"
	"github.com/spec-kit/ticket-dashboard/internal/service"
	"github.com/spec-kit/ticket-dashboard/internal/session"
	"github.com/spec-kit/ticket-dashboard/internal/sqlite"
	"github.com/spec-kit/ticket-dashboard/internal/table"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type memorySettings struct {
	mu    sync.Mutex
	saved map[string]table.Settings
}

func (m *memorySettings) Save(_ context.Context, id string, settings table.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[id] = settings
	return nil
}

func (m *memorySettings) Load(_ context.Context, id string) (table.Settings, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	settings, ok := m.saved[id]
	return settings, ok, nil
}

func (m *memorySettings) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saved, id)
	return nil
}

type testServer struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	tickets := sqlite.NewTicketRepository(db)
	dispatcher := events.NewInMemoryDispatcher()

	sessions := session.NewManager(session.ManagerConfig{
		NewEngine: func(id string, notifier table.Notifier) *table.Engine {
			return table.NewEngine(table.Dependencies{
				Tickets:    tickets,
				Notifier:   notifier,
				Dispatcher: dispatcher,
				Logger:     logger,
				Locale:     language.English,
				SessionID:  id,
			})
		},
		Settings: &memorySettings{saved: make(map[string]table.Settings)},
		TTL:      time.Hour,
		Logger:   logger,
	})
	tokens := session.NewTokenManager("test-secret", time.Hour)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:            handlers.NewHealthHandler("ticket-dashboard", "test", handlers.DependencyCheck{Name: "store", Ping: db.PingContext}),
		Metrics:           handlers.NewMetricsHandler(metrics),
		Sessions:          handlers.NewSessionHandler(sessions, tokens),
		Tickets:           handlers.NewTicketsHandler(tickets),
		Lists:             handlers.NewListsHandler(service.NewListService(sqlite.NewListRepository(db), logger)),
		Scripts:           handlers.NewScriptsHandler(service.NewScriptService(sqlite.NewScriptRepository(db), logger)),
		Stats:             handlers.NewStatsHandler(),
		SessionMiddleware: session.NewMiddleware(tokens, sessions),
	})
	return &testServer{t: t, app: app}
}

func (s *testServer) startSession() {
	s.t.Helper()
	status, env := s.do(nethttp.MethodPost, "/sessions", nil)
	require.Equal(s.t, nethttp.StatusCreated, status)
	var created struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(s.t, created.Token)
	s.token = created.Token
}

func (s *testServer) do(method, path string, body any) (int, envelope) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.send(req)
}

func (s *testServer) send(req *nethttp.Request) (int, envelope) {
	s.t.Helper()
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	if len(raw) > 0 {
		require.NoError(s.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

type viewBody struct {
	Rows []struct {
		ID            string  `json:"id"`
		ProcessNumber string  `json:"process_number"`
		Status        string  `json:"status"`
		ClosedOn      *string `json:"closed_on"`
		Selected      bool    `json:"selected"`
		Indicator     struct {
			Color string `json:"color"`
		} `json:"indicator"`
	} `json:"rows"`
	Page          int  `json:"page"`
	PageSize      int  `json:"page_size"`
	TotalPages    int  `json:"total_pages"`
	Total         int  `json:"total"`
	Matching      int  `json:"matching"`
	SelectedCount int  `json:"selected_count"`
	CanBulkDelete bool `json:"can_bulk_delete"`
}

type ticketBody struct {
	ID            string  `json:"id"`
	ProcessNumber string  `json:"process_number"`
	Organization  string  `json:"organization"`
	Status        string  `json:"status"`
	ClosedOn      *string `json:"closed_on"`
	Satisfaction  *string `json:"satisfaction"`
	Tags          []string
}

func (s *testServer) addTicket(processNumber, handler string) ticketBody {
	s.t.Helper()
	status, env := s.do(nethttp.MethodPost, "/tickets", map[string]any{
		"process_number": processNumber,
		"opened_on":      time.Now().Format("2006-01-02"),
		"organization":   "Acme",
		"handler":        handler,
	})
	require.Equal(s.t, nethttp.StatusCreated, status)
	return decode[ticketBody](s.t, env)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	status, _ := srv.do(nethttp.MethodGet, "/health/live", nil)
	require.Equal(t, nethttp.StatusOK, status)
	status, _ = srv.do(nethttp.MethodGet, "/health/ready", nil)
	require.Equal(t, nethttp.StatusOK, status)

	status, env := srv.do(nethttp.MethodGet, "/session/view", nil)
	require.Equal(t, nethttp.StatusUnauthorized, status)
	require.Equal(t, "UNAUTHORIZED", env.Error.Code)

	status, env = srv.do(nethttp.MethodGet, "/metrics", nil)
	require.Equal(t, nethttp.StatusOK, status)
	snapshot := decode[observability.Snapshot](t, env)
	require.GreaterOrEqual(t, snapshot.TotalRequests, int64(3))
	require.NotEmpty(t, snapshot.Errors)
}

func TestUnknownRouteAndRequestID(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(nethttp.MethodGet, "/nowhere", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	resp, err := srv.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	require.Equal(t, "req-42", resp.Header.Get(HeaderRequestID))

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.Equal(t, "NOT_FOUND", env.Error.Code)

	resp, err = srv.app.Test(httptest.NewRequest(nethttp.MethodGet, "/health/live", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NotEmpty(t, resp.Header.Get(HeaderRequestID))
}

func TestReadinessReportsDownDependency(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), time.Second)
	health := handlers.NewHealthHandler("ticket-dashboard", "test",
		handlers.DependencyCheck{Name: "store", Ping: func(context.Context) error { return nil }},
		handlers.DependencyCheck{Name: "redis", Ping: func(context.Context) error { return errors.New("connection refused") }},
	)
	app.Get("/health/ready", health.Ready)

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/health/ready", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, nethttp.StatusServiceUnavailable, resp.StatusCode)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.Equal(t, "DEPENDENCY_UNAVAILABLE", env.Error.Code)
	require.Equal(t, "ok", env.Error.Details["store"])
	require.Equal(t, "connection refused", env.Error.Details["redis"])
}

func TestEndSessionRevokesToken(t *testing.T) {
	srv := newTestServer(t)
	srv.startSession()

	status, _ := srv.do(nethttp.MethodPut, "/session/page-size", map[string]int{"page_size": 5})
	require.Equal(t, nethttp.StatusOK, status)

	status, _ = srv.do(nethttp.MethodDelete, "/session", nil)
	require.Equal(t, nethttp.StatusNoContent, status)

	status, env := srv.do(nethttp.MethodGet, "/session/view", nil)
	require.Equal(t, nethttp.StatusUnauthorized, status)
	require.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestTicketLifecycle(t *testing.T) {
	srv := newTestServer(t)
	srv.startSession()

	status, env := srv.do(nethttp.MethodPost, "/tickets", map[string]any{
		"process_number": "P-1",
		"opened_on":      "15/03/2024",
	})
	require.Equal(t, nethttp.StatusBadRequest, status)
	require.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	require.Equal(t, []any{"opened_on"}, env.Error.Details["fields"])

	created := srv.addTicket("P-1", "dana")
	require.NotEmpty(t, created.ID)
	require.Equal(t, "in_progress", created.Status)

	status, env = srv.do(nethttp.MethodPost, "/tickets/"+created.ID+"/status/toggle", nil)
	require.Equal(t, nethttp.StatusOK, status)
	closed := decode[ticketBody](t, env)
	require.Equal(t, "closed", closed.Status)
	require.NotNil(t, closed.ClosedOn)

	status, env = srv.do(nethttp.MethodPut, "/tickets/"+created.ID+"/satisfaction", map[string]string{"satisfaction": "ecstatic"})
	require.Equal(t, nethttp.StatusBadRequest, status)
	status, env = srv.do(nethttp.MethodPut, "/tickets/"+created.ID+"/satisfaction", map[string]string{"satisfaction": "satisfied"})
	require.Equal(t, nethttp.StatusOK, status)
	require.Equal(t, "satisfied", *decode[ticketBody](t, env).Satisfaction)

	status, env = srv.do(nethttp.MethodPut, "/tickets/"+created.ID+"/fields/organization", map[string]string{"value": "Globex"})
	require.Equal(t, nethttp.StatusOK, status)
	require.Equal(t, "Globex", decode[ticketBody](t, env).Organization)

	status, env = srv.do(nethttp.MethodPut, "/tickets/"+created.ID+"/fields/status", map[string]string{"value": "closed"})
	require.Equal(t, nethttp.StatusBadRequest, status)

	status, env = srv.do(nethttp.MethodPost, "/tickets/"+created.ID+"/copy", nil)
	require.Equal(t, nethttp.StatusOK, status)
	require.JSONEq(t, `{"text":"P-1"}`, string(env.Data))

	status, env = srv.do(nethttp.MethodGet, "/tickets/search?organization=glob", nil)
	require.Equal(t, nethttp.StatusOK, status)
	require.Len(t, decode[[]ticketBody](t, env), 1)

	status, env = srv.do(nethttp.MethodDelete, "/tickets/"+created.ID, nil)
	require.Equal(t, nethttp.StatusOK, status)
	require.JSONEq(t, `{"deleted":false,"count":0}`, string(env.Data))

	status, env = srv.do(nethttp.MethodDelete, "/tickets/"+created.ID+"?confirm=true", nil)
	require.Equal(t, nethttp.StatusOK, status)
	require.JSONEq(t, `{"deleted":true,"count":1}`, string(env.Data))

	status, env = srv.do(nethttp.MethodGet, "/tickets/"+created.ID, nil)
	require.Equal(t, nethttp.StatusNotFound, status)
	require.Equal(t, "NOT_FOUND", env.Error.Code)

	status, env = srv.do(nethttp.MethodGet, "/session/notifications", nil)
	require.Equal(t, nethttp.StatusOK, status)
	notifications := decode[[]table.Notification](t, env)
	require.NotEmpty(t, notifications)
	require.Equal(t, table.OpDelete, notifications[len(notifications)-1].Operation)
}

func TestViewPagingFilteringAndBulkDelete(t *testing.T) {
	srv := newTestServer(t)
	srv.startSession()
	for i := 1; i <= 11; i++ {
		handler := "dana"
		if i%2 == 0 {
			handler = "eve"
		}
		srv.addTicket(fmt.Sprintf("P-%02d", i), handler)
	}

	status, env := srv.do(nethttp.MethodGet, "/session/view", nil)
	require.Equal(t, nethttp.StatusOK, status)
	view := decode[viewBody](t, env)
	require.Equal(t, 11, view.Total)
	require.Equal(t, 2, view.TotalPages)
	require.Len(t, view.Rows, 10)
	require.Equal(t, "amber", view.Rows[0].Indicator.Color)

	status, env = srv.do(nethttp.MethodPut, "/session/page", map[string]string{"direction": "next"})
	require.Equal(t, nethttp.StatusOK, status)
	view = decode[viewBody](t, env)
	require.Equal(t, 2, view.Page)
	require.Len(t, view.Rows, 1)

	status, env = srv.do(nethttp.MethodPut, "/session/page", map[string]int{"page": 99})
	require.Equal(t, nethttp.StatusOK, status)
	require.Equal(t, 2, decode[viewBody](t, env).Page)

	status, _ = srv.do(nethttp.MethodPut, "/session/page-size", map[string]int{"page_size": 7})
	require.Equal(t, nethttp.StatusBadRequest, status)
	status, env = srv.do(nethttp.MethodPut, "/session/page-size", map[string]int{"page_size": 20})
	require.Equal(t, nethttp.StatusOK, status)
	require.Equal(t, 1, decode[viewBody](t, env).TotalPages)

	status, env = srv.do(nethttp.MethodPost, "/session/sort/process_number", nil)
	require.Equal(t, nethttp.StatusOK, status)
	require.Equal(t, "P-01", decode[viewBody](t, env).Rows[0].ProcessNumber)
	status, env = srv.do(nethttp.MethodPost, "/session/sort/process_number", nil)
	require.Equal(t, nethttp.StatusOK, status)
	require.Equal(t, "P-11", decode[viewBody](t, env).Rows[0].ProcessNumber)

	status, env = srv.do(nethttp.MethodPut, "/session/filters", map[string]string{"handler": "EVE"})
	require.Equal(t, nethttp.StatusOK, status)
	view = decode[viewBody](t, env)
	require.Equal(t, 5, view.Matching)
	require.Equal(t, 11, view.Total)

	status, _ = srv.do(nethttp.MethodPut, "/session/filters", map[string]string{"status_color": "green"})
	require.Equal(t, nethttp.StatusBadRequest, status)

	status, env = srv.do(nethttp.MethodDelete, "/session/selection?confirm=true", nil)
	require.Equal(t, nethttp.StatusBadRequest, status)

	for _, row := range view.Rows[:2] {
		status, _ = srv.do(nethttp.MethodPost, "/session/selection/"+row.ID, nil)
		require.Equal(t, nethttp.StatusOK, status)
	}
	status, env = srv.do(nethttp.MethodGet, "/session/view", nil)
	require.Equal(t, nethttp.StatusOK, status)
	view = decode[viewBody](t, env)
	require.Equal(t, 2, view.SelectedCount)
	require.True(t, view.CanBulkDelete)

	status, env = srv.do(nethttp.MethodDelete, "/session/selection?confirm=true", nil)
	require.Equal(t, nethttp.StatusOK, status)
	require.JSONEq(t, `{"deleted":true,"count":2}`, string(env.Data))

	status, env = srv.do(nethttp.MethodGet, "/session/view", nil)
	require.Equal(t, nethttp.StatusOK, status)
	view = decode[viewBody](t, env)
	require.Equal(t, 9, view.Total)
	require.Equal(t, 3, view.Matching)
	require.Zero(t, view.SelectedCount)
}

func TestInlineEdit(t *testing.T) {
	srv := newTestServer(t)
	srv.startSession()
	created := srv.addTicket("P-1", "dana")

	status, _ := srv.do(nethttp.MethodPost, "/session/edit/commit", nil)
	require.Equal(t, nethttp.StatusConflict, status)

	status, _ = srv.do(nethttp.MethodPost, "/session/edit", map[string]string{"ticket_id": created.ID, "field": "summary"})
	require.Equal(t, nethttp.StatusBadRequest, status)

	status, env := srv.do(nethttp.MethodPost, "/session/edit", map[string]string{"ticket_id": created.ID, "field": "handler"})
	require.Equal(t, nethttp.StatusOK, status)
	require.JSONEq(t, fmt.Sprintf(`{"ticket_id":%q,"field":"handler","pending":"dana"}`, created.ID), string(env.Data))

	status, _ = srv.do(nethttp.MethodPut, "/session/edit", map[string]string{"value": "bruno"})
	require.Equal(t, nethttp.StatusOK, status)

	status, env = srv.do(nethttp.MethodPost, "/session/edit/commit", nil)
	require.Equal(t, nethttp.StatusOK, status)

	status, env = srv.do(nethttp.MethodGet, "/tickets/search?handler=bruno", nil)
	require.Equal(t, nethttp.StatusOK, status)
	require.Len(t, decode[[]ticketBody](t, env), 1)

	status, env = srv.do(nethttp.MethodGet, "/session/view", nil)
	require.Equal(t, nethttp.StatusOK, status)
	require.NotContains(t, string(env.Data), `"edit"`)

	status, env = srv.do(nethttp.MethodPut, "/tickets/"+created.ID+"/fields/opened_on", map[string]string{"value": "15/03/2024"})
	require.Equal(t, nethttp.StatusBadRequest, status)
	require.Equal(t, "VALIDATION_FAILED", env.Error.Code)
}

func TestListsScriptsAndStats(t *testing.T) {
	srv := newTestServer(t)
	srv.startSession()

	status, env := srv.do(nethttp.MethodPost, "/lists", map[string]any{
		"values": map[string][]string{"handler": {" dana ", ""}, "tag": {"vip"}},
	})
	require.Equal(t, nethttp.StatusCreated, status)
	require.Len(t, decode[[]map[string]string](t, env), 2)

	status, _ = srv.do(nethttp.MethodPost, "/lists", map[string]any{"values": map[string][]string{"team": {"x"}}})
	require.Equal(t, nethttp.StatusBadRequest, status)

	status, env = srv.do(nethttp.MethodGet, "/lists", nil)
	require.Equal(t, nethttp.StatusOK, status)
	groups := decode[map[string][]map[string]string](t, env)
	require.Len(t, groups["handler"], 1)
	require.Equal(t, "dana", groups["handler"][0]["value"])
	require.Empty(t, groups["organization"])

	entryID := groups["tag"][0]["id"]
	status, env = srv.do(nethttp.MethodDelete, "/lists/"+entryID+"?confirm=true", nil)
	require.Equal(t, nethttp.StatusOK, status)
	require.JSONEq(t, `{"deleted":true,"count":1}`, string(env.Data))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "Reply.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("Dear (), {[thanks][regards]}"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	req := httptest.NewRequest(nethttp.MethodPost, "/scripts", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	status, env = srv.send(req)
	require.Equal(t, nethttp.StatusCreated, status)
	uploaded := decode[map[string]any](t, env)
	require.Equal(t, "Reply", uploaded["name"])
	scriptID := uploaded["id"].(string)

	status, env = srv.do(nethttp.MethodGet, "/scripts/"+scriptID+"/template", nil)
	require.Equal(t, nethttp.StatusOK, status)
	tmpl := decode[struct {
		Parts  []map[string]any `json:"parts"`
		Values map[string]string `json:"values"`
	}](t, env)
	require.Len(t, tmpl.Parts, 4)
	require.Equal(t, "thanks", tmpl.Values["3"])

	status, env = srv.do(nethttp.MethodPost, "/scripts/"+scriptID+"/render", map[string]any{
		"values": map[string]string{"1": "Ana", "3": "regards"},
	})
	require.Equal(t, nethttp.StatusOK, status)
	require.JSONEq(t, `{"name":"Reply","text":"Dear Ana, regards"}`, string(env.Data))

	status, _ = srv.do(nethttp.MethodGet, "/scripts/missing/template", nil)
	require.Equal(t, nethttp.StatusNotFound, status)

	status, env = srv.do(nethttp.MethodGet, "/scripts", nil)
	require.Equal(t, nethttp.StatusOK, status)
	require.Len(t, decode[[]map[string]any](t, env), 1)

	srv.addTicket("P-1", "dana")
	srv.addTicket("P-2", "eve")
	status, env = srv.do(nethttp.MethodGet, "/stats/organizations", nil)
	require.Equal(t, nethttp.StatusOK, status)
	require.JSONEq(t, `{"counts":[{"organization":"Acme","count":2}],"total":2}`, string(env.Data))

	status, env = srv.do(nethttp.MethodGet, "/stats/handling-time", nil)
	require.Equal(t, nethttp.StatusOK, status)
	handling := decode[map[string]any](t, env)
	require.EqualValues(t, 0, handling["samples"])
}
