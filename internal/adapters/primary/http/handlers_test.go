package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	wsAdapter "github.com/lorrc/ticket-dashboard/internal/adapters/primary/websocket"
	"github.com/lorrc/ticket-dashboard/internal/adapters/secondary/memory"
	"github.com/lorrc/ticket-dashboard/internal/auth"
	"github.com/lorrc/ticket-dashboard/internal/config"
	"github.com/lorrc/ticket-dashboard/internal/core/domain"
	apperrors "github.com/lorrc/ticket-dashboard/internal/core/errors"
	"github.com/lorrc/ticket-dashboard/internal/core/mocks"
	"github.com/lorrc/ticket-dashboard/internal/core/ports"
	"github.com/lorrc/ticket-dashboard/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "ops@example.com"
	testPassword = "correct horse"
)

type testServer struct {
	router    stdhttp.Handler
	auth      ports.AuthService
	hub       *wsAdapter.Hub
	dashboard *mocks.MockDashboardService
	source    *mocks.MockParticipantSource
	sessions  *memory.SessionStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	creds, err := auth.NewCredentials(testEmail, testPassword, "")
	require.NoError(t, err)

	sessions := memory.NewSessionStore()
	tokens := auth.NewTokenManager("test-secret-test-secret-test-secret", "ticket-dashboard")
	authService := services.NewAuthService(creds, tokens, sessions, time.Hour)

	dashboard := mocks.NewMockDashboardService()
	source := mocks.NewMockParticipantSource()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := wsAdapter.NewHub(logger)
	go hub.Run()
	t.Cleanup(hub.Stop)

	router := NewRouter(RouterDeps{
		Config:       &config.Config{App: config.AppConfig{Version: "test"}},
		Logger:       logger,
		AuthService:  authService,
		Dashboard:    dashboard,
		Tickets:      services.NewTicketTableService(source),
		Participants: source,
		Sessions:     sessions,
		Hub:          hub,
	})

	return &testServer{
		router:    router,
		auth:      authService,
		hub:       hub,
		dashboard: dashboard,
		source:    source,
		sessions:  sessions,
	}
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()

	rec := s.do(stdhttp.MethodPost, "/api/v1/auth/login", "", `{"email":"`+testEmail+`","password":"`+testPassword+`"}`)
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())

	var resp LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t)
	assert.Equal(t, 1, srv.sessions.Len())

	rec := srv.do(stdhttp.MethodGet, "/api/v1/auth/me", token, "")
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":"ops@example.com"}`, rec.Body.String())

	rec = srv.do(stdhttp.MethodPost, "/api/v1/auth/logout", token, "")
	require.Equal(t, stdhttp.StatusNoContent, rec.Code)
	assert.Equal(t, 0, srv.sessions.Len())

	rec = srv.do(stdhttp.MethodGet, "/api/v1/auth/me", token, "")
	assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
}

func TestLogout_DisconnectsSessionWebsockets(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t)
	other := srv.login(t)

	session, err := srv.auth.Authenticate(context.Background(), token)
	require.NoError(t, err)
	otherSession, err := srv.auth.Authenticate(context.Background(), other)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mine := wsAdapter.NewClient(srv.hub, nil, session.ID, session.Email, logger)
	theirs := wsAdapter.NewClient(srv.hub, nil, otherSession.ID, otherSession.Email, logger)
	require.True(t, srv.hub.Add(mine))
	require.True(t, srv.hub.Add(theirs))
	require.Eventually(t, func() bool { return srv.hub.GetClientCount() == 2 }, time.Second, 5*time.Millisecond)

	rec := srv.do(stdhttp.MethodPost, "/api/v1/auth/logout", token, "")
	require.Equal(t, stdhttp.StatusNoContent, rec.Code)

	assert.False(t, srv.hub.IsSessionConnected(session.ID))
	assert.True(t, srv.hub.IsSessionConnected(otherSession.ID))
	_, open := <-mine.Send
	assert.False(t, open)
}

func TestLogin_Errors(t *testing.T) {
	srv := newTestServer(t)

	t.Run("wrong password", func(t *testing.T) {
		rec := srv.do(stdhttp.MethodPost, "/api/v1/auth/login", "", `{"email":"ops@example.com","password":"nope"}`)

		require.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "INVALID_CREDENTIALS", resp.Code)
		assert.Equal(t, "Invalid email or password.", resp.Error)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := srv.do(stdhttp.MethodPost, "/api/v1/auth/login", "", `{}`)

		require.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
		var resp ValidationErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Contains(t, resp.Fields, "email")
		assert.Contains(t, resp.Fields, "password")
	})

	t.Run("invalid email", func(t *testing.T) {
		rec := srv.do(stdhttp.MethodPost, "/api/v1/auth/login", "", `{"email":"ops","password":"secret"}`)

		require.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
		var resp ValidationErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Contains(t, resp.Fields, "email")
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := srv.do(stdhttp.MethodPost, "/api/v1/auth/login", "", `{"email":`)

		assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
	})
}

func TestProtectedRoutes_RequireSession(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{
		"/api/v1/auth/me",
		"/api/v1/dashboard/summary",
		"/api/v1/tickets",
		"/api/v1/tickets/filters",
		"/api/participants",
	} {
		t.Run(path, func(t *testing.T) {
			rec := srv.do(stdhttp.MethodGet, path, "", "")
			assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)

			rec = srv.do(stdhttp.MethodGet, path, "not-a-token", "")
			assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
		})
	}
}

func TestDashboardSummary(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t)

	snapshot := &ports.SummarySnapshot{
		Summary: domain.Aggregate([]domain.TicketRecord{
			{Status: "1", Qty: domain.NewLooseNumber(2), TotalPaid: domain.ParseLooseNumber("150000"), TypeTicket: "VIP"},
		}),
		Generation: 7,
		ComputedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	t.Run("fresh", func(t *testing.T) {
		srv.dashboard.On("Refresh", mock.Anything).Return(snapshot, nil).Once()

		rec := srv.do(stdhttp.MethodGet, "/api/v1/dashboard/summary", token, "")

		require.Equal(t, stdhttp.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.EqualValues(t, 7, body["generation"])
		summary := body["summary"].(map[string]any)
		assert.EqualValues(t, 2, summary["soldTicketCount"])
		assert.EqualValues(t, 150000, summary["totalRevenue"])
	})

	t.Run("cached", func(t *testing.T) {
		srv.dashboard.On("Latest").Return(snapshot, nil).Once()

		rec := srv.do(stdhttp.MethodGet, "/api/v1/dashboard/summary?cached=true", token, "")

		assert.Equal(t, stdhttp.StatusOK, rec.Code)
	})

	t.Run("cached before first refresh", func(t *testing.T) {
		srv.dashboard.On("Latest").Return(nil, apperrors.ErrSummaryUnavailable).Once()

		rec := srv.do(stdhttp.MethodGet, "/api/v1/dashboard/summary?cached=true", token, "")

		require.Equal(t, stdhttp.StatusNotFound, rec.Code)
		assert.Equal(t, "SUMMARY_UNAVAILABLE", decodeError(t, rec).Code)
	})

	srv.dashboard.AssertExpectations(t)
}

func TestDashboardRefresh_UpstreamErrors(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantError  string
	}{
		{
			name:       "not configured",
			err:        apperrors.ErrUpstreamNotConfigured,
			wantStatus: stdhttp.StatusInternalServerError,
			wantCode:   "UPSTREAM_NOT_CONFIGURED",
			wantError:  "API credentials are not configured",
		},
		{
			name:       "upstream status",
			err:        &apperrors.UpstreamStatusError{StatusCode: 503},
			wantStatus: stdhttp.StatusBadGateway,
			wantCode:   "UPSTREAM_UNAVAILABLE",
			wantError:  "External API returned status 503",
		},
		{
			name:       "transport failure",
			err:        apperrors.ErrUpstreamUnavailable,
			wantStatus: stdhttp.StatusBadGateway,
			wantCode:   "UPSTREAM_UNAVAILABLE",
			wantError:  "Failed to fetch participant data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv.dashboard.On("Refresh", mock.Anything).Return(nil, tt.err).Once()

			rec := srv.do(stdhttp.MethodPost, "/api/v1/dashboard/refresh", token, "")

			require.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, tt.wantError, resp.Error)
		})
	}
}

func TestTickets(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t)

	srv.source.On("FetchParticipants", mock.Anything).Return(&domain.ParticipantPage{
		Data: []domain.TicketRecord{
			{ID: "1", Name: "Alice", Status: "1", TypeTicket: "VIP", DateTicket: "2025-01-02", Qty: domain.NewLooseNumber(1)},
			{ID: "2", Name: "Bob", Status: "0", TypeTicket: "Regular", DateTicket: "2025-01-01", Qty: domain.NewLooseNumber(3)},
		},
	}, nil)

	t.Run("search", func(t *testing.T) {
		rec := srv.do(stdhttp.MethodGet, "/api/v1/tickets?search=ali", token, "")

		require.Equal(t, stdhttp.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		rows := body["data"].([]any)
		require.Len(t, rows, 1)
		assert.Equal(t, "Alice", rows[0].(map[string]any)["name"])
	})

	t.Run("sort descending", func(t *testing.T) {
		rec := srv.do(stdhttp.MethodGet, "/api/v1/tickets?sort=qty&order=desc", token, "")

		require.Equal(t, stdhttp.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		rows := body["data"].([]any)
		require.Len(t, rows, 2)
		assert.Equal(t, "Bob", rows[0].(map[string]any)["name"])
	})

	t.Run("unknown sort key", func(t *testing.T) {
		rec := srv.do(stdhttp.MethodGet, "/api/v1/tickets?sort=shoe_size", token, "")

		assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("filters", func(t *testing.T) {
		rec := srv.do(stdhttp.MethodGet, "/api/v1/tickets/filters", token, "")

		require.Equal(t, stdhttp.StatusOK, rec.Code)
		assert.JSONEq(t, `{"types":["Regular","VIP"],"dates":["2025-01-01","2025-01-02"]}`, rec.Body.String())
	})
}

func TestParticipantsRelay(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t)

	raw := []byte(`{"data":[{"id":1,"qty":"2"}],"page":1}`)
	srv.source.On("FetchRaw", mock.Anything).Return(raw, nil).Once()

	rec := srv.do(stdhttp.MethodGet, "/api/participants", token, "")

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, string(raw), rec.Body.String())

	srv.source.On("FetchRaw", mock.Anything).Return(nil, apperrors.ErrUpstreamNotConfigured).Once()
	rec = srv.do(stdhttp.MethodGet, "/api/participants", token, "")
	assert.Equal(t, stdhttp.StatusInternalServerError, rec.Code)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	srv.source.On("Configured").Return(false)

	rec := srv.do(stdhttp.MethodGet, "/health/live", "", "")
	assert.Equal(t, stdhttp.StatusOK, rec.Code)

	rec = srv.do(stdhttp.MethodGet, "/health/ready", "", "")
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	var ready HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&ready))
	assert.Equal(t, "healthy", ready.Checks["session_store"].Status)
	assert.Equal(t, "not_configured", ready.Checks["upstream"].Status)

	rec = srv.do(stdhttp.MethodGet, "/health", "", "")
	assert.Equal(t, stdhttp.StatusServiceUnavailable, rec.Code)
}

func TestOriginAllowed(t *testing.T) {
	allowed := []string{"https://dash.example.com", "localhost:3000", "*.tickets.io"}

	assert.True(t, originAllowed("https://dash.example.com", allowed))
	assert.True(t, originAllowed("http://localhost:3000", allowed))
	assert.True(t, originAllowed("https://admin.tickets.io", allowed))
	assert.True(t, originAllowed("https://tickets.io", allowed))
	assert.False(t, originAllowed("https://evil.com", allowed))
	assert.False(t, originAllowed("::not a url", allowed))
}
