package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scentwork/partner-console/internal/api/http/handlers"
	"github.com/scentwork/partner-console/internal/auth"
	"github.com/scentwork/partner-console/internal/domain"
	"github.com/scentwork/partner-console/internal/events"
	"github.com/scentwork/partner-console/internal/observability"
	"github.com/scentwork/partner-console/internal/persistence"
	"github.com/scentwork/partner-console/internal/repository"
	"github.com/scentwork/partner-console/internal/service"
)

type fakeJournal struct {
	entries []repository.JournalEntry
}

func (f *fakeJournal) Append(_ context.Context, entry *repository.JournalEntry) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeJournal) ListByAggregate(_ context.Context, aggregateID string, limit int) ([]repository.JournalEntry, error) {
	var out []repository.JournalEntry
	for _, e := range f.entries {
		if e.AggregateID == aggregateID && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

type testServer struct {
	app        *fiber.App
	journal    *fakeJournal
	adminToken string
	ambToken   string
	otherToken string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithConfig(t, fiber.Config{Immutable: true})
}

func newTestServerWithConfig(t *testing.T, cfg fiber.Config) *testServer {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	ambassadorRepo := repository.NewAmbassadorRepository()
	qualification := service.NewQualificationService(service.QualificationDependencies{
		AmbassadorRepo: ambassadorRepo, Dispatcher: dispatcher, Logger: logger,
	})
	partners := service.NewPartnerService(service.PartnerDependencies{
		PartnerRepo: repository.NewPartnerRepository(), AmbassadorRepo: ambassadorRepo, Dispatcher: dispatcher, Logger: logger,
	})
	approvals := service.NewApprovalService(service.ApprovalDependencies{
		ApprovalRepo: repository.NewApprovalRepository(), AmbassadorRepo: ambassadorRepo, Partners: partners, Dispatcher: dispatcher, Logger: logger,
	})

	system := domain.SystemActor
	for _, id := range []string{"ambassador_001", "ambassador_002"} {
		_, err := qualification.RegisterAmbassador(ctx, service.RegisterAmbassadorInput{ID: id, Name: id}, system)
		require.NoError(t, err)
	}
	_, err := qualification.SetQualification(ctx, "ambassador_001", true, system, "")
	require.NoError(t, err)

	journal := &fakeJournal{}
	tokens := auth.NewTokenManager("test-secret", 5)
	app := fiber.New(cfg)
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("partner-console", "test", &persistence.Postgres{}, &persistence.Redis{}, metrics),
		Ambassadors:    handlers.NewAmbassadorsHandler(qualification, partners, approvals),
		Partners:       handlers.NewPartnersHandler(partners),
		Admin:          handlers.NewAdminHandler(qualification, approvals, partners),
		Events:         handlers.NewEventsHandler(journal),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, ambassadorRepo),
	})

	mint := func(id string, role domain.Role) string {
		token, _, err := tokens.GenerateToken(id, role)
		require.NoError(t, err)
		return token
	}
	return &testServer{
		app:        app,
		journal:    journal,
		adminToken: mint("admin_1", domain.RoleAdmin),
		ambToken:   mint("ambassador_001", domain.RoleAmbassador),
		otherToken: mint("ambassador_002", domain.RoleAmbassador),
	}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestPartnerLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, "POST", "/ambassadors/ambassador_001/partner-requests", s.ambToken, map[string]interface{}{
		"name":       "VentureWorks",
		"website":    "https://ventureworks.example",
		"contact":    map[string]string{"name": "Leo Park", "email": "leo@ventureworks.example", "title": "CMO"},
		"region":     "US",
		"risk_score": 0.12,
	})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	request := decode[map[string]interface{}](t, env)
	requestID := request["id"].(string)
	assert.Equal(t, "ventureworks.example", request["domain"])
	assert.Equal(t, "AWAITING_ADMIN", request["status"])

	status, env = s.do(t, "GET", "/admin/approvals?q=venture", s.adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[[]map[string]interface{}](t, env), 1)

	status, env = s.do(t, "POST", "/admin/approvals/"+requestID+"/approve", s.adminToken, map[string]string{"distribution_model": "PASS_THROUGH"})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	partner := decode[map[string]interface{}](t, env)
	partnerID := partner["id"].(string)
	assert.Equal(t, "APPROVED", partner["status"])
	assert.Equal(t, "0.00", partner["total_commission"])

	status, env = s.do(t, "POST", "/admin/approvals/"+requestID+"/approve", s.adminToken, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNKNOWN_REQUEST", env.Error.Code)

	levels := []map[string]interface{}{
		{"level": 1, "delta_count": 45, "delta_revenue": "4500"},
		{"level": 2, "delta_count": 32, "delta_revenue": 3200},
		{"level": 3, "delta_count": 18, "delta_revenue": "1800.00"},
		{"level": 4, "delta_count": 12, "delta_revenue": "1200"},
		{"level": 5, "delta_count": 8, "delta_revenue": "800"},
	}
	for _, body := range levels {
		status, env = s.do(t, "POST", "/partners/"+partnerID+"/activity", s.adminToken, body)
		require.Equal(t, fiber.StatusOK, status, env.Error)
	}
	partner = decode[map[string]interface{}](t, env)
	assert.Equal(t, "785.00", partner["total_commission"])
	assert.Equal(t, "450.00", partner["partner_level_one_share"])

	status, env = s.do(t, "GET", "/ambassadors/ambassador_001/commission-summary", s.ambToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	summary := decode[map[string]interface{}](t, env)
	assert.Equal(t, "785.00", summary["total_commission"])
	assert.EqualValues(t, 1, summary["partner_count"])

	status, env = s.do(t, "GET", "/ambassadors/ambassador_001/partners", s.ambToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[[]map[string]interface{}](t, env), 1)

	status, _ = s.do(t, "GET", "/partners/"+partnerID, s.ambToken, nil)
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = s.do(t, "GET", "/partners/"+partnerID, s.otherToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env = s.do(t, "POST", "/partners/"+partnerID+"/activity", s.adminToken, map[string]interface{}{"level": 2, "delta_count": -1})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INVALID_ACTIVITY", env.Error.Code)

	status, env = s.do(t, "POST", "/partners/"+partnerID+"/bulk-purchases", s.adminToken, map[string]interface{}{"amount": "100"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "MODEL_MISMATCH", env.Error.Code)

	status, env = s.do(t, "PATCH", "/partners/"+partnerID+"/status", s.adminToken, map[string]string{"status": "PAUSED"})
	require.Equal(t, fiber.StatusOK, status, env.Error)
	assert.Equal(t, "PAUSED", decode[map[string]interface{}](t, env)["status"])
}

func TestRecordsSurviveLaterTraffic(t *testing.T) {
	configs := map[string]fiber.Config{
		"immutable": {Immutable: true},
		"default":   {},
	}
	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			s := newTestServerWithConfig(t, cfg)

			status, env := s.do(t, "PUT", "/admin/ambassadors/ambassador_002/qualification", s.adminToken, map[string]interface{}{"qualified": true})
			require.Equal(t, fiber.StatusOK, status, env.Error)

			status, env = s.do(t, "POST", "/ambassadors/ambassador_001/partner-requests", s.ambToken, map[string]interface{}{"name": "Acme"})
			require.Equal(t, fiber.StatusCreated, status, env.Error)
			requestID := decode[map[string]interface{}](t, env)["id"].(string)

			status, env = s.do(t, "POST", "/admin/approvals/"+requestID+"/approve", s.adminToken, nil)
			require.Equal(t, fiber.StatusCreated, status, env.Error)
			partnerID := decode[map[string]interface{}](t, env)["id"].(string)

			status, env = s.do(t, "POST", "/partners/"+partnerID+"/activity", s.adminToken, map[string]interface{}{"level": 1, "delta_count": 1, "delta_revenue": "100"})
			require.Equal(t, fiber.StatusOK, status, env.Error)

			for i := 0; i < 5; i++ {
				s.do(t, "GET", "/health/live", "", nil)
				s.do(t, "GET", "/admin/approvals?q=zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz", s.adminToken, nil)
				s.do(t, "GET", "/ambassadors/xxxxxxxxxxxxxx", s.adminToken, nil)
			}

			status, env = s.do(t, "GET", "/ambassadors/ambassador_002", s.otherToken, nil)
			require.Equal(t, fiber.StatusOK, status, env.Error)
			assert.Equal(t, true, decode[map[string]interface{}](t, env)["qualified"])

			status, env = s.do(t, "GET", "/admin/ambassadors/ambassador_002/qualification", s.adminToken, nil)
			require.Equal(t, fiber.StatusOK, status, env.Error)
			qualification := decode[map[string]interface{}](t, env)
			assert.Equal(t, "ambassador_002", qualification["ambassador_id"])
			assert.Len(t, qualification["history"], 1)

			status, env = s.do(t, "GET", "/ambassadors/ambassador_001/partners", s.ambToken, nil)
			require.Equal(t, fiber.StatusOK, status, env.Error)
			partners := decode[[]map[string]interface{}](t, env)
			require.Len(t, partners, 1)
			assert.Equal(t, partnerID, partners[0]["id"])
			assert.Equal(t, "10.00", partners[0]["total_commission"])

			status, env = s.do(t, "GET", "/ambassadors/ambassador_001/partner-requests", s.ambToken, nil)
			require.Equal(t, fiber.StatusOK, status, env.Error)
			requests := decode[[]map[string]interface{}](t, env)
			require.Len(t, requests, 1)
			assert.Equal(t, "ambassador_001", requests[0]["ambassador_id"])
		})
	}
}

func TestQualificationGateOverHTTP(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, "POST", "/ambassadors/ambassador_002/partner-requests", s.otherToken, map[string]interface{}{"name": "Acme"})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "AMBASSADOR_NOT_QUALIFIED", env.Error.Code)

	status, _ = s.do(t, "PUT", "/admin/ambassadors/ambassador_002/qualification", s.adminToken, map[string]interface{}{})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = s.do(t, "PUT", "/admin/ambassadors/ambassador_002/qualification", s.adminToken, map[string]interface{}{"qualified": true, "note": "trained"})
	require.Equal(t, fiber.StatusOK, status, env.Error)
	qualification := decode[map[string]interface{}](t, env)
	assert.Equal(t, true, qualification["qualified"])
	assert.Len(t, qualification["history"], 1)

	status, _ = s.do(t, "POST", "/ambassadors/ambassador_002/partner-requests", s.otherToken, map[string]interface{}{"name": "Acme"})
	assert.Equal(t, fiber.StatusCreated, status)
}

func TestAccessControlOverHTTP(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, "GET", "/ambassadors/ambassador_001", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	status, _ = s.do(t, "GET", "/ambassadors/ambassador_001", s.otherToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = s.do(t, "GET", "/admin/approvals", s.ambToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = s.do(t, "GET", "/ambassadors/ghost", s.adminToken, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, env := s.do(t, "POST", "/admin/ambassadors", s.adminToken, map[string]string{"id": "ambassador_003", "name": "Mia", "tier": "CORPORATE"})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	assert.Equal(t, "CORPORATE", decode[map[string]interface{}](t, env)["tier"])
}

func TestRejectOverHTTP(t *testing.T) {
	s := newTestServer(t)
	_, env := s.do(t, "POST", "/ambassadors/ambassador_001/partner-requests", s.ambToken, map[string]interface{}{"name": "Acme"})
	requestID := decode[map[string]interface{}](t, env)["id"].(string)

	status, env := s.do(t, "POST", "/admin/approvals/"+requestID+"/reject", s.adminToken, map[string]string{"reason": "duplicate"})
	require.Equal(t, fiber.StatusOK, status, env.Error)
	assert.Equal(t, "REJECTED", decode[map[string]interface{}](t, env)["status"])

	status, env = s.do(t, "GET", "/admin/approvals/"+requestID, s.adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "duplicate", decode[map[string]interface{}](t, env)["rejection_reason"])

	status, env = s.do(t, "GET", "/admin/approvals", s.adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, decode[[]map[string]interface{}](t, env))
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, "GET", "/health/live", "", nil)
	assert.Equal(t, fiber.StatusOK, status)

	req := httptest.NewRequest("GET", "/health/ready", nil)
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	status, env := s.do(t, "GET", "/metrics", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	snapshot := decode[observability.Snapshot](t, env)
	assert.NotEmpty(t, snapshot.Requests)

	status, env = s.do(t, "GET", "/nowhere", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestEventJournalOverHTTP(t *testing.T) {
	s := newTestServer(t)
	occurred := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, typ := range []string{"partner_approved", "partner_activity_recorded", "partner_approved"} {
		aggregate := "corp_001"
		if i == 2 {
			aggregate = "corp_002"
		}
		require.NoError(t, s.journal.Append(context.Background(), &repository.JournalEntry{
			ID: typ + aggregate, Type: typ, AggregateID: aggregate, ActorRole: "ADMIN", ActorID: "admin_1",
			Payload: []byte(`{"partner_id":"` + aggregate + `"}`), OccurredAt: occurred,
		}))
	}

	status, env := s.do(t, "GET", "/admin/events/corp_001", s.adminToken, nil)
	require.Equal(t, fiber.StatusOK, status, env.Error)
	entries := decode[[]map[string]interface{}](t, env)
	require.Len(t, entries, 2)
	assert.Equal(t, "partner_approved", entries[0]["type"])
	assert.Equal(t, "corp_001", entries[0]["payload"].(map[string]interface{})["partner_id"])

	status, env = s.do(t, "GET", "/admin/events/corp_001?limit=1", s.adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[[]map[string]interface{}](t, env), 1)

	status, _ = s.do(t, "GET", "/admin/events/corp_001?limit=0", s.adminToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = s.do(t, "GET", "/admin/events/corp_001", s.ambToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestEventJournalDisabled(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), nil, 0)
	app.Get("/events/:aggregateId", handlers.NewEventsHandler(nil).ListByAggregate)

	resp, err := app.Test(httptest.NewRequest("GET", "/events/corp_001", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
