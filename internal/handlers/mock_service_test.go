package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"cardputer_radio/internal/models"
	"cardputer_radio/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

// mockAuth accepts any token as the configured operator.
type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	operator      models.Actor
	parseErr      error

	lastSignUpUsername string
	lastSignUpActor    models.Actor
	lastGenUsername    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(ctx context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpActor = service.ActorFrom(ctx)
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (models.Actor, error) {
	m.lastParseToken = token
	return m.operator, m.parseErr
}

var testOperator = models.Actor{ID: 1, Username: "alice"}

// mockRadio records calls and the operator each one arrived with; err is
// returned from every operation.
type mockRadio struct {
	err      error
	calls    []string
	actors   []models.Actor
	lastSSID string
}

func (m *mockRadio) record(ctx context.Context, call string) error {
	m.calls = append(m.calls, call)
	m.actors = append(m.actors, service.ActorFrom(ctx))
	return m.err
}

func (m *mockRadio) StartFakeAP(ctx context.Context, ssid string) error {
	m.lastSSID = ssid
	return m.record(ctx, "StartFakeAP")
}
func (m *mockRadio) StopFakeAP(ctx context.Context) error { return m.record(ctx, "StopFakeAP") }
func (m *mockRadio) StartPortal(ctx context.Context, ssid string) error {
	m.lastSSID = ssid
	return m.record(ctx, "StartPortal")
}
func (m *mockRadio) StopPortal(ctx context.Context) error    { return m.record(ctx, "StopPortal") }
func (m *mockRadio) StartTransfer(ctx context.Context) error { return m.record(ctx, "StartTransfer") }
func (m *mockRadio) StopTransfer(ctx context.Context) error  { return m.record(ctx, "StopTransfer") }
func (m *mockRadio) StopAll(ctx context.Context) error       { return m.record(ctx, "StopAll") }
func (m *mockRadio) JoinNetwork(ctx context.Context) error   { return m.record(ctx, "JoinNetwork") }
func (m *mockRadio) LeaveNetwork(ctx context.Context) error  { return m.record(ctx, "LeaveNetwork") }

type mockMonitoring struct {
	status models.ServiceStatus
	err    error
}

func (m *mockMonitoring) GetStatus(ctx context.Context) (models.ServiceStatus, error) {
	return m.status, m.err
}

func (m *mockMonitoring) IsAnyRunning(ctx context.Context) (bool, error) {
	return m.status.AnyRunning(), m.err
}

type mockEventLog struct {
	resp     []models.RadioEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.RadioEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

type mockFileStats struct {
	stats models.TransferStats
}

func (m *mockFileStats) Stats() models.TransferStats { return m.stats }

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// authedRequest builds a request carrying a bearer token.
func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
