package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ordernotify/internal/server/http/dto"
	testhelpers "github.com/polkiloo/ordernotify/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, path string, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.GET(path, handler)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheckAllHealthy(t *testing.T) {
	stub := testhelpers.ServiceFacadeStub{TransportOK: true}
	resp := performRequest(t, "/healthz", NewHealthHandler(stub).Check)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body dto.HealthResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "ok" || body.Database != "ok" || body.Transport != "ok" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHealthCheckDatabaseDown(t *testing.T) {
	stub := testhelpers.ServiceFacadeStub{DatabaseErr: errors.New("connection refused"), TransportOK: true}
	resp := performRequest(t, "/healthz", NewHealthHandler(stub).Check)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", resp.Code)
	}
	var body dto.HealthResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "unhealthy" || body.Database != "connection refused" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHealthCheckTransportDownDegrades(t *testing.T) {
	stub := testhelpers.ServiceFacadeStub{TransportOK: false}
	resp := performRequest(t, "/healthz", NewHealthHandler(stub).Check)

	if resp.Code != http.StatusOK {
		t.Fatalf("transport outage alone must not fail the probe, got %d", resp.Code)
	}
	var body dto.HealthResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "degraded" || body.Transport != "unreachable" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestStatusSummary(t *testing.T) {
	lastPoll := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	stub := testhelpers.ServiceFacadeStub{
		UptimeVal:        90 * time.Second,
		Processed:        7,
		Conversations:    2,
		Iterations:       18,
		LastIterationRun: lastPoll,
	}
	resp := performRequest(t, "/status", NewStatusHandler(stub).Summary)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body dto.StatusResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.UptimeSeconds != 90 || body.ProcessedOrders != 7 || body.ActiveConversations != 2 || body.PollIterations != 18 {
		t.Fatalf("unexpected body: %+v", body)
	}
	if !body.LastPoll.Equal(lastPoll) {
		t.Fatalf("expected last poll %v, got %v", lastPoll, body.LastPoll)
	}
}
