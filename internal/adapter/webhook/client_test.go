package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/polkiloo/ordernotify/internal/domain/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNotifyDisabled(t *testing.T) {
	client := NewHTTPClient("", true, time.Second, 3, discardLogger())
	if client.Enabled() {
		t.Fatal("client without URL must be disabled")
	}
	if client.Notify(context.Background(), "msg", model.SeverityInfo) {
		t.Fatal("disabled client must report failure")
	}
}

func TestNotifyPayloadShape(t *testing.T) {
	var got payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content type %q", r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	client := NewHTTPClient(server.URL, true, time.Second, 3, discardLogger(),
		WithClock(func() time.Time { return fixed }))

	if !client.Notify(context.Background(), "database down", model.SeverityCritical) {
		t.Fatal("expected success")
	}
	if len(got.Attachments) != 1 {
		t.Fatalf("expected one attachment, got %d", len(got.Attachments))
	}
	att := got.Attachments[0]
	if att.Color != "#8b0000" {
		t.Errorf("unexpected color %q", att.Color)
	}
	if len(att.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(att.Fields))
	}
	if att.Fields[0].Value != "CRITICAL" {
		t.Errorf("expected upper-cased severity, got %q", att.Fields[0].Value)
	}
	if att.Fields[1].Value != "database down" {
		t.Errorf("unexpected message field %q", att.Fields[1].Value)
	}
	if att.Fields[2].Value != "2025-03-01 12:00:00 UTC" {
		t.Errorf("unexpected timestamp %q", att.Fields[2].Value)
	}
}

func TestNotifyRetriesOnNon200(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var waits []time.Duration
	client := NewHTTPClient(server.URL, true, time.Second, 3, discardLogger(),
		WithSleep(func(d time.Duration) { waits = append(waits, d) }))

	if !client.Notify(context.Background(), "msg", model.SeverityError) {
		t.Fatal("expected eventual success")
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
	if len(waits) != 2 || waits[0] != time.Second || waits[1] != 2*time.Second {
		t.Fatalf("expected doubling backoff, got %v", waits)
	}
}

func TestNotifyExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, true, time.Second, 2, discardLogger(),
		WithSleep(func(time.Duration) {}))

	if client.Notify(context.Background(), "msg", model.SeverityInfo) {
		t.Fatal("expected failure")
	}
	if calls.Load() != 2 {
		t.Fatalf("expected retry count bounded at 2, got %d", calls.Load())
	}
}

func TestColorFor(t *testing.T) {
	cases := map[model.Severity]string{
		model.SeverityInfo:     "#36a64f",
		model.SeverityWarning:  "#ff9500",
		model.SeverityError:    "#ff0000",
		model.SeverityCritical: "#8b0000",
	}
	for severity, want := range cases {
		if got := colorFor(severity); got != want {
			t.Errorf("colorFor(%s)=%q, want %q", severity, got, want)
		}
	}
}
