package worker

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/polkiloo/ordernotify/internal/domain/model"
	testhelpers "github.com/polkiloo/ordernotify/internal/test"
)

type handlerStub struct {
	mu      sync.Mutex
	batches [][]model.InboundMessage
}

func (h *handlerStub) HandleBatch(_ context.Context, messages []model.InboundMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.batches = append(h.batches, messages)
}

func (h *handlerStub) batchCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.batches)
}

type processorStub struct {
	calls atomic.Int64
	fn    func()
}

func (p *processorStub) ProcessNewOrders(context.Context) {
	p.calls.Add(1)
	if p.fn != nil {
		p.fn()
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestPollerDispatchesMessagesAndOrders(t *testing.T) {
	transport := &testhelpers.TransportStub{
		Inbound: [][]model.InboundMessage{
			{{Sender: "+15550001111", Body: "go"}},
		},
	}
	handler := &handlerStub{}
	processor := &processorStub{}
	alerts := &testhelpers.AlerterStub{}

	p := NewPoller(transport, handler, processor, alerts, 5*time.Millisecond, 5*time.Millisecond, testLogger())
	p.Start(context.Background())
	defer p.Stop()

	waitFor(t, func() bool { return p.Iterations() >= 2 }, "poller never completed two iterations")

	if handler.batchCount() != 1 {
		t.Fatalf("expected exactly one dispatched batch, got %d", handler.batchCount())
	}
	if processor.calls.Load() < 2 {
		t.Fatalf("orders must be scanned every iteration, got %d", processor.calls.Load())
	}
	if alerts.Count() != 0 {
		t.Fatalf("healthy iterations must not alert, got %+v", alerts.Calls)
	}
}

func TestPollerEmptyBatchSkipsHandler(t *testing.T) {
	transport := &testhelpers.TransportStub{}
	handler := &handlerStub{}
	processor := &processorStub{}

	p := NewPoller(transport, handler, processor, &testhelpers.AlerterStub{}, 5*time.Millisecond, 5*time.Millisecond, testLogger())
	p.Start(context.Background())
	defer p.Stop()

	waitFor(t, func() bool { return p.Iterations() >= 1 }, "poller never iterated")

	if handler.batchCount() != 0 {
		t.Fatalf("empty receive must not reach the handler, got %d batches", handler.batchCount())
	}
}

func TestPollerSurvivesPanicWithCriticalAlert(t *testing.T) {
	var failures atomic.Int64
	processor := &processorStub{}
	processor.fn = func() {
		if processor.calls.Load() == 1 {
			failures.Add(1)
			panic("storage exploded")
		}
	}
	alerts := &testhelpers.AlerterStub{}

	p := NewPoller(&testhelpers.TransportStub{}, &handlerStub{}, processor, alerts, 5*time.Millisecond, 5*time.Millisecond, testLogger())
	p.Start(context.Background())
	defer p.Stop()

	waitFor(t, func() bool { return p.Iterations() >= 1 }, "poller never recovered from the panic")

	critical := alerts.ByKind("critical")
	if len(critical) != 1 || !strings.Contains(critical[0].Message, "Main loop error") {
		t.Fatalf("expected one critical alert for the panic, got %+v", alerts.Calls)
	}
	if failures.Load() != 1 {
		t.Fatalf("expected exactly one failing iteration, got %d", failures.Load())
	}
}

func TestPollerStopHaltsIterations(t *testing.T) {
	processor := &processorStub{}

	p := NewPoller(&testhelpers.TransportStub{}, &handlerStub{}, processor, &testhelpers.AlerterStub{}, 5*time.Millisecond, 5*time.Millisecond, testLogger())
	p.Start(context.Background())

	waitFor(t, func() bool { return p.Iterations() >= 1 }, "poller never iterated")
	p.Stop()

	after := p.Iterations()
	time.Sleep(30 * time.Millisecond)
	if p.Iterations() != after {
		t.Fatalf("iterations continued after Stop: %d then %d", after, p.Iterations())
	}
	if p.LastRun().IsZero() {
		t.Fatal("last run timestamp should be recorded")
	}
}
