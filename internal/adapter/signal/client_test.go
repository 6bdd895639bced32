package signal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestSendSuccessFirstAttempt(t *testing.T) {
	var calls [][]string
	client := NewCLIClient("+15550001111", 3, time.Second, time.Second, discardLogger(),
		WithRunner(func(ctx context.Context, args ...string) ([]byte, error) {
			calls = append(calls, args)
			return nil, nil
		}),
		WithSleep(func(time.Duration) { t.Fatal("should not sleep on success") }),
	)

	if !client.Send(context.Background(), "+15550002222", "hello", false) {
		t.Fatal("expected success")
	}
	if len(calls) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(calls))
	}
	got := strings.Join(calls[0], " ")
	want := "-a +15550001111 send +15550002222 -m hello"
	if got != want {
		t.Fatalf("unexpected args %q, want %q", got, want)
	}
}

func TestSendGroupArgs(t *testing.T) {
	var calls [][]string
	client := NewCLIClient("+15550001111", 1, time.Second, time.Second, discardLogger(),
		WithRunner(func(ctx context.Context, args ...string) ([]byte, error) {
			calls = append(calls, args)
			return nil, nil
		}),
	)

	client.Send(context.Background(), "group-id", "hi", true)
	got := strings.Join(calls[0], " ")
	if !strings.Contains(got, "send -g group-id") {
		t.Fatalf("expected group flag in %q", got)
	}
}

func TestSendRetriesWithExponentialBackoff(t *testing.T) {
	var attempts int
	var waits []time.Duration
	client := NewCLIClient("+15550001111", 3, time.Second, time.Second, discardLogger(),
		WithRunner(func(ctx context.Context, args ...string) ([]byte, error) {
			attempts++
			return nil, errors.New("exit status 1")
		}),
		WithSleep(func(d time.Duration) { waits = append(waits, d) }),
	)

	if client.Send(context.Background(), "+15550002222", "hello", false) {
		t.Fatal("expected failure")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if len(waits) != 2 {
		t.Fatalf("expected 2 waits, got %d", len(waits))
	}
	if waits[0] != time.Second || waits[1] != 2*time.Second {
		t.Fatalf("expected doubling waits, got %v", waits)
	}
}

func TestSendStopsRetryingAfterSuccess(t *testing.T) {
	var attempts int
	client := NewCLIClient("+15550001111", 3, time.Second, time.Second, discardLogger(),
		WithRunner(func(ctx context.Context, args ...string) ([]byte, error) {
			attempts++
			if attempts < 2 {
				return nil, errors.New("exit status 1")
			}
			return nil, nil
		}),
		WithSleep(func(time.Duration) {}),
	)

	if !client.Send(context.Background(), "+15550002222", "hello", false) {
		t.Fatal("expected eventual success")
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestReceiveParsesEnvelopes(t *testing.T) {
	out := strings.Join([]string{
		`{"envelope":{"source":"+15550002222","dataMessage":{"message":"go"}}}`,
		`not json at all`,
		`{"envelope":{"source":"+15550003333"}}`,
		`{"envelope":{"source":"+15550004444","dataMessage":{"message":"  New API key  "}}}`,
		``,
	}, "\n")

	client := NewCLIClient("+15550001111", 1, time.Second, time.Second, discardLogger(),
		WithRunner(func(ctx context.Context, args ...string) ([]byte, error) {
			return []byte(out), nil
		}),
	)

	messages := client.Receive(context.Background())
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d: %+v", len(messages), messages)
	}
	if messages[0].Sender != "+15550002222" || messages[0].Body != "go" {
		t.Fatalf("unexpected first message: %+v", messages[0])
	}
	if messages[1].Body != "New API key" {
		t.Fatalf("expected trimmed body, got %q", messages[1].Body)
	}
}

func TestReceiveFailureYieldsEmptyBatch(t *testing.T) {
	client := NewCLIClient("+15550001111", 1, time.Second, time.Second, discardLogger(),
		WithRunner(func(ctx context.Context, args ...string) ([]byte, error) {
			return nil, errors.New("exit status 1")
		}),
	)

	if messages := client.Receive(context.Background()); len(messages) != 0 {
		t.Fatalf("expected empty batch, got %+v", messages)
	}
}

func TestCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		client := NewCLIClient("+15550001111", 1, time.Second, time.Second, discardLogger(),
			WithRunner(func(ctx context.Context, args ...string) ([]byte, error) {
				if strings.Join(args, " ") != "-a +15550001111 listIdentities" {
					t.Fatalf("unexpected args %v", args)
				}
				return nil, nil
			}),
		)
		if !client.Check(context.Background()) {
			t.Fatal("expected healthy")
		}
	})

	t.Run("unhealthy", func(t *testing.T) {
		client := NewCLIClient("+15550001111", 1, time.Second, time.Second, discardLogger(),
			WithRunner(func(ctx context.Context, args ...string) ([]byte, error) {
				return nil, errors.New("exit status 1")
			}),
		)
		if client.Check(context.Background()) {
			t.Fatal("expected unhealthy")
		}
	})
}
