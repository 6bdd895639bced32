package signal

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/polkiloo/ordernotify/internal/domain/model"
)

// Client exposes the chat transport used for all outbound and inbound traffic.
type Client interface {
	Send(ctx context.Context, recipient, text string, isGroup bool) bool
	Receive(ctx context.Context) []model.InboundMessage
	Check(ctx context.Context) bool
}

// Runner executes one signal-cli invocation and returns its stdout.
type Runner func(ctx context.Context, args ...string) ([]byte, error)

// CLIClient drives the signal-cli binary. Delivery failures are retried with
// exponential backoff and surface as a boolean, never as an error: callers use
// the result to decide on fallback, not to abort.
type CLIClient struct {
	number         string
	maxRetries     int
	sendTimeout    time.Duration
	receiveTimeout time.Duration
	run            Runner
	sleep          func(time.Duration)
	logger         *slog.Logger
}

// Option customizes a CLIClient.
type Option func(*CLIClient)

// WithRunner replaces the subprocess runner.
func WithRunner(run Runner) Option {
	return func(c *CLIClient) { c.run = run }
}

// WithSleep replaces the inter-attempt wait.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *CLIClient) { c.sleep = sleep }
}

// NewCLIClient constructs the transport client.
func NewCLIClient(number string, maxRetries int, sendTimeout, receiveTimeout time.Duration, logger *slog.Logger, opts ...Option) *CLIClient {
	if maxRetries <= 0 {
		maxRetries = 1
	}
	c := &CLIClient{
		number:         number,
		maxRetries:     maxRetries,
		sendTimeout:    sendTimeout,
		receiveTimeout: receiveTimeout,
		run:            runSignalCLI,
		sleep:          time.Sleep,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func runSignalCLI(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "signal-cli", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return stdout.Bytes(), &cliError{err: err, stderr: stderr.String()}
		}
		return stdout.Bytes(), err
	}
	return stdout.Bytes(), nil
}

type cliError struct {
	err    error
	stderr string
}

func (e *cliError) Error() string {
	return e.err.Error() + ": " + strings.TrimSpace(e.stderr)
}

func (e *cliError) Unwrap() error { return e.err }

// Send delivers text to a number or group, retrying up to maxRetries times
// with 2^attempt second waits between attempts. Returns false only after all
// attempts are exhausted.
func (c *CLIClient) Send(ctx context.Context, recipient, text string, isGroup bool) bool {
	args := []string{"-a", c.number, "send"}
	if isGroup {
		args = append(args, "-g", recipient)
	} else {
		args = append(args, recipient)
	}
	args = append(args, "-m", text)

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		sendCtx, cancel := context.WithTimeout(ctx, c.sendTimeout)
		_, err := c.run(sendCtx, args...)
		cancel()

		if err == nil {
			c.logger.Info("message sent", slog.String("recipient", recipient))
			return true
		}
		c.logger.Error("send failed",
			slog.String("recipient", recipient),
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))

		if attempt < c.maxRetries-1 {
			wait := time.Duration(1<<uint(attempt)) * time.Second
			c.logger.Info("retrying send", slog.Duration("wait", wait))
			c.sleep(wait)
		}
	}

	c.logger.Error("all send attempts failed", slog.String("recipient", recipient))
	return false
}

// Receive drains pending inbound messages with a single bounded call.
// Malformed lines are skipped; a wholesale transport failure yields an empty
// batch, which callers must treat as "nothing available".
func (c *CLIClient) Receive(ctx context.Context) []model.InboundMessage {
	recvCtx, cancel := context.WithTimeout(ctx, c.receiveTimeout)
	defer cancel()

	out, err := c.run(recvCtx, "-a", c.number, "receive", "--output=json")
	if err != nil {
		c.logger.Error("receive failed", slog.String("error", err.Error()))
		return nil
	}

	var messages []model.InboundMessage
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		msg, ok := parseEnvelope([]byte(line))
		if !ok {
			c.logger.Warn("skipping malformed envelope", slog.String("line", line))
			continue
		}
		if msg.Sender == "" || msg.Body == "" {
			continue
		}
		messages = append(messages, msg)
	}
	return messages
}

// Check probes signal-cli connectivity.
func (c *CLIClient) Check(ctx context.Context) bool {
	checkCtx, cancel := context.WithTimeout(ctx, c.receiveTimeout)
	defer cancel()

	if _, err := c.run(checkCtx, "-a", c.number, "listIdentities"); err != nil {
		c.logger.Error("signal-cli check failed", slog.String("error", err.Error()))
		return false
	}
	return true
}

// envelope mirrors the signal-cli JSON output shape we consume. Receipts and
// other envelopes without a dataMessage are ignored.
type envelope struct {
	Envelope struct {
		Source      string `json:"source"`
		DataMessage *struct {
			Message string `json:"message"`
		} `json:"dataMessage"`
	} `json:"envelope"`
}

func parseEnvelope(raw []byte) (model.InboundMessage, bool) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return model.InboundMessage{}, false
	}
	if env.Envelope.DataMessage == nil {
		return model.InboundMessage{}, true
	}
	return model.InboundMessage{
		Sender: env.Envelope.Source,
		Body:   strings.TrimSpace(env.Envelope.DataMessage.Message),
	}, true
}
