// Package logging implements the fire-and-forget structured event collaborator.
// Events describe significant steps of core operations (received request,
// validation failure, collision, success) and are delivered best-effort to a
// remote sink: a delivery failure never affects the outcome of the operation
// that emitted the event.
package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Severity levels accepted by the sink.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// stack tags every event emitted by this service.
const stack = "backend"

// Event is one structured diagnostic record.
type Event struct {
	Stack   string `json:"stack"`
	Level   string `json:"level"`
	Package string `json:"package"`
	Message string `json:"message"`
}

// EventLogger emits structured events. Implementations must never block the
// caller and must swallow delivery errors.
type EventLogger interface {
	Log(level, component, message string)
}

// NopLogger discards every event. Used when no sink endpoint is configured.
type NopLogger struct{}

func (NopLogger) Log(level, component, message string) {}

// Sink delivers a single event to its destination.
type Sink interface {
	Deliver(event Event) error
}

// HTTPSink posts events as JSON to a remote log endpoint, authenticated with
// a bearer token.
type HTTPSink struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewHTTPSink creates a sink for the given endpoint. The token may be empty,
// in which case no Authorization header is sent.
func NewHTTPSink(endpoint, token string) *HTTPSink {
	return &HTTPSink{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Deliver posts one event. Non-2xx responses are reported as errors so the
// worker can log the failure locally.
func (s *HTTPSink) Deliver(event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode log event: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build log request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver log event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("log sink rejected event with status %d", resp.StatusCode)
	}
	return nil
}

// ChannelLogger enqueues events on a buffered channel consumed by the worker
// pool. The send is non-blocking: when the buffer is full the event is
// dropped, prioritizing the core operation over perfect diagnostics.
type ChannelLogger struct {
	events chan<- Event
}

// NewChannelLogger wraps the given channel.
func NewChannelLogger(events chan<- Event) *ChannelLogger {
	return &ChannelLogger{events: events}
}

// Log queues one event for asynchronous delivery.
func (l *ChannelLogger) Log(level, component, message string) {
	event := Event{
		Stack:   stack,
		Level:   level,
		Package: component,
		Message: message,
	}
	select {
	case l.events <- event:
	default:
		log.Printf("WARNING: log event channel is full, dropping %s event from %s", level, component)
	}
}

var (
	_ EventLogger = (*ChannelLogger)(nil)
	_ EventLogger = NopLogger{}
	_ Sink        = (*HTTPSink)(nil)
)
