package trustcore

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, AuditEvent) {
	s.count.Add(1)
}

func (s *countingSink) Count() int64 {
	return s.count.Load()
}

type captureSink struct {
	events chan AuditEvent
}

func newCaptureSink(buffer int) *captureSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &captureSink{
		events: make(chan AuditEvent, buffer),
	}
}

func (s *captureSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

type gateSink struct {
	gate chan struct{}
}

func newGateSink() *gateSink {
	return &gateSink{
		gate: make(chan struct{}),
	}
}

func (s *gateSink) Emit(context.Context, AuditEvent) {
	<-s.gate
}

func TestAuditDisabledNoSinkCalls(t *testing.T) {
	cfg := testConfig()
	cfg.Audit.Enabled = false

	sink := &countingSink{}
	engine := buildTestEngine(t, cfg, sink, nil)

	_, _ = engine.Authenticate(WithClientIP(context.Background(), "203.0.113.1"), "alice", "wrong-password")
	time.Sleep(30 * time.Millisecond)

	if sink.Count() != 0 {
		t.Fatalf("expected no audit sink calls when disabled, got %d", sink.Count())
	}
}

func TestAuditEnabledSinkReceivesEventWithFields(t *testing.T) {
	sink := newCaptureSink(8)
	engine := buildTestEngine(t, testConfig(), sink, nil)

	ctx := WithRequestID(WithClientIP(context.Background(), "198.51.100.33"), "req-42")
	_, err := engine.Authenticate(ctx, "alice", "correct-password-123")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	select {
	case ev := <-sink.events:
		if ev.EventType != auditEventLoginSuccess {
			t.Fatalf("event type = %q", ev.EventType)
		}
		if ev.ID == "" {
			t.Fatal("expected event id to be populated")
		}
		if ev.IP != "198.51.100.33" {
			t.Fatalf("expected IP 198.51.100.33, got %q", ev.IP)
		}
		if ev.RequestID != "req-42" {
			t.Fatalf("expected request id req-42, got %q", ev.RequestID)
		}
		if ev.Username != "alice" {
			t.Fatalf("expected username alice, got %q", ev.Username)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected audit event to be received")
	}
}

func TestAuditEventsNeverCarrySecrets(t *testing.T) {
	sink := newCaptureSink(32)
	engine := buildTestEngine(t, testConfig(), sink, nil)

	sensitivePassword := "correct-password-123"
	outcome, err := engine.Authenticate(context.Background(), "alice", sensitivePassword)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if err := engine.Logout(context.Background(), outcome.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	secretNeedles := []string{sensitivePassword, outcome.Token}

	events := make([]AuditEvent, 0, 8)
	timeout := time.After(2 * time.Second)
collectLoop:
	for len(events) < 2 {
		select {
		case ev := <-sink.events:
			events = append(events, ev)
		case <-timeout:
			break collectLoop
		}
	}

	if len(events) == 0 {
		t.Fatal("expected at least one audit event")
	}

	for _, ev := range events {
		for _, needle := range secretNeedles {
			if stringContains(ev.Error, needle) || stringContains(ev.SessionRef, needle) {
				t.Fatalf("sensitive value leaked in audit event: %q", needle)
			}
			for k, v := range ev.Metadata {
				if stringContains(k, needle) || stringContains(v, needle) {
					t.Fatalf("sensitive value leaked in audit metadata: %q", needle)
				}
			}
		}
	}
}

func TestAuditBufferFullDropIfFullTrueDoesNotBlock(t *testing.T) {
	sink := newGateSink()
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 1,
		DropIfFull: true,
	}, sink)
	defer func() {
		close(sink.gate)
		dispatcher.Close()
	}()

	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e1"})
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e2"})

	start := time.Now()
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e3"})
	if time.Since(start) > 100*time.Millisecond {
		t.Fatal("expected non-blocking emit when DropIfFull is true")
	}
	if dispatcher.Dropped() == 0 {
		t.Fatal("expected dropped counter to increment when queue is full")
	}
}

func TestAuditBufferFullDropIfFullFalseBlocksUntilSpace(t *testing.T) {
	sink := newGateSink()
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 1,
		DropIfFull: false,
	}, sink)
	defer func() {
		close(sink.gate)
		dispatcher.Close()
	}()

	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e1"})
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e2"})

	done := make(chan struct{})
	go func() {
		dispatcher.Emit(context.Background(), AuditEvent{EventType: "e3"})
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("expected emit to block while buffer is full")
	case <-time.After(150 * time.Millisecond):
	}

	sink.gate <- struct{}{}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected blocked emit to proceed after space is available")
	}
}

func TestAuditJSONWriterSinkWritesJSONLines(t *testing.T) {
	var buf syncBuffer
	sink := NewJSONWriterSink(&buf)
	event := AuditEvent{
		ID:        newAuditEventID(),
		Timestamp: time.Now().UTC(),
		EventType: auditEventLoginSuccess,
		Username:  "alice",
		IP:        "127.0.0.1",
		Success:   true,
	}
	sink.Emit(context.Background(), event)

	if !buf.Contains("login_success") {
		t.Fatal("expected JSON log line to contain event type")
	}
	if !buf.Contains("\"username\":\"alice\"") {
		t.Fatal("expected JSON log line to contain username")
	}
}

func TestAuditZerologSinkWritesFields(t *testing.T) {
	var buf syncBuffer
	logger := zerolog.New(&buf)
	sink := NewZerologSink(logger)

	sink.Emit(context.Background(), AuditEvent{
		ID:        newAuditEventID(),
		Timestamp: time.Now().UTC(),
		EventType: auditEventLogoutSession,
		Username:  "alice",
		Success:   true,
		Metadata:  map[string]string{"reason": "user_request"},
	})

	if !buf.Contains("logout_session") {
		t.Fatal("expected log line to contain event type")
	}
	if !buf.Contains("meta_reason") {
		t.Fatal("expected log line to contain metadata")
	}
}

func TestAuditDispatcherStampsEventIdentity(t *testing.T) {
	sink := newCaptureSink(4)
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 4,
	}, sink)
	defer dispatcher.Close()

	dispatcher.Emit(context.Background(), AuditEvent{EventType: auditEventLoginFailure})

	select {
	case ev := <-sink.events:
		if ev.ID == "" {
			t.Fatal("expected dispatcher to stamp an event id")
		}
		if ev.Timestamp.IsZero() {
			t.Fatal("expected dispatcher to stamp a timestamp")
		}
		if ev.Timestamp.Location() != time.UTC {
			t.Fatalf("timestamp location = %v, want UTC", ev.Timestamp.Location())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected event to be delivered")
	}
}

func TestAuditDispatcherPreservesProducerFields(t *testing.T) {
	sink := newCaptureSink(4)
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 4,
	}, sink)
	defer dispatcher.Close()

	stamped := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	dispatcher.Emit(context.Background(), AuditEvent{
		ID:        "preset-id",
		Timestamp: stamped,
		EventType: auditEventLogoutSession,
	})

	select {
	case ev := <-sink.events:
		if ev.ID != "preset-id" {
			t.Fatalf("id = %q, want preset-id", ev.ID)
		}
		if !ev.Timestamp.Equal(stamped) {
			t.Fatalf("timestamp = %v, want %v", ev.Timestamp, stamped)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected event to be delivered")
	}
}

func TestAuditDispatcherDeliveredCountsDrainedEvents(t *testing.T) {
	sink := &countingSink{}
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 8,
	}, sink)

	for i := 0; i < 5; i++ {
		dispatcher.Emit(context.Background(), AuditEvent{EventType: auditEventLoginSuccess})
	}
	dispatcher.Close()

	if got := dispatcher.Delivered(); got != 5 {
		t.Fatalf("Delivered = %d, want 5", got)
	}
	if sink.Count() != 5 {
		t.Fatalf("sink received %d events, want 5", sink.Count())
	}
}

func TestAuditDispatcherCloseIdempotentAndEmitAfterCloseSafe(t *testing.T) {
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 4,
		DropIfFull: true,
	}, &countingSink{})

	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e1"})
	dispatcher.Close()
	dispatcher.Close()
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e2"})
}

type syncBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *syncBuffer) Contains(v string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return stringContains(string(b.buf), v)
}

func stringContains(s, sub string) bool {
	if len(sub) == 0 {
		return true
	}
	if len(sub) > len(s) {
		return false
	}
	for i := 0; i <= len(s)-len(sub); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
