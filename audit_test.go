package pwquality

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
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

func buildAuditTestModule(t *testing.T, cfg Config, sink AuditSink, provider CheckerProvider) *Module {
	t.Helper()

	module, err := New().
		WithConfig(cfg).
		WithCheckerProvider(provider).
		WithLogger(testLogger()).
		WithUIDSource(func() int { return 1000 }).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(module.Close)

	return module
}

func auditTestConfig() Config {
	cfg := defaultConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 16
	cfg.Audit.DropIfFull = true
	return cfg
}

func TestAuditDisabledNoSinkCalls(t *testing.T) {
	cfg := defaultConfig()
	cfg.Audit.Enabled = false

	sink := &countingSink{}
	module := buildAuditTestModule(t, cfg, sink, rejectingProvider())

	sess := newMockSession()
	sess.authTokens = tokens("weak")
	_ = module.ChangeAuthTok(context.Background(), sess, FlagUpdateAuthTok, []string{"retry=1"})
	time.Sleep(30 * time.Millisecond)

	if sink.Count() != 0 {
		t.Fatalf("expected no audit sink calls when disabled, got %d", sink.Count())
	}
}

func TestAuditSuccessEventCarriesContextFields(t *testing.T) {
	provider := rejectingProvider(checkStep{score: 40})
	sink := newCaptureSink(8)
	module := buildAuditTestModule(t, auditTestConfig(), sink, provider)

	sess := newMockSession()
	sess.authTokens = tokens("Str0ng&Secure9Z")

	ctx := WithRemoteHost(WithUser(WithService(context.Background(), "sshd"), "alice"), "198.51.100.33")
	if err := module.ChangeAuthTok(ctx, sess, FlagUpdateAuthTok, []string{"retry=1"}); err != nil {
		t.Fatalf("change failed: %v", err)
	}

	select {
	case ev := <-sink.events:
		if ev.EventType != auditEventChangeSuccess {
			t.Fatalf("expected change_success, got %q", ev.EventType)
		}
		if !ev.Success {
			t.Fatal("expected success event")
		}
		if ev.Service != "sshd" {
			t.Fatalf("expected service sshd, got %q", ev.Service)
		}
		if ev.User != "alice" {
			t.Fatalf("expected user alice, got %q", ev.User)
		}
		if ev.RemoteHost != "198.51.100.33" {
			t.Fatalf("expected remote host 198.51.100.33, got %q", ev.RemoteHost)
		}
		if ev.Tries != 1 {
			t.Fatalf("expected one try, got %d", ev.Tries)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected an audit event")
	}
}

func TestAuditEventSequenceAcrossRetries(t *testing.T) {
	provider := rejectingProvider(
		checkStep{err: &QualityError{Code: CodePalindrome}},
		checkStep{score: 33},
	)
	sink := newCaptureSink(8)
	module := buildAuditTestModule(t, auditTestConfig(), sink, provider)

	sess := newMockSession()
	sess.authTokens = tokens("racecar", "Str0ng&Secure9Z")

	if err := module.ChangeAuthTok(context.Background(), sess, FlagUpdateAuthTok,
		[]string{"retry=2"}); err != nil {
		t.Fatalf("change failed: %v", err)
	}

	wantTypes := []string{auditEventChangeRejected, auditEventChangeSuccess}
	for _, want := range wantTypes {
		select {
		case ev := <-sink.events:
			if ev.EventType != want {
				t.Fatalf("expected %q, got %q", want, ev.EventType)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("expected %q event", want)
		}
	}
}

func TestAuditAbortAndExhaustionEvents(t *testing.T) {
	sink := newCaptureSink(8)
	module := buildAuditTestModule(t, auditTestConfig(), sink, rejectingProvider())

	sess := newMockSession()
	sess.authTokens = []authTokStep{{ok: false}}
	_ = module.ChangeAuthTok(context.Background(), sess, FlagUpdateAuthTok, []string{"retry=2"})

	select {
	case ev := <-sink.events:
		if ev.EventType != auditEventChangeAborted {
			t.Fatalf("expected change_aborted, got %q", ev.EventType)
		}
		if ev.Error != string(auditErrAborted) {
			t.Fatalf("expected user_abort code, got %q", ev.Error)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected abort event")
	}

	sess = newMockSession()
	sess.authTokens = tokens("weak1", "weak2")
	_ = module.ChangeAuthTok(context.Background(), sess, FlagUpdateAuthTok, []string{"retry=2"})

	// two rejections, then exhaustion
	var last AuditEvent
	for i := 0; i < 3; i++ {
		select {
		case last = <-sink.events:
		case <-time.After(2 * time.Second):
			t.Fatal("expected three events for the exhausted change")
		}
	}
	if last.EventType != auditEventRetriesExhausted {
		t.Fatalf("expected retries_exhausted, got %q", last.EventType)
	}
	if last.Tries != 2 {
		t.Fatalf("expected two tries recorded, got %d", last.Tries)
	}
	if last.Error != string(auditErrMaxTries) {
		t.Fatalf("expected retries_exhausted code, got %q", last.Error)
	}
}

func TestAuditRootOverrideEvent(t *testing.T) {
	provider := rejectingProvider(checkStep{err: &QualityError{Code: CodeMinLength}})
	sink := newCaptureSink(8)

	module, err := New().
		WithConfig(auditTestConfig()).
		WithCheckerProvider(provider).
		WithLogger(testLogger()).
		WithUIDSource(func() int { return 0 }).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(module.Close)

	sess := newMockSession()
	sess.authTokens = tokens("weak")
	sess.verifies = []verifyStep{{ok: true}}

	if err := module.ChangeAuthTok(context.Background(), sess, FlagUpdateAuthTok,
		[]string{"retry=1"}); err != nil {
		t.Fatalf("change failed: %v", err)
	}

	select {
	case ev := <-sink.events:
		if ev.EventType != auditEventRootOverride {
			t.Fatalf("expected root_override, got %q", ev.EventType)
		}
		if ev.Error != string(auditErrQuality) {
			t.Fatalf("expected quality_rejection code, got %q", ev.Error)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected override event")
	}
}

func TestAuditNoSecretsInEvents(t *testing.T) {
	cfg := auditTestConfig()
	cfg.Audit.DropIfFull = false

	provider := rejectingProvider(
		checkStep{err: &QualityError{Code: CodeMinLength}},
		checkStep{score: 51},
	)
	sink := newCaptureSink(32)
	module := buildAuditTestModule(t, cfg, sink, provider)

	weakSecret := "hunter2-weak-secret"
	strongSecret := "Str0ng&Secure9Z-final"

	sess := newMockSession()
	sess.items[ItemOldAuthTok] = "old-secret-value"
	sess.authTokens = tokens(weakSecret, strongSecret)

	if err := module.ChangeAuthTok(context.Background(), sess, FlagUpdateAuthTok,
		[]string{"retry=2"}); err != nil {
		t.Fatalf("change failed: %v", err)
	}

	secretNeedles := []string{weakSecret, strongSecret, "old-secret-value"}

	events := make([]AuditEvent, 0, 8)
	timeout := time.After(2 * time.Second)
collectLoop:
	for len(events) < 8 {
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
			if stringContains(ev.Error, needle) {
				t.Fatalf("sensitive value leaked in audit error field: %q", needle)
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
		Timestamp:  time.Now().UTC(),
		EventType:  auditEventChangeSuccess,
		Service:    "sshd",
		User:       "alice",
		RemoteHost: "127.0.0.1",
		Success:    true,
		Tries:      1,
	}
	sink.Emit(context.Background(), event)

	if !buf.Contains("change_success") {
		t.Fatal("expected JSON log line to contain event type")
	}
	if !buf.Contains("\"user\":\"alice\"") {
		t.Fatal("expected JSON log line to contain user")
	}
	if !buf.Contains("\"tries\":1") {
		t.Fatal("expected JSON log line to contain try count")
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

func TestAuditErrorCodeMapping(t *testing.T) {
	cases := []struct {
		err  error
		want AuditErrorCode
	}{
		{nil, ""},
		{ErrMemAlloc, auditErrMemAlloc},
		{ErrAborted, auditErrAborted},
		{ErrMaxTries, auditErrMaxTries},
		{ErrAuthTok, auditErrAuthTok},
		{&QualityError{Code: CodeMinLength}, auditErrQuality},
		{ErrService, auditErrService},
		{errors.New("anything else"), auditErrInternal},
	}
	for _, tc := range cases {
		if got := auditErrorCode(tc.err); got != tc.want {
			t.Fatalf("%v: expected %q, got %q", tc.err, tc.want, got)
		}
	}
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
