package pwquality

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"
)

type AuditEvent struct {
	Timestamp  time.Time         `json:"timestamp"`
	EventType  string            `json:"event_type"`
	Service    string            `json:"service,omitempty"`
	User       string            `json:"user,omitempty"`
	RemoteHost string            `json:"remote_host,omitempty"`
	Success    bool              `json:"success"`
	Tries      int               `json:"tries,omitempty"`
	Error      string            `json:"error,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, AuditEvent) {}

type ChannelSink struct {
	events chan AuditEvent
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan AuditEvent, buffer),
	}
}

func (s *ChannelSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

func (s *JSONWriterSink) Emit(ctx context.Context, event AuditEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}

const (
	auditEventChangeSuccess    = "change_success"
	auditEventChangeRejected   = "change_rejected"
	auditEventRootOverride     = "root_override"
	auditEventChangeAborted    = "change_aborted"
	auditEventRetriesExhausted = "retries_exhausted"
)

// AuditErrorCode defines a public type used by pwquality APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrMemAlloc AuditErrorCode = "allocation_failure"
	auditErrAborted  AuditErrorCode = "user_abort"
	auditErrMaxTries AuditErrorCode = "retries_exhausted"
	auditErrAuthTok  AuditErrorCode = "authtok_manipulation"
	auditErrQuality  AuditErrorCode = "quality_rejection"
	auditErrService  AuditErrorCode = "service_error"
	auditErrInternal AuditErrorCode = "internal_error"
)

func (m *Module) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	tries int,
	err error,
	metadataBuilder func() map[string]string,
) {
	if m == nil || m.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp:  time.Now().UTC(),
		EventType:  eventType,
		Service:    serviceFromContext(ctx),
		User:       UserFromContext(ctx),
		RemoteHost: remoteHostFromContext(ctx),
		Success:    success,
		Tries:      tries,
		Metadata:   metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	m.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	var qerr *QualityError

	switch {
	case errors.Is(err, ErrMemAlloc):
		return auditErrMemAlloc
	case errors.Is(err, ErrAborted):
		return auditErrAborted
	case errors.Is(err, ErrMaxTries):
		return auditErrMaxTries
	case errors.As(err, &qerr):
		return auditErrQuality
	case errors.Is(err, ErrAuthTok):
		return auditErrAuthTok
	case errors.Is(err, ErrService):
		return auditErrService
	default:
		return auditErrInternal
	}
}
