// Package audit records security-relevant events (authentication outcomes,
// resource mutations) as structured records.
package audit

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Event types.
const (
	AuthMissing     = "auth.missing"
	AuthUnknownUser = "auth.unknown_user"
	AuthFailed      = "auth.failed"
	AuthSucceeded   = "auth.succeeded"
	UserCreated     = "user.created"
	CourseCreated   = "course.created"
	CourseUpdated   = "course.updated"
	CourseDeleted   = "course.deleted"
	CourseDenied    = "course.denied"
)

// Event is a single audit record.
type Event struct {
	Type      string         `json:"type"`
	Actor     string         `json:"actor,omitempty"`   // email of the caller, if known
	Subject   string         `json:"subject,omitempty"` // e.g. "course/12"
	RequestID string         `json:"requestId,omitempty"`
	At        time.Time      `json:"at"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// Recorder persists or forwards audit events. Record must not block the
// request for long and never fails it.
type Recorder interface {
	Record(ctx context.Context, ev Event)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Record(context.Context, Event) {}

// Multi fans an event out to several recorders.
type Multi []Recorder

func (m Multi) Record(ctx context.Context, ev Event) {
	for _, r := range m {
		r.Record(ctx, ev)
	}
}

// SlogRecorder writes each event as one structured log line.
type SlogRecorder struct {
	log *slog.Logger
}

func NewSlogRecorder(log *slog.Logger) *SlogRecorder {
	return &SlogRecorder{log: log.With("component", "audit")}
}

func (r *SlogRecorder) Record(ctx context.Context, ev Event) {
	args := []any{"event", ev.Type}
	if ev.Actor != "" {
		args = append(args, "actor", ev.Actor)
	}
	if ev.Subject != "" {
		args = append(args, "subject", ev.Subject)
	}
	if ev.RequestID != "" {
		args = append(args, "request_id", ev.RequestID)
	}
	for k, v := range ev.Attrs {
		args = append(args, k, v)
	}
	r.log.Log(ctx, levelFor(ev.Type), "audit event", args...)
}

// Failed authentication is worth a warning, everything else is routine.
func levelFor(eventType string) slog.Level {
	switch eventType {
	case AuthMissing, AuthUnknownUser, AuthFailed, CourseDenied:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// Publisher is the part of the MQTT client the recorder needs.
type Publisher interface {
	Publish(topic string, payload any) error
}

// DefaultQueueSize bounds how many events may wait for the broker.
const DefaultQueueSize = 256

// MQTTRecorder publishes events as JSON to "<prefix>/<type>", with dots in
// the type turned into topic levels. Publishing happens on a background
// goroutine so a slow broker never holds up a request; when the queue is
// full the event is dropped and counted.
type MQTTRecorder struct {
	pub    Publisher
	prefix string
	log    *slog.Logger

	queue   chan Event
	done    chan struct{}
	mu      sync.RWMutex // guards closed against sends on a closed queue
	closed  bool
	dropped atomic.Int64
}

func NewMQTTRecorder(pub Publisher, prefix string, log *slog.Logger) *MQTTRecorder {
	return NewMQTTRecorderSize(pub, prefix, log, DefaultQueueSize)
}

// NewMQTTRecorderSize is NewMQTTRecorder with an explicit queue size.
func NewMQTTRecorderSize(pub Publisher, prefix string, log *slog.Logger, size int) *MQTTRecorder {
	if size < 1 {
		size = 1
	}
	r := &MQTTRecorder{
		pub:    pub,
		prefix: strings.TrimSuffix(prefix, "/"),
		log:    log,
		queue:  make(chan Event, size),
		done:   make(chan struct{}),
	}
	go r.run()
	return r
}

// Record enqueues ev and returns immediately.
func (r *MQTTRecorder) Record(ctx context.Context, ev Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.queue <- ev:
	default:
		n := r.dropped.Add(1)
		r.log.WarnContext(ctx, "audit queue full, event dropped", "event", ev.Type, "dropped_total", n)
	}
}

// Dropped returns how many events were discarded because the queue was full.
func (r *MQTTRecorder) Dropped() int64 {
	return r.dropped.Load()
}

// Close stops accepting events and waits for the queued ones to be
// published. Safe to call more than once.
func (r *MQTTRecorder) Close() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()
	<-r.done
}

func (r *MQTTRecorder) run() {
	defer close(r.done)
	for ev := range r.queue {
		topic := r.prefix + "/" + strings.ReplaceAll(ev.Type, ".", "/")
		if err := r.pub.Publish(topic, ev); err != nil {
			r.log.Warn("publish audit event", "topic", topic, "error", err)
		}
	}
}
