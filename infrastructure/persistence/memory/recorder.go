package memory

import (
	"context"
	"sync"
	"time"

	"medremind-backend/application/ports"
	"medremind-backend/domain/events"
)

// NotificationRecorder is a ports.NotificationSink that records every
// emission and dismissal instead of delivering them.
type NotificationRecorder struct {
	mu        sync.Mutex
	emitted   []ports.Notification
	dismissed []string

	// FailEmits makes every Emit call return this error
	FailEmits error
}

// NewNotificationRecorder creates a new recorder
func NewNotificationRecorder() *NotificationRecorder {
	return &NotificationRecorder{}
}

// Emit records the notification
func (r *NotificationRecorder) Emit(_ context.Context, n ports.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailEmits != nil {
		return r.FailEmits
	}
	r.emitted = append(r.emitted, n)
	return nil
}

// Dismiss records the dismissal
func (r *NotificationRecorder) Dismiss(_ context.Context, _, notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dismissed = append(r.dismissed, notificationID)
	return nil
}

// Emitted returns a copy of all recorded notifications
func (r *NotificationRecorder) Emitted() []ports.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.Notification, len(r.emitted))
	copy(out, r.emitted)
	return out
}

// Dismissed returns a copy of all recorded dismissal IDs
func (r *NotificationRecorder) Dismissed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.dismissed))
	copy(out, r.dismissed)
	return out
}

// EventRecorder is a ports.EventPublisher that collects published events
type EventRecorder struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

// NewEventRecorder creates a new event recorder
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

// Publish records a single event
func (r *EventRecorder) Publish(_ context.Context, event events.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// PublishBatch records multiple events
func (r *EventRecorder) PublishBatch(_ context.Context, batch []events.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, batch...)
	return nil
}

// Events returns a copy of all recorded events
func (r *EventRecorder) Events() []events.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

// FixedClock is a ports.Clock pinned to one instant
type FixedClock struct {
	Instant time.Time
}

// Now returns the pinned instant
func (c FixedClock) Now() time.Time { return c.Instant }
