// Package notify holds the per-visit queue of transient user notices.
package notify

import (
	"sync"
	"time"

	"github.com/clinicconnect/clinicconnect-api/internal/models"
)

// DefaultCapacity is used when a non-positive capacity is requested
const DefaultCapacity = 20

// Sink accepts notifications. Delivery is best effort.
type Sink interface {
	Notify(kind models.NotificationKind, message string)
}

// Queue is a bounded, newest-first notification buffer. When full, the
// oldest notice is dropped.
type Queue struct {
	mu       sync.Mutex
	items    []models.Notification
	capacity int
	now      func() time.Time
}

// NewQueue creates a queue holding at most capacity notices
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{capacity: capacity, now: time.Now}
}

// Notify records a notice
func (q *Queue) Notify(kind models.NotificationKind, message string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := models.Notification{Kind: kind, Message: message, CreatedAt: q.now()}
	q.items = append([]models.Notification{n}, q.items...)
	if len(q.items) > q.capacity {
		q.items = q.items[:q.capacity]
	}
}

// Drain returns the pending notices, newest first, and clears the queue
func (q *Queue) Drain() []models.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	if out == nil {
		out = []models.Notification{}
	}
	return out
}

// Len returns the number of pending notices
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Discard is a Sink that drops everything
var Discard Sink = discard{}

type discard struct{}

func (discard) Notify(models.NotificationKind, string) {}
