// Package notify provides transient, auto-dismissing user-facing
// messages. A new notification replaces the current one and cancels
// its pending dismissal.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notification for styling
type Kind string

// The fixed set of notification kinds
const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notification is one displayed message
type Notification struct {
	ID      uuid.UUID
	Message string
	Kind    Kind
	At      time.Time
}

// Listener observes notification changes. A nil notification means the
// current one was dismissed.
type Listener func(*Notification)

// Center owns the single currently displayed notification
type Center struct {
	mu        sync.Mutex
	current   *Notification
	dismissal *time.Timer
	delay     time.Duration
	listeners []Listener
}

// NewCenter creates a notification center with the given auto-dismiss
// delay
func NewCenter(delay time.Duration) *Center {
	if delay <= 0 {
		delay = 3 * time.Second
	}
	return &Center{delay: delay}
}

// Subscribe registers a listener for notification changes
func (c *Center) Subscribe(l Listener) {
	c.mu.Lock()
	c.listeners = append(c.listeners, l)
	c.mu.Unlock()
}

// Notify replaces the current notification and schedules its
// auto-dismissal, cancelling the previous one's pending dismissal
func (c *Center) Notify(message string, kind Kind) Notification {
	c.mu.Lock()

	if c.dismissal != nil {
		c.dismissal.Stop()
	}

	n := &Notification{
		ID:      uuid.New(),
		Message: message,
		Kind:    kind,
		At:      time.Now(),
	}
	c.current = n

	id := n.ID
	c.dismissal = time.AfterFunc(c.delay, func() {
		c.dismiss(id)
	})

	listeners := append([]Listener(nil), c.listeners...)
	c.mu.Unlock()

	for _, l := range listeners {
		l(n)
	}
	return *n
}

// Current returns the displayed notification, or nil when none is
// showing
func (c *Center) Current() *Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	n := *c.current
	return &n
}

// Dismiss clears the current notification immediately
func (c *Center) Dismiss() {
	c.mu.Lock()
	if c.dismissal != nil {
		c.dismissal.Stop()
	}
	c.current = nil
	listeners := append([]Listener(nil), c.listeners...)
	c.mu.Unlock()

	for _, l := range listeners {
		l(nil)
	}
}

// dismiss clears the notification only if it is still the one the
// timer was armed for
func (c *Center) dismiss(id uuid.UUID) {
	c.mu.Lock()
	if c.current == nil || c.current.ID != id {
		c.mu.Unlock()
		return
	}
	c.current = nil
	listeners := append([]Listener(nil), c.listeners...)
	c.mu.Unlock()

	for _, l := range listeners {
		l(nil)
	}
}
