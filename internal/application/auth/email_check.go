package auth

import (
	"context"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ecomm/storefront/internal/infrastructure/gateway"
)

// EmailChecker answers "is this email already registered" while a
// registration form is being typed into. Calls are debounced; when a
// new check arrives before the previous one has fired or finished, the
// previous one is cancelled and its result discarded.
type EmailChecker struct {
	customers *gateway.Client
	debounce  time.Duration
	log       *zap.Logger

	mu     sync.Mutex
	seq    uint64
	timer  *time.Timer
	cancel context.CancelFunc
}

// ExistsResult reports whether the checked email is taken
type ExistsResult struct {
	Email  string
	Exists bool
}

// NewEmailChecker creates a checker with the given debounce window
func NewEmailChecker(customers *gateway.Client, debounce time.Duration, log *zap.Logger) *EmailChecker {
	if debounce <= 0 {
		debounce = 400 * time.Millisecond
	}
	return &EmailChecker{customers: customers, debounce: debounce, log: log}
}

// Check schedules a lookup for email after the debounce window and
// delivers the outcome to fn. Scheduling a new check supersedes any
// pending or in-flight one; superseded checks never call fn. Invalid
// emails are ignored without a lookup.
func (c *EmailChecker) Check(email string, fn func(ExistsResult)) {
	if !validEmail(email) {
		c.Cancel()
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	seq := c.seq

	if c.timer != nil {
		c.timer.Stop()
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	c.timer = time.AfterFunc(c.debounce, func() {
		c.fire(seq, email, fn)
	})
}

// Cancel drops any pending or in-flight check
func (c *EmailChecker) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *EmailChecker) fire(seq uint64, email string, fn func(ExistsResult)) {
	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	env := c.customers.Get(ctx, "/check-email?email="+url.QueryEscape(email))

	c.mu.Lock()
	stale := seq != c.seq
	if !stale && c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()

	if stale || ctx.Err() != nil {
		return
	}

	var resp struct {
		Exists bool `json:"exists"`
	}
	if !env.Succeeded() {
		// treat lookup failures as "not taken" so typing is never blocked
		c.log.Debug("email check failed", zap.String("message", env.Message))
		fn(ExistsResult{Email: email, Exists: false})
		return
	}
	if err := env.Decode(&resp); err != nil {
		c.log.Debug("unreadable email check response", zap.Error(err))
	}
	fn(ExistsResult{Email: email, Exists: resp.Exists})
}

// CheckNow performs an immediate, undebounced lookup
func (c *EmailChecker) CheckNow(ctx context.Context, email string) (ExistsResult, error) {
	if !validEmail(email) {
		return ExistsResult{}, nil
	}
	env := c.customers.Get(ctx, "/check-email?email="+url.QueryEscape(email))
	var resp struct {
		Exists bool `json:"exists"`
	}
	if env.Succeeded() {
		if err := env.Decode(&resp); err != nil {
			c.log.Debug("unreadable email check response", zap.Error(err))
		}
	}
	return ExistsResult{Email: email, Exists: resp.Exists}, nil
}
