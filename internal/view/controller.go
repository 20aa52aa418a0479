// Package view manages the single-visible-view navigation state and
// the lifecycle of work scoped to the active view.
package view

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Well-known view names
const (
	ViewProducts       = "products-view"
	ViewProductDetails = "product-details-view"
	ViewAddProduct     = "add-product-view"
	ViewEditProduct    = "edit-product-view"
	ViewLogin          = "login-view"
	ViewRegister       = "register-view"
	ViewProfile        = "profile-view"
	ViewCart           = "cart-view"
	ViewArticles       = "articles-view"
	ViewArticleDetails = "article-details-view"
)

// State is a snapshot of the navigation chrome
type State struct {
	Active     string
	BackHidden bool
	AddVisible bool
}

// Controller tracks which view is active. Exactly one view is visible
// at a time; switching views cancels any work started for the previous
// one.
type Controller struct {
	mu      sync.Mutex
	known   map[string]struct{}
	active  string
	home    string
	ctx     context.Context
	cancel  context.CancelFunc
	log     *zap.Logger
	onEnter map[string][]func(context.Context)
}

// NewController creates a controller over a closed set of view names.
// The first name is the home view and starts active.
func NewController(log *zap.Logger, views ...string) *Controller {
	if len(views) == 0 {
		views = []string{
			ViewProducts, ViewProductDetails, ViewAddProduct,
			ViewEditProduct, ViewLogin, ViewRegister, ViewProfile,
			ViewCart, ViewArticles, ViewArticleDetails,
		}
	}
	known := make(map[string]struct{}, len(views))
	for _, v := range views {
		known[v] = struct{}{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		known:   known,
		active:  views[0],
		home:    views[0],
		ctx:     ctx,
		cancel:  cancel,
		log:     log,
		onEnter: make(map[string][]func(context.Context)),
	}
}

// OnEnter registers a hook run each time the named view becomes active.
// The hook receives the view-scoped context, which is cancelled when
// the view is left.
func (c *Controller) OnEnter(view string, fn func(context.Context)) {
	c.mu.Lock()
	c.onEnter[view] = append(c.onEnter[view], fn)
	c.mu.Unlock()
}

// Switch makes the named view the active one. Unknown names are logged
// and ignored, leaving the current view in place.
func (c *Controller) Switch(view string) {
	c.mu.Lock()
	if _, ok := c.known[view]; !ok {
		c.mu.Unlock()
		c.log.Warn("ignoring switch to unknown view", zap.String("view", view))
		return
	}

	c.cancel()
	ctx, cancel := context.WithCancel(context.Background())
	c.ctx = ctx
	c.cancel = cancel
	c.active = view
	hooks := append([](func(context.Context))(nil), c.onEnter[view]...)
	c.mu.Unlock()

	for _, fn := range hooks {
		fn(ctx)
	}
}

// Active returns the currently visible view name
func (c *Controller) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Context returns the context scoped to the active view. It is
// cancelled the next time Switch is called.
func (c *Controller) Context() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctx
}

// IsVisible reports whether the named view is the active one
func (c *Controller) IsVisible(view string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active == view
}

// Snapshot returns the navigation chrome state. On the home view the
// back affordance is hidden and the add affordance shown; everywhere
// else the inverse.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	home := c.active == c.home
	return State{
		Active:     c.active,
		BackHidden: home,
		AddVisible: home,
	}
}

// Back returns to the home view
func (c *Controller) Back() {
	c.Switch(c.home)
}
