package handler

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ecomm/storefront/internal/notify"
	"github.com/ecomm/storefront/internal/view"
)

// UIHandler exposes the navigation and notification state that drives
// the rendered shell, plus the gallery slideshow for the hovered
// product card
type UIHandler struct {
	BaseHandler
	views    *view.Controller
	notifier *notify.Center

	mu      sync.Mutex
	gallery *view.Rotator
	slides  int
}

// NewUIHandler creates a UI handler
func NewUIHandler(views *view.Controller, notifier *notify.Center) *UIHandler {
	return &UIHandler{views: views, notifier: notifier}
}

// RegisterRoutes registers UI state routes
func (h *UIHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/ui")
	g.GET("/view", h.CurrentView)
	g.POST("/view", h.SwitchView)
	g.POST("/view/back", h.Back)
	g.GET("/notification", h.CurrentNotification)
	g.DELETE("/notification", h.DismissNotification)
	g.GET("/gallery", h.GalleryState)
	g.POST("/gallery", h.StartGallery)
	g.POST("/gallery/next", h.GalleryNext)
	g.POST("/gallery/prev", h.GalleryPrev)
	g.POST("/gallery/seek", h.GallerySeek)
	g.DELETE("/gallery", h.StopGallery)
}

// CurrentView handles GET /ui/view
func (h *UIHandler) CurrentView(c *gin.Context) {
	state := h.views.Snapshot()
	h.Success(c, gin.H{
		"active":      state.Active,
		"back_hidden": state.BackHidden,
		"add_visible": state.AddVisible,
	})
}

// SwitchView handles POST /ui/view. Switching to an unknown view is
// ignored; the response reports whichever view is active afterwards.
func (h *UIHandler) SwitchView(c *gin.Context) {
	var req struct {
		View string `json:"view" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	h.views.Switch(req.View)
	h.CurrentView(c)
}

// Back handles POST /ui/view/back
func (h *UIHandler) Back(c *gin.Context) {
	h.views.Back()
	h.CurrentView(c)
}

// CurrentNotification handles GET /ui/notification
func (h *UIHandler) CurrentNotification(c *gin.Context) {
	n := h.notifier.Current()
	if n == nil {
		h.Success(c, nil)
		return
	}
	h.Success(c, gin.H{
		"id":      n.ID,
		"message": n.Message,
		"kind":    n.Kind,
		"at":      n.At,
	})
}

// DismissNotification handles DELETE /ui/notification
func (h *UIHandler) DismissNotification(c *gin.Context) {
	h.notifier.Dismiss()
	h.Success(c, gin.H{"dismissed": true})
}

// StartGallery handles POST /ui/gallery: begins the slideshow over a
// product card's images (the hover-enter action). A new start replaces
// the previous gallery.
func (h *UIHandler) StartGallery(c *gin.Context) {
	var req struct {
		Count      int `json:"count" binding:"required"`
		IntervalMS int `json:"interval_ms"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Count < 1 {
		h.BadRequest(c, "Invalid request body")
		return
	}

	h.mu.Lock()
	if h.gallery != nil {
		h.gallery.Stop()
	}
	h.gallery = view.NewRotator(req.Count, time.Duration(req.IntervalMS)*time.Millisecond, nil)
	h.slides = req.Count
	h.gallery.Start()
	h.mu.Unlock()

	h.GalleryState(c)
}

// GalleryState handles GET /ui/gallery
func (h *UIHandler) GalleryState(c *gin.Context) {
	h.mu.Lock()
	gallery, slides := h.gallery, h.slides
	h.mu.Unlock()

	if gallery == nil {
		h.Success(c, gin.H{"active": false})
		return
	}
	h.Success(c, gin.H{
		"active":  true,
		"index":   gallery.Index(),
		"count":   slides,
		"running": gallery.Running(),
	})
}

// GalleryNext handles POST /ui/gallery/next
func (h *UIHandler) GalleryNext(c *gin.Context) {
	h.withGallery(c, func(g *view.Rotator) { g.Next() })
}

// GalleryPrev handles POST /ui/gallery/prev
func (h *UIHandler) GalleryPrev(c *gin.Context) {
	h.withGallery(c, func(g *view.Rotator) { g.Prev() })
}

// GallerySeek handles POST /ui/gallery/seek
func (h *UIHandler) GallerySeek(c *gin.Context) {
	var req struct {
		Index int `json:"index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	h.withGallery(c, func(g *view.Rotator) { g.Seek(req.Index) })
}

// StopGallery handles DELETE /ui/gallery: ends the slideshow and
// resets it to the first slide (the hover-leave action)
func (h *UIHandler) StopGallery(c *gin.Context) {
	h.mu.Lock()
	if h.gallery != nil {
		h.gallery.Stop()
		h.gallery = nil
		h.slides = 0
	}
	h.mu.Unlock()
	h.Success(c, gin.H{"active": false})
}

func (h *UIHandler) withGallery(c *gin.Context, op func(*view.Rotator)) {
	h.mu.Lock()
	gallery := h.gallery
	h.mu.Unlock()

	if gallery == nil {
		h.BadRequest(c, "No gallery is active")
		return
	}
	op(gallery)
	h.GalleryState(c)
}
