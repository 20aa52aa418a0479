package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	mediaapp "github.com/ecomm/storefront/internal/application/media"
)

// MediaHandler exposes article, news and tag endpoints
type MediaHandler struct {
	BaseHandler
	media *mediaapp.Service
}

// NewMediaHandler creates a media handler
func NewMediaHandler(svc *mediaapp.Service) *MediaHandler {
	return &MediaHandler{media: svc}
}

// RegisterRoutes registers media routes
func (h *MediaHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/articles")
	g.GET("", h.List)
	g.GET("/featured", h.Featured)
	g.GET("/:id", h.Get)

	rg.GET("/news/latest", h.LatestNews)
	rg.GET("/tags", h.Tags)
	rg.GET("/tags/:slug/articles", h.ByTag)
}

// List handles GET /articles with type/tag/q/limit/offset filters
func (h *MediaHandler) List(c *gin.Context) {
	opts := mediaapp.ListOptions{
		Type:   c.Query("type"),
		Tag:    c.Query("tag"),
		Query:  c.Query("q"),
		Limit:  intQuery(c, "limit", 12),
		Offset: intQuery(c, "offset", 0),
	}

	page, err := h.media.Articles(c.Request.Context(), opts)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Articles, page.Total, page.Limit, page.Offset)
}

// Featured handles GET /articles/featured
func (h *MediaHandler) Featured(c *gin.Context) {
	articles, err := h.media.Featured(c.Request.Context(), intQuery(c, "limit", 5))
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, articles)
}

// Get handles GET /articles/:id
func (h *MediaHandler) Get(c *gin.Context) {
	article, err := h.media.ArticleByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, article)
}

// LatestNews handles GET /news/latest
func (h *MediaHandler) LatestNews(c *gin.Context) {
	articles, err := h.media.LatestNews(c.Request.Context(), intQuery(c, "limit", 3))
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, articles)
}

// Tags handles GET /tags
func (h *MediaHandler) Tags(c *gin.Context) {
	tags, err := h.media.Tags(c.Request.Context())
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, tags)
}

// ByTag handles GET /tags/:slug/articles
func (h *MediaHandler) ByTag(c *gin.Context) {
	page, err := h.media.ByTagSlug(c.Request.Context(), c.Param("slug"),
		intQuery(c, "limit", 12), intQuery(c, "offset", 0))
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Articles, page.Total, page.Limit, page.Offset)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
