package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/ecomm/storefront/internal/application/catalog"
)

// SystemHandler handles health and system info endpoints
type SystemHandler struct {
	BaseHandler
	catalog   *catalogapp.Service
	startTime time.Time
}

// NewSystemHandler creates a system handler
func NewSystemHandler(catalog *catalogapp.Service) *SystemHandler {
	return &SystemHandler{catalog: catalog, startTime: time.Now()}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/system/info", h.Info)
}

// Health handles GET /health: reports this service plus the storage
// service it depends on
func (h *SystemHandler) Health(c *gin.Context) {
	storageUp := h.catalog.Health(c.Request.Context())
	status := "healthy"
	if !storageUp {
		status = "degraded"
	}
	h.Success(c, gin.H{
		"status":  status,
		"storage": storageUp,
		"uptime":  time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Info handles GET /system/info
func (h *SystemHandler) Info(c *gin.Context) {
	h.Success(c, gin.H{
		"name":       "Storefront API",
		"version":    "1.0.0",
		"go_version": runtime.Version(),
		"uptime":     time.Since(h.startTime).Round(time.Second).String(),
	})
}
