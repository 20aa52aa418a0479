package handler

import (
	"github.com/gin-gonic/gin"

	cartapp "github.com/ecomm/storefront/internal/application/cart"
)

// CartHandler exposes cart endpoints
type CartHandler struct {
	BaseHandler
	cart *cartapp.Service
}

// NewCartHandler creates a cart handler
func NewCartHandler(svc *cartapp.Service) *CartHandler {
	return &CartHandler{cart: svc}
}

// RegisterRoutes registers cart routes
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/cart")
	g.GET("", h.Get)
	g.POST("/items", h.AddItem)
	g.PUT("/items/:productID", h.SetQuantity)
	g.DELETE("/items/:productID", h.RemoveItem)
	g.DELETE("", h.Clear)
}

// Get handles GET /cart
func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.cart.Current(c.Request.Context())
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, presentCart(cart))
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.cart.AddItem(c.Request.Context(), req.ProductID, req.Quantity)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, presentCart(cart))
}

// SetQuantity handles PUT /cart/items/:productID
func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.cart.SetQuantity(c.Request.Context(), c.Param("productID"), req.Quantity)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, presentCart(cart))
}

// RemoveItem handles DELETE /cart/items/:productID
func (h *CartHandler) RemoveItem(c *gin.Context) {
	cart, err := h.cart.RemoveItem(c.Request.Context(), c.Param("productID"))
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, presentCart(cart))
}

// Clear handles DELETE /cart
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.cart.Clear(c.Request.Context()); err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, gin.H{"cleared": true})
}
