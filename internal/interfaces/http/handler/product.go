package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/ecomm/storefront/internal/application/catalog"
	"github.com/ecomm/storefront/internal/domain/catalog"
	"github.com/ecomm/storefront/internal/infrastructure/gateway"
	"github.com/ecomm/storefront/internal/view"
)

// maxUploadMemory caps in-memory buffering of multipart forms
const maxUploadMemory = 32 << 20

// ProductHandler exposes catalog endpoints
type ProductHandler struct {
	BaseHandler
	catalog *catalogapp.Service
	views   *view.Controller
	log     *zap.Logger
}

// NewProductHandler creates a product handler
func NewProductHandler(svc *catalogapp.Service, views *view.Controller, log *zap.Logger) *ProductHandler {
	return &ProductHandler{catalog: svc, views: views, log: log}
}

// RegisterRoutes registers product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/products")
	g.GET("", h.List)
	g.GET("/featured", h.Featured)
	g.GET("/search", h.Search)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.PUT("/:id/images/:imageID/primary", h.SetPrimaryImage)
	g.DELETE("/:id/images/:imageID", h.DeleteImage)

	rg.GET("/categories", h.Categories)
	rg.GET("/manufacturers", h.Manufacturers)
	rg.GET("/categories/:name/products", h.ByCategory)
	rg.GET("/manufacturers/:name/products", h.ByManufacturer)
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.catalog.LoadProducts(c.Request.Context())
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, presentProducts(products))
}

// Get handles GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.catalog.ViewProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, presentProduct(p))
}

// Featured handles GET /products/featured?limit=...
func (h *ProductHandler) Featured(c *gin.Context) {
	products, err := h.catalog.Featured(c.Request.Context(), intQuery(c, "limit", 0))
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, presentProducts(products))
}

// Search handles GET /products/search?q=...
func (h *ProductHandler) Search(c *gin.Context) {
	products, err := h.catalog.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, presentProducts(products))
}

// Create handles POST /products. Accepts a multipart form with the
// product fields and optional image files, or a plain JSON body.
func (h *ProductHandler) Create(c *gin.Context) {
	form, images, ok := h.bindProductForm(c)
	if !ok {
		return
	}

	p, fieldErrs, err := h.catalog.Create(c.Request.Context(), form, images)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	if len(fieldErrs) > 0 {
		h.validationFailed(c, fieldErrs)
		return
	}
	h.Created(c, presentProduct(p))
}

// Update handles PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	form, images, ok := h.bindProductForm(c)
	if !ok {
		return
	}

	p, fieldErrs, err := h.catalog.Update(c.Request.Context(), c.Param("id"), form, images)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	if len(fieldErrs) > 0 {
		h.validationFailed(c, fieldErrs)
		return
	}
	h.Success(c, presentProduct(p))
}

// Delete handles DELETE /products/:id. Confirmation is carried by the
// client as ?confirmed=true; without it the delete is declined and no
// upstream request happens.
func (h *ProductHandler) Delete(c *gin.Context) {
	ctx := catalogapp.WithConfirmation(c.Request.Context(), c.Query("confirmed") == "true")
	if err := h.catalog.Delete(ctx, c.Param("id")); err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, gin.H{"deleted": true})
}

// SetPrimaryImage handles PUT /products/:id/images/:imageID/primary
func (h *ProductHandler) SetPrimaryImage(c *gin.Context) {
	p, err := h.catalog.SetPrimaryImage(c.Request.Context(), c.Param("id"), c.Param("imageID"))
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, presentProduct(p))
}

// DeleteImage handles DELETE /products/:id/images/:imageID
func (h *ProductHandler) DeleteImage(c *gin.Context) {
	p, err := h.catalog.DeleteImage(c.Request.Context(), c.Param("id"), c.Param("imageID"))
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, presentProduct(p))
}

// Categories handles GET /categories
func (h *ProductHandler) Categories(c *gin.Context) {
	values, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, values)
}

// Manufacturers handles GET /manufacturers
func (h *ProductHandler) Manufacturers(c *gin.Context) {
	values, err := h.catalog.Manufacturers(c.Request.Context())
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, values)
}

// ByCategory handles GET /categories/:name/products
func (h *ProductHandler) ByCategory(c *gin.Context) {
	products, err := h.catalog.ByCategory(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, presentProducts(products))
}

// ByManufacturer handles GET /manufacturers/:name/products
func (h *ProductHandler) ByManufacturer(c *gin.Context) {
	products, err := h.catalog.ByManufacturer(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, presentProducts(products))
}

// bindProductForm reads the product fields and any image files from
// the request. Reports false after writing an error response.
func (h *ProductHandler) bindProductForm(c *gin.Context) (catalog.Form, []gateway.File, bool) {
	var form catalog.Form

	contentType := c.ContentType()
	if contentType == "multipart/form-data" {
		if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
			h.BadRequest(c, "Invalid multipart form")
			return form, nil, false
		}
		form = catalog.Form{
			Name:         c.PostForm("name"),
			Price:        c.PostForm("price"),
			Stock:        c.PostForm("stock"),
			Description:  c.PostForm("description"),
			Category:     c.PostForm("category"),
			Manufacturer: c.PostForm("manufacturer"),
		}
		images, err := readUploads(c.Request.MultipartForm)
		if err != nil {
			h.BadRequest(c, "Failed to read uploaded files")
			return form, nil, false
		}
		return form, images, true
	}

	if err := c.ShouldBindJSON(&form); err != nil {
		h.BadRequest(c, "Invalid request body")
		return form, nil, false
	}
	return form, nil, true
}

func readUploads(mf *multipart.Form) ([]gateway.File, error) {
	if mf == nil {
		return nil, nil
	}
	headers := mf.File["images"]
	if len(headers) == 0 {
		headers = mf.File["files[]"]
	}

	var files []gateway.File
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, gateway.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     content,
		})
	}
	return files, nil
}

func (h *BaseHandler) validationFailed(c *gin.Context, fieldErrs catalog.FieldErrors) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status":  "error",
		"message": "Validation failed",
		"errors":  fieldErrs,
	})
}
