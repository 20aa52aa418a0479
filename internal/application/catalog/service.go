// Package catalog orchestrates product browsing and management against
// the storage service.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ecomm/storefront/internal/domain/catalog"
	"github.com/ecomm/storefront/internal/domain/shared"
	"github.com/ecomm/storefront/internal/infrastructure/gateway"
	"github.com/ecomm/storefront/internal/notify"
	"github.com/ecomm/storefront/internal/view"
)

// Confirmer asks the user to approve a destructive action. It returns
// true only when the user explicitly confirmed.
type Confirmer interface {
	Confirm(ctx context.Context, message string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface
type ConfirmerFunc func(ctx context.Context, message string) bool

// Confirm implements Confirmer
func (f ConfirmerFunc) Confirm(ctx context.Context, message string) bool {
	return f(ctx, message)
}

// Service orchestrates product operations
type Service struct {
	products *gateway.Client
	views    *view.Controller
	notifier *notify.Center
	confirm  Confirmer
	log      *zap.Logger

	saveBusy atomic.Bool
}

// NewService creates a catalog service
func NewService(products *gateway.Client, views *view.Controller, notifier *notify.Center, confirm Confirmer, log *zap.Logger) *Service {
	return &Service{
		products: products,
		views:    views,
		notifier: notifier,
		confirm:  confirm,
		log:      log,
	}
}

// LoadProducts fetches and normalizes the product list. Entries that
// cannot be normalized are skipped and logged; one bad record never
// empties the list.
func (s *Service) LoadProducts(ctx context.Context) ([]catalog.Product, error) {
	env := s.products.Get(ctx, "/products")
	if !env.Succeeded() {
		return nil, s.upstreamError(env, "failed to load products")
	}
	return s.decodeProductList(env)
}

// defaultFeaturedLimit is the homepage card count
const defaultFeaturedLimit = 6

// Featured returns up to limit products for the homepage. The storage
// service carries no curation flag, so selection is cheapest-first.
func (s *Service) Featured(ctx context.Context, limit int) ([]catalog.Product, error) {
	if limit <= 0 {
		limit = defaultFeaturedLimit
	}
	products, err := s.LoadProducts(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Price.LessThan(products[j].Price)
	})
	if len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

// ViewProduct fetches one product and makes the details view active
func (s *Service) ViewProduct(ctx context.Context, id string) (*catalog.Product, error) {
	env := s.products.Get(ctx, "/products/"+url.PathEscape(id))
	if !env.Succeeded() {
		return nil, s.upstreamError(env, "failed to load product")
	}
	p, err := s.decodeProduct(env)
	if err != nil {
		return nil, err
	}
	s.views.Switch(view.ViewProductDetails)
	return p, nil
}

// Create validates the form and, only when it is clean, creates the
// product. Images are uploaded best-effort afterwards: a failed upload
// produces a warning, not a failed create. On success the product list
// view becomes active again.
func (s *Service) Create(ctx context.Context, form catalog.Form, images []gateway.File) (*catalog.Product, catalog.FieldErrors, error) {
	if !s.saveBusy.CompareAndSwap(false, true) {
		return nil, nil, shared.ErrSubmitInFlight
	}
	defer s.saveBusy.Store(false)

	if errs := form.Validate(); len(errs) > 0 {
		return nil, errs, nil
	}

	env := s.products.Post(ctx, "/products", form.Payload())
	if !env.Succeeded() {
		return nil, nil, s.upstreamError(env, "failed to create product")
	}
	p, err := s.decodeProduct(env)
	if err != nil {
		return nil, nil, err
	}

	s.uploadImages(ctx, p.ID, images)

	s.notifier.Notify("Product created successfully", notify.KindSuccess)
	s.views.Switch(view.ViewProducts)
	return p, nil, nil
}

// Update validates the form and, only when it is clean, updates the
// product. Follows the same image and navigation rules as Create.
func (s *Service) Update(ctx context.Context, id string, form catalog.Form, images []gateway.File) (*catalog.Product, catalog.FieldErrors, error) {
	if !s.saveBusy.CompareAndSwap(false, true) {
		return nil, nil, shared.ErrSubmitInFlight
	}
	defer s.saveBusy.Store(false)

	if errs := form.Validate(); len(errs) > 0 {
		return nil, errs, nil
	}

	env := s.products.Put(ctx, "/products/"+url.PathEscape(id), form.Payload())
	if !env.Succeeded() {
		return nil, nil, s.upstreamError(env, "failed to update product")
	}
	p, err := s.decodeProduct(env)
	if err != nil {
		return nil, nil, err
	}
	if p.ID == "" {
		p.ID = id
	}

	s.uploadImages(ctx, p.ID, images)

	s.notifier.Notify("Product updated successfully", notify.KindSuccess)
	s.views.Switch(view.ViewProducts)
	return p, nil, nil
}

// Delete removes a product after user confirmation. A declined
// confirmation issues no request at all.
func (s *Service) Delete(ctx context.Context, id string) error {
	ok := s.confirm.Confirm(ctx, "Are you sure you want to delete this product?")
	if !ok {
		return shared.ErrConfirmDeclined
	}

	env := s.products.Delete(ctx, "/products/"+url.PathEscape(id))
	if !env.Succeeded() && !s.legacySuccess(env, "deleted") {
		return s.upstreamError(env, "failed to delete product")
	}

	s.notifier.Notify("Product deleted successfully", notify.KindSuccess)
	return nil
}

// SetPrimaryImage marks an image as the product's primary one and
// returns the freshly re-fetched product
func (s *Service) SetPrimaryImage(ctx context.Context, productID, imageID string) (*catalog.Product, error) {
	env := s.products.Put(ctx, fmt.Sprintf("/products/%s/images/%s/primary", url.PathEscape(productID), url.PathEscape(imageID)), nil)
	if !env.Succeeded() && !s.legacySuccess(env, "primary") {
		return nil, s.upstreamError(env, "failed to set primary image")
	}
	return s.refetch(ctx, productID)
}

// DeleteImage removes an image and returns the freshly re-fetched
// product
func (s *Service) DeleteImage(ctx context.Context, productID, imageID string) (*catalog.Product, error) {
	env := s.products.Delete(ctx, fmt.Sprintf("/products/%s/images/%s", url.PathEscape(productID), url.PathEscape(imageID)))
	if !env.Succeeded() && !s.legacySuccess(env, "deleted") {
		return nil, s.upstreamError(env, "failed to delete image")
	}
	return s.refetch(ctx, productID)
}

// Search queries products by free text
func (s *Service) Search(ctx context.Context, query string) ([]catalog.Product, error) {
	env := s.products.Get(ctx, "/products/search?q="+queryEscape(query))
	if !env.Succeeded() {
		return nil, s.upstreamError(env, "search failed")
	}
	return s.decodeProductList(env)
}

// ByCategory lists products in a category
func (s *Service) ByCategory(ctx context.Context, category string) ([]catalog.Product, error) {
	env := s.products.Get(ctx, "/products/category/"+url.PathEscape(strings.TrimSpace(category)))
	if !env.Succeeded() {
		return nil, s.upstreamError(env, "failed to load category")
	}
	return s.decodeProductList(env)
}

// ByManufacturer lists products from a manufacturer
func (s *Service) ByManufacturer(ctx context.Context, manufacturer string) ([]catalog.Product, error) {
	env := s.products.Get(ctx, "/products/manufacturer/"+url.PathEscape(strings.TrimSpace(manufacturer)))
	if !env.Succeeded() {
		return nil, s.upstreamError(env, "failed to load manufacturer")
	}
	return s.decodeProductList(env)
}

// Categories lists the known product categories
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.stringList(ctx, "/categories", "categories")
}

// Manufacturers lists the known manufacturers
func (s *Service) Manufacturers(ctx context.Context) ([]string, error) {
	return s.stringList(ctx, "/manufacturers", "manufacturers")
}

// Health reports whether the storage service answers its health probe
func (s *Service) Health(ctx context.Context) bool {
	return s.products.Get(ctx, "/health").Succeeded()
}

// uploadImages pushes product images best-effort: failures are
// surfaced as a warning notification and logged, never as an error
func (s *Service) uploadImages(ctx context.Context, productID string, images []gateway.File) {
	if len(images) == 0 {
		return
	}
	env := s.products.UploadFiles(ctx, fmt.Sprintf("/products/%s/images", url.PathEscape(productID)), images)
	if !env.Succeeded() {
		s.log.Warn("image upload failed",
			zap.String("product_id", productID),
			zap.String("message", env.Message))
		s.notifier.Notify("Product saved, but image upload failed", notify.KindWarning)
	}
}

func (s *Service) refetch(ctx context.Context, id string) (*catalog.Product, error) {
	env := s.products.Get(ctx, "/products/"+url.PathEscape(id))
	if !env.Succeeded() {
		return nil, s.upstreamError(env, "failed to reload product")
	}
	return s.decodeProduct(env)
}

// legacySuccess recognizes older storage deployments that answer
// mutations with a plain message instead of a status field. Matches
// are logged so the fallback is visible in operation.
func (s *Service) legacySuccess(env *gateway.Envelope, marker string) bool {
	if env.HTTPCode != 200 {
		return false
	}
	if !strings.Contains(strings.ToLower(env.Message), marker) {
		return false
	}
	s.log.Warn("accepting legacy success response",
		zap.String("marker", marker),
		zap.String("message", env.Message))
	return true
}

// decodeProductList tolerates every list shape the storage service has
// shipped: a bare array, {data: [...]}, {data: {products: [...]}},
// {products: [...]}, or a single object.
func (s *Service) decodeProductList(env *gateway.Envelope) ([]catalog.Product, error) {
	raw := env.Data
	if len(raw) == 0 {
		raw = env.Body()
	}

	items, err := extractProductArray(raw)
	if err != nil {
		return nil, shared.NewDomainError("BAD_RESPONSE", "Unexpected product list format")
	}

	products := make([]catalog.Product, 0, len(items))
	for i, item := range items {
		p, err := catalog.Normalize(item)
		if err != nil {
			s.log.Warn("skipping malformed product record",
				zap.Int("index", i), zap.Error(err))
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

func extractProductArray(raw json.RawMessage) ([]json.RawMessage, error) {
	raw = json.RawMessage(strings.TrimSpace(string(raw)))
	if len(raw) == 0 {
		return nil, nil
	}

	if raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var wrapper struct {
		Data     json.RawMessage   `json:"data"`
		Products []json.RawMessage `json:"products"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, err
	}
	if wrapper.Products != nil {
		return wrapper.Products, nil
	}
	if len(wrapper.Data) > 0 && string(wrapper.Data) != "null" {
		return extractProductArray(wrapper.Data)
	}

	// single object
	return []json.RawMessage{raw}, nil
}

func (s *Service) decodeProduct(env *gateway.Envelope) (*catalog.Product, error) {
	raw := env.Data
	if len(raw) == 0 {
		raw = env.Body()
	}

	var wrapper struct {
		Product json.RawMessage `json:"product"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && len(wrapper.Product) > 0 {
		raw = wrapper.Product
	}

	p, err := catalog.Normalize(raw)
	if err != nil {
		return nil, shared.NewDomainError("BAD_RESPONSE", "Unexpected product format")
	}
	return &p, nil
}

func (s *Service) stringList(ctx context.Context, path, what string) ([]string, error) {
	env := s.products.Get(ctx, path)
	if !env.Succeeded() {
		return nil, s.upstreamError(env, "failed to load "+what)
	}
	var values []string
	if err := env.DecodeData(&values); err == nil {
		return values, nil
	}
	var wrapper map[string][]string
	if err := env.Decode(&wrapper); err == nil {
		if v, ok := wrapper[what]; ok {
			return v, nil
		}
	}
	return nil, shared.NewDomainError("BAD_RESPONSE", "Unexpected "+what+" format")
}

func (s *Service) upstreamError(env *gateway.Envelope, fallback string) error {
	msg := env.Message
	if msg == "" {
		msg = fallback
	}
	s.log.Error("storage request failed",
		zap.Int("http_code", env.HTTPCode),
		zap.String("message", msg))
	return shared.NewDomainError("UPSTREAM_FAILURE", msg)
}

func queryEscape(s string) string {
	return url.QueryEscape(strings.TrimSpace(s))
}
