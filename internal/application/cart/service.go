// Package cart manages the shopping cart. Authenticated customers use
// the server-side cart; guests keep a local snapshot that survives
// restarts.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"go.uber.org/zap"

	"github.com/ecomm/storefront/internal/application/session"
	domaincart "github.com/ecomm/storefront/internal/domain/cart"
	"github.com/ecomm/storefront/internal/domain/catalog"
	"github.com/ecomm/storefront/internal/domain/shared"
	"github.com/ecomm/storefront/internal/infrastructure/gateway"
	"github.com/ecomm/storefront/internal/infrastructure/store"
)

// KeyGuestCart is the storage key for the guest cart snapshot
const KeyGuestCart = "cart.guest"

// Service orchestrates cart operations
type Service struct {
	carts    *gateway.Client
	products *gateway.Client
	sessions *session.Manager
	local    store.Store
	log      *zap.Logger
}

// NewService creates a cart service
func NewService(carts, products *gateway.Client, sessions *session.Manager, local store.Store, log *zap.Logger) *Service {
	return &Service{
		carts:    carts,
		products: products,
		sessions: sessions,
		local:    local,
		log:      log,
	}
}

// Current returns the cart for the active identity: the server cart
// for an authenticated customer, the local snapshot for a guest
func (s *Service) Current(ctx context.Context) (*domaincart.Cart, error) {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		return s.serverCart(ctx)
	}
	return s.guestCart(ctx)
}

// AddItem puts quantity units of a product in the cart. Authenticated
// customers go through the cart service; guests get the product
// details fetched and merged into the local snapshot.
func (s *Service) AddItem(ctx context.Context, productID string, quantity int) (*domaincart.Cart, error) {
	if quantity < 1 {
		return nil, shared.ErrInvalidInput
	}

	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		env := s.carts.Post(ctx, "/cart/items", map[string]any{
			"product_id": productID,
			"quantity":   quantity,
		})
		if !env.Succeeded() {
			if env.HTTPCode == 401 {
				return nil, shared.ErrSessionRequired
			}
			return nil, s.upstreamError(env, "failed to add item to cart")
		}
		return s.serverCart(ctx)
	}

	return s.guestAdd(ctx, productID, quantity)
}

// SetQuantity changes a line's quantity; zero or less removes it
func (s *Service) SetQuantity(ctx context.Context, productID string, quantity int) (*domaincart.Cart, error) {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		env := s.carts.Put(ctx, "/cart/items/"+url.PathEscape(productID), map[string]int{
			"quantity": quantity,
		})
		if !env.Succeeded() {
			return nil, s.upstreamError(env, "failed to update cart")
		}
		return s.serverCart(ctx)
	}

	c, err := s.guestCart(ctx)
	if err != nil {
		return nil, err
	}
	c.SetQuantity(productID, quantity)
	if err := s.saveGuest(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem takes a product out of the cart
func (s *Service) RemoveItem(ctx context.Context, productID string) (*domaincart.Cart, error) {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		env := s.carts.Delete(ctx, "/cart/items/"+url.PathEscape(productID))
		if !env.Succeeded() {
			return nil, s.upstreamError(env, "failed to remove item")
		}
		return s.serverCart(ctx)
	}

	c, err := s.guestCart(ctx)
	if err != nil {
		return nil, err
	}
	c.Remove(productID)
	if err := s.saveGuest(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context) error {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return err
	}
	if sess != nil {
		env := s.carts.Delete(ctx, "/cart")
		if !env.Succeeded() {
			return s.upstreamError(env, "failed to clear cart")
		}
		return nil
	}
	if err := s.local.Delete(ctx, KeyGuestCart); err != nil && !errors.Is(err, store.ErrKeyNotFound) {
		return err
	}
	return nil
}

// Merge pushes the guest cart into the server cart after login, then
// drops the local snapshot. Lines that fail to transfer are logged and
// kept out of the way; login is never blocked on them.
func (s *Service) Merge(ctx context.Context) error {
	c, err := s.guestCart(ctx)
	if err != nil {
		return err
	}
	if len(c.Items) == 0 {
		return nil
	}

	for _, item := range c.Items {
		env := s.carts.Post(ctx, "/cart/items", map[string]any{
			"product_id": item.ProductID,
			"quantity":   item.Quantity,
		})
		if !env.Succeeded() {
			s.log.Warn("failed to merge guest cart line",
				zap.String("product_id", item.ProductID),
				zap.String("message", env.Message))
		}
	}

	if err := s.local.Delete(ctx, KeyGuestCart); err != nil && !errors.Is(err, store.ErrKeyNotFound) {
		s.log.Warn("failed to drop merged guest cart", zap.Error(err))
	}
	return nil
}

func (s *Service) serverCart(ctx context.Context) (*domaincart.Cart, error) {
	env := s.carts.Get(ctx, "/cart")
	if !env.Succeeded() {
		return nil, s.upstreamError(env, "failed to load cart")
	}
	var c domaincart.Cart
	if err := env.DecodeData(&c); err != nil {
		if err := env.Decode(&c); err != nil {
			return nil, shared.NewDomainError("BAD_RESPONSE", "Unexpected cart format")
		}
	}
	c.Recalculate()
	return &c, nil
}

func (s *Service) guestCart(ctx context.Context) (*domaincart.Cart, error) {
	raw, err := s.local.Get(ctx, KeyGuestCart)
	if errors.Is(err, store.ErrKeyNotFound) {
		return domaincart.New(), nil
	}
	if err != nil {
		return nil, err
	}

	var c domaincart.Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		s.log.Warn("guest cart snapshot unreadable, starting fresh", zap.Error(err))
		return domaincart.New(), nil
	}
	c.Recalculate()
	return &c, nil
}

func (s *Service) guestAdd(ctx context.Context, productID string, quantity int) (*domaincart.Cart, error) {
	env := s.products.Get(ctx, "/products/"+url.PathEscape(productID))
	if !env.Succeeded() {
		return nil, s.upstreamError(env, "failed to load product")
	}

	raw := env.Data
	if len(raw) == 0 {
		raw = env.Body()
	}
	p, err := catalog.Normalize(raw)
	if err != nil {
		return nil, shared.NewDomainError("BAD_RESPONSE", "Unexpected product format")
	}

	c, err := s.guestCart(ctx)
	if err != nil {
		return nil, err
	}

	item := domaincart.Item{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  quantity,
	}
	if img := p.PrimaryImage(); img != nil {
		item.ImagePath = img.Path
	}
	c.Add(item)

	if err := s.saveGuest(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) saveGuest(ctx context.Context, c *domaincart.Cart) error {
	snapshot, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.local.Set(ctx, KeyGuestCart, string(snapshot))
}

func (s *Service) upstreamError(env *gateway.Envelope, fallback string) error {
	msg := env.Message
	if msg == "" {
		msg = fallback
	}
	s.log.Error("cart request failed",
		zap.Int("http_code", env.HTTPCode),
		zap.String("message", msg))
	return shared.NewDomainError("UPSTREAM_FAILURE", msg)
}
