// Package cart keeps a local mirror of the authoritative server-side cart.
//
// The mirror is a cache, never the source of truth: every mutation is
// followed by a full reload from the server before the mirror is trusted
// for display. Mutations never merge into the mirror; a reload replaces it
// wholesale so concurrent server-side changes (stock adjustments, other
// devices) cannot desynchronize it.
package cart

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/agricult/storectl/internal/api"
)

// Gateway is the slice of the API client the synchronizer needs.
type Gateway interface {
	Cart(ctx context.Context) (*api.Cart, error)
	AddToCart(ctx context.Context, productID int64, quantity int) error
	UpdateCartItem(ctx context.Context, itemID int64, quantity int) error
	RemoveCartItem(ctx context.Context, itemID int64) error
	PlaceOrder(ctx context.Context, req api.OrderRequest) (*api.OrderConfirmation, error)
	BuyNow(ctx context.Context, productID int64, quantity int, req api.OrderRequest) (*api.OrderConfirmation, error)
}

// ValidationError reports a request rejected client-side before any
// network call was issued.
type ValidationError struct {
	// Field names the offending input.
	Field string
	// Reason is the human-readable explanation.
	Reason string
}

// Error returns a human-readable description of the rejected input.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Sync synchronizes the local cart mirror with the server.
//
// All operations are serialized by one mutex, so a mutate-then-reload pair
// can never interleave with a later-issued operation: if Add and
// RemoveItem are called back to back, the displayed state reflects both,
// in the order issued, regardless of response timing.
type Sync struct {
	gateway Gateway
	tokens  api.TokenSource
	logger  *slog.Logger

	mu   sync.Mutex
	cart *api.Cart // nil until the first successful load
}

// New creates a cart synchronizer. The token source decides whether a
// session is active; without one, Load is a no-op and mutations fail with
// api.ErrNotAuthenticated.
func New(gateway Gateway, tokens api.TokenSource, logger *slog.Logger) *Sync {
	return &Sync{
		gateway: gateway,
		tokens:  tokens,
		logger:  logger,
	}
}

func (s *Sync) authenticated() bool {
	return s.tokens != nil && s.tokens.Token() != ""
}

// Load fetches the cart and replaces the mirror wholesale. Without an
// active session it issues no request and returns the (cleared) mirror.
func (s *Sync) Load(ctx context.Context) (*api.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

// loadLocked is Load without the mutex; mutating operations call it to
// refresh the mirror inside their own critical section.
func (s *Sync) loadLocked(ctx context.Context) (*api.Cart, error) {
	if !s.authenticated() {
		s.cart = nil
		return nil, nil
	}
	cart, err := s.gateway.Cart(ctx)
	if err != nil {
		s.logger.Warn("cart load failed", "error", err)
		return nil, err
	}
	s.cart = cart
	return cart, nil
}

// Add puts quantity units of a product into the server-side cart and
// reloads the mirror. The add response itself is never trusted for
// display. The server merges quantities when the product already has a
// cart line.
func (s *Sync) Add(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}
	if !s.authenticated() {
		return api.ErrNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gateway.AddToCart(ctx, productID, quantity); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	if _, err := s.loadLocked(ctx); err != nil {
		return fmt.Errorf("reload cart after add: %w", err)
	}
	s.logger.Debug("added to cart", "product_id", productID, "quantity", quantity)
	return nil
}

// UpdateItem sets the quantity of a cart line. A quantity of zero or less
// removes the line entirely; a zero-quantity line must not survive.
func (s *Sync) UpdateItem(ctx context.Context, itemID int64, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, itemID)
	}
	if !s.authenticated() {
		return api.ErrNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gateway.UpdateCartItem(ctx, itemID, quantity); err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	if _, err := s.loadLocked(ctx); err != nil {
		return fmt.Errorf("reload cart after update: %w", err)
	}
	return nil
}

// RemoveItem deletes a cart line and reloads. A server-side "not found"
// is reported like any other server error but gets no special local
// handling; removal is otherwise idempotent.
func (s *Sync) RemoveItem(ctx context.Context, itemID int64) error {
	if !s.authenticated() {
		return api.ErrNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gateway.RemoveCartItem(ctx, itemID); err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if _, err := s.loadLocked(ctx); err != nil {
		return fmt.Errorf("reload cart after remove: %w", err)
	}
	return nil
}

// PlaceOrder creates an order from the cart. The address must be
// non-empty after trimming and the cart must have at least one line; both
// are checked before any request. On success the cart is reloaded — the
// server is expected to have cleared it.
func (s *Sync) PlaceOrder(ctx context.Context, shippingAddress string) (*api.OrderConfirmation, error) {
	if strings.TrimSpace(shippingAddress) == "" {
		return nil, &ValidationError{Field: "shipping address", Reason: "must not be empty"}
	}
	if !s.authenticated() {
		return nil, api.ErrNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart == nil || len(s.cart.Items) == 0 {
		return nil, &ValidationError{Field: "cart", Reason: "is empty"}
	}

	conf, err := s.gateway.PlaceOrder(ctx, api.OrderRequest{ShippingAddress: shippingAddress})
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	if _, err := s.loadLocked(ctx); err != nil {
		// The order went through; a failed reload only leaves the mirror
		// stale until the next load.
		s.logger.Warn("cart reload after order failed", "error", err)
	}
	return conf, nil
}

// BuyNow places an order for a single product, bypassing the cart. The
// mirror is not touched. Quantity and address are validated before any
// request.
func (s *Sync) BuyNow(ctx context.Context, productID int64, quantity int, shippingAddress string) (*api.OrderConfirmation, error) {
	if quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}
	if strings.TrimSpace(shippingAddress) == "" {
		return nil, &ValidationError{Field: "shipping address", Reason: "must not be empty"}
	}
	if !s.authenticated() {
		return nil, api.ErrNotAuthenticated
	}

	conf, err := s.gateway.BuyNow(ctx, productID, quantity, api.OrderRequest{ShippingAddress: shippingAddress})
	if err != nil {
		return nil, fmt.Errorf("buy now: %w", err)
	}
	return conf, nil
}

// Current returns the mirror as of the last successful load, nil if none.
func (s *Sync) Current() *api.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// DerivedTotal sums the line totals across the cart. An absent or empty
// cart totals zero.
func (s *Sync) DerivedTotal() api.Amount {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart == nil {
		return 0
	}
	var total api.Amount
	for _, item := range s.cart.Items {
		total += item.Price
	}
	return total
}

// ItemCount returns the number of distinct cart lines, not the sum of
// quantities.
func (s *Sync) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart == nil {
		return 0
	}
	return len(s.cart.Items)
}

// Clear drops the mirror without contacting the server. Registered as the
// session service's logout hook so cart data never outlives the identity
// it belongs to.
func (s *Sync) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
}
