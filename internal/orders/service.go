// Package orders provides the read path for previously placed orders.
package orders

import (
	"context"
	"log/slog"

	"github.com/agricult/storectl/internal/api"
)

// Gateway is the slice of the API client the order service needs.
type Gateway interface {
	Orders(ctx context.Context) ([]api.Order, error)
}

// Service reads orders straight through from the server. Nothing is
// cached beyond the lifetime of one call.
type Service struct {
	gateway Gateway
	tokens  api.TokenSource
	logger  *slog.Logger
}

// NewService creates an order service.
func NewService(gateway Gateway, tokens api.TokenSource, logger *slog.Logger) *Service {
	return &Service{
		gateway: gateway,
		tokens:  tokens,
		logger:  logger,
	}
}

// List returns the user's orders, newest ordering as served. Requires an
// active session.
func (s *Service) List(ctx context.Context) ([]api.Order, error) {
	if s.tokens == nil || s.tokens.Token() == "" {
		return nil, api.ErrNotAuthenticated
	}
	orders, err := s.gateway.Orders(ctx)
	if err != nil {
		s.logger.Warn("order list failed", "error", err)
		return nil, err
	}
	return orders, nil
}
