package orders

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/agricult/storectl/internal/api"
)

type fakeGateway struct {
	orders []api.Order
	err    error
	calls  int
}

func (g *fakeGateway) Orders(ctx context.Context) ([]api.Order, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.orders, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestListRequiresSession(t *testing.T) {
	gateway := &fakeGateway{}
	svc := NewService(gateway, api.TokenSourceFunc(func() string { return "" }), testLogger())

	_, err := svc.List(context.Background())
	if !errors.Is(err, api.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if gateway.calls != 0 {
		t.Errorf("unauthenticated list must not hit the server, saw %d calls", gateway.calls)
	}
}

func TestListReadsThrough(t *testing.T) {
	gateway := &fakeGateway{orders: []api.Order{
		{ID: 2, Status: "DELIVERED", TotalAmount: 35000},
		{ID: 1, Status: "PENDING", TotalAmount: 12050},
	}}
	svc := NewService(gateway, api.TokenSourceFunc(func() string { return "tok" }), testLogger())
	ctx := context.Background()

	orders, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != 2 {
		t.Errorf("expected server ordering preserved, got %+v", orders)
	}

	// Nothing is cached; every call goes to the server.
	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("second list: %v", err)
	}
	if gateway.calls != 2 {
		t.Errorf("expected 2 server calls, got %d", gateway.calls)
	}
}

func TestListSurfacesServerError(t *testing.T) {
	gateway := &fakeGateway{err: &api.StatusError{Status: 500, Message: "boom"}}
	svc := NewService(gateway, api.TokenSourceFunc(func() string { return "tok" }), testLogger())

	_, err := svc.List(context.Background())
	var statusErr *api.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
}
