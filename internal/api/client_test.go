package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func staticToken(token string) TokenSource {
	return TokenSourceFunc(func() string { return token })
}

func TestLogin(t *testing.T) {
	var receivedBody Credentials

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content-type: %s", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		if err := json.NewDecoder(r.Body).Decode(&receivedBody); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(LoginResult{
			Token:    "tok-123",
			Username: "alice",
			Role:     "USER",
		})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	res, err := client.Login(context.Background(), Credentials{Username: "alice", Password: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Token != "tok-123" {
		t.Errorf("expected tok-123, got %s", res.Token)
	}
	if res.Username != "alice" {
		t.Errorf("expected alice, got %s", res.Username)
	}
	if receivedBody.Username != "alice" || receivedBody.Password != "secret" {
		t.Errorf("unexpected request body: %+v", receivedBody)
	}
}

func TestLoginTokenlessResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"username": "alice"})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	_, err := client.Login(context.Background(), Credentials{Username: "alice", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestBearerHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 1, "cartItems": []}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithTokenSource(staticToken("tok-abc")))
	if _, err := client.Cart(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Errorf("unexpected auth header: %q", gotAuth)
	}
}

func TestNoBearerHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithTokenSource(staticToken("")))
	if _, err := client.Categories(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected no auth header, got %q", gotAuth)
	}
}

func TestProductsQueryParams(t *testing.T) {
	tests := []struct {
		name  string
		query ProductQuery
		want  string
	}{
		{
			name:  "defaults only",
			query: ProductQuery{Page: 0, Size: 12},
			want:  "page=0&size=12",
		},
		{
			name:  "category filter",
			query: ProductQuery{Page: 2, Size: 12, Category: 7},
			want:  "categoryId=7&page=2&size=12",
		},
		{
			name:  "search term",
			query: ProductQuery{Page: 0, Size: 12, Search: "mango"},
			want:  "page=0&search=mango&size=12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.RawQuery
				w.Write([]byte(`[]`))
			}))
			defer server.Close()

			client := NewClient(WithBaseURL(server.URL))
			if _, err := client.Products(context.Background(), tt.query); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotQuery != tt.want {
				t.Errorf("expected query %q, got %q", tt.want, gotQuery)
			}
		})
	}
}

func TestProductPageDecoding(t *testing.T) {
	t.Run("page object", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{
				"content": [{"id": 1, "name": "Basmati Rice", "price": 250.50}],
				"totalPages": 4,
				"totalElements": 40,
				"number": 1
			}`))
		}))
		defer server.Close()

		client := NewClient(WithBaseURL(server.URL))
		page, err := client.Products(context.Background(), ProductQuery{Size: 12})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !page.Paged {
			t.Error("expected Paged to be set")
		}
		if page.TotalPages != 4 {
			t.Errorf("expected 4 total pages, got %d", page.TotalPages)
		}
		if len(page.Content) != 1 || page.Content[0].Name != "Basmati Rice" {
			t.Errorf("unexpected content: %+v", page.Content)
		}
		if page.Content[0].Price != 25050 {
			t.Errorf("expected price 25050 cents, got %d", page.Content[0].Price)
		}
	})

	t.Run("bare array", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"id": 1, "name": "Turmeric"}, {"id": 2, "name": "Cumin"}]`))
		}))
		defer server.Close()

		client := NewClient(WithBaseURL(server.URL))
		page, err := client.Products(context.Background(), ProductQuery{Size: 12})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.Paged {
			t.Error("expected Paged to be unset for bare array")
		}
		if len(page.Content) != 2 {
			t.Errorf("expected 2 products, got %d", len(page.Content))
		}
	})
}

func TestCartMutationPaths(t *testing.T) {
	var gotMethod, gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithTokenSource(staticToken("tok")))
	ctx := context.Background()

	if err := client.AddToCart(ctx, 42, 3); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/cart/add" || gotQuery != "productId=42&quantity=3" {
		t.Errorf("AddToCart sent %s %s?%s", gotMethod, gotPath, gotQuery)
	}

	if err := client.UpdateCartItem(ctx, 9, 5); err != nil {
		t.Fatalf("UpdateCartItem: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/cart/item/9" || gotQuery != "quantity=5" {
		t.Errorf("UpdateCartItem sent %s %s?%s", gotMethod, gotPath, gotQuery)
	}

	if err := client.RemoveCartItem(ctx, 9); err != nil {
		t.Fatalf("RemoveCartItem: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/cart/item/9" {
		t.Errorf("RemoveCartItem sent %s %s", gotMethod, gotPath)
	}
}

func TestStatusErrorSurfacesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "Insufficient stock for product: Basmati Rice"}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithTokenSource(staticToken("tok")))
	err := client.AddToCart(context.Background(), 1, 999)
	if err == nil {
		t.Fatal("expected error")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T", err)
	}
	if statusErr.Status != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", statusErr.Status)
	}
	if statusErr.Message != "Insufficient stock for product: Basmati Rice" {
		t.Errorf("unexpected message: %q", statusErr.Message)
	}
	if statusErr.Error() != statusErr.Message {
		t.Errorf("expected Error() to return the server message verbatim, got %q", statusErr.Error())
	}
}

func TestUnauthorizedMapsToNotAuthenticated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	_, err := client.Cart(context.Background())
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated via errors.Is, got %v", err)
	}
}

func TestUnreachableServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(WithBaseURL(server.URL))
	_, err := client.Categories(context.Background())
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable via errors.Is, got %v", err)
	}

	var unreachable *UnreachableError
	if !errors.As(err, &unreachable) {
		t.Fatalf("expected *UnreachableError, got %T", err)
	}
	if unreachable.Cause == nil {
		t.Error("expected transport cause to be preserved")
	}
}

func TestPlaceOrderBody(t *testing.T) {
	var receivedBody OrderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&receivedBody); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(OrderConfirmation{OrderID: 77, Message: "Order placed successfully"})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithTokenSource(staticToken("tok")))
	conf, err := client.PlaceOrder(context.Background(), OrderRequest{ShippingAddress: "12 MG Road, Pune"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conf.OrderID != 77 {
		t.Errorf("expected order 77, got %d", conf.OrderID)
	}
	if receivedBody.ShippingAddress != "12 MG Road, Pune" {
		t.Errorf("unexpected address in body: %q", receivedBody.ShippingAddress)
	}
}

func TestBuyNowQueryAndBody(t *testing.T) {
	var gotQuery string
	var receivedBody OrderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		if err := json.NewDecoder(r.Body).Decode(&receivedBody); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(OrderConfirmation{OrderID: 5})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithTokenSource(staticToken("tok")))
	if _, err := client.BuyNow(context.Background(), 42, 2, OrderRequest{ShippingAddress: "addr"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "productId=42&quantity=2" {
		t.Errorf("unexpected query: %q", gotQuery)
	}
	if receivedBody.ShippingAddress != "addr" {
		t.Errorf("unexpected body: %+v", receivedBody)
	}
}

func TestAmountParsing(t *testing.T) {
	tests := []struct {
		in   string
		want Amount
	}{
		{"0", 0},
		{"1", 100},
		{"250.5", 25050},
		{"250.50", 25050},
		{"1234.56", 123456},
		{"-12.34", -1234},
		{"0.999", 99}, // extra digits truncated
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if err != nil {
			t.Errorf("ParseAmount(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAmount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}

	if _, err := ParseAmount(""); err == nil {
		t.Error("expected error for empty amount")
	}
}

func TestAmountJSON(t *testing.T) {
	var a Amount
	if err := json.Unmarshal([]byte(`199.99`), &a); err != nil {
		t.Fatalf("number: %v", err)
	}
	if a != 19999 {
		t.Errorf("expected 19999, got %d", a)
	}
	if err := json.Unmarshal([]byte(`"45.00"`), &a); err != nil {
		t.Fatalf("string: %v", err)
	}
	if a != 4500 {
		t.Errorf("expected 4500, got %d", a)
	}
	if a.String() != "45.00" {
		t.Errorf("expected 45.00, got %s", a.String())
	}
}
