package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenSource supplies the bearer token for authenticated requests.
// An empty token means no session is active.
type TokenSource interface {
	Token() string
}

// TokenSourceFunc adapts a function to the TokenSource interface.
type TokenSourceFunc func() string

// Token returns f().
func (f TokenSourceFunc) Token() string { return f() }

// Client is the storefront API gateway. It is safe for concurrent use.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
	metrics    *Metrics
}

// NewClient creates a new API client. The base URL defaults to the
// STORECTL_API_BASE_URL environment variable; options override the defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: os.Getenv("STORECTL_API_BASE_URL"),
		timeout: 10 * time.Second,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: c.timeout,
		}
	}

	return c
}

// Login exchanges credentials for a token. A 2xx response without a token
// is reported as ErrInvalidCredentials, matching the server's behavior of
// answering malformed logins with a tokenless body.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	var res LoginResult
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", nil, creds, &res); err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, ErrInvalidCredentials
	}
	return &res, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	return c.do(ctx, "register", http.MethodPost, "/auth/register", nil, reg, nil)
}

// Categories lists the catalog categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var cats []Category
	if err := c.do(ctx, "categories", http.MethodGet, "/categories", nil, nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// Products lists a page of the catalog. Zero-valued query fields are
// omitted from the request.
func (c *Client) Products(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("size", strconv.Itoa(q.Size))
	if q.Category != 0 {
		query.Set("categoryId", strconv.FormatInt(q.Category, 10))
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	var page ProductPage
	if err := c.do(ctx, "products", http.MethodGet, "/products", query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Product fetches one product by ID.
func (c *Client) Product(ctx context.Context, id int64) (*Product, error) {
	var p Product
	path := fmt.Sprintf("/products/%d", id)
	if err := c.do(ctx, "product", http.MethodGet, path, nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Cart fetches the authenticated user's cart.
func (c *Client) Cart(ctx context.Context) (*Cart, error) {
	var cart Cart
	if err := c.do(ctx, "get_cart", http.MethodGet, "/cart", nil, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddToCart adds quantity units of a product to the cart. The server
// merges quantities when the product is already present; the response is
// not returned because callers must reload the cart before trusting it.
func (c *Client) AddToCart(ctx context.Context, productID int64, quantity int) error {
	query := url.Values{}
	query.Set("productId", strconv.FormatInt(productID, 10))
	query.Set("quantity", strconv.Itoa(quantity))
	return c.do(ctx, "cart_add", http.MethodPost, "/cart/add", query, nil, nil)
}

// UpdateCartItem sets the quantity of an existing cart line.
func (c *Client) UpdateCartItem(ctx context.Context, itemID int64, quantity int) error {
	query := url.Values{}
	query.Set("quantity", strconv.Itoa(quantity))
	path := fmt.Sprintf("/cart/item/%d", itemID)
	return c.do(ctx, "cart_update", http.MethodPut, path, query, nil, nil)
}

// RemoveCartItem deletes a cart line.
func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) error {
	path := fmt.Sprintf("/cart/item/%d", itemID)
	return c.do(ctx, "cart_remove", http.MethodDelete, path, nil, nil, nil)
}

// Orders lists the authenticated user's orders.
func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, "orders", http.MethodGet, "/orders", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// PlaceOrder creates an order from the current cart contents.
func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (*OrderConfirmation, error) {
	var conf OrderConfirmation
	if err := c.do(ctx, "place_order", http.MethodPost, "/orders", nil, req, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// BuyNow places an order for a single product, bypassing the cart.
func (c *Client) BuyNow(ctx context.Context, productID int64, quantity int, req OrderRequest) (*OrderConfirmation, error) {
	query := url.Values{}
	query.Set("productId", strconv.FormatInt(productID, 10))
	query.Set("quantity", strconv.Itoa(quantity))
	var conf OrderConfirmation
	if err := c.do(ctx, "buy_now", http.MethodPost, "/orders/buy-now", query, req, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// do performs one HTTP request against the storefront API.
// Non-2xx responses become *StatusError carrying the server's error text;
// transport failures become *UnreachableError.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, result any) error {
	start := time.Now()
	err := c.doOnce(ctx, method, path, query, body, result)
	elapsed := time.Since(start)
	c.metrics.observe(op, err, elapsed.Seconds())
	if err != nil {
		c.logger.Debug("api request failed",
			"op", op, "method", method, "path", path,
			"duration", elapsed, "error", err,
		)
		return err
	}
	c.logger.Debug("api request",
		"op", op, "method", method, "path", path, "duration", elapsed,
	)
	return nil
}

func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, body, result any) error {
	u := strings.TrimRight(c.baseURL, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.New().String()
	httpReq.Header.Set("X-Request-ID", requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &UnreachableError{Cause: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return &StatusError{
			Status:    httpResp.StatusCode,
			Message:   errorMessage(respBody),
			RequestID: requestID,
		}
	}

	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// errorMessage extracts the server's error text from a non-2xx body.
// The server answers with either a plain text message or a JSON object
// carrying "message" or "error"; anything else is returned trimmed as-is.
func errorMessage(body []byte) string {
	text := strings.TrimSpace(string(body))
	if !strings.HasPrefix(text, "{") {
		return text
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return text
}
