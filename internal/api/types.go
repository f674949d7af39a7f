// Package api provides the HTTP client for the storefront REST API.
//
// The client is a thin gateway: it translates typed requests into HTTP
// calls, attaches the bearer token of the active session, and maps
// responses into domain types or typed errors. It holds no domain state;
// session and cart state live in their owning packages.
package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Amount is a monetary value in hundredths of the currency unit.
// The server serializes prices as JSON numbers (or occasionally strings);
// Amount accepts both and avoids float arithmetic on money.
type Amount int64

// ParseAmount parses a decimal string such as "1234.56" into an Amount.
// Fractional digits beyond two are truncated.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if len(fracPart) > 2 {
		fracPart = fracPart[:2]
	}
	for len(fracPart) < 2 {
		fracPart += "0"
	}
	frac, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	v := whole*100 + frac
	if neg {
		v = -v
	}
	return Amount(v), nil
}

// String renders the amount as a plain decimal, e.g. "1234.56".
func (a Amount) String() string {
	v := int64(a)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		*a = 0
		return nil
	}
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// MarshalJSON renders the amount as a JSON number with two decimals.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the /auth/login response. A response without a token is
// treated as a failed login regardless of HTTP status.
type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
}

// Registration is the /auth/register request body.
type Registration struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Category is read-only reference data for catalog filtering.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product is a catalog entry as served by the product endpoints.
type Product struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Price          Amount   `json:"price"`
	Stock          int      `json:"stock"`
	ImageURL       string   `json:"imageUrl,omitempty"`
	Brand          string   `json:"brand,omitempty"`
	Origin         string   `json:"origin,omitempty"`
	Unit           string   `json:"unit,omitempty"`
	Specifications string   `json:"specifications,omitempty"`
	SourceURL      string   `json:"sourceUrl,omitempty"`
	Category       *Category `json:"category,omitempty"`
}

// ProductQuery selects a page of the catalog. Zero-valued Category and
// empty Search are omitted from the request.
type ProductQuery struct {
	Page     int
	Size     int
	Category int64
	Search   string
}

// ProductPage is a page of products. The server returns either a
// Spring-style page object or a bare array; both decode into ProductPage,
// with Paged reporting whether pagination metadata was present.
type ProductPage struct {
	Content       []Product
	TotalPages    int
	TotalElements int64
	Number        int
	Paged         bool
}

// UnmarshalJSON decodes either {"content": [...], "totalPages": N, ...}
// or a bare [...] array.
func (p *ProductPage) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimLeft(string(data), " \t\r\n")
	if strings.HasPrefix(trimmed, "[") {
		var items []Product
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*p = ProductPage{Content: items}
		return nil
	}
	var aux struct {
		Content       []Product `json:"content"`
		TotalPages    *int      `json:"totalPages"`
		TotalElements int64     `json:"totalElements"`
		Number        int       `json:"number"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.Content = aux.Content
	p.TotalElements = aux.TotalElements
	p.Number = aux.Number
	if aux.TotalPages != nil {
		p.TotalPages = *aux.TotalPages
		p.Paged = true
	}
	return nil
}

// CartItem is one cart line. Price is the line total (unit price times
// quantity), matching the server's cart item representation.
type CartItem struct {
	ID       int64   `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Price    Amount  `json:"price"`
}

// UnitPrice derives the per-unit price from the line total.
func (i CartItem) UnitPrice() Amount {
	if i.Quantity <= 0 {
		return 0
	}
	return i.Price / Amount(i.Quantity)
}

// Cart is the server-side cart as returned by GET /cart.
type Cart struct {
	ID    int64      `json:"id,omitempty"`
	Items []CartItem `json:"cartItems"`
}

// Order is a previously placed order on the read path.
type Order struct {
	ID          int64  `json:"id"`
	OrderDate   string `json:"orderDate"`
	Status      string `json:"status"`
	TotalAmount Amount `json:"totalAmount"`
}

// OrderRequest is the body for order placement endpoints.
type OrderRequest struct {
	ShippingAddress string `json:"shippingAddress"`
}

// OrderConfirmation is the response to a successful order placement.
type OrderConfirmation struct {
	OrderID int64  `json:"orderId,omitempty"`
	Message string `json:"message,omitempty"`
	Order   *Order `json:"order,omitempty"`
}
