// Package catalog owns the catalog query state: current page, category
// filter, and search term, and the translation of that state into product
// list requests.
//
// Every state mutation triggers a reload, and every mutation except a page
// change resets the page to zero. Search input is debounced behind a
// single shared cancellable timer; an explicit submit bypasses it.
package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/agricult/storectl/internal/api"
)

// DefaultDebounce is the search quiescence interval.
const DefaultDebounce = 300 * time.Millisecond

// View is the rendering layer collaborator. The query hands it typed
// results; it never receives markup and its internals are not this
// package's concern.
type View interface {
	// ShowProducts replaces the displayed product list.
	ShowProducts(products []api.Product)
	// ShowPagination replaces the displayed page control. Only called when
	// the response carried pagination metadata.
	ShowPagination(page, totalPages int)
	// ShowEmpty shows the distinct no-results state. Not an error.
	ShowEmpty()
	// ShowError surfaces a failed reload. The previous list stays visible.
	ShowError(err error)
}

// Gateway is the slice of the API client the catalog needs.
type Gateway interface {
	Products(ctx context.Context, q api.ProductQuery) (*api.ProductPage, error)
	Categories(ctx context.Context) ([]api.Category, error)
}

// Query holds the catalog query state and the shared debounce timer.
type Query struct {
	gateway  Gateway
	view     View
	logger   *slog.Logger
	pageSize int
	debounce time.Duration

	mu         sync.Mutex
	page       int
	category   int64 // 0 = no filter
	search     string
	pending    string // term waiting for the debounce timer
	timer      *time.Timer
	closed     bool
	categories []api.Category
}

// QueryOption configures a Query.
type QueryOption func(*Query)

// WithPageSize sets the page size for list requests. Default 12.
func WithPageSize(n int) QueryOption {
	return func(q *Query) {
		q.pageSize = n
	}
}

// WithDebounce sets the search debounce interval. Default 300ms.
func WithDebounce(d time.Duration) QueryOption {
	return func(q *Query) {
		q.debounce = d
	}
}

// WithInitialState seeds the starting page, category filter, and search
// term without triggering a reload. Subsequent mutations behave normally.
func WithInitialState(page int, category int64, search string) QueryOption {
	return func(q *Query) {
		q.page = page
		q.category = category
		q.search = search
		q.pending = search
	}
}

// NewQuery creates a catalog query bound to a gateway and a view.
func NewQuery(gateway Gateway, view View, logger *slog.Logger, opts ...QueryOption) *Query {
	q := &Query{
		gateway:  gateway,
		view:     view,
		logger:   logger,
		pageSize: 12,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// SetCategory sets the category filter, resets the page, and reloads.
func (q *Query) SetCategory(ctx context.Context, categoryID int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.category = categoryID
	q.page = 0
	return q.reloadLocked(ctx)
}

// ClearCategory removes the category filter, resets the page, and reloads.
func (q *Query) ClearCategory(ctx context.Context) error {
	return q.SetCategory(ctx, 0)
}

// SetPage moves to page n and reloads. Other filters are untouched.
func (q *Query) SetPage(ctx context.Context, n int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.page = n
	return q.reloadLocked(ctx)
}

// SetSearchTerm records a keystroke. The reload fires only after the
// debounce interval passes with no further call; each call cancels the
// previous pending trigger. Use SubmitSearch for an immediate reload.
func (q *Query) SetSearchTerm(ctx context.Context, term string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}

	q.pending = term
	if q.timer != nil {
		q.timer.Stop()
	}
	q.timer = time.AfterFunc(q.debounce, func() {
		q.commitSearch(ctx)
	})
}

// commitSearch applies the pending term once the timer fires.
func (q *Query) commitSearch(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.search = q.pending
	q.page = 0
	_ = q.reloadLocked(ctx) // failure already surfaced via the view
}

// SubmitSearch applies a term immediately, cancelling any pending
// debounced trigger. This is the explicit "submit" path.
func (q *Query) SubmitSearch(ctx context.Context, term string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	q.pending = term
	q.search = term
	q.page = 0
	return q.reloadLocked(ctx)
}

// Reload issues a list request for the current state and hands the result
// to the view.
func (q *Query) Reload(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.reloadLocked(ctx)
}

// reloadLocked performs the request. On failure the error is surfaced via
// the view and logged; the previously displayed state stays valid.
func (q *Query) reloadLocked(ctx context.Context) error {
	page, err := q.gateway.Products(ctx, api.ProductQuery{
		Page:     q.page,
		Size:     q.pageSize,
		Category: q.category,
		Search:   q.search,
	})
	if err != nil {
		q.logger.Warn("product list reload failed",
			"page", q.page, "category", q.category, "search", q.search, "error", err)
		q.view.ShowError(err)
		return err
	}

	if len(page.Content) == 0 {
		q.view.ShowEmpty()
		return nil
	}

	q.view.ShowProducts(page.Content)
	if page.Paged {
		q.view.ShowPagination(q.page, page.TotalPages)
	}
	return nil
}

// Categories returns the catalog categories, fetched once per Query.
func (q *Query) Categories(ctx context.Context) ([]api.Category, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.categories != nil {
		return q.categories, nil
	}
	cats, err := q.gateway.Categories(ctx)
	if err != nil {
		return nil, err
	}
	q.categories = cats
	return cats, nil
}

// State returns the current page, category, and committed search term.
func (q *Query) State() (page int, category int64, search string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.page, q.category, q.search
}

// Close cancels any pending debounce trigger. Further SetSearchTerm calls
// are ignored.
func (q *Query) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
}
