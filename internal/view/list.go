package view

import (
	"context"
	"sync"

	"github.com/matthieukhl/loyaltyctl/internal/api"
	"github.com/pkg/errors"
)

// ErrDeleteCanceled is returned when the confirmation step declines a
// delete; no backend call was made.
var ErrDeleteCanceled = errors.New("delete canceled")

// Fetcher loads one page of a resource, usually through the query cache.
type Fetcher[T any] func(ctx context.Context, page int, search string) (*api.Page[T], error)

// Remover issues the destructive call for one record and is expected to
// invalidate the resource's cache namespace on success.
type Remover func(ctx context.Context, id int64) error

// List is the state machine behind a paginated resource listing: current
// page and search text, the visible rows, and the pager bounds. While a
// reload is in flight the previously loaded rows stay visible, and a reload
// that has been superseded by a newer page/search change is discarded on
// arrival instead of overwriting fresher data.
type List[T any] struct {
	mu     sync.Mutex
	fetch  Fetcher[T]
	remove Remover

	gen      uint64
	page     int
	search   string
	rows     []T
	lastPage int
	total    int
	loaded   bool
	loading  bool
	err      error
}

func NewList[T any](fetch Fetcher[T], remove Remover) *List[T] {
	return &List[T]{fetch: fetch, remove: remove, page: 1}
}

// Reload fetches the current page. Safe to call concurrently; only the
// newest outstanding reload may apply its result.
func (l *List[T]) Reload(ctx context.Context) error {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	page, search := l.page, l.search
	l.loading = true
	l.mu.Unlock()

	result, err := l.fetch(ctx, page, search)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		// A newer page/search change superseded this request.
		return nil
	}
	l.loading = false
	if err != nil {
		l.err = err
		return err
	}
	l.err = nil
	l.loaded = true
	l.rows = result.Data
	l.lastPage = result.LastPage
	l.total = result.Total
	if result.CurrentPage > 0 {
		l.page = result.CurrentPage
	}
	return nil
}

// SetSearch changes the filter and reloads. A new search always starts over
// at page 1, since it changes the result set's page boundaries.
func (l *List[T]) SetSearch(ctx context.Context, search string) error {
	l.mu.Lock()
	if search == l.search {
		l.mu.Unlock()
		return nil
	}
	l.search = search
	l.page = 1
	l.mu.Unlock()
	return l.Reload(ctx)
}

// SetPage moves the pager and reloads. Pages below 1 clamp to 1; pages past
// the known last page clamp to it.
func (l *List[T]) SetPage(ctx context.Context, page int) error {
	l.mu.Lock()
	if page < 1 {
		page = 1
	}
	if l.loaded && l.lastPage > 0 && page > l.lastPage {
		page = l.lastPage
	}
	if page == l.page && l.loaded {
		l.mu.Unlock()
		return nil
	}
	l.page = page
	l.mu.Unlock()
	return l.Reload(ctx)
}

// Delete removes one record after the confirmation step approves it.
// Declining issues no backend call at all. On success the list reloads so
// the removed row disappears.
func (l *List[T]) Delete(ctx context.Context, id int64, confirm func() bool) error {
	if l.remove == nil {
		return errors.New("resource does not support delete")
	}
	if confirm == nil || !confirm() {
		return ErrDeleteCanceled
	}
	if err := l.remove(ctx, id); err != nil {
		return err
	}
	return l.Reload(ctx)
}

// Rows returns the currently visible page of records.
func (l *List[T]) Rows() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	rows := make([]T, len(l.rows))
	copy(rows, l.rows)
	return rows
}

func (l *List[T]) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

func (l *List[T]) LastPage() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastPage
}

func (l *List[T]) Total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

func (l *List[T]) Search() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.search
}

func (l *List[T]) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

func (l *List[T]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Empty reports a completed fetch with zero rows, as opposed to a list that
// has simply not loaded yet.
func (l *List[T]) Empty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded && len(l.rows) == 0
}
