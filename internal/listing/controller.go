// Package listing holds the in-memory collection behind one admin screen:
// the records as last fetched, the active filters and the current page.
package listing

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"sync"

	"github.com/paradisepeak/ppadmin/internal/notify"
)

var (
	// ErrDegraded wraps a load failure that was replaced by fallback records.
	ErrDegraded = errors.New("using fallback data")
	// ErrStale is returned by a load that finished after a newer one started.
	ErrStale = errors.New("stale load discarded")
)

// FallbackNotice is shown when fallback records replace a failed load.
const FallbackNotice = "API not ready, loading fallback data"

// Record is anything with a server-assigned identifier.
type Record interface {
	RecordID() string
}

// Loader fetches the full collection.
type Loader[T any] func(ctx context.Context) ([]T, error)

// Config describes one screen's collection.
type Config[T Record] struct {
	// Name is used in notices ("Failed to load <Name>").
	Name    string
	Load    Loader[T]
	Filters []Predicate[T]

	// PageSize enables paging when positive.
	PageSize int
	// ResetPageOnFilter moves back to the first page whenever a filter changes.
	ResetPageOnFilter bool

	// Fallback replaces the collection when a load fails. Nil disables it
	// and the previous collection is kept instead.
	Fallback []T

	Notifier notify.Notifier
	Logger   *slog.Logger
}

// Controller is safe for concurrent use. Slices handed out are never mutated
// afterwards; every change builds a new backing array.
type Controller[T Record] struct {
	cfg Config[T]

	mu       sync.Mutex
	items    []T
	filters  FilterState
	page     int
	degraded bool
	lastErr  error
	gen      uint64
}

func New[T Record](cfg Config[T]) *Controller[T] {
	if cfg.Notifier == nil {
		cfg.Notifier = notify.Discard
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Name == "" {
		cfg.Name = "records"
	}
	return &Controller[T]{cfg: cfg, filters: FilterState{}}
}

// Load replaces the collection with a fresh fetch. On failure it either
// installs the fallback (returning an error wrapping ErrDegraded) or keeps
// the current collection; both cases are reported to the notifier.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	items, err := c.cfg.Load(ctx)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.cfg.Logger.Debug("discarding stale load", "collection", c.cfg.Name)
		return ErrStale
	}

	if err == nil {
		if items == nil {
			items = []T{}
		}
		c.items = items
		c.degraded = false
		c.lastErr = nil
		c.clampPage()
		c.mu.Unlock()
		c.cfg.Logger.Debug("collection loaded", "collection", c.cfg.Name, "count", len(items))
		return nil
	}

	c.lastErr = err
	if c.cfg.Fallback != nil {
		c.items = append([]T(nil), c.cfg.Fallback...)
		c.degraded = true
		c.clampPage()
		c.mu.Unlock()
		c.cfg.Logger.Warn("load failed, using fallback", "collection", c.cfg.Name, "error", err)
		c.cfg.Notifier.Notify(notify.Warning, FallbackNotice)
		return fmt.Errorf("%w: %w", ErrDegraded, err)
	}
	c.mu.Unlock()

	c.cfg.Logger.Warn("load failed", "collection", c.cfg.Name, "error", err)
	c.cfg.Notifier.Notify(notify.Error, fmt.Sprintf("Failed to load %s: %v", c.cfg.Name, err))
	return err
}

// Degraded reports whether the collection currently holds fallback records.
func (c *Controller[T]) Degraded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.degraded
}

// Err returns the error of the last failed load, or nil after a successful one.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// SetFilter sets one filter value. Setting the value it already has is a no-op.
// It reports whether anything changed.
func (c *Controller[T]) SetFilter(key, value string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.filters[key] == value {
		return false
	}
	next := c.filters.clone()
	if value == "" {
		delete(next, key)
	} else {
		next[key] = value
	}
	c.filters = next
	if c.cfg.ResetPageOnFilter {
		c.page = 0
	}
	c.clampPage()
	return true
}

// Filters returns a copy of the active filter state.
func (c *Controller[T]) Filters() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters.clone()
}

// SetPage moves to page n, clamped into the valid range.
func (c *Controller[T]) SetPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = n
	c.clampPage()
}

// Page returns the zero-based current page.
func (c *Controller[T]) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// PageCount returns ceil(Count / PageSize), or 1 when paging is disabled.
func (c *Controller[T]) PageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageCount(c.countLocked())
}

func (c *Controller[T]) pageCount(count int) int {
	if c.cfg.PageSize <= 0 {
		return 1
	}
	return (count + c.cfg.PageSize - 1) / c.cfg.PageSize
}

// clampPage keeps 0 <= page < PageCount. Callers hold mu.
func (c *Controller[T]) clampPage() {
	pages := c.pageCount(c.countLocked())
	if c.page >= pages {
		c.page = pages - 1
	}
	if c.page < 0 {
		c.page = 0
	}
}

func (c *Controller[T]) match(rec T, fs FilterState) bool {
	for _, p := range c.cfg.Filters {
		if !p(rec, fs) {
			return false
		}
	}
	return true
}

func (c *Controller[T]) countLocked() int {
	n := 0
	for _, rec := range c.items {
		if c.match(rec, c.filters) {
			n++
		}
	}
	return n
}

// Count returns how many records pass the filters, across all pages.
func (c *Controller[T]) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.countLocked()
}

// Visible yields the filtered records of the current page. The sequence is
// computed from a snapshot taken at call time and may be ranged over any
// number of times.
func (c *Controller[T]) Visible() iter.Seq[T] {
	c.mu.Lock()
	items, fs, page := c.items, c.filters, c.page
	c.mu.Unlock()

	size := c.cfg.PageSize
	return func(yield func(T) bool) {
		skip, remaining := 0, -1
		if size > 0 {
			skip, remaining = page*size, size
		}
		for _, rec := range items {
			if !c.match(rec, fs) {
				continue
			}
			if skip > 0 {
				skip--
				continue
			}
			if remaining == 0 {
				return
			}
			if !yield(rec) {
				return
			}
			if remaining > 0 {
				remaining--
			}
		}
	}
}

// Items returns the whole unfiltered collection in server order.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

// Len returns the size of the unfiltered collection.
func (c *Controller[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Get finds a record by id.
func (c *Controller[T]) Get(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, rec := range c.items {
		if rec.RecordID() == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

// ApplyMutation replaces the record with the given id by patch(record).
// It reports whether a record was found.
func (c *Controller[T]) ApplyMutation(id string, patch func(T) T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, rec := range c.items {
		if rec.RecordID() != id {
			continue
		}
		next := append([]T(nil), c.items...)
		next[i] = patch(rec)
		c.items = next
		c.clampPage()
		return true
	}
	return false
}

// ApplyRemoval drops the record with the given id.
func (c *Controller[T]) ApplyRemoval(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]T, 0, len(c.items))
	for _, rec := range c.items {
		if rec.RecordID() != id {
			next = append(next, rec)
		}
	}
	removed := len(next) != len(c.items)
	c.items = next
	c.clampPage()
	return removed
}

// ApplyInsertion appends rec to the collection.
func (c *Controller[T]) ApplyInsertion(rec T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]T, len(c.items), len(c.items)+1)
	copy(next, c.items)
	c.items = append(next, rec)
	c.clampPage()
}

// Distinct returns the non-empty values of field in first-seen order.
func (c *Controller[T]) Distinct(field func(T) string) []string {
	c.mu.Lock()
	items := c.items
	c.mu.Unlock()

	seen := make(map[string]bool)
	var out []string
	for _, rec := range items {
		v := field(rec)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
