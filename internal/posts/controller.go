package posts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmcdole/postdeck/internal/domain"
)

// DefaultPageSize is the number of posts requested per fetch
const DefaultPageSize = 30

// Controller owns the posts view state: the query, the accumulated records,
// the pagination cursor, the visible window and the sort order.
//
// All state changes happen under mu, and mu is never held across a network
// call. Every fetch captures its request token at issue time; a fetch whose
// token is no longer current when it resumes is discarded without touching
// state. Search is the only operation that cancels in-flight work.
type Controller struct {
	repo     domain.PostRepository
	pageSize int
	logger   *slog.Logger

	mu        sync.Mutex
	query     string
	records   recordSet
	cursor    int
	exhausted bool
	visible   int
	sortKey   domain.SortKey
	sortDir   domain.SortDirection
	loading   bool
	err       error

	epoch       uint64
	epochCtx    context.Context
	cancelEpoch context.CancelFunc

	token     uint64 // active request token, 0 = none
	lastToken uint64
	settled   chan struct{} // closed when the active fetch settles
}

// NewController creates a controller with an empty query. No fetch is issued
// until Search is called.
func NewController(repo domain.PostRepository, pageSize int, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	epochCtx, cancel := context.WithCancel(context.Background())
	return &Controller{
		repo:        repo,
		pageSize:    pageSize,
		logger:      logger,
		records:     newRecordSet(),
		visible:     pageSize,
		sortKey:     domain.SortByID,
		sortDir:     domain.SortAsc,
		epochCtx:    epochCtx,
		cancelEpoch: cancel,
	}
}

// PageSize returns the fixed page size
func (c *Controller) PageSize() int {
	return c.pageSize
}

// Init performs the startup load for the current (empty) query
func (c *Controller) Init(ctx context.Context) error {
	c.mu.Lock()
	q := c.query
	c.mu.Unlock()
	return c.Search(ctx, q)
}

// Search starts a new query epoch: any in-flight fetch is cancelled, the
// records, cursor, exhausted flag and visible window are reset, and the first
// page for the new query is fetched. It returns once that fetch settles.
func (c *Controller) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)

	c.mu.Lock()
	c.cancelEpoch()
	c.epochCtx, c.cancelEpoch = context.WithCancel(context.Background())
	c.epoch++
	c.query = query
	c.records.reset()
	c.cursor = 0
	c.exhausted = false
	c.visible = c.pageSize
	c.loading = false
	c.err = nil
	c.token = 0
	c.settled = nil
	epoch := c.epoch
	c.mu.Unlock()

	c.logger.Debug("search", "query", query, "epoch", epoch)

	_, err := c.fetchNextPage(ctx)
	return err
}

// fetchNextPage requests the page at the cursor for the current query.
// It is a no-op returning nothing when the query is exhausted or a fetch for
// this epoch is already in flight. The returned slice holds only the posts
// that were actually appended.
func (c *Controller) fetchNextPage(ctx context.Context) ([]domain.Post, error) {
	c.mu.Lock()
	if c.exhausted || c.loading {
		c.mu.Unlock()
		return nil, nil
	}
	c.lastToken++
	token := c.lastToken
	c.token = token
	c.loading = true
	c.err = nil
	done := make(chan struct{})
	c.settled = done
	q := domain.PostQuery{Filter: c.query, Start: c.cursor, Limit: c.pageSize}
	epochCtx := c.epochCtx
	c.mu.Unlock()

	fetchCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(epochCtx, cancel)
	batch, err := c.repo.GetPosts(fetchCtx, q)
	stop()
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	defer close(done)

	if token != c.token {
		c.logger.Debug("discarding stale page", "query", q.Filter, "start", q.Start)
		return nil, nil
	}
	c.token = 0
	c.loading = false

	if err != nil {
		if domain.IsCanceled(err) {
			c.logger.Debug("page request canceled", "query", q.Filter, "start", q.Start)
			return nil, nil
		}
		c.err = err
		c.logger.Error("failed to fetch posts", "error", err, "query", q.Filter, "start", q.Start)
		return nil, fmt.Errorf("fetch posts: %w", err)
	}

	fresh := c.records.appendNew(batch)
	c.cursor += c.pageSize
	if len(batch) < c.pageSize {
		c.exhausted = true
	}
	c.logger.Debug("fetched posts",
		"query", q.Filter,
		"start", q.Start,
		"received", len(batch),
		"appended", len(fresh),
		"exhausted", c.exhausted,
	)
	return fresh, nil
}

// GrowVisibleWindow shows one more page of posts. Already-loaded posts are
// revealed without a network call; otherwise the next page is fetched and the
// window only grows when that fetch produced new posts.
func (c *Controller) GrowVisibleWindow(ctx context.Context) error {
	c.mu.Lock()
	if c.visible < c.records.len() {
		c.visible += c.pageSize
		c.mu.Unlock()
		return nil
	}
	epoch := c.epoch
	c.mu.Unlock()

	fresh, err := c.fetchNextPage(ctx)
	if err != nil {
		return err
	}
	if len(fresh) == 0 {
		return nil
	}

	c.mu.Lock()
	if c.epoch == epoch {
		c.visible += c.pageSize
	}
	c.mu.Unlock()
	return nil
}

// EnsureFullyLoaded fetches pages until the current query is exhausted.
// A fetch already in flight for this epoch is awaited rather than duplicated.
// It stops at the first transport failure and returns it, and stops quietly
// when a newer Search supersedes the epoch it started in.
func (c *Controller) EnsureFullyLoaded(ctx context.Context) error {
	c.mu.Lock()
	epoch := c.epoch
	c.mu.Unlock()

	for {
		c.mu.Lock()
		if c.epoch != epoch || c.exhausted {
			c.mu.Unlock()
			return nil
		}
		if c.loading {
			wait := c.settled
			c.mu.Unlock()
			select {
			case <-wait:
			case <-ctx.Done():
				return ctx.Err()
			}
			c.mu.Lock()
			err := c.err
			superseded := c.epoch != epoch
			c.mu.Unlock()
			if !superseded && err != nil {
				return fmt.Errorf("fetch posts: %w", err)
			}
			continue
		}
		c.mu.Unlock()

		if _, err := c.fetchNextPage(ctx); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// SetSort changes the presentation order. Selecting the current key flips the
// direction; a new key starts ascending. The visible window is reset to one
// page and the whole collection for the current query is loaded before
// SetSort returns, so sorted output never covers a partial prefix.
func (c *Controller) SetSort(ctx context.Context, key domain.SortKey) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidSortKey, string(key))
	}

	c.mu.Lock()
	if key == c.sortKey {
		c.sortDir = c.sortDir.Flip()
	} else {
		c.sortKey = key
		c.sortDir = domain.SortAsc
	}
	c.visible = c.pageSize
	c.logger.Debug("sort changed", "key", c.sortKey, "dir", c.sortDir)
	c.mu.Unlock()

	return c.EnsureFullyLoaded(ctx)
}

// Snapshot returns a copy of the current state for presentation
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Query:        c.query,
		Records:      c.records.snapshot(),
		Cursor:       c.cursor,
		Exhausted:    c.exhausted,
		VisibleCount: c.visible,
		SortKey:      c.sortKey,
		SortDir:      c.sortDir,
		Loading:      c.loading,
		Err:          c.err,
		Epoch:        c.epoch,
		PageSize:     c.pageSize,
	}
}

// Close cancels any in-flight fetch
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelEpoch()
}
