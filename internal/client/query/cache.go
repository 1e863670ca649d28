package query

import (
	"context"
	"sync"
	"time"

	"github.com/dimasprakoso/siakad-cli/internal/logging"
)

// Status is the lifecycle state of a cache entry.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

// FetchFunc loads the data for one key. It is executed at most once per
// de-duplicated request.
type FetchFunc func(ctx context.Context) (any, error)

// Result is an immutable snapshot of a cache entry handed to callers.
//
// Invariants: Status == StatusSuccess implies Data is set and Err is nil;
// Status == StatusError implies Err is set. IsFetching reports a background
// revalidation in flight while Data still holds the previous value.
type Result struct {
	Data          any
	Status        Status
	Err           error
	IsFetching    bool
	LastFetchedAt time.Time
}

// entry is the cache's mutable record for one canonical key. All access is
// serialized by the cache mutex, so a reader never observes a transition
// half-applied.
type entry struct {
	key           Key
	data          any
	status        Status
	err           error
	lastFetchedAt time.Time
	stale         bool
	inflight      *flight
}

// flight is one in-progress fetch. Concurrent requests for the same key
// share a single flight; its sequence number decides whether the outcome
// may still be applied when it lands.
type flight struct {
	seq  uint64
	done chan struct{}
	data any
	err  error
}

// Cache is the shared store of server data. List and detail entries for the
// same record are independent; the only reconciliation between them is
// explicit invalidation or removal by a mutation's success effects.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry

	// started and applied order fetches per canonical key. They survive
	// entry removal: a removed key's counters keep late responses from
	// resurrecting it.
	started map[string]uint64
	applied map[string]uint64

	log logging.Logger
}

func NewCache(log logging.Logger) *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		started: make(map[string]uint64),
		applied: make(map[string]uint64),
		log:     log,
	}
}

// queryOptions configure one Query call.
type queryOptions struct {
	placeholder *Key
}

type QueryOption func(*queryOptions)

// WithPlaceholder keeps the previous key's data visible during a key
// transition: when the requested key has no cached data yet but prev does,
// Query returns prev's data with IsFetching=true and loads the new key in
// the background. Pagination uses this so the table never flashes empty.
func WithPlaceholder(prev Key) QueryOption {
	return func(o *queryOptions) { o.placeholder = &prev }
}

// Query returns the freshest available state for key, fetching as needed.
//
//   - Fresh cached success data: returned as is, no fetch.
//   - Stale cached success data: returned immediately with IsFetching=true
//     while a background revalidation runs (stale-while-revalidate).
//   - No cached data, placeholder available: placeholder data returned with
//     IsFetching=true, fetch runs in the background.
//   - No cached data otherwise: blocks until the fetch resolves.
//
// Identical keys queried concurrently share one fetch execution.
func (c *Cache) Query(ctx context.Context, key Key, fetch FetchFunc, opts ...QueryOption) Result {
	var o queryOptions
	for _, opt := range opts {
		opt(&o)
	}

	ck := key.Canonical()

	c.mu.Lock()
	e := c.ensureLocked(key, ck)

	if e.status == StatusSuccess && !e.stale {
		res := c.snapshotLocked(e)
		c.mu.Unlock()
		return res
	}

	if e.status == StatusSuccess && e.stale {
		// Background revalidation; the result lands in the cache.
		c.startFetchLocked(ctx, e, ck, fetch)
		res := c.snapshotLocked(e)
		res.IsFetching = true
		c.mu.Unlock()
		return res
	}

	// No success data for this key yet.
	if o.placeholder != nil {
		pck := o.placeholder.Canonical()
		if prev, ok := c.entries[pck]; ok && prev.status == StatusSuccess {
			c.startFetchLocked(ctx, e, ck, fetch)
			res := c.snapshotLocked(prev)
			res.IsFetching = true
			c.mu.Unlock()
			return res
		}
	}

	fl := c.startFetchLocked(ctx, e, ck, fetch)
	c.mu.Unlock()

	select {
	case <-fl.done:
	case <-ctx.Done():
		// The caller stops waiting; the fetch still completes and its
		// result is applied to the shared cache, which is safe and wanted.
		return Result{Status: StatusLoading, IsFetching: true}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.entries[ck]; ok {
		return c.snapshotLocked(cur)
	}
	// Entry removed while the fetch ran. Report the flight's own outcome
	// without writing it back.
	if fl.err != nil {
		return Result{Status: StatusError, Err: fl.err}
	}
	return Result{Data: fl.data, Status: StatusSuccess, LastFetchedAt: time.Now()}
}

// Peek returns the cached state for key without triggering any fetch.
func (c *Cache) Peek(key Key) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.Canonical()]
	if !ok {
		return Result{}, false
	}
	return c.snapshotLocked(e), true
}

// Invalidate marks every entry matching prefix as stale and detaches their
// in-flight fetches, so the next Query revalidates. A detached fetch that
// lands later cannot clear the staleness (see applyFlight). It never blocks
// on network activity.
func (c *Cache) Invalidate(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if !e.key.Matches(prefix) {
			continue
		}
		e.stale = true
		e.inflight = nil
	}
}

// Remove deletes the entry outright. Any fetch already in flight for the
// key is sequenced out: its result will not recreate the entry. Used after
// a delete mutation so the removed resource cannot be resurrected by a
// stale background refetch.
func (c *Cache) Remove(key Key) {
	ck := key.Canonical()
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, ck)
	c.applied[ck] = c.started[ck]
}

// ensureLocked returns the entry for ck, creating an idle one on first
// reference.
func (c *Cache) ensureLocked(key Key, ck string) *entry {
	e, ok := c.entries[ck]
	if !ok {
		e = &entry{key: key, status: StatusIdle}
		c.entries[ck] = e
	}
	return e
}

// startFetchLocked begins a fetch for e unless one is already in flight, in
// which case the existing flight is shared. The fetch runs outside the
// lock; its completion is applied under the lock through applyFlight.
func (c *Cache) startFetchLocked(ctx context.Context, e *entry, ck string, fetch FetchFunc) *flight {
	if e.inflight != nil {
		return e.inflight
	}

	c.started[ck]++
	fl := &flight{seq: c.started[ck], done: make(chan struct{})}
	e.inflight = fl
	if e.status == StatusIdle {
		e.status = StatusLoading
	}

	go func() {
		data, err := fetch(context.WithoutCancel(ctx))
		fl.data, fl.err = data, err
		c.applyFlight(ck, fl)
		close(fl.done)
	}()
	return fl
}

// applyFlight installs a completed fetch, enforcing the ordering guarantee:
// only the latest-started fetch for a key may write its outcome. A slow old
// response never clobbers a newer one, and a response for a removed key is
// dropped.
//
// A flight detached by Invalidate may still fill in its data, but it never
// clears staleness and never installs its error: the invalidation happened
// after the fetch started, so the entry must keep revalidating on the next
// Query regardless of what that fetch brought back.
func (c *Cache) applyFlight(ck string, fl *flight) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if fl.seq <= c.applied[ck] {
		if c.log != nil {
			c.log.Debug(context.Background(), "dropping superseded fetch result", "key", ck, "seq", fl.seq)
		}
		return
	}
	c.applied[ck] = fl.seq

	e, ok := c.entries[ck]
	if !ok {
		return
	}
	attached := e.inflight == fl
	if attached {
		e.inflight = nil
	}

	if fl.err != nil {
		if attached {
			e.status = StatusError
			e.err = fl.err
		}
		return
	}
	e.status = StatusSuccess
	e.data = fl.data
	e.err = nil
	if attached {
		e.stale = false
	}
	e.lastFetchedAt = time.Now()
}

func (c *Cache) snapshotLocked(e *entry) Result {
	return Result{
		Data:          e.data,
		Status:        e.status,
		Err:           e.err,
		IsFetching:    e.inflight != nil,
		LastFetchedAt: e.lastFetchedAt,
	}
}
