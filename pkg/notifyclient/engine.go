package notifyclient

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultPollInterval is how often clients re-fetch the feed.
const DefaultPollInterval = 10 * time.Second

// Engine keeps one viewer's notification cache consistent with the
// server by full-replace polling. All methods are safe for concurrent
// use.
type Engine struct {
	source   Source
	logger   *zap.Logger
	interval time.Duration

	mu    sync.RWMutex
	cache []Notification
	// pendingReads holds ids flipped locally by MarkAsRead that the
	// server has not yet confirmed in a refresh snapshot. Re-applying
	// them after each refresh prevents a stale in-flight snapshot from
	// resurrecting an unread state.
	pendingReads map[string]struct{}

	inFlight atomic.Bool
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewEngine constructs an engine. A non-positive interval falls back
// to DefaultPollInterval.
func NewEngine(source Source, logger *zap.Logger, interval time.Duration) *Engine {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		source:       source,
		logger:       logger,
		interval:     interval,
		pendingReads: make(map[string]struct{}),
	}
}

// Start performs one blocking fetch, then begins the polling loop.
// The initial fetch error is returned; poll errors afterwards are
// transient and only logged.
func (e *Engine) Start(ctx context.Context) error {
	list, err := e.source.List(ctx)
	if err != nil {
		return err
	}
	e.install(list)

	loopCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.done = make(chan struct{})
	go e.loop(loopCtx)
	return nil
}

func (e *Engine) loop(ctx context.Context) {
	defer close(e.done)
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !e.Refresh(ctx) {
				e.logger.Debug("poll tick dropped, previous fetch still in flight")
			}
			// Ticks that fired while a fetch was running are dropped,
			// not queued.
			select {
			case <-ticker.C:
			default:
			}
		}
	}
}

// Refresh re-fetches the full notification set and replaces the
// cache. Returns false when a previous fetch is still in flight (the
// attempt is dropped). A fetch error leaves the cache untouched:
// stale-but-consistent.
func (e *Engine) Refresh(ctx context.Context) bool {
	if !e.inFlight.CompareAndSwap(false, true) {
		return false
	}
	defer e.inFlight.Store(false)

	list, err := e.source.List(ctx)
	if err != nil {
		e.logger.Debug("notification fetch failed, keeping cached set", zap.Error(err))
		return true
	}
	e.install(list)
	return true
}

func (e *Engine) install(list []Notification) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range list {
		if _, pending := e.pendingReads[list[i].ID]; !pending {
			continue
		}
		if list[i].IsRead {
			// Server confirmed the mark; stop re-applying it.
			delete(e.pendingReads, list[i].ID)
		} else {
			list[i].IsRead = true
		}
	}
	if list == nil {
		list = []Notification{}
	}
	e.cache = list
}

// MarkAsRead persists the read mark, then optimistically flips the
// local record. Calling it twice for the same id is equivalent to
// calling it once.
func (e *Engine) MarkAsRead(ctx context.Context, id string) error {
	if err := e.source.MarkRead(ctx, id); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pendingReads[id] = struct{}{}
	for i := range e.cache {
		if e.cache[i].ID == id {
			e.cache[i].IsRead = true
			break
		}
	}
	return nil
}

// Snapshot returns a copy of the cached notifications, newest first.
func (e *Engine) Snapshot() []Notification {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Notification, len(e.cache))
	copy(out, e.cache)
	return out
}

// UnreadCount recomputes the unread total from the cache.
func (e *Engine) UnreadCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	count := 0
	for i := range e.cache {
		if !e.cache[i].IsRead {
			count++
		}
	}
	return count
}

// Stop cancels the polling loop and clears the cache. Safe to call
// when the engine never started.
func (e *Engine) Stop() {
	if e.cancel != nil {
		e.cancel()
		<-e.done
		e.cancel = nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = nil
	e.pendingReads = make(map[string]struct{})
}
