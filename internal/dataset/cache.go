package dataset

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/l1-pricing/internal/model"
)

// Cache keeps a Source's datasets in memory. Cold loads read both datasets
// concurrently and concurrent callers share one load. A zero ttl never
// expires. A failed basic load does not evict the bids; it is retried on
// the next Basic call.
type Cache struct {
	src   Source
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu       sync.RWMutex
	loaded   bool
	loadedAt time.Time
	data     entry
}

type entry struct {
	bids     []model.BidRecord
	basic    []model.BasicRecord
	basicErr error
}

// NewCache wraps src.
func NewCache(src Source, ttl time.Duration) *Cache {
	return &Cache{src: src, ttl: ttl, now: time.Now}
}

func (c *Cache) Describe() string { return c.src.Describe() }

func (c *Cache) Bids(ctx context.Context) ([]model.BidRecord, error) {
	if e, ok := c.snapshot(); ok {
		return e.bids, nil
	}
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	e, _ := c.snapshot()
	return e.bids, nil
}

func (c *Cache) Basic(ctx context.Context) ([]model.BasicRecord, error) {
	e, ok := c.snapshot()
	switch {
	case ok && e.basicErr == nil:
		return e.basic, nil
	case ok:
		return c.reloadBasic(ctx)
	}
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	e, _ = c.snapshot()
	return e.basic, e.basicErr
}

// Invalidate drops the cached datasets.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.data = entry{}
}

func (c *Cache) snapshot() (entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fresh := c.loaded && (c.ttl <= 0 || c.now().Sub(c.loadedAt) < c.ttl)
	return c.data, fresh
}

// load runs one shared load detached from the caller's cancellation; a
// cancelled caller stops waiting but the load completes for the others.
func (c *Cache) load(ctx context.Context) error {
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan("load", func() (any, error) {
		if _, ok := c.snapshot(); ok {
			return nil, nil
		}
		var (
			bids     []model.BidRecord
			basic    []model.BasicRecord
			basicErr error
		)

		g, gctx := errgroup.WithContext(shared)
		g.Go(func() error {
			var err error
			bids, err = c.src.Bids(gctx)
			return err
		})
		g.Go(func() error {
			basic, basicErr = c.src.Basic(gctx)
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.data = entry{bids: bids, basic: basic, basicErr: basicErr}
		c.loaded = true
		c.loadedAt = c.now()
		c.mu.Unlock()

		zap.L().Info("dataset: loaded",
			zap.String("source", c.src.Describe()),
			zap.Int("bids", len(bids)),
			zap.Int("quantities", len(basic)),
			zap.Bool("basic_ok", basicErr == nil),
		)
		return nil, nil
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case r := <-ch:
		return r.Err
	}
}

func (c *Cache) reloadBasic(ctx context.Context) ([]model.BasicRecord, error) {
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan("basic", func() (any, error) {
		basic, err := c.src.Basic(shared)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.data.basic, c.data.basicErr = basic, nil
		c.mu.Unlock()
		return basic, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.([]model.BasicRecord), nil
	}
}
