package dataset

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/l1-pricing/internal/model"
)

type countingSource struct {
	bidCalls   atomic.Int32
	basicCalls atomic.Int32

	mu       sync.Mutex
	bidsErr  error
	basicErr error
}

func (s *countingSource) Describe() string { return "fake" }

func (s *countingSource) Bids(context.Context) ([]model.BidRecord, error) {
	s.bidCalls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bidsErr != nil {
		return nil, s.bidsErr
	}
	return []model.BidRecord{{Row: 1, BidNo: "GEM/1", SellerName: "Alpha"}}, nil
}

func (s *countingSource) Basic(context.Context) ([]model.BasicRecord, error) {
	s.basicCalls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.basicErr != nil {
		return nil, s.basicErr
	}
	return []model.BasicRecord{{Row: 1, BidNo: "GEM/1", Quantity: "10"}}, nil
}

func (s *countingSource) setBasicErr(err error) {
	s.mu.Lock()
	s.basicErr = err
	s.mu.Unlock()
}

func TestCache_LoadsOnce(t *testing.T) {
	src := &countingSource{}
	c := NewCache(src, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bids, err := c.Bids(ctx)
			assert.NoError(t, err)
			assert.Len(t, bids, 1)
		}()
	}
	wg.Wait()

	basic, err := c.Basic(ctx)
	require.NoError(t, err)
	assert.Len(t, basic, 1)

	// Concurrent cold callers may each miss the snapshot, but singleflight
	// collapses overlapping loads. Sequential calls afterwards never reload.
	calls := src.bidCalls.Load()
	_, _ = c.Bids(ctx)
	_, _ = c.Basic(ctx)
	assert.Equal(t, calls, src.bidCalls.Load())
	assert.Equal(t, src.bidCalls.Load(), src.basicCalls.Load())
}

func TestCache_TTL(t *testing.T) {
	src := &countingSource{}
	c := NewCache(src, time.Minute)
	now := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := c.Bids(ctx)
	require.NoError(t, err)
	now = now.Add(30 * time.Second)
	_, err = c.Bids(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.bidCalls.Load())

	now = now.Add(time.Minute)
	_, err = c.Bids(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.bidCalls.Load())
}

func TestCache_Invalidate(t *testing.T) {
	src := &countingSource{}
	c := NewCache(src, 0)
	ctx := context.Background()

	_, err := c.Bids(ctx)
	require.NoError(t, err)
	c.Invalidate()
	_, err = c.Bids(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.bidCalls.Load())
}

func TestCache_BidsErrorNotCached(t *testing.T) {
	src := &countingSource{bidsErr: errors.New("disk gone")}
	c := NewCache(src, 0)
	ctx := context.Background()

	_, err := c.Bids(ctx)
	require.Error(t, err)
	_, err = c.Bids(ctx)
	require.Error(t, err)
	assert.Equal(t, int32(2), src.bidCalls.Load())
}

func TestCache_BasicRetried(t *testing.T) {
	src := &countingSource{}
	src.setBasicErr(errors.New("basic missing"))
	c := NewCache(src, 0)
	ctx := context.Background()

	bids, err := c.Bids(ctx)
	require.NoError(t, err)
	assert.Len(t, bids, 1)

	_, err = c.Basic(ctx)
	require.Error(t, err)

	src.setBasicErr(nil)
	basic, err := c.Basic(ctx)
	require.NoError(t, err)
	assert.Len(t, basic, 1)
	assert.Equal(t, int32(1), src.bidCalls.Load(), "bids stay cached")

	calls := src.basicCalls.Load()
	_, err = c.Basic(ctx)
	require.NoError(t, err)
	assert.Equal(t, calls, src.basicCalls.Load())
}

func TestCheck(t *testing.T) {
	src := &countingSource{}
	src.setBasicErr(&UnavailableError{Source: "fake", Dataset: Basic, Err: errors.New("no file")})

	rep := Check(context.Background(), src)
	assert.Equal(t, "fake", rep.Source)
	assert.Equal(t, Status{Available: true, Rows: 1}, rep.Financial)
	assert.False(t, rep.Basic.Available)
	assert.Contains(t, rep.Basic.Error, "no file")
	assert.False(t, rep.Healthy())

	src.setBasicErr(nil)
	assert.True(t, Check(context.Background(), src).Healthy())
}

type blockingSource struct {
	countingSource
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *blockingSource) Bids(ctx context.Context) ([]model.BidRecord, error) {
	s.once.Do(func() { close(s.started) })
	<-s.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.countingSource.Bids(ctx)
}

func TestCache_CancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	src := &blockingSource{started: make(chan struct{}), release: make(chan struct{})}
	c := NewCache(src, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Bids(ctx)
		done <- err
	}()

	<-src.started
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	close(src.release)
	bids, err := c.Bids(context.Background())
	require.NoError(t, err)
	assert.Len(t, bids, 1)
	assert.Equal(t, int32(1), src.bidCalls.Load(), "cancelled load still populated the cache")
}
