package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureLoadedFetchesExactlyOnce(t *testing.T) {
	var calls int32
	c := NewCollection(func(ctx context.Context) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		return []string{"a", "b"}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.EnsureLoaded(context.Background()))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, []string{"a", "b"}, c.Snapshot())
	assert.True(t, c.Loaded())
}

func TestRefreshReplacesWholesale(t *testing.T) {
	items := [][]string{{"first"}, {"second", "third"}}
	var call int
	c := NewCollection(func(ctx context.Context) ([]string, error) {
		out := items[call]
		call++
		return out, nil
	})

	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, []string{"first"}, c.Snapshot())

	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, []string{"second", "third"}, c.Snapshot())
}

func TestFailedRefreshRetainsPreviousSnapshot(t *testing.T) {
	var fail bool
	c := NewCollection(func(ctx context.Context) ([]string, error) {
		if fail {
			return nil, errors.New("upstream down")
		}
		return []string{"kept"}, nil
	})

	require.NoError(t, c.Refresh(context.Background()))
	fail = true
	assert.Error(t, c.Refresh(context.Background()))
	assert.Equal(t, []string{"kept"}, c.Snapshot())
	assert.True(t, c.Loaded())
}

func TestEnsureLoadedRetriesAfterFailedLoad(t *testing.T) {
	var calls int32
	var down = true
	c := NewCollection(func(ctx context.Context) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		if down {
			return nil, errors.New("upstream down")
		}
		return []string{"recovered"}, nil
	})

	assert.Error(t, c.EnsureLoaded(context.Background()))
	assert.Error(t, c.EnsureLoaded(context.Background()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.False(t, c.Loaded())

	down = false
	require.NoError(t, c.EnsureLoaded(context.Background()))
	assert.Equal(t, []string{"recovered"}, c.Snapshot())
	assert.True(t, c.Loaded())

	// once loaded, further calls stop hitting the upstream
	require.NoError(t, c.EnsureLoaded(context.Background()))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFailedInitialLoadRecoversViaRefresh(t *testing.T) {
	var fail = true
	c := NewCollection(func(ctx context.Context) ([]string, error) {
		if fail {
			return nil, errors.New("upstream down")
		}
		return []string{"late"}, nil
	})

	assert.Error(t, c.EnsureLoaded(context.Background()))
	assert.False(t, c.Loaded())

	fail = false
	require.NoError(t, c.Refresh(context.Background()))
	assert.NoError(t, c.EnsureLoaded(context.Background()))
	assert.Equal(t, []string{"late"}, c.Snapshot())
}

func TestSnapshotIsACopy(t *testing.T) {
	c := NewCollection(func(ctx context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})
	require.NoError(t, c.Refresh(context.Background()))

	snap := c.Snapshot()
	snap[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, c.Snapshot())
}

func TestSubscribeSignalsOnRefresh(t *testing.T) {
	c := NewCollection(func(ctx context.Context) ([]string, error) {
		return []string{"x"}, nil
	})
	ch := c.Subscribe()

	require.NoError(t, c.Refresh(context.Background()))

	select {
	case <-ch:
	default:
		t.Fatal("expected a refresh signal")
	}
}
