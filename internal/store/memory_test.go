package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solflow/solflow/internal/engine"
)

// TestBlocklistSuppression is spec.md §8 seed scenario 3: the engine
// produces a signal for a blocked mint, but the writer silently drops it.
func TestBlocklistSuppression(t *testing.T) {
	w := NewMemoryWriter()
	w.Block("M1", nil) // never expires

	sig := engine.Signal{Mint: "M1", Type: engine.DCAConviction, CreatedAt: 1000}
	err := w.WriteSignal(context.Background(), sig)

	require.NoError(t, err)
	assert.Len(t, w.Signals, 0, "blocked mint's signal must be silently dropped")
}

func TestBlocklistExpiry(t *testing.T) {
	w := NewMemoryWriter()
	expiresAt := int64(500)
	w.Block("M1", &expiresAt)

	blockedBefore, err := w.IsBlocked(context.Background(), "M1", time.Unix(400, 0))
	require.NoError(t, err)
	assert.True(t, blockedBefore)

	blockedAfter, err := w.IsBlocked(context.Background(), "M1", time.Unix(600, 0))
	require.NoError(t, err)
	assert.False(t, blockedAfter)
}

func TestWriteAggregatesPopulatesBucket(t *testing.T) {
	w := NewMemoryWriter()
	snap := engine.Snapshot{
		Mint:      "M1",
		Windows:   map[time.Duration]engine.WindowMetrics{},
		DCABuys:   map[time.Duration]int{60 * time.Second: 3},
		UpdatedAt: 3661,
	}
	err := w.WriteAggregates(context.Background(), []engine.Snapshot{snap})
	require.NoError(t, err)

	assert.Equal(t, 3, w.Buckets["M1"][3660])
}

// TestBucketGC is spec.md §8 seed scenario 6: a bucket floored to 3660
// must be removed once now advances past its retention window.
func TestBucketGC(t *testing.T) {
	w := NewMemoryWriter()
	w.Buckets["M1"] = map[int64]int{3660: 5}

	err := w.MaintainBuckets(context.Background(), time.Unix(3661, 0), 7200*time.Second)
	require.NoError(t, err)
	assert.Contains(t, w.Buckets["M1"], int64(3660), "not yet past retention")

	err = w.MaintainBuckets(context.Background(), time.Unix(10861, 0), 7200*time.Second)
	require.NoError(t, err)
	assert.NotContains(t, w.Buckets["M1"], int64(3660), "past retention: removed")
}
