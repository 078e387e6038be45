package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solflow/solflow/internal/engine"
)

func openTestWriter(t *testing.T) *SQLiteWriter {
	t.Helper()
	path := filepath.Join(t.TempDir(), "solflow.db")
	w, err := Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestWriteAggregatesRoundTrip(t *testing.T) {
	w := openTestWriter(t)
	ctx := context.Background()

	snap := engine.Snapshot{
		Mint: "MINT1",
		Windows: map[time.Duration]engine.WindowMetrics{
			60 * time.Second:    {NetFlowSOL: 1, BuyCount: 1},
			300 * time.Second:   {NetFlowSOL: 2, BuyCount: 2},
			900 * time.Second:   {},
			3600 * time.Second:  {},
			7200 * time.Second:  {},
			14400 * time.Second: {},
		},
		DCABuys:   map[time.Duration]int{60 * time.Second: 1, 300 * time.Second: 2, 900 * time.Second: 0, 3600 * time.Second: 0, 14400 * time.Second: 0},
		UpdatedAt: 1000,
	}

	require.NoError(t, w.WriteAggregates(ctx, []engine.Snapshot{snap}))

	var netFlow300 float64
	row := w.db.QueryRowContext(ctx, `SELECT net_flow_300s_sol FROM token_aggregates WHERE mint = ?`, "MINT1")
	require.NoError(t, row.Scan(&netFlow300))
	assert.Equal(t, 2.0, netFlow300)

	var buyCount int
	row = w.db.QueryRowContext(ctx, `SELECT buy_count FROM dca_activity_buckets WHERE mint = ? AND bucket_ts = ?`, "MINT1", int64(960))
	require.NoError(t, row.Scan(&buyCount))
	assert.Equal(t, 1, buyCount)

	// Upserting again for the same mint must replace, not duplicate, the row.
	snap.UpdatedAt = 1001
	require.NoError(t, w.WriteAggregates(ctx, []engine.Snapshot{snap}))
	var count int
	row = w.db.QueryRowContext(ctx, `SELECT count(*) FROM token_aggregates WHERE mint = ?`, "MINT1")
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, 1, count)
}

func TestWriteSignalRespectsBlocklist(t *testing.T) {
	w := openTestWriter(t)
	ctx := context.Background()

	_, err := w.db.ExecContext(ctx, `INSERT INTO mint_blocklist (mint, reason, blocked_by, created_at, expires_at) VALUES (?, ?, ?, ?, ?)`,
		"BLOCKED", "spam", "test", 0, nil)
	require.NoError(t, err)

	require.NoError(t, w.WriteSignal(ctx, engine.Signal{Mint: "BLOCKED", Type: engine.Breakout, CreatedAt: 10}))
	require.NoError(t, w.WriteSignal(ctx, engine.Signal{Mint: "OK", Type: engine.Breakout, CreatedAt: 10}))

	var count int
	row := w.db.QueryRowContext(ctx, `SELECT count(*) FROM token_signals`)
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, 1, count)

	row = w.db.QueryRowContext(ctx, `SELECT mint FROM token_signals`)
	var mint string
	require.NoError(t, row.Scan(&mint))
	assert.Equal(t, "OK", mint)
}

func TestMaintainBucketsDeletesExpired(t *testing.T) {
	w := openTestWriter(t)
	ctx := context.Background()

	_, err := w.db.ExecContext(ctx, `INSERT INTO dca_activity_buckets (mint, bucket_ts, buy_count) VALUES (?, ?, ?)`, "M", 3660, 5)
	require.NoError(t, err)

	require.NoError(t, w.MaintainBuckets(ctx, time.Unix(10861, 0), 7200*time.Second))

	var count int
	row := w.db.QueryRowContext(ctx, `SELECT count(*) FROM dca_activity_buckets`)
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, 0, count)
}
