// Package store implements the durable writer: transactional upserts of
// per-mint aggregates, append-only signal inserts gated by the blocklist
// oracle, and the time-bucketed DCA history table used for sparkline
// rendering. A narrow Writer interface lets an in-memory test double
// substitute for the real SQLite-backed implementation.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/solflow/solflow/internal/engine"
)

// Writer is the narrow capability set the scheduler drives every flush.
type Writer interface {
	WriteAggregates(ctx context.Context, batch []engine.Snapshot) error
	WriteSignal(ctx context.Context, sig engine.Signal) error
	MaintainBuckets(ctx context.Context, now time.Time, retention time.Duration) error
}

// BlocklistOracle answers whether a mint is currently blocked (§4.9).
type BlocklistOracle interface {
	IsBlocked(ctx context.Context, mint string, now time.Time) (bool, error)
}

var windowSeconds = []int64{60, 300, 900, 3600, 7200, 14400}
var dcaWindowSeconds = []int64{60, 300, 900, 3600, 14400}

func windowDuration(sec int64) time.Duration { return time.Duration(sec) * time.Second }

// SQLiteWriter is the production Writer, backed by database/sql and
// github.com/mattn/go-sqlite3, configured for write-ahead journaling
// with a batched checkpoint cadence (§6).
type SQLiteWriter struct {
	db  *sql.DB
	log *logrus.Entry

	cacheMu     chan struct{} // binary semaphore guarding cache below
	cacheMint   string
	cacheResult bool
	cacheAt     time.Time
}

// Open opens (creating if needed) a SQLite database at path, configures
// WAL journaling, NORMAL synchronous mode, and a 1000-page checkpoint
// interval, and bootstraps the schema.
func Open(path string, log *logrus.Entry) (*SQLiteWriter, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA wal_autocheckpoint=1000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set checkpoint interval: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: bootstrap schema: %w", err)
	}
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	w := &SQLiteWriter{db: db, log: log, cacheMu: make(chan struct{}, 1)}
	w.cacheMu <- struct{}{}
	return w, nil
}

// Close releases the underlying database handle.
func (w *SQLiteWriter) Close() error { return w.db.Close() }

// WriteAggregates upserts every snapshot in batch and appends a DCA
// history bucket row per mint, all inside one transaction (§4.8).
func (w *SQLiteWriter) WriteAggregates(ctx context.Context, batch []engine.Snapshot) error {
	if len(batch) == 0 {
		return nil
	}
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin aggregates tx: %w", err)
	}
	defer tx.Rollback()

	upsertStmt, err := tx.PrepareContext(ctx, upsertAggregateSQL)
	if err != nil {
		return fmt.Errorf("store: prepare upsert: %w", err)
	}
	defer upsertStmt.Close()

	bucketStmt, err := tx.PrepareContext(ctx, upsertBucketSQL)
	if err != nil {
		return fmt.Errorf("store: prepare bucket upsert: %w", err)
	}
	defer bucketStmt.Close()

	for _, snap := range batch {
		args := aggregateArgs(snap)
		if _, err := upsertStmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("store: upsert aggregate for %s: %w", snap.Mint, err)
		}

		bucketTS := (snap.UpdatedAt / 60) * 60
		dcaBuys60 := snap.DCABuys[windowDuration(60)]
		if _, err := bucketStmt.ExecContext(ctx, snap.Mint, bucketTS, dcaBuys60); err != nil {
			return fmt.Errorf("store: upsert dca bucket for %s: %w", snap.Mint, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit aggregates tx: %w", err)
	}
	return nil
}

// WriteSignal appends a signal row unless the mint is currently blocked.
func (w *SQLiteWriter) WriteSignal(ctx context.Context, sig engine.Signal) error {
	blocked, err := w.IsBlocked(ctx, sig.Mint, time.Unix(sig.CreatedAt, 0))
	if err != nil {
		return fmt.Errorf("store: blocklist check for %s: %w", sig.Mint, err)
	}
	if blocked {
		w.log.Debugf("signal %s for blocked mint %s dropped", sig.Type, sig.Mint)
		return nil
	}

	detailsJSON := "{}"
	if sig.Details != nil {
		b, err := json.Marshal(sig.Details)
		if err != nil {
			return fmt.Errorf("store: marshal signal details for %s: %w", sig.Mint, err)
		}
		detailsJSON = string(b)
	}

	_, err = w.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO token_signals (mint, signal_type, created_at, details_json) VALUES (?, ?, ?, ?)`,
		sig.Mint, string(sig.Type), sig.CreatedAt, detailsJSON,
	)
	if err != nil {
		return fmt.Errorf("store: insert signal for %s: %w", sig.Mint, err)
	}
	return nil
}

// MaintainBuckets deletes history rows older than retention relative to now (§4.7).
func (w *SQLiteWriter) MaintainBuckets(ctx context.Context, now time.Time, retention time.Duration) error {
	cutoff := now.Unix() - int64(retention/time.Second)
	_, err := w.db.ExecContext(ctx, `DELETE FROM dca_activity_buckets WHERE bucket_ts < ?`, cutoff)
	if err != nil {
		return fmt.Errorf("store: gc dca buckets: %w", err)
	}
	return nil
}

// IsBlocked answers the Blocklist Oracle contract (§4.9), caching a
// single most-recent result for up to 5 seconds per writer instance.
func (w *SQLiteWriter) IsBlocked(ctx context.Context, mint string, now time.Time) (bool, error) {
	<-w.cacheMu
	if w.cacheMint == mint && now.Sub(w.cacheAt) <= 5*time.Second {
		result := w.cacheResult
		w.cacheMu <- struct{}{}
		return result, nil
	}
	w.cacheMu <- struct{}{}

	var expiresAt sql.NullInt64
	row := w.db.QueryRowContext(ctx, `SELECT expires_at FROM mint_blocklist WHERE mint = ?`, mint)
	err := row.Scan(&expiresAt)
	blocked := false
	switch {
	case err == sql.ErrNoRows:
		blocked = false
	case err != nil:
		return false, fmt.Errorf("store: blocklist query: %w", err)
	default:
		blocked = !expiresAt.Valid || expiresAt.Int64 > now.Unix()
	}

	<-w.cacheMu
	w.cacheMint, w.cacheResult, w.cacheAt = mint, blocked, now
	w.cacheMu <- struct{}{}

	return blocked, nil
}

const upsertAggregateSQL = `
INSERT INTO token_aggregates (
	mint,
	net_flow_60s_sol, buy_count_60s, sell_count_60s, volume_60s_sol,
	net_flow_300s_sol, buy_count_300s, sell_count_300s, volume_300s_sol,
	net_flow_900s_sol, buy_count_900s, sell_count_900s, volume_900s_sol,
	net_flow_3600s_sol, buy_count_3600s, sell_count_3600s, volume_3600s_sol,
	net_flow_7200s_sol, buy_count_7200s, sell_count_7200s, volume_7200s_sol,
	net_flow_14400s_sol, buy_count_14400s, sell_count_14400s, volume_14400s_sol,
	unique_wallets_300s, bot_trades_300s, bot_wallets_300s, avg_trade_size_300s_sol,
	dca_buys_60s, dca_buys_300s, dca_buys_900s, dca_buys_3600s, dca_buys_14400s,
	updated_at
) VALUES (
	?, ?,?,?,?, ?,?,?,?, ?,?,?,?, ?,?,?,?, ?,?,?,?, ?,?,?,?, ?,?,?,?, ?,?,?,?,?, ?
)
ON CONFLICT(mint) DO UPDATE SET
	net_flow_60s_sol=excluded.net_flow_60s_sol, buy_count_60s=excluded.buy_count_60s, sell_count_60s=excluded.sell_count_60s, volume_60s_sol=excluded.volume_60s_sol,
	net_flow_300s_sol=excluded.net_flow_300s_sol, buy_count_300s=excluded.buy_count_300s, sell_count_300s=excluded.sell_count_300s, volume_300s_sol=excluded.volume_300s_sol,
	net_flow_900s_sol=excluded.net_flow_900s_sol, buy_count_900s=excluded.buy_count_900s, sell_count_900s=excluded.sell_count_900s, volume_900s_sol=excluded.volume_900s_sol,
	net_flow_3600s_sol=excluded.net_flow_3600s_sol, buy_count_3600s=excluded.buy_count_3600s, sell_count_3600s=excluded.sell_count_3600s, volume_3600s_sol=excluded.volume_3600s_sol,
	net_flow_7200s_sol=excluded.net_flow_7200s_sol, buy_count_7200s=excluded.buy_count_7200s, sell_count_7200s=excluded.sell_count_7200s, volume_7200s_sol=excluded.volume_7200s_sol,
	net_flow_14400s_sol=excluded.net_flow_14400s_sol, buy_count_14400s=excluded.buy_count_14400s, sell_count_14400s=excluded.sell_count_14400s, volume_14400s_sol=excluded.volume_14400s_sol,
	unique_wallets_300s=excluded.unique_wallets_300s, bot_trades_300s=excluded.bot_trades_300s, bot_wallets_300s=excluded.bot_wallets_300s, avg_trade_size_300s_sol=excluded.avg_trade_size_300s_sol,
	dca_buys_60s=excluded.dca_buys_60s, dca_buys_300s=excluded.dca_buys_300s, dca_buys_900s=excluded.dca_buys_900s, dca_buys_3600s=excluded.dca_buys_3600s, dca_buys_14400s=excluded.dca_buys_14400s,
	updated_at=excluded.updated_at
`

const upsertBucketSQL = `
INSERT INTO dca_activity_buckets (mint, bucket_ts, buy_count) VALUES (?, ?, ?)
ON CONFLICT(mint, bucket_ts) DO UPDATE SET buy_count=excluded.buy_count
`

func aggregateArgs(snap engine.Snapshot) []interface{} {
	args := make([]interface{}, 0, 34)
	args = append(args, snap.Mint)
	for _, sec := range windowSeconds {
		m := snap.Windows[windowDuration(sec)]
		args = append(args, m.NetFlowSOL, m.BuyCount, m.SellCount, m.BuyVolumeSOL+m.SellVolumeSOL)
	}
	args = append(args, snap.UniqueWallets300s, snap.BotTrades300s, snap.BotWallets300s, snap.AvgTradeSize300sSOL)
	for _, sec := range dcaWindowSeconds {
		args = append(args, snap.DCABuys[windowDuration(sec)])
	}
	args = append(args, snap.UpdatedAt)
	return args
}
