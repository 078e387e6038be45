package store

// schema is the bootstrap DDL for SolFlow's four tables (§6). This is
// table creation, not a migration framework — schema migration tooling
// remains an external concern per spec.md's Non-goals.
const schema = `
CREATE TABLE IF NOT EXISTS token_aggregates (
	mint TEXT PRIMARY KEY,
	net_flow_60s_sol REAL, buy_count_60s INT, sell_count_60s INT, volume_60s_sol REAL,
	net_flow_300s_sol REAL, buy_count_300s INT, sell_count_300s INT, volume_300s_sol REAL,
	net_flow_900s_sol REAL, buy_count_900s INT, sell_count_900s INT, volume_900s_sol REAL,
	net_flow_3600s_sol REAL, buy_count_3600s INT, sell_count_3600s INT, volume_3600s_sol REAL,
	net_flow_7200s_sol REAL, buy_count_7200s INT, sell_count_7200s INT, volume_7200s_sol REAL,
	net_flow_14400s_sol REAL, buy_count_14400s INT, sell_count_14400s INT, volume_14400s_sol REAL,
	unique_wallets_300s INT,
	bot_trades_300s INT,
	bot_wallets_300s INT,
	avg_trade_size_300s_sol REAL,
	dca_buys_60s INT, dca_buys_300s INT, dca_buys_900s INT, dca_buys_3600s INT, dca_buys_14400s INT,
	updated_at INT,
	price_usd REAL,
	price_sol REAL,
	market_cap_usd REAL
);

CREATE TABLE IF NOT EXISTS token_signals (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	mint TEXT,
	signal_type TEXT,
	created_at INT,
	details_json TEXT
);
CREATE INDEX IF NOT EXISTS idx_token_signals_mint_created ON token_signals(mint, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_token_signals_created ON token_signals(created_at DESC);

CREATE TABLE IF NOT EXISTS mint_blocklist (
	mint TEXT PRIMARY KEY,
	reason TEXT,
	blocked_by TEXT,
	created_at INT,
	expires_at INT
);

CREATE TABLE IF NOT EXISTS dca_activity_buckets (
	mint TEXT,
	bucket_ts INT,
	buy_count INT,
	PRIMARY KEY (mint, bucket_ts)
);
CREATE INDEX IF NOT EXISTS idx_dca_activity_buckets_ts ON dca_activity_buckets(bucket_ts);
`
