package store

import (
	"context"
	"sync"
	"time"

	"github.com/solflow/solflow/internal/engine"
)

// MemoryWriter is an in-memory Writer + BlocklistOracle test double,
// satisfying the same narrow interface as SQLiteWriter (§9: "Writers
// present a single narrow interface so alternate backends ... can
// substitute").
type MemoryWriter struct {
	mu         sync.Mutex
	Aggregates map[string]engine.Snapshot
	Signals    []engine.Signal
	Buckets    map[string]map[int64]int // mint -> bucket_ts -> buy_count
	Blocklist  map[string]*int64        // mint -> expires_at (nil = no expiry)
}

// NewMemoryWriter returns an empty MemoryWriter.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{
		Aggregates: make(map[string]engine.Snapshot),
		Buckets:    make(map[string]map[int64]int),
		Blocklist:  make(map[string]*int64),
	}
}

func (m *MemoryWriter) WriteAggregates(_ context.Context, batch []engine.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, snap := range batch {
		m.Aggregates[snap.Mint] = snap
		bucketTS := (snap.UpdatedAt / 60) * 60
		if m.Buckets[snap.Mint] == nil {
			m.Buckets[snap.Mint] = make(map[int64]int)
		}
		m.Buckets[snap.Mint][bucketTS] = snap.DCABuys[60*time.Second]
	}
	return nil
}

func (m *MemoryWriter) WriteSignal(ctx context.Context, sig engine.Signal) error {
	blocked, _ := m.IsBlocked(ctx, sig.Mint, time.Unix(sig.CreatedAt, 0))
	if blocked {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Signals = append(m.Signals, sig)
	return nil
}

func (m *MemoryWriter) MaintainBuckets(_ context.Context, now time.Time, retention time.Duration) error {
	cutoff := now.Unix() - int64(retention/time.Second)
	m.mu.Lock()
	defer m.mu.Unlock()
	for mint, buckets := range m.Buckets {
		for ts := range buckets {
			if ts < cutoff {
				delete(buckets, ts)
			}
		}
		m.Buckets[mint] = buckets
	}
	return nil
}

func (m *MemoryWriter) IsBlocked(_ context.Context, mint string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiresAt, ok := m.Blocklist[mint]
	if !ok {
		return false, nil
	}
	return expiresAt == nil || *expiresAt > now.Unix(), nil
}

// Block adds a blocklist row; expiresAt == nil means it never expires.
func (m *MemoryWriter) Block(mint string, expiresAt *int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Blocklist[mint] = expiresAt
}
