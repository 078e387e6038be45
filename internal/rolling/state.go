// Package rolling implements the per-token rolling-window state: ordered
// trade buffers per window, the per-program view used for DCA
// correlation, and the bookkeeping needed for signal deduplication and
// memory reclamation.
package rolling

import (
	"time"

	"github.com/solflow/solflow/internal/tradeio"
)

// Windows is the fixed set of rolling windows maintained per mint (§3).
var Windows = []time.Duration{
	60 * time.Second,
	300 * time.Second,
	900 * time.Second,
	3600 * time.Second,
	7200 * time.Second,
	14400 * time.Second,
}

// ProgramWindow is the horizon kept for the per-source-program buffers;
// it must cover every window the DCA correlation and per-program counts
// need (14400s, the largest dca_buys_Ws window).
const ProgramWindow = 14400 * time.Second

// ReapIdle is how long after a mint's most recent trade its state may be
// dropped from the engine's map, provided every window buffer is empty
// by then (§3 Lifecycle).
const ReapIdle = 4 * time.Hour

// State is one mint's rolling window state. It is owned exclusively by
// the Pipeline Engine; mutations happen under the engine's lock.
type State struct {
	Mint string

	// Buffers holds, for each window, the trades currently inside it in
	// timestamp-ascending (roughly arrival) order.
	Buffers map[time.Duration][]*tradeio.Record

	// ProgramBuffers holds, for each source program, every trade by that
	// program within ProgramWindow — the substrate for dca_buys_Ws counts
	// and the DCA_CONVICTION correlation.
	ProgramBuffers map[tradeio.SourceProgram][]*tradeio.Record

	// LastBotCount300s is bot_wallets_300s as observed on the previous
	// tick, used by the BOT_DROPOFF predicate.
	LastBotCount300s int

	// LastSignalTrue tracks, per signal type, whether its predicate was
	// true on the previous tick — the dedup mechanism of §4.6.
	LastSignalTrue map[string]bool

	// LastDCABucketFlushed is the 60s-floored epoch of the last history
	// bucket row written for this mint.
	LastDCABucketFlushed int64

	// LastActivity is the timestamp of the most recent trade ingested,
	// used to decide eligibility for Reap.
	LastActivity int64
}

// NewState creates an empty rolling state for mint.
func NewState(mint string) *State {
	s := &State{
		Mint:           mint,
		Buffers:        make(map[time.Duration][]*tradeio.Record, len(Windows)),
		ProgramBuffers: make(map[tradeio.SourceProgram][]*tradeio.Record),
		LastSignalTrue: make(map[string]bool),
	}
	for _, w := range Windows {
		s.Buffers[w] = nil
	}
	return s
}

// Ingest appends r to every window buffer and to its program buffer, then
// evicts anything that has already expired relative to r's own timestamp
// (keeps the state internally consistent even when ticks lag behind).
func (s *State) Ingest(r *tradeio.Record) {
	for _, w := range Windows {
		s.Buffers[w] = append(s.Buffers[w], r)
	}
	s.ProgramBuffers[r.SourceProgram] = append(s.ProgramBuffers[r.SourceProgram], r)
	if r.Timestamp > s.LastActivity {
		s.LastActivity = r.Timestamp
	}
	s.Evict(r.Timestamp)
}

// Evict drops, from every buffer, trades whose timestamp has fallen
// outside [now-W, now]. A trade with timestamp == now-W is kept
// (inclusive lower bound per §8 boundary behavior).
func (s *State) Evict(now int64) {
	for _, w := range Windows {
		s.Buffers[w] = evictBefore(s.Buffers[w], now-int64(w/time.Second))
	}
	for prog, buf := range s.ProgramBuffers {
		s.ProgramBuffers[prog] = evictBefore(buf, now-int64(ProgramWindow/time.Second))
	}
}

func evictBefore(buf []*tradeio.Record, cutoff int64) []*tradeio.Record {
	head := 0
	for head < len(buf) && buf[head].Timestamp < cutoff {
		head++
	}
	if head == 0 {
		return buf
	}
	remaining := make([]*tradeio.Record, len(buf)-head)
	copy(remaining, buf[head:])
	return remaining
}

// Window returns the current buffer for window w (no copy).
func (s *State) Window(w time.Duration) []*tradeio.Record {
	return s.Buffers[w]
}

// ProgramBuffer returns the current per-program buffer (no copy).
func (s *State) ProgramBuffer(p tradeio.SourceProgram) []*tradeio.Record {
	return s.ProgramBuffers[p]
}

// IsEmpty reports whether every window buffer is currently empty.
func (s *State) IsEmpty() bool {
	for _, w := range Windows {
		if len(s.Buffers[w]) > 0 {
			return false
		}
	}
	return true
}

// Idle reports whether, as of now, every window buffer is empty and more
// than ReapIdle has passed since the most recent ingested trade.
func (s *State) Idle(now int64) bool {
	if !s.IsEmpty() {
		return false
	}
	return now-s.LastActivity > int64(ReapIdle/time.Second)
}
