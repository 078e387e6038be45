// Package engine implements the rolling-window pipeline engine: it owns
// every per-mint rolling state, ingests trades, and on each tick computes
// aggregate snapshots and detects/deduplicates signals, including the
// cross-program DCA conviction correlation.
package engine

import (
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/solflow/solflow/internal/rolling"
	"github.com/solflow/solflow/internal/tradeio"
)

// Engine owns all rolling states under a single mutex. Operations are
// synchronous; there are no suspension points while the lock is held.
type Engine struct {
	mu     sync.Mutex
	states map[string]*rolling.State
	cfg    Config
	log    *logrus.Entry
}

// New constructs an Engine with cfg and an optional logger.
func New(cfg Config, log *logrus.Entry) *Engine {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &Engine{
		states: make(map[string]*rolling.State),
		cfg:    cfg,
		log:    log,
	}
}

// ProcessTrade routes r to its mint's rolling state, creating the state
// on first sight of the mint.
func (e *Engine) ProcessTrade(r *tradeio.Record) {
	if r == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.states[r.Mint]
	if !ok {
		s = rolling.NewState(r.Mint)
		e.states[r.Mint] = s
	}
	s.Ingest(r)
}

// ActiveMints returns the current set of mints with live rolling state.
func (e *Engine) ActiveMints() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	mints := make([]string, 0, len(e.states))
	for m := range e.states {
		mints = append(mints, m)
	}
	return mints
}

// Reap drops rolling state for mints whose window buffers are all empty
// and whose most recent trade is more than rolling.ReapIdle old.
func (e *Engine) Reap(now time.Time) {
	nowSec := now.Unix()
	e.mu.Lock()
	defer e.mu.Unlock()
	for mint, s := range e.states {
		if s.Idle(nowSec) {
			delete(e.states, mint)
		}
	}
}

// Tick evicts expired data, computes a Snapshot, and detects/deduplicates
// Signals for every active mint. Signals within a tick are returned in
// (mint, signal_type) iteration order; no ordering is guaranteed across
// ticks or mints beyond that.
func (e *Engine) Tick(now time.Time) ([]Snapshot, []Signal) {
	nowSec := now.Unix()

	e.mu.Lock()
	defer e.mu.Unlock()

	mints := make([]string, 0, len(e.states))
	for m := range e.states {
		mints = append(mints, m)
	}
	sort.Strings(mints)

	snapshots := make([]Snapshot, 0, len(mints))
	var signals []Signal

	for _, mint := range mints {
		s := e.states[mint]
		s.Evict(nowSec)

		snap := Snapshot{
			Mint:      mint,
			Windows:   make(map[time.Duration]WindowMetrics, len(rolling.Windows)),
			UpdatedAt: nowSec,
		}
		for _, w := range rolling.Windows {
			snap.Windows[w] = computeWindowMetrics(s.Window(w))
		}

		botTrades, botWallets, uniqueWallets := botDetection(s.Window(botWindow), e.cfg.BotTradeThreshold)
		snap.BotTrades300s = botTrades
		snap.BotWallets300s = botWallets
		snap.UniqueWallets300s = uniqueWallets

		m300 := snap.Windows[botWindow]
		tradeCount300 := m300.BuyCount + m300.SellCount
		if tradeCount300 > 0 {
			snap.AvgTradeSize300sSOL = (m300.BuyVolumeSOL + m300.SellVolumeSOL) / float64(tradeCount300)
		}

		snap.DCABuys = dcaBuyCounts(s, nowSec)

		snapshots = append(snapshots, snap)

		mintSignals := e.detectSignals(s, snap, nowSec)
		signals = append(signals, mintSignals...)

		s.LastBotCount300s = botWallets
	}

	return snapshots, signals
}

// detectSignals evaluates every predicate in §4.6 for one mint, applying
// the false-to-true dedup rule, and returns the newly emitted signals.
func (e *Engine) detectSignals(s *rolling.State, snap Snapshot, now int64) []Signal {
	var out []Signal

	m60 := snap.Windows[60*time.Second]
	m300 := snap.Windows[300*time.Second]

	predicates := map[SignalType]bool{
		Breakout:   m300.NetFlowSOL > e.cfg.BreakoutNetFlowSOL && m300.BuyCount > e.cfg.BreakoutBuyCount,
		Surge:      m60.BuyCount > e.cfg.SurgeBuyCount && m60.NetFlowSOL > e.cfg.SurgeNetFlowSOL,
		Focused:    snap.UniqueWallets300s < e.cfg.FocusedUniqueWallets && (m300.BuyVolumeSOL+m300.SellVolumeSOL) > e.cfg.FocusedVolumeSOL,
		BotDropoff: s.LastBotCount300s > e.cfg.BotDropoffPrevCount && snap.BotWallets300s <= e.cfg.BotDropoffCurrentMax,
	}

	d, p, matched, overlap := dcaCorrelation(s, now, e.cfg.CorrelationWindow)
	dcaTrue := d >= e.cfg.DCAMinBuys && p >= e.cfg.DCAMinSpotBuys && overlap >= e.cfg.DCAOverlapThreshold
	predicates[DCAConviction] = dcaTrue

	for _, kind := range AllSignalTypes {
		truth := predicates[kind]
		wasTrue := s.LastSignalTrue[string(kind)]
		if truth && !wasTrue {
			sig := Signal{Mint: s.Mint, Type: kind, CreatedAt: now}
			if kind == DCAConviction {
				sig.Details = map[string]interface{}{
					"overlap_ratio": overlap,
					"dca_buys":      d,
					"spot_buys":     p,
					"matched_dca":   matched,
					"net_flow_sol":  m300.NetFlowSOL,
				}
			}
			out = append(out, sig)
		}
		s.LastSignalTrue[string(kind)] = truth
	}

	return out
}

