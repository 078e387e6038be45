package engine

import (
	"time"

	"github.com/solflow/solflow/internal/rolling"
	"github.com/solflow/solflow/internal/tradeio"
)

const botWindow = 300 * time.Second

// dcaWindows is the set of windows for which per-program DCA buy counts
// are published (§3: dca_buys_Ws for W in {60,300,900,3600,14400}).
var dcaWindows = []time.Duration{
	60 * time.Second,
	300 * time.Second,
	900 * time.Second,
	3600 * time.Second,
	14400 * time.Second,
}

func computeWindowMetrics(buf []*tradeio.Record) WindowMetrics {
	var m WindowMetrics
	for _, r := range buf {
		switch r.Side {
		case tradeio.Buy:
			m.BuyVolumeSOL += r.SolAmount
			m.BuyCount++
		case tradeio.Sell:
			m.SellVolumeSOL += r.SolAmount
			m.SellCount++
		}
	}
	m.NetFlowSOL = m.BuyVolumeSOL - m.SellVolumeSOL
	return m
}

// botDetection scans the 300s buffer and returns bot_trades_300s and
// bot_wallets_300s: a wallet is a bot if it contributed >= threshold
// trades in the window.
func botDetection(buf300 []*tradeio.Record, threshold int) (botTrades, botWallets, uniqueWallets int) {
	counts := make(map[string]int)
	for _, r := range buf300 {
		if r.Trader == "" {
			continue
		}
		counts[r.Trader]++
	}
	uniqueWallets = len(counts)
	for _, c := range counts {
		if c >= threshold {
			botWallets++
			botTrades += c
		}
	}
	return
}

// dcaBuyCounts returns, per window in dcaWindows, the count of
// JupiterDCA buys within that window relative to now.
func dcaBuyCounts(s *rolling.State, now int64) map[time.Duration]int {
	out := make(map[time.Duration]int, len(dcaWindows))
	buf := s.ProgramBuffer(tradeio.JupiterDCA)
	for _, w := range dcaWindows {
		out[w] = countBuysInWindow(buf, now, w)
	}
	return out
}

func countBuysInWindow(buf []*tradeio.Record, now int64, w time.Duration) int {
	cutoff := now - int64(w/time.Second)
	n := 0
	for _, r := range buf {
		if r.Side == tradeio.Buy && r.Timestamp >= cutoff {
			n++
		}
	}
	return n
}

// dcaCorrelation computes D, P, M, overlap_ratio over the 300s window
// using the JupiterDCA and spot-DEX per-program buffers, correlating on
// the configured temporal window (default ±60s).
func dcaCorrelation(s *rolling.State, now int64, correlationWindow time.Duration) (d, p, m int, overlapRatio float64) {
	cutoff := now - int64(300)
	var dcaBuys []*tradeio.Record
	for _, r := range s.ProgramBuffer(tradeio.JupiterDCA) {
		if r.Side == tradeio.Buy && r.Timestamp >= cutoff {
			dcaBuys = append(dcaBuys, r)
		}
	}

	var spotBuys []*tradeio.Record
	for _, prog := range []tradeio.SourceProgram{tradeio.PumpFun, tradeio.PumpSwap, tradeio.BonkSwap, tradeio.Moonshot} {
		for _, r := range s.ProgramBuffer(prog) {
			if r.Side == tradeio.Buy && r.Timestamp >= cutoff {
				spotBuys = append(spotBuys, r)
			}
		}
	}

	d = len(dcaBuys)
	p = len(spotBuys)

	windowSecs := int64(correlationWindow / time.Second)
	matched := 0
	for _, dca := range dcaBuys {
		for _, spot := range spotBuys {
			diff := dca.Timestamp - spot.Timestamp
			if diff < 0 {
				diff = -diff
			}
			if diff <= windowSecs {
				matched++
				break
			}
		}
	}
	m = matched

	denom := d
	if denom < 1 {
		denom = 1
	}
	overlapRatio = float64(m) / float64(denom)
	return
}
