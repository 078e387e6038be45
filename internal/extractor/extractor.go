// Package extractor implements the balance extractor: it turns a matched
// transaction (§4.1's scanner output) into a normalized tradeio.Record by
// diffing pre/post SOL and token balances. Instruction data is decoded
// only for the JupiterDCA deposit-event fallback in jupiterdca.go.
package extractor

import (
	"encoding/hex"
	"math"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"

	"github.com/solflow/solflow/internal/scanner"
	"github.com/solflow/solflow/internal/tradeio"
	"github.com/solflow/solflow/internal/txview"
)

const lamportsPerSOL = 1_000_000_000

// tokenKey pairs an account index with its mint, as the spec requires
// pre/post token balances to be paired by (account, mint).
type tokenKey struct {
	account uint16
	mint    string
}

type tokenDelta struct {
	mint     string
	decimals uint8
	rawDelta int64 // post - pre, raw base units
}

// Extract derives a Trade Record from v given the scanner's match, or
// returns nil when the transaction has no identifiable primary
// mint or its SOL amount fails the dust filter. blockTime is used as the
// record timestamp when non-zero; otherwise the caller's wall-clock
// fallback (now) is used. log may be nil; it only receives debug-level
// notices about the side cross-check disagreeing with itself.
func Extract(v *txview.View, match *scanner.Match, blockTime int64, now int64, log *logrus.Entry) *tradeio.Record {
	if v.Meta == nil {
		return nil
	}

	solDeltas := solBalanceDeltasLamports(v)
	traderIdx, traderDeltaLamports, ok := dominantSOLAccount(solDeltas)
	fellBackToDCAEvent := false
	if !ok {
		if match.Program == tradeio.JupiterDCA {
			if amt, fbOK := jupiterDCAFallbackLamports(match.Instruction); fbOK {
				traderDeltaLamports, ok, fellBackToDCAEvent = -amt, true, true // a DCA deposit event records a buy
			}
		}
		if !ok {
			return nil
		}
	}

	tokenDeltas := tokenBalanceDeltas(v)
	primary, ok := primaryMint(tokenDeltas)
	if !ok {
		return nil
	}

	side := tradeio.Buy
	if traderDeltaLamports >= 0 {
		side = tradeio.Sell
	}

	// Defensive cross-check (mirrors the teacher's adjustOrderBySolDelta
	// double-check): a coherent buy moves tokens in while SOL moves out,
	// and vice versa for a sell. Disagreement is logged, never corrected
	// here — the SOL-delta-derived side remains authoritative per §4.2.
	tokenSide := tradeio.Buy
	if primary.rawDelta < 0 {
		tokenSide = tradeio.Sell
	}
	if tokenSide != side && log != nil {
		log.Debugf("side cross-check mismatch for mint %s: sol delta implies %s, token delta implies %s", primary.mint, side, tokenSide)
	}

	solAmount := math.Abs(float64(traderDeltaLamports)) / lamportsPerSOL
	tokenAmount := math.Abs(float64(primary.rawDelta)) / math.Pow10(int(primary.decimals))

	ts := blockTime
	if ts == 0 {
		ts = now
	}

	trader := ""
	if !fellBackToDCAEvent {
		if key, ok := v.KeyAt(traderIdx); ok {
			trader = key.String()
		}
	}

	rec := &tradeio.Record{
		Timestamp:     ts,
		Signature:     firstSignature(v),
		SourceProgram: match.Program,
		Mint:          primary.mint,
		Side:          side,
		SolAmount:     solAmount,
		TokenAmount:   tokenAmount,
		TokenDecimals: primary.decimals,
		Trader:        trader,
		Discriminator: discriminatorHex(match.Instruction),
	}

	if !rec.Valid() {
		return nil
	}
	return rec
}

func firstSignature(v *txview.View) string {
	if len(v.Tx.Signatures) == 0 {
		return ""
	}
	return v.Tx.Signatures[0].String()
}

// discriminatorHex returns the hex-encoded first 8 bytes of the matched
// instruction's data (the Anchor discriminator convention the teacher
// checks against for Pump.fun/Jupiter events), zero-padded if shorter.
func discriminatorHex(instr solana.CompiledInstruction) string {
	buf := make([]byte, 8)
	copy(buf, instr.Data)
	return hex.EncodeToString(buf)
}

// solBalanceDeltasLamports returns, for every account index covered by
// PreBalances/PostBalances, the signed lamport delta, excluding entries
// whose SOL-converted magnitude is under the dust threshold.
func solBalanceDeltasLamports(v *txview.View) map[uint16]int64 {
	deltas := make(map[uint16]int64)
	pre := v.Meta.PreBalances
	post := v.Meta.PostBalances
	n := len(pre)
	if len(post) < n {
		n = len(post)
	}
	for i := 0; i < n; i++ {
		delta := int64(post[i]) - int64(pre[i])
		if math.Abs(float64(delta)/lamportsPerSOL) < tradeio.DustThreshold {
			continue
		}
		deltas[uint16(i)] = delta
	}
	return deltas
}

// dominantSOLAccount returns the account index with the largest absolute
// SOL delta (lamports) and that delta, or false if none survive the
// dust filter.
func dominantSOLAccount(deltas map[uint16]int64) (uint16, int64, bool) {
	var (
		bestIdx   uint16
		bestDelta int64
		found     bool
	)
	for idx, delta := range deltas {
		if !found || absI64(delta) > absI64(bestDelta) {
			bestIdx, bestDelta, found = idx, delta, true
		}
	}
	return bestIdx, bestDelta, found
}

// tokenBalanceDeltas pairs pre and post token balances by (account, mint).
// Accounts present only in post (new token accounts) are treated as
// pre = 0. Decimals come from the post balance, falling back to pre.
func tokenBalanceDeltas(v *txview.View) []tokenDelta {
	type acc struct {
		pre, post uint64
		hasPre    bool
		decimals  uint8
		mint      string
	}
	byKey := make(map[tokenKey]*acc)

	for _, tb := range v.Meta.PreTokenBalances {
		amt, err := strconv.ParseUint(tb.UiTokenAmount.Amount, 10, 64)
		if err != nil {
			continue
		}
		key := tokenKey{account: tb.AccountIndex, mint: tb.Mint.String()}
		byKey[key] = &acc{pre: amt, hasPre: true, decimals: tb.UiTokenAmount.Decimals, mint: tb.Mint.String()}
	}
	for _, tb := range v.Meta.PostTokenBalances {
		amt, err := strconv.ParseUint(tb.UiTokenAmount.Amount, 10, 64)
		if err != nil {
			continue
		}
		key := tokenKey{account: tb.AccountIndex, mint: tb.Mint.String()}
		if existing, ok := byKey[key]; ok {
			existing.post = amt
			existing.decimals = tb.UiTokenAmount.Decimals // post wins
		} else {
			byKey[key] = &acc{post: amt, decimals: tb.UiTokenAmount.Decimals, mint: tb.Mint.String()}
		}
	}

	deltas := make([]tokenDelta, 0, len(byKey))
	for _, a := range byKey {
		raw := int64(a.post) - int64(a.pre)
		if raw == 0 {
			continue
		}
		deltas = append(deltas, tokenDelta{mint: a.mint, decimals: a.decimals, rawDelta: raw})
	}
	return deltas
}

// primaryMint picks the token delta with the largest absolute raw delta,
// excluding wrapped SOL and the stablecoin exclusion list.
func primaryMint(deltas []tokenDelta) (tokenDelta, bool) {
	var (
		best  tokenDelta
		found bool
	)
	wsol := tradeio.WrappedSOLMint.String()
	for _, d := range deltas {
		if d.mint == wsol || tradeio.StablecoinMints[d.mint] {
			continue
		}
		if !found || absI64(d.rawDelta) > absI64(best.rawDelta) {
			best, found = d, true
		}
	}
	return best, found
}

func absI64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
