// Package tradeio defines the normalized Trade Record shared by every
// downstream component: the fixed program registry, the side/program
// enums, and the dust filter applied to balance-derived amounts.
package tradeio

import "github.com/gagliardetto/solana-go"

// SourceProgram identifies which tracked DEX program produced a trade.
// Dispatch on it is a fixed five-way comparison, never an open registry
// lookup, so a new program always means a code change here.
type SourceProgram int

const (
	PumpFun SourceProgram = iota
	PumpSwap
	BonkSwap
	Moonshot
	JupiterDCA
)

func (s SourceProgram) String() string {
	switch s {
	case PumpFun:
		return "PumpFun"
	case PumpSwap:
		return "PumpSwap"
	case BonkSwap:
		return "BonkSwap"
	case Moonshot:
		return "Moonshot"
	case JupiterDCA:
		return "JupiterDCA"
	default:
		return "Unknown"
	}
}

// IsSpotDEX reports whether the program is one of the spot-swap venues
// used in the DCA_CONVICTION correlation (everything except JupiterDCA).
func (s SourceProgram) IsSpotDEX() bool {
	return s == PumpFun || s == PumpSwap || s == BonkSwap || s == Moonshot
}

// Side is the trade direction, derived from the trader's SOL balance delta.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "Buy"
	}
	return "Sell"
}

// DustThreshold is the minimum SOL amount a trade must move to be kept.
// A trade with sol_amount == DustThreshold is kept (inclusive); anything
// smaller is dropped as fee-only noise.
const DustThreshold = 0.0001

// Record is an immutable, normalized representation of one trade.
type Record struct {
	Timestamp      int64 // seconds since epoch
	Signature      string
	SourceProgram  SourceProgram
	Mint           string
	Side           Side
	SolAmount      float64 // non-negative, SOL
	TokenAmount    float64 // non-negative, UI-normalized by decimals
	TokenDecimals  uint8
	Trader         string // optional; empty if unresolved
	Discriminator  string // hex-encoded 8-byte fingerprint of the matched instruction
}

// Valid checks the invariants every produced Record must satisfy.
func (r *Record) Valid() bool {
	if r.SolAmount < 0 || r.TokenAmount < 0 {
		return false
	}
	if r.SolAmount < DustThreshold {
		return false
	}
	return true
}

// ProgramEntry is one row of the fixed program registry.
type ProgramEntry struct {
	Name    SourceProgram
	Address solana.PublicKey
}

// Registry is the hard-coded set of tracked program addresses (§6).
var Registry = []ProgramEntry{
	{PumpFun, solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")},
	{PumpSwap, solana.MustPublicKeyFromBase58("pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA")},
	{BonkSwap, solana.MustPublicKeyFromBase58("LanMV9sAd7wArD4vJFi2qDdfnVhFxYSUg6eADduJ3uj")},
	{Moonshot, solana.MustPublicKeyFromBase58("MoonCVVNZFSYkqNXP6bxHLPL6QQJiMagDL3qcqUQTrG")},
	{JupiterDCA, solana.MustPublicKeyFromBase58("DCA265Vj8a9CEuX1eb1LWRnDT7uK6q1xMipnNyatn23M")},
}

// WrappedSOLMint is excluded from primary-mint selection in the balance extractor.
var WrappedSOLMint = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")

// StablecoinMints are excluded from primary-mint selection alongside wrapped SOL.
var StablecoinMints = map[string]bool{
	"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v": true, // USDC
	"Es9vMFrzaCERmJfrFz4rQZf5nC5QgZFUY6BebquG4wNYB": true, // USDT
}

// MatchProgram returns the registry entry whose address equals pk, if any.
func MatchProgram(pk solana.PublicKey) (ProgramEntry, bool) {
	for _, entry := range Registry {
		if entry.Address.Equals(pk) {
			return entry, true
		}
	}
	return ProgramEntry{}, false
}
