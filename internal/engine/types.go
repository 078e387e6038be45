package engine

import "time"

// SignalType enumerates the signal kinds detected each tick (§4.6).
type SignalType string

const (
	Breakout      SignalType = "BREAKOUT"
	Surge         SignalType = "SURGE"
	Focused       SignalType = "FOCUSED"
	BotDropoff    SignalType = "BOT_DROPOFF"
	DCAConviction SignalType = "DCA_CONVICTION"
)

// AllSignalTypes lists every kind in a fixed iteration order so tick
// output is deterministic per mint.
var AllSignalTypes = []SignalType{Breakout, Surge, Focused, BotDropoff, DCAConviction}

// WindowMetrics is the set of aggregates computed for one rolling window.
type WindowMetrics struct {
	NetFlowSOL    float64
	BuyVolumeSOL  float64
	SellVolumeSOL float64
	BuyCount      int
	SellCount     int
}

// Snapshot is the Aggregate Snapshot emitted per mint per flush (§3).
type Snapshot struct {
	Mint string

	Windows map[time.Duration]WindowMetrics

	UniqueWallets300s   int
	BotTrades300s       int
	BotWallets300s      int
	AvgTradeSize300sSOL float64

	// DCABuys is dca_buys_Ws for W in {60,300,900,3600,14400}.
	DCABuys map[time.Duration]int

	UpdatedAt int64
}

// Signal is an append-only detection event (§3).
type Signal struct {
	Mint      string
	Type      SignalType
	CreatedAt int64
	Details   map[string]interface{}
}
