package engine

import "time"

// Config holds every tunable threshold and interval the engine uses to
// detect signals (§4.6, §6). Zero-value Config is not safe to use;
// construct via DefaultConfig and override as needed.
type Config struct {
	BreakoutNetFlowSOL    float64
	BreakoutBuyCount      int
	SurgeBuyCount         int
	SurgeNetFlowSOL       float64
	FocusedUniqueWallets  int
	FocusedVolumeSOL      float64
	BotDropoffPrevCount   int
	BotDropoffCurrentMax  int
	BotTradeThreshold     int // trades in 300s window to be a "bot" wallet
	DCAMinBuys            int
	DCAMinSpotBuys        int
	DCAOverlapThreshold   float64
	CorrelationWindow     time.Duration
}

// DefaultConfig returns the thresholds named explicitly in §4.6/§6.
func DefaultConfig() Config {
	return Config{
		BreakoutNetFlowSOL:   50,
		BreakoutBuyCount:     10,
		SurgeBuyCount:        5,
		SurgeNetFlowSOL:      10,
		FocusedUniqueWallets: 5,
		FocusedVolumeSOL:     100,
		BotDropoffPrevCount:  5,
		BotDropoffCurrentMax: 2,
		BotTradeThreshold:    10,
		DCAMinBuys:           3,
		DCAMinSpotBuys:       5,
		DCAOverlapThreshold:  0.25,
		CorrelationWindow:    60 * time.Second,
	}
}
