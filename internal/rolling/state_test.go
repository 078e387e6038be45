package rolling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solflow/solflow/internal/tradeio"
)

func rec(ts int64, prog tradeio.SourceProgram, side tradeio.Side, sol float64) *tradeio.Record {
	return &tradeio.Record{Timestamp: ts, SourceProgram: prog, Side: side, SolAmount: sol, Mint: "M"}
}

func TestIngestPopulatesAllWindowsAndProgramBuffer(t *testing.T) {
	s := NewState("M")
	s.Ingest(rec(1000, tradeio.PumpFun, tradeio.Buy, 1))

	for _, w := range Windows {
		require.Len(t, s.Window(w), 1)
	}
	assert.Len(t, s.ProgramBuffer(tradeio.PumpFun), 1)
}

func TestEvictInclusiveLowerBound(t *testing.T) {
	s := NewState("M")
	s.Ingest(rec(940, tradeio.PumpFun, tradeio.Buy, 1)) // now=1000, W=60 -> boundary at 940

	s.Evict(1000)
	assert.Len(t, s.Window(60*time.Second), 1, "timestamp == now-W must be kept")

	s.Evict(1001)
	assert.Len(t, s.Window(60*time.Second), 0, "timestamp == now-W-1 must be dropped")
}

func TestIdleReap(t *testing.T) {
	s := NewState("M")
	s.Ingest(rec(0, tradeio.PumpFun, tradeio.Buy, 1))
	threshold := int64(ReapIdle.Seconds())
	s.Evict(threshold + 1) // evict everything out of every window, including the 14400s one

	assert.True(t, s.IsEmpty())
	assert.False(t, s.Idle(threshold), "not idle yet at exactly the threshold")
	assert.True(t, s.Idle(threshold+1))
}
