package tradeio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordValid(t *testing.T) {
	t.Run("dust threshold is inclusive", func(t *testing.T) {
		r := &Record{SolAmount: DustThreshold, TokenAmount: 1}
		assert.True(t, r.Valid())
	})

	t.Run("just below dust threshold is rejected", func(t *testing.T) {
		r := &Record{SolAmount: 0.00009999, TokenAmount: 1}
		assert.False(t, r.Valid())
	})

	t.Run("negative amounts are rejected", func(t *testing.T) {
		assert.False(t, (&Record{SolAmount: -1}).Valid())
		assert.False(t, (&Record{SolAmount: 1, TokenAmount: -1}).Valid())
	})
}

func TestMatchProgram(t *testing.T) {
	entry, ok := MatchProgram(Registry[0].Address)
	assert.True(t, ok)
	assert.Equal(t, PumpFun, entry.Name)

	_, ok = MatchProgram(WrappedSOLMint)
	assert.False(t, ok)
}

func TestSourceProgramIsSpotDEX(t *testing.T) {
	assert.True(t, PumpFun.IsSpotDEX())
	assert.True(t, PumpSwap.IsSpotDEX())
	assert.True(t, BonkSwap.IsSpotDEX())
	assert.True(t, Moonshot.IsSpotDEX())
	assert.False(t, JupiterDCA.IsSpotDEX())
}
