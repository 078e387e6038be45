package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solflow/solflow/internal/tradeio"
)

// TestChannelOverflow is spec.md §8 seed scenario 4: capacity 3, 100 sends,
// at least 97 drops, no crash.
func TestChannelOverflow(t *testing.T) {
	ch := NewChannel(3, nil)

	sent := 0
	for i := 0; i < 100; i++ {
		if ch.TrySend(&tradeio.Record{Mint: "M"}) {
			sent++
		}
	}

	require.LessOrEqual(t, sent, 3)
	assert.GreaterOrEqual(t, ch.Drops(), uint64(97))
	assert.Equal(t, uint64(100-sent), ch.Drops())
}

func TestChannelDefaultCapacity(t *testing.T) {
	ch := NewChannel(0, nil)
	assert.Equal(t, 10000, cap(ch.ch))
}

func TestChannelReceiveDrainsInOrder(t *testing.T) {
	ch := NewChannel(2, nil)
	first := &tradeio.Record{Mint: "A"}
	second := &tradeio.Record{Mint: "B"}
	require.True(t, ch.TrySend(first))
	require.True(t, ch.TrySend(second))
	ch.Close()

	var got []*tradeio.Record
	for r := range ch.Receive() {
		got = append(got, r)
	}
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Mint)
	assert.Equal(t, "B", got[1].Mint)
}
