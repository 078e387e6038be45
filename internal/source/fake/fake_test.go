package fake

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solflow/solflow/internal/source"
)

func TestSourceReplaysEventsOnce(t *testing.T) {
	events := []*source.TransactionEvent{{Slot: 1}, {Slot: 2}, {Slot: 3}}
	s := &Source{Events: events}

	out, err := s.Transactions(context.Background())
	require.NoError(t, err)

	var got []*source.TransactionEvent
	for ev := range out {
		got = append(got, ev)
	}
	require.Len(t, got, 3)
	assert.Equal(t, uint64(1), got[0].Slot)
	assert.Equal(t, uint64(3), got[2].Slot)
}

func TestSourceStopsOnContextCancel(t *testing.T) {
	events := make([]*source.TransactionEvent, 1000)
	for i := range events {
		events[i] = &source.TransactionEvent{Slot: uint64(i)}
	}
	s := &Source{Events: events}

	ctx, cancel := context.WithCancel(context.Background())
	out, err := s.Transactions(ctx)
	require.NoError(t, err)

	<-out
	cancel()

	select {
	case _, ok := <-out:
		if ok {
			// a handful of already-buffered sends may still land; drain
			// until the channel actually closes.
			for ok {
				_, ok = <-out
			}
		}
	case <-time.After(time.Second):
		t.Fatal("channel never closed after context cancellation")
	}
}
