// Package ingest implements the bounded multi-producer single-consumer
// queue that carries Trade Records from streamer(s) to the pipeline
// engine. Producers never block: a full channel causes the record to be
// dropped and counted, with a throttled warning every 1,000 consecutive
// drops.
package ingest

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/solflow/solflow/internal/tradeio"
)

const dropWarnEvery = 1000

// Channel is a bounded MPSC queue of Trade Records.
type Channel struct {
	ch               chan *tradeio.Record
	drops            atomic.Uint64
	consecutiveDrops atomic.Uint64
	log              *logrus.Entry
}

// NewChannel creates a Channel with the given capacity (default 10,000 per §4.3).
func NewChannel(capacity int, log *logrus.Entry) *Channel {
	if capacity <= 0 {
		capacity = 10000
	}
	return &Channel{
		ch:  make(chan *tradeio.Record, capacity),
		log: log,
	}
}

// TrySend attempts a non-blocking send. It returns false and counts a
// drop when the channel is full; it never blocks the caller.
func (c *Channel) TrySend(r *tradeio.Record) bool {
	select {
	case c.ch <- r:
		c.consecutiveDrops.Store(0)
		return true
	default:
		c.drops.Add(1)
		n := c.consecutiveDrops.Add(1)
		if n%dropWarnEvery == 0 && c.log != nil {
			c.log.Warnf("ingestion channel full: %d consecutive drops (total %d)", n, c.drops.Load())
		}
		return false
	}
}

// Receive exposes the consumer-side channel for the single-threaded driver.
func (c *Channel) Receive() <-chan *tradeio.Record {
	return c.ch
}

// Close closes the channel. Producers observing closure must stop sending.
func (c *Channel) Close() {
	close(c.ch)
}

// Drops returns the total number of records dropped since creation.
func (c *Channel) Drops() uint64 {
	return c.drops.Load()
}
