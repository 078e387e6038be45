// Package fake provides a Source test double that replays a fixed slice
// of transaction events, for exercising the ingestion driver without a
// real gRPC firehose.
package fake

import (
	"context"

	"github.com/solflow/solflow/internal/source"
)

// Source replays Events once, in order, then closes its channel.
type Source struct {
	Events []*source.TransactionEvent
}

func (s *Source) Transactions(ctx context.Context) (<-chan *source.TransactionEvent, error) {
	out := make(chan *source.TransactionEvent)
	go func() {
		defer close(out)
		for _, ev := range s.Events {
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
