package main

import (
	"context"

	"github.com/solflow/solflow/internal/config"
	"github.com/solflow/solflow/internal/source"
)

// newSource constructs the transaction Source for the configured gRPC
// endpoint. The real gRPC firehose client is out of scope for this
// repository (§1 Non-goals); in its place this returns a source that
// logs the endpoint it would have connected to and then idles, so the
// rest of the pipeline (scheduler, writer, shutdown path) runs exactly
// as it would against a live stream.
func newSource(cfg config.Config) (source.Source, error) {
	return &placeholderSource{endpoint: cfg.GRPCEndpoint}, nil
}

// placeholderSource never yields a transaction; it exists so a future
// gRPC-backed Source can slot in behind the same interface without
// touching cmd/solflow's wiring. A real implementation would use
// internal/backoff to pace reconnect attempts per §7.
type placeholderSource struct {
	endpoint string
}

func (p *placeholderSource) Transactions(ctx context.Context) (<-chan *source.TransactionEvent, error) {
	out := make(chan *source.TransactionEvent)
	go func() {
		defer close(out)
		<-ctx.Done()
	}()
	return out, nil
}
