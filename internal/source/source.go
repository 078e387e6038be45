// Package source describes, but does not implement, the external gRPC
// firehose collaborator and the optional JSONL backup writer (both
// deliberately out of scope per spec.md §1). Concrete adapters live
// outside this module; a fake implementation in internal/source/fake
// exists purely to drive tests of the components that consume a Source.
package source

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// TransactionEvent is one transaction observed by the firehose, carrying
// enough of the raw decoded transaction and its status metadata for the
// scanner and balance extractor to operate on.
type TransactionEvent struct {
	Slot      uint64
	BlockTime int64 // seconds since epoch; 0 if unknown
	Tx        *solana.Transaction
	Meta      *rpc.TransactionMeta
}

// Source yields a stream of transaction events until ctx is canceled or
// the stream ends, at which point the returned channel is closed.
// Implementations own their own reconnect/backoff policy (§7's
// "Transient source error" handling) and are expected to filter to
// transactions whose account keys include at least one tracked program.
type Source interface {
	Transactions(ctx context.Context) (<-chan *TransactionEvent, error)
}

// BackupSink describes the optional JSONL backup writer (disabled by
// default, toggled by SOLFLOW_ENABLE_BACKUP_FILE_WRITES). Not implemented
// by this module.
type BackupSink interface {
	WriteTransaction(ctx context.Context, ev *TransactionEvent) error
}
