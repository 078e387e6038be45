// Package pipeline wires the scanner, balance extractor, and ingestion
// channel into the two halves of the trade pipeline described by §4: a
// producer step run once per observed transaction, and a consumer loop
// that drains the ingestion channel into the engine.
package pipeline

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/solflow/solflow/internal/engine"
	"github.com/solflow/solflow/internal/extractor"
	"github.com/solflow/solflow/internal/ingest"
	"github.com/solflow/solflow/internal/scanner"
	"github.com/solflow/solflow/internal/source"
	"github.com/solflow/solflow/internal/txview"
)

// HandleTransaction scans ev for a tracked-program instruction, extracts a
// Trade Record from the balance deltas, and attempts a non-blocking send
// on ch. It returns without producing a record whenever the transaction
// carries no trade, per §4.1/§4.2; a tracked-program transaction from
// which no trade can be extracted is logged at debug level.
func HandleTransaction(ev *source.TransactionEvent, ch *ingest.Channel, now time.Time, log *logrus.Entry) {
	if ev == nil || ev.Tx == nil || ev.Meta == nil {
		return
	}
	if ev.Meta.Err != nil {
		return
	}

	v := txview.New(ev.Tx, ev.Meta)

	match, ok := scanner.Scan(v)
	if !ok {
		return
	}

	rec := extractor.Extract(v, match, ev.BlockTime, now.Unix(), log)
	if rec == nil {
		if log != nil {
			log.Debugf("skipped %s transaction at slot %d: no trade extracted", match.ProgramName, ev.Slot)
		}
		return
	}

	if !ch.TrySend(rec) && log != nil {
		log.Debugf("dropped trade for mint %s: ingestion channel full", rec.Mint)
	}
}

// Consume drains ch into eng until ctx is canceled or ch's channel closes.
// It is meant to run on its own goroutine for the lifetime of the process.
func Consume(ctx context.Context, ch *ingest.Channel, eng *engine.Engine) {
	recv := ch.Receive()
	for {
		select {
		case r, ok := <-recv:
			if !ok {
				return
			}
			eng.ProcessTrade(r)
		case <-ctx.Done():
			return
		}
	}
}
