package extractor

import (
	ag_binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// jupiterDCADepositEvent is the Anchor event Jupiter's DCA program emits
// for a single periodic buy: the deposit mint and the raw amount moved.
// Decoded the same way the teacher decodes the Jupiter RouteV2 event
// (event_jupiter.go): base58-decode the instruction data, then Borsh-decode
// everything past the 16-byte Anchor event discriminator.
type jupiterDCADepositEvent struct {
	Mint   solana.PublicKey
	Amount uint64
}

// jupiterDCAFallbackLamports attempts to recover a nominal SOL amount from
// a JupiterDCA instruction's deposit event when the balance-delta scan
// found no single dominant SOL account (e.g. the DCA vault nets to zero
// across the transaction because funds pass through an intermediate
// escrow). Returns ok=false when the instruction isn't a decodable deposit
// event; callers fall back to dropping the record, per §4.2.
func jupiterDCAFallbackLamports(instr solana.CompiledInstruction) (int64, bool) {
	decoded, err := base58.Decode(instr.Data.String())
	if err != nil || len(decoded) < 16 {
		return 0, false
	}
	decoder := ag_binary.NewBorshDecoder(decoded[16:])
	var ev jupiterDCADepositEvent
	if err := decoder.Decode(&ev); err != nil {
		return 0, false
	}
	if ev.Amount == 0 {
		return 0, false
	}
	return int64(ev.Amount), true
}
