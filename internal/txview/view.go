// Package txview wraps a decoded transaction and its status metadata with
// the resolved account-key list (static keys followed by lookup-table
// writable then readonly keys) that every index-based lookup in the
// scanner and balance extractor depends on. Built once per transaction,
// grounded on the teacher's NewTransactionParserFromTransaction.
package txview

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// View is a read-only lens over one transaction plus its meta.
type View struct {
	Tx          *solana.Transaction
	Meta        *rpc.TransactionMeta
	AccountKeys solana.PublicKeySlice
}

// New resolves the account-key list and returns a View. tx and meta must
// be non-nil; callers that received a nil meta should not construct a View.
func New(tx *solana.Transaction, meta *rpc.TransactionMeta) *View {
	keys := make(solana.PublicKeySlice, 0, len(tx.Message.AccountKeys)+len(meta.LoadedAddresses.Writable)+len(meta.LoadedAddresses.ReadOnly))
	keys = append(keys, tx.Message.AccountKeys...)
	keys = append(keys, meta.LoadedAddresses.Writable...)
	keys = append(keys, meta.LoadedAddresses.ReadOnly...)
	return &View{Tx: tx, Meta: meta, AccountKeys: keys}
}

// ProgramIDAt resolves the program id for a compiled instruction's
// ProgramIDIndex against the resolved key list. Returns false when the
// index is out of bounds instead of panicking.
func (v *View) ProgramIDAt(idx uint16) (solana.PublicKey, bool) {
	if int(idx) >= len(v.AccountKeys) {
		return solana.PublicKey{}, false
	}
	return v.AccountKeys[idx], true
}

// KeyAt resolves an account index against the resolved key list.
func (v *View) KeyAt(idx uint16) (solana.PublicKey, bool) {
	if int(idx) >= len(v.AccountKeys) {
		return solana.PublicKey{}, false
	}
	return v.AccountKeys[idx], true
}

// InnerGroups returns the inner-instruction sets in declaration order.
func (v *View) InnerGroups() []rpc.InnerInstruction {
	if v.Meta == nil {
		return nil
	}
	return v.Meta.InnerInstructions
}

// OuterInstructions returns the transaction's outer instructions in declaration order.
func (v *View) OuterInstructions() []solana.CompiledInstruction {
	return v.Tx.Message.Instructions
}
