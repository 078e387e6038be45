package extractor

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solflow/solflow/internal/scanner"
	"github.com/solflow/solflow/internal/tradeio"
	"github.com/solflow/solflow/internal/txview"
)

func buildBuyView(t *testing.T, mint solana.PublicKey, trader solana.PublicKey) *txview.View {
	t.Helper()
	program := tradeio.Registry[1].Address // PumpSwap
	sig := solana.Signature{1, 2, 3}

	tx := &solana.Transaction{
		Signatures: []solana.Signature{sig},
		Message: solana.Message{
			AccountKeys: solana.PublicKeySlice{trader, program},
			Instructions: []solana.CompiledInstruction{
				{ProgramIDIndex: 1, Data: []byte{0xAA, 0xBB, 0xCC, 0xDD, 1, 2, 3, 4}},
			},
		},
	}

	meta := &rpc.TransactionMeta{
		PreBalances:  []uint64{2_000_000_000, 0},
		PostBalances: []uint64{1_000_000_000, 0}, // trader spent 1 SOL buying
		PreTokenBalances: []rpc.TokenBalance{
			{AccountIndex: 0, Mint: mint, UiTokenAmount: rpc.UiTokenAmount{Amount: "0", Decimals: 6}},
		},
		PostTokenBalances: []rpc.TokenBalance{
			{AccountIndex: 0, Mint: mint, UiTokenAmount: rpc.UiTokenAmount{Amount: "1000000", Decimals: 6}},
		},
	}

	return txview.New(tx, meta)
}

func TestExtractBuy(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	trader := solana.NewWallet().PublicKey()
	v := buildBuyView(t, mint, trader)

	match, ok := scanner.Scan(v)
	require.True(t, ok)

	rec := Extract(v, match, 0, 500, nil)
	require.NotNil(t, rec)

	assert.Equal(t, tradeio.Buy, rec.Side)
	assert.Equal(t, mint.String(), rec.Mint)
	assert.InDelta(t, 1.0, rec.SolAmount, 1e-9)
	assert.InDelta(t, 1.0, rec.TokenAmount, 1e-9)
	assert.Equal(t, trader.String(), rec.Trader)
	assert.Equal(t, int64(500), rec.Timestamp)
	assert.Equal(t, "aabbccdd01020304", rec.Discriminator)
}

func TestExtractUsesBlockTimeWhenPresent(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	trader := solana.NewWallet().PublicKey()
	v := buildBuyView(t, mint, trader)
	match, _ := scanner.Scan(v)

	rec := Extract(v, match, 12345, 999, nil)
	require.NotNil(t, rec)
	assert.Equal(t, int64(12345), rec.Timestamp)
}

func TestExtractDropsDustTrade(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	trader := solana.NewWallet().PublicKey()
	program := tradeio.Registry[1].Address

	tx := &solana.Transaction{
		Signatures: []solana.Signature{{1}},
		Message: solana.Message{
			AccountKeys:  solana.PublicKeySlice{trader, program},
			Instructions: []solana.CompiledInstruction{{ProgramIDIndex: 1, Data: []byte{1}}},
		},
	}
	meta := &rpc.TransactionMeta{
		PreBalances:  []uint64{1_000_000_000, 0},
		PostBalances: []uint64{999_999_999, 0}, // 1 lamport delta: far under dust
		PreTokenBalances: []rpc.TokenBalance{
			{AccountIndex: 0, Mint: mint, UiTokenAmount: rpc.UiTokenAmount{Amount: "0", Decimals: 6}},
		},
		PostTokenBalances: []rpc.TokenBalance{
			{AccountIndex: 0, Mint: mint, UiTokenAmount: rpc.UiTokenAmount{Amount: "1", Decimals: 6}},
		},
	}
	v := txview.New(tx, meta)
	match, ok := scanner.Scan(v)
	require.True(t, ok)

	rec := Extract(v, match, 0, 1, nil)
	assert.Nil(t, rec)
}

func TestExtractNoPrimaryMintReturnsNil(t *testing.T) {
	trader := solana.NewWallet().PublicKey()
	program := tradeio.Registry[1].Address
	tx := &solana.Transaction{
		Signatures: []solana.Signature{{1}},
		Message: solana.Message{
			AccountKeys:  solana.PublicKeySlice{trader, program},
			Instructions: []solana.CompiledInstruction{{ProgramIDIndex: 1, Data: []byte{1}}},
		},
	}
	meta := &rpc.TransactionMeta{
		PreBalances:  []uint64{2_000_000_000, 0},
		PostBalances: []uint64{1_000_000_000, 0},
	}
	v := txview.New(tx, meta)
	match, ok := scanner.Scan(v)
	require.True(t, ok)

	rec := Extract(v, match, 0, 1, nil)
	assert.Nil(t, rec)
}
