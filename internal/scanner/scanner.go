// Package scanner implements the unified instruction scanner: given a
// transaction view, it walks outer instructions then inner-instruction
// groups (both in declaration order) and returns the first instruction
// whose program id matches the fixed tracked-program registry, together
// with a location tag. No instruction decoding is performed here.
package scanner

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/solflow/solflow/internal/tradeio"
	"github.com/solflow/solflow/internal/txview"
)

// LocationKind distinguishes an outer-instruction match from an inner one.
type LocationKind int

const (
	Outer LocationKind = iota
	Inner
)

// Location pinpoints where a match was found: Outer{index} or
// Inner{outer_index, inner_index}, per §4.1.
type Location struct {
	Kind       LocationKind
	OuterIndex int
	InnerIndex int // meaningful only when Kind == Inner
}

func (l Location) String() string {
	if l.Kind == Outer {
		return fmt.Sprintf("Outer{%d}", l.OuterIndex)
	}
	return fmt.Sprintf("Inner{%d,%d}", l.OuterIndex, l.InnerIndex)
}

// Match is the first registry hit found in a transaction.
type Match struct {
	Program     tradeio.SourceProgram
	ProgramName string
	Location    Location
	Instruction solana.CompiledInstruction
}

// Scan returns the first instruction (outer-then-inner, declaration order)
// whose program id is in the tracked registry. It returns (nil, false)
// when nothing matches, including when an instruction's program-id index
// is out of bounds for the resolved account-key list — that instruction is
// silently skipped rather than treated as an error.
func Scan(v *txview.View) (*Match, bool) {
	for i, instr := range v.OuterInstructions() {
		progID, ok := v.ProgramIDAt(instr.ProgramIDIndex)
		if !ok {
			continue
		}
		if entry, found := tradeio.MatchProgram(progID); found {
			return &Match{
				Program:     entry.Name,
				ProgramName: entry.Name.String(),
				Location:    Location{Kind: Outer, OuterIndex: i},
				Instruction: instr,
			}, true
		}
	}

	for _, group := range v.InnerGroups() {
		for j, instr := range group.Instructions {
			progID, ok := v.ProgramIDAt(instr.ProgramIDIndex)
			if !ok {
				continue
			}
			if entry, found := tradeio.MatchProgram(progID); found {
				return &Match{
					Program:     entry.Name,
					ProgramName: entry.Name.String(),
					Location:    Location{Kind: Inner, OuterIndex: int(group.Index), InnerIndex: j},
					Instruction: instr,
				}, true
			}
		}
	}

	return nil, false
}
