package recon

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/core/vm"
)

// Selector is a 4-byte function selector as pushed by dispatch tables.
type Selector [4]byte

// Hex returns the canonical 0x-prefixed lowercase form.
func (s Selector) Hex() string { return "0x" + hex.EncodeToString(s[:]) }

func (s Selector) String() string { return s.Hex() }

// Bytes returns the selector as fresh calldata.
func (s Selector) Bytes() []byte { return s[:] }

func (s Selector) MarshalText() ([]byte, error) { return []byte(s.Hex()), nil }

func (s *Selector) UnmarshalText(text []byte) error {
	sel, err := ParseSelector(string(text))
	if err != nil {
		return err
	}
	*s = sel
	return nil
}

// ParseSelector parses a selector from hex, with or without the 0x prefix.
func ParseSelector(s string) (Selector, error) {
	b, err := ParseHexBytes("selector", s)
	if err != nil {
		return Selector{}, err
	}
	if len(b) != 4 {
		return Selector{}, &InputError{Field: "selector", Err: fmt.Errorf("want 4 bytes, got %d", len(b))}
	}
	var out Selector
	copy(out[:], b)
	return out, nil
}

// Instruction is one decoded opcode plus its push immediate, if any.
type Instruction struct {
	Offset    int
	Op        byte
	Mnemonic  string
	Immediate []byte
}

// Disassemble walks code linearly from offset zero. Push immediates belong
// to their instruction and are skipped, never re-decoded as opcodes. A
// trailing push whose declared operand runs past the end of the buffer
// keeps whatever bytes remain and ends the walk at the buffer boundary.
func Disassemble(code []byte) []Instruction {
	out := make([]Instruction, 0, len(code)/2)
	for pc := 0; pc < len(code); {
		op := vm.OpCode(code[pc])
		ins := Instruction{Offset: pc, Op: byte(op), Mnemonic: op.String()}
		if op >= vm.PUSH1 && op <= vm.PUSH32 {
			n := int(op-vm.PUSH1) + 1
			end := pc + 1 + n
			if end > len(code) {
				end = len(code) // truncated trailing push
			}
			ins.Immediate = code[pc+1 : end]
			pc = end
		} else {
			pc++
		}
		out = append(out, ins)
	}
	return out
}

// ScanSelectors extracts candidate function selectors from deployed code:
// every in-bounds PUSH4 immediate, deduplicated, in first-encounter order.
// Solidity dispatchers push the selector constant right before comparing
// it against the calldata prefix, so this over-approximates the callable
// set and that is accepted.
func ScanSelectors(code []byte) []Selector {
	seen := make(map[Selector]struct{})
	out := []Selector{}
	for _, ins := range Disassemble(code) {
		if vm.OpCode(ins.Op) != vm.PUSH4 || len(ins.Immediate) != 4 {
			continue
		}
		var sel Selector
		copy(sel[:], ins.Immediate)
		if _, dup := seen[sel]; dup {
			continue
		}
		seen[sel] = struct{}{}
		out = append(out, sel)
	}
	return out
}
