package recon

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var errNotAString = errors.New("recon: abi value is not a string")

// Fixed fallbacks for payloads that carry no recoverable value.
const (
	execReverted = "execution reverted"
	cannotDecode = "could not decode the response"
)

// 0xdead: burn-address word that must render as an address, not "57005".
var burnWord = big.NewInt(0xdead)

var revertStringArgs = abi.Arguments{{Type: mustNewType("string")}}

func mustNewType(t string) abi.Type {
	ty, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return ty
}

// Decode infers a display value from raw return bytes without any schema.
// The rules are a fixed table keyed on payload length, plus a magnitude
// check for the single-word case. Decode never fails: every branch that
// cannot interpret its input lands on one of the fixed fallbacks.
//
//	0 bytes          -> "execution reverted"
//	32 (one word)    -> integer, re-read as an address when the magnitude
//	                    says so (0xdead, or a 36..49-digit value in the
//	                    160-bit range)
//	64 (two words)   -> first word as an integer
//	96 (three words) -> one ABI dynamic string
//	> 96             -> "could not decode the response"
//	anything else    -> Error(string): drop the 4-byte selector, read the
//	                    rest as an ABI string
func Decode(ret []byte) (out string) {
	defer func() {
		// Heuristics over untrusted bytes must never take down a run.
		if recover() != nil {
			out = execReverted
		}
	}()

	switch n := len(ret); {
	case n == 0:
		return execReverted
	case n == 32:
		return decodeWord(ret)
	case n == 64:
		return new(big.Int).SetBytes(ret[:32]).String()
	case n == 96:
		if s, err := unpackString(ret); err == nil {
			return s
		}
		return execReverted
	case n > 96:
		return cannotDecode
	default:
		if n > 4 {
			if s, err := unpackString(ret[4:]); err == nil {
				return s
			}
		}
		return execReverted
	}
}

func decodeWord(word []byte) string {
	n := new(big.Int).SetBytes(word)
	if looksLikeAddress(n) {
		return common.BytesToAddress(word[12:]).Hex()
	}
	return n.String()
}

// looksLikeAddress flags word values far more plausible as a packed
// address than as a quantity: the 0xdEaD sentinel, or a magnitude whose
// decimal form has 36..49 digits while still fitting the 160-bit address
// space (token supplies stop well short of 36 digits).
func looksLikeAddress(n *big.Int) bool {
	if n.Cmp(burnWord) == 0 {
		return true
	}
	d := len(n.String())
	return d > 35 && d < 50 && n.BitLen() <= 160
}

func unpackString(data []byte) (string, error) {
	vals, err := revertStringArgs.Unpack(data)
	if err != nil {
		return "", err
	}
	s, ok := vals[0].(string)
	if !ok {
		return "", errNotAString
	}
	return s, nil
}
