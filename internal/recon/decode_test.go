package recon

import (
	"bytes"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	usdt := common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")
	maxWord := bytes.Repeat([]byte{0xff}, 32)

	// Non-padded Error(string) payload short enough to hit the
	// selector-stripping branch.
	shortError := append(common.FromHex("0x08c379a0"), word32(32)...)
	shortError = append(shortError, word32(2)...)
	shortError = append(shortError, 'h', 'i')

	tests := []struct {
		name string
		ret  []byte
		want string
	}{
		{"no data", nil, "execution reverted"},
		{"empty slice", []byte{}, "execution reverted"},
		{"small integer word", word32(18), "18"},
		{"zero word", word32(0), "0"},
		{"burn sentinel renders as address", word32(0xdead), "0x000000000000000000000000000000000000dEaD"},
		{"address-magnitude word", common.LeftPadBytes(usdt.Bytes(), 32), usdt.Hex()},
		{"max word stays integer", maxWord, new(big.Int).SetBytes(maxWord).String()},
		{"two words keeps first", append(word32(7), word32(9999)...), "7"},
		{"three-word abi string", stringReturn(t, "Hello"), "Hello"},
		{"three words of garbage", bytes.Repeat([]byte{0xff}, 96), "execution reverted"},
		{"long string gives up", stringReturn(t, strings.Repeat("x", 40)), "could not decode the response"},
		{"padded error payload gives up", revertPayload(t, "insufficient balance"), "could not decode the response"},
		{"short selector-prefixed string", shortError, "hi"},
		{"short garbage", []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, "execution reverted"},
		{"bare selector", []byte{0x08, 0xc3, 0x79, 0xa0}, "execution reverted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.ret))
		})
	}
}

func TestLooksLikeAddress(t *testing.T) {
	t.Run("typical supply is an integer", func(t *testing.T) {
		// 1e27: 18-decimals token with a billion units, 28 digits.
		supply, _ := new(big.Int).SetString("1000000000000000000000000000", 10)
		assert.False(t, looksLikeAddress(supply))
	})

	t.Run("160-bit magnitude is an address", func(t *testing.T) {
		n := new(big.Int).SetBytes(common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7").Bytes())
		assert.True(t, looksLikeAddress(n))
	})

	t.Run("over 160 bits is not an address", func(t *testing.T) {
		n := new(big.Int).Lsh(big.NewInt(1), 200)
		assert.False(t, looksLikeAddress(n))
	})
}
