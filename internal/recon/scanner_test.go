package recon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisassemble_SkipsPushImmediates(t *testing.T) {
	// PUSH1 0x63, PUSH4 0x11223344, ADD. The PUSH1 immediate 0x63 would
	// itself decode as PUSH4 if the walker re-read immediates.
	code := []byte{
		0x60, 0x63,
		0x63, 0x11, 0x22, 0x33, 0x44,
		0x01,
	}
	ins := Disassemble(code)
	require.Len(t, ins, 3)

	assert.Equal(t, 0, ins[0].Offset)
	assert.Equal(t, "PUSH1", ins[0].Mnemonic)
	assert.Equal(t, []byte{0x63}, ins[0].Immediate)

	assert.Equal(t, 2, ins[1].Offset)
	assert.Equal(t, "PUSH4", ins[1].Mnemonic)
	assert.Equal(t, []byte{0x11, 0x22, 0x33, 0x44}, ins[1].Immediate)

	assert.Equal(t, 7, ins[2].Offset)
	assert.Equal(t, "ADD", ins[2].Mnemonic)
	assert.Empty(t, ins[2].Immediate)
}

func TestDisassemble_TruncatedTrailingPush(t *testing.T) {
	tests := []struct {
		name     string
		code     []byte
		wantLast int // immediate length of the final instruction
	}{
		{"push4 with two bytes left", []byte{0x01, 0x63, 0xaa, 0xbb}, 2},
		{"push32 with no bytes left", []byte{0x7f}, 0},
		{"push20 cut mid-operand", append([]byte{0x73}, make([]byte, 7)...), 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins := Disassemble(tt.code)
			require.NotEmpty(t, ins)
			last := ins[len(ins)-1]
			assert.Len(t, last.Immediate, tt.wantLast)
		})
	}
}

func TestScanSelectors(t *testing.T) {
	t.Run("dedup keeps first-encounter order", func(t *testing.T) {
		code := []byte{
			0x63, 0x31, 0x3c, 0xe5, 0x67, // decimals()
			0x63, 0x06, 0xfd, 0xde, 0x03, // name()
			0x63, 0x31, 0x3c, 0xe5, 0x67, // decimals() again
		}
		sels := ScanSelectors(code)
		require.Len(t, sels, 2)
		assert.Equal(t, "0x313ce567", sels[0].Hex())
		assert.Equal(t, "0x06fdde03", sels[1].Hex())
	})

	t.Run("selector-shaped bytes inside wider push are ignored", func(t *testing.T) {
		immediate := make([]byte, 32)
		immediate[0] = 0x63 // a nested PUSH4 pattern
		immediate[1] = 0xde
		immediate[2] = 0xad
		immediate[3] = 0xbe
		immediate[4] = 0xef
		code := append([]byte{0x7f}, immediate...)
		code = append(code, 0x63, 0x70, 0xa0, 0x82, 0x31) // balanceOf(address)

		sels := ScanSelectors(code)
		require.Len(t, sels, 1)
		assert.Equal(t, "0x70a08231", sels[0].Hex())
	})

	t.Run("truncated push4 is not a selector", func(t *testing.T) {
		assert.Empty(t, ScanSelectors([]byte{0x63, 0xaa, 0xbb}))
	})

	t.Run("no code means no selectors", func(t *testing.T) {
		assert.Empty(t, ScanSelectors(nil))
	})
}

func TestParseSelector(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"with prefix", "0x06fdde03", "0x06fdde03", false},
		{"without prefix", "06fdde03", "0x06fdde03", false},
		{"too short", "0x1234", "", true},
		{"too long", "0x0102030405", "", true},
		{"not hex", "0xzzzz", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := ParseSelector(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				var ierr *InputError
				assert.ErrorAs(t, err, &ierr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, sel.Hex())
		})
	}
}

func TestSelector_TextRoundTrip(t *testing.T) {
	var s Selector
	require.NoError(t, s.UnmarshalText([]byte("0xdeadbeef")))
	out, err := s.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "0xdeadbeef", string(out))
}
