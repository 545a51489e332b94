package recon

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvokeAll_OrderAndIsolation(t *testing.T) {
	chain := newFakeChain()
	chain.jitter = 5 * time.Millisecond // scramble completion order

	target := common.HexToAddress("0x0000000000000000000000000000000000000011")
	const n = 12
	const failing = 5

	calls := make([]Call, n)
	for i := range calls {
		data := make([]byte, 4)
		binary.BigEndian.PutUint32(data, uint32(i+1))
		calls[i] = Call{Target: target, Data: data}
	}

	payloadHex := "0x" + hex.EncodeToString(revertPayload(t, "not allowed here"))
	chain.callFn = func(call ethereum.CallMsg) ([]byte, error) {
		idx := int(binary.BigEndian.Uint32(call.Data)) - 1
		if idx == failing {
			return nil, &dataErr{msg: "execution reverted", data: payloadHex}
		}
		return word32(int64(idx)), nil
	}

	out := InvokeAll(context.Background(), chain, common.Address{}, calls)
	require.Len(t, out, n)
	for i, o := range out {
		var sel Selector
		copy(sel[:], calls[i].Data)
		assert.Equal(t, sel, o.Selector, "slot %d", i)
		if i == failing {
			assert.False(t, o.Success)
			assert.Equal(t, "not allowed here", o.RevertReason)
			assert.Nil(t, o.ReturnData)
			continue
		}
		assert.True(t, o.Success, "slot %d", i)
		assert.Equal(t, word32(int64(i)), o.ReturnData)
		assert.Empty(t, o.RevertReason)
	}
}

func TestInvokeAll_PropagatesSender(t *testing.T) {
	chain := newFakeChain()
	from := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	target := common.HexToAddress("0x00000000000000000000000000000000000000bb")

	calls := []Call{
		{Target: target, Data: []byte{1, 2, 3, 4}},
		{Target: target, Data: []byte{5, 6, 7, 8}},
	}
	InvokeAll(context.Background(), chain, from, calls)

	require.Len(t, chain.calls, 2)
	for _, c := range chain.calls {
		assert.Equal(t, from, c.From)
		require.NotNil(t, c.To)
		assert.Equal(t, target, *c.To)
	}
}

func TestInvokeAll_NoCalls(t *testing.T) {
	out := InvokeAll(context.Background(), newFakeChain(), common.Address{}, nil)
	assert.Empty(t, out)
}
