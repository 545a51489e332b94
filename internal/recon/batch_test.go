package recon

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchInvoke(t *testing.T) {
	aggregator := common.HexToAddress("0x5BA1e12693Dc8F9c48aAD8770482f4739bEeD696")
	target := common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")
	calls := []Call{
		{Target: target, Data: common.FromHex("0x06fdde03")},
		{Target: target, Data: common.FromHex("0x313ce567")},
	}

	packed, err := multicallABI.Methods["tryAggregate"].Outputs.Pack([]aggResult{
		{Success: true, ReturnData: stringReturn(t, "Tether USD")},
		{Success: false, ReturnData: []byte{}},
	})
	require.NoError(t, err)

	chain := newFakeChain()
	chain.callFn = func(call ethereum.CallMsg) ([]byte, error) {
		return packed, nil
	}

	out, err := BatchInvoke(context.Background(), chain, aggregator, common.Address{}, calls)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "0x06fdde03", out[0].Selector.Hex())
	assert.True(t, out[0].Success)
	assert.Equal(t, "Tether USD", Decode(out[0].ReturnData))

	assert.Equal(t, "0x313ce567", out[1].Selector.Hex())
	assert.False(t, out[1].Success)
	assert.Empty(t, out[1].RevertReason) // aggregator path drops revert text

	// The one request went to the aggregator with requireSuccess=false.
	require.Len(t, chain.calls, 1)
	sent := chain.calls[0]
	require.NotNil(t, sent.To)
	assert.Equal(t, aggregator, *sent.To)

	method := multicallABI.Methods["tryAggregate"]
	assert.Equal(t, method.ID, sent.Data[:4])
	args, err := method.Inputs.Unpack(sent.Data[4:])
	require.NoError(t, err)
	assert.Equal(t, false, args[0].(bool))
}

func TestBatchInvoke_ResultCountMismatch(t *testing.T) {
	packed, err := multicallABI.Methods["tryAggregate"].Outputs.Pack([]aggResult{
		{Success: true, ReturnData: word32(1)},
	})
	require.NoError(t, err)

	chain := newFakeChain()
	chain.callFn = func(ethereum.CallMsg) ([]byte, error) { return packed, nil }

	calls := []Call{
		{Data: []byte{1, 2, 3, 4}},
		{Data: []byte{5, 6, 7, 8}},
	}
	_, err = BatchInvoke(context.Background(), chain, common.Address{}, common.Address{}, calls)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 results for 2 calls")
}

func TestBatchInvoke_TransportError(t *testing.T) {
	chain := newFakeChain()
	chain.callFn = func(ethereum.CallMsg) ([]byte, error) {
		return nil, errors.New("connection refused")
	}
	_, err := BatchInvoke(context.Background(), chain, common.Address{}, common.Address{}, []Call{{Data: []byte{1, 2, 3, 4}}})
	require.Error(t, err)
}
