package recon

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Multicall2-compatible fragment. requireSuccess is always passed false so
// one reverting call cannot poison the batch.
const tryAggregateABI = `[{"name":"tryAggregate","type":"function","stateMutability":"nonpayable","inputs":[{"name":"requireSuccess","type":"bool"},{"name":"calls","type":"tuple[]","components":[{"name":"target","type":"address"},{"name":"callData","type":"bytes"}]}],"outputs":[{"name":"returnData","type":"tuple[]","components":[{"name":"success","type":"bool"},{"name":"returnData","type":"bytes"}]}]}]`

var multicallABI = mustParseABI(tryAggregateABI)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return parsed
}

// Tuple layouts for go-ethereum's packer; field names follow the ABI
// component names.
type aggCall struct {
	Target   common.Address
	CallData []byte
}

type aggResult struct {
	Success    bool
	ReturnData []byte
}

// BatchInvoke sends every call in a single tryAggregate round trip against
// an on-chain aggregator. Outcomes keep input order but carry no revert
// text; use InvokeAll when per-call diagnostics matter.
func BatchInvoke(ctx context.Context, client ChainReader, aggregator, from common.Address, calls []Call) ([]CallOutcome, error) {
	aggCalls := make([]aggCall, len(calls))
	for i, c := range calls {
		aggCalls[i] = aggCall{Target: c.Target, CallData: c.Data}
	}
	input, err := multicallABI.Pack("tryAggregate", false, aggCalls)
	if err != nil {
		return nil, fmt.Errorf("pack tryAggregate: %w", err)
	}
	raw, err := client.CallContract(ctx, ethereum.CallMsg{From: from, To: &aggregator, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("tryAggregate call: %w", err)
	}
	vals, err := multicallABI.Unpack("tryAggregate", raw)
	if err != nil {
		return nil, fmt.Errorf("unpack tryAggregate: %w", err)
	}
	results := *abi.ConvertType(vals[0], new([]aggResult)).(*[]aggResult)
	if len(results) != len(calls) {
		return nil, fmt.Errorf("aggregator returned %d results for %d calls", len(results), len(calls))
	}
	out := make([]CallOutcome, len(calls))
	for i, r := range results {
		if len(calls[i].Data) >= 4 {
			copy(out[i].Selector[:], calls[i].Data[:4])
		}
		out[i].Success = r.Success
		out[i].ReturnData = r.ReturnData
	}
	return out, nil
}
