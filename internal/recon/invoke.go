package recon

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// InvokeAll issues every call concurrently and returns one outcome per
// call, in input order regardless of completion order. Each goroutine
// writes only its own slot, so one call's failure never touches another's
// outcome.
func InvokeAll(ctx context.Context, client ChainReader, from common.Address, calls []Call) []CallOutcome {
	out := make([]CallOutcome, len(calls))
	var wg sync.WaitGroup
	for i, c := range calls {
		wg.Add(1)
		go func(i int, c Call) {
			defer wg.Done()
			out[i] = invokeOne(ctx, client, from, c)
		}(i, c)
	}
	wg.Wait()
	return out
}

func invokeOne(ctx context.Context, client ChainReader, from common.Address, c Call) CallOutcome {
	var o CallOutcome
	if len(c.Data) >= 4 {
		copy(o.Selector[:], c.Data[:4])
	}
	target := c.Target
	ret, err := client.CallContract(ctx, ethereum.CallMsg{From: from, To: &target, Data: c.Data}, nil)
	if err != nil {
		o.RevertReason = RevertReason(err)
		return o
	}
	o.Success = true
	o.ReturnData = ret
	return o
}
