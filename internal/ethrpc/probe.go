package ethrpc

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// NetworkPresence records whether one endpoint knows the address as a
// contract. Err is set when the endpoint itself misbehaved.
type NetworkPresence struct {
	Endpoint string   `json:"endpoint"`
	ChainID  *big.Int `json:"chainId,omitempty"`
	HasCode  bool     `json:"hasCode"`
	CodeSize int      `json:"codeSize"`
	Err      error    `json:"-"`
}

// ProbeNetworks asks every endpoint in parallel whether addr carries
// bytecode there. Results keep the order of endpoints.
func ProbeNetworks(ctx context.Context, lggr *zap.SugaredLogger, endpoints []string, addr common.Address) []NetworkPresence {
	out := make([]NetworkPresence, len(endpoints))
	var wg sync.WaitGroup
	for i, url := range endpoints {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			out[i] = probeOne(ctx, url, addr)
			if out[i].Err != nil {
				lggr.Debugf("probe %s: %v", url, out[i].Err)
			}
		}(i, url)
	}
	wg.Wait()
	return out
}

func probeOne(ctx context.Context, url string, addr common.Address) NetworkPresence {
	p := NetworkPresence{Endpoint: url}

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	ec, err := ethclient.DialContext(dialCtx, url)
	if err != nil {
		p.Err = err
		return p
	}
	defer ec.Close()

	if id, err := ec.ChainID(dialCtx); err == nil {
		p.ChainID = id
	}
	code, err := ec.CodeAt(dialCtx, addr, nil)
	if err != nil {
		p.Err = err
		return p
	}
	p.HasCode = len(code) > 0
	p.CodeSize = len(code)
	return p
}
