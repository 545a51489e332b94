package recon

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// ChainReader is the read-only chain surface the pipeline needs. Both
// *ethclient.Client and the retrying ethrpc.Client satisfy it.
type ChainReader interface {
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	StorageAt(ctx context.Context, account common.Address, key common.Hash, blockNumber *big.Int) ([]byte, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Call is one read invocation: target plus raw calldata.
type Call struct {
	Target common.Address
	Data   []byte
}

// CallOutcome is the isolated result of one Call. RevertReason is empty
// for successes and for the aggregator path, which drops revert detail.
type CallOutcome struct {
	Selector     Selector
	Success      bool
	ReturnData   []byte
	RevertReason string
}
