package recon

import (
	"context"
	"math/big"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// fakeChain implements ChainReader over in-memory maps.
type fakeChain struct {
	mu      sync.Mutex
	code    map[common.Address][]byte
	storage map[common.Address]map[common.Hash][]byte
	callFn  func(call ethereum.CallMsg) ([]byte, error)
	jitter  time.Duration
	calls   []ethereum.CallMsg
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		code:    make(map[common.Address][]byte),
		storage: make(map[common.Address]map[common.Hash][]byte),
	}
}

func (f *fakeChain) setCode(addr common.Address, code []byte) {
	f.code[addr] = code
}

func (f *fakeChain) setStorage(addr common.Address, slot common.Hash, word []byte) {
	if f.storage[addr] == nil {
		f.storage[addr] = make(map[common.Hash][]byte)
	}
	f.storage[addr][slot] = word
}

func (f *fakeChain) CodeAt(_ context.Context, account common.Address, _ *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.code[account], nil
}

func (f *fakeChain) StorageAt(_ context.Context, account common.Address, key common.Hash, _ *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m := f.storage[account]; m != nil {
		if w, ok := m[key]; ok {
			return w, nil
		}
	}
	return make([]byte, 32), nil
}

func (f *fakeChain) CallContract(ctx context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if f.jitter > 0 {
		time.Sleep(time.Duration(rand.Int63n(int64(f.jitter))))
	}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	fn := f.callFn
	f.mu.Unlock()
	if fn != nil {
		return fn(call)
	}
	return nil, nil
}

// dataErr mimics a provider error that carries ABI revert data the way
// rpc.DataError exposes it.
type dataErr struct {
	msg  string
	data any
}

func (e *dataErr) Error() string  { return e.msg }
func (e *dataErr) ErrorData() any { return e.data }

func testLogger(t *testing.T) *zap.SugaredLogger {
	return zaptest.NewLogger(t).Sugar()
}

// revertPayload builds an Error(string) payload: selector plus one ABI
// string argument.
func revertPayload(t *testing.T, reason string) []byte {
	t.Helper()
	packed, err := revertStringArgs.Pack(reason)
	require.NoError(t, err)
	return append(common.FromHex("0x08c379a0"), packed...)
}

// stringReturn ABI-encodes a string the way a contract returns it.
func stringReturn(t *testing.T, s string) []byte {
	t.Helper()
	packed, err := revertStringArgs.Pack(s)
	require.NoError(t, err)
	return packed
}

// word32 left-pads an integer to one 32-byte word.
func word32(n int64) []byte {
	return common.BigToHash(big.NewInt(n)).Bytes()
}
