package recon

import (
	"bytes"
	"context"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// EIP-1967 well-known slots.
var (
	implementationSlot = common.HexToHash("0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc")
	beaconSlot         = common.HexToHash("0xa3f0ad74e5423aebfd80d3ef4346578335a9a72aeaee59ff6cb3582b35133d50")
)

// implementation() on the beacon.
var beaconImplSelector = crypto.Keccak256([]byte("implementation()"))[:4]

// EIP-7702 delegation designator prefix (0xef0100 ++ 20-byte address).
var delegationPrefix = []byte{0xef, 0x01, 0x00}

// EIP-1167 minimal-proxy runtime code, split around the embedded target.
var (
	minimalProxyPre  = common.FromHex("0x363d3d373d3d3d363d73")
	minimalProxyPost = common.FromHex("0x5af43d82803e903d91602b57fd5bf3")
)

// ProxyResolution reports where analysis should actually look.
type ProxyResolution struct {
	ProxyAddress           common.Address `json:"proxyAddress"`
	IsProxy                bool           `json:"isProxy"`
	ImplementationAddress  common.Address `json:"implementationAddress"`
	ImplementationBytecode []byte         `json:"-"`
}

// ProxyResolver follows upgradeable indirection down to an implementation
// that actually has code.
type ProxyResolver struct {
	lggr   *zap.SugaredLogger
	client ChainReader
}

func NewProxyResolver(lggr *zap.SugaredLogger, client ChainReader) *ProxyResolver {
	return &ProxyResolver{lggr: lggr, client: client}
}

// Resolve checks, in order: EIP-7702 delegation designators, EIP-1167
// minimal proxies, the EIP-1967 implementation slot, then the EIP-1967
// beacon queried for implementation(). A candidate only counts when its
// address has non-empty code; a populated slot pointing at an empty
// account falls through to the next check instead of failing the run.
func (r *ProxyResolver) Resolve(ctx context.Context, addr common.Address) (ProxyResolution, error) {
	code, err := r.client.CodeAt(ctx, addr, nil)
	if err != nil {
		return ProxyResolution{ProxyAddress: addr}, err
	}
	return r.resolveWithCode(ctx, addr, code), nil
}

func (r *ProxyResolver) resolveWithCode(ctx context.Context, addr common.Address, code []byte) ProxyResolution {
	res := ProxyResolution{ProxyAddress: addr}

	if target, ok := DelegationTarget(code); ok {
		if c := r.codeOf(ctx, target); len(c) > 0 {
			r.lggr.Debugf("proxy: %s delegates to %s (eip-7702)", addr.Hex(), target.Hex())
			return filled(res, target, c)
		}
	}
	if target, ok := MinimalProxyTarget(code); ok {
		if c := r.codeOf(ctx, target); len(c) > 0 {
			r.lggr.Debugf("proxy: %s is a minimal proxy for %s", addr.Hex(), target.Hex())
			return filled(res, target, c)
		}
	}

	if impl, ok := r.slotAddress(ctx, addr, implementationSlot); ok {
		if c := r.codeOf(ctx, impl); len(c) > 0 {
			r.lggr.Debugf("proxy: %s implementation slot -> %s", addr.Hex(), impl.Hex())
			return filled(res, impl, c)
		}
		r.lggr.Debugf("proxy: %s implementation slot set but %s has no code", addr.Hex(), impl.Hex())
	}

	if beacon, ok := r.slotAddress(ctx, addr, beaconSlot); ok {
		if impl, ok2 := r.beaconImplementation(ctx, beacon); ok2 {
			if c := r.codeOf(ctx, impl); len(c) > 0 {
				r.lggr.Debugf("proxy: %s beacon %s -> %s", addr.Hex(), beacon.Hex(), impl.Hex())
				return filled(res, impl, c)
			}
		}
	}

	return res
}

func filled(res ProxyResolution, impl common.Address, code []byte) ProxyResolution {
	res.IsProxy = true
	res.ImplementationAddress = impl
	res.ImplementationBytecode = code
	return res
}

// slotAddress reads one storage word and extracts a right-aligned address;
// all-zero or an unreadable slot means absent.
func (r *ProxyResolver) slotAddress(ctx context.Context, addr common.Address, slot common.Hash) (common.Address, bool) {
	word, err := r.client.StorageAt(ctx, addr, slot, nil)
	if err != nil {
		r.lggr.Debugf("proxy: storage read %s at %s: %v", slot.Hex(), addr.Hex(), err)
		return common.Address{}, false
	}
	out := common.BytesToAddress(word)
	if out == (common.Address{}) {
		return common.Address{}, false
	}
	return out, true
}

func (r *ProxyResolver) beaconImplementation(ctx context.Context, beacon common.Address) (common.Address, bool) {
	ret, err := r.client.CallContract(ctx, ethereum.CallMsg{To: &beacon, Data: beaconImplSelector}, nil)
	if err != nil || len(ret) < 32 {
		return common.Address{}, false
	}
	out := common.BytesToAddress(ret[:32])
	if out == (common.Address{}) {
		return common.Address{}, false
	}
	return out, true
}

func (r *ProxyResolver) codeOf(ctx context.Context, addr common.Address) []byte {
	code, err := r.client.CodeAt(ctx, addr, nil)
	if err != nil {
		r.lggr.Debugf("proxy: code read at %s: %v", addr.Hex(), err)
		return nil
	}
	return code
}

// DelegationTarget extracts the delegate from an EIP-7702 designator when
// the code is exactly that 23-byte shape.
func DelegationTarget(code []byte) (common.Address, bool) {
	if len(code) != 23 || !bytes.HasPrefix(code, delegationPrefix) {
		return common.Address{}, false
	}
	return common.BytesToAddress(code[3:]), true
}

// MinimalProxyTarget extracts the embedded target of an EIP-1167 clone.
func MinimalProxyTarget(code []byte) (common.Address, bool) {
	if len(code) != len(minimalProxyPre)+20+len(minimalProxyPost) {
		return common.Address{}, false
	}
	if !bytes.HasPrefix(code, minimalProxyPre) || !bytes.HasSuffix(code, minimalProxyPost) {
		return common.Address{}, false
	}
	return common.BytesToAddress(code[len(minimalProxyPre) : len(minimalProxyPre)+20]), true
}
