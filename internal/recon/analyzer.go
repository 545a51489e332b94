// Package recon performs bytecode-level reconnaissance of EVM contracts
// that ship no ABI: selector discovery straight from the dispatch table,
// proxy and beacon resolution, best-effort signature lookup, zero-argument
// probing with isolated failures, and schema-less decoding of whatever the
// calls return.
package recon

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// SignatureSource resolves a selector to a human-readable signature,
// returning "" when no service knows it.
type SignatureSource interface {
	Resolve(ctx context.Context, sel Selector) string
}

// Params tunes one analysis run.
type Params struct {
	From         common.Address  // optional eth_call sender
	ResolveProxy bool            // follow delegation/proxy indirection first
	Aggregator   *common.Address // batch through tryAggregate when set (no revert text)
}

// Analyzer wires the pipeline together over one chain endpoint.
type Analyzer struct {
	lggr   *zap.SugaredLogger
	client ChainReader
	sigs   SignatureSource
	proxy  *ProxyResolver
}

func NewAnalyzer(lggr *zap.SugaredLogger, client ChainReader, sigs SignatureSource) *Analyzer {
	return &Analyzer{
		lggr:   lggr,
		client: client,
		sigs:   sigs,
		proxy:  NewProxyResolver(lggr, client),
	}
}

// Analyze runs the full pipeline for one address: fetch code, resolve
// indirection, scan selectors, resolve and classify signatures, probe the
// zero-argument ones, decode the answers. Only missing code, transport
// failure on the initial fetch, and unexpected panics surface as errors;
// everything else degrades into the report. On error the report still
// carries whatever was computed before the failure.
func (a *Analyzer) Analyze(ctx context.Context, addr common.Address, p Params) (report *Report, err error) {
	report = &Report{Address: addr, Proxy: ProxyResolution{ProxyAddress: addr}}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recon: analysis of %s: %v", addr.Hex(), r)
		}
	}()

	code, err := a.client.CodeAt(ctx, addr, nil)
	if err != nil {
		return report, fmt.Errorf("fetch code: %w", err)
	}
	if len(code) == 0 {
		return report, ErrNoCode
	}

	target := addr
	if p.ResolveProxy {
		if res := a.proxy.resolveWithCode(ctx, addr, code); res.IsProxy {
			report.Proxy = res
			target = res.ImplementationAddress
			code = res.ImplementationBytecode
			a.lggr.Infof("proxy: analyzing implementation %s behind %s", target.Hex(), addr.Hex())
		}
	}
	report.CodeSize = len(code)

	selectors := ScanSelectors(code)
	a.lggr.Infof("scan: %d bytes of code, %d selectors", len(code), len(selectors))

	report.Selectors = make([]SignatureInfo, 0, len(selectors))
	var calls []Call
	var callInfos []SignatureInfo
	for _, sel := range selectors {
		info := Classify(sel, a.sigs.Resolve(ctx, sel))
		report.Selectors = append(report.Selectors, info)
		if info.IsCallable {
			calls = append(calls, Call{Target: target, Data: sel.Bytes()})
			callInfos = append(callInfos, info)
		}
	}
	if len(calls) == 0 {
		return report, nil
	}

	var outcomes []CallOutcome
	if p.Aggregator != nil {
		var berr error
		outcomes, berr = BatchInvoke(ctx, a.client, *p.Aggregator, p.From, calls)
		if berr != nil {
			a.lggr.Warnf("batch: tryAggregate failed (%v), falling back to parallel calls", berr)
			outcomes = InvokeAll(ctx, a.client, p.From, calls)
		}
	} else {
		outcomes = InvokeAll(ctx, a.client, p.From, calls)
	}

	report.Results = make([]FunctionResult, len(outcomes))
	for i, o := range outcomes {
		fr := FunctionResult{
			Selector:     o.Selector,
			Signature:    callInfos[i].Signature,
			FunctionName: callInfos[i].FunctionName,
			Success:      o.Success,
		}
		if o.Success {
			fr.Value = Decode(o.ReturnData)
		} else {
			fr.RevertReason = o.RevertReason
			if fr.RevertReason == "" {
				fr.RevertReason = execReverted
			}
		}
		report.Results[i] = fr
	}
	return report, nil
}
