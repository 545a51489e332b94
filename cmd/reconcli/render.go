package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"

	"github.com/hexscope/contract-recon/internal/ethrpc"
	"github.com/hexscope/contract-recon/internal/recon"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderReport(w io.Writer, r *recon.Report) {
	fmt.Fprintf(w, "=== CONTRACT %s ===\n", r.Address.Hex())
	fmt.Fprintln(w, "code size :", r.CodeSize, "bytes")
	if r.Proxy.IsProxy {
		fmt.Fprintln(w, "proxy     : yes ->", r.Proxy.ImplementationAddress.Hex())
	} else {
		fmt.Fprintln(w, "proxy     : no")
	}
	fmt.Fprintf(w, "selectors : %d total, %d callable without arguments\n", len(r.Selectors), len(r.Results))

	if notCallable := r.NotCallable(); len(notCallable) > 0 {
		fmt.Fprintln(w, "\n--- needs arguments ---")
		for _, s := range notCallable {
			fmt.Fprintf(w, "%s  %s\n", s.Selector.Hex(), s.Signature)
		}
	}

	if len(r.Results) > 0 {
		fmt.Fprintln(w, "\n--- zero-argument calls ---")
		for _, fr := range r.Results {
			if fr.Success {
				fmt.Fprintf(w, "%-28s => %s\n", fr.FunctionName, fr.Value)
			} else {
				fmt.Fprintf(w, "%-28s => ! %s\n", fr.FunctionName, fr.RevertReason)
			}
		}
	}
	fmt.Fprintln(w, "=====================")
}

func renderSignatures(w io.Writer, infos []recon.SignatureInfo) {
	callable := 0
	for _, s := range infos {
		mark := " "
		if s.IsCallable {
			mark = "*"
			callable++
		}
		sig := s.Signature
		if sig == "" {
			sig = "(unknown)"
		}
		fmt.Fprintf(w, "%s %s  %s\n", mark, s.Selector.Hex(), sig)
	}
	fmt.Fprintf(w, "total: %d selectors, %d callable without arguments (*)\n", len(infos), callable)
}

func renderPresences(w io.Writer, results []ethrpc.NetworkPresence) {
	for _, p := range results {
		switch {
		case p.Err != nil:
			fmt.Fprintf(w, "FAIL  %-44s %v\n", p.Endpoint, p.Err)
		case p.HasCode:
			fmt.Fprintf(w, "CODE  %-44s chain=%s size=%d\n", p.Endpoint, chainStr(p.ChainID), p.CodeSize)
		default:
			fmt.Fprintf(w, "none  %-44s chain=%s\n", p.Endpoint, chainStr(p.ChainID))
		}
	}
}

func chainStr(id *big.Int) string {
	if id == nil {
		return "?"
	}
	return id.String()
}
