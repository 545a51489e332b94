package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/hexscope/contract-recon/internal/config"
	"github.com/hexscope/contract-recon/internal/recon"
)

func createAnalyzeCmd(cfg config.Settings) *cobra.Command {
	var asJSON bool
	var noProxy bool
	var batch bool
	var aggregator string

	cmd := &cobra.Command{
		Use:   "analyze <address>",
		Short: "Scan a contract and call every zero-argument function",
		Long: `Run the full pipeline against one address: fetch bytecode, resolve
proxies, extract selectors, name them via signature lookup, call every
function that takes no arguments and decode the responses.

EXAMPLES:
  # Full report for a token
  reconcli analyze 0xdAC17F958D2ee523a2206206994597C13D831ec7

  # Analyze the proxy itself instead of its implementation
  reconcli analyze 0x... --no-proxy

  # Route all probes through one Multicall2 aggregate call
  reconcli analyze 0x... --batch

  # Machine-readable output
  reconcli analyze 0x... --json
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cfg, args[0], asJSON, noProxy, batch, aggregator)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&noProxy, "no-proxy", false, "skip proxy resolution, probe the address as-is")
	cmd.Flags().BoolVar(&batch, "batch", false, "bundle probes into a single Multicall2 tryAggregate call")
	cmd.Flags().StringVar(&aggregator, "aggregator", "", "Multicall2 address (default from MULTICALL_ADDRESS)")

	return cmd
}

func runAnalyze(cfg config.Settings, addrHex string, asJSON, noProxy, batch bool, aggregator string) error {
	if !common.IsHexAddress(addrHex) {
		return fmt.Errorf("invalid address: %s", addrHex)
	}

	lggr := newLogger(cfg)
	client, err := dialClient(cfg, lggr)
	if err != nil {
		return fmt.Errorf("dial rpc: %w", err)
	}
	defer client.Close()

	params := recon.Params{
		From:         fromAddress(cfg),
		ResolveProxy: cfg.ResolveProxies && !noProxy,
	}
	if batch {
		a := aggregator
		if a == "" {
			a = cfg.MulticallAddress
		}
		if !common.IsHexAddress(a) {
			return fmt.Errorf("invalid aggregator address: %s", a)
		}
		agg := common.HexToAddress(a)
		params.Aggregator = &agg
	}

	analyzer := recon.NewAnalyzer(lggr, client, newSigSource(cfg, lggr))
	report, aerr := analyzer.Analyze(context.Background(), common.HexToAddress(addrHex), params)
	if report != nil {
		if asJSON {
			if err := printJSON(os.Stdout, report); err != nil {
				return err
			}
		} else {
			renderReport(os.Stdout, report)
		}
	}
	return aerr
}
