package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/hexscope/contract-recon/internal/config"
	"github.com/hexscope/contract-recon/internal/ethrpc"
)

func createNetworksCmd(cfg config.Settings) *cobra.Command {
	var asJSON bool
	var rpcs string

	cmd := &cobra.Command{
		Use:   "networks <address>",
		Short: "Check which configured networks carry code at an address",
		Long: `Dial every endpoint from RPC_URLS (or --rpcs) in parallel and report the
chain id and code size found at the address on each.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNetworks(cfg, args[0], rpcs, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.Flags().StringVar(&rpcs, "rpcs", "", "comma-separated endpoint list (overrides RPC_URLS)")

	return cmd
}

func runNetworks(cfg config.Settings, addrHex, rpcs string, asJSON bool) error {
	if !common.IsHexAddress(addrHex) {
		return fmt.Errorf("invalid address: %s", addrHex)
	}

	endpoints := cfg.RPCURLs
	if rpcs != "" {
		endpoints = nil
		for _, u := range strings.Split(rpcs, ",") {
			if u = strings.TrimSpace(u); u != "" {
				endpoints = append(endpoints, u)
			}
		}
	}
	if len(endpoints) == 0 {
		endpoints = []string{rpcURL(cfg)}
	}

	lggr := newLogger(cfg)
	results := ethrpc.ProbeNetworks(context.Background(), lggr, endpoints, common.HexToAddress(addrHex))

	if asJSON {
		return printJSON(os.Stdout, results)
	}
	renderPresences(os.Stdout, results)
	return nil
}
