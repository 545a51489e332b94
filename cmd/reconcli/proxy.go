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

func createProxyCmd(cfg config.Settings) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "proxy <address>",
		Short: "Resolve a proxy to the implementation that holds the real code",
		Long: `Check the address for an EIP-7702 delegation designator, an EIP-1167
minimal proxy pattern and the EIP-1967 implementation and beacon slots,
in that order. A hit only counts when the target actually has code.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProxy(cfg, args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the resolution as JSON")

	return cmd
}

func runProxy(cfg config.Settings, addrHex string, asJSON bool) error {
	if !common.IsHexAddress(addrHex) {
		return fmt.Errorf("invalid address: %s", addrHex)
	}

	lggr := newLogger(cfg)
	client, err := dialClient(cfg, lggr)
	if err != nil {
		return fmt.Errorf("dial rpc: %w", err)
	}
	defer client.Close()

	res, err := recon.NewProxyResolver(lggr, client).Resolve(context.Background(), common.HexToAddress(addrHex))
	if err != nil {
		return fmt.Errorf("resolve proxy: %w", err)
	}

	if asJSON {
		return printJSON(os.Stdout, res)
	}
	fmt.Println("address        :", res.ProxyAddress.Hex())
	if !res.IsProxy {
		fmt.Println("proxy          : no (or implementation undetectable)")
		return nil
	}
	fmt.Println("proxy          : yes")
	fmt.Println("implementation :", res.ImplementationAddress.Hex())
	fmt.Println("impl code size :", len(res.ImplementationBytecode), "bytes")
	return nil
}
