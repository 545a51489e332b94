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

func createSelectorsCmd(cfg config.Settings) *cobra.Command {
	var asJSON bool
	var resolve bool

	cmd := &cobra.Command{
		Use:   "selectors <address>",
		Short: "Extract candidate 4-byte selectors from deployed bytecode",
		Long: `Walk the contract's bytecode instruction by instruction and collect every
PUSH4 immediate as a candidate function selector. No calls are made against
the contract itself.

EXAMPLES:
  # Raw selector list
  reconcli selectors 0xdAC17F958D2ee523a2206206994597C13D831ec7

  # Name them through the signature lookup service
  reconcli selectors 0x... --resolve
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelectors(cfg, args[0], asJSON, resolve)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the list as JSON")
	cmd.Flags().BoolVar(&resolve, "resolve", false, "look up signatures for each selector")

	return cmd
}

func runSelectors(cfg config.Settings, addrHex string, asJSON, resolve bool) error {
	if !common.IsHexAddress(addrHex) {
		return fmt.Errorf("invalid address: %s", addrHex)
	}

	lggr := newLogger(cfg)
	client, err := dialClient(cfg, lggr)
	if err != nil {
		return fmt.Errorf("dial rpc: %w", err)
	}
	defer client.Close()

	ctx := context.Background()
	code, err := client.CodeAt(ctx, common.HexToAddress(addrHex), nil)
	if err != nil {
		return fmt.Errorf("fetch code: %w", err)
	}
	if len(code) == 0 {
		return recon.ErrNoCode
	}

	sels := recon.ScanSelectors(code)
	if !resolve {
		if asJSON {
			return printJSON(os.Stdout, sels)
		}
		for _, s := range sels {
			fmt.Println(s.Hex())
		}
		fmt.Printf("total: %d selectors in %d bytes of code\n", len(sels), len(code))
		return nil
	}

	src := newSigSource(cfg, lggr)
	infos := make([]recon.SignatureInfo, 0, len(sels))
	for _, s := range sels {
		infos = append(infos, recon.Classify(s, src.Resolve(ctx, s)))
	}
	if asJSON {
		return printJSON(os.Stdout, infos)
	}
	renderSignatures(os.Stdout, infos)
	return nil
}
