package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hexscope/contract-recon/internal/recon"
)

func createDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode raw eth_call return data without an ABI",
		Long: `Apply the response heuristics to a hex payload: word-sized integers,
addresses, ABI-encoded strings and selector-prefixed revert payloads.

EXAMPLES:
  reconcli decode 0x0000000000000000000000000000000000000000000000000000000000000012
  reconcli decode 0x000000000000000000000000dac17f958d2ee523a2206206994597c13d831ec7
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(args[0])
		},
	}
	return cmd
}

func runDecode(raw string) error {
	data, err := recon.ParseHexBytes("return data", raw)
	if err != nil {
		return err
	}
	fmt.Println(recon.Decode(data))
	return nil
}
