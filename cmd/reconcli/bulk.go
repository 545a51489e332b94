package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/hexscope/contract-recon/internal/config"
	"github.com/hexscope/contract-recon/internal/recon"
)

func createBulkCmd(cfg config.Settings) *cobra.Command {
	var input string
	var outOK string
	var outBad string
	var rowDelayMS int
	var rowTimeoutMS int
	var noProxy bool

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Analyze an address list and write CSV summaries",
		Long: `Read addresses from a file (one per line, or the first CSV column),
analyze each sequentially and split outcomes into two CSVs: contracts
that produced a report and addresses that failed.

The per-row delay keeps free-tier providers from throttling the run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBulk(cfg, input, outOK, outBad,
				time.Duration(rowDelayMS)*time.Millisecond,
				time.Duration(rowTimeoutMS)*time.Millisecond,
				noProxy)
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "path to the address list (required)")
	cmd.Flags().StringVar(&outOK, "out-ok", "recon_ok.csv", "output CSV for analyzed contracts")
	cmd.Flags().StringVar(&outBad, "out-bad", "recon_bad.csv", "output CSV for failed addresses")
	cmd.Flags().IntVar(&rowDelayMS, "row-delay-ms", 300, "delay between addresses in milliseconds")
	cmd.Flags().IntVar(&rowTimeoutMS, "row-timeout-ms", 30000, "max time spent on one address (ms)")
	cmd.Flags().BoolVar(&noProxy, "no-proxy", false, "skip proxy resolution")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runBulk(cfg config.Settings, input, outOK, outBad string, rowDelay, rowTimeout time.Duration, noProxy bool) error {
	lggr := newLogger(cfg)
	client, err := dialClient(cfg, lggr)
	if err != nil {
		return fmt.Errorf("dial rpc: %w", err)
	}
	defer client.Close()

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}

	okW, badW, err := openOutputs(outOK, outBad)
	if err != nil {
		return fmt.Errorf("open outputs: %w", err)
	}
	defer okW.Flush()
	defer badW.Flush()

	// headers
	_ = okW.Write([]string{"address", "implementation", "proxy", "codeSize", "selectors", "callable", "succeeded", "reverted"})
	_ = badW.Write([]string{"address", "reason"})

	params := recon.Params{
		From:         fromAddress(cfg),
		ResolveProxy: cfg.ResolveProxies && !noProxy,
	}

	lineNo := 0
	for _, line := range strings.Split(string(data), "\n") {
		lineNo++
		addrHex := firstColumn(line)
		if skipBulkRow(addrHex, lineNo) {
			continue
		}
		if !common.IsHexAddress(addrHex) {
			_ = badW.Write([]string{addrHex, "invalid address"})
			continue
		}

		// Fresh signature source per row keeps every analysis starting
		// from an empty cache.
		analyzer := recon.NewAnalyzer(lggr, client, newSigSource(cfg, lggr))

		ctx, cancel := context.WithTimeout(context.Background(), rowTimeout)
		report, aerr := analyzer.Analyze(ctx, common.HexToAddress(addrHex), params)
		cancel()

		if aerr != nil || report == nil {
			reason := "analysis failed"
			if aerr != nil {
				reason = aerr.Error()
			}
			_ = badW.Write([]string{addrHex, reason})
			lggr.Infof("bulk %d: %s BAD: %s", lineNo, addrHex, reason)
		} else {
			succeeded, reverted := 0, 0
			for _, fr := range report.Results {
				if fr.Success {
					succeeded++
				} else {
					reverted++
				}
			}
			callable := len(report.Results)
			impl := ""
			if report.Proxy.IsProxy {
				impl = report.Proxy.ImplementationAddress.Hex()
			}
			_ = okW.Write([]string{
				addrHex,
				impl,
				strconv.FormatBool(report.Proxy.IsProxy),
				strconv.Itoa(report.CodeSize),
				strconv.Itoa(report.SelectorCount()),
				strconv.Itoa(callable),
				strconv.Itoa(succeeded),
				strconv.Itoa(reverted),
			})
			lggr.Infof("bulk %d: %s OK: %d selectors, %d callable", lineNo, addrHex, report.SelectorCount(), callable)
		}

		if rowDelay > 0 {
			time.Sleep(rowDelay)
		}
	}

	fmt.Println("Done. OK =>", outOK, " BAD =>", outBad)
	return nil
}

// firstColumn tolerates both plain lists and CSV exports.
func firstColumn(line string) string {
	line = strings.TrimSpace(line)
	for _, sep := range []string{",", ";", "\t"} {
		if i := strings.Index(line, sep); i >= 0 {
			line = line[:i]
			break
		}
	}
	return strings.TrimSpace(line)
}

func skipBulkRow(addrHex string, lineNo int) bool {
	if addrHex == "" || strings.HasPrefix(addrHex, "#") {
		return true
	}
	if lineNo == 1 && strings.Contains(strings.ToLower(addrHex), "address") {
		return true
	}
	return false
}

func openOutputs(okPath, badPath string) (*csv.Writer, *csv.Writer, error) {
	okF, err := os.Create(okPath)
	if err != nil {
		return nil, nil, err
	}
	badF, err := os.Create(badPath)
	if err != nil {
		_ = okF.Close()
		return nil, nil, err
	}
	return csv.NewWriter(okF), csv.NewWriter(badF), nil
}
