package main

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hexscope/contract-recon/internal/config"
	"github.com/hexscope/contract-recon/internal/ethrpc"
	"github.com/hexscope/contract-recon/internal/logging"
	"github.com/hexscope/contract-recon/internal/siglookup"
)

var (
	flagRPC      string
	flagFrom     string
	flagLogLevel string
)

func newRootCmd(cfg config.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "reconcli",
		Short: "Bytecode-level reconnaissance for EVM contracts",
		Long: `reconcli inspects deployed contracts without an ABI: it extracts 4-byte
selectors straight from the bytecode, follows proxies to their implementation,
names selectors through a signature lookup service and calls every function
that takes no arguments, decoding whatever comes back.`,
	}

	rootCmd.PersistentFlags().StringVar(&flagRPC, "rpc", "", "RPC endpoint URL (default from RPC_URL)")
	rootCmd.PersistentFlags().StringVar(&flagFrom, "from", "", "caller address used for eth_call probes")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(createAnalyzeCmd(cfg))
	rootCmd.AddCommand(createSelectorsCmd(cfg))
	rootCmd.AddCommand(createProxyCmd(cfg))
	rootCmd.AddCommand(createDecodeCmd())
	rootCmd.AddCommand(createNetworksCmd(cfg))
	rootCmd.AddCommand(createBulkCmd(cfg))

	return rootCmd
}

func rpcURL(cfg config.Settings) string {
	if flagRPC != "" {
		return flagRPC
	}
	return cfg.RPCURL
}

func fromAddress(cfg config.Settings) common.Address {
	s := flagFrom
	if s == "" {
		s = cfg.FromAddress
	}
	if s == "" {
		return common.Address{}
	}
	return common.HexToAddress(s)
}

func newLogger(cfg config.Settings) *zap.SugaredLogger {
	level := flagLogLevel
	if level == "" {
		level = cfg.LogLevel
	}
	return logging.New(level)
}

func dialClient(cfg config.Settings, lggr *zap.SugaredLogger) (*ethrpc.Client, error) {
	return ethrpc.Dial(rpcURL(cfg), lggr,
		ethrpc.WithAttempts(uint(cfg.RPCAttempts)),
		ethrpc.WithRetryDelay(time.Duration(cfg.RPCRetryDelayMS)*time.Millisecond),
		ethrpc.WithCallTimeout(time.Duration(cfg.CallTimeoutMS)*time.Millisecond),
	)
}

// newSigSource builds a fresh resolver so every run starts with an empty
// signature cache.
func newSigSource(cfg config.Settings, lggr *zap.SugaredLogger) *siglookup.Resolver {
	httpTimeout := time.Duration(cfg.HTTPTimeoutMS) * time.Millisecond
	var primary, fallback *siglookup.Client
	if cfg.SigLookupURL != "" {
		primary = siglookup.NewClient(cfg.SigLookupURL, httpTimeout)
	}
	if cfg.SigLookupFallback != "" {
		fallback = siglookup.NewClient(cfg.SigLookupFallback, httpTimeout)
	}
	return siglookup.NewResolver(lggr, primary, fallback)
}
