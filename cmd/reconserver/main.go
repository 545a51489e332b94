package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hexscope/contract-recon/internal/config"
	"github.com/hexscope/contract-recon/internal/ethrpc"
	"github.com/hexscope/contract-recon/internal/logging"
	"github.com/hexscope/contract-recon/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	_ = godotenv.Overload(".env.local")

	cfg := config.Load()
	lggr := logging.NewJSON(cfg.LogLevel)
	defer func() { _ = lggr.Sync() }()

	lggr.Infof("starting reconserver rpc=%s listen=%s", cfg.RPCURL, cfg.ListenAddr)

	client, err := ethrpc.Dial(cfg.RPCURL, lggr,
		ethrpc.WithAttempts(uint(cfg.RPCAttempts)),
		ethrpc.WithRetryDelay(time.Duration(cfg.RPCRetryDelayMS)*time.Millisecond),
		ethrpc.WithCallTimeout(time.Duration(cfg.CallTimeoutMS)*time.Millisecond),
	)
	if err != nil {
		return fmt.Errorf("dial rpc: %w", err)
	}
	defer client.Close()

	srv := server.New(cfg, lggr, client)
	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		lggr.Infof("server listening addr=%s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		lggr.Infof("shutting down signal=%s", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	lggr.Infof("server stopped")
	return nil
}
