package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/hexscope/contract-recon/internal/config"
)

func main() {
	_ = godotenv.Load()
	_ = godotenv.Overload(".env.local")

	cfg := config.Load()
	if err := newRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
