// Package main is the entry point for the boxspec application.
// It serves the box specification API and offers a one-shot calculator.
//
// 12-Factor App compilance:
//   - III. Config: Configuration via environment variables
//   - VI. Processes: Stateless processes
//   - VII. Port Binding: Self-contained HTTP server
//   - IX. Disposability: Graceful shutdown
//   - XI. Logs: Structured logging to stdout
//
// Usage:
//
//	boxspec serve
//	boxspec calc --length 40 --breadth 30 --height 20 --gsm top=150,bottom=150
//
// Environment Variables:
//
//	BOXSPEC_ENVIRONMENT - Deployment environment (development, staging, production)
//	BOXSPEC_SERVER_PORT - HTTP server port (default: 8080, PORT is also honoured)
//	BOXSPEC_DATABASE_PATH - SQLite file holding box templates
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "boxspec",
		Short:         "Corrugated box specification calculator",
		Long:          `Computes board sizes, production mode, paper weights and costs of corrugated boxes.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./config.yaml, ./configs/config.yaml or /etc/boxspec/config.yaml)")

	root.AddCommand(newServeCmd(&configFile), newCalcCmd(&configFile))
	return root
}
