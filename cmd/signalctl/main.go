package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quotely/signal/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "signalctl",
		Short: "Run and inspect reactive signal state",
		Long: `signalctl hosts the quotes board and its signals behind a
diagnostics server.

  • Inspect and assign signal values over HTTP
  • Stream every change over WebSocket
  • Persist snapshots to memory, SQLite or S3
  • Export Prometheus metrics and OpenTelemetry traces`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to signalctl.json")

	rootCmd.AddCommand(
		serveCmd(&configPath),
		demoCmd(),
		configCmd(&configPath),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
