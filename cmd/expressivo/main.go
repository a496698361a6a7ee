// Command expressivo parses, differentiates and simplifies polynomial
// expressions from the command line.
package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// Set via -ldflags at build time.
var version = "dev"

var log = commonlog.GetLogger("expressivo.cli")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose int

	rootCmd := &cobra.Command{
		Use:          "expressivo",
		Short:        "Symbolic sums and products of decimals and variables",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbose, nil)
		},
	}
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "verbosity (repeat for more)")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newDiffCmd())
	rootCmd.AddCommand(newSimplifyCmd())
	rootCmd.AddCommand(newLatexCmd())
	return rootCmd
}

// joinArgs lets unquoted expressions such as `expressivo parse x + 1` work.
func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
