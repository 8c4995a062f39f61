// Package cmd implements the saeval command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sartorproj/saeval/internal/config"
)

var (
	configFile string
	verbose    bool

	v = config.NewViper()
)

var rootCmd = &cobra.Command{
	Use:   "saeval",
	Short: "Rolling accuracy evaluation of seasonal adjustment methods",
	Long: `saeval compares two seasonal adjustment methods with a benchmark built from
three methods, on rolling revisions and forecasts of every series of a CSV file.`,
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging, including every re-estimation")
}
