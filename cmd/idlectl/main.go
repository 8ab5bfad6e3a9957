// Package main is the offline command-line client. It opens the save
// directly, credits any pending progress and applies one command.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "idlectl",
	Short: "Inspect and drive an idle save",
	Long: `idlectl works on the configured save without a running daemon. Every
command first credits the progress made since the save was last written.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log engine events")

	rootCmd.AddCommand(newCmd, statusCmd, catchupCmd, xpTableCmd, startCmd, fightCmd, cancelCmd)
}
