package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/example/renewbot/internal/cli"
	"github.com/example/renewbot/internal/version"
)

func main() {
	// Credentials may live in a .env next to the working directory
	// instead of the config file. Absence is fine.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "renewbot",
		Short:   "renewbot - unattended contract renewal for EUserv hosting",
		Version: version.String(),
		Long: `renewbot watches a mailbox for manual contract renewal notices and
drives the provider's PIN-protected renewal transaction on the support
portal. It is built to run unattended from a scheduler.`,
	}

	rootCmd.AddCommand(cli.RunCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.HistoryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
