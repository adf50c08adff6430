package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/queuebot/internal/cli"
	"github.com/example/queuebot/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "queuebot",
		Short:   "queuebot - question queue manager for chat servers",
		Version: version.String(),
		Long: `queuebot tracks questions posted in designated queue channels, lets
managers claim and answer them, and archives resolved questions to a record
channel. This CLI inspects and repairs the bot's configuration and claims.`,
	}

	rootCmd.AddCommand(cli.ConfigCmd())
	rootCmd.AddCommand(cli.ClaimsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
