package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "portal",
	Short: "Pension application intake and admin portal",
	Long: `portal accepts pension, family pension and contact submissions and
serves the admin dashboard, status workflow and CSV export behind a bearer
token.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newSetupCommand())
	rootCmd.AddCommand(newMigrateCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
