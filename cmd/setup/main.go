// Command setup prepares a backend for the server: schema, indexes, the
// default report and the admin account.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string
	root := &cobra.Command{
		Use:           "setup",
		Short:         "Initialize and maintain the daily report backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file path (e.g. etc/config-dev.yaml)")
	root.AddCommand(newInitCmd(&configFile), newPasswdCmd(&configFile))
	return root
}
