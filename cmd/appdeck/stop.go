package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var stopForce bool

func init() {
	rootCmd.AddCommand(cmdStop)
	cmdStop.Flags().BoolVarP(&stopForce, "force", "f", false, "Send SIGKILL if the server ignores SIGTERM")
}

var cmdStop = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := controllerFactory().StopDaemon(stopForce); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Server stopped")
		return nil
	},
}
