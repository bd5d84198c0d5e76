package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdPing)
}

var pingTimeoutSeconds int

func init() {
	cmdPing.Flags().IntVarP(&pingTimeoutSeconds, "timeout", "t", 2, "Timeout in seconds for the health check")
}

// `appdeck ping` checks the control listener and prints the serving status.
var cmdPing = &cobra.Command{
	Use:   "ping",
	Short: "Check server availability (expects SERVING)",
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := controllerFactory().Ping(cmd.Context(), time.Duration(pingTimeoutSeconds)*time.Second)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}
