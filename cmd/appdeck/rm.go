package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var rmTimeoutSecs int

func init() {
	rootCmd.AddCommand(cmdRm)
	cmdRm.Flags().IntVar(&rmTimeoutSecs, "timeout", 3, "Timeout in seconds for contacting the server")
}

var cmdRm = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove an app from the registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(rmTimeoutSecs)*time.Second)
		defer cancel()

		if err := controllerFactory().Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed [id=%s]\n", id)
		return nil
	},
}
