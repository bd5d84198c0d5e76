package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var listTimeoutSecs int

func init() {
	rootCmd.AddCommand(cmdList)
	cmdList.Flags().IntVar(&listTimeoutSecs, "timeout", 3, "Timeout in seconds for contacting the server")
}

var cmdList = &cobra.Command{
	Use:   "list",
	Short: "List all registered apps",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(listTimeoutSecs)*time.Second)
		defer cancel()

		apps, err := controllerFactory().List(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(apps) == 0 {
			fmt.Fprintln(out, "No apps registered")
			return nil
		}
		for _, a := range apps {
			fmt.Fprintf(out, "[id=%s] name=%s cmd=%s", a.ID, a.Name, a.Command)
			if a.URL != "" {
				fmt.Fprintf(out, " url=%s", a.URL)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}
