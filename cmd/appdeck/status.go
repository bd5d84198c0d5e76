package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdStatus)
}

var cmdStatus = &cobra.Command{
	Use:   "status",
	Short: "Report whether the server is running",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := controllerFactory().Status()
		out := cmd.OutOrStdout()
		switch {
		case !st.Running:
			fmt.Fprintln(out, "Server is not running")
		case st.PID > 0:
			fmt.Fprintf(out, "Server is running (pid %d) at %s\n", st.PID, cfg.BaseURL())
		default:
			fmt.Fprintf(out, "Server is running at %s\n", cfg.BaseURL())
		}
		if err != nil && st.Running {
			fmt.Fprintf(out, "PID unavailable: %v\n", err)
			return nil
		}
		return err
	},
}
