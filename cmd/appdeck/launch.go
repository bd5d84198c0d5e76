package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// errCommandFailed makes the CLI exit non-zero without printing a second message.
var errCommandFailed = errors.New("command failed")

var launchQuiet bool

func init() {
	rootCmd.AddCommand(cmdLaunch)
	cmdLaunch.Flags().BoolVarP(&launchQuiet, "quiet", "q", false, "Do not show a spinner while waiting")
}

var cmdLaunch = &cobra.Command{
	Use:   "launch <id>",
	Short: "Run an app's command on the server and print its output",
	Long:  "Blocks until the command exits. The exit status is non-zero when the command failed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		var spin *spinner.Spinner
		if !launchQuiet {
			spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
			spin.Suffix = " Executing command..."
			spin.Start()
		}
		res, err := controllerFactory().Launch(cmd.Context(), id)
		if spin != nil {
			spin.Stop()
		}

		out := cmd.OutOrStdout()
		if res.Command != "" {
			fmt.Fprintf(out, "$ %s\n", res.Command)
		}
		if res.Stdout != "" {
			fmt.Fprint(out, ensureNewline(res.Stdout))
		}
		if res.Stderr != "" {
			fmt.Fprint(cmd.ErrOrStderr(), ensureNewline(res.Stderr))
		}
		if err != nil {
			return err
		}
		if !res.Success {
			fmt.Fprintf(cmd.ErrOrStderr(), "[Exit Status: Failed] %s\n", res.Message)
			cmd.SilenceErrors = true
			return errCommandFailed
		}
		return nil
	},
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
