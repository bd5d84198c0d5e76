package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"appdeck/internal/daemon"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdServe)
}

var serveForceRestart bool

func init() {
	cmdServe.Flags().BoolVarP(&serveForceRestart, "force", "f", false, "Restart the server if it is already running")
}

var cmdServe = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Loads the app list, serves the HTTP API and UI, and blocks until interrupted. If a server is already running nothing happens unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		// 0) check if the server is running
		if daemon.IsRunning(cfg.ControlAddr) {
			if !serveForceRestart {
				pid, err := daemon.RunningPID(cfg.ControlAddr)
				var message string
				if pid != 0 {
					message = fmt.Sprintf("Server is already running (pid %d). Stop it with `appdeck stop` or re-run with --force.", pid)
				} else {
					message = "Server is already running. Stop it with `appdeck stop` or re-run with --force."
				}
				if err != nil {
					message = fmt.Sprintf("Error checking if server is running: %v", err)
				}
				fmt.Fprintln(out, message)
				return nil
			}
			fmt.Fprintln(out, "Stopping existing server process...")
			if err := daemon.StopRunningDaemon(cfg.ControlAddr, true); err != nil {
				return err
			}
		}

		// 1) Not running, so start it
		srv, err := daemon.Start(cfg, slog.Default())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Server running at http://%s\n", srv.HTTPAddr())
		runSpin := spinner.New(spinner.CharSets[21], 120*time.Millisecond, spinner.WithWriter(os.Stdout))
		runSpin.Suffix = " Serving..."
		runSpin.Start()

		// 2) Wait for SIGINT or SIGTERM to stop
		sigc := make(chan os.Signal, 2)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		<-sigc
		runSpin.Stop()
		return srv.Close()
	},
}
