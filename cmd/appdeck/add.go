package main

import (
	"context"
	"fmt"
	"time"

	"appdeck/internal/app"

	"github.com/spf13/cobra"
)

// appFlags are shared by add and edit.
type appFlags struct {
	name        string
	description string
	command     string
	url         string
	timeout     int
}

func (f *appFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Display name")
	cmd.Flags().StringVar(&f.description, "description", "", "Optional description")
	cmd.Flags().StringVar(&f.command, "command", "", "Shell command line to run on launch")
	cmd.Flags().StringVar(&f.url, "url", "", "Associated link")
	cmd.Flags().IntVar(&f.timeout, "timeout", 3, "Timeout in seconds for contacting the server")
}

func (f *appFlags) input(cmd *cobra.Command) app.AppInput {
	in := app.AppInput{Name: f.name, Command: f.command, URL: f.url}
	if cmd.Flags().Changed("description") {
		d := f.description
		in.Description = &d
	}
	return in
}

var (
	addFlags appFlags
	addID    string
)

func init() {
	rootCmd.AddCommand(cmdAdd)
	addFlags.register(cmdAdd)
	cmdAdd.Flags().StringVar(&addID, "id", "", "Use this uuid instead of a generated one")
}

var cmdAdd = &cobra.Command{
	Use:   "add --name <name> --command <command line>",
	Short: "Register a new app",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(addFlags.timeout)*time.Second)
		defer cancel()

		in := addFlags.input(cmd)
		in.ID = addID
		stored, err := controllerFactory().Create(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added [id=%s] name=%s\n", stored.ID, stored.Name)
		return nil
	},
}
