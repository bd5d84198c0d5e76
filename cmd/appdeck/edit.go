package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var editFlags appFlags

func init() {
	rootCmd.AddCommand(cmdEdit)
	editFlags.register(cmdEdit)
}

var cmdEdit = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change an app's fields",
	Long:  "Fields that are not passed keep their current value.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(editFlags.timeout)*time.Second)
		defer cancel()

		ctrl := controllerFactory()
		current, err := ctrl.Find(ctx, id)
		if err != nil {
			return err
		}

		in := editFlags.input(cmd)
		flags := cmd.Flags()
		if !flags.Changed("name") {
			in.Name = current.Name
		}
		if !flags.Changed("description") {
			in.Description = current.Description
		}
		if !flags.Changed("command") {
			in.Command = current.Command
		}
		if !flags.Changed("url") {
			in.URL = current.URL
		}

		if err := ctrl.Update(ctx, id, in); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated [id=%s] name=%s\n", id, in.Name)
		return nil
	},
}
