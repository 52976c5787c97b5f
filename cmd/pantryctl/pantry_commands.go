package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newPantryCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pantry",
		Short: "Inspect and edit the stored pantry selection",
	}

	cmd.AddCommand(newPantryShowCommand(ctx))
	cmd.AddCommand(newPantrySetCommand(ctx))
	cmd.AddCommand(newPantryImportCommand(ctx))
	cmd.AddCommand(newPantryLinkCommand(ctx))

	return cmd
}

func newPantryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored pantry selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := ctx.ensureServices(cmd.Context())
			if err != nil {
				return err
			}
			sel, err := services.Pantry.Selection(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd, sel)
		},
	}
}

func newPantrySetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <true|false>",
		Short: "Mark a pantry item as available or unavailable",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			available, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid availability %q: %w", args[1], err)
			}
			services, err := ctx.ensureServices(cmd.Context())
			if err != nil {
				return err
			}
			sel, err := services.Pantry.Set(cmd.Context(), args[0], available)
			if err != nil {
				return err
			}
			return writeJSON(cmd, sel)
		},
	}
}

func newPantryImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <link-or-token>",
		Short: "Replace the stored pantry with a shared selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := ctx.ensureServices(cmd.Context())
			if err != nil {
				return err
			}
			result, err := services.Pantry.Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd, result)
		},
	}
}

func newPantryLinkCommand(ctx *commandContext) *cobra.Command {
	var origin string

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Print share links for the stored pantry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := ctx.ensureServices(cmd.Context())
			if err != nil {
				return err
			}
			links, err := services.Pantry.ShareLinks(cmd.Context(), origin)
			if err != nil {
				return err
			}
			return writeJSON(cmd, links)
		},
	}

	cmd.Flags().StringVar(&origin, "origin", "", "Origin the links point at")

	return cmd
}
