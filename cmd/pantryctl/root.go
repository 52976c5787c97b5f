package main

import (
	"pantry-chef/internal/pkg/common"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

func newRootCommand() *cobra.Command {
	var verbose bool

	ctx := newCommandContext()

	rootCmd := &cobra.Command{
		Use:           "pantryctl",
		Short:         "Pantry Chef command line client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if verbose {
				level = "debug"
			}
			common.InitConsoleLogger(level, zapcore.AddSync(cmd.ErrOrStderr()))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(newGenerateCommand(ctx))
	rootCmd.AddCommand(newShareCommand())
	rootCmd.AddCommand(newPantryCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
