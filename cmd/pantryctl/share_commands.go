package main

import (
	"fmt"

	"pantry-chef/internal/core/share"

	"github.com/spf13/cobra"
)

func newShareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Encode and decode pantry share links",
	}

	cmd.AddCommand(newShareEncodeCommand())
	cmd.AddCommand(newShareDecodeCommand())

	return cmd
}

func newShareEncodeCommand() *cobra.Command {
	var (
		origin string
		scheme string
	)

	cmd := &cobra.Command{
		Use:   "encode <id>...",
		Short: "Build a share link for the given pantry ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				link string
				err  error
			)
			switch share.Scheme(scheme) {
			case share.SchemeToken:
				link, err = share.BuildTokenURL(args, origin)
			case share.SchemeMap:
				sel := make(map[string]bool, len(args))
				for _, id := range args {
					sel[id] = true
				}
				link, err = share.BuildMapURL(sel, origin)
			default:
				return fmt.Errorf("unknown share scheme %q", scheme)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), link)
			return err
		},
	}

	cmd.Flags().StringVar(&origin, "origin", "", "Origin the link points at")
	cmd.Flags().StringVar(&scheme, "scheme", string(share.SchemeToken), "Link format (token or map)")

	return cmd
}

type decodeOutput struct {
	Scheme    share.Scheme    `json:"scheme"`
	Selection map[string]bool `json:"selection"`
	Selected  []string        `json:"selected"`
}

func newShareDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <link-or-token>",
		Short: "Decode a share link, token or payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scheme, sel := share.Decode(args[0])
			return writeJSON(cmd, decodeOutput{
				Scheme:    scheme,
				Selection: sel,
				Selected:  share.SelectedIDs(sel),
			})
		},
	}
}
