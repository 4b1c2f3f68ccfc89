package main

import (
	"github.com/odvcencio/lit/pkg/repo"
	"github.com/spf13/cobra"
)

func newRmCmd() *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "rm <files...>",
		Short: "Unstage files and remove them from the working tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			return r.Remove(args, !cached)
		},
	}
	cmd.Flags().BoolVar(&cached, "cached", false, "only unstage; keep working tree files")
	return cmd
}
