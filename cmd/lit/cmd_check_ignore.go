package main

import (
	"fmt"

	"github.com/odvcencio/lit/pkg/repo"
	"github.com/spf13/cobra"
)

func newCheckIgnoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-ignore <paths...>",
		Short: "Show which paths are excluded by the ignore rules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			checker := r.NewIgnoreChecker()

			out := cmd.OutOrStdout()
			for _, p := range args {
				if checker.IsIgnored(p) {
					fmt.Fprintln(out, p)
				}
			}
			return nil
		},
	}
}
