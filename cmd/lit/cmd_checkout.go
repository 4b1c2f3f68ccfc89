package main

import (
	"fmt"

	"github.com/odvcencio/lit/pkg/repo"
	"github.com/spf13/cobra"
)

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <revision>",
		Short: "Switch the working tree to another commit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			if err := r.Checkout(args[0]); err != nil {
				return err
			}

			if branch, _ := r.CurrentBranch(); branch != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Switched to branch %q\n", branch)
			} else {
				head, _ := r.Head()
				fmt.Fprintf(cmd.OutOrStdout(), "HEAD is now at %s\n", head.Hash[:7])
			}
			return nil
		},
	}
}
