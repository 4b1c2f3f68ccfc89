package main

import (
	"fmt"

	"github.com/odvcencio/lit/pkg/repo"
	"github.com/spf13/cobra"
)

func newLsFilesCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "ls-files",
		Short: "List paths in the staging index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			idx, err := r.LoadIndex()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range idx.Entries {
				if verbose {
					fmt.Fprintf(out, "%06o %s %d\t%s\n", e.Mode, e.Hash, e.Stage, e.Path)
				} else {
					fmt.Fprintln(out, e.Path)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show mode, hash, and stage")
	return cmd
}
