package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/odvcencio/lit/pkg/object"
	"github.com/odvcencio/lit/pkg/repo"
	"github.com/spf13/cobra"
)

func newBranchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "branch [name [start-point]]",
		Short: "List branches or create a new one",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				refs, err := r.ListRefs("heads")
				if err != nil {
					return err
				}
				current, _ := r.CurrentBranch()

				names := make([]string, 0, len(refs))
				for name := range refs {
					names = append(names, strings.TrimPrefix(name, "heads/"))
				}
				sort.Strings(names)
				for _, name := range names {
					marker := "  "
					if name == current {
						marker = "* "
					}
					fmt.Fprintf(out, "%s%s\n", marker, name)
				}
				return nil
			}

			rev := "HEAD"
			if len(args) == 2 {
				rev = args[1]
			}
			h, err := r.ResolveRevision(rev, object.TypeCommit)
			if err != nil {
				return err
			}
			return r.CreateBranch(args[0], h)
		},
	}
}
