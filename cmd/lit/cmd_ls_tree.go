package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/odvcencio/lit/pkg/object"
	"github.com/odvcencio/lit/pkg/repo"
	"github.com/spf13/cobra"
)

func newLsTreeCmd() *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "ls-tree <revision>",
		Short: "List the contents of a tree object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			treeHash, err := r.ResolveRevision(args[0], object.TypeTree)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if recursive {
				files, err := r.FlattenTree(treeHash)
				if err != nil {
					return err
				}
				paths := make([]string, 0, len(files))
				for p := range files {
					paths = append(paths, p)
				}
				sort.Strings(paths)
				for _, p := range paths {
					f := files[p]
					fmt.Fprintf(out, "%s blob %s\t%s\n", padMode(f.Mode), f.Hash, p)
				}
				return nil
			}
			return printTree(r, treeHash, out)
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "descend into subtrees")
	return cmd
}

func printTree(r *repo.Repo, treeHash object.Hash, out io.Writer) error {
	tree, err := r.Store.ReadTree(treeHash)
	if err != nil {
		return err
	}
	for _, e := range tree.Entries {
		kind := object.TypeBlob
		if e.IsDir() {
			kind = object.TypeTree
		}
		fmt.Fprintf(out, "%s %s %s\t%s\n", padMode(e.Mode), kind, e.Hash, e.Name)
	}
	return nil
}

// padMode left-pads a tree mode to six digits, matching the usual listing
// format ("40000" prints as "040000").
func padMode(mode string) string {
	for len(mode) < 6 {
		mode = "0" + mode
	}
	return mode
}
