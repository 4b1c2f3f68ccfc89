package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/odvcencio/lit/pkg/object"
	"github.com/odvcencio/lit/pkg/repo"
	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	var (
		limit    int
		graphviz bool
	)

	cmd := &cobra.Command{
		Use:   "log [revision]",
		Short: "Show commit history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			rev := "HEAD"
			if len(args) == 1 {
				rev = args[0]
			}
			start, err := r.ResolveRevision(rev, object.TypeCommit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if graphviz {
				return writeGraphvizLog(r, start, out)
			}

			entries, err := r.Log(start, limit)
			if err != nil {
				return err
			}
			for i, e := range entries {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "commit %s\n", e.Hash)
				if author := e.Commit.Author(); author != "" {
					fmt.Fprintf(out, "Author: %s\n", author)
				}
				fmt.Fprintln(out)
				for _, line := range strings.Split(strings.TrimRight(e.Commit.Message(), "\n"), "\n") {
					fmt.Fprintf(out, "    %s\n", line)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "max-count", "n", 0, "limit the number of commits")
	cmd.Flags().BoolVar(&graphviz, "graphviz", false, "emit the history as a GraphViz digraph")
	return cmd
}

// writeGraphvizLog renders the full ancestry as a dot digraph, one node per
// commit labeled with the short hash and the first message line.
func writeGraphvizLog(r *repo.Repo, start object.Hash, out io.Writer) error {
	fmt.Fprintln(out, "digraph log{")
	fmt.Fprintln(out, "  node[shape=rect]")

	err := r.WalkHistory(start, func(h object.Hash, c *object.Commit) error {
		label, _, _ := strings.Cut(c.Message(), "\n")
		label = strings.ReplaceAll(label, "\\", "\\\\")
		label = strings.ReplaceAll(label, "\"", "\\\"")
		fmt.Fprintf(out, "  c_%s [label=\"%s: %s\"]\n", h, h[:7], label)
		for _, p := range c.Parents() {
			fmt.Fprintf(out, "  c_%s -> c_%s;\n", h, p)
		}
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "}")
	return nil
}
