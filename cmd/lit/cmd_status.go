package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/odvcencio/lit/pkg/repo"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show working tree status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			report, err := r.Status()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if report.Branch != "" {
				fmt.Fprintf(out, "On branch %s\n", report.Branch)
			} else {
				fmt.Fprintln(out, "HEAD detached")
			}

			green := color.New(color.FgGreen).SprintfFunc()
			red := color.New(color.FgRed).SprintfFunc()

			if len(report.Staged) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Changes to be committed:")
				for _, e := range report.Staged {
					fmt.Fprintln(out, green("  %s: %s", e.Index, e.Path))
				}
			}
			if len(report.Unstaged) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Changes not staged for commit:")
				for _, e := range report.Unstaged {
					fmt.Fprintln(out, red("  %s: %s", e.Work, e.Path))
				}
			}
			if len(report.Untracked) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Untracked files:")
				for _, p := range report.Untracked {
					fmt.Fprintln(out, red("  %s", p))
				}
			}

			if len(report.Staged)+len(report.Unstaged)+len(report.Untracked) == 0 {
				fmt.Fprintln(out, "nothing to commit, working tree clean")
			}
			return nil
		},
	}
}
