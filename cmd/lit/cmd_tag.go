package main

import (
	"fmt"

	"github.com/odvcencio/lit/pkg/repo"
	"github.com/spf13/cobra"
)

func newTagCmd() *cobra.Command {
	var (
		annotate bool
		message  string
		del      bool
	)

	cmd := &cobra.Command{
		Use:   "tag [name [revision]]",
		Short: "List, create, or delete tags",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				if del {
					return fmt.Errorf("tag -d requires a tag name")
				}
				names, err := r.ListTags()
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			name := args[0]
			if del {
				return r.DeleteTag(name)
			}

			rev := "HEAD"
			if len(args) == 2 {
				rev = args[1]
			}
			target, err := r.ResolveRevision(rev, "")
			if err != nil {
				return err
			}

			if annotate || message != "" {
				if message == "" {
					return fmt.Errorf("annotated tag requires a message (-m)")
				}
				_, err := r.CreateAnnotatedTag(name, target, message)
				return err
			}
			return r.CreateTag(name, target)
		},
	}
	cmd.Flags().BoolVarP(&annotate, "annotate", "a", false, "create an annotated tag object")
	cmd.Flags().StringVarP(&message, "message", "m", "", "tag message (implies -a)")
	cmd.Flags().BoolVarP(&del, "delete", "d", false, "delete a tag")
	return cmd
}
