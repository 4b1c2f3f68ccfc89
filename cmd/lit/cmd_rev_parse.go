package main

import (
	"fmt"

	"github.com/odvcencio/lit/pkg/object"
	"github.com/odvcencio/lit/pkg/repo"
	"github.com/spf13/cobra"
)

func newRevParseCmd() *cobra.Command {
	var objType string

	cmd := &cobra.Command{
		Use:   "rev-parse <revision>",
		Short: "Resolve a revision expression to an object hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			want := object.Type(objType)
			if objType != "" {
				switch want {
				case object.TypeBlob, object.TypeTree, object.TypeCommit, object.TypeTag:
				default:
					return fmt.Errorf("unknown object type %q", objType)
				}
			}

			h, err := r.ResolveRevision(args[0], want)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
	cmd.Flags().StringVarP(&objType, "type", "t", "", "peel the result to this object type")
	return cmd
}
