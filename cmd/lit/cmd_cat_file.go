package main

import (
	"fmt"

	"github.com/odvcencio/lit/pkg/object"
	"github.com/odvcencio/lit/pkg/repo"
	"github.com/spf13/cobra"
)

func newCatFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat-file <type> <revision>",
		Short: "Print the raw content of a stored object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			want := object.Type(args[0])
			switch want {
			case object.TypeBlob, object.TypeTree, object.TypeCommit, object.TypeTag:
			default:
				return fmt.Errorf("unknown object type %q", args[0])
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			h, err := r.ResolveRevision(args[1], want)
			if err != nil {
				return err
			}
			_, data, err := r.Store.Read(h)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
