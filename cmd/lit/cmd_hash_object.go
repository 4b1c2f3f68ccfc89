package main

import (
	"fmt"
	"os"

	"github.com/odvcencio/lit/pkg/object"
	"github.com/odvcencio/lit/pkg/repo"
	"github.com/spf13/cobra"
)

func newHashObjectCmd() *cobra.Command {
	var (
		write   bool
		objType string
	)

	cmd := &cobra.Command{
		Use:   "hash-object <file>",
		Short: "Compute an object hash, optionally storing the object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			t := object.Type(objType)
			switch t {
			case object.TypeBlob, object.TypeTree, object.TypeCommit, object.TypeTag:
			default:
				return fmt.Errorf("unknown object type %q", objType)
			}

			var h object.Hash
			if write {
				r, err := repo.Open(".")
				if err != nil {
					return err
				}
				h, err = r.Store.Write(t, data)
				if err != nil {
					return err
				}
			} else {
				h = object.HashObject(t, data)
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the object into the store")
	cmd.Flags().StringVarP(&objType, "type", "t", "blob", "object type")
	return cmd
}
