package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minisc-rt/minisc/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the minisc version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.GetMiniscVersion())
			return err
		},
	}
}
