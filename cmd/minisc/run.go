package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "Assemble and run a bytecode listing, printing the final top-of-stack value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			return doRun(cmd.Context(), f, cmd.OutOrStdout())
		},
	}
}

func doRun(ctx context.Context, src io.Reader, stdOut io.Writer) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	result, err := rt.Run(ctx, src)
	if err != nil {
		return fmt.Errorf("minisc run: %w", err)
	}
	return rt.Print(stdOut, result)
}
