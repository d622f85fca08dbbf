package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <file>",
		Short: "Read every form in a source file and print each one back out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			return doRead(f, cmd.OutOrStdout())
		},
	}
}

func doRead(src io.Reader, stdOut io.Writer) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	r := rt.NewReader(src)
	for {
		h, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("minisc read: %w", err)
		}
		if err := rt.Print(stdOut, h); err != nil {
			return err
		}
		if _, err := io.WriteString(stdOut, "\n"); err != nil {
			return err
		}
	}
}
