package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/minisc-rt/minisc/internal/bytecode"
)

func newAsmCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "asm <file>",
		Short: "Assemble a textual bytecode listing into its flat byte form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			return doAsm(f, cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write the assembled bytes to this file instead of stdout")
	return cmd
}

func doAsm(src io.Reader, stdOut io.Writer, outPath string) error {
	code, err := bytecode.Assemble(src)
	if err != nil {
		return err
	}
	if outPath == "" {
		_, err := stdOut.Write(code)
		return err
	}
	return os.WriteFile(outPath, code, 0o644)
}
