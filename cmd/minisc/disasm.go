package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/minisc-rt/minisc/internal/bytecode"
)

func newDisasmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disasm <file>",
		Short: "Disassemble a flat bytecode file back into a textual listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return doDisasm(code, cmd.OutOrStdout())
		},
	}
}

func doDisasm(code []byte, stdOut io.Writer) error {
	return bytecode.Disassemble(stdOut, code)
}
