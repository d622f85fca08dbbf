// Command minisc is a small CLI host over the minisc runtime: assemble,
// disassemble, read, and run bytecode programs from the shell. Subcommand
// dispatch and the global flag set follow the shape of wazero's own
// cmd/wazero, adapted from stdlib flag onto cobra/pflag.
package main

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/minisc-rt/minisc/internal/version"
)

var globalFlags struct {
	arenaWords   int
	stackSize    int
	stressGC     bool
	maxCallDepth int
	verbose      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "minisc",
		Short:         "minisc is a small dynamically-typed language runtime",
		Version:       version.GetMiniscVersion(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := root.PersistentFlags()
	// Accept underscores as word separators ("arena_words") in addition
	// to dashes, a common convenience for flags mirrored from env vars.
	flags.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	flags.IntVar(&globalFlags.arenaWords, "arena-words", 1<<16,
		"word capacity of each of the collector's two semispaces")
	flags.IntVar(&globalFlags.stackSize, "stack-size", 1024,
		"operand stack capacity, in handle-sized slots")
	flags.BoolVar(&globalFlags.stressGC, "stress-gc", false,
		"collect before every allocation (slow; for exercising relocation bugs)")
	flags.IntVar(&globalFlags.maxCallDepth, "max-call-depth", 0,
		"maximum INVOKE_PROCEDURE nesting depth (0 means unlimited)")
	flags.BoolVarP(&globalFlags.verbose, "verbose", "v", false,
		"log collector diagnostics at debug level")

	root.AddCommand(newRunCmd())
	root.AddCommand(newAsmCmd())
	root.AddCommand(newDisasmCmd())
	root.AddCommand(newReadCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func logLevel() logrus.Level {
	if globalFlags.verbose {
		return logrus.DebugLevel
	}
	return logrus.InfoLevel
}
