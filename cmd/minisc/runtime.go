package main

import (
	"os"

	"github.com/minisc-rt/minisc"
)

// newRuntime builds a Runtime from the process's global flags, logging to
// stderr at the level -v/--verbose selects.
func newRuntime() (*minisc.Runtime, error) {
	cfg := minisc.NewRuntimeConfig().
		WithArenaWords(globalFlags.arenaWords).
		WithStackSize(globalFlags.stackSize).
		WithStressGC(globalFlags.stressGC).
		WithMaxCallDepth(globalFlags.maxCallDepth).
		WithLogger(os.Stderr, logLevel())
	return minisc.NewRuntime(cfg)
}
