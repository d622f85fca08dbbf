package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDoRunPrintsTopOfStack(t *testing.T) {
	src := strings.NewReader(`
		PUSH_INT 10
		PUSH_INT 32
		ADD
		QUIT
	`)
	var out bytes.Buffer
	require.NoError(t, doRun(context.Background(), src, &out))
	require.Equal(t, "42", out.String())
}

func TestDoAsmWritesFlatBytecode(t *testing.T) {
	src := strings.NewReader(`
		PUSH_INT 1
		QUIT
	`)
	var out bytes.Buffer
	require.NoError(t, doAsm(src, &out, ""))
	require.Equal(t, 6, out.Len())
}

func TestDoDisasmRoundTripsThroughAsm(t *testing.T) {
	src := `
	loop:
		PUSH_INT 1
		JT loop
		QUIT
	`
	var code bytes.Buffer
	require.NoError(t, doAsm(strings.NewReader(src), &code, ""))

	var listing bytes.Buffer
	require.NoError(t, doDisasm(code.Bytes(), &listing))

	var reassembled bytes.Buffer
	require.NoError(t, doAsm(&listing, &reassembled, ""))
	require.Equal(t, code.Bytes(), reassembled.Bytes())
}

func TestDoReadPrintsEachForm(t *testing.T) {
	src := strings.NewReader("foo (1 2 3)\n")
	var out bytes.Buffer
	require.NoError(t, doRead(src, &out))
	require.Equal(t, "foo\n(1 2 3)\n", out.String())
}

func TestNewRootCmdExposesAllSubcommands(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "asm", "disasm", "read", "version"} {
		require.True(t, names[want], "missing subcommand %q", want)
	}
}
