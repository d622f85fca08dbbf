package minisc

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRuntimeArithmeticProgram(t *testing.T) {
	rt, err := NewRuntime(NewRuntimeConfig().WithArenaWords(2048).WithStackSize(32))
	require.NoError(t, err)

	result, err := rt.Run(context.Background(), strings.NewReader(`
		PUSH_INT 10
		PUSH_INT 32
		ADD
		QUIT
	`))
	require.NoError(t, err)

	n, err := rt.Store.Number(result)
	require.NoError(t, err)
	require.Equal(t, int64(42), n)
}

func TestRuntimeReadPrintRoundTrip(t *testing.T) {
	rt, err := NewRuntime(nil)
	require.NoError(t, err)

	r := rt.NewReader(strings.NewReader(`(hello "world" . 42)`))
	h, err := r.Read()
	require.NoError(t, err)

	require.Equal(t, `(hello "world" . 42)`, rt.String(h))
}

func TestRuntimeInternSharesHandlesAcrossReads(t *testing.T) {
	rt, err := NewRuntime(nil)
	require.NoError(t, err)

	r1 := rt.NewReader(strings.NewReader("foo"))
	a, err := r1.Read()
	require.NoError(t, err)

	r2 := rt.NewReader(strings.NewReader("foo"))
	b, err := r2.Read()
	require.NoError(t, err)

	require.Equal(t, a, b)
}

func TestNewRuntimeRejectsInvalidConfig(t *testing.T) {
	_, err := NewRuntime(NewRuntimeConfig().WithArenaWords(0))
	require.Error(t, err)

	_, err = NewRuntime(NewRuntimeConfig().WithStackSize(-1))
	require.Error(t, err)
}

func TestRuntimeStressGCSurvivesArithmetic(t *testing.T) {
	rt, err := NewRuntime(NewRuntimeConfig().WithArenaWords(256).WithStressGC(true))
	require.NoError(t, err)

	result, err := rt.Run(context.Background(), strings.NewReader(`
		PUSH_INT 7
		PUSH_INT 6
		MUL
		PUSH_INT 2
		DIV
		QUIT
	`))
	require.NoError(t, err)

	n, err := rt.Store.Number(result)
	require.NoError(t, err)
	require.Equal(t, int64(21), n)
}
