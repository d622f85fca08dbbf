package printer

import (
	"strings"
	"testing"

	"github.com/minisc-rt/minisc/internal/gc"
	"github.com/minisc-rt/minisc/internal/obarray"
	"github.com/minisc-rt/minisc/internal/objects"
	"github.com/minisc-rt/minisc/internal/reader"
	"github.com/stretchr/testify/require"
)

func newFixture(t *testing.T) (*objects.Store, *obarray.Obarray) {
	t.Helper()
	h := gc.NewHeap(4096)
	s := objects.NewStore(h)
	return s, obarray.New(s)
}

func roundTrip(t *testing.T, src string) string {
	t.Helper()
	s, ob := newFixture(t)
	rd := reader.New(s, ob, strings.NewReader(src))
	v, err := rd.Read()
	require.NoError(t, err)
	return String(s, v)
}

func TestPrintNumber(t *testing.T) {
	require.Equal(t, "1234", roundTrip(t, "1234"))
}

func TestPrintSymbol(t *testing.T) {
	require.Equal(t, "hello", roundTrip(t, "hello"))
}

func TestPrintString(t *testing.T) {
	require.Equal(t, `"Hello, World"`, roundTrip(t, `"Hello, World"`))
}

func TestPrintStringEscapes(t *testing.T) {
	require.Equal(t, `"a\nb\tc"`, roundTrip(t, `"a\nb\tc"`))
}

func TestPrintProperList(t *testing.T) {
	require.Equal(t, "(a b c)", roundTrip(t, "(a b c)"))
}

func TestPrintDottedPair(t *testing.T) {
	require.Equal(t, "(a . b)", roundTrip(t, "(a . b)"))
}

func TestPrintNestedList(t *testing.T) {
	require.Equal(t, "((a b) c)", roundTrip(t, "((a b) c)"))
}

func TestPrintEmptyList(t *testing.T) {
	require.Equal(t, "()", roundTrip(t, "()"))
}

func TestPrintBooleans(t *testing.T) {
	s, _ := newFixture(t)
	require.Equal(t, "#t", String(s, s.True))
	require.Equal(t, "#f", String(s, s.False))
}

func TestPrintVector(t *testing.T) {
	s, _ := newFixture(t)
	v := s.MakeVector(3)
	require.NoError(t, s.VectorSet(v, 0, objects.MakeNumber(1)))
	require.NoError(t, s.VectorSet(v, 1, objects.MakeNumber(2)))
	require.NoError(t, s.VectorSet(v, 2, objects.MakeNumber(3)))
	require.Equal(t, "#(1 2 3)", String(s, v))
}
