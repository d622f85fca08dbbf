package reader

import (
	"io"
	"strings"
	"testing"

	"github.com/minisc-rt/minisc/internal/gc"
	"github.com/minisc-rt/minisc/internal/obarray"
	"github.com/minisc-rt/minisc/internal/objects"
	"github.com/stretchr/testify/require"
)

func newFixture(t *testing.T) (*objects.Store, *obarray.Obarray) {
	t.Helper()
	h := gc.NewHeap(4096)
	s := objects.NewStore(h)
	return s, obarray.New(s)
}

func readOne(t *testing.T, s *objects.Store, ob *obarray.Obarray, src string) objects.Handle {
	t.Helper()
	rd := New(s, ob, strings.NewReader(src))
	v, err := rd.Read()
	require.NoError(t, err)
	return v
}

func TestReadNumber(t *testing.T) {
	s, ob := newFixture(t)
	v := readOne(t, s, ob, "1234")
	require.True(t, objects.IsNumber(v))
	n, err := s.Number(v)
	require.NoError(t, err)
	require.Equal(t, int64(1234), n)
}

func TestReadSymbol(t *testing.T) {
	s, ob := newFixture(t)
	v := readOne(t, s, ob, "hello")
	require.True(t, objects.IsSymbol(v))
	name, _ := s.SymbolName(v)
	require.Equal(t, "hello", name)
}

func TestReadLongSymbolWithSpecialChars(t *testing.T) {
	s, ob := newFixture(t)
	v := readOne(t, s, ob, "a-painfully-long-symbol:foo*bar*baz")
	require.True(t, objects.IsSymbol(v))
	name, _ := s.SymbolName(v)
	require.Equal(t, "a-painfully-long-symbol:foo*bar*baz", name)
}

func TestReadSlashSymbol(t *testing.T) {
	s, ob := newFixture(t)
	v := readOne(t, s, ob, "/")
	require.True(t, objects.IsSymbol(v))
	name, _ := s.SymbolName(v)
	require.Equal(t, "/", name)
}

func TestReadStringLiteral(t *testing.T) {
	s, ob := newFixture(t)
	v := readOne(t, s, ob, `"Hello, World"`)
	require.True(t, objects.IsString(v))
	got, _ := s.StringValue(v)
	require.Equal(t, "Hello, World", got)
}

func TestReadSkipsHashComments(t *testing.T) {
	s, ob := newFixture(t)
	v := readOne(t, s, ob, "# This is a comment \n foo # More comments")
	require.True(t, objects.IsSymbol(v))
	name, _ := s.SymbolName(v)
	require.Equal(t, "foo", name)
}

func TestReadStringEscapes(t *testing.T) {
	s, ob := newFixture(t)
	v := readOne(t, s, ob, `"\n\r\t\\\"'"`)
	require.True(t, objects.IsString(v))
	got, _ := s.StringValue(v)
	require.Equal(t, "\n\r\t\\\"'", got)
}

func TestReadDottedPair(t *testing.T) {
	s, ob := newFixture(t)
	v := readOne(t, s, ob, "(a . b)")
	require.True(t, objects.IsPair(v))

	car, _ := s.Car(v)
	require.True(t, objects.IsSymbol(car))
	name, _ := s.SymbolName(car)
	require.Equal(t, "a", name)

	cdr, _ := s.Cdr(v)
	require.True(t, objects.IsSymbol(cdr))
	name, _ = s.SymbolName(cdr)
	require.Equal(t, "b", name)
}

func TestReadProperList(t *testing.T) {
	s, ob := newFixture(t)
	v := readOne(t, s, ob, "(a b c)")
	require.True(t, objects.IsPair(v))

	car, _ := s.Car(v)
	name, _ := s.SymbolName(car)
	require.Equal(t, "a", name)

	rest, _ := s.Cdr(v)
	require.True(t, objects.IsPair(rest))
	second, _ := s.Car(rest)
	name, _ = s.SymbolName(second)
	require.Equal(t, "b", name)

	rest2, _ := s.Cdr(rest)
	require.True(t, objects.IsPair(rest2))
	third, _ := s.Car(rest2)
	name, _ = s.SymbolName(third)
	require.Equal(t, "c", name)

	tail, _ := s.Cdr(rest2)
	require.True(t, objects.IsNull(tail))
}

func TestReadNestedList(t *testing.T) {
	s, ob := newFixture(t)
	v := readOne(t, s, ob, "((a b) c)")
	require.True(t, objects.IsPair(v))

	inner, _ := s.Car(v)
	require.True(t, objects.IsPair(inner))

	outer, _ := s.Cdr(v)
	require.True(t, objects.IsPair(outer))

	innerFirst, _ := s.Car(inner)
	require.True(t, objects.IsSymbol(innerFirst))
	name, _ := s.SymbolName(innerFirst)
	require.Equal(t, "a", name)
}

func TestReadReturnsEOFAtEndOfInput(t *testing.T) {
	s, ob := newFixture(t)
	rd := New(s, ob, strings.NewReader("  "))
	_, err := rd.Read()
	require.ErrorIs(t, err, io.EOF)
}
