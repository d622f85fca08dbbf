// Package printer writes Handles back out as s-expression text, the dual
// of package reader. There is no printer in the original C sources (it
// only ever round-tripped through assertions in its own test harness); this
// one is written in the teacher's idiom to let values created from
// bytecode or the reader be displayed and round-tripped through tests.
package printer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/minisc-rt/minisc/internal/objects"
)

// Print writes h to w in read-compatible syntax wherever reader accepts
// that syntax back (numbers, symbols, strings, proper and dotted lists).
// Vectors, booleans, environments, closures, and builtins use a readable
// #-prefixed notation the reader does not parse back, matching how most
// Lisp printers render opaque or non-literal objects.
func Print(w io.Writer, s *objects.Store, h objects.Handle) error {
	var b strings.Builder
	if err := print(&b, s, h); err != nil {
		return err
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// String is a convenience wrapper around Print for callers that just want
// text (diagnostics, test assertions).
func String(s *objects.Store, h objects.Handle) string {
	var b strings.Builder
	_ = print(&b, s, h)
	return b.String()
}

func print(b *strings.Builder, s *objects.Store, h objects.Handle) error {
	switch {
	case objects.IsNull(h):
		b.WriteString("()")
	case objects.IsNumber(h):
		n, _ := s.Number(h)
		b.WriteString(strconv.FormatInt(n, 10))
	case objects.IsSymbol(h):
		name, _ := s.SymbolName(h)
		b.WriteString(name)
	case objects.IsString(h):
		str, _ := s.StringValue(h)
		printString(b, str)
	case objects.IsBoolean(h):
		v, _ := s.BoolValue(h)
		if v {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case objects.IsPair(h):
		return printPair(b, s, h)
	case objects.IsVector(h):
		return printVector(b, s, h)
	case objects.IsEnvironment(h):
		b.WriteString("#<environment>")
	case objects.IsClosure(h):
		code, _ := s.ClosureCode(h)
		fmt.Fprintf(b, "#<closure %d>", code)
	case objects.IsBuiltin(h):
		b.WriteString("#<builtin>")
	case objects.IsExternalPointer(h):
		off, _ := s.ExternalPointerOffset(h)
		fmt.Fprintf(b, "#<external %d>", off)
	default:
		return fmt.Errorf("printer: handle of unrecognized kind")
	}
	return nil
}

func printString(b *strings.Builder, str string) {
	b.WriteByte('"')
	for _, r := range str {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\b':
			b.WriteString(`\b`)
		case '\t':
			b.WriteString(`\t`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}

func printPair(b *strings.Builder, s *objects.Store, h objects.Handle) error {
	b.WriteByte('(')
	first := true
	cur := h
	for {
		if !first {
			b.WriteByte(' ')
		}
		first = false
		car, err := s.Car(cur)
		if err != nil {
			return err
		}
		if err := print(b, s, car); err != nil {
			return err
		}
		cdr, err := s.Cdr(cur)
		if err != nil {
			return err
		}
		switch {
		case objects.IsNull(cdr):
			b.WriteByte(')')
			return nil
		case objects.IsPair(cdr):
			cur = cdr
		default:
			b.WriteString(" . ")
			if err := print(b, s, cdr); err != nil {
				return err
			}
			b.WriteByte(')')
			return nil
		}
	}
}

func printVector(b *strings.Builder, s *objects.Store, h objects.Handle) error {
	n, err := s.VectorLen(h)
	if err != nil {
		return err
	}
	b.WriteString("#(")
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		elem, err := s.VectorRef(h, i)
		if err != nil {
			return err
		}
		if err := print(b, s, elem); err != nil {
			return err
		}
	}
	b.WriteByte(')')
	return nil
}
