// Package reader implements a recursive-descent parser for the s-expression
// surface syntax: numbers, symbols, strings, dotted and proper lists, and
// #-prefixed line comments. Grounded on read.c's sc_read_internal and its
// helpers; expressed here with bufio.Reader's native rune unreading instead
// of read.c's hand-rolled in_stream vtable.
package reader

import (
	"bufio"
	"io"
	"strings"

	"github.com/minisc-rt/minisc/internal/obarray"
	"github.com/minisc-rt/minisc/internal/objects"
)

// Reader parses a stream of top-level forms from src.
type Reader struct {
	store *objects.Store
	ob    *obarray.Obarray
	src   *bufio.Reader
}

// New wraps r as a Reader that interns symbols through ob and allocates
// objects through store.
func New(store *objects.Store, ob *obarray.Obarray, r io.Reader) *Reader {
	return &Reader{store: store, ob: ob, src: bufio.NewReader(r)}
}

// Read parses and returns the next top-level form, or (NIL, io.EOF) once
// the input is exhausted.
func (rd *Reader) Read() (objects.Handle, error) {
	if err := rd.skipWhitespaceAndComments(); err != nil {
		return objects.NIL, err
	}
	return rd.readForm()
}

// skipWhitespaceAndComments consumes runs of whitespace and #-prefixed
// line comments (read_getc's comment handling), leaving the stream
// positioned at the next significant character.
func (rd *Reader) skipWhitespaceAndComments() error {
	for {
		r, _, err := rd.src.ReadRune()
		if err == io.EOF {
			return io.EOF
		}
		if err != nil {
			return err
		}
		if r == '#' {
			if err := rd.skipLine(); err != nil {
				return err
			}
			continue
		}
		if isWhitespace(r) {
			continue
		}
		return rd.src.UnreadRune()
	}
}

func (rd *Reader) skipLine() error {
	for {
		r, _, err := rd.src.ReadRune()
		if err == io.EOF {
			return io.EOF
		}
		if err != nil {
			return err
		}
		if r == '\n' {
			return nil
		}
	}
}

// readForm dispatches on the next significant character. The caller must
// already have skipped leading whitespace/comments.
func (rd *Reader) readForm() (objects.Handle, error) {
	r, _, err := rd.src.ReadRune()
	if err == io.EOF {
		return objects.NIL, io.EOF
	}
	if err != nil {
		return objects.NIL, err
	}

	switch {
	case isDigit(r):
		_ = rd.src.UnreadRune()
		return rd.readNumber()
	case isSymbolStart(r):
		_ = rd.src.UnreadRune()
		return rd.readSymbol()
	case r == '"':
		return rd.readString()
	case r == '(':
		return rd.readList()
	default:
		return objects.NIL, &SyntaxError{Msg: "unexpected character " + string(r)}
	}
}

// readNumber consumes an unsigned digit run. Numbers read only from a
// leading digit -- a leading '-' is symbol_special, so "-5" reads as the
// symbol "-5", exactly as in the original implementation.
func (rd *Reader) readNumber() (objects.Handle, error) {
	var n int64
	for {
		r, _, err := rd.src.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return objects.NIL, err
		}
		if !isDigit(r) {
			_ = rd.src.UnreadRune()
			break
		}
		n = n*10 + int64(r-'0')
	}
	return objects.MakeNumber(n), nil
}

// readSymbol consumes a run of symbol characters and interns it.
func (rd *Reader) readSymbol() (objects.Handle, error) {
	var b strings.Builder
	for {
		r, _, err := rd.src.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return objects.NIL, err
		}
		if !isSymbolChar(r) {
			_ = rd.src.UnreadRune()
			break
		}
		b.WriteRune(r)
	}
	return rd.ob.Intern(b.String()), nil
}

// readString consumes a double-quoted string with backslash escapes,
// mirroring sc_read_string's switch: \n \r \b \t \\ \" translate, anything
// else passes through unchanged.
func (rd *Reader) readString() (objects.Handle, error) {
	var b strings.Builder
	for {
		r, _, err := rd.src.ReadRune()
		if err == io.EOF {
			return objects.NIL, &SyntaxError{Msg: "unterminated string"}
		}
		if err != nil {
			return objects.NIL, err
		}
		if r == '"' {
			break
		}
		if r == '\\' {
			esc, _, err := rd.src.ReadRune()
			if err == io.EOF {
				return objects.NIL, &SyntaxError{Msg: "unterminated escape in string"}
			}
			if err != nil {
				return objects.NIL, err
			}
			switch esc {
			case 'n':
				r = '\n'
			case 'r':
				r = '\r'
			case 'b':
				r = '\b'
			case 't':
				r = '\t'
			case '\\':
				r = '\\'
			case '"':
				r = '"'
			default:
				r = esc
			}
		}
		b.WriteRune(r)
	}
	return rd.store.MakeString(b.String()), nil
}

// readList parses the contents of a list after the opening '(' has already
// been consumed, handling both proper and dotted tails.
func (rd *Reader) readList() (objects.Handle, error) {
	h := rd.store.Heap

	if err := rd.skipWhitespaceAndComments(); err != nil {
		return objects.NIL, &SyntaxError{Msg: "unterminated list"}
	}
	r, _, err := rd.src.ReadRune()
	if err != nil {
		return objects.NIL, &SyntaxError{Msg: "unterminated list"}
	}
	if r == ')' {
		return objects.NIL, nil
	}
	_ = rd.src.UnreadRune()

	car, cdr := objects.NIL, objects.NIL
	pop, err := h.RegisterRoots(&car, &cdr)
	if err != nil {
		return objects.NIL, err
	}
	defer pop()

	car, err = rd.readForm()
	if err != nil {
		return objects.NIL, err
	}

	if err := rd.skipWhitespaceAndComments(); err != nil {
		return objects.NIL, &SyntaxError{Msg: "unterminated list"}
	}
	sep, _, err := rd.src.ReadRune()
	if err != nil {
		return objects.NIL, &SyntaxError{Msg: "unterminated list"}
	}

	switch {
	case sep == '.':
		if err := rd.skipWhitespaceAndComments(); err != nil {
			return objects.NIL, &SyntaxError{Msg: "missing dotted tail"}
		}
		cdr, err = rd.readForm()
		if err != nil {
			return objects.NIL, err
		}
		if err := rd.skipWhitespaceAndComments(); err != nil {
			return objects.NIL, &SyntaxError{Msg: "missing ) after dotted tail"}
		}
		closeParen, _, err := rd.src.ReadRune()
		if err != nil || closeParen != ')' {
			return objects.NIL, &SyntaxError{Msg: "missing ) after dotted tail"}
		}
	case sep == ')':
		cdr = objects.NIL
	default:
		_ = rd.src.UnreadRune()
		cdr, err = rd.readList()
		if err != nil {
			return objects.NIL, err
		}
	}

	pair := rd.store.Cons()
	_ = rd.store.SetCar(pair, car)
	_ = rd.store.SetCdr(pair, cdr)
	return pair, nil
}
