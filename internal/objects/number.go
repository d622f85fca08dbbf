package objects

import "github.com/minisc-rt/minisc/internal/gc"

// MakeNumber tags an int64 as an inline-integer handle. Numbers never
// touch the heap: sc_make_number's gc_tag_number is just the handle's
// integer tag, so there is no allocation and no GC exposure here.
func MakeNumber(n int64) Handle {
	return gc.MakeInteger(n)
}

// Number unpacks a number handle.
func (s *Store) Number(n Handle) (int64, error) {
	if !IsNumber(n) {
		return 0, &TypeError{Op: "number", Want: "number"}
	}
	return n.IntegerValue(), nil
}

func (s *Store) Add(lhs, rhs Handle) (Handle, error) {
	a, b, err := s.numberPair("+", lhs, rhs)
	if err != nil {
		return NIL, err
	}
	return MakeNumber(a + b), nil
}

func (s *Store) Sub(lhs, rhs Handle) (Handle, error) {
	a, b, err := s.numberPair("-", lhs, rhs)
	if err != nil {
		return NIL, err
	}
	return MakeNumber(a - b), nil
}

func (s *Store) Mul(lhs, rhs Handle) (Handle, error) {
	a, b, err := s.numberPair("*", lhs, rhs)
	if err != nil {
		return NIL, err
	}
	return MakeNumber(a * b), nil
}

func (s *Store) Div(lhs, rhs Handle) (Handle, error) {
	a, b, err := s.numberPair("/", lhs, rhs)
	if err != nil {
		return NIL, err
	}
	if b == 0 {
		return NIL, &DivideByZeroError{}
	}
	return MakeNumber(a / b), nil
}

func (s *Store) numberPair(op string, lhs, rhs Handle) (int64, int64, error) {
	a, err := s.Number(lhs)
	if err != nil {
		return 0, 0, &TypeError{Op: op, Want: "number"}
	}
	b, err := s.Number(rhs)
	if err != nil {
		return 0, 0, &TypeError{Op: op, Want: "number"}
	}
	return a, b, nil
}
