package bytecode

import (
	"encoding/binary"
	"fmt"
)

// Encoder appends instructions to a flat byte buffer -- the format
// internal/vm executes and the format internal/bytecode's assembler
// produces.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder { return &Encoder{} }

// Emit appends op with no immediate. It panics if op requires one; that is
// a bug in the caller, not a condition a producer should recover from.
func (e *Encoder) Emit(op Op) {
	if op.HasImmediate() {
		panic(fmt.Sprintf("bytecode: %s requires an immediate", op))
	}
	e.buf = append(e.buf, byte(op))
}

// EmitImm appends op followed by imm encoded as a 4-byte little-endian
// signed immediate.
func (e *Encoder) EmitImm(op Op, imm int32) {
	if !op.HasImmediate() {
		panic(fmt.Sprintf("bytecode: %s does not take an immediate", op))
	}
	e.buf = append(e.buf, byte(op))
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(imm))
	e.buf = append(e.buf, b[:]...)
}

// Len reports the number of bytes emitted so far -- the byte offset the
// next Emit/EmitImm call will be written at, used by the assembler to
// resolve label references.
func (e *Encoder) Len() int { return len(e.buf) }

// Bytes returns the assembled code.
func (e *Encoder) Bytes() []byte { return e.buf }

// Instr is one decoded instruction: its opcode, immediate (zero if none),
// and the byte offset it starts at.
type Instr struct {
	Op     Op
	Imm    int32
	Offset int
}

// Decode reads one instruction from code at offset.
func Decode(code []byte, offset int) (Instr, error) {
	if offset < 0 || offset >= len(code) {
		return Instr{}, fmt.Errorf("bytecode: offset %d out of range (len %d)", offset, len(code))
	}
	op := Op(code[offset])
	if !op.Valid() {
		return Instr{}, fmt.Errorf("bytecode: unrecognized opcode 0x%02x at offset %d", code[offset], offset)
	}
	instr := Instr{Op: op, Offset: offset}
	if op.HasImmediate() {
		if offset+5 > len(code) {
			return Instr{}, fmt.Errorf("bytecode: truncated immediate for %s at offset %d", op, offset)
		}
		instr.Imm = int32(binary.LittleEndian.Uint32(code[offset+1 : offset+5]))
	}
	return instr, nil
}
