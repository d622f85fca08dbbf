// Package bytecode defines the instruction set internal/vm executes and a
// textual assembler/disassembler for it. The opcode table here is the
// single source of truth a producer (the assembler, or any future
// compiler) and the interpreter must agree on, per the numbering note in
// vm_ops.h's enum vm_opcode -- reinterpreted for a stack machine rather
// than the original's fixed register file.
package bytecode

import "fmt"

// Op identifies an instruction. The numeric values are a wire format: once
// assigned they must never be renumbered, only appended to.
type Op byte

const (
	Nop Op = iota
	PushInt
	Pop
	Dup
	Swap
	Add
	Sub
	Mul
	Div
	Cons
	Car
	Cdr
	SetCar
	SetCdr
	MakeVector
	VectorRef
	VectorSet
	ExtendEnv
	EnvParent
	EnvRef
	EnvSet
	EnvLookup
	ConsP
	NumberP
	VectorP
	BooleanP
	NullP
	ProcedureP
	Branch
	Jt
	Jmp
	PushAddr
	MakeClosure
	InvokeProcedure
	Quit
)

// info describes one opcode's mnemonic and whether it carries a 4-byte
// little-endian immediate.
type info struct {
	mnemonic   string
	hasImm     bool
}

var table = map[Op]info{
	Nop:             {"NOP", false},
	PushInt:         {"PUSH_INT", true},
	Pop:             {"POP", false},
	Dup:             {"DUP", false},
	Swap:            {"SWAP", false},
	Add:             {"ADD", false},
	Sub:             {"SUB", false},
	Mul:             {"MUL", false},
	Div:             {"DIV", false},
	Cons:            {"CONS", false},
	Car:             {"CAR", false},
	Cdr:             {"CDR", false},
	SetCar:          {"SET_CAR", false},
	SetCdr:          {"SET_CDR", false},
	MakeVector:      {"MAKE_VECTOR", false},
	VectorRef:       {"VECTOR_REF", false},
	VectorSet:       {"VECTOR_SET", false},
	ExtendEnv:       {"EXTEND_ENV", true},
	EnvParent:       {"ENV_PARENT", false},
	EnvRef:          {"ENV_REF", false},
	EnvSet:          {"ENV_SET", false},
	EnvLookup:       {"ENV_LOOKUP", false},
	ConsP:           {"CONS_P", false},
	NumberP:         {"NUMBER_P", false},
	VectorP:         {"VECTOR_P", false},
	BooleanP:        {"BOOLEAN_P", false},
	NullP:           {"NULL_P", false},
	ProcedureP:      {"PROCEDURE_P", false},
	Branch:          {"BRANCH", true},
	Jt:              {"JT", true},
	Jmp:             {"JMP", false},
	PushAddr:        {"PUSH_ADDR", true},
	MakeClosure:     {"MAKE_CLOSURE", true},
	InvokeProcedure: {"INVOKE_PROCEDURE", false},
	Quit:            {"QUIT", false},
}

var byMnemonic = func() map[string]Op {
	m := make(map[string]Op, len(table))
	for op, i := range table {
		m[i.mnemonic] = op
	}
	return m
}()

// String returns the opcode's mnemonic, or a hex fallback for an unknown
// byte value (wire-compatible bytecode from a future version, say).
func (op Op) String() string {
	if i, ok := table[op]; ok {
		return i.mnemonic
	}
	return fmt.Sprintf("OP(0x%02x)", byte(op))
}

// HasImmediate reports whether op is followed by a 4-byte little-endian
// immediate in the instruction stream.
func (op Op) HasImmediate() bool {
	i, ok := table[op]
	return ok && i.hasImm
}

// Valid reports whether op is a recognized opcode.
func (op Op) Valid() bool {
	_, ok := table[op]
	return ok
}

// Lookup resolves a mnemonic (case-sensitive, as written by the
// assembler) to its Op.
func Lookup(mnemonic string) (Op, bool) {
	op, ok := byMnemonic[mnemonic]
	return op, ok
}

// InstrLen returns the total encoded length, in bytes, of an instruction
// with this opcode: 1, or 5 if it carries an immediate.
func (op Op) InstrLen() int {
	if op.HasImmediate() {
		return 5
	}
	return 1
}
