package bytecode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	enc := NewEncoder()
	enc.EmitImm(PushInt, 42)
	enc.EmitImm(PushInt, -7)
	enc.Emit(Add)
	enc.Emit(Quit)
	code := enc.Bytes()

	in, err := Decode(code, 0)
	require.NoError(t, err)
	require.Equal(t, PushInt, in.Op)
	require.Equal(t, int32(42), in.Imm)
	require.Equal(t, 5, in.Op.InstrLen())

	in, err = Decode(code, 5)
	require.NoError(t, err)
	require.Equal(t, int32(-7), in.Imm)

	in, err = Decode(code, 10)
	require.NoError(t, err)
	require.Equal(t, Add, in.Op)
	require.Equal(t, 1, in.Op.InstrLen())

	in, err = Decode(code, 11)
	require.NoError(t, err)
	require.Equal(t, Quit, in.Op)
}

func TestDecodeRejectsUnknownOpcode(t *testing.T) {
	_, err := Decode([]byte{0xff}, 0)
	require.Error(t, err)
}

func TestDecodeRejectsTruncatedImmediate(t *testing.T) {
	_, err := Decode([]byte{byte(PushInt), 1, 2}, 0)
	require.Error(t, err)
}

func TestAssembleSimpleProgram(t *testing.T) {
	src := `
		PUSH_INT 10
		PUSH_INT 32
		ADD
		QUIT
	`
	code, err := Assemble(strings.NewReader(src))
	require.NoError(t, err)

	in, err := Decode(code, 0)
	require.NoError(t, err)
	require.Equal(t, PushInt, in.Op)
	require.Equal(t, int32(10), in.Imm)

	in, err = Decode(code, 10)
	require.NoError(t, err)
	require.Equal(t, Add, in.Op)

	in, err = Decode(code, 11)
	require.NoError(t, err)
	require.Equal(t, Quit, in.Op)
}

func TestAssembleResolvesLabels(t *testing.T) {
	src := `
	start:
		PUSH_INT 1
		JT done
		PUSH_INT 0
	done:
		QUIT
	`
	code, err := Assemble(strings.NewReader(src))
	require.NoError(t, err)

	jt, err := Decode(code, 5)
	require.NoError(t, err)
	require.Equal(t, Jt, jt.Op)
	// done: is at offset 15 (5 + 5 [JT instr] + 5 [PUSH_INT 0]); JT's
	// immediate is relative to the offset right after JT itself (10).
	require.Equal(t, int32(5), jt.Imm)
}

func TestAssembleRejectsUnknownMnemonic(t *testing.T) {
	_, err := Assemble(strings.NewReader("FROB"))
	require.Error(t, err)
}

func TestAssembleRejectsMissingOperand(t *testing.T) {
	_, err := Assemble(strings.NewReader("PUSH_INT"))
	require.Error(t, err)
}

func TestAssembleRejectsDuplicateLabel(t *testing.T) {
	src := "a:\nQUIT\na:\nQUIT\n"
	_, err := Assemble(strings.NewReader(src))
	require.Error(t, err)
}

func TestDisassembleRoundTrips(t *testing.T) {
	src := `
	loop:
		PUSH_INT 1
		JT loop
		QUIT
	`
	code, err := Assemble(strings.NewReader(src))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Disassemble(&buf, code))

	reassembled, err := Assemble(&buf)
	require.NoError(t, err)
	require.Equal(t, code, reassembled)
}

func TestOpcodeStringAndLookupAgree(t *testing.T) {
	for op := Nop; op <= Quit; op++ {
		if !op.Valid() {
			continue
		}
		name := op.String()
		got, ok := Lookup(name)
		require.True(t, ok, "mnemonic %q should resolve back", name)
		require.Equal(t, op, got)
	}
}
