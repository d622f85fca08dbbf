package bytecode

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Assemble reads a small textual listing -- one instruction per line,
// `label:` lines defining a jump target, `;` starting a line comment --
// and produces the flat byte format internal/vm executes.
//
// Instructions taking an immediate accept either a decimal integer literal
// or a label name. A label operand resolves to the signed byte distance
// from the first byte after the instruction (the value IP holds once the
// VM has fetched this instruction) to the label's offset, matching how
// Branch/Jt/PushAddr/MakeClosure apply their immediate to IP.
func Assemble(r io.Reader) ([]byte, error) {
	lines, err := splitLines(r)
	if err != nil {
		return nil, err
	}

	labels, instrs, err := firstPass(lines)
	if err != nil {
		return nil, err
	}

	enc := NewEncoder()
	for _, in := range instrs {
		if !in.op.HasImmediate() {
			enc.Emit(in.op)
			continue
		}
		imm, err := resolveOperand(in.operand, labels, enc.Len()+5)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", in.line, err)
		}
		enc.EmitImm(in.op, imm)
	}
	return enc.Bytes(), nil
}

type sourceLine struct {
	lineNo int
	text   string
}

func splitLines(r io.Reader) ([]sourceLine, error) {
	var out []sourceLine
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		text := sc.Text()
		if i := strings.IndexByte(text, ';'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		out = append(out, sourceLine{lineNo: n, text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type pendingInstr struct {
	op      Op
	operand string
	line    int
}

// firstPass walks the listing computing each label's byte offset and
// collecting the instruction list, without yet resolving label operands
// (which may refer forward).
func firstPass(lines []sourceLine) (map[string]int, []pendingInstr, error) {
	labels := make(map[string]int)
	var instrs []pendingInstr
	offset := 0

	for _, ln := range lines {
		if strings.HasSuffix(ln.text, ":") {
			name := strings.TrimSuffix(ln.text, ":")
			if name == "" {
				return nil, nil, fmt.Errorf("line %d: empty label", ln.lineNo)
			}
			if _, dup := labels[name]; dup {
				return nil, nil, fmt.Errorf("line %d: duplicate label %q", ln.lineNo, name)
			}
			labels[name] = offset
			continue
		}

		fields := strings.Fields(ln.text)
		mnemonic := fields[0]
		op, ok := Lookup(mnemonic)
		if !ok {
			return nil, nil, fmt.Errorf("line %d: unknown mnemonic %q", ln.lineNo, mnemonic)
		}
		operand := ""
		if len(fields) > 1 {
			operand = fields[1]
		}
		if op.HasImmediate() && operand == "" {
			return nil, nil, fmt.Errorf("line %d: %s requires an operand", ln.lineNo, mnemonic)
		}
		if !op.HasImmediate() && operand != "" {
			return nil, nil, fmt.Errorf("line %d: %s takes no operand", ln.lineNo, mnemonic)
		}
		instrs = append(instrs, pendingInstr{op: op, operand: operand, line: ln.lineNo})
		offset += op.InstrLen()
	}
	return labels, instrs, nil
}

// resolveOperand turns an operand token into a concrete immediate.
// nextOffset is the byte offset of the instruction following this one
// (what IP will hold once the VM has fetched this instruction).
func resolveOperand(operand string, labels map[string]int, nextOffset int) (int32, error) {
	if target, ok := labels[operand]; ok {
		return int32(target - nextOffset), nil
	}
	n, err := strconv.ParseInt(operand, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("operand %q is neither a known label nor an integer", operand)
	}
	return int32(n), nil
}

// Disassemble renders code back into the textual listing format Assemble
// accepts, with a synthetic label at every offset some instruction's
// resolved immediate targets (so the output can be reassembled and
// round-trip to the same bytes).
func Disassemble(w io.Writer, code []byte) error {
	targets := map[int]bool{}
	var instrs []Instr
	for offset := 0; offset < len(code); {
		in, err := Decode(code, offset)
		if err != nil {
			return err
		}
		instrs = append(instrs, in)
		if in.Op.HasImmediate() {
			switch in.Op {
			case Branch, Jt, PushAddr, MakeClosure:
				targets[offset+5+int(in.Imm)] = true
			}
		}
		offset += in.Op.InstrLen()
	}

	labelNames := map[int]string{}
	i := 0
	for _, in := range instrs {
		if targets[in.Offset] {
			if _, named := labelNames[in.Offset]; !named {
				labelNames[in.Offset] = fmt.Sprintf("L%d", i)
				i++
			}
		}
	}

	bw := bufio.NewWriter(w)
	for _, in := range instrs {
		if name, ok := labelNames[in.Offset]; ok {
			fmt.Fprintf(bw, "%s:\n", name)
		}
		if !in.Op.HasImmediate() {
			fmt.Fprintf(bw, "\t%s\n", in.Op)
			continue
		}
		target := in.Offset + 5 + int(in.Imm)
		if name, ok := labelNames[target]; ok {
			fmt.Fprintf(bw, "\t%s %s\n", in.Op, name)
		} else {
			fmt.Fprintf(bw, "\t%s %d\n", in.Op, in.Imm)
		}
	}
	return bw.Flush()
}
