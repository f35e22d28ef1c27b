// Package asmtext is a small line-oriented RV64I assembler: one
// mnemonic plus operands per line, optional "label:" lines, and a
// ".fill <value>" directive for raw words. It is the RV64I replacement
// for the teacher's RiSC-32 assembler (pkg/asm), rebuilt from scratch
// because the teacher's own StartLexing/StartParsing pipeline isn't
// reusable for a different instruction set; it keeps the teacher's
// two-pass label resolution idea (collect label addresses first, then
// encode) while delegating bit-packing to pkg/encode.
package asmtext

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"rv64iemu/pkg/encode"
)

// ErrSyntax reports a malformed source line.
type ErrSyntax struct {
	Line int
	Text string
}

func (e *ErrSyntax) Error() string {
	return fmt.Sprintf("asmtext: line %d: %s", e.Line, e.Text)
}

type rawLine struct {
	lineNo int
	label  string
	mnem   string
	ops    []string
}

// Assemble reads a program from r and returns its flat little-endian
// binary image, the format pkg/memory expects.
func Assemble(r io.Reader) ([]byte, error) {
	lines, err := parseLines(r)
	if err != nil {
		return nil, err
	}
	labels := map[string]int64{}
	addr := int64(0)
	for _, ln := range lines {
		if ln.label != "" {
			labels[ln.label] = addr
		}
		if ln.mnem != "" {
			addr += 4
		}
	}
	var words []uint32
	pc := int64(0)
	for _, ln := range lines {
		if ln.mnem == "" {
			continue
		}
		w, err := encodeLine(ln, pc, labels)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
		pc += 4
	}
	return encode.Image(words...), nil
}

func parseLines(r io.Reader) ([]rawLine, error) {
	var out []rawLine
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		text := sc.Text()
		if idx := strings.IndexByte(text, '#'); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		var label string
		if idx := strings.IndexByte(text, ':'); idx >= 0 {
			label = strings.TrimSpace(text[:idx])
			text = strings.TrimSpace(text[idx+1:])
			if label == "" {
				return nil, &ErrSyntax{lineNo, "empty label"}
			}
			if text == "" {
				out = append(out, rawLine{lineNo: lineNo, label: label})
				continue
			}
		}
		fields := strings.Fields(text)
		mnem := strings.ToLower(fields[0])
		var ops []string
		if rest := strings.TrimSpace(strings.TrimPrefix(text, fields[0])); rest != "" {
			for _, op := range strings.Split(rest, ",") {
				ops = append(ops, strings.TrimSpace(op))
			}
		}
		out = append(out, rawLine{lineNo: lineNo, label: label, mnem: mnem, ops: ops})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func encodeLine(ln rawLine, pc int64, labels map[string]int64) (uint32, error) {
	op := func(i int) string {
		if i >= len(ln.ops) {
			return ""
		}
		return ln.ops[i]
	}
	reg := func(i int) (uint32, error) { return parseReg(op(i), ln.lineNo) }
	imm := func(i int) (int64, error) { return parseImmOrLabel(op(i), pc, labels, ln.lineNo) }
	memOp := func(i int) (uint32, int64, error) { return parseMem(op(i), ln.lineNo) }

	switch ln.mnem {
	case ".fill":
		v, err := imm(0)
		if err != nil {
			return 0, err
		}
		return uint32(v), nil

	case "lb", "lh", "lw", "ld", "lbu", "lhu", "lwu":
		rd, err := reg(0)
		if err != nil {
			return 0, err
		}
		rs1, offs, err := memOp(1)
		if err != nil {
			return 0, err
		}
		return dispatchLoad(ln.mnem, rd, rs1, offs), nil

	case "sb", "sh", "sw", "sd":
		rs2, err := reg(0)
		if err != nil {
			return 0, err
		}
		rs1, offs, err := memOp(1)
		if err != nil {
			return 0, err
		}
		return dispatchStore(ln.mnem, rs1, rs2, offs), nil

	case "addi", "slti", "sltiu", "xori", "ori", "andi", "addiw":
		rd, err := reg(0)
		if err != nil {
			return 0, err
		}
		rs1, err := reg(1)
		if err != nil {
			return 0, err
		}
		i, err := imm(2)
		if err != nil {
			return 0, err
		}
		return dispatchALUImm(ln.mnem, rd, rs1, i), nil

	case "slli", "srli", "srai", "slliw", "srliw", "sraiw":
		rd, err := reg(0)
		if err != nil {
			return 0, err
		}
		rs1, err := reg(1)
		if err != nil {
			return 0, err
		}
		shamt, err := imm(2)
		if err != nil {
			return 0, err
		}
		return dispatchShiftImm(ln.mnem, rd, rs1, uint32(shamt)), nil

	case "add", "mul", "sub", "sll", "slt", "sltu", "xor", "srl", "sra", "or", "and",
		"addw", "subw", "sllw", "srlw", "sraw":
		rd, err := reg(0)
		if err != nil {
			return 0, err
		}
		rs1, err := reg(1)
		if err != nil {
			return 0, err
		}
		rs2, err := reg(2)
		if err != nil {
			return 0, err
		}
		return dispatchALUReg(ln.mnem, rd, rs1, rs2), nil

	case "lui", "auipc":
		rd, err := reg(0)
		if err != nil {
			return 0, err
		}
		i, err := imm(1)
		if err != nil {
			return 0, err
		}
		if ln.mnem == "lui" {
			return encode.LUI(rd, uint32(i)), nil
		}
		return encode.AUIPC(rd, uint32(i)), nil

	case "beq", "bne", "blt", "bge", "bltu", "bgeu":
		rs1, err := reg(0)
		if err != nil {
			return 0, err
		}
		rs2, err := reg(1)
		if err != nil {
			return 0, err
		}
		target, err := imm(2)
		if err != nil {
			return 0, err
		}
		return dispatchBranch(ln.mnem, rs1, rs2, target-pc), nil

	case "jalr":
		rd, err := reg(0)
		if err != nil {
			return 0, err
		}
		rs1, offs, err := memOp(1)
		if err != nil {
			return 0, err
		}
		return encode.JALR(rd, rs1, offs), nil

	case "jal":
		rd, err := reg(0)
		if err != nil {
			return 0, err
		}
		target, err := imm(1)
		if err != nil {
			return 0, err
		}
		return encode.JAL(rd, target-pc), nil

	default:
		return 0, &ErrSyntax{ln.lineNo, "unknown mnemonic " + ln.mnem}
	}
}

func dispatchLoad(mnem string, rd, rs1 uint32, offs int64) uint32 {
	switch mnem {
	case "lb":
		return encode.LB(rd, rs1, offs)
	case "lh":
		return encode.LH(rd, rs1, offs)
	case "lw":
		return encode.LW(rd, rs1, offs)
	case "ld":
		return encode.LD(rd, rs1, offs)
	case "lbu":
		return encode.LBU(rd, rs1, offs)
	case "lhu":
		return encode.LHU(rd, rs1, offs)
	default: // lwu
		return encode.LWU(rd, rs1, offs)
	}
}

func dispatchStore(mnem string, rs1, rs2 uint32, offs int64) uint32 {
	switch mnem {
	case "sb":
		return encode.SB(rs1, rs2, offs)
	case "sh":
		return encode.SH(rs1, rs2, offs)
	case "sw":
		return encode.SW(rs1, rs2, offs)
	default: // sd
		return encode.SD(rs1, rs2, offs)
	}
}

func dispatchALUImm(mnem string, rd, rs1 uint32, i int64) uint32 {
	switch mnem {
	case "addi":
		return encode.ADDI(rd, rs1, i)
	case "slti":
		return encode.SLTI(rd, rs1, i)
	case "sltiu":
		return encode.SLTIU(rd, rs1, i)
	case "xori":
		return encode.XORI(rd, rs1, i)
	case "ori":
		return encode.ORI(rd, rs1, i)
	case "andi":
		return encode.ANDI(rd, rs1, i)
	default: // addiw
		return encode.ADDIW(rd, rs1, i)
	}
}

func dispatchShiftImm(mnem string, rd, rs1 uint32, shamt uint32) uint32 {
	switch mnem {
	case "slli":
		return encode.SLLI(rd, rs1, shamt)
	case "srli":
		return encode.SRLI(rd, rs1, shamt)
	case "srai":
		return encode.SRAI(rd, rs1, shamt)
	case "slliw":
		return encode.SLLIW(rd, rs1, shamt)
	case "srliw":
		return encode.SRLIW(rd, rs1, shamt)
	default: // sraiw
		return encode.SRAIW(rd, rs1, shamt)
	}
}

func dispatchALUReg(mnem string, rd, rs1, rs2 uint32) uint32 {
	switch mnem {
	case "add":
		return encode.ADD(rd, rs1, rs2)
	case "mul":
		return encode.MUL(rd, rs1, rs2)
	case "sub":
		return encode.SUB(rd, rs1, rs2)
	case "sll":
		return encode.SLL(rd, rs1, rs2)
	case "slt":
		return encode.SLT(rd, rs1, rs2)
	case "sltu":
		return encode.SLTU(rd, rs1, rs2)
	case "xor":
		return encode.XOR(rd, rs1, rs2)
	case "srl":
		return encode.SRL(rd, rs1, rs2)
	case "sra":
		return encode.SRA(rd, rs1, rs2)
	case "or":
		return encode.OR(rd, rs1, rs2)
	case "and":
		return encode.AND(rd, rs1, rs2)
	case "addw":
		return encode.ADDW(rd, rs1, rs2)
	case "subw":
		return encode.SUBW(rd, rs1, rs2)
	case "sllw":
		return encode.SLLW(rd, rs1, rs2)
	case "srlw":
		return encode.SRLW(rd, rs1, rs2)
	default: // sraw
		return encode.SRAW(rd, rs1, rs2)
	}
}

func dispatchBranch(mnem string, rs1, rs2 uint32, imm int64) uint32 {
	switch mnem {
	case "beq":
		return encode.BEQ(rs1, rs2, imm)
	case "bne":
		return encode.BNE(rs1, rs2, imm)
	case "blt":
		return encode.BLT(rs1, rs2, imm)
	case "bge":
		return encode.BGE(rs1, rs2, imm)
	case "bltu":
		return encode.BLTU(rs1, rs2, imm)
	default: // bgeu
		return encode.BGEU(rs1, rs2, imm)
	}
}

var regNames = map[string]uint32{
	"zero": 0, "ra": 1, "sp": 2, "gp": 3, "tp": 4,
	"t0": 5, "t1": 6, "t2": 7,
	"s0": 8, "fp": 8, "s1": 9,
	"a0": 10, "a1": 11, "a2": 12, "a3": 13, "a4": 14, "a5": 15, "a6": 16, "a7": 17,
	"s2": 18, "s3": 19, "s4": 20, "s5": 21, "s6": 22, "s7": 23, "s8": 24, "s9": 25, "s10": 26, "s11": 27,
	"t3": 28, "t4": 29, "t5": 30, "t6": 31,
}

func parseReg(tok string, lineNo int) (uint32, error) {
	tok = strings.ToLower(strings.TrimSpace(tok))
	if n, ok := regNames[tok]; ok {
		return n, nil
	}
	if strings.HasPrefix(tok, "x") {
		if v, err := strconv.ParseUint(tok[1:], 10, 32); err == nil && v < 32 {
			return uint32(v), nil
		}
	}
	return 0, &ErrSyntax{lineNo, "bad register " + tok}
}

func parseImmOrLabel(tok string, pc int64, labels map[string]int64, lineNo int) (int64, error) {
	tok = strings.TrimSpace(tok)
	if v, ok := labels[tok]; ok {
		return v, nil
	}
	v, err := strconv.ParseInt(tok, 0, 64)
	if err != nil {
		return 0, &ErrSyntax{lineNo, "bad immediate/label " + tok}
	}
	return v, nil
}

// parseMem parses the "offset(reg)" operand syntax shared by loads,
// stores, and jalr.
func parseMem(tok string, lineNo int) (reg uint32, offs int64, err error) {
	open := strings.IndexByte(tok, '(')
	if open < 0 || !strings.HasSuffix(tok, ")") {
		return 0, 0, &ErrSyntax{lineNo, "expected offset(reg), got " + tok}
	}
	offsTok := strings.TrimSpace(tok[:open])
	regTok := tok[open+1 : len(tok)-1]
	if offsTok == "" {
		offsTok = "0"
	}
	offs, perr := strconv.ParseInt(offsTok, 0, 64)
	if perr != nil {
		return 0, 0, &ErrSyntax{lineNo, "bad offset " + offsTok}
	}
	reg, rerr := parseReg(regTok, lineNo)
	if rerr != nil {
		return 0, 0, rerr
	}
	return reg, offs, nil
}
