// Package encode is a small RV64I instruction encoder.
//
// It is the RV64I-domain adaptation of the teacher repo's RiSC-32
// assembler (pkg/asm/instruction.go): rather than hand-writing raw
// machine-code words in tests and in the `asm` CLI subcommand, callers
// build instructions via named constructors (ADDI, SD, BEQ, ...) that
// assemble the bit fields the way the teacher's InstructionADD /
// InstructionADDI / ... types assemble RiSC-32 words. Labels and a
// two-pass label table, the teacher's own approach to resolving forward
// branch targets, are replaced here by plain offset arithmetic supplied by
// the caller (image generation for unit tests never needs forward-label
// resolution that isn't trivially inline).
package encode

import "fmt"

// R-type: ADD, SUB, MUL, SLL, SLT, SLTU, XOR, SRL, SRA, OR, AND and their
// -W counterparts (ADDW, SUBW, SLLW, SRLW, SRAW).
func rType(opcode, funct3, funct7, rd, rs1, rs2 uint32) uint32 {
	return (funct7&0x7f)<<25 | (rs2&0x1f)<<20 | (rs1&0x1f)<<15 | (funct3&0x7)<<12 | (rd&0x1f)<<7 | (opcode & 0x7f)
}

// iType: loads, ALU-immediate, ALU-immediate-word, JALR.
func iType(opcode, funct3, rd, rs1 uint32, imm int64) uint32 {
	return (uint32(imm)&0xfff)<<20 | (rs1&0x1f)<<15 | (funct3&0x7)<<12 | (rd&0x1f)<<7 | (opcode & 0x7f)
}

// sType: stores.
func sType(opcode, funct3, rs1, rs2 uint32, imm int64) uint32 {
	u := uint32(imm)
	return (u&0xfe0)<<20 | (rs2&0x1f)<<20 | (rs1&0x1f)<<15 | (funct3&0x7)<<12 | (u&0x1f)<<7 | (opcode & 0x7f)
}

// bType: branches. imm must be a multiple of 2, in [-4096, 4094].
func bType(opcode, funct3, rs1, rs2 uint32, imm int64) uint32 {
	u := uint32(imm)
	bit12 := (u >> 12) & 0x1
	bit11 := (u >> 11) & 0x1
	bits10_5 := (u >> 5) & 0x3f
	bits4_1 := (u >> 1) & 0xf
	return bit12<<31 | bits10_5<<25 | (rs2&0x1f)<<20 | (rs1&0x1f)<<15 | (funct3&0x7)<<12 | bits4_1<<8 | bit11<<7 | (opcode & 0x7f)
}

// uType: LUI, AUIPC. imm20 is the 20-bit immediate (will be placed in
// bits 31:12 verbatim, i.e. callers pass the already-shifted-out top 20
// bits as inst[31:12]).
func uType(opcode, rd uint32, imm20 uint32) uint32 {
	return (imm20 & 0xfffff) << 12 | (rd&0x1f)<<7 | (opcode & 0x7f)
}

// jType: JAL. imm must be a multiple of 2, in [-1048576, 1048574].
func jType(opcode, rd uint32, imm int64) uint32 {
	u := uint32(imm)
	bit20 := (u >> 20) & 0x1
	bits10_1 := (u >> 1) & 0x3ff
	bit11 := (u >> 11) & 0x1
	bits19_12 := (u >> 12) & 0xff
	return bit20<<31 | bits10_1<<21 | bit11<<20 | bits19_12<<12 | (rd&0x1f)<<7 | (opcode & 0x7f)
}

const (
	opLoad    = uint32(0x03)
	opALUImm  = uint32(0x13)
	opAUIPC   = uint32(0x17)
	opALUImmW = uint32(0x1b)
	opStore   = uint32(0x23)
	opALUReg  = uint32(0x33)
	opLUI     = uint32(0x37)
	opALURegW = uint32(0x3b)
	opBranch  = uint32(0x63)
	opJALR    = uint32(0x67)
	opJAL     = uint32(0x6f)
)

// Loads.
func LB(rd, rs1 uint32, imm int64) uint32  { return iType(opLoad, 0x0, rd, rs1, imm) }
func LH(rd, rs1 uint32, imm int64) uint32  { return iType(opLoad, 0x1, rd, rs1, imm) }
func LW(rd, rs1 uint32, imm int64) uint32  { return iType(opLoad, 0x2, rd, rs1, imm) }
func LD(rd, rs1 uint32, imm int64) uint32  { return iType(opLoad, 0x3, rd, rs1, imm) }
func LBU(rd, rs1 uint32, imm int64) uint32 { return iType(opLoad, 0x4, rd, rs1, imm) }
func LHU(rd, rs1 uint32, imm int64) uint32 { return iType(opLoad, 0x5, rd, rs1, imm) }
func LWU(rd, rs1 uint32, imm int64) uint32 { return iType(opLoad, 0x6, rd, rs1, imm) }

// ALU-immediate.
func ADDI(rd, rs1 uint32, imm int64) uint32  { return iType(opALUImm, 0x0, rd, rs1, imm) }
func SLLI(rd, rs1 uint32, shamt uint32) uint32 { return iType(opALUImm, 0x1, rd, rs1, int64(shamt&0x3f)) }
func SLTI(rd, rs1 uint32, imm int64) uint32  { return iType(opALUImm, 0x2, rd, rs1, imm) }
func SLTIU(rd, rs1 uint32, imm int64) uint32 { return iType(opALUImm, 0x3, rd, rs1, imm) }
func XORI(rd, rs1 uint32, imm int64) uint32  { return iType(opALUImm, 0x4, rd, rs1, imm) }
func SRLI(rd, rs1 uint32, shamt uint32) uint32 {
	return iType(opALUImm, 0x5, rd, rs1, int64(shamt&0x3f))
}
func SRAI(rd, rs1 uint32, shamt uint32) uint32 {
	return iType(opALUImm, 0x5, rd, rs1, int64((0x20<<5)|(shamt&0x3f)))
}
func ORI(rd, rs1 uint32, imm int64) uint32 { return iType(opALUImm, 0x6, rd, rs1, imm) }
func ANDI(rd, rs1 uint32, imm int64) uint32 { return iType(opALUImm, 0x7, rd, rs1, imm) }

// AUIPC / LUI. imm is the 20-bit upper immediate (unshifted, i.e. the
// value that ends up at inst[31:12]).
func AUIPC(rd uint32, imm20 uint32) uint32 { return uType(opAUIPC, rd, imm20) }
func LUI(rd uint32, imm20 uint32) uint32   { return uType(opLUI, rd, imm20) }

// ALU-immediate-word.
func ADDIW(rd, rs1 uint32, imm int64) uint32 { return iType(opALUImmW, 0x0, rd, rs1, imm) }
func SLLIW(rd, rs1 uint32, shamt uint32) uint32 {
	return iType(opALUImmW, 0x1, rd, rs1, int64(shamt&0x1f))
}
func SRLIW(rd, rs1 uint32, shamt uint32) uint32 {
	return iType(opALUImmW, 0x5, rd, rs1, int64(shamt&0x1f))
}
func SRAIW(rd, rs1 uint32, shamt uint32) uint32 {
	return iType(opALUImmW, 0x5, rd, rs1, int64((0x20<<5)|(shamt&0x1f)))
}

// Stores.
func SB(rs1, rs2 uint32, imm int64) uint32 { return sType(opStore, 0x0, rs1, rs2, imm) }
func SH(rs1, rs2 uint32, imm int64) uint32 { return sType(opStore, 0x1, rs1, rs2, imm) }
func SW(rs1, rs2 uint32, imm int64) uint32 { return sType(opStore, 0x2, rs1, rs2, imm) }
func SD(rs1, rs2 uint32, imm int64) uint32 { return sType(opStore, 0x3, rs1, rs2, imm) }

// ALU-register.
func ADD(rd, rs1, rs2 uint32) uint32 { return rType(opALUReg, 0x0, 0x00, rd, rs1, rs2) }
func MUL(rd, rs1, rs2 uint32) uint32 { return rType(opALUReg, 0x0, 0x01, rd, rs1, rs2) }
func SUB(rd, rs1, rs2 uint32) uint32 { return rType(opALUReg, 0x0, 0x20, rd, rs1, rs2) }
func SLL(rd, rs1, rs2 uint32) uint32 { return rType(opALUReg, 0x1, 0x00, rd, rs1, rs2) }
func SLT(rd, rs1, rs2 uint32) uint32 { return rType(opALUReg, 0x2, 0x00, rd, rs1, rs2) }
func SLTU(rd, rs1, rs2 uint32) uint32 { return rType(opALUReg, 0x3, 0x00, rd, rs1, rs2) }
func XOR(rd, rs1, rs2 uint32) uint32 { return rType(opALUReg, 0x4, 0x00, rd, rs1, rs2) }
func SRL(rd, rs1, rs2 uint32) uint32 { return rType(opALUReg, 0x5, 0x00, rd, rs1, rs2) }
func SRA(rd, rs1, rs2 uint32) uint32 { return rType(opALUReg, 0x5, 0x20, rd, rs1, rs2) }
func OR(rd, rs1, rs2 uint32) uint32  { return rType(opALUReg, 0x6, 0x00, rd, rs1, rs2) }
func AND(rd, rs1, rs2 uint32) uint32 { return rType(opALUReg, 0x7, 0x00, rd, rs1, rs2) }

// ALU-register-word.
func ADDW(rd, rs1, rs2 uint32) uint32 { return rType(opALURegW, 0x0, 0x00, rd, rs1, rs2) }
func SUBW(rd, rs1, rs2 uint32) uint32 { return rType(opALURegW, 0x0, 0x20, rd, rs1, rs2) }
func SLLW(rd, rs1, rs2 uint32) uint32 { return rType(opALURegW, 0x1, 0x00, rd, rs1, rs2) }
func SRLW(rd, rs1, rs2 uint32) uint32 { return rType(opALURegW, 0x5, 0x00, rd, rs1, rs2) }
func SRAW(rd, rs1, rs2 uint32) uint32 { return rType(opALURegW, 0x5, 0x20, rd, rs1, rs2) }

// Branches. imm is measured from the branch instruction's own address.
func BEQ(rs1, rs2 uint32, imm int64) uint32  { return bType(opBranch, 0x0, rs1, rs2, imm) }
func BNE(rs1, rs2 uint32, imm int64) uint32  { return bType(opBranch, 0x1, rs1, rs2, imm) }
func BLT(rs1, rs2 uint32, imm int64) uint32  { return bType(opBranch, 0x4, rs1, rs2, imm) }
func BGE(rs1, rs2 uint32, imm int64) uint32  { return bType(opBranch, 0x5, rs1, rs2, imm) }
func BLTU(rs1, rs2 uint32, imm int64) uint32 { return bType(opBranch, 0x6, rs1, rs2, imm) }
func BGEU(rs1, rs2 uint32, imm int64) uint32 { return bType(opBranch, 0x7, rs1, rs2, imm) }

// JALR / JAL.
func JALR(rd, rs1 uint32, imm int64) uint32 { return iType(opJALR, 0x0, rd, rs1, imm) }
func JAL(rd uint32, imm int64) uint32       { return jType(opJAL, rd, imm) }

// Image assembles a sequence of already-encoded instruction words into a
// flat little-endian binary image, the format the CPU's memory
// constructor expects.
func Image(words ...uint32) []byte {
	out := make([]byte, 4*len(words))
	for i, w := range words {
		out[4*i+0] = byte(w)
		out[4*i+1] = byte(w >> 8)
		out[4*i+2] = byte(w >> 16)
		out[4*i+3] = byte(w >> 24)
	}
	return out
}

// MustFitSigned panics if v does not fit in a signed field of the given
// bit width, matching the teacher's own CastToUint32 bounds check (kept
// here as a debugging aid for hand-built test fixtures, not used by the
// core on the hot path).
func MustFitSigned(v int64, bits int) {
	if bits < 1 || bits > 32 {
		panic("encode: bits out of range")
	}
	if v < -(1<<(bits-1)) || v > (1<<(bits-1))-1 {
		panic(fmt.Sprintf("encode: value %d does not fit in %d signed bits", v, bits))
	}
}
