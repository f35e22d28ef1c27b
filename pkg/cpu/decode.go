package cpu

// decoded holds every field a dispatch needs, extracted once per
// instruction. Keeping extraction in one place avoids the original Rust
// source's mistake of re-deriving the I-immediate inconsistently
// between the load and ALU-immediate cases (see decodeImmI).
type decoded struct {
	opcode uint32
	rd     uint32
	rs1    uint32
	rs2    uint32
	funct3 uint32
	funct7 uint32
}

func decode(inst uint32) decoded {
	return decoded{
		opcode: inst & 0x7f,
		rd:     (inst >> 7) & 0x1f,
		rs1:    (inst >> 15) & 0x1f,
		rs2:    (inst >> 20) & 0x1f,
		funct3: (inst >> 12) & 0x7,
		funct7: (inst >> 25) & 0x7f,
	}
}

// decodeImmI sign-extends the 12-bit I-type immediate at inst[31:20] to 64
// bits.
//
// The original Rust source (original_source/src/cpu.rs) gets this right
// for loads -- `(instruction as i32 as i64) >> 20` -- but regresses to a
// 16-bit-mask version for the ALU-immediate opcode (`instruction &
// 0xffff_0000`), which is exactly the bug spec.md §9 calls out: it must
// not be replicated. This implementation uses the correct 12-bit-field
// recipe everywhere an I-immediate is needed.
func decodeImmI(inst uint32) uint64 {
	return uint64(int64(int32(inst)) >> 20)
}

// decodeImmS reconstructs the S-type immediate: sign-extended inst[31:25]
// widened to 64 bits *before* combining with inst[11:7], per spec.md §9's
// warning that a missing 64-bit widen before the OR truncates the result.
func decodeImmS(inst uint32) uint64 {
	hi := uint64(int64(int32(inst&0xfe000000)) >> 20)
	lo := uint64((inst >> 7) & 0x1f)
	return hi | lo
}

// decodeImmB reconstructs the 13-bit signed B-type branch offset:
// {sext(inst[31]), inst[7], inst[30:25], inst[11:8], 0}.
func decodeImmB(inst uint32) uint64 {
	hi := uint64(int64(int32(inst&0x80000000)) >> 19)
	b7 := uint64(inst&0x80) << 4
	b30_25 := uint64(inst>>20) & 0x7e0
	b11_8 := uint64(inst>>7) & 0x1e
	return hi | b7 | b30_25 | b11_8
}

// decodeImmU reconstructs the U-type immediate: inst[31:12]<<12,
// sign-extended from 32 to 64 bits.
func decodeImmU(inst uint32) uint64 {
	return uint64(int64(int32(inst & 0xfffff000)))
}

// decodeImmJ reconstructs the 21-bit signed J-type jump offset:
// {sext(inst[31]), inst[19:12], inst[20], inst[30:21], 0}.
func decodeImmJ(inst uint32) uint64 {
	hi := uint64(int64(int32(inst&0x80000000)) >> 11)
	b19_12 := uint64(inst & 0xff000)
	b20 := uint64(inst>>9) & 0x800
	b30_21 := uint64(inst>>20) & 0x7fe
	return hi | b19_12 | b20 | b30_21
}
