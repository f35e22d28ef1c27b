package cpu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeImmINegative(t *testing.T) {
	// ADDI x1, x0, -1: imm field = 0xfff (all ones).
	inst := uint32(0xfff00093)
	require.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), decodeImmI(inst))
}

func TestDecodeImmIPositive(t *testing.T) {
	// ADDI x1, x0, 5.
	inst := uint32(0x00500093)
	require.Equal(t, uint64(5), decodeImmI(inst))
}

func TestDecodeImmSWidensBeforeCombining(t *testing.T) {
	// SD x0, -8(sp): imm = -8 split across inst[31:25] and inst[11:7].
	// -8 = 0x...1111_1000 -> inst[11:7] = 11000 = 0x18, inst[31:25] = all ones.
	var inst uint32
	inst |= 0x2 << 15 // rs1 = x2 (sp)
	inst |= 0x3 << 12 // funct3 = SD
	inst |= 0x23      // opcode = store
	imm := int64(-8)
	inst |= uint32(imm&0x1f) << 7
	inst |= uint32((imm>>5)&0x7f) << 25
	require.Equal(t, uint64(0xFFFFFFFFFFFFFFF8), decodeImmS(inst))
}

func TestDecodeImmBRoundTrip(t *testing.T) {
	// BEQ x0, x0, -8: verify decodeImmB recovers -8 from a hand-packed
	// B-type word.
	imm := int64(-8)
	u := uint32(imm)
	var inst uint32
	inst |= (u >> 12 & 0x1) << 31
	inst |= (u >> 5 & 0x3f) << 25
	inst |= (u >> 1 & 0xf) << 8
	inst |= (u >> 11 & 0x1) << 7
	inst |= 0x63 // opcode
	require.Equal(t, uint64(0xFFFFFFFFFFFFFFF8), decodeImmB(inst))
}

func TestDecodeImmUTop20Bits(t *testing.T) {
	inst := uint32(0x12345037) // lui x0, 0x12345
	require.Equal(t, uint64(0x12345000), decodeImmU(inst))
}

func TestDecodeImmJRoundTrip(t *testing.T) {
	imm := int64(-20)
	u := uint32(imm)
	var inst uint32
	inst |= (u >> 20 & 0x1) << 31
	inst |= (u >> 1 & 0x3ff) << 21
	inst |= (u >> 11 & 0x1) << 20
	inst |= (u >> 12 & 0xff) << 12
	inst |= 0x6f // opcode
	require.Equal(t, uint64(0xFFFFFFFFFFFFFFEC), decodeImmJ(inst))
}

func TestDecodeFields(t *testing.T) {
	// ADD x3, x1, x2: rd=3 rs1=1 rs2=2 funct3=0 funct7=0.
	inst := uint32(0x002081b3)
	d := decode(inst)
	require.Equal(t, OpcodeALUReg, d.opcode)
	require.Equal(t, uint32(3), d.rd)
	require.Equal(t, uint32(1), d.rs1)
	require.Equal(t, uint32(2), d.rs2)
	require.Equal(t, Funct3ADDI_ADD, d.funct3)
	require.Equal(t, Funct7Base, d.funct7)
}
