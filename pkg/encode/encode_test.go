package encode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestADDIMatchesHandPackedWord(t *testing.T) {
	require.Equal(t, uint32(0xfff00093), ADDI(1, 0, -1))
	require.Equal(t, uint32(0x00500093), ADDI(1, 0, 5))
}

func TestLUIMatchesHandPackedWord(t *testing.T) {
	require.Equal(t, uint32(0x12345037), LUI(0, 0x12345))
}

func TestADDMatchesHandPackedWord(t *testing.T) {
	require.Equal(t, uint32(0x002081b3), ADD(3, 1, 2))
}

func TestSRAISetsFunct7TopBit(t *testing.T) {
	inst := SRAI(1, 1, 5)
	require.Equal(t, uint32(0x20), (inst>>25)&0x7f)
	require.Equal(t, uint32(5), (inst>>20)&0x3f)
}

func TestSRLILeavesFunct7Zero(t *testing.T) {
	inst := SRLI(1, 1, 5)
	require.Equal(t, uint32(0), (inst>>25)&0x7f)
}

func TestImageIsLittleEndian(t *testing.T) {
	img := Image(0x01020304)
	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, img)
}

func TestMustFitSignedPanicsOnOverflow(t *testing.T) {
	require.Panics(t, func() { MustFitSigned(256, 8) })
	require.NotPanics(t, func() { MustFitSigned(127, 8) })
}

func TestBranchImmediateRoundTrip(t *testing.T) {
	inst := BEQ(1, 2, -8)
	// inst[31] sign bit, inst[7] bit11, inst[30:25] bits10:5, inst[11:8] bits4:1
	bit31 := (inst >> 31) & 1
	require.Equal(t, uint32(1), bit31)
	imm := bit31<<12 | (inst>>7&1)<<11 | (inst>>25&0x3f)<<5 | (inst>>8&0xf)<<1
	require.Equal(t, int64(-8), int64(int32(imm<<19))>>19)
}
