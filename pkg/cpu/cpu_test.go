package cpu_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rv64iemu/pkg/cpu"
	"rv64iemu/pkg/encode"
	"rv64iemu/pkg/memory"
)

func newCPU(t *testing.T, words ...uint32) *cpu.CPU {
	t.Helper()
	c, err := cpu.New(memory.Base, memory.Size, encode.Image(words...))
	require.NoError(t, err)
	return c
}

// S1 -- ADDI chain.
func TestScenarioADDIChain(t *testing.T) {
	c := newCPU(t,
		encode.ADDI(1, 0, 5),
		encode.ADDI(2, 1, 37),
	)
	require.NoError(t, c.Run())
	require.Equal(t, uint64(5), c.Reg(1))
	require.Equal(t, uint64(42), c.Reg(2))
}

// S2 -- LUI+ADDI produces a 32-bit constant.
func TestScenarioLUIAddi(t *testing.T) {
	c := newCPU(t,
		encode.LUI(5, 0x12345),
		encode.ADDI(5, 5, 0x678),
	)
	require.NoError(t, c.Run())
	require.Equal(t, uint64(0x12345678), c.Reg(5))
}

// S3 -- AUIPC relative address.
func TestScenarioAUIPC(t *testing.T) {
	c := newCPU(t, encode.AUIPC(6, 0x1))
	require.NoError(t, c.Run())
	require.Equal(t, memory.Base+0x1000, c.Reg(6))
}

// S4 -- store/load round trip through the stack.
func TestScenarioStoreLoadRoundTrip(t *testing.T) {
	c := newCPU(t,
		encode.ADDI(7, 0, -1),
		encode.ADDI(9, 2, -8), // x9 = sp - 8
		encode.SD(9, 7, 0),
		encode.LD(8, 9, 0),
	)
	require.NoError(t, c.Run())
	require.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), c.Reg(8))
}

// S5 -- signed vs. unsigned compare.
func TestScenarioSignedUnsignedCompare(t *testing.T) {
	c := newCPU(t,
		encode.ADDI(1, 0, -1),
		encode.ADDI(2, 0, 1),
		encode.SLT(3, 1, 2),
		encode.SLTU(4, 1, 2),
	)
	require.NoError(t, c.Run())
	require.Equal(t, uint64(1), c.Reg(3))
	require.Equal(t, uint64(0), c.Reg(4))
}

// S6 -- branch + JAL loop of 9 iterations summing 1..9 into x1 (45).
func TestScenarioBranchLoopAccumulate(t *testing.T) {
	c := newCPU(t,
		encode.ADDI(2, 0, 1),  // 0:  i = 1
		encode.ADDI(3, 0, 10), // 4:  limit = 10
		encode.ADD(1, 1, 2),   // 8:  sum += i
		encode.ADDI(2, 2, 1),  // 12: i++
		encode.BGE(2, 3, 8),   // 16: if i >= limit goto 24
		encode.JAL(0, -12),    // 20: goto 8
		encode.JALR(0, 0, 0),  // 24: jump to address 0 -> pc==0 halts
	)
	require.NoError(t, c.Run())
	require.Equal(t, uint64(45), c.Reg(1))
}

// Invariant 1: register 0 is always zero, even when targeted as rd.
func TestRegisterZeroHardWired(t *testing.T) {
	c := newCPU(t, encode.ADDI(0, 0, 123))
	require.NoError(t, c.Run())
	require.Equal(t, uint64(0), c.Reg(0))
}

// Invariant 4: LB/LBU sign/zero extension.
func TestLoadByteSignExtension(t *testing.T) {
	c := newCPU(t,
		encode.AUIPC(4, 0),    // x4 = DRAM_BASE (this instruction's address)
		encode.ADDI(1, 0, -1), // x1 = 0xff (low byte)
		encode.SB(4, 1, 0),    // mem[DRAM_BASE] = 0xff
		encode.LB(2, 4, 0),
		encode.LBU(3, 4, 0),
	)
	require.NoError(t, c.Run())
	require.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), c.Reg(2))
	require.Equal(t, uint64(0xFF), c.Reg(3))
}

// Invariant 5: shift-amount masking, SLLI by 64 behaves as shift-by-0.
func TestShiftAmountMasking64(t *testing.T) {
	c := newCPU(t,
		encode.ADDI(1, 0, 1),
		encode.SLLI(2, 1, 64), // shamt & 0x3f == 0
	)
	require.NoError(t, c.Run())
	require.Equal(t, uint64(1), c.Reg(2))
}

// Invariant 5: SLLIW by 32 behaves as shift-by-0 (5-bit mask).
func TestShiftAmountMasking32(t *testing.T) {
	c := newCPU(t,
		encode.ADDI(1, 0, 1),
		encode.SLLIW(2, 1, 32), // shamt & 0x1f == 0
	)
	require.NoError(t, c.Run())
	require.Equal(t, uint64(1), c.Reg(2))
}

// Invariant 6: arithmetic right shift preserves sign.
func TestArithmeticShiftPreservesSign(t *testing.T) {
	c := newCPU(t,
		encode.ADDI(1, 0, 1),
		encode.SLLI(1, 1, 63), // x1 = 0x8000_0000_0000_0000
		encode.SRAI(2, 1, 63),
	)
	require.NoError(t, c.Run())
	require.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), c.Reg(2))
}

// SRLI, unlike SRAI, does not sign-extend.
func TestLogicalShiftDoesNotPreserveSign(t *testing.T) {
	c := newCPU(t,
		encode.ADDI(1, 0, 1),
		encode.SLLI(1, 1, 63),
		encode.SRLI(2, 1, 63),
	)
	require.NoError(t, c.Run())
	require.Equal(t, uint64(1), c.Reg(2))
}

// Invariant 7: a taken branch updates PC relative to the branch
// instruction's own address, not the post-increment PC.
func TestBranchOffsetMeasuredFromOwnAddress(t *testing.T) {
	c := newCPU(t,
		encode.BEQ(0, 0, 8), // always taken, skip the trap below
		encode.JAL(0, 0),    // trap: jumps to itself forever if reached
		encode.ADDI(1, 0, 7),
	)
	require.NoError(t, c.Step()) // execute the branch
	require.Equal(t, memory.Base+8, c.PC())
}

func TestUnknownInstructionIsNonFatal(t *testing.T) {
	c := newCPU(t, 0x00000000, encode.ADDI(1, 0, 9))
	require.NoError(t, c.Run())
	require.Equal(t, uint64(9), c.Reg(1))
}

func TestFetchFaultHaltsCleanly(t *testing.T) {
	c, err := cpu.New(memory.Base, 4, nil)
	require.NoError(t, err)
	require.NoError(t, c.Run())
}

func TestMaxStepsExceededIsAnError(t *testing.T) {
	c, err := cpu.New(memory.Base, memory.Size, encode.Image(encode.JAL(0, 0)), cpu.WithMaxSteps(3))
	require.NoError(t, err)
	err = c.Run()
	require.Error(t, err)
}

func TestStackPointerInitialisedToTopOfMemory(t *testing.T) {
	c := newCPU(t, encode.ADDI(0, 0, 0))
	require.Equal(t, memory.Base+memory.Size, c.Reg(2))
}

func TestPeekMemoryReflectsStores(t *testing.T) {
	c := newCPU(t,
		encode.ADDI(1, 0, -1),
		encode.ADDI(2, 2, -8), // sp -= 8
		encode.SD(2, 1, 0),
	)
	require.NoError(t, c.Run())
	sp := c.Reg(2)
	v, err := c.PeekMemory(sp, 64)
	require.NoError(t, err)
	require.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), v)
}

func TestPeekMemoryOutOfRange(t *testing.T) {
	c := newCPU(t, encode.ADDI(0, 0, 0))
	_, err := c.PeekMemory(0, 64)
	require.Error(t, err)
}
