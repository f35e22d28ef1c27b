package cpu

import (
	"fmt"
	"strings"
)

// NumRegisters is the number of general-purpose registers, following the
// teacher VM's NumRegisters constant, generalised from 32-bit MIPS-style
// registers to 64-bit RISC-V ones.
const NumRegisters = 32

// abiNames are the RISC-V ABI mnemonics for x0..x31.
var abiNames = [NumRegisters]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// Dump renders the register file as the spec's debug sink: one line per
// four registers, ABI mnemonics, xNN(<abi>)=0x<16-hex>.
func (c *CPU) Dump() string {
	var sb strings.Builder
	for i := 0; i < NumRegisters; i += 4 {
		fmt.Fprintf(&sb, "x%02d(%s)=0x%016x x%02d(%s)=0x%016x x%02d(%s)=0x%016x x%02d(%s)=0x%016x\n",
			i, abiNames[i], c.regs[i],
			i+1, abiNames[i+1], c.regs[i+1],
			i+2, abiNames[i+2], c.regs[i+2],
			i+3, abiNames[i+3], c.regs[i+3],
		)
	}
	return sb.String()
}

// String implements fmt.Stringer for trace logging: a compact one-line
// PC + register-file summary, the generalisation of the teacher VM's own
// String method ("{PC:%d GPR:%+v ...}").
func (c *CPU) String() string {
	return fmt.Sprintf("{PC:%#x regs:%v}", c.pc, c.regs)
}

// Reg returns the current value of register index i. Reading index 0
// always returns zero, matching the architectural invariant.
func (c *CPU) Reg(i int) uint64 {
	if i == 0 {
		return 0
	}
	return c.regs[i]
}

// PC returns the current program counter.
func (c *CPU) PC() uint64 {
	return c.pc
}
