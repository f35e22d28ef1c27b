package cpu

// The following constants define the opcode field (inst[6:0]) values this
// core dispatches on. Naming follows the RISC-V base ISA manual, not the
// teacher's RiSC-32 opcode table (OpcodeADD, OpcodeLUI, ...), since the
// instruction formats themselves are unrelated beyond the shared idea of a
// fixed-width opcode dispatch.
const (
	OpcodeLoad      = uint32(0x03)
	OpcodeALUImm    = uint32(0x13)
	OpcodeAUIPC     = uint32(0x17)
	OpcodeALUImmW   = uint32(0x1b)
	OpcodeStore     = uint32(0x23)
	OpcodeALUReg    = uint32(0x33)
	OpcodeLUI       = uint32(0x37)
	OpcodeALURegW   = uint32(0x3b)
	OpcodeBranch    = uint32(0x63)
	OpcodeJALR      = uint32(0x67)
	OpcodeJAL       = uint32(0x6f)
)

// funct3 values for OpcodeLoad.
const (
	Funct3LB  = uint32(0x0)
	Funct3LH  = uint32(0x1)
	Funct3LW  = uint32(0x2)
	Funct3LD  = uint32(0x3)
	Funct3LBU = uint32(0x4)
	Funct3LHU = uint32(0x5)
	Funct3LWU = uint32(0x6)
)

// funct3 values for OpcodeALUImm and OpcodeALUReg (shared encoding).
const (
	Funct3ADDI_ADD = uint32(0x0) // ADDI / ADD / SUB / MUL depending on opcode+funct7
	Funct3SLLI_SLL = uint32(0x1)
	Funct3SLTI_SLT = uint32(0x2)
	Funct3SLTIU    = uint32(0x3)
	Funct3XORI_XOR = uint32(0x4)
	Funct3SRX      = uint32(0x5) // SRLI/SRAI or SRL/SRA, funct7 selects
	Funct3ORI_OR   = uint32(0x6)
	Funct3ANDI_AND = uint32(0x7)
)

// funct3 values for OpcodeStore.
const (
	Funct3SB = uint32(0x0)
	Funct3SH = uint32(0x1)
	Funct3SW = uint32(0x2)
	Funct3SD = uint32(0x3)
)

// funct3 values for OpcodeBranch.
const (
	Funct3BEQ  = uint32(0x0)
	Funct3BNE  = uint32(0x1)
	Funct3BLT  = uint32(0x4)
	Funct3BGE  = uint32(0x5)
	Funct3BLTU = uint32(0x6)
	Funct3BGEU = uint32(0x7)
)

// funct7 values distinguishing ADD/SUB/MUL and SRL/SRA families.
const (
	Funct7Base = uint32(0x00)
	Funct7Alt  = uint32(0x20) // SUB, SRA, SRAI, SRAIW
	Funct7Mul  = uint32(0x01) // MUL
)
