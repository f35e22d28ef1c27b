package cpu

import "fmt"

// Disassemble renders a single RV64I instruction word as text, the RV64I
// generalisation of the teacher VM's own Disassemble function: decode
// once, switch on opcode/funct3/funct7, one fmt.Sprintf per mnemonic.
// Used by --trace diagnostics and by pkg/debugtui's next-instruction line;
// the textual format is not part of this package's contract.
func Disassemble(inst uint32) string {
	d := decode(inst)
	switch d.opcode {
	case OpcodeLoad:
		return fmt.Sprintf("%s x%d, %d(x%d)", loadMnemonic(d.funct3), d.rd, decodeImmI(inst), d.rs1)
	case OpcodeALUImm:
		return disasmALUImm(inst, d)
	case OpcodeAUIPC:
		return fmt.Sprintf("auipc x%d, %#x", d.rd, decodeImmU(inst)>>12)
	case OpcodeALUImmW:
		return disasmALUImmW(inst, d)
	case OpcodeStore:
		return fmt.Sprintf("%s x%d, %d(x%d)", storeMnemonic(d.funct3), d.rs2, decodeImmS(inst), d.rs1)
	case OpcodeALUReg:
		return fmt.Sprintf("%s x%d, x%d, x%d", aluRegMnemonic(d.funct3, d.funct7), d.rd, d.rs1, d.rs2)
	case OpcodeLUI:
		return fmt.Sprintf("lui x%d, %#x", d.rd, decodeImmU(inst)>>12)
	case OpcodeALURegW:
		return fmt.Sprintf("%s x%d, x%d, x%d", aluRegWMnemonic(d.funct3, d.funct7), d.rd, d.rs1, d.rs2)
	case OpcodeBranch:
		return fmt.Sprintf("%s x%d, x%d, %d", branchMnemonic(d.funct3), d.rs1, d.rs2, int64(decodeImmB(inst)))
	case OpcodeJALR:
		return fmt.Sprintf("jalr x%d, %d(x%d)", d.rd, decodeImmI(inst), d.rs1)
	case OpcodeJAL:
		return fmt.Sprintf("jal x%d, %d", d.rd, int64(decodeImmJ(inst)))
	default:
		return fmt.Sprintf("<unknown opcode %#x inst %#08x>", d.opcode, inst)
	}
}

func loadMnemonic(funct3 uint32) string {
	switch funct3 {
	case Funct3LB:
		return "lb"
	case Funct3LH:
		return "lh"
	case Funct3LW:
		return "lw"
	case Funct3LD:
		return "ld"
	case Funct3LBU:
		return "lbu"
	case Funct3LHU:
		return "lhu"
	case Funct3LWU:
		return "lwu"
	default:
		return "l?"
	}
}

func storeMnemonic(funct3 uint32) string {
	switch funct3 {
	case Funct3SB:
		return "sb"
	case Funct3SH:
		return "sh"
	case Funct3SW:
		return "sw"
	case Funct3SD:
		return "sd"
	default:
		return "s?"
	}
}

func branchMnemonic(funct3 uint32) string {
	switch funct3 {
	case Funct3BEQ:
		return "beq"
	case Funct3BNE:
		return "bne"
	case Funct3BLT:
		return "blt"
	case Funct3BGE:
		return "bge"
	case Funct3BLTU:
		return "bltu"
	case Funct3BGEU:
		return "bgeu"
	default:
		return "b?"
	}
}

func disasmALUImm(inst uint32, d decoded) string {
	imm := decodeImmI(inst)
	switch d.funct3 {
	case Funct3ADDI_ADD:
		return fmt.Sprintf("addi x%d, x%d, %d", d.rd, d.rs1, int64(imm))
	case Funct3SLLI_SLL:
		return fmt.Sprintf("slli x%d, x%d, %d", d.rd, d.rs1, imm&0x3f)
	case Funct3SLTI_SLT:
		return fmt.Sprintf("slti x%d, x%d, %d", d.rd, d.rs1, int64(imm))
	case Funct3SLTIU:
		return fmt.Sprintf("sltiu x%d, x%d, %d", d.rd, d.rs1, imm)
	case Funct3XORI_XOR:
		return fmt.Sprintf("xori x%d, x%d, %d", d.rd, d.rs1, int64(imm))
	case Funct3SRX:
		if d.funct7&Funct7Alt != 0 {
			return fmt.Sprintf("srai x%d, x%d, %d", d.rd, d.rs1, imm&0x3f)
		}
		return fmt.Sprintf("srli x%d, x%d, %d", d.rd, d.rs1, imm&0x3f)
	case Funct3ORI_OR:
		return fmt.Sprintf("ori x%d, x%d, %d", d.rd, d.rs1, int64(imm))
	case Funct3ANDI_AND:
		return fmt.Sprintf("andi x%d, x%d, %d", d.rd, d.rs1, int64(imm))
	default:
		return fmt.Sprintf("<unknown alu-imm funct3 %#x>", d.funct3)
	}
}

func disasmALUImmW(inst uint32, d decoded) string {
	imm := decodeImmI(inst)
	switch d.funct3 {
	case Funct3ADDI_ADD:
		return fmt.Sprintf("addiw x%d, x%d, %d", d.rd, d.rs1, int64(imm))
	case Funct3SLLI_SLL:
		return fmt.Sprintf("slliw x%d, x%d, %d", d.rd, d.rs1, imm&0x1f)
	case Funct3SRX:
		if d.funct7 == Funct7Alt {
			return fmt.Sprintf("sraiw x%d, x%d, %d", d.rd, d.rs1, imm&0x1f)
		}
		return fmt.Sprintf("srliw x%d, x%d, %d", d.rd, d.rs1, imm&0x1f)
	default:
		return fmt.Sprintf("<unknown alu-imm-w funct3 %#x>", d.funct3)
	}
}

func aluRegMnemonic(funct3, funct7 uint32) string {
	switch {
	case funct3 == Funct3ADDI_ADD && funct7 == Funct7Base:
		return "add"
	case funct3 == Funct3ADDI_ADD && funct7 == Funct7Mul:
		return "mul"
	case funct3 == Funct3ADDI_ADD && funct7 == Funct7Alt:
		return "sub"
	case funct3 == Funct3SLLI_SLL:
		return "sll"
	case funct3 == Funct3SLTI_SLT:
		return "slt"
	case funct3 == Funct3SLTIU:
		return "sltu"
	case funct3 == Funct3XORI_XOR:
		return "xor"
	case funct3 == Funct3SRX && funct7 == Funct7Alt:
		return "sra"
	case funct3 == Funct3SRX:
		return "srl"
	case funct3 == Funct3ORI_OR:
		return "or"
	case funct3 == Funct3ANDI_AND:
		return "and"
	default:
		return "<unknown alu-reg>"
	}
}

func aluRegWMnemonic(funct3, funct7 uint32) string {
	switch {
	case funct3 == Funct3ADDI_ADD && funct7 == Funct7Alt:
		return "subw"
	case funct3 == Funct3ADDI_ADD:
		return "addw"
	case funct3 == Funct3SLLI_SLL:
		return "sllw"
	case funct3 == Funct3SRX && funct7 == Funct7Alt:
		return "sraw"
	case funct3 == Funct3SRX:
		return "srlw"
	default:
		return "<unknown alu-reg-w>"
	}
}
