package cpu

import "fmt"

// Op identifies an instruction family.
type Op uint8

const (
	OpInvalid Op = iota
	OpCLS
	OpRET
	OpSCD  // 00CN scroll down N rows
	OpSCU  // 00BN scroll up N rows
	OpSCR  // 00FB scroll right 4 columns
	OpSCL  // 00FC scroll left 4 columns
	OpEXIT // 00FD
	OpLOW  // 00FE
	OpHIGH // 00FF
	OpJP
	OpCALL
	OpSEImm
	OpSNEImm
	OpSEReg
	OpLDImm
	OpADDImm
	OpLDReg
	OpOR
	OpAND
	OpXOR
	OpADDReg
	OpSUB
	OpSHR
	OpSUBN
	OpSHL
	OpSNEReg
	OpLDI
	OpJPV0
	OpRND
	OpDRW
	OpDRW16
	OpSKP
	OpSKNP
	OpLDVxDT
	OpLDVxK
	OpLDDTVx
	OpLDSTVx
	OpADDI
	OpLDF
	OpLDHF
	OpLDB
	OpLDIVx // FX55 store V0..Vx at I
	OpLDVxI // FX65 load V0..Vx from I
	OpLDRVx // FX75 store to RPL flags
	OpLDVxR // FX85 load from RPL flags
)

// Instruction is a decoded opcode. Only the operand fields used by Op are set.
type Instruction struct {
	Op     Op
	Opcode uint16
	X      uint8
	Y      uint8
	N      uint8
	KK     uint8
	NNN    uint16
}

// Decode maps a 16-bit opcode to its instruction. It never fails; opcodes
// outside the instruction set decode to OpInvalid.
func Decode(opcode uint16) Instruction {
	op1 := opcode >> 12
	op2 := (opcode >> 8) & 0xF
	op3 := (opcode >> 4) & 0xF
	op4 := opcode & 0xF

	x := uint8(op2)
	y := uint8(op3)
	n := uint8(op4)
	kk := uint8(opcode & 0xFF)
	nnn := opcode & 0x0FFF

	ins := Instruction{Opcode: opcode}
	xy := func(op Op) Instruction {
		ins.Op, ins.X, ins.Y = op, x, y
		return ins
	}
	xkk := func(op Op) Instruction {
		ins.Op, ins.X, ins.KK = op, x, kk
		return ins
	}
	onlyX := func(op Op) Instruction {
		ins.Op, ins.X = op, x
		return ins
	}
	addr := func(op Op) Instruction {
		ins.Op, ins.NNN = op, nnn
		return ins
	}

	switch op1 {
	case 0x0:
		if op2 != 0 {
			break
		}
		switch {
		case op3 == 0xB:
			ins.Op, ins.N = OpSCU, n
		case op3 == 0xC:
			ins.Op, ins.N = OpSCD, n
		case kk == 0xE0:
			ins.Op = OpCLS
		case kk == 0xEE:
			ins.Op = OpRET
		case kk == 0xFB:
			ins.Op = OpSCR
		case kk == 0xFC:
			ins.Op = OpSCL
		case kk == 0xFD:
			ins.Op = OpEXIT
		case kk == 0xFE:
			ins.Op = OpLOW
		case kk == 0xFF:
			ins.Op = OpHIGH
		}
	case 0x1:
		return addr(OpJP)
	case 0x2:
		return addr(OpCALL)
	case 0x3:
		return xkk(OpSEImm)
	case 0x4:
		return xkk(OpSNEImm)
	case 0x5:
		if op4 == 0x0 {
			return xy(OpSEReg)
		}
	case 0x6:
		return xkk(OpLDImm)
	case 0x7:
		return xkk(OpADDImm)
	case 0x8:
		switch op4 {
		case 0x0:
			return xy(OpLDReg)
		case 0x1:
			return xy(OpOR)
		case 0x2:
			return xy(OpAND)
		case 0x3:
			return xy(OpXOR)
		case 0x4:
			return xy(OpADDReg)
		case 0x5:
			return xy(OpSUB)
		case 0x6:
			return xy(OpSHR)
		case 0x7:
			return xy(OpSUBN)
		case 0xE:
			return xy(OpSHL)
		}
	case 0x9:
		if op4 == 0x0 {
			return xy(OpSNEReg)
		}
	case 0xA:
		return addr(OpLDI)
	case 0xB:
		return addr(OpJPV0)
	case 0xC:
		return xkk(OpRND)
	case 0xD:
		if n == 0 {
			return xy(OpDRW16)
		}
		ins.Op, ins.X, ins.Y, ins.N = OpDRW, x, y, n
	case 0xE:
		switch kk {
		case 0x9E:
			return onlyX(OpSKP)
		case 0xA1:
			return onlyX(OpSKNP)
		}
	case 0xF:
		switch kk {
		case 0x07:
			return onlyX(OpLDVxDT)
		case 0x0A:
			return onlyX(OpLDVxK)
		case 0x15:
			return onlyX(OpLDDTVx)
		case 0x18:
			return onlyX(OpLDSTVx)
		case 0x1E:
			return onlyX(OpADDI)
		case 0x29:
			return onlyX(OpLDF)
		case 0x30:
			return onlyX(OpLDHF)
		case 0x33:
			return onlyX(OpLDB)
		case 0x55:
			return onlyX(OpLDIVx)
		case 0x65:
			return onlyX(OpLDVxI)
		case 0x75:
			return onlyX(OpLDRVx)
		case 0x85:
			return onlyX(OpLDVxR)
		}
	}

	return ins
}

// Encode is the inverse of Decode. Fields not used by the instruction's Op
// are ignored.
func Encode(ins Instruction) uint16 {
	x := uint16(ins.X&0xF) << 8
	y := uint16(ins.Y&0xF) << 4
	n := uint16(ins.N & 0xF)
	kk := uint16(ins.KK)
	nnn := ins.NNN & 0x0FFF

	switch ins.Op {
	case OpCLS:
		return 0x00E0
	case OpRET:
		return 0x00EE
	case OpSCU:
		return 0x00B0 | n
	case OpSCD:
		return 0x00C0 | n
	case OpSCR:
		return 0x00FB
	case OpSCL:
		return 0x00FC
	case OpEXIT:
		return 0x00FD
	case OpLOW:
		return 0x00FE
	case OpHIGH:
		return 0x00FF
	case OpJP:
		return 0x1000 | nnn
	case OpCALL:
		return 0x2000 | nnn
	case OpSEImm:
		return 0x3000 | x | kk
	case OpSNEImm:
		return 0x4000 | x | kk
	case OpSEReg:
		return 0x5000 | x | y
	case OpLDImm:
		return 0x6000 | x | kk
	case OpADDImm:
		return 0x7000 | x | kk
	case OpLDReg:
		return 0x8000 | x | y
	case OpOR:
		return 0x8001 | x | y
	case OpAND:
		return 0x8002 | x | y
	case OpXOR:
		return 0x8003 | x | y
	case OpADDReg:
		return 0x8004 | x | y
	case OpSUB:
		return 0x8005 | x | y
	case OpSHR:
		return 0x8006 | x | y
	case OpSUBN:
		return 0x8007 | x | y
	case OpSHL:
		return 0x800E | x | y
	case OpSNEReg:
		return 0x9000 | x | y
	case OpLDI:
		return 0xA000 | nnn
	case OpJPV0:
		return 0xB000 | nnn
	case OpRND:
		return 0xC000 | x | kk
	case OpDRW:
		return 0xD000 | x | y | n
	case OpDRW16:
		return 0xD000 | x | y
	case OpSKP:
		return 0xE09E | x
	case OpSKNP:
		return 0xE0A1 | x
	case OpLDVxDT:
		return 0xF007 | x
	case OpLDVxK:
		return 0xF00A | x
	case OpLDDTVx:
		return 0xF015 | x
	case OpLDSTVx:
		return 0xF018 | x
	case OpADDI:
		return 0xF01E | x
	case OpLDF:
		return 0xF029 | x
	case OpLDHF:
		return 0xF030 | x
	case OpLDB:
		return 0xF033 | x
	case OpLDIVx:
		return 0xF055 | x
	case OpLDVxI:
		return 0xF065 | x
	case OpLDRVx:
		return 0xF075 | x
	case OpLDVxR:
		return 0xF085 | x
	}
	return ins.Opcode
}

// SuperChip reports whether the instruction only exists in the Super-CHIP
// instruction set.
func (ins Instruction) SuperChip() bool {
	switch ins.Op {
	case OpSCD, OpSCU, OpSCR, OpSCL, OpEXIT, OpLOW, OpHIGH, OpDRW16, OpLDHF, OpLDRVx, OpLDVxR:
		return true
	}
	return false
}

// String returns the instruction in assembler syntax.
func (ins Instruction) String() string {
	switch ins.Op {
	case OpCLS:
		return "CLS"
	case OpRET:
		return "RET"
	case OpSCD:
		return fmt.Sprintf("SCD $%X", ins.N)
	case OpSCU:
		return fmt.Sprintf("SCU $%X", ins.N)
	case OpSCR:
		return "SCR"
	case OpSCL:
		return "SCL"
	case OpEXIT:
		return "EXIT"
	case OpLOW:
		return "LOW"
	case OpHIGH:
		return "HIGH"
	case OpJP:
		return fmt.Sprintf("JP $%03X", ins.NNN)
	case OpCALL:
		return fmt.Sprintf("CALL $%03X", ins.NNN)
	case OpSEImm:
		return fmt.Sprintf("SE V%X, $%02X", ins.X, ins.KK)
	case OpSNEImm:
		return fmt.Sprintf("SNE V%X, $%02X", ins.X, ins.KK)
	case OpSEReg:
		return fmt.Sprintf("SE V%X, V%X", ins.X, ins.Y)
	case OpLDImm:
		return fmt.Sprintf("LD V%X, $%02X", ins.X, ins.KK)
	case OpADDImm:
		return fmt.Sprintf("ADD V%X, $%02X", ins.X, ins.KK)
	case OpLDReg:
		return fmt.Sprintf("LD V%X, V%X", ins.X, ins.Y)
	case OpOR:
		return fmt.Sprintf("OR V%X, V%X", ins.X, ins.Y)
	case OpAND:
		return fmt.Sprintf("AND V%X, V%X", ins.X, ins.Y)
	case OpXOR:
		return fmt.Sprintf("XOR V%X, V%X", ins.X, ins.Y)
	case OpADDReg:
		return fmt.Sprintf("ADD V%X, V%X", ins.X, ins.Y)
	case OpSUB:
		return fmt.Sprintf("SUB V%X, V%X", ins.X, ins.Y)
	case OpSHR:
		return fmt.Sprintf("SHR V%X, V%X", ins.X, ins.Y)
	case OpSUBN:
		return fmt.Sprintf("SUBN V%X, V%X", ins.X, ins.Y)
	case OpSHL:
		return fmt.Sprintf("SHL V%X, V%X", ins.X, ins.Y)
	case OpSNEReg:
		return fmt.Sprintf("SNE V%X, V%X", ins.X, ins.Y)
	case OpLDI:
		return fmt.Sprintf("LD I, $%03X", ins.NNN)
	case OpJPV0:
		return fmt.Sprintf("JP V0, $%03X", ins.NNN)
	case OpRND:
		return fmt.Sprintf("RND V%X, $%02X", ins.X, ins.KK)
	case OpDRW:
		return fmt.Sprintf("DRW V%X, V%X, $%X", ins.X, ins.Y, ins.N)
	case OpDRW16:
		return fmt.Sprintf("DRW V%X, V%X, $0", ins.X, ins.Y)
	case OpSKP:
		return fmt.Sprintf("SKP V%X", ins.X)
	case OpSKNP:
		return fmt.Sprintf("SKNP V%X", ins.X)
	case OpLDVxDT:
		return fmt.Sprintf("LD V%X, DT", ins.X)
	case OpLDVxK:
		return fmt.Sprintf("LD V%X, K", ins.X)
	case OpLDDTVx:
		return fmt.Sprintf("LD DT, V%X", ins.X)
	case OpLDSTVx:
		return fmt.Sprintf("LD ST, V%X", ins.X)
	case OpADDI:
		return fmt.Sprintf("ADD I, V%X", ins.X)
	case OpLDF:
		return fmt.Sprintf("LD F, V%X", ins.X)
	case OpLDHF:
		return fmt.Sprintf("LD HF, V%X", ins.X)
	case OpLDB:
		return fmt.Sprintf("LD B, V%X", ins.X)
	case OpLDIVx:
		return fmt.Sprintf("LD [I], V%X", ins.X)
	case OpLDVxI:
		return fmt.Sprintf("LD V%X, [I]", ins.X)
	case OpLDRVx:
		return fmt.Sprintf("LD R, V%X", ins.X)
	case OpLDVxR:
		return fmt.Sprintf("LD V%X, R", ins.X)
	}
	return fmt.Sprintf(".WORD $%04X", ins.Opcode)
}
