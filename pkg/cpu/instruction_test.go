package cpu

import (
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		opcode uint16
		want   Instruction
	}{
		{0x00E0, Instruction{Op: OpCLS, Opcode: 0x00E0}},
		{0x00EE, Instruction{Op: OpRET, Opcode: 0x00EE}},
		{0x00C5, Instruction{Op: OpSCD, Opcode: 0x00C5, N: 5}},
		{0x00B2, Instruction{Op: OpSCU, Opcode: 0x00B2, N: 2}},
		{0x00FB, Instruction{Op: OpSCR, Opcode: 0x00FB}},
		{0x00FC, Instruction{Op: OpSCL, Opcode: 0x00FC}},
		{0x00FD, Instruction{Op: OpEXIT, Opcode: 0x00FD}},
		{0x00FE, Instruction{Op: OpLOW, Opcode: 0x00FE}},
		{0x00FF, Instruction{Op: OpHIGH, Opcode: 0x00FF}},
		{0x1ABC, Instruction{Op: OpJP, Opcode: 0x1ABC, NNN: 0xABC}},
		{0x2ABC, Instruction{Op: OpCALL, Opcode: 0x2ABC, NNN: 0xABC}},
		{0x3A12, Instruction{Op: OpSEImm, Opcode: 0x3A12, X: 0xA, KK: 0x12}},
		{0x5AB0, Instruction{Op: OpSEReg, Opcode: 0x5AB0, X: 0xA, Y: 0xB}},
		{0x8AB6, Instruction{Op: OpSHR, Opcode: 0x8AB6, X: 0xA, Y: 0xB}},
		{0x8ABE, Instruction{Op: OpSHL, Opcode: 0x8ABE, X: 0xA, Y: 0xB}},
		{0xBABC, Instruction{Op: OpJPV0, Opcode: 0xBABC, NNN: 0xABC}},
		{0xD125, Instruction{Op: OpDRW, Opcode: 0xD125, X: 1, Y: 2, N: 5}},
		{0xD120, Instruction{Op: OpDRW16, Opcode: 0xD120, X: 1, Y: 2}},
		{0xE59E, Instruction{Op: OpSKP, Opcode: 0xE59E, X: 5}},
		{0xF30A, Instruction{Op: OpLDVxK, Opcode: 0xF30A, X: 3}},
		{0xF430, Instruction{Op: OpLDHF, Opcode: 0xF430, X: 4}},
		{0xF755, Instruction{Op: OpLDIVx, Opcode: 0xF755, X: 7}},
		{0xF765, Instruction{Op: OpLDVxI, Opcode: 0xF765, X: 7}},
		{0x0123, Instruction{Op: OpInvalid, Opcode: 0x0123}},
		{0x5121, Instruction{Op: OpInvalid, Opcode: 0x5121}},
		{0x9AB0, Instruction{Op: OpSNEReg, Opcode: 0x9AB0, X: 0xA, Y: 0xB}},
		{0x9121, Instruction{Op: OpInvalid, Opcode: 0x9121}},
		{0x8128, Instruction{Op: OpInvalid, Opcode: 0x8128}},
		{0xE1FF, Instruction{Op: OpInvalid, Opcode: 0xE1FF}},
		{0xFFFF, Instruction{Op: OpInvalid, Opcode: 0xFFFF}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Decode(tt.opcode))
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	for v := 0; v <= 0xFFFF; v++ {
		opcode := uint16(v)
		ins := Decode(opcode)
		if got := Encode(ins); got != opcode {
			t.Fatalf("Encode(Decode(0x%04X)) = 0x%04X (%s)", opcode, got, ins)
		}
	}
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		opcode uint16
		want   string
	}{
		{0x00E0, "CLS"},
		{0x00C3, "SCD $3"},
		{0x1228, "JP $228"},
		{0x6A0F, "LD VA, $0F"},
		{0x8AB4, "ADD VA, VB"},
		{0xA2F0, "LD I, $2F0"},
		{0xB300, "JP V0, $300"},
		{0xD01F, "DRW V0, V1, $F"},
		{0xD010, "DRW V0, V1, $0"},
		{0xF10A, "LD V1, K"},
		{0xF155, "LD [I], V1"},
		{0xF265, "LD V2, [I]"},
		{0xF233, "LD B, V2"},
		{0x5121, ".WORD $5121"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Decode(tt.opcode).String())
	}
}

func TestSuperChipInstructions(t *testing.T) {
	for _, opcode := range []uint16{0x00C1, 0x00B1, 0x00FB, 0x00FC, 0x00FD, 0x00FE, 0x00FF, 0xD120, 0xF130, 0xF175, 0xF185} {
		assert.True(t, Decode(opcode).SuperChip(), "opcode 0x%04X", opcode)
	}
	for _, opcode := range []uint16{0x00E0, 0x00EE, 0x1200, 0xD121, 0xF129, 0xF155} {
		assert.False(t, Decode(opcode).SuperChip(), "opcode 0x%04X", opcode)
	}
}

// lookupMnemonic finds the mnemonic of a classic opcode in the retrogolib
// instruction table.
func lookupMnemonic(opcode uint16) string {
	for _, op := range chip8.Opcodes[int(opcode>>12)] {
		if op.Info.Mask&opcode == op.Info.Value && op.Instruction != nil {
			return op.Instruction.Name
		}
	}
	return ""
}

func TestDecodeMatchesInstructionTable(t *testing.T) {
	for _, opcode := range []uint16{0x1234, 0x2345, 0x3122, 0x4122, 0x6122, 0x7122, 0x8121, 0x8125, 0x9120, 0xA123, 0xC1FF, 0xD125, 0xE19E, 0xE1A1} {
		mnemonic, _, _ := strings.Cut(Decode(opcode).String(), " ")
		assert.True(t, strings.EqualFold(mnemonic, lookupMnemonic(opcode)), "opcode 0x%04X", opcode)
	}
}
