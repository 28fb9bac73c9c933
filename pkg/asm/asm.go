// Package asm implements a two-pass assembler for CHIP-8 and Super-CHIP
// programs using the conventional Cowgod mnemonics.
package asm

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"gochip8/pkg/cpu"
)

// Origin is the address of the first assembled byte.
const Origin = cpu.ProgramStart

const endOfMemory = cpu.MemorySize

var noOperandOps = map[string]cpu.Op{
	"CLS":  cpu.OpCLS,
	"RET":  cpu.OpRET,
	"SCR":  cpu.OpSCR,
	"SCL":  cpu.OpSCL,
	"EXIT": cpu.OpEXIT,
	"LOW":  cpu.OpLOW,
	"HIGH": cpu.OpHIGH,
}

var registerPairOps = map[string]cpu.Op{
	"OR":   cpu.OpOR,
	"AND":  cpu.OpAND,
	"XOR":  cpu.OpXOR,
	"SUB":  cpu.OpSUB,
	"SUBN": cpu.OpSUBN,
}

// mnemonics lists every instruction accepted by the assembler. All of them
// assemble to a single 2 byte opcode.
var mnemonics = map[string]bool{
	"SCD": true, "SCU": true, "JP": true, "CALL": true, "SE": true, "SNE": true,
	"LD": true, "ADD": true, "SHR": true, "SHL": true, "RND": true, "DRW": true,
	"SKP": true, "SKNP": true,
}

type Assembler struct {
	labels map[string]uint16
}

type parsedLine struct {
	lineNo   int
	labels   []string
	mnemonic string
	operands []string
}

func NewAssembler() *Assembler {
	return &Assembler{
		labels: make(map[string]uint16),
	}
}

// Assemble translates source code to a program image that is loaded at
// Origin. The returned source map links the address of every emitted
// instruction or data directive to its 1-based source line.
func Assemble(code string) ([]byte, map[uint16]int, error) {
	return NewAssembler().Assemble(code)
}

func (a *Assembler) Assemble(code string) ([]byte, map[uint16]int, error) {
	lines := strings.Split(code, "\n")

	if err := a.pass1(lines); err != nil {
		return nil, nil, err
	}

	return a.pass2(lines)
}

func (a *Assembler) pass1(lines []string) error {
	address := uint32(Origin)

	for i, raw := range lines {
		lineNo := i + 1
		p, err := parseLine(raw, lineNo)
		if err != nil {
			return err
		}

		for _, lbl := range p.labels {
			if address >= endOfMemory {
				return fmt.Errorf("label '%s' on line %d points past addressable memory", lbl, lineNo)
			}
			key := normalizeLabel(lbl)
			if _, exists := a.labels[key]; exists {
				return fmt.Errorf("duplicate label '%s' on line %d", lbl, lineNo)
			}
			a.labels[key] = uint16(address)
		}

		if p.mnemonic == "" {
			continue
		}

		if p.mnemonic == ".ORG" {
			target, err := parseOrigin(p.operands[0], address, lineNo)
			if err != nil {
				return err
			}
			address = target
			continue
		}

		length, err := p.length()
		if err != nil {
			return err
		}
		if address+length > endOfMemory {
			return fmt.Errorf("program too large near line %d", lineNo)
		}
		address += length
	}

	return nil
}

func (a *Assembler) pass2(lines []string) ([]byte, map[uint16]int, error) {
	program := make([]byte, 0)
	sourceMap := make(map[uint16]int)

	for i, raw := range lines {
		lineNo := i + 1
		p, err := parseLine(raw, lineNo)
		if err != nil {
			return nil, nil, err
		}

		if p.mnemonic == "" {
			continue
		}

		address := uint32(Origin + len(program))

		switch p.mnemonic {
		case ".ORG":
			target, err := parseOrigin(p.operands[0], address, lineNo)
			if err != nil {
				return nil, nil, err
			}
			program = append(program, make([]byte, target-address)...)
			continue

		case ".BYTE":
			sourceMap[uint16(address)] = lineNo
			for _, op := range p.operands {
				val, err := a.parseImmediate(op, 0xFF, lineNo)
				if err != nil {
					return nil, nil, err
				}
				program = append(program, byte(val))
			}
			continue

		case ".WORD":
			sourceMap[uint16(address)] = lineNo
			for _, op := range p.operands {
				val, err := a.parseImmediate(op, 0xFFFF, lineNo)
				if err != nil {
					return nil, nil, err
				}
				program = append(program, byte(val>>8), byte(val))
			}
			continue
		}

		ins, err := a.instruction(p)
		if err != nil {
			return nil, nil, err
		}
		sourceMap[uint16(address)] = lineNo
		opcode := cpu.Encode(ins)
		program = append(program, byte(opcode>>8), byte(opcode))
	}

	return program, sourceMap, nil
}

// instruction resolves the operands of a parsed line to an instruction.
func (a *Assembler) instruction(p parsedLine) (cpu.Instruction, error) {
	mnemonic, ops, lineNo := p.mnemonic, p.operands, p.lineNo

	expect := func(n int) error {
		if len(ops) != n {
			return fmt.Errorf("%s expects %d operands on line %d", mnemonic, n, lineNo)
		}
		return nil
	}

	if op, ok := noOperandOps[mnemonic]; ok {
		if err := expect(0); err != nil {
			return cpu.Instruction{}, err
		}
		return cpu.Instruction{Op: op}, nil
	}

	if op, ok := registerPairOps[mnemonic]; ok {
		if err := expect(2); err != nil {
			return cpu.Instruction{}, err
		}
		return a.registerPair(op, ops, lineNo)
	}

	switch mnemonic {
	case "SCD", "SCU":
		if err := expect(1); err != nil {
			return cpu.Instruction{}, err
		}
		n, err := a.parseImmediate(ops[0], 0xF, lineNo)
		if err != nil {
			return cpu.Instruction{}, err
		}
		op := cpu.OpSCD
		if mnemonic == "SCU" {
			op = cpu.OpSCU
		}
		return cpu.Instruction{Op: op, N: uint8(n)}, nil

	case "JP":
		if len(ops) == 2 {
			if x, ok := parseRegister(ops[0]); !ok || x != 0 {
				return cpu.Instruction{}, fmt.Errorf("JP with offset requires V0 on line %d", lineNo)
			}
			return a.address(cpu.OpJPV0, ops[1], lineNo)
		}
		if err := expect(1); err != nil {
			return cpu.Instruction{}, err
		}
		return a.address(cpu.OpJP, ops[0], lineNo)

	case "CALL":
		if err := expect(1); err != nil {
			return cpu.Instruction{}, err
		}
		return a.address(cpu.OpCALL, ops[0], lineNo)

	case "SE":
		if err := expect(2); err != nil {
			return cpu.Instruction{}, err
		}
		return a.registerOrByte(cpu.OpSEReg, cpu.OpSEImm, ops, lineNo)

	case "SNE":
		if err := expect(2); err != nil {
			return cpu.Instruction{}, err
		}
		return a.registerOrByte(cpu.OpSNEReg, cpu.OpSNEImm, ops, lineNo)

	case "ADD":
		if err := expect(2); err != nil {
			return cpu.Instruction{}, err
		}
		if strings.EqualFold(ops[0], "I") {
			x, err := register(ops[1], lineNo)
			return cpu.Instruction{Op: cpu.OpADDI, X: x}, err
		}
		return a.registerOrByte(cpu.OpADDReg, cpu.OpADDImm, ops, lineNo)

	case "SHR", "SHL":
		op := cpu.OpSHR
		if mnemonic == "SHL" {
			op = cpu.OpSHL
		}
		if len(ops) == 1 {
			x, err := register(ops[0], lineNo)
			return cpu.Instruction{Op: op, X: x}, err
		}
		if err := expect(2); err != nil {
			return cpu.Instruction{}, err
		}
		return a.registerPair(op, ops, lineNo)

	case "RND":
		if err := expect(2); err != nil {
			return cpu.Instruction{}, err
		}
		x, err := register(ops[0], lineNo)
		if err != nil {
			return cpu.Instruction{}, err
		}
		kk, err := a.parseImmediate(ops[1], 0xFF, lineNo)
		if err != nil {
			return cpu.Instruction{}, err
		}
		return cpu.Instruction{Op: cpu.OpRND, X: x, KK: uint8(kk)}, nil

	case "DRW":
		if err := expect(3); err != nil {
			return cpu.Instruction{}, err
		}
		ins, err := a.registerPair(cpu.OpDRW, ops[:2], lineNo)
		if err != nil {
			return cpu.Instruction{}, err
		}
		n, err := a.parseImmediate(ops[2], 0xF, lineNo)
		if err != nil {
			return cpu.Instruction{}, err
		}
		if n == 0 {
			ins.Op = cpu.OpDRW16
		}
		ins.N = uint8(n)
		return ins, nil

	case "SKP", "SKNP":
		if err := expect(1); err != nil {
			return cpu.Instruction{}, err
		}
		x, err := register(ops[0], lineNo)
		op := cpu.OpSKP
		if mnemonic == "SKNP" {
			op = cpu.OpSKNP
		}
		return cpu.Instruction{Op: op, X: x}, err

	case "LD":
		if err := expect(2); err != nil {
			return cpu.Instruction{}, err
		}
		return a.load(ops[0], ops[1], lineNo)
	}

	return cpu.Instruction{}, fmt.Errorf("unknown instruction on line %d: %s", lineNo, mnemonic)
}

// loadTargets maps the special destination operands of LD to the
// instruction that stores Vx into them.
var loadTargets = map[string]cpu.Op{
	"DT":  cpu.OpLDDTVx,
	"ST":  cpu.OpLDSTVx,
	"F":   cpu.OpLDF,
	"HF":  cpu.OpLDHF,
	"B":   cpu.OpLDB,
	"[I]": cpu.OpLDIVx,
	"R":   cpu.OpLDRVx,
}

// loadSources maps the special source operands of LD to the instruction
// that loads them into Vx.
var loadSources = map[string]cpu.Op{
	"DT":  cpu.OpLDVxDT,
	"K":   cpu.OpLDVxK,
	"[I]": cpu.OpLDVxI,
	"R":   cpu.OpLDVxR,
}

func (a *Assembler) load(dst, src string, lineNo int) (cpu.Instruction, error) {
	dstKey := strings.ToUpper(dst)

	if dstKey == "I" {
		return a.address(cpu.OpLDI, src, lineNo)
	}

	if op, ok := loadTargets[dstKey]; ok {
		x, err := register(src, lineNo)
		return cpu.Instruction{Op: op, X: x}, err
	}

	x, err := register(dst, lineNo)
	if err != nil {
		return cpu.Instruction{}, err
	}
	if op, ok := loadSources[strings.ToUpper(src)]; ok {
		return cpu.Instruction{Op: op, X: x}, nil
	}
	if y, ok := parseRegister(src); ok {
		return cpu.Instruction{Op: cpu.OpLDReg, X: x, Y: y}, nil
	}
	kk, err := a.parseImmediate(src, 0xFF, lineNo)
	return cpu.Instruction{Op: cpu.OpLDImm, X: x, KK: uint8(kk)}, err
}

func (a *Assembler) address(op cpu.Op, token string, lineNo int) (cpu.Instruction, error) {
	nnn, err := a.parseImmediate(token, 0xFFF, lineNo)
	return cpu.Instruction{Op: op, NNN: nnn}, err
}

func (a *Assembler) registerPair(op cpu.Op, ops []string, lineNo int) (cpu.Instruction, error) {
	x, err := register(ops[0], lineNo)
	if err != nil {
		return cpu.Instruction{}, err
	}
	y, err := register(ops[1], lineNo)
	if err != nil {
		return cpu.Instruction{}, err
	}
	return cpu.Instruction{Op: op, X: x, Y: y}, nil
}

// registerOrByte handles instructions whose second operand is either a
// register or an 8-bit immediate.
func (a *Assembler) registerOrByte(regOp, immOp cpu.Op, ops []string, lineNo int) (cpu.Instruction, error) {
	x, err := register(ops[0], lineNo)
	if err != nil {
		return cpu.Instruction{}, err
	}
	if y, ok := parseRegister(ops[1]); ok {
		return cpu.Instruction{Op: regOp, X: x, Y: y}, nil
	}
	kk, err := a.parseImmediate(ops[1], 0xFF, lineNo)
	return cpu.Instruction{Op: immOp, X: x, KK: uint8(kk)}, err
}

func parseLine(raw string, lineNo int) (parsedLine, error) {
	p := parsedLine{lineNo: lineNo}

	line := strings.TrimSpace(stripComments(raw))
	if line == "" {
		return p, nil
	}

	for {
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			break
		}

		beforeColon := strings.TrimSpace(line[:colon])
		if strings.ContainsAny(beforeColon, " \t") {
			break
		}

		if !isIdentifier(beforeColon) {
			return p, fmt.Errorf("invalid label '%s' on line %d", beforeColon, lineNo)
		}

		p.labels = append(p.labels, beforeColon)
		line = strings.TrimSpace(line[colon+1:])
		if line == "" {
			return p, nil
		}
	}

	fields := strings.Fields(normalizeInstructionText(line))
	if len(fields) == 0 {
		return p, nil
	}

	p.mnemonic = strings.ToUpper(fields[0])
	if len(fields) > 1 {
		p.operands = fields[1:]
	}

	switch p.mnemonic {
	case ".ORG":
		if len(p.operands) != 1 {
			return p, fmt.Errorf(".ORG expects exactly one operand on line %d", lineNo)
		}
	case ".BYTE", ".WORD":
		if len(p.operands) == 0 {
			return p, fmt.Errorf("%s expects at least one operand on line %d", p.mnemonic, lineNo)
		}
	}

	return p, nil
}

// length returns the number of bytes the line emits.
func (p parsedLine) length() (uint32, error) {
	switch p.mnemonic {
	case ".BYTE":
		return uint32(len(p.operands)), nil
	case ".WORD":
		return uint32(len(p.operands) * 2), nil
	}
	if _, ok := noOperandOps[p.mnemonic]; ok {
		return 2, nil
	}
	if _, ok := registerPairOps[p.mnemonic]; ok {
		return 2, nil
	}
	if mnemonics[p.mnemonic] {
		return 2, nil
	}
	return 0, fmt.Errorf("unknown instruction on line %d: %s", p.lineNo, p.mnemonic)
}

func parseOrigin(token string, address uint32, lineNo int) (uint32, error) {
	target, err := parseNumber(token)
	if err != nil {
		return 0, fmt.Errorf("invalid .ORG value on line %d: %s", lineNo, token)
	}
	if target < Origin || target > endOfMemory {
		return 0, fmt.Errorf(".ORG out of range on line %d: %s", lineNo, token)
	}
	if uint32(target) < address {
		return 0, fmt.Errorf("cannot move origin backward on line %d", lineNo)
	}
	return uint32(target), nil
}

func stripComments(line string) string {
	semicolon := strings.Index(line, ";")
	doubleSlash := strings.Index(line, "//")

	cut := -1
	if semicolon >= 0 {
		cut = semicolon
	}
	if doubleSlash >= 0 && (cut == -1 || doubleSlash < cut) {
		cut = doubleSlash
	}
	if cut >= 0 {
		return line[:cut]
	}
	return line
}

func normalizeInstructionText(line string) string {
	return strings.ReplaceAll(line, ",", " ")
}

// parseRegister parses V0 to VF.
func parseRegister(token string) (uint8, bool) {
	if len(token) != 2 || (token[0] != 'V' && token[0] != 'v') {
		return 0, false
	}
	val, err := strconv.ParseUint(token[1:], 16, 4)
	if err != nil {
		return 0, false
	}
	return uint8(val), true
}

func register(token string, lineNo int) (uint8, error) {
	x, ok := parseRegister(token)
	if !ok {
		return 0, fmt.Errorf("invalid register '%s' on line %d", token, lineNo)
	}
	return x, nil
}

// parseNumber accepts decimal, 0x/0b/0o prefixed and $ prefixed hex values.
func parseNumber(token string) (uint64, error) {
	if hex, ok := strings.CutPrefix(token, "$"); ok {
		return strconv.ParseUint(hex, 16, 32)
	}
	return strconv.ParseUint(token, 0, 32)
}

func (a *Assembler) parseImmediate(token string, limit uint16, lineNo int) (uint16, error) {
	if value, err := parseNumber(token); err == nil {
		if value > uint64(limit) {
			return 0, fmt.Errorf("immediate out of range on line %d: %s", lineNo, token)
		}
		return uint16(value), nil
	}

	label := normalizeLabel(token)
	if addr, ok := a.labels[label]; ok {
		if addr > limit {
			return 0, fmt.Errorf("label '%s' out of range on line %d", token, lineNo)
		}
		return addr, nil
	}

	if isIdentifier(token) {
		return 0, fmt.Errorf("undefined label '%s' on line %d", token, lineNo)
	}

	return 0, fmt.Errorf("invalid immediate '%s' on line %d", token, lineNo)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}
			continue
		}

		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}

	return true
}

func normalizeLabel(label string) string {
	return strings.ToUpper(label)
}
