package cpu

import (
	"fmt"
	"math/bits"

	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/random"
)

const (
	MemorySize = 0x1000
	// ProgramStart is where program images are loaded and where execution begins.
	ProgramStart = 0x200
	// MaxProgramSize is the largest image that fits between ProgramStart and the end of memory.
	MaxProgramSize = MemorySize - ProgramStart

	StackSize = 16
	NumKeys   = 16

	// LowResWidth and LowResHeight are the dimensions of the standard display.
	LowResWidth  = 64
	LowResHeight = 32
	// HighResWidth and HighResHeight are the dimensions of the extended display.
	HighResWidth  = 128
	HighResHeight = 64

	addrMask = MemorySize - 1
)

// Model selects the instruction set and framebuffer size.
type Model uint8

const (
	// ModelChip8 is the original instruction set on a 64x32 display.
	ModelChip8 Model = iota
	// ModelSuperChip adds the Super-CHIP instructions and a 128x64 display.
	ModelSuperChip
)

func (m Model) String() string {
	switch m {
	case ModelChip8:
		return "chip8"
	case ModelSuperChip:
		return "schip"
	}
	return fmt.Sprintf("Model(%d)", uint8(m))
}

// RandomSource supplies the bytes used by RND.
type RandomSource interface {
	Intn(n int) int
}

// Config holds construction time settings of a CPU. The zero value is a
// standard CHIP-8 with process level randomness and no logging.
type Config struct {
	Model Model

	// IncrementIndex makes LD [I], Vx and LD Vx, [I] advance I past the last
	// register transferred. Some older programs expect this; by default I is
	// left unchanged.
	IncrementIndex bool

	Random RandomSource
	Logger *log.Logger
	// Trace logs every executed instruction at debug level. Requires Logger.
	Trace bool
}

type CPU struct {
	V  [16]uint8
	I  uint16
	PC uint16

	Stack [StackSize]uint16
	SP    uint8

	DT uint8
	// ST is tracked but has no side effect; there is no audio output.
	ST uint8

	// Keypad holds one bit per key, set while the key is pressed.
	Keypad uint16

	Memory [MemorySize]byte

	Halted bool
	err    error

	model          Model
	hires          bool
	width          int
	height         int
	display        [HighResWidth * HighResHeight]bool
	incrementIndex bool
	rnd            RandomSource
	logger         *log.Logger
	trace          bool
}

// NewCPU creates a CPU with the fonts and program loaded and PC at
// ProgramStart. The program is rejected if it does not fit into memory.
func NewCPU(program []byte, cfg Config) (*CPU, error) {
	if len(program) > MaxProgramSize {
		return nil, fmt.Errorf("%w: %d bytes > %d bytes", ErrProgramTooLarge, len(program), MaxProgramSize)
	}

	c := &CPU{
		PC:             ProgramStart,
		model:          cfg.Model,
		incrementIndex: cfg.IncrementIndex,
		rnd:            cfg.Random,
		logger:         cfg.Logger,
		trace:          cfg.Trace && cfg.Logger != nil,
	}
	if c.rnd == nil {
		c.rnd = random.NewRandom()
	}

	switch cfg.Model {
	case ModelSuperChip:
		c.width, c.height = HighResWidth, HighResHeight
	default:
		c.model = ModelChip8
		c.width, c.height = LowResWidth, LowResHeight
	}

	copy(c.Memory[FontAddress:], fontSet[:])
	copy(c.Memory[LargeFontAddress:], largeFontSet[:])
	copy(c.Memory[ProgramStart:], program)
	return c, nil
}

func (c *CPU) Model() Model {
	return c.model
}

// HighRes reports whether the extended display mode is active.
func (c *CPU) HighRes() bool {
	return c.hires
}

// Err returns the error that halted the CPU, if any.
func (c *CPU) Err() error {
	return c.err
}

// DecrementTimer counts the delay and sound timers down by one, stopping at
// zero. Hosts call it at a fixed rate (60 Hz) independent of the tick rate.
func (c *CPU) DecrementTimer() {
	if c.DT > 0 {
		c.DT--
	}
	if c.ST > 0 {
		c.ST--
	}
}

// SetKey updates the pressed state of a single keypad key.
func (c *CPU) SetKey(index uint8, pressed bool) error {
	if index >= NumKeys {
		return fmt.Errorf("%w: %d", ErrKeyOutOfRange, index)
	}
	if pressed {
		c.Keypad |= 1 << index
	} else {
		c.Keypad &^= 1 << index
	}
	return nil
}

// Tick executes a single instruction and returns it. Any error is fatal for
// the loaded program: the CPU halts and later calls return ErrHalted.
func (c *CPU) Tick() (Instruction, error) {
	if c.Halted {
		return Instruction{}, fmt.Errorf("%w: %w", ErrHalted, c.err)
	}

	pc := c.PC
	ins := Decode(c.fetch())
	c.PC += 2

	if c.trace {
		c.logger.Debug("Executing instruction",
			log.Hex("pc", pc),
			log.Hex("opcode", ins.Opcode),
			log.String("instruction", ins.String()))
	}

	if err := c.execute(ins); err != nil {
		c.Halted = true
		c.err = fmt.Errorf("at $%03X: %w", pc, err)
		return ins, c.err
	}
	return ins, nil
}

// Run executes up to n instructions and stops at the first error.
func (c *CPU) Run(n int) error {
	for i := 0; i < n; i++ {
		if _, err := c.Tick(); err != nil {
			return err
		}
	}
	return nil
}

func (c *CPU) fetch() uint16 {
	return uint16(c.read(c.PC))<<8 | uint16(c.read(c.PC+1))
}

func (c *CPU) read(addr uint16) byte {
	return c.Memory[addr&addrMask]
}

func (c *CPU) write(addr uint16, val byte) {
	c.Memory[addr&addrMask] = val
}

// pressedKey returns the lowest numbered key that is currently pressed.
func (c *CPU) pressedKey() (uint8, bool) {
	if c.Keypad == 0 {
		return 0, false
	}
	return uint8(bits.TrailingZeros16(c.Keypad)), true
}

func (c *CPU) keyPressed(key uint8) bool {
	return c.Keypad&(1<<(key&0xF)) != 0
}

func (c *CPU) skipIf(cond bool) {
	if cond {
		c.PC += 2
	}
}

func unsupported(ins Instruction, reason string) error {
	return fmt.Errorf("%w $%04X (%s): %s", ErrUnsupportedOpcode, ins.Opcode, ins, reason)
}

func (c *CPU) execute(ins Instruction) error {
	if ins.SuperChip() && c.model != ModelSuperChip && ins.Op != OpDRW16 {
		return unsupported(ins, "Super-CHIP instruction on a CHIP-8 machine")
	}

	x, y := ins.X, ins.Y
	v := &c.V

	switch ins.Op {
	case OpInvalid:
		return unsupported(ins, "unknown instruction")

	case OpCLS:
		c.clearDisplay()

	case OpRET:
		if c.SP == 0 {
			return ErrStackUnderflow
		}
		c.SP--
		c.PC = c.Stack[c.SP]

	case OpJP:
		c.PC = ins.NNN

	case OpJPV0:
		c.PC = ins.NNN + uint16(v[0])

	case OpCALL:
		if int(c.SP) >= StackSize {
			return ErrStackOverflow
		}
		c.Stack[c.SP] = c.PC
		c.SP++
		c.PC = ins.NNN

	case OpSEImm:
		c.skipIf(v[x] == ins.KK)

	case OpSNEImm:
		c.skipIf(v[x] != ins.KK)

	case OpSEReg:
		c.skipIf(v[x] == v[y])

	case OpSNEReg:
		c.skipIf(v[x] != v[y])

	case OpLDImm:
		v[x] = ins.KK

	case OpADDImm:
		v[x] += ins.KK

	case OpLDReg:
		v[x] = v[y]

	case OpOR:
		v[x] |= v[y]

	case OpAND:
		v[x] &= v[y]

	case OpXOR:
		v[x] ^= v[y]

	case OpADDReg:
		sum := uint16(v[x]) + uint16(v[y])
		v[x] = uint8(sum)
		v[0xF] = boolToByte(sum > 0xFF)

	case OpSUB:
		noBorrow := v[x] >= v[y]
		v[x] -= v[y]
		v[0xF] = boolToByte(noBorrow)

	case OpSUBN:
		noBorrow := v[y] >= v[x]
		v[x] = v[y] - v[x]
		v[0xF] = boolToByte(noBorrow)

	// The shifts read Vx; Vy is ignored.
	case OpSHR:
		v[0xF] = v[x] & 0x01
		v[x] >>= 1

	case OpSHL:
		v[0xF] = v[x] >> 7
		v[x] <<= 1

	case OpLDI:
		c.I = ins.NNN

	case OpADDI:
		c.I += uint16(v[x])

	case OpRND:
		v[x] = uint8(c.rnd.Intn(256)) & ins.KK

	case OpDRW:
		v[0xF] = boolToByte(c.drawSprite(v[x], v[y], ins.N))

	case OpDRW16:
		if !c.hires {
			v[0xF] = 0
			break
		}
		v[0xF] = boolToByte(c.drawLargeSprite(v[x], v[y]))

	case OpSKP:
		c.skipIf(c.keyPressed(v[x]))

	case OpSKNP:
		c.skipIf(!c.keyPressed(v[x]))

	case OpLDVxDT:
		v[x] = c.DT

	case OpLDDTVx:
		c.DT = v[x]

	case OpLDSTVx:
		c.ST = v[x]

	case OpLDVxK:
		key, ok := c.pressedKey()
		if !ok {
			c.PC -= 2
			break
		}
		v[x] = key

	case OpLDF:
		c.I = FontAddress + uint16(v[x])*fontGlyphSize

	case OpLDHF:
		if !c.hires {
			return unsupported(ins, "large font requires high resolution mode")
		}
		c.I = LargeFontAddress + uint16(v[x])*largeFontGlyphSize

	case OpLDB:
		val := v[x]
		c.write(c.I, val/100)
		c.write(c.I+1, val/10%10)
		c.write(c.I+2, val%10)

	case OpLDIVx:
		for i := uint16(0); i <= uint16(x); i++ {
			c.write(c.I+i, v[i])
		}
		if c.incrementIndex {
			c.I += uint16(x) + 1
		}

	case OpLDVxI:
		for i := uint16(0); i <= uint16(x); i++ {
			v[i] = c.read(c.I + i)
		}
		if c.incrementIndex {
			c.I += uint16(x) + 1
		}

	case OpSCD:
		c.scrollDown(int(ins.N))

	case OpSCU:
		c.scrollUp(int(ins.N))

	case OpSCR:
		c.scrollRight(scrollColumns)

	case OpSCL:
		c.scrollLeft(scrollColumns)

	case OpLOW:
		c.hires = false

	case OpHIGH:
		c.hires = true

	case OpEXIT:
		return unsupported(ins, "interpreter exit is not supported")

	case OpLDRVx, OpLDVxR:
		return unsupported(ins, "RPL user flags are not supported")

	default:
		return unsupported(ins, "not implemented")
	}

	return nil
}

func boolToByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
