package cpu

import "errors"

var (
	// ErrUnsupportedOpcode is returned by Tick for opcodes that are unknown or
	// not implemented in the current model and display mode.
	ErrUnsupportedOpcode = errors.New("unsupported opcode")

	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")

	// ErrHalted is returned by Tick once a previous tick failed.
	ErrHalted = errors.New("cpu halted")

	ErrKeyOutOfRange   = errors.New("key index out of range")
	ErrProgramTooLarge = errors.New("program too large for memory")
)
