// Package runner drives a CPU at a fixed frame rate on behalf of a host.
package runner

import (
	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/cpu"
)

// FrameRate is the rate in Hz at which hosts call Frame and at which the
// timers count down.
const FrameRate = 60

// Runner owns the CPU of a loaded program image and can recreate it from the
// same image on reset.
type Runner struct {
	CPU *cpu.CPU

	rom    []byte
	cfg    cpu.Config
	speed  int
	logger *log.Logger
}

// New creates a runner executing speed instructions per frame.
func New(rom []byte, cfg cpu.Config, speed int, logger *log.Logger) (*Runner, error) {
	c, err := cpu.NewCPU(rom, cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("Program loaded",
		log.Int("size", len(rom)),
		log.Stringer("model", cfg.Model),
		log.Int("speed", speed))

	return &Runner{
		CPU:    c,
		rom:    rom,
		cfg:    cfg,
		speed:  speed,
		logger: logger,
	}, nil
}

// Frame executes one frame worth of instructions and then decrements the
// timers once. An execution error halts the program; it is logged once and
// returned by this and all later frames until Reset.
func (r *Runner) Frame() error {
	if r.CPU.Halted {
		return r.CPU.Err()
	}

	for range r.speed {
		if _, err := r.CPU.Tick(); err != nil {
			r.logger.Error("Execution stopped", log.Err(err))
			return err
		}
	}
	r.CPU.DecrementTimer()
	return nil
}

// Reset reloads the program image into a new machine. Pressed keys are kept.
func (r *Runner) Reset() error {
	c, err := cpu.NewCPU(r.rom, r.cfg)
	if err != nil {
		return err
	}
	c.Keypad = r.CPU.Keypad
	r.CPU = c

	r.logger.Info("Machine reset")
	return nil
}

// SetKey updates the pressed state of a keypad key.
func (r *Runner) SetKey(key uint8, pressed bool) error {
	return r.CPU.SetKey(key, pressed)
}

// Halted reports whether the program stopped with an error.
func (r *Runner) Halted() bool {
	return r.CPU.Halted
}
