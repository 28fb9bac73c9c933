// Package options contains the program options shared by the emulator hosts.
package options

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/cpu"
	"gochip8/pkg/random"
)

const (
	// DefaultSpeed is the number of instructions executed per 60 Hz frame.
	DefaultSpeed = 10
	DefaultScale = 8
)

// Program contains the options of a host program run.
type Program struct {
	ROM   string
	Model string
	Speed int
	Scale int

	Seed           int64
	IncrementIndex bool

	Trace     bool
	Debug     bool
	Quiet     bool
	StatsView bool
}

// ParseFlags parses the command line arguments of a host. The ROM path is
// the only positional argument.
func ParseFlags(name string, args []string) (Program, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts Program
	readOptionFlags(flags, &opts)

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{flags: flags, name: name, msg: err.Error()}
	}

	rest := flags.Args()
	switch {
	case len(rest) == 0:
		return opts, &UsageError{flags: flags, name: name, msg: "missing ROM file"}
	case len(rest) > 1:
		return opts, &UsageError{
			flags: flags,
			name:  name,
			msg:   fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", rest[1]),
		}
	}
	opts.ROM = rest[0]

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	name  string
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: %s [options] <ROM file>\n\n", e.name)
	e.flags.SetOutput(os.Stdout)
	e.flags.PrintDefaults()
	fmt.Println()
}

func readOptionFlags(flags *flag.FlagSet, opts *Program) {
	flags.StringVar(&opts.Model, "m", cpu.ModelChip8.String(), "machine model to emulate (chip8, schip)")
	flags.IntVar(&opts.Speed, "speed", DefaultSpeed, "instructions executed per 60 Hz frame")
	flags.IntVar(&opts.Scale, "scale", DefaultScale, "window pixels per display pixel")
	flags.Int64Var(&opts.Seed, "seed", 0, "seed of the random number generator, 0 seeds from the clock")
	flags.BoolVar(&opts.IncrementIndex, "increment-index", false, "advance I after LD [I], Vx and LD Vx, [I] as older interpreters did")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction at debug level")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.StatsView, "statsview", false, "serve runtime statistics over HTTP (requires the statsview build tag)")
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *Program) error {
	opts.Model = strings.ToLower(opts.Model)
	if _, err := opts.CPUModel(); err != nil {
		return err
	}
	if opts.Speed < 1 {
		return fmt.Errorf("invalid speed %d: must be at least 1", opts.Speed)
	}
	if opts.Scale < 1 {
		return fmt.Errorf("invalid scale %d: must be at least 1", opts.Scale)
	}
	return nil
}

// CPUModel returns the machine model selected by the Model option.
func (p Program) CPUModel() (cpu.Model, error) {
	switch strings.ToLower(p.Model) {
	case "", "chip8", "chip-8":
		return cpu.ModelChip8, nil
	case "schip", "superchip", "super-chip":
		return cpu.ModelSuperChip, nil
	}
	return 0, fmt.Errorf("unsupported model: %s. Valid options: chip8, schip", p.Model)
}

// CPUConfig converts the options to a CPU configuration.
func (p Program) CPUConfig(logger *log.Logger) (cpu.Config, error) {
	model, err := p.CPUModel()
	if err != nil {
		return cpu.Config{}, err
	}

	cfg := cpu.Config{
		Model:          model,
		IncrementIndex: p.IncrementIndex,
		Logger:         logger,
		Trace:          p.Trace,
	}
	if p.Seed != 0 {
		cfg.Random = random.NewSeeded(p.Seed)
	}
	return cfg, nil
}
