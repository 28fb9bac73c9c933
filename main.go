//go:build !js

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/asm"
	"gochip8/pkg/config"
	"gochip8/pkg/cpu"
	"gochip8/pkg/options"
	"gochip8/pkg/rom"
	"gochip8/pkg/runner"
	"gochip8/pkg/utils"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

// runOptions configure a headless run of a program image.
type runOptions struct {
	program    options.Program
	cycles     int
	screenshot string
}

func main() {
	inPath := flag.String("in", "", "input assembly file path")
	outPath := flag.String("out", "", "output ROM file path (default: input with .ch8 extension)")
	runProgram := flag.Bool("run", false, "run the generated ROM file headless")
	runBinPath := flag.String("run-bin", "", "run an existing ROM file headless")
	disasmPath := flag.String("disasm", "", "print a disassembly listing of a ROM file")
	cycles := flag.Int("cycles", 1000, "number of instructions to execute when running")
	screenshot := flag.String("screenshot", "", "write the display as PNG after running")
	showVersion := flag.Bool("version", false, "print the version and exit")

	var prog options.Program
	flag.StringVar(&prog.Model, "m", cpu.ModelChip8.String(), "machine model to emulate (chip8, schip)")
	flag.IntVar(&prog.Speed, "speed", options.DefaultSpeed, "instructions executed per 60 Hz timer tick")
	flag.IntVar(&prog.Scale, "scale", 4, "screenshot pixels per display pixel")
	flag.Int64Var(&prog.Seed, "seed", 0, "seed of the random number generator, 0 seeds from the clock")
	flag.BoolVar(&prog.IncrementIndex, "increment-index", false, "advance I after LD [I], Vx and LD Vx, [I] as older interpreters did")
	flag.BoolVar(&prog.Trace, "trace", false, "log every executed instruction at debug level")
	flag.BoolVar(&prog.Quiet, "q", false, "perform operations quietly")
	flag.Parse()

	if *showVersion {
		fmt.Printf("gochip8 version: %s\n", buildinfo.Version(version, commit, date))
		return
	}

	if *runProgram && *runBinPath != "" {
		fmt.Fprintln(os.Stderr, "use either -run or -run-bin, not both")
		os.Exit(2)
	}

	if *disasmPath != "" {
		if err := disassembleFile(os.Stdout, *disasmPath); err != nil {
			fmt.Fprintf(os.Stderr, "disassembly failed for %q: %v\n", *disasmPath, err)
			os.Exit(1)
		}
		return
	}

	assembledOutput := ""
	if *inPath != "" {
		output := *outPath
		if output == "" {
			output = defaultOutputPath(*inPath)
		}

		size, err := assembleFile(*inPath, output)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if !prog.Quiet {
			fmt.Printf("assembled %d bytes -> %s\n", size, output)
		}
		assembledOutput = output
	}

	if *inPath == "" && *runBinPath == "" && !*runProgram {
		fmt.Fprintln(os.Stderr, "nothing to do: provide -in to assemble, -run to run assembled output, -run-bin <file> to run an existing ROM or -disasm <file> to list one")
		flag.Usage()
		os.Exit(2)
	}

	runTarget := ""
	switch {
	case *runBinPath != "":
		runTarget = *runBinPath
	case *runProgram:
		if assembledOutput == "" {
			fmt.Fprintln(os.Stderr, "-run requires -in, or use -run-bin <file>")
			os.Exit(2)
		}
		runTarget = assembledOutput
	default:
		return
	}

	opts := runOptions{
		program:    prog,
		cycles:     *cycles,
		screenshot: *screenshot,
	}
	opts.program.ROM = runTarget

	if err := runBinary(app.Context(), os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "run failed for %q: %v\n", runTarget, err)
		os.Exit(1)
	}
}

func defaultOutputPath(inPath string) string {
	return utils.ReplaceExt(inPath, ".ch8")
}

func assembleFile(inPath, outPath string) (int, error) {
	source, err := os.ReadFile(inPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read input file %q: %w", inPath, err)
	}

	code, _, err := asm.Assemble(string(source))
	if err != nil {
		return 0, fmt.Errorf("assembly failed: %w", err)
	}

	if err := writeBinary(outPath, code); err != nil {
		return 0, fmt.Errorf("failed to write ROM file %q: %w", outPath, err)
	}
	return len(code), nil
}

func writeBinary(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// disassembleFile writes one line per opcode of a ROM image. A trailing odd
// byte is listed as data.
func disassembleFile(w io.Writer, path string) error {
	data, err := rom.Load(path)
	if err != nil {
		return err
	}

	for offset := 0; offset < len(data); offset += 2 {
		addr := cpu.ProgramStart + offset
		if offset+1 == len(data) {
			if _, err := fmt.Fprintf(w, "$%03X: %02X    .BYTE $%02X\n", addr, data[offset], data[offset]); err != nil {
				return err
			}
			break
		}

		opcode := uint16(data[offset])<<8 | uint16(data[offset+1])
		if _, err := fmt.Fprintf(w, "$%03X: %04X  %s\n", addr, opcode, cpu.Decode(opcode)); err != nil {
			return err
		}
	}
	return nil
}

// runBinary executes a ROM headless and prints the final machine state. The
// timers are decremented once per speed instructions, as a host running at
// 60 Hz would.
func runBinary(ctx context.Context, w io.Writer, opts runOptions) error {
	logger := config.CreateLogger(opts.program)

	vm, err := execute(ctx, opts, logger)
	if vm == nil {
		return err
	}

	fmt.Fprintf(w,
		"run complete (%s): PC=0x%03X I=0x%03X SP=%d DT=%d V=[% X]\n",
		opts.program.ROM,
		vm.PC,
		vm.I,
		vm.SP,
		vm.DT,
		vm.V[:],
	)

	if opts.screenshot != "" {
		if err := vm.SaveScreenshot(opts.screenshot, opts.program.Scale); err != nil {
			return fmt.Errorf("saving screenshot: %w", err)
		}
		logger.Info("Screenshot saved", log.String("path", opts.screenshot))
	}
	return err
}

func execute(ctx context.Context, opts runOptions, logger *log.Logger) (*cpu.CPU, error) {
	program, err := rom.Load(opts.program.ROM)
	if err != nil {
		return nil, err
	}
	cfg, err := opts.program.CPUConfig(logger)
	if err != nil {
		return nil, err
	}
	speed := max(opts.program.Speed, 1)

	r, err := runner.New(program, cfg, speed, logger)
	if err != nil {
		return nil, err
	}

	for range opts.cycles / speed {
		if err := ctx.Err(); err != nil {
			return r.CPU, err
		}
		if err := r.Frame(); err != nil {
			return r.CPU, err
		}
	}
	return r.CPU, r.CPU.Run(opts.cycles % speed)
}
