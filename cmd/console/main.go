//go:build linux || darwin

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/config"
	"gochip8/pkg/cpu"
	"gochip8/pkg/options"
	"gochip8/pkg/rom"
	"gochip8/pkg/runner"
	"gochip8/pkg/statsview"
)

func main() {
	opts, err := options.ParseFlags("chip8-console", os.Args[1:])
	if err != nil {
		var usage *options.UsageError
		if errors.As(err, &usage) {
			usage.ShowUsage()
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := config.CreateLogger(opts)
	if opts.StatsView {
		statsview.Launch(logger)
	}

	program, err := rom.Load(opts.ROM)
	if err != nil {
		logger.Fatal("Loading program failed", log.Err(err))
	}
	cfg, err := opts.CPUConfig(logger)
	if err != nil {
		logger.Fatal("Invalid configuration", log.Err(err))
	}
	r, err := runner.New(program, cfg, opts.Speed, logger)
	if err != nil {
		logger.Fatal("Creating machine failed", log.Err(err))
	}

	term, err := newTerminal(os.Stdin, os.Stdout)
	if err != nil {
		logger.Fatal("Terminal setup failed", log.Err(err))
	}
	if err := term.RawMode(); err != nil {
		logger.Fatal("Switching terminal to raw mode failed", log.Err(err))
	}

	runErr := run(app.Context(), term, r)

	if err := term.CanonicalMode(); err != nil {
		logger.Error("Restoring terminal failed", log.Err(err))
	}
	if runErr != nil {
		logger.Fatal("Emulation stopped", log.Err(runErr))
	}
}

// run drives the machine at the frame rate until the context is canceled or
// the user quits.
func run(ctx context.Context, term *terminal, r *runner.Runner) error {
	keys := make(chan byte, 64)
	go term.readKeys(keys)

	ticker := time.NewTicker(time.Second / runner.FrameRate)
	defer ticker.Stop()

	var kb keyboard
	for {
		select {
		case <-ctx.Done():
			return nil

		case b, ok := <-keys:
			if !ok {
				return errors.New("terminal input closed")
			}
			switch kb.press(b) {
			case actionQuit:
				return nil
			case actionReset:
				if err := r.Reset(); err != nil {
					return err
				}
			}

		case <-ticker.C:
			kb.frame(r)
			frameErr := r.Frame()
			if _, err := term.output.WriteString(screen(r.CPU, frameErr)); err != nil {
				return err
			}
		}
	}
}

func screen(c *cpu.CPU, frameErr error) string {
	status := "Esc: quit  Tab: reset"
	if frameErr != nil {
		status = "HALTED: " + frameErr.Error() + "  Tab: reset"
	}
	return cursorHome + render(c.Framebuffer(), c.Width(), c.Height()) + status + "\x1b[K"
}
