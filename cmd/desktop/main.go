package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/config"
	"gochip8/pkg/options"
	"gochip8/pkg/rom"
	"gochip8/pkg/runner"
	"gochip8/pkg/statsview"
	"gochip8/pkg/utils"
)

func main() {
	opts, err := options.ParseFlags("chip8-desktop", os.Args[1:])
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

	game := NewGame(r, opts.Scale, logger)
	w, h := game.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	_, name, err := utils.GetPathInfo(opts.ROM)
	if err != nil {
		name = opts.ROM
	}
	ebiten.SetWindowTitle("gochip8 - " + name)
	ebiten.SetTPS(runner.FrameRate)

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("Running game failed", log.Err(err))
	}
}
