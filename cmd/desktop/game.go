package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/cpu"
	"gochip8/pkg/runner"
)

// keypad holds the host key of every keypad key, indexed by key. It follows
// the layout of keymap.Runes.
var keypad = [16]ebiten.Key{
	0x0: ebiten.KeyX,
	0x1: ebiten.KeyDigit1, 0x2: ebiten.KeyDigit2, 0x3: ebiten.KeyDigit3,
	0x4: ebiten.KeyQ, 0x5: ebiten.KeyW, 0x6: ebiten.KeyE,
	0x7: ebiten.KeyA, 0x8: ebiten.KeyS, 0x9: ebiten.KeyD,
	0xA: ebiten.KeyZ, 0xB: ebiten.KeyC,
	0xC: ebiten.KeyDigit4, 0xD: ebiten.KeyR, 0xE: ebiten.KeyF, 0xF: ebiten.KeyV,
}

type Game struct {
	runner  *runner.Runner
	logger  *log.Logger
	scale   int
	palette cpu.Palette

	displayImg *ebiten.Image // reused framebuffer sized canvas
	halted     bool
}

func NewGame(r *runner.Runner, scale int, logger *log.Logger) *Game {
	return &Game{
		runner:  r,
		logger:  logger,
		scale:   scale,
		palette: cpu.DefaultPalette,
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		if err := g.runner.Reset(); err != nil {
			return err
		}
	}

	for key, hostKey := range keypad {
		_ = g.runner.SetKey(uint8(key), ebiten.IsKeyPressed(hostKey))
	}

	// Execution errors stop the program but keep the window open for a reset.
	halted := g.runner.Frame() != nil
	if halted && !g.halted {
		g.logger.Info("Press Tab to reload the program")
	}
	g.halted = halted
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	vm := g.runner.CPU
	w, h := vm.Width(), vm.Height()

	if g.displayImg == nil || g.displayImg.Bounds().Dx() != w || g.displayImg.Bounds().Dy() != h {
		g.displayImg = ebiten.NewImage(w, h)
	}
	g.displayImg.WritePixels(vm.GetFramebufferRGBA(g.palette))

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.displayImg, op)

	if g.halted {
		ebitenutil.DebugPrintAt(screen, "HALTED - press Tab to reset", 4, 4)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	vm := g.runner.CPU
	return vm.Width() * g.scale, vm.Height() * g.scale
}
