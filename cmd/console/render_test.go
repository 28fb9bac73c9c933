package main

import (
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/cpu"
	"gochip8/pkg/runner"
)

func TestRender(t *testing.T) {
	// 3x3 image: top row lit, middle column lit, bottom left lit.
	fb := []bool{
		true, true, true,
		false, true, false,
		true, false, false,
	}

	got := render(fb, 3, 3)
	want := "▀█▀\r\n▀  \r\n"
	if got != want {
		t.Errorf("render = %q; want %q", got, want)
	}
}

func TestRenderDisplaySize(t *testing.T) {
	fb := make([]bool, cpu.HighResWidth*cpu.HighResHeight)
	lines := strings.Split(strings.TrimSuffix(render(fb, cpu.HighResWidth, cpu.HighResHeight), "\r\n"), "\r\n")

	if len(lines) != cpu.HighResHeight/2 {
		t.Fatalf("expected %d lines, got %d", cpu.HighResHeight/2, len(lines))
	}
	if len(lines[0]) != cpu.HighResWidth {
		t.Errorf("expected %d columns, got %d", cpu.HighResWidth, len(lines[0]))
	}
}

func TestKeyboard(t *testing.T) {
	r, err := runner.New([]byte{0x12, 0x00}, cpu.Config{}, 1, log.NewTestLogger(t))
	if err != nil {
		t.Fatalf("runner.New: %v", err)
	}

	var kb keyboard
	if a := kb.press('w'); a != actionNone {
		t.Errorf("press('w') = %d; want actionNone", a)
	}
	if a := kb.press(keyTab); a != actionReset {
		t.Errorf("press(Tab) = %d; want actionReset", a)
	}
	if a := kb.press(keyEscape); a != actionQuit {
		t.Errorf("press(Esc) = %d; want actionQuit", a)
	}
	if a := kb.press(keyCtrlC); a != actionQuit {
		t.Errorf("press(Ctrl-C) = %d; want actionQuit", a)
	}

	for i := 0; i < holdFrames; i++ {
		kb.frame(r)
		if r.CPU.Keypad != 1<<5 {
			t.Fatalf("frame %d: expected key 5 held, keypad 0x%04X", i, r.CPU.Keypad)
		}
	}
	kb.frame(r)
	if r.CPU.Keypad != 0 {
		t.Errorf("expected key 5 released after %d frames, keypad 0x%04X", holdFrames, r.CPU.Keypad)
	}
}
