package main

import (
	"gochip8/pkg/keymap"
	"gochip8/pkg/runner"
)

// holdFrames is how long a key stays pressed after its character arrived.
// Terminals report no key releases, auto repeat refreshes held keys.
const holdFrames = runner.FrameRate / 6

const (
	keyCtrlC  = 0x03
	keyTab    = 0x09
	keyEscape = 0x1B
)

type action int

const (
	actionNone action = iota
	actionQuit
	actionReset
)

// keyboard tracks the keypad state derived from terminal input.
type keyboard struct {
	remaining [16]int
}

// press handles one input character and returns the host action it triggers.
func (k *keyboard) press(b byte) action {
	switch b {
	case keyCtrlC, keyEscape:
		return actionQuit
	case keyTab:
		return actionReset
	}
	if key, ok := keymap.KeyForRune(rune(b)); ok {
		k.remaining[key] = holdFrames
	}
	return actionNone
}

// frame applies the keypad state to the runner and ages all held keys.
func (k *keyboard) frame(r *runner.Runner) {
	for key := range k.remaining {
		_ = r.SetKey(uint8(key), k.remaining[key] > 0)
		if k.remaining[key] > 0 {
			k.remaining[key]--
		}
	}
}
