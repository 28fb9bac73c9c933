// Package keymap maps host keyboard keys to the 16 key hexadecimal keypad.
//
// The keypad is laid out on the left block of a QWERTY keyboard:
//
//	1 2 3 C      1 2 3 4
//	4 5 6 D  ->  Q W E R
//	7 8 9 E      A S D F
//	A 0 B F      Z X C V
package keymap

import "unicode"

// Runes holds the keyboard character of every keypad key, indexed by key.
var Runes = [16]rune{
	0x0: 'x',
	0x1: '1', 0x2: '2', 0x3: '3',
	0x4: 'q', 0x5: 'w', 0x6: 'e',
	0x7: 'a', 0x8: 's', 0x9: 'd',
	0xA: 'z', 0xB: 'c',
	0xC: '4', 0xD: 'r', 0xE: 'f', 0xF: 'v',
}

var byRune = func() map[rune]uint8 {
	m := make(map[rune]uint8, len(Runes))
	for key, r := range Runes {
		m[r] = uint8(key)
	}
	return m
}()

// KeyForRune returns the keypad key for a keyboard character. Letters are
// matched case-insensitively.
func KeyForRune(r rune) (uint8, bool) {
	key, ok := byRune[unicode.ToLower(r)]
	return key, ok
}
