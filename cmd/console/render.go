package main

import (
	"strings"

	"gochip8/pkg/grid"
)

const (
	cursorHome  = "\x1b[H"
	clearScreen = "\x1b[2J"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

// halfBlocks is indexed by top pixel | bottom pixel<<1.
var halfBlocks = [4]string{" ", "▀", "▄", "█"}

// render draws the framebuffer with one character per two pixel rows. Lines
// end in CR LF as the terminal is in raw mode.
func render(fb []bool, width, height int) string {
	var sb strings.Builder
	sb.Grow((width*3 + 2) * (height/2 + 1))

	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			cell := 0
			if fb[grid.GetIndex(x, y, width)] {
				cell |= 1
			}
			if y+1 < height && fb[grid.GetIndex(x, y+1, width)] {
				cell |= 2
			}
			sb.WriteString(halfBlocks[cell])
		}
		sb.WriteString("\r\n")
	}
	return sb.String()
}
