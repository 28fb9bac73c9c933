package cpu

import "gochip8/pkg/grid"

// scrollColumns is the distance of the horizontal scroll instructions.
const scrollColumns = 4

// Framebuffer returns the display in row-major order, width*height entries.
// The slice aliases CPU memory and must be treated as read only.
func (c *CPU) Framebuffer() []bool {
	return c.display[:c.width*c.height]
}

func (c *CPU) Width() int {
	return c.width
}

func (c *CPU) Height() int {
	return c.height
}

// Pixel reports whether the framebuffer pixel at x, y is lit.
func (c *CPU) Pixel(x, y int) bool {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return false
	}
	return c.display[grid.GetIndex(x, y, c.width)]
}

// drawGeometry returns the logical size of the display as addressed by
// sprites, and how many framebuffer pixels one sprite pixel covers.
// A Super-CHIP in low resolution mode doubles every pixel.
func (c *CPU) drawGeometry() (width, height, scale int) {
	if c.model == ModelSuperChip && !c.hires {
		return LowResWidth, LowResHeight, 2
	}
	return c.width, c.height, 1
}

// flip toggles a logical pixel and reports whether any lit pixel was cleared.
func (c *CPU) flip(x, y, scale int) bool {
	collision := false
	for dy := 0; dy < scale; dy++ {
		row := (y*scale + dy) * c.width
		for dx := 0; dx < scale; dx++ {
			idx := row + x*scale + dx
			if c.display[idx] {
				collision = true
			}
			c.display[idx] = !c.display[idx]
		}
	}
	return collision
}

// drawSprite XORs an 8 pixel wide sprite of the given rows, read from I, onto
// the display. Coordinates wrap around the display edges.
func (c *CPU) drawSprite(vx, vy, rows uint8) bool {
	width, height, scale := c.drawGeometry()
	collision := false

	for row := 0; row < int(rows); row++ {
		line := c.read(c.I + uint16(row))
		for col := 0; col < 8; col++ {
			if line&(0x80>>col) == 0 {
				continue
			}
			x := (int(vx) + col) % width
			y := (int(vy) + row) % height
			if c.flip(x, y, scale) {
				collision = true
			}
		}
	}
	return collision
}

// drawLargeSprite XORs a 16x16 sprite, two bytes per row, onto the high
// resolution display.
func (c *CPU) drawLargeSprite(vx, vy uint8) bool {
	collision := false

	for row := 0; row < 16; row++ {
		addr := c.I + uint16(row*2)
		line := uint16(c.read(addr))<<8 | uint16(c.read(addr+1))
		for col := 0; col < 16; col++ {
			if line&(0x8000>>col) == 0 {
				continue
			}
			x := (int(vx) + col) % c.width
			y := (int(vy) + row) % c.height
			if c.flip(x, y, 1) {
				collision = true
			}
		}
	}
	return collision
}

func (c *CPU) clearDisplay() {
	c.display = [HighResWidth * HighResHeight]bool{}
}

// The scroll instructions move the whole framebuffer and fill the vacated
// area with unlit pixels.

func (c *CPU) scrollDown(n int) {
	w := c.width
	for y := c.height - 1; y >= 0; y-- {
		dst := c.display[y*w : (y+1)*w]
		if src := y - n; src >= 0 {
			copy(dst, c.display[src*w:(src+1)*w])
		} else {
			clear(dst)
		}
	}
}

func (c *CPU) scrollUp(n int) {
	w := c.width
	for y := 0; y < c.height; y++ {
		dst := c.display[y*w : (y+1)*w]
		if src := y + n; src < c.height {
			copy(dst, c.display[src*w:(src+1)*w])
		} else {
			clear(dst)
		}
	}
}

func (c *CPU) scrollRight(n int) {
	w := c.width
	for y := 0; y < c.height; y++ {
		row := c.display[y*w : (y+1)*w]
		copy(row[n:], row[:w-n])
		clear(row[:n])
	}
}

func (c *CPU) scrollLeft(n int) {
	w := c.width
	for y := 0; y < c.height; y++ {
		row := c.display[y*w : (y+1)*w]
		copy(row, row[n:])
		clear(row[w-n:])
	}
}
