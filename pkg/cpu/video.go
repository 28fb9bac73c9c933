package cpu

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// Palette holds the colors used to render lit and unlit pixels.
type Palette struct {
	On  color.RGBA
	Off color.RGBA
}

// DefaultPalette renders lit pixels yellow on a black background.
var DefaultPalette = Palette{
	On:  color.RGBA{R: 0xFF, G: 0xFF, A: 0xFF},
	Off: color.RGBA{A: 0xFF},
}

// GetFramebufferRGBA decodes the display into an RGBA8888 byte slice of
// Width()*Height()*4 bytes.
func (c *CPU) GetFramebufferRGBA(p Palette) []byte {
	fb := c.Framebuffer()
	pixels := make([]byte, len(fb)*4)

	for i, lit := range fb {
		col := p.Off
		if lit {
			col = p.On
		}
		pixels[i*4+0] = col.R
		pixels[i*4+1] = col.G
		pixels[i*4+2] = col.B
		pixels[i*4+3] = col.A
	}

	return pixels
}

// GetFramebufferImage returns the display as an *image.RGBA.
func (c *CPU) GetFramebufferImage(p Palette) *image.RGBA {
	return &image.RGBA{
		Pix:    c.GetFramebufferRGBA(p),
		Stride: c.width * 4,
		Rect:   image.Rect(0, 0, c.width, c.height),
	}
}

// SaveScreenshot encodes the display as a PNG and writes it to filename.
// Each pixel is enlarged to scale x scale pixels.
func (c *CPU) SaveScreenshot(filename string, scale int) error {
	var img image.Image = c.GetFramebufferImage(DefaultPalette)
	if scale > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, c.width*scale, c.height*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = dst
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
