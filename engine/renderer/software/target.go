package software

import (
	"image"
	"image/color"

	"github.com/spaghettifunk/seethrough/engine/math"
	"github.com/spaghettifunk/seethrough/engine/renderer"
)

/**
 * @brief A CPU render target: an RGBA8 colour attachment, a float32 depth
 * attachment cleared to 1 (far) and an 8 bit stencil attachment cleared to 0.
 */
type RenderTarget struct {
	Width  int
	Height int

	colour  *image.RGBA
	depth   []float32
	stencil []uint8
}

func NewRenderTarget(width, height int) *RenderTarget {
	t := &RenderTarget{}
	t.Resize(width, height)
	return t
}

// Resize reallocates every attachment and clears them.
func (t *RenderTarget) Resize(width, height int) {
	t.Width = max(width, 1)
	t.Height = max(height, 1)
	t.colour = image.NewRGBA(image.Rect(0, 0, t.Width, t.Height))
	t.depth = make([]float32, t.Width*t.Height)
	t.stencil = make([]uint8, t.Width*t.Height)
	t.Clear(renderer.ClearAll, math.NewVec4(0, 0, 0, 1))
}

func (t *RenderTarget) Clear(flags renderer.ClearFlags, colour math.Vec4) {
	if flags&renderer.ClearColour != 0 {
		c := toRGBA(colour)
		for i := 0; i < len(t.colour.Pix); i += 4 {
			t.colour.Pix[i+0] = c.R
			t.colour.Pix[i+1] = c.G
			t.colour.Pix[i+2] = c.B
			t.colour.Pix[i+3] = c.A
		}
	}
	if flags&renderer.ClearDepth != 0 {
		for i := range t.depth {
			t.depth[i] = 1.0
		}
	}
	if flags&renderer.ClearStencil != 0 {
		clear(t.stencil)
	}
}

func (t *RenderTarget) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < t.Width && y < t.Height
}

func (t *RenderTarget) ColourAt(x, y int) color.RGBA {
	if !t.inside(x, y) {
		return color.RGBA{}
	}
	return t.colour.RGBAAt(x, y)
}

func (t *RenderTarget) DepthAt(x, y int) float32 {
	if !t.inside(x, y) {
		return 1.0
	}
	return t.depth[y*t.Width+x]
}

func (t *RenderTarget) StencilAt(x, y int) uint8 {
	if !t.inside(x, y) {
		return 0
	}
	return t.stencil[y*t.Width+x]
}

// Pixels exposes the colour attachment in RGBA8 row-major order.
func (t *RenderTarget) Pixels() []byte {
	return t.colour.Pix
}

// Snapshot returns a copy of the colour attachment.
func (t *RenderTarget) Snapshot() *image.RGBA {
	out := image.NewRGBA(t.colour.Rect)
	copy(out.Pix, t.colour.Pix)
	return out
}

// StencilMaskImage renders the pixels that have any of the bits of mask
// set in white, the rest in black.
func (t *RenderTarget) StencilMaskImage(mask uint8) *image.RGBA {
	out := image.NewRGBA(t.colour.Rect)
	for i, s := range t.stencil {
		v := uint8(0)
		if s&mask != 0 {
			v = 0xFF
		}
		out.Pix[i*4+0] = v
		out.Pix[i*4+1] = v
		out.Pix[i*4+2] = v
		out.Pix[i*4+3] = 0xFF
	}
	return out
}

// CountStencil returns how many pixels have any of the bits of mask set.
func (t *RenderTarget) CountStencil(mask uint8) int {
	n := 0
	for _, s := range t.stencil {
		if s&mask != 0 {
			n++
		}
	}
	return n
}

func toRGBA(c math.Vec4) color.RGBA {
	conv := func(f float32) uint8 {
		return uint8(math.Clamp(f, 0, 1)*255.0 + 0.5)
	}
	return color.RGBA{R: conv(c.X), G: conv(c.Y), B: conv(c.Z), A: conv(c.W)}
}
