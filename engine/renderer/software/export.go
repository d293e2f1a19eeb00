package software

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/seethrough/engine/core"
	"golang.org/x/image/bmp"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Export writes img to path, encoded by the file extension (.png or .bmp).
func Export(img image.Image, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".png" && ext != ".bmp" {
		return fmt.Errorf("%w: '%s'", core.ErrUnsupportedFormat, ext)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch ext {
	case ".bmp":
		err = bmp.Encode(f, img)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return fmt.Errorf("failed to encode '%s': %w", path, err)
	}
	return f.Close()
}

// DrawCaption writes one line of text in the top left corner of img.
func DrawCaption(img *image.RGBA, text string) {
	face := basicfont.Face7x13
	bg := image.Rect(0, 0, min(img.Bounds().Dx(), 8+len(text)*face.Advance), face.Height+6)
	for y := bg.Min.Y; y < bg.Max.Y && y < img.Bounds().Max.Y; y++ {
		for x := bg.Min.X; x < bg.Max.X; x++ {
			img.SetRGBA(x, y, color.RGBA{A: 0xFF})
		}
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}),
		Face: face,
		Dot:  fixed.P(4, face.Ascent+3),
	}
	d.DrawString(text)
}
