// Package quant reduces images to a palette and hands the result over in the
// flat form pngenc consumes.
package quant

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"palpng/pngenc"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

var ErrEmptyImage = errors.New("empty image")

// Result is a palette of RGBA quadruples (not premultiplied) and one
// palette index per pixel, row-major.
type Result struct {
	Palette []byte
	Indices []byte
	Width   int
	Height  int
}

// Colors reports the number of palette entries.
func (r *Result) Colors() int {
	return len(r.Palette) / 4
}

// Encode wraps the result in a PNG stream.
func (r *Result) Encode(enc *pngenc.Encoder) ([]byte, error) {
	return enc.Encode(r.Palette, r.Indices, r.Width, r.Height)
}

// Quantize builds a palette of at most maxColors entries with median cut and
// maps every pixel onto it.
func Quantize(img image.Image, maxColors int, dither bool) (*Result, error) {
	if maxColors < 1 || maxColors > pngenc.MaxColors {
		return nil, fmt.Errorf("invalid color budget %d, want 1..%d", maxColors, pngenc.MaxColors)
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	q := quantize.MedianCutQuantizer{
		Aggregation: quantize.Mean,
	}
	pal := q.Quantize(make(color.Palette, 0, maxColors), img)
	if len(pal) == 0 {
		return nil, fmt.Errorf("quantizer produced no colors")
	}

	return Remap(img, pal, dither)
}

// Remap maps every pixel of img onto the fixed palette pal.
func Remap(img image.Image, pal color.Palette, dither bool) (*Result, error) {
	if len(pal) == 0 || len(pal) > pngenc.MaxColors {
		return nil, fmt.Errorf("invalid palette size %d, want 1..%d", len(pal), pngenc.MaxColors)
	}

	sr := img.Bounds()
	if sr.Empty() {
		return nil, ErrEmptyImage
	}

	dr := image.Rect(0, 0, sr.Dx(), sr.Dy())
	dest := image.NewPaletted(dr, pal)
	if dither {
		draw.FloydSteinberg.Draw(dest, dr, img, sr.Min)
	} else {
		draw.Draw(dest, dr, img, sr.Min, draw.Src)
	}

	return FromPaletted(dest), nil
}

// FromPaletted flattens an already paletted image.
func FromPaletted(p *image.Paletted) *Result {
	b := p.Bounds()
	res := &Result{
		Palette: make([]byte, 0, len(p.Palette)*4),
		Indices: make([]byte, 0, b.Dx()*b.Dy()),
		Width:   b.Dx(),
		Height:  b.Dy(),
	}

	for _, c := range p.Palette {
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		res.Palette = append(res.Palette, nc.R, nc.G, nc.B, nc.A)
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := p.PixOffset(b.Min.X, y)
		res.Indices = append(res.Indices, p.Pix[off:off+b.Dx()]...)
	}

	return res
}
