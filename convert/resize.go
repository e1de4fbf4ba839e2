package convert

import (
	"image"
	"image/color"
	"log/slog"

	"github.com/disintegration/gift"
	"golang.org/x/image/draw"
)

// resize scales img to fit width x height, or to fill it exactly when crop is
// set. A zero dimension follows the source aspect ratio.
func resize(logger *slog.Logger, img image.Image, width, height int, crop bool) image.Image {
	src := img.Bounds()
	if (width == 0 || width == src.Dx()) && (height == 0 || height == src.Dy()) {
		return img
	}

	var filter gift.Filter
	switch {
	case crop:
		filter = gift.ResizeToFill(width, height, gift.LanczosResampling, gift.CenterAnchor)
	case width == 0 || height == 0:
		filter = gift.Resize(width, height, gift.LanczosResampling)
	default:
		filter = gift.ResizeToFit(width, height, gift.LanczosResampling)
	}

	g := gift.New(filter)
	dest := image.NewNRGBA(g.Bounds(src))
	logger.Info("resizing", "width", dest.Bounds().Dx(), "height", dest.Bounds().Dy())
	g.Draw(dest, img)

	return dest
}

// flatten composites img over a solid background.
func flatten(img image.Image, bg color.Color) image.Image {
	sr := img.Bounds()
	dr := image.Rect(0, 0, sr.Dx(), sr.Dy())
	dest := image.NewNRGBA(dr)

	draw.Draw(dest, dr, image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(dest, dr, img, sr.Min, draw.Over)
	return dest
}
