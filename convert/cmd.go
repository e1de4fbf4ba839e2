// Package convert turns every image of a folder into an indexed-color PNG.
package convert

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"palpng/palette"
	"palpng/parallel"
	"palpng/pngenc"
	"palpng/quant"

	"github.com/alecthomas/kong"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type CLICmd struct {
	Scan       string         `help:"Source folder to scan" default:"."`
	Dest       string         `help:"Destination folder for indexed pictures. Relative to scan dir if not absolute. If same as scan dir, PNG sources are overwritten." default:"indexed"`
	Colors     int            `help:"Maximum number of palette colors when quantizing (1-256)" default:"256" group:"palette"`
	Palette    string         `help:"Fixed palette name (${palettes}) or PAL file in RIFF format; disables quantization" group:"palette"`
	Dither     bool           `help:"Apply Floyd-Steinberg dithering" default:"false" group:"palette"`
	Background string         `help:"Flatten transparency onto this color (#RGB, #RGBA, #RRGGBB or #RRGGBBAA)" group:"palette"`
	Resize     bool           `help:"Resize image before quantizing" default:"false" group:"resize"`
	Width      int            `help:"Max width" group:"resize"`
	Height     int            `help:"Max height" group:"resize"`
	Crop       bool           `help:"Crop image to maintain requested aspect ratio" default:"false" group:"resize"`
	Level      string         `help:"Deflate effort for image data" enum:"best,default,speed,none" default:"best"`
	BgColor    color.Color    `kong:"-"`
	FixedPal   color.Palette  `kong:"-"`
	Encoder    pngenc.Encoder `kong:"-"`
}

var levels = map[string]pngenc.CompressionLevel{
	"best":    pngenc.BestCompression,
	"default": pngenc.DefaultCompression,
	"speed":   pngenc.BestSpeed,
	"none":    pngenc.NoCompression,
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	scanDir, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scanDir

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(scanDir, c.Dest)
	}

	if c.Resize {
		switch {
		case (c.Width < 0):
			return fmt.Errorf("invalid resize width: %d", c.Width)
		case (c.Height < 0):
			return fmt.Errorf("invalid resize height: %d", c.Height)
		case (c.Width == 0) && (c.Height == 0):
			return fmt.Errorf("no resize dimensions given")
		case c.Crop && ((c.Width == 0) || (c.Height == 0)):
			return fmt.Errorf("cropping needs both width and height")
		}
	}

	if c.Palette != "" {
		if c.FixedPal, err = palette.LoadPalette(c.Palette); err != nil {
			return err
		}
		if len(c.FixedPal) > pngenc.MaxColors {
			return fmt.Errorf("palette %q has %d colors, at most %d supported", c.Palette, len(c.FixedPal), pngenc.MaxColors)
		}
	} else if c.Colors < 1 || c.Colors > pngenc.MaxColors {
		return fmt.Errorf("invalid color count: %d", c.Colors)
	}

	if c.Background != "" {
		if c.BgColor, err = parseHexToColor(c.Background); err != nil {
			return err
		}
	}

	level, ok := levels[c.Level]
	if !ok {
		return fmt.Errorf("unsupported compression level: %q", c.Level)
	}
	c.Encoder.CompressionLevel = level

	return nil
}

func (c *CLICmd) Run(pool *parallel.Pool) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	files, err := os.ReadDir(c.Scan)
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
	}

	var processedCount, errCount atomic.Uint64
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		fileName := file.Name()
		pool.Do(func() {
			filePath := filepath.Join(c.Scan, fileName)
			logger := slog.Default().With("file", filePath)

			if err := c.convert(logger, filePath, fileName); err != nil {
				errCount.Add(1)
				logger.Error("could not convert image", "error", err)
				return
			}
			processedCount.Add(1)
		})
	}

	pool.Wait()

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

func (c *CLICmd) convert(logger *slog.Logger, filePath, fileName string) error {
	img, err := decode(filePath)
	if err != nil {
		return err
	}

	if c.Resize {
		img = resize(logger, img, c.Width, c.Height, c.Crop)
	}

	if c.BgColor != nil {
		img = flatten(img, c.BgColor)
	}

	res, err := c.reduce(logger, img)
	if err != nil {
		return err
	}

	data, err := res.Encode(&c.Encoder)
	if err != nil {
		return fmt.Errorf("could not encode PNG: %w", err)
	}

	return save(data, c.Dest, fileName)
}

// reduce picks the palette: a fixed one when configured, the source palette
// when it already fits the budget, median cut otherwise.
func (c *CLICmd) reduce(logger *slog.Logger, img image.Image) (*quant.Result, error) {
	if c.FixedPal != nil {
		logger.Info("applying palette", "palette", c.Palette, "colors", len(c.FixedPal))
		res, err := quant.Remap(img, c.FixedPal, c.Dither)
		if err != nil {
			return nil, fmt.Errorf("could not apply palette %q: %w", c.Palette, err)
		}
		return res, nil
	}

	if p, ok := img.(*image.Paletted); ok && len(p.Palette) > 0 && len(p.Palette) <= c.Colors {
		logger.Info("keeping source palette", "colors", len(p.Palette))
		return quant.FromPaletted(p), nil
	}

	logger.Info("quantizing", "colors", c.Colors, "dither", c.Dither)
	res, err := quant.Quantize(img, c.Colors, c.Dither)
	if err != nil {
		return nil, fmt.Errorf("could not quantize: %w", err)
	}
	return res, nil
}

func decode(filePath string) (image.Image, error) {
	imgFile, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("could not open image: %w", err)
	}
	defer func() {
		if closeErr := imgFile.Close(); closeErr != nil {
			slog.Error("could not close source file", "name", filePath, "error", closeErr)
		}
	}()

	img, _, err := image.Decode(imgFile)
	if err != nil {
		return nil, fmt.Errorf("could not decode image: %w", err)
	}
	return img, nil
}
