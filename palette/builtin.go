// Package palette provides fixed palettes, either built in by name or read
// from Microsoft RIFF .pal files.
package palette

import (
	"fmt"
	"image/color"
	stdpalette "image/color/palette"
	"maps"
	"os"
	"slices"
)

func rgb(r, g, b uint8) color.Color {
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

var builtin = map[string]func() color.Palette{
	"bw": func() color.Palette {
		return color.Palette{
			rgb(0x00, 0x00, 0x00),
			rgb(0xFF, 0xFF, 0xFF),
		}
	},
	// 6 color e-paper panels
	"spectra6": func() color.Palette {
		return color.Palette{
			rgb(0x00, 0x00, 0x00),
			rgb(0xFF, 0xFF, 0xFF),
			rgb(0xFF, 0x00, 0x00),
			rgb(0x00, 0xFF, 0x00),
			rgb(0x00, 0x00, 0xFF),
			rgb(0xFF, 0xFF, 0x00),
		}
	},
	"gray16": func() color.Palette {
		pal := make(color.Palette, 16)
		for i := range pal {
			pal[i] = color.Gray{Y: uint8(i * 0x11)}
		}
		return pal
	},
	"vga16": func() color.Palette {
		return color.Palette{
			rgb(0x00, 0x00, 0x00),
			rgb(0x00, 0x00, 0xAA),
			rgb(0x00, 0xAA, 0x00),
			rgb(0x00, 0xAA, 0xAA),
			rgb(0xAA, 0x00, 0x00),
			rgb(0xAA, 0x00, 0xAA),
			rgb(0xAA, 0x55, 0x00),
			rgb(0xAA, 0xAA, 0xAA),
			rgb(0x55, 0x55, 0x55),
			rgb(0x55, 0x55, 0xFF),
			rgb(0x55, 0xFF, 0x55),
			rgb(0x55, 0xFF, 0xFF),
			rgb(0xFF, 0x55, 0x55),
			rgb(0xFF, 0x55, 0xFF),
			rgb(0xFF, 0xFF, 0x55),
			rgb(0xFF, 0xFF, 0xFF),
		}
	},
	"websafe": func() color.Palette { return slices.Clone(stdpalette.WebSafe) },
	"plan9":   func() color.Palette { return slices.Clone(stdpalette.Plan9) },
}

// Names lists the built-in palettes.
func Names() []string {
	return slices.Sorted(maps.Keys(builtin))
}

// Builtin returns a copy of the named built-in palette.
func Builtin(name string) (color.Palette, bool) {
	mk, ok := builtin[name]
	if !ok {
		return nil, false
	}
	return mk(), true
}

// LoadPalette resolves name as a built-in palette first, then as a RIFF PAL
// file. All palettes stored in the file are concatenated.
func LoadPalette(name string) (color.Palette, error) {
	if pal, ok := Builtin(name); ok {
		return pal, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("unknown palette %q: %w", name, err)
	}
	defer f.Close()

	pals, err := ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("could not load palette file %q: %w", name, err)
	}

	var res color.Palette
	for _, pal := range pals {
		res = append(res, pal...)
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("palette file %q holds no colors", name)
	}

	return res, nil
}

// SavePalette writes pal to path as a RIFF PAL file.
func SavePalette(path string, pal color.Palette) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create palette file %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("could not close palette file %q: %w", path, cerr)
		}
	}()

	if _, err = WriteTo(f, []color.Palette{pal}); err != nil {
		return fmt.Errorf("could not save palette %q: %w", path, err)
	}
	return nil
}
