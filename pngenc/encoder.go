// Package pngenc assembles indexed-color PNG streams from an RGBA palette and
// one palette index per pixel.
package pngenc

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zlib"
)

var (
	ErrInvalidPalette    = errors.New("invalid palette format")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrInvalidDimensions = errors.New("invalid dimensions")
	ErrPaletteSize       = errors.New("unsupported palette size")
	ErrIndexOutOfRange   = errors.New("palette index out of range")
)

// EncodeError labels a rejected input with one of the Err* kinds.
type EncodeError struct {
	Kind error
	Msg  string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *EncodeError) Unwrap() error {
	return e.Kind
}

func invalid(kind error, format string, args ...any) error {
	return &EncodeError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// MaxColors is the largest palette an indexed PNG can carry.
const MaxColors = 256

type CompressionLevel int

// The zero value favours output size over encode time.
const (
	BestCompression    CompressionLevel = 0
	DefaultCompression CompressionLevel = -1
	BestSpeed          CompressionLevel = -2
	NoCompression      CompressionLevel = -3
)

func (l CompressionLevel) zlibLevel() int {
	switch l {
	case DefaultCompression:
		return zlib.DefaultCompression
	case BestSpeed:
		return zlib.BestSpeed
	case NoCompression:
		return zlib.NoCompression
	default:
		return zlib.BestCompression
	}
}

// Encoder holds encoding settings only; it is safe for concurrent use.
type Encoder struct {
	CompressionLevel CompressionLevel
}

var defaultEncoder Encoder

// Encode builds a PNG stream with maximum compression. See Encoder.Encode.
func Encode(palette, indices []byte, width, height int) ([]byte, error) {
	return defaultEncoder.Encode(palette, indices, width, height)
}

// Encode validates its inputs and returns the complete PNG stream:
// signature, IHDR, PLTE, tRNS (only when some entry is not opaque), IDAT
// and IEND. palette holds RGBA quadruples; indices holds one byte per pixel
// in row-major order. Nothing is returned on error.
func (enc *Encoder) Encode(palette, indices []byte, width, height int) ([]byte, error) {
	if err := validate(palette, indices, width, height); err != nil {
		return nil, err
	}

	colorCount := len(palette) / 4
	header, err := buildIHDR(width, height, colorCount)
	if err != nil {
		return nil, err
	}

	data, err := buildIDAT(indices, width, height, bitDepthFor(colorCount), enc.CompressionLevel.zlibLevel())
	if err != nil {
		return nil, err
	}

	chunks := [][]byte{
		header,
		buildPLTE(palette),
		buildTRNS(palette),
		data,
		buildIEND(),
	}

	size := len(signature)
	for _, c := range chunks {
		size += len(c)
	}

	out := make([]byte, 0, size)
	out = append(out, signature...)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out, nil
}

// Write encodes the image and writes the stream to w.
func (enc *Encoder) Write(w io.Writer, palette, indices []byte, width, height int) (int64, error) {
	data, err := enc.Encode(palette, indices, width, height)
	if err != nil {
		return 0, err
	}

	n, err := w.Write(data)
	if err != nil {
		return int64(n), fmt.Errorf("could not write PNG stream: %w", err)
	} else if n != len(data) {
		return int64(n), fmt.Errorf("wrote only %d/%d bytes", n, len(data))
	}
	return int64(n), nil
}

func validate(palette, indices []byte, width, height int) error {
	if len(palette)%4 != 0 {
		return invalid(ErrInvalidPalette, "palette length %d is not a multiple of 4 (RGBA)", len(palette))
	}

	if width <= 0 || height <= 0 || uint64(width) > math.MaxUint32 || uint64(height) > math.MaxUint32 {
		return invalid(ErrInvalidDimensions, "%dx%d", width, height)
	}

	if uint64(len(indices)) != uint64(width)*uint64(height) {
		return invalid(ErrDimensionMismatch, "%d indices for %dx%d pixels", len(indices), width, height)
	}

	colorCount := len(palette) / 4
	if colorCount == 0 || colorCount > MaxColors {
		return invalid(ErrPaletteSize, "%d colors, want 1..%d", colorCount, MaxColors)
	}

	for i, idx := range indices {
		if int(idx) >= colorCount {
			return invalid(ErrIndexOutOfRange, "pixel %d uses index %d of %d colors", i, idx, colorCount)
		}
	}

	return nil
}
