package pngenc

import (
	"fmt"

	bst "github.com/mixcode/binarystruct"
)

const (
	colorTypeIndexed   = 3
	compressionDeflate = 0
	filterMethodBase   = 0
	interlaceNone      = 0
)

// ihdr is the 13 byte IHDR payload, stored big-endian.
type ihdr struct {
	Width       uint32
	Height      uint32
	BitDepth    uint8
	ColorType   uint8
	Compression uint8
	Filter      uint8
	Interlace   uint8
}

// bitDepthFor picks the index width for a palette of colorCount entries.
// Depths 1 and 2 are never selected.
func bitDepthFor(colorCount int) uint8 {
	if colorCount <= 16 {
		return 4
	}
	return 8
}

func buildIHDR(width, height, colorCount int) ([]byte, error) {
	hdr := ihdr{
		Width:       uint32(width),
		Height:      uint32(height),
		BitDepth:    bitDepthFor(colorCount),
		ColorType:   colorTypeIndexed,
		Compression: compressionDeflate,
		Filter:      filterMethodBase,
		Interlace:   interlaceNone,
	}

	payload, err := bst.Marshal(&hdr, bst.BigEndian)
	if err != nil {
		return nil, fmt.Errorf("could not marshal header: %w", err)
	}
	return buildChunk(typeIHDR, payload), nil
}
