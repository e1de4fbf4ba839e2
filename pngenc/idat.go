package pngenc

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zlib"
)

const filterNone = 0

// rowBytes is the size of one framed scanline, filter byte included.
func rowBytes(width int, bitDepth uint8) int {
	if bitDepth == 4 {
		return 1 + (width+1)/2
	}
	return 1 + width
}

// frameScanlines prefixes every row with a "none" filter byte. At depth 8
// each index keeps its own byte; at depth 4 two indices share a byte, high
// nibble first, and an odd trailing pixel leaves the low nibble zero.
func frameScanlines(indices []byte, width, height int, bitDepth uint8) []byte {
	stride := rowBytes(width, bitDepth)
	framed := make([]byte, stride*height)

	for y := range height {
		row := indices[y*width : (y+1)*width]
		out := framed[y*stride : (y+1)*stride]
		out[0] = filterNone

		if bitDepth == 4 {
			for x, idx := range row {
				out[1+x/2] |= (idx & 0x0F) << (4 * (1 - x%2))
			}
			continue
		}
		copy(out[1:], row)
	}

	return framed
}

func deflate(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("could not create zlib writer: %w", err)
	}

	if _, err = zw.Write(data); err != nil {
		_ = zw.Close()
		return nil, fmt.Errorf("could not compress scanlines: %w", err)
	}

	if err = zw.Close(); err != nil {
		return nil, fmt.Errorf("could not flush zlib stream: %w", err)
	}
	return buf.Bytes(), nil
}

func buildIDAT(indices []byte, width, height int, bitDepth uint8, level int) ([]byte, error) {
	compressed, err := deflate(frameScanlines(indices, width, height, bitDepth), level)
	if err != nil {
		return nil, err
	}
	return buildChunk(typeIDAT, compressed), nil
}
