package pngenc

import (
	"encoding/binary"
	"hash/crc32"
)

const (
	typeIHDR = "IHDR"
	typePLTE = "PLTE"
	typeTRNS = "tRNS"
	typeIDAT = "IDAT"
	typeIEND = "IEND"
)

// signature opens every PNG stream.
var signature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// chunkOverhead is length + type + crc.
const chunkOverhead = 4 + 4 + 4

// buildChunk frames payload as
// length(4, BE) | type(4) | payload | crc32(type ++ payload)(4, BE).
// typ is expected to be exactly 4 ASCII characters.
func buildChunk(typ string, payload []byte) []byte {
	chunk := make([]byte, 0, len(payload)+chunkOverhead)
	chunk = binary.BigEndian.AppendUint32(chunk, uint32(len(payload)))
	chunk = append(chunk, typ...)
	chunk = append(chunk, payload...)

	crc := crc32.ChecksumIEEE(chunk[4:])
	return binary.BigEndian.AppendUint32(chunk, crc)
}

func buildIEND() []byte {
	return buildChunk(typeIEND, nil)
}
