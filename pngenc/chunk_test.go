package pngenc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"
	"testing"

	"github.com/klauspost/compress/zlib"
	bst "github.com/mixcode/binarystruct"
)

type chunkHeader struct {
	Length uint32
	Type   string `binary:"[4]byte"`
}

type rawChunk struct {
	Type    string
	Payload []byte
	CRC     uint32
}

// readChunks splits a PNG stream after its signature.
func readChunks(t *testing.T, data []byte) []rawChunk {
	t.Helper()

	if !bytes.HasPrefix(data, signature) {
		t.Fatalf("missing PNG signature: % x", data[:min(len(data), 8)])
	}

	r := bytes.NewReader(data[len(signature):])
	var chunks []rawChunk
	for {
		var h chunkHeader
		_, err := bst.Read(r, bst.BigEndian, &h)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("could not read chunk header #%d: %v", len(chunks), err)
		}

		payload := make([]byte, h.Length)
		if _, err = io.ReadFull(r, payload); err != nil {
			t.Fatalf("could not read %s payload: %v", h.Type, err)
		}

		var crc [4]byte
		if _, err = io.ReadFull(r, crc[:]); err != nil {
			t.Fatalf("could not read %s crc: %v", h.Type, err)
		}

		chunks = append(chunks, rawChunk{
			Type:    h.Type,
			Payload: payload,
			CRC:     binary.BigEndian.Uint32(crc[:]),
		})
	}
	return chunks
}

func chunkTypes(chunks []rawChunk) []string {
	types := make([]string, len(chunks))
	for i, c := range chunks {
		types[i] = c.Type
	}
	return types
}

func inflate(t *testing.T, data []byte) []byte {
	t.Helper()

	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("could not open zlib stream: %v", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("could not inflate: %v", err)
	}
	return out
}

func TestBuildChunk(t *testing.T) {
	for _, tc := range []struct {
		name    string
		typ     string
		payload []byte
	}{
		{name: "empty", typ: "IEND"},
		{name: "short", typ: "tRNS", payload: []byte{0x00, 0x7F, 0xFF}},
		{name: "large", typ: "IDAT", payload: bytes.Repeat([]byte{0xAB}, 70000)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			chunk := buildChunk(tc.typ, tc.payload)

			if got, want := len(chunk), len(tc.payload)+chunkOverhead; got != want {
				t.Fatalf("chunk size: got %d want %d", got, want)
			}
			if got := binary.BigEndian.Uint32(chunk[0:4]); got != uint32(len(tc.payload)) {
				t.Fatalf("length field: got %d want %d", got, len(tc.payload))
			}
			if got := string(chunk[4:8]); got != tc.typ {
				t.Fatalf("type: got %q want %q", got, tc.typ)
			}
			if !bytes.Equal(chunk[8:8+len(tc.payload)], tc.payload) {
				t.Fatalf("payload not copied verbatim")
			}

			want := crc32.ChecksumIEEE(append([]byte(tc.typ), tc.payload...))
			if got := binary.BigEndian.Uint32(chunk[len(chunk)-4:]); got != want {
				t.Fatalf("crc: got %08x want %08x", got, want)
			}
		})
	}
}

func TestBuildIEND(t *testing.T) {
	want := []byte{0, 0, 0, 0, 'I', 'E', 'N', 'D', 0xAE, 0x42, 0x60, 0x82}
	if got := buildIEND(); !bytes.Equal(got, want) {
		t.Fatalf("IEND: got % x want % x", got, want)
	}
}
