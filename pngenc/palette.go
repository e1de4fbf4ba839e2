package pngenc

// buildPLTE drops the alpha channel of every RGBA entry.
func buildPLTE(palette []byte) []byte {
	rgb := make([]byte, 0, len(palette)/4*3)
	for i := 0; i+3 < len(palette); i += 4 {
		rgb = append(rgb, palette[i], palette[i+1], palette[i+2])
	}
	return buildChunk(typePLTE, rgb)
}

// buildTRNS returns the alpha channel of the palette as a tRNS chunk, or nil
// when every entry is fully opaque.
func buildTRNS(palette []byte) []byte {
	alphas := make([]byte, len(palette)/4)
	opaque := true
	for i := range alphas {
		a := palette[i*4+3]
		alphas[i] = a
		if a != 0xFF {
			opaque = false
		}
	}

	if opaque {
		return nil
	}
	return buildChunk(typeTRNS, alphas)
}
