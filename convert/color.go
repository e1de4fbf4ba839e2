package convert

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"
)

// parseHexToColor accepts #RGB, #RGBA, #RRGGBB and #RRGGBBAA.
func parseHexToColor(s string) (color.Color, error) {
	digits, ok := strings.CutPrefix(s, "#")
	if !ok {
		return nil, fmt.Errorf("invalid color %q, missing leading #", s)
	}

	switch len(digits) {
	case 3, 4:
		var sb strings.Builder
		for _, r := range digits {
			sb.WriteRune(r)
			sb.WriteRune(r)
		}
		digits = sb.String()
	case 6, 8:
	default:
		return nil, fmt.Errorf("invalid color %q, should be #RGB, #RGBA, #RRGGBB or #RRGGBBAA", s)
	}

	b, err := hex.DecodeString(digits)
	if err != nil {
		return nil, fmt.Errorf("could not read color %q: %w", s, err)
	}

	c := color.NRGBA{R: b[0], G: b[1], B: b[2], A: 0xFF}
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}
