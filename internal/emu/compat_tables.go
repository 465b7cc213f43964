package emu

import (
	"strings"

	"github.com/dotmatrix-labs/lr35902core/internal/cart"
	"github.com/dotmatrix-labs/lr35902core/internal/ppu"
)

// cgbCompatSetNames labels the curated non-realistic palettes
// autoCompatPaletteFromHeader picks among, in the same order as
// cgbCompatSets.
var cgbCompatSetNames = [6]string{"Green", "Sepia", "Blue", "Red", "Pastel", "Mono"}

// cgbCompatSets are the palettes cgbCompatSetNames names, grounded on the
// four-shade DMG "pocket/GBC compatibility" palette conventions: each is a
// Theme indexed lightest-to-darkest like ppu.DefaultTheme.
var cgbCompatSets = [6]ppu.Theme{
	{0xE0F8D0FF, 0x88C070FF, 0x346856FF, 0x081820FF}, // Green
	{0xFFF2D8FF, 0xD9A066FF, 0x8B5A2BFF, 0x3B2716FF}, // Sepia
	{0xE8F4FFFF, 0x7EB6E0FF, 0x3A6EA5FF, 0x102542FF}, // Blue
	{0xFFE9E0FF, 0xE08A6EFF, 0xA8423AFF, 0x3A1210FF}, // Red
	{0xFDEBF3FF, 0xE6A8C9FF, 0xA86CA0FF, 0x4A2E55FF}, // Pastel
	ppu.DefaultTheme,                                 // Mono (grayscale fallback)
}

// paletteForID resolves an autoCompatPaletteFromHeader id into a concrete
// Theme, wrapping out-of-range ids to the Mono fallback rather than
// panicking on a future header-checksum-derived id wider than the set.
func paletteForID(id int) ppu.Theme {
	if id < 0 || id >= len(cgbCompatSets) {
		return ppu.DefaultTheme
	}
	return cgbCompatSets[id]
}

// compatTitleExact maps exact, normalized titles to a preferred palette ID.
// IDs index into cgbCompatSetNames/cgbCompatSets above.
var compatTitleExact = map[string]int{
	"TETRIS":              2, // Blue
	"TETRIS DX":           2,
	"SUPER MARIO LAND":    3, // Red
	"SUPER MARIO LAND 2":  3,
	"DR. MARIO":           4, // Pastel
	"DONKEY KONG":         1, // Sepia
	"THE LEGEND OF ZELDA": 0, // Green
	"ZELDA":               0,
	"METROID II":          3, // Red accent
	"KIRBY'S DREAM LAND":  4, // Pastel/soft
	"MEGA MAN":            2, // Blue
	"MEGAMAN":             2,
	"WARIO LAND":          1, // Sepia
	"POKEMON YELLOW":      4, // Pastel
	"POKEMON RED":         4,
	"POKEMON BLUE":        4,
	"POCKET MONSTERS":     4,
}

type containsRule struct {
	substr string
	id     int
}

// compatTitleContains applies broader substring heuristics for families.
var compatTitleContains = []containsRule{
	{"TETRIS", 2},
	{"MARIO", 3},
	{"ZELDA", 0},
	{"KIRBY", 4},
	{"DONKEY KONG", 1},
	{"METROID", 3},
	{"MEGA MAN", 2},
	{"MEGAMAN", 2},
	{"WARIO", 1},
	{"POKEMON", 4},
	{"POCKET MONSTERS", 4},
}

// autoCompatPaletteFromHeader tries to pick a good default palette using a small title table
// and then a stable fallback based on licensee/checksum. Returns (id, true) on success.
func autoCompatPaletteFromHeader(h *cart.Header) (int, bool) {
	if h == nil {
		return 0, false
	}
	title := strings.TrimSpace(strings.TrimRight(h.Title, "\x00"))
	t := strings.ToUpper(title)
	if id, ok := compatTitleExact[t]; ok {
		return id, true
	}
	for _, r := range compatTitleContains {
		if strings.Contains(t, r.substr) {
			return r.id, true
		}
	}
	// Fallback: for Nintendo-published titles, vary palette by header checksum; others use default.
	nintendo := false
	if h.OldLicensee == 0x33 {
		nintendo = (strings.ToUpper(h.NewLicensee) == "01")
	} else {
		nintendo = (h.OldLicensee == 0x01)
	}
	if nintendo {
		// Use header checksum to pick a stable palette across sessions.
		// Keep it within available set count (len(cgbCompatSetNames)).
		// We mod by 6 to align with our curated set length.
		return int(h.HeaderChecksum) % 6, true
	}
	return 0, true
}
