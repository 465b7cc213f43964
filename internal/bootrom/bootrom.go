// Package bootrom owns the embedded boot ROM stub the Interconnect maps
// over cartridge ROM until the game writes to 0xFF50 (spec.md §6/§9:
// "Global boot-ROM blob... lifetime ties to process").
//
// Grounded on the teacher's internal/bus.go SetBootROM([]byte) call
// shape; the teacher loads a boot ROM from a file flag at the cmd/
// layer, never embeds one, so the stub here is new but the embedding
// pattern itself (//go:embed) mirrors the asset-loading style the pack's
// RetroCodeRamen-Nitro-Core-DX repo uses for shipped resource bytes.
package bootrom

import _ "embed"

// Stub is a 4-byte DMG boot-ROM substitute: it sets A=0x01 and writes it
// to 0xFF50, unmapping itself and signaling LoadGame on the very first
// instruction the CPU executes, the "4-byte stub" shape spec.md §6
// documents for hosts that don't ship a real boot ROM.
var Stub = []byte{0x3E, 0x01, 0xE0, 0x50}

//go:embed dmg_boot.bin
var embedded []byte

// DMG returns the embedded 256-byte DMG boot ROM image, or nil if none
// was embedded at build time (the placeholder dmg_boot.bin ships empty;
// a real deployment overwrites it with a licensed dump before building).
func DMG() []byte {
	if len(embedded) != 0x100 {
		return nil
	}
	out := make([]byte, 0x100)
	copy(out, embedded)
	return out
}
