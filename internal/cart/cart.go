package cart

import "github.com/dotmatrix-labs/lr35902core/internal/core"

// Package cart implements cartridge ROM/RAM address translation and the
// memory-bank-controller (MBC) bank-switching discipline.
//
// Grounded on the teacher's internal/cart package; the MBC interface
// below replaces its transparent-deref "is-a" Cartridge shape (flagged
// for replacement in spec.md §9) with the five explicit operations the
// design note calls for: ReadROM/ReadRAM/WriteROM/WriteRAM/WriteRAM16.

// MBC is the interface the bus needs for cartridge ROM/RAM access. An
// implementation owns the immutable ROM and any battery-backed RAM.
type MBC interface {
	// ReadROM reads a byte from cartridge ROM space (0x0000-0x7FFF).
	ReadROM(addr uint16) byte
	// ReadRAM reads a byte from cartridge external RAM (0xA000-0xBFFF).
	// Returns 0xFF when RAM is absent or disabled.
	ReadRAM(addr uint16) byte
	// WriteROM handles MBC control writes (0x0000-0x7FFF).
	WriteROM(addr uint16, value byte)
	// WriteRAM writes a byte to cartridge external RAM, a no-op when
	// RAM is absent or disabled.
	WriteRAM(addr uint16, value byte)
	// WriteRAM16 writes a little-endian 16-bit value to external RAM.
	WriteRAM16(addr uint16, value uint16)

	// BatteryRAM returns a copy of external RAM for persistence (nil if
	// the cartridge has none).
	BatteryRAM() []byte
	// LoadBatteryRAM restores external RAM from a previously saved dump.
	LoadBatteryRAM(data []byte)
}

// New selects an MBC implementation from the ROM header's cartridge-type
// byte. Supported: MBC0 (ROM only), MBC1, MBC3 (no RTC ticking), MBC5.
// An unrecognized type fails with a *core.CoreError of
// core.KindUnsupportedCartridge (spec.md §7, fatal at load time).
func New(rom []byte) (MBC, *Header, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, nil, err
	}
	switch h.CartType {
	case 0x00:
		return NewMBC0(rom), h, nil
	case 0x01, 0x02, 0x03:
		return NewMBC1(rom, h.RAMSizeBytes), h, nil
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		return NewMBC3(rom, h.RAMSizeBytes), h, nil
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		return NewMBC5(rom, h.RAMSizeBytes), h, nil
	default:
		return nil, h, &core.CoreError{Kind: core.KindUnsupportedCartridge, Op: h.CartType}
	}
}

func readByte(rom []byte, offset int) byte {
	if offset < 0 || offset >= len(rom) {
		return 0xFF
	}
	return rom[offset]
}
