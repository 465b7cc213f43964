package cart

// MBC1 implements ROM banking up to 2MB and RAM up to 32KB, including the
// bank-0-substitution quirk for banks 0x00/0x20/0x40/0x60 (spec.md §4.3).
//
// Grounded on the teacher's internal/cart/mbc1.go; ported from the old
// Read/Write pair onto the ReadROM/ReadRAM/WriteROM/WriteRAM/WriteRAM16
// shape of the MBC interface.
type MBC1 struct {
	rom []byte
	ram []byte

	romBankLow5  byte // lower 5 bits of ROM bank number (0 remapped to 1)
	romBankHigh2 byte // BANK2: high 2 bits of ROM bank, latched independent of mode
	ramBank      byte // RAM bank, latched independent of mode
	ramEnabled   bool
	modeSelect   byte // 0: ROM banking (default), 1: RAM banking
}

func NewMBC1(rom []byte, ramSize int) *MBC1 {
	m := &MBC1{rom: rom, romBankLow5: 1}
	if ramSize > 0 {
		m.ram = make([]byte, ramSize)
	}
	return m
}

func (m *MBC1) ReadROM(addr uint16) byte {
	if addr < 0x4000 {
		if m.modeSelect == 0 {
			return readByte(m.rom, int(addr))
		}
		bank := int(m.romBankHigh2&0x03) << 5
		return readByte(m.rom, bank*0x4000+int(addr))
	}
	bank := int(m.effectiveROMBank())
	return readByte(m.rom, bank*0x4000+int(addr-0x4000))
}

func (m *MBC1) ReadRAM(addr uint16) byte {
	if !m.ramEnabled || len(m.ram) == 0 {
		return 0xFF
	}
	off := m.ramOffset(addr)
	if off < 0 || off >= len(m.ram) {
		return 0xFF
	}
	return m.ram[off]
}

func (m *MBC1) WriteROM(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case addr < 0x4000:
		m.romBankLow5 = value & 0x1F
		if m.romBankLow5 == 0 {
			m.romBankLow5 = 1
		}
	case addr < 0x6000:
		// BANK2 feeds either the ROM bank's high bits or the RAM bank
		// select, depending on modeSelect; the other quantity keeps
		// whatever it last latched, per original_source's write_rom_u8.
		if m.modeSelect == 0 {
			m.romBankHigh2 = value & 0x03
		} else {
			m.ramBank = value & 0x03
		}
	default:
		m.modeSelect = value & 0x01
	}
}

func (m *MBC1) WriteRAM(addr uint16, value byte) {
	if !m.ramEnabled || len(m.ram) == 0 {
		return
	}
	off := m.ramOffset(addr)
	if off >= 0 && off < len(m.ram) {
		m.ram[off] = value
	}
}

func (m *MBC1) WriteRAM16(addr uint16, value uint16) {
	m.WriteRAM(addr, byte(value))
	m.WriteRAM(addr+1, byte(value>>8))
}

func (m *MBC1) BatteryRAM() []byte {
	if len(m.ram) == 0 {
		return nil
	}
	out := make([]byte, len(m.ram))
	copy(out, m.ram)
	return out
}

func (m *MBC1) LoadBatteryRAM(data []byte) {
	if len(m.ram) == 0 || len(data) == 0 {
		return
	}
	copy(m.ram, data)
}

func (m *MBC1) ramOffset(addr uint16) int {
	bank := 0
	if m.modeSelect == 1 {
		bank = int(m.ramBank & 0x03)
	}
	return bank*0x2000 + int(addr-0xA000)
}

// effectiveROMBank combines the low-5 and high-2 bank bits and applies the
// bank-0-substitution quirk: 0x00/0x20/0x40/0x60 read as the next bank up.
func (m *MBC1) effectiveROMBank() byte {
	return m.romBankLow5 | (m.romBankHigh2 << 5)
}
