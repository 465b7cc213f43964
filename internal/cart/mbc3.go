package cart

// MBC3 implements ROM banking (bank 1-127) and 4 RAM banks, plus the
// RTC register range (0x08-0x0C: seconds, minutes, hours, day-low,
// day-high/flags). The RTC is latched-but-inert (SPEC_FULL.md §4.3):
// writes to a selected RTC register store into a shadow byte and reads
// return whatever was last stored there, but nothing ticks the clock
// forward or honors the latch strobe's "freeze a snapshot" semantics.
type MBC3 struct {
	rom []byte
	ram []byte

	ramEnabled bool
	romBank    byte // 7 bits, 0 remapped to 1
	ramBank    byte // 0-3, the bank selected when selectedReg is a RAM bank

	selectedReg byte    // last value written to 0x4000-0x5FFF: 0x00-0x03 RAM bank, 0x08-0x0C RTC register
	rtc         [5]byte // shadow seconds/minutes/hours/day-low/day-high registers, indexed by selectedReg-0x08
}

func NewMBC3(rom []byte, ramSize int) *MBC3 {
	m := &MBC3{rom: rom, romBank: 1}
	if ramSize > 0 {
		m.ram = make([]byte, ramSize)
	}
	return m
}

// rtcIndex reports whether selectedReg currently names an RTC register
// and, if so, its index into rtc.
func (m *MBC3) rtcIndex() (int, bool) {
	if m.selectedReg >= 0x08 && m.selectedReg <= 0x0C {
		return int(m.selectedReg - 0x08), true
	}
	return 0, false
}

func (m *MBC3) ReadROM(addr uint16) byte {
	if addr < 0x4000 {
		return readByte(m.rom, int(addr))
	}
	bank := int(m.romBank & 0x7F)
	if bank == 0 {
		bank = 1
	}
	return readByte(m.rom, bank*0x4000+int(addr-0x4000))
}

func (m *MBC3) ReadRAM(addr uint16) byte {
	if !m.ramEnabled {
		return 0xFF
	}
	if i, ok := m.rtcIndex(); ok {
		return m.rtc[i]
	}
	if len(m.ram) == 0 {
		return 0xFF
	}
	off := int(m.ramBank&0x03)*0x2000 + int(addr-0xA000)
	if off < 0 || off >= len(m.ram) {
		return 0xFF
	}
	return m.ram[off]
}

func (m *MBC3) WriteROM(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case addr < 0x4000:
		v := value & 0x7F
		if v == 0 {
			v = 1
		}
		m.romBank = v
	case addr < 0x6000:
		m.selectedReg = value
		if value <= 0x03 {
			m.ramBank = value
		}
	default:
		// latch-clock strobe, no-op without RTC
	}
}

func (m *MBC3) WriteRAM(addr uint16, value byte) {
	if !m.ramEnabled {
		return
	}
	if i, ok := m.rtcIndex(); ok {
		m.rtc[i] = value
		return
	}
	if len(m.ram) == 0 {
		return
	}
	off := int(m.ramBank&0x03)*0x2000 + int(addr-0xA000)
	if off >= 0 && off < len(m.ram) {
		m.ram[off] = value
	}
}

func (m *MBC3) WriteRAM16(addr uint16, value uint16) {
	m.WriteRAM(addr, byte(value))
	m.WriteRAM(addr+1, byte(value>>8))
}

func (m *MBC3) BatteryRAM() []byte {
	if len(m.ram) == 0 {
		return nil
	}
	out := make([]byte, len(m.ram))
	copy(out, m.ram)
	return out
}

func (m *MBC3) LoadBatteryRAM(data []byte) {
	if len(m.ram) == 0 || len(data) == 0 {
		return
	}
	copy(m.ram, data)
}
