package memmap

import "testing"

func TestMapBoundaries(t *testing.T) {
	cases := []struct {
		addr   uint16
		region Region
		offset uint16
	}{
		{0x0000, RegionCartROMBank0, 0x0000},
		{0x3FFF, RegionCartROMBank0, 0x3FFF},
		{0x4000, RegionCartROMSwitchable, 0x0000},
		{0x7FFF, RegionCartROMSwitchable, 0x3FFF},
		{0x8000, RegionVRAM, 0x0000},
		{0x9FFF, RegionVRAM, 0x1FFF},
		{0xA000, RegionCartRAM, 0x0000},
		{0xBFFF, RegionCartRAM, 0x1FFF},
		{0xC000, RegionWRAM, 0x0000},
		{0xDFFF, RegionWRAM, 0x1FFF},
		{0xE000, RegionEchoRAM, 0x0000},
		{0xFDFF, RegionEchoRAM, 0x1DFF},
		{0xFE00, RegionOAM, 0x0000},
		{0xFE9F, RegionOAM, 0x009F},
		{0xFEA0, RegionUnused, 0x0000},
		{0xFEFF, RegionUnused, 0x005F},
		{0xFF00, RegionIO, 0x0000},
		{0xFF7F, RegionIO, 0x007F},
		{0xFF80, RegionHRAM, 0x0000},
		{0xFFFE, RegionHRAM, 0x007E},
		{0xFFFF, RegionInterruptEnable, 0x0000},
	}
	for _, c := range cases {
		region, offset := Map(c.addr)
		if region != c.region || offset != c.offset {
			t.Errorf("Map(%#04x) = (%v, %#04x), want (%v, %#04x)", c.addr, region, offset, c.region, c.offset)
		}
	}
}
