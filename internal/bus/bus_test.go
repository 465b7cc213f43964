package bus

import (
	"testing"

	"github.com/dotmatrix-labs/lr35902core/internal/cart"
)

func newTestBus(rom []byte) *Bus { return New(cart.NewMBC0(rom)) }

func TestBus_ROMAndRAM(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x0100] = 0x42
	b := newTestBus(rom)

	if got := b.Read(0x0100); got != 0x42 {
		t.Fatalf("ROM read got %02x, want 42", got)
	}

	b.Write(0xC000, 0x99)
	if got := b.Read(0xC000); got != 0x99 {
		t.Fatalf("RAM read got %02x, want 99", got)
	}

	b.Write(0xE000, 0x55)
	if got := b.Read(0xC000); got != 0x55 {
		t.Fatalf("Echo write did not mirror to WRAM: got %02x", got)
	}

	b.Write(0xFF80, 0xAB)
	if got := b.Read(0xFF80); got != 0xAB {
		t.Fatalf("HRAM read got %02x, want AB", got)
	}

	if got := b.Read(0xA123); got != 0xFF {
		t.Fatalf("Ext RAM (ROM-only) got %02x, want FF", got)
	}
}

func TestBus_Write16RoundTrip(t *testing.T) {
	b := newTestBus(make([]byte, 0x8000))
	b.Write16(0xC100, 0xBEEF)
	if got := b.Read16(0xC100); got != 0xBEEF {
		t.Fatalf("got %#04x want BEEF", got)
	}
}

func TestBus_VRAM_OAM_InterruptRegs(t *testing.T) {
	b := newTestBus(make([]byte, 0x8000))

	b.Write(0x8000, 0x11)
	if got := b.Read(0x8000); got != 0x11 {
		t.Fatalf("VRAM read got %02x, want 11", got)
	}

	b.Write(0xFE00, 0x22)
	if got := b.Read(0xFE00); got != 0x22 {
		t.Fatalf("OAM read got %02x, want 22", got)
	}

	b.Write(0xFF0F, 0x3F)
	if got := b.Read(0xFF0F); got != 0xE0|0x1F {
		t.Fatalf("IF read got %02x, want FF (E0|1F)", got)
	}

	b.Write(0xFFFF, 0x1B)
	if got := b.Read(0xFFFF); got != 0x1B {
		t.Fatalf("IE read got %02x, want 1B", got)
	}
}

func TestBus_JOYP(t *testing.T) {
	b := newTestBus(make([]byte, 0x8000))

	if got := b.Read(0xFF00); got&0x0F != 0x0F {
		t.Fatalf("JOYP default lower bits got %02x want 0x0F", got)
	}

	b.Write(0xFF00, 0x20)
	b.SetJoypadState(joypadRight | joypadUp)
	got := b.Read(0xFF00)
	if got&0x0F != 0x0A {
		t.Fatalf("JOYP D-Pad got %02x want 0x0A", got&0x0F)
	}

	b.Write(0xFF00, 0x10)
	b.SetJoypadState(joypadA | joypadStart)
	got = b.Read(0xFF00)
	if got&0x0F != 0x06 {
		t.Fatalf("JOYP Buttons got %02x want 0x06", got&0x0F)
	}
}

func TestBus_TimerRegisterRoundTrip(t *testing.T) {
	b := newTestBus(make([]byte, 0x8000))

	b.Write(0xFF04, 0x12)
	if got := b.Read(0xFF04); got != 0x00 {
		t.Fatalf("DIV got %02x want 00", got)
	}
	b.Write(0xFF05, 0x77)
	if got := b.Read(0xFF05); got != 0x77 {
		t.Fatalf("TIMA got %02x want 77", got)
	}
	b.Write(0xFF06, 0x88)
	if got := b.Read(0xFF06); got != 0x88 {
		t.Fatalf("TMA got %02x want 88", got)
	}
	b.Write(0xFF07, 0xFD)
	if got := b.Read(0xFF07); got != (0xF8 | (0xFD & 0x07)) {
		t.Fatalf("TAC got %02x want %02x", got, 0xF8|(0xFD&0x07))
	}
}

func TestBus_SerialImmediate(t *testing.T) {
	b := newTestBus(make([]byte, 0x8000))
	var out []byte
	b.SetSerialWriter(writerFunc(func(p []byte) (int, error) {
		out = append(out, p...)
		return len(p), nil
	}))

	b.Write(0xFF01, 0x41)
	b.Write(0xFF02, 0x81)
	if len(out) != 1 || out[0] != 0x41 {
		t.Fatalf("serial out got %v want [0x41]", out)
	}
	if got := b.Read(0xFF02); (got & 0x80) != 0 {
		t.Fatalf("serial control bit7 not cleared: %02x", got)
	}
	if (b.Read(0xFF0F) & (1 << 3)) == 0 {
		t.Fatalf("serial IF bit not set after transfer")
	}
}

func TestBus_BootROMShadowAndLoadGameSignal(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x0000] = 0xAA // under the boot ROM shadow
	b := newTestBus(rom)
	b.SetBootROM([]byte{0x3E, 0x01, 0xE0, 0x50})

	if got := b.Read(0x0000); got != 0x3E {
		t.Fatalf("expected boot ROM byte, got %02x", got)
	}
	b.Write(0xFF50, 0x01)
	if got := b.Read(0x0000); got != 0xAA {
		t.Fatalf("expected cart ROM after boot ROM unmap, got %02x", got)
	}
	if !b.Irqs().LoadGame {
		t.Fatalf("expected LoadGame signal raised on boot ROM unmap")
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

const (
	joypadRight = 1 << 0
	joypadUp    = 1 << 2
	joypadA     = 1 << 4
	joypadStart = 1 << 7
)
