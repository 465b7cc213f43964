package mem

import "testing"

func TestReadWriteU16RoundTrip(t *testing.T) {
	m := New(16)
	for _, addr := range []uint16{0, 1, 14} {
		m.Write16(addr, 0xBEEF)
		if got := m.Read16(addr); got != 0xBEEF {
			t.Fatalf("Read16(%d) = %#04x, want BEEF", addr, got)
		}
	}
}

func TestReadPastEndReturnsFF(t *testing.T) {
	m := New(4)
	if got := m.Read8(10); got != 0xFF {
		t.Fatalf("Read8 past end = %#02x, want FF", got)
	}
}

func TestWritePastEndIgnored(t *testing.T) {
	m := New(4)
	m.Write8(10, 0x42) // must not panic
}
