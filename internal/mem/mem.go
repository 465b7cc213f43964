// Package mem implements the byte-addressable buffer with little-endian
// 16-bit helpers used for WRAM and HRAM (VRAM and OAM are arrays owned by
// internal/ppu).
//
// Grounded on the original Rust source's gameboy::memory::Memory and the
// teacher's inline fixed-size arrays in internal/bus and internal/ppu,
// generalized into one reusable type.
package mem

// Bytes is a fixed-purpose byte buffer with little-endian 16-bit access.
type Bytes struct {
	buf []byte
}

// New allocates a zeroed buffer of the given size.
func New(size int) *Bytes { return &Bytes{buf: make([]byte, size)} }

func (m *Bytes) Len() int { return len(m.buf) }

func (m *Bytes) Read8(offset uint16) byte {
	if int(offset) >= len(m.buf) {
		return 0xFF
	}
	return m.buf[offset]
}

func (m *Bytes) Write8(offset uint16, v byte) {
	if int(offset) >= len(m.buf) {
		return
	}
	m.buf[offset] = v
}

func (m *Bytes) Read16(offset uint16) uint16 {
	lo := uint16(m.Read8(offset))
	hi := uint16(m.Read8(offset + 1))
	return lo | hi<<8
}

func (m *Bytes) Write16(offset uint16, v uint16) {
	m.Write8(offset, byte(v))
	m.Write8(offset+1, byte(v>>8))
}

// Raw exposes the backing slice for bulk operations (DMA, save state).
func (m *Bytes) Raw() []byte { return m.buf }

// CopyFrom replaces the contents starting at offset with src, clamped to
// the buffer's bounds.
func (m *Bytes) CopyFrom(offset uint16, src []byte) {
	if int(offset) >= len(m.buf) {
		return
	}
	n := copy(m.buf[offset:], src)
	_ = n
}
