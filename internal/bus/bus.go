// Package bus implements the Interconnect: the single piece of fabric
// composing cartridge, VRAM/OAM (via the PPU), work RAM, high RAM, the
// timer, joypad, and interrupt bank behind one 16-bit address space.
//
// Grounded on the teacher's internal/bus/bus.go for the dispatch switch,
// DMA state machine, and boot-ROM shadow; reworked to delegate timer,
// joypad, and interrupt bookkeeping to their own packages instead of
// duplicating that logic inline, and to own a cart.MBC instead of the
// teacher's deref-based Cartridge interface (spec.md §9).
package bus

import (
	"io"

	"github.com/dotmatrix-labs/lr35902core/internal/cart"
	"github.com/dotmatrix-labs/lr35902core/internal/irq"
	"github.com/dotmatrix-labs/lr35902core/internal/joypad"
	"github.com/dotmatrix-labs/lr35902core/internal/mem"
	"github.com/dotmatrix-labs/lr35902core/internal/memmap"
	"github.com/dotmatrix-labs/lr35902core/internal/ppu"
	"github.com/dotmatrix-labs/lr35902core/internal/timer"
)

// Bus wires the CPU-visible address space to every peripheral.
type Bus struct {
	cart cart.MBC

	wram *mem.Bytes // 0xC000-0xDFFF, echoed at 0xE000-0xFDFF
	hram *mem.Bytes // 0xFF80-0xFFFE

	ppu    *ppu.PPU
	timer  timer.Timer
	joypad joypad.Joypad
	irqs   irq.Bank

	sb byte
	sc byte
	sw io.Writer

	dma          byte
	dmaActive    bool
	dmaRemaining int

	bootROM     []byte
	bootEnabled bool
}

// New constructs a Bus around a loaded cartridge.
func New(c cart.MBC) *Bus {
	b := &Bus{cart: c, wram: mem.New(0x2000), hram: mem.New(0x7F)}
	b.ppu = ppu.New(func(bit int) {
		if bit == 0 {
			b.irqs.Request(irq.VBlank)
		} else {
			b.irqs.Request(irq.LCD)
		}
	})
	return b
}

func (b *Bus) PPU() *ppu.PPU   { return b.ppu }
func (b *Bus) Cart() cart.MBC  { return b.cart }
func (b *Bus) Irqs() *irq.Bank { return &b.irqs }

// Region reports which memmap.Region a CPU address belongs to, for
// diagnostics and the core.KindUnmappedAccess path in hosts that want
// one.
func (b *Bus) Region(addr uint16) memmap.Region {
	r, _ := memmap.Map(addr)
	return r
}

// SetBootROM installs a boot ROM to be mapped over 0x0000-0x00FF until a
// non-zero write to 0xFF50 unmaps it. Only the first 256 bytes are used;
// a shorter image (such as bootrom.Stub) shadows just its own length, and
// an empty one installs no shadow at all.
func (b *Bus) SetBootROM(data []byte) {
	b.bootROM = nil
	b.bootEnabled = false
	if len(data) > 0 {
		n := len(data)
		if n > 0x100 {
			n = 0x100
		}
		b.bootROM = make([]byte, n)
		copy(b.bootROM, data[:n])
		b.bootEnabled = true
	}
}

func (b *Bus) SetSerialWriter(w io.Writer) { b.sw = w }

func (b *Bus) SetJoypadState(mask byte) { b.joypad.SetState(mask, &b.irqs) }

// Read reads one byte from CPU address space.
func (b *Bus) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		if b.bootEnabled && int(addr) < len(b.bootROM) {
			return b.bootROM[addr]
		}
		return b.cart.ReadROM(addr)
	case addr < 0x8000:
		return b.cart.ReadROM(addr)
	case addr <= 0x9FFF:
		return b.ppu.CPURead(addr)
	case addr <= 0xBFFF:
		return b.cart.ReadRAM(addr)
	case addr <= 0xDFFF:
		return b.wram.Read8(addr - 0xC000)
	case addr <= 0xFDFF:
		return b.wram.Read8(addr - 0x2000 - 0xC000)
	case addr <= 0xFE9F:
		if b.dmaActive {
			return 0xFF
		}
		return b.ppu.CPURead(addr)
	case addr <= 0xFEFF:
		return 0xFF
	case addr == 0xFF00:
		return b.joypad.Read()
	case addr == 0xFF01:
		return b.sb
	case addr == 0xFF02:
		return 0x7E | (b.sc & 0x81)
	case addr == 0xFF04:
		return b.timer.DIV()
	case addr == 0xFF05:
		return b.timer.TIMA()
	case addr == 0xFF06:
		return b.timer.TMA()
	case addr == 0xFF07:
		return b.timer.TAC()
	case addr == 0xFF0F:
		return 0xE0 | (b.irqs.RequestFlag & 0x1F)
	case addr == 0xFF40, addr == 0xFF41, addr == 0xFF42, addr == 0xFF43,
		addr == 0xFF44, addr == 0xFF45,
		addr == 0xFF47, addr == 0xFF48, addr == 0xFF49,
		addr == 0xFF4A, addr == 0xFF4B:
		return b.ppu.CPURead(addr)
	case addr == 0xFF46:
		return b.dma
	case addr == 0xFF50:
		return 0xFF
	case addr <= 0xFF7F:
		return 0xFF // sound and other unimplemented IO, silently accepted
	case addr <= 0xFFFE:
		return b.hram.Read8(addr - 0xFF80)
	case addr == 0xFFFF:
		return b.irqs.EnableFlag
	default:
		return 0xFF
	}
}

// Read16 reads a little-endian 16-bit value.
func (b *Bus) Read16(addr uint16) uint16 {
	return uint16(b.Read(addr)) | uint16(b.Read(addr+1))<<8
}

// Write writes one byte to CPU address space.
func (b *Bus) Write(addr uint16, value byte) {
	switch {
	case addr < 0x8000:
		b.cart.WriteROM(addr, value)
	case addr <= 0x9FFF:
		b.ppu.CPUWrite(addr, value)
	case addr <= 0xBFFF:
		b.cart.WriteRAM(addr, value)
	case addr <= 0xDFFF:
		b.wram.Write8(addr-0xC000, value)
	case addr <= 0xFDFF:
		b.wram.Write8(addr-0x2000-0xC000, value)
	case addr <= 0xFE9F:
		if !b.dmaActive {
			b.ppu.CPUWrite(addr, value)
		}
	case addr <= 0xFEFF:
		// unused, writes ignored
	case addr == 0xFF00:
		b.joypad.Write(value, &b.irqs)
	case addr == 0xFF01:
		b.sb = value
	case addr == 0xFF02:
		b.sc = value & 0x81
		if b.sc&0x80 != 0 {
			if b.sw != nil {
				_, _ = b.sw.Write([]byte{b.sb})
			}
			b.irqs.Request(irq.Serial)
			b.sc &^= 0x80
		}
	case addr == 0xFF04:
		b.timer.WriteDIV()
	case addr == 0xFF05:
		b.timer.WriteTIMA(value)
	case addr == 0xFF06:
		b.timer.WriteTMA(value)
	case addr == 0xFF07:
		b.timer.WriteTAC(value)
	case addr == 0xFF0F:
		b.irqs.RequestFlag = value & 0x1F
	case addr == 0xFF40, addr == 0xFF41, addr == 0xFF42, addr == 0xFF43,
		addr == 0xFF44, addr == 0xFF45,
		addr == 0xFF47, addr == 0xFF48, addr == 0xFF49,
		addr == 0xFF4A, addr == 0xFF4B:
		b.ppu.CPUWrite(addr, value)
	case addr == 0xFF46:
		// The 160-byte copy happens synchronously, here, rather than
		// spread across the cycles Tick later charges for it: spec.md
		// §8 requires OAM to already equal the source region's 160
		// bytes before the instruction following this write begins.
		// dmaActive/dmaRemaining only gate CPU OAM access afterward,
		// the way real hardware blocks the bus while DMA runs.
		b.dma = value
		src := uint16(value) << 8
		for i := 0; i < 0xA0; i++ {
			b.ppu.DMAWriteOAM(i, b.Read(src+uint16(i)))
		}
		b.dmaActive = true
		b.dmaRemaining = 0xA0
	case addr == 0xFF50:
		if value != 0x00 && b.bootEnabled {
			b.bootEnabled = false
			b.irqs.LoadGame = true
		}
	case addr <= 0xFF7F:
		// sound and other unimplemented IO, silently accepted
	case addr <= 0xFFFE:
		b.hram.Write8(addr-0xFF80, value)
	case addr == 0xFFFF:
		b.irqs.EnableFlag = value
	}
}

// Write16 writes a little-endian 16-bit value.
func (b *Bus) Write16(addr uint16, value uint16) {
	b.Write(addr, byte(value))
	b.Write(addr+1, byte(value>>8))
}

// Tick advances every peripheral by cycles T-cycles, the CPU-to-bus
// handoff spec.md §2 describes.
func (b *Bus) Tick(cycles int) {
	for i := 0; i < cycles; i++ {
		b.timer.Tick(1, &b.irqs)
		b.ppu.Tick(1)
		if b.dmaActive {
			b.dmaRemaining--
			if b.dmaRemaining <= 0 {
				b.dmaActive = false
			}
		}
	}
}
