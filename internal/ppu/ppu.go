// Package ppu implements the pixel-processing unit: the OAM/VRAM/HBlank/
// VBlank scanline timing machine and the background/window/sprite
// compositor that fills the 160x144 frame buffer.
//
// Grounded on the teacher's internal/ppu/ppu.go for CPU-facing register
// access and the mode-timing state machine (the 0x50/0xAC/0xCC/0x1C8 dot
// constants), and on original_source's gameboy/gfx/gpu.rs for the pixel
// composition math the teacher's ppu.go never wired up (its VRAM-mode
// exit fell straight to HBlank without ever touching a frame buffer).
package ppu

// InterruptRequester raises an IF bit (0:VBlank, 1:STAT(LCD)).
type InterruptRequester func(bit int)

// Theme maps a 2-bit palette value (0..3) to an RGBA8888 color.
type Theme [4]uint32

// DefaultTheme is the classic four-shade DMG grayscale, lightest first.
var DefaultTheme = Theme{0xFFFFFFFF, 0xAAAAAAFF, 0x555555FF, 0x000000FF}

// PPU models VRAM/OAM, LCDC/STAT registers, LY/LYC, mode timing, and
// produces a composited RGBA frame once per 70,224-cycle pass.
type PPU struct {
	vram [0x2000]byte // 0x8000-0x9FFF
	oam  [0xA0]byte   // 0xFE00-0xFE9F

	lcdc byte
	stat byte
	scy  byte
	scx  byte
	ly   byte
	lyc  byte
	bgp  byte
	obp0 byte
	obp1 byte
	wy   byte
	wx   byte

	dot int

	frame      [160 * 144]uint32 // last presented
	backbuffer [160 * 144]uint32 // being drawn
	bgColorIdx [160]byte         // this scanline's BG+window palette indices, for sprite priority

	theme  Theme
	onFrame func(*[160 * 144]uint32)

	req InterruptRequester
}

func New(req InterruptRequester) *PPU { return &PPU{req: req, theme: DefaultTheme} }

// SetTheme overrides the 4-shade color table used to resolve palette values.
func (p *PPU) SetTheme(t Theme) { p.theme = t }

// SetFrameCallback installs the HostSurface.OnFrame hook, invoked with the
// just-presented frame at VBlank entry.
func (p *PPU) SetFrameCallback(fn func(*[160 * 144]uint32)) { p.onFrame = fn }

// Frame returns the last frame presented to the host.
func (p *PPU) Frame() *[160 * 144]uint32 { return &p.frame }

// Read implements the fetcher's VRAMReader, bypassing the CPU's mode-gated
// access since the PPU itself must always see VRAM during rendering.
func (p *PPU) Read(addr uint16) byte { return p.vram[addr-0x8000] }

// DMAWriteOAM writes directly into OAM, bypassing the mode-gated CPU
// access CPUWrite enforces: OAM DMA is wired to the array itself on
// real hardware, not through the CPU's bus arbitration, so it proceeds
// regardless of the current mode.
func (p *PPU) DMAWriteOAM(offset int, value byte) { p.oam[offset] = value }

// CPURead returns bytes for VRAM, OAM, and PPU IO registers. Returns 0xFF for others.
func (p *PPU) CPURead(addr uint16) byte {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		if (p.stat & 0x03) == 3 {
			return 0xFF
		}
		return p.vram[addr-0x8000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		m := p.stat & 0x03
		if m == 2 || m == 3 {
			return 0xFF
		}
		return p.oam[addr-0xFE00]
	case addr == 0xFF40:
		return p.lcdc
	case addr == 0xFF41:
		return 0x80 | (p.stat & 0x7F)
	case addr == 0xFF42:
		return p.scy
	case addr == 0xFF43:
		return p.scx
	case addr == 0xFF44:
		return p.ly
	case addr == 0xFF45:
		return p.lyc
	case addr == 0xFF47:
		return p.bgp
	case addr == 0xFF48:
		return p.obp0
	case addr == 0xFF49:
		return p.obp1
	case addr == 0xFF4A:
		return p.wy
	case addr == 0xFF4B:
		return p.wx
	default:
		return 0xFF
	}
}

// CPUWrite handles writes to VRAM, OAM, and PPU IO regs.
func (p *PPU) CPUWrite(addr uint16, value byte) {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		if (p.stat & 0x03) == 3 {
			return
		}
		p.vram[addr-0x8000] = value
	case addr >= 0xFE00 && addr <= 0xFE9F:
		m := p.stat & 0x03
		if m == 2 || m == 3 {
			return
		}
		p.oam[addr-0xFE00] = value
	case addr == 0xFF40:
		prev := p.lcdc
		p.lcdc = value
		if (p.lcdc&0x80) == 0 && (prev&0x80) != 0 {
			p.ly = 0
			p.dot = 0
			p.setMode(0)
			p.updateLYC()
			p.frame = [160 * 144]uint32{}
		} else if (p.lcdc&0x80) != 0 && (prev&0x80) == 0 {
			p.ly = 0
			p.dot = 0
			p.setMode(2)
			p.updateLYC()
		}
	case addr == 0xFF41:
		p.stat = (p.stat & 0x07) | (value & 0x78)
	case addr == 0xFF42:
		p.scy = value
	case addr == 0xFF43:
		p.scx = value
	case addr == 0xFF44:
		p.ly = 0
		p.dot = 0
		p.updateLYC()
		if (p.lcdc & 0x80) != 0 {
			p.setMode(2)
		}
	case addr == 0xFF45:
		p.lyc = value
		p.updateLYC()
	case addr == 0xFF47:
		p.bgp = value
	case addr == 0xFF48:
		p.obp0 = value
	case addr == 0xFF49:
		p.obp1 = value
	case addr == 0xFF4A:
		p.wy = value
	case addr == 0xFF4B:
		p.wx = value
	}
}

// Tick advances PPU state by the given number of dots (T-cycles).
func (p *PPU) Tick(cycles int) {
	if cycles <= 0 {
		return
	}
	for i := 0; i < cycles; i++ {
		if (p.lcdc & 0x80) == 0 {
			continue
		}
		p.dot++
		var mode byte
		if p.ly >= 144 {
			mode = 1
		} else {
			switch {
			case p.dot < 80:
				mode = 2
			case p.dot < 80+172:
				mode = 3
			default:
				mode = 0
			}
		}
		prevMode := p.stat & 0x03
		p.setMode(mode)
		if prevMode == 3 && mode == 0 {
			p.renderScanline()
		}

		if p.dot >= 456 {
			p.dot = 0
			p.ly++
			if p.ly == 144 {
				p.frame = p.backbuffer
				if p.onFrame != nil {
					p.onFrame(&p.frame)
				}
				if p.req != nil {
					p.req(0)
				}
				if (p.stat & (1 << 4)) != 0 {
					if p.req != nil {
						p.req(1)
					}
				}
			} else if p.ly > 153 {
				p.ly = 0
			}
			p.updateLYC()
			if p.ly >= 144 {
				p.setMode(1)
			} else {
				p.setMode(2)
			}
		}
	}
}

func (p *PPU) setMode(mode byte) {
	prev := p.stat & 0x03
	if prev == mode {
		return
	}
	p.stat = (p.stat &^ 0x03) | (mode & 0x03)
	switch mode {
	case 0:
		if (p.stat & (1 << 3)) != 0 {
			if p.req != nil {
				p.req(1)
			}
		}
	case 2:
		if (p.stat & (1 << 5)) != 0 {
			if p.req != nil {
				p.req(1)
			}
		}
	}
}

func (p *PPU) updateLYC() {
	if p.ly == p.lyc {
		p.stat |= 1 << 2
		if (p.stat & (1 << 6)) != 0 {
			if p.req != nil {
				p.req(1)
			}
		}
	} else {
		p.stat &^= 1 << 2
	}
}

func (p *PPU) BGP() byte  { return p.bgp }
func (p *PPU) OBP0() byte { return p.obp0 }
func (p *PPU) OBP1() byte { return p.obp1 }
func (p *PPU) LCDC() byte { return p.lcdc }
func (p *PPU) SCY() byte  { return p.scy }
func (p *PPU) SCX() byte  { return p.scx }
func (p *PPU) WY() byte   { return p.wy }
func (p *PPU) WX() byte   { return p.wx }
func (p *PPU) LY() byte   { return p.ly }
