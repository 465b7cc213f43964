package ppu

// renderScanline composes background, window, and sprites for the current
// LY into the backbuffer, per spec.md §4.4. Grounded on original_source's
// gameboy/gfx/gpu.rs render_scanline/render_background/render_window/
// render_sprites, re-expressed over the teacher's fetcher/FIFO helpers for
// the background and window layers.
func (p *PPU) renderScanline() {
	ly := p.ly
	if ly >= 144 {
		return
	}

	bgTileData8000 := p.lcdc&0x10 != 0
	bgEnabled := p.lcdc&0x01 != 0
	windowEnabled := p.lcdc&0x20 != 0 && p.lcdc&0x01 != 0
	spritesEnabled := p.lcdc&0x02 != 0

	var bgMapBase uint16 = 0x9800
	if p.lcdc&0x08 != 0 {
		bgMapBase = 0x9C00
	}
	var winMapBase uint16 = 0x9800
	if p.lcdc&0x40 != 0 {
		winMapBase = 0x9C00
	}

	var ci [160]byte
	if bgEnabled {
		ci = RenderBGScanlineUsingFetcher(p, bgMapBase, bgTileData8000, p.scx, p.scy, ly)
	}

	if windowEnabled && ly >= p.wy {
		wxStart := int(p.wx) - 7
		winLine := ly - p.wy
		wci := RenderWindowScanlineUsingFetcher(p, winMapBase, bgTileData8000, wxStart, winLine)
		start := wxStart
		if start < 0 {
			start = 0
		}
		for x := start; x < 160; x++ {
			ci[x] = wci[x]
		}
	}

	p.bgColorIdx = ci
	for x := 0; x < 160; x++ {
		p.backbuffer[int(ly)*160+x] = p.resolveBGColor(ci[x])
	}

	if spritesEnabled {
		p.renderSprites(ly)
	}
}

func (p *PPU) resolveBGColor(colorIndex byte) uint32 {
	shift := colorIndex * 2
	value := (p.bgp >> shift) & 0x03
	return p.theme[value]
}

func (p *PPU) resolveObjColor(colorIndex byte, palette byte) uint32 {
	pal := p.obp0
	if palette != 0 {
		pal = p.obp1
	}
	shift := colorIndex * 2
	value := (pal >> shift) & 0x03
	return p.theme[value]
}

// renderSprites iterates the 40 OAM entries in table order; a later entry
// overwrites an earlier one at the same pixel (matches original_source,
// which does not sort by X or OAM index before drawing).
func (p *PPU) renderSprites(ly byte) {
	height := 8
	if p.lcdc&0x04 != 0 {
		height = 16
	}

	for i := 0; i < 40; i++ {
		base := i * 4
		spriteY := int(p.oam[base]) - 16
		spriteX := int(p.oam[base+1]) - 8
		tile := int(p.oam[base+2])
		attr := p.oam[base+3]

		if int(ly) < spriteY || int(ly) >= spriteY+height {
			continue
		}

		flipY := attr&0x40 != 0
		flipX := attr&0x20 != 0
		behindBG := attr&0x80 != 0
		palette := (attr & 0x10) >> 4

		row := int(ly) - spriteY
		if flipY {
			row = height - 1 - row
		}
		if height == 16 {
			tile &^= 0x01
		}
		tileIndex := tile + row/8
		rowInTile := row % 8

		tileAddr := 0x8000 + uint16(tileIndex)*16 + uint16(rowInTile)*2
		lo := p.Read(tileAddr)
		hi := p.Read(tileAddr + 1)

		for px := 0; px < 8; px++ {
			screenX := spriteX + px
			if screenX < 0 || screenX >= 160 {
				continue
			}
			bit := px
			if !flipX {
				bit = 7 - px
			}
			colorIndex := ((hi>>uint(bit))&1)<<1 | ((lo >> uint(bit)) & 1)
			if colorIndex == 0 {
				continue
			}
			if behindBG && p.bgColorIdx[screenX] != 0 {
				continue
			}
			p.backbuffer[int(ly)*160+screenX] = p.resolveObjColor(colorIndex, palette)
		}
	}
}
