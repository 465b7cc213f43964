package ppu

// RenderBGScanlineUsingFetcher produces one row of 160 background color
// indices for compose.go's renderScanline, fetching tile rows through
// tileRowFetcher/pixelFIFO rather than resolving pixels directly from
// VRAM one at a time.
//
//   - mem: the VRAM view (the PPU itself in production, a stub in tests)
//   - mapBase: 0x9800 or 0x9C00, whichever LCDC selects for BG
//   - tileData8000: true selects 0x8000 unsigned tile addressing
//   - scx, scy: scroll registers
//   - ly: the scanline being composed, 0..143
func RenderBGScanlineUsingFetcher(mem VRAMReader, mapBase uint16, tileData8000 bool, scx, scy, ly byte) [160]byte {
	var out [160]byte

	bgY := uint16(ly) + uint16(scy)
	fineY := byte(bgY & 7)
	mapRow := (bgY >> 3) & 31

	fineX := int(scx & 7)
	tileCol := uint16(scx>>3) & 31
	tileIndexAddr := mapBase + mapRow*32 + tileCol

	var fifo pixelFIFO
	fch := newTileRowFetcher(mem, &fifo)
	fch.Configure(tileData8000, tileIndexAddr, fineY)
	fch.Fetch()
	for i := 0; i < fineX; i++ {
		fifo.Pop() // discard the scx fractional pixels of the first tile
	}

	for x := 0; x < 160; x++ {
		if fifo.Len() == 0 {
			tileCol = (tileCol + 1) & 31 // wraps across the 32-tile map row
			tileIndexAddr = mapBase + mapRow*32 + tileCol
			fch.Configure(tileData8000, tileIndexAddr, fineY)
			fch.Fetch()
		}
		px, _ := fifo.Pop()
		out[x] = px
	}
	return out
}

// RenderWindowScanlineUsingFetcher renders the window layer for a
// scanline, same fetcher/FIFO pipeline as the background pass. Pixels
// left of wxStart (WX-7) stay 0 so compose.go's renderScanline can
// overlay only the window's portion of the row onto the background's.
func RenderWindowScanlineUsingFetcher(mem VRAMReader, mapBase uint16, tileData8000 bool, wxStart int, winLine byte) [160]byte {
	var out [160]byte
	if wxStart >= 160 {
		return out
	}
	if wxStart < 0 {
		wxStart = 0
	}

	mapRow := (uint16(winLine) >> 3) & 31
	fineY := winLine & 7
	tileCol := uint16(0)
	tileIndexAddr := mapBase + mapRow*32 + tileCol

	var fifo pixelFIFO
	fch := newTileRowFetcher(mem, &fifo)
	fch.Configure(tileData8000, tileIndexAddr, fineY)
	fch.Fetch()

	for x := wxStart; x < 160; x++ {
		if fifo.Len() == 0 {
			tileCol = (tileCol + 1) & 31
			tileIndexAddr = mapBase + mapRow*32 + tileCol
			fch.Configure(tileData8000, tileIndexAddr, fineY)
			fch.Fetch()
		}
		px, _ := fifo.Pop()
		out[x] = px
	}
	return out
}
