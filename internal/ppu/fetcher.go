package ppu

// pixelFIFO and tileRowFetcher back renderScanline's background/window
// pass (compose.go): a scanline is produced by repeatedly fetching one
// 8-pixel tile row into the FIFO and draining it into the output row,
// mirroring the fetch/shift-register split original_source's
// gameboy/gfx/gpu.rs keeps between tile decode and pixel output.

// VRAMReader is the read-only view a fetcher needs into VRAM; PPU
// satisfies it directly (see ppu.go's Read), and tests substitute a
// plain map.
type VRAMReader interface {
	Read(addr uint16) byte
}

// pixelFIFO is a ring buffer of 2-bit BG/window color indices. 32 slots
// is room for four tile rows queued ahead of the pixel being drained,
// more headroom than a single renderScanline pass ever needs.
type pixelFIFO struct {
	buf  [32]byte
	head int
	tail int
	size int
}

func (q *pixelFIFO) Clear()   { q.head, q.tail, q.size = 0, 0, 0 }
func (q *pixelFIFO) Len() int { return q.size }

func (q *pixelFIFO) Push(colorIdx byte) bool {
	if q.size == len(q.buf) {
		return false
	}
	q.buf[q.tail] = colorIdx & 0x03
	q.tail = (q.tail + 1) % len(q.buf)
	q.size++
	return true
}

func (q *pixelFIFO) Pop() (byte, bool) {
	if q.size == 0 {
		return 0, false
	}
	v := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return v, true
}

// tileRowFetcher decodes one tile row (8 pixels) at a time from a
// tilemap entry plus the tile data it points at, and pushes the
// decoded color indices into its FIFO.
type tileRowFetcher struct {
	mem           VRAMReader
	fifo          *pixelFIFO
	tileData8000  bool   // true: 0x8000 unsigned addressing; false: 0x8800 signed
	tileIndexAddr uint16 // tilemap byte naming which tile to decode
	fineY         byte   // row within the 8x8 tile, 0..7
}

func newTileRowFetcher(mem VRAMReader, f *pixelFIFO) *tileRowFetcher {
	return &tileRowFetcher{mem: mem, fifo: f}
}

// Configure points the fetcher at a new tilemap entry ahead of the next
// Fetch call.
func (fch *tileRowFetcher) Configure(tileData8000 bool, tileIndexAddr uint16, fineY byte) {
	fch.tileData8000 = tileData8000
	fch.tileIndexAddr = tileIndexAddr
	fch.fineY = fineY & 7
}

// Fetch reads the tilemap byte at tileIndexAddr, resolves it to a tile
// data address under the configured addressing mode, and pushes the
// row's 8 color indices (MSB-first, matching hardware pixel order).
func (fch *tileRowFetcher) Fetch() {
	tileNum := fch.mem.Read(fch.tileIndexAddr)
	var rowAddr uint16
	if fch.tileData8000 {
		rowAddr = 0x8000 + uint16(tileNum)*16 + uint16(fch.fineY)*2
	} else {
		rowAddr = 0x9000 + uint16(int8(tileNum))*16 + uint16(fch.fineY)*2
	}
	lo := fch.mem.Read(rowAddr)
	hi := fch.mem.Read(rowAddr + 1)
	for px := 0; px < 8; px++ {
		bit := 7 - byte(px)
		colorIdx := ((hi>>bit)&1)<<1 | ((lo >> bit) & 1)
		fch.fifo.Push(colorIdx)
	}
}
