// Package emu wires cpu, bus, cart, ppu, timer, joypad, and irq into a
// single Machine: the orchestrator a host (CLI or GUI) drives one frame
// at a time.
//
// Grounded on the teacher's internal/emu/emu.go Machine shape (the
// LoadCartridge/StepFrame/Framebuffer/SetButtons surface its own
// blargg_test.go already exercises) with the Milestone-0 stub body
// replaced by the real core this package now composes.
package emu

import (
	"fmt"
	"io"
	"os"

	"github.com/dotmatrix-labs/lr35902core/internal/bus"
	"github.com/dotmatrix-labs/lr35902core/internal/cart"
	"github.com/dotmatrix-labs/lr35902core/internal/core"
	"github.com/dotmatrix-labs/lr35902core/internal/cpu"
	"github.com/dotmatrix-labs/lr35902core/internal/diag"
	"github.com/dotmatrix-labs/lr35902core/internal/joypad"
)

// frameBudget is the T-cycle quantum a single LCD frame spends at
// single speed, ending with the PPU presenting a frame at VBlank entry.
const frameBudget = 70224

// Buttons is the host-facing button state, translated to the joypad
// package's bitmask on every SetButtons call.
type Buttons struct {
	A, B, Start, Select   bool
	Up, Down, Left, Right bool
}

func (b Buttons) mask() byte {
	var m byte
	if b.A {
		m |= joypad.A
	}
	if b.B {
		m |= joypad.B
	}
	if b.Start {
		m |= joypad.Start
	}
	if b.Select {
		m |= joypad.Select
	}
	if b.Up {
		m |= joypad.Up
	}
	if b.Down {
		m |= joypad.Down
	}
	if b.Left {
		m |= joypad.Left
	}
	if b.Right {
		m |= joypad.Right
	}
	return m
}

// Mask exposes the joypad bitmask Buttons translates to, for a
// core.HostSurface implementation that needs to report ButtonState()
// in the same bit layout SetButtons already uses.
func (b Buttons) Mask() uint8 { return b.mask() }

// Machine owns one loaded cartridge's worth of CPU/bus/PPU state and
// presents it to a host as an RGBA framebuffer plus a button sink.
type Machine struct {
	cfg Config

	cpu *cpu.CPU
	bus *bus.Bus
	hdr *cart.Header

	w, h int
	fb   []byte // RGBA8888, 160x144x4

	lastErr error
	frames  uint64
	log     *diag.Logger

	surface core.HostSurface
}

// New creates a Machine with no cartridge loaded; StepFrame is a no-op
// error until LoadROM succeeds. cfg.Trace raises the Machine's logger to
// diag.LevelTrace, generalizing the teacher's single GB_DEBUG_TIMER flag
// to every Config that wants per-frame diagnostics.
func New(cfg Config) *Machine {
	level := diag.LevelWarn
	if cfg.Trace {
		level = diag.LevelTrace
	}
	return &Machine{cfg: cfg, w: 160, h: 144, fb: make([]byte, 160*144*4), log: diag.New(level)}
}

// LoadROM parses the cartridge header, selects an MBC, and builds a fresh
// bus and CPU around it. A non-empty boot ROM (a full 256-byte image or
// the 4-byte bootrom.Stub) is mapped and run from PC 0; with none, the
// CPU starts post-boot at PC 0x0100, as if the boot sequence had already
// completed.
func (m *Machine) LoadROM(rom []byte, boot []byte) error {
	mbc, h, err := cart.New(rom)
	if err != nil {
		return err
	}

	b := bus.New(mbc)
	c := cpu.New(b)
	if len(boot) > 0 {
		b.SetBootROM(boot)
	} else {
		c.ResetNoBoot()
		c.SetPC(0x0100)
	}

	if id, ok := autoCompatPaletteFromHeader(h); ok {
		b.PPU().SetTheme(paletteForID(id))
	}
	b.PPU().SetFrameCallback(m.blit)

	m.bus = b
	m.cpu = c
	m.hdr = h
	m.lastErr = nil
	m.frames = 0
	m.log.Tracef("loaded %q cart_type=%s rom_banks=%d ram_bytes=%d", h.Title, h.CartTypeStr, h.ROMBanks, h.RAMSizeBytes)
	return nil
}

// LoadROMFromFile reads a ROM image from disk and loads it with no boot
// ROM, starting execution at the cartridge entry point.
func (m *Machine) LoadROMFromFile(path string) error {
	rom, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return m.LoadROM(rom, nil)
}

// SetSerialWriter routes bytes written to the serial port (0xFF01/0xFF02)
// to w — used by test-ROM harnesses that report pass/fail over serial.
func (m *Machine) SetSerialWriter(w io.Writer) {
	if m.bus == nil {
		return
	}
	m.bus.SetSerialWriter(w)
}

// SetButtons replaces the pressed-button state for the next joypad read.
// Callers driving the Machine directly (tests, headless harnesses) use
// this; a host wired in via SetHostSurface is polled instead, once per
// StepFrame, and this call is unnecessary alongside one.
func (m *Machine) SetButtons(b Buttons) {
	if m.bus == nil {
		return
	}
	m.bus.SetJoypadState(b.mask())
}

// SetHostSurface attaches the host that receives finished frames and
// supplies button state, spec.md §6's "host surface interface (consumed
// by core)". OnFrame fires once per StepFrame from the PPU's frame
// callback; ButtonState is polled at the start of every StepFrame.
func (m *Machine) SetHostSurface(s core.HostSurface) { m.surface = s }

// Header returns the parsed cartridge header, or nil if nothing is loaded.
func (m *Machine) Header() *cart.Header { return m.hdr }

// Err returns the error (if any) that stopped the most recent StepFrame
// or StepFrameNoRender call from completing its full budget.
func (m *Machine) Err() error { return m.lastErr }

func (m *Machine) stepFrame() error {
	if m.cpu == nil {
		return fmt.Errorf("emu: no cartridge loaded")
	}
	if m.surface != nil {
		m.bus.SetJoypadState(m.surface.ButtonState())
	}
	return m.cpu.Run(frameBudget)
}

// StepFrame runs one frame's worth of CPU/bus/PPU ticks, presenting a new
// framebuffer through the PPU's frame callback.
func (m *Machine) StepFrame() error {
	err := m.stepFrame()
	m.lastErr = err
	if err != nil {
		m.log.Warnf("frame %d: %v", m.frames, err)
		return err
	}
	m.frames++
	m.log.Tracef("frame %d complete", m.frames)
	return nil
}

// StepFrameNoRender is StepFrame for headless harnesses that only care
// about serial output or final register state, not the framebuffer; any
// error is recorded (see Err) rather than propagated, since a runaway
// test ROM that trips an unimplemented opcode should still let the
// caller inspect whatever it already wrote to serial.
func (m *Machine) StepFrameNoRender() {
	m.lastErr = m.stepFrame()
	if m.lastErr != nil {
		m.log.Warnf("frame %d: %v", m.frames, m.lastErr)
		return
	}
	m.frames++
}

func (m *Machine) blit(frame *[160 * 144]uint32) {
	for i, px := range frame {
		o := i * 4
		m.fb[o+0] = byte(px >> 24)
		m.fb[o+1] = byte(px >> 16)
		m.fb[o+2] = byte(px >> 8)
		m.fb[o+3] = byte(px)
	}
	if m.surface != nil {
		m.surface.OnFrame(frame)
	}
}

// Framebuffer returns the most recently presented frame as RGBA8888,
// row-major, 160x144.
func (m *Machine) Framebuffer() []byte { return m.fb }

// BatteryRAM returns a copy of the cartridge's battery-backed RAM for
// persistence, or nil if the cartridge has none or nothing is loaded.
func (m *Machine) BatteryRAM() []byte {
	if m.bus == nil {
		return nil
	}
	return m.bus.Cart().BatteryRAM()
}

// LoadBatteryRAM restores previously saved battery-backed RAM.
func (m *Machine) LoadBatteryRAM(data []byte) {
	if m.bus == nil {
		return
	}
	m.bus.Cart().LoadBatteryRAM(data)
}
