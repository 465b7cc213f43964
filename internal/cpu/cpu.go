// Package cpu implements the Sharp LR35902 instruction set: registers,
// flags, the base and CB-prefixed dispatch tables, and interrupt
// servicing between instructions.
//
// Grounded on the teacher's internal/cpu/cpu.go for register layout,
// flag-computation helpers, and per-opcode cycle costs; redesigned per
// the dispatch-table shape of the original Rust source's instruction
// module (opcodes.rs) rather than the teacher's switch, and corrected
// against a handful of documented source bugs (ADC/SBC N-flag, CPL,
// TIMA reload, EI's one-instruction delay, ADD HL carry-from-32-bit-sum,
// CP half-carry formula, signed relative-jump offsets).
package cpu

import (
	"github.com/dotmatrix-labs/lr35902core/internal/bus"
	"github.com/dotmatrix-labs/lr35902core/internal/core"
	"github.com/dotmatrix-labs/lr35902core/internal/registers"
)

// CPU holds Sharp LR35902 register state and borrows the bus for each step.
type CPU struct {
	registers.File

	halted bool

	// eiArmed tracks the one-instruction delay between EI executing and
	// IME actually going true (spec.md §9 / §4.1): EI sets eiArmed; the
	// instruction *following* EI runs with IME still false, and only
	// once that instruction completes does IME become true.
	eiArmed bool

	bus *bus.Bus
}

// New creates a CPU with SP at the top of HRAM and PC at 0, the state a
// boot ROM expects to start from.
func New(b *bus.Bus) *CPU {
	c := &CPU{bus: b}
	c.SP = 0xFFFE
	c.PC = 0x0000
	return c
}

func (c *CPU) SetPC(pc uint16)  { c.PC = pc }
func (c *CPU) Bus() *bus.Bus    { return c.bus }
func (c *CPU) Halted() bool     { return c.halted }
func (c *CPU) IME() bool        { return c.bus.Irqs().IME }

// ResetNoBoot sets registers to the documented DMG post-boot values, for
// running a cartridge without executing a boot ROM.
func (c *CPU) ResetNoBoot() {
	c.File.ResetPostBoot(false)
	c.bus.Irqs().IME = false
	c.halted = false
	c.eiArmed = false
}

const (
	flagZ = registers.FlagZ
	flagN = registers.FlagN
	flagH = registers.FlagH
	flagC = registers.FlagC
)

func (c *CPU) setZNHC(z, n, h, cy bool) {
	var f byte
	if z {
		f |= flagZ
	}
	if n {
		f |= flagN
	}
	if h {
		f |= flagH
	}
	if cy {
		f |= flagC
	}
	c.F = f
}

func (c *CPU) add8(a, b byte) (res byte, z, n, h, cy bool) {
	r := uint16(a) + uint16(b)
	res = byte(r)
	z = res == 0
	h = ((a & 0x0F) + (b & 0x0F)) > 0x0F
	cy = r > 0xFF
	return
}

func (c *CPU) adc8(a, b byte, carryIn bool) (res byte, z, n, h, cy bool) {
	ci := byte(0)
	if carryIn {
		ci = 1
	}
	r := uint16(a) + uint16(b) + uint16(ci)
	res = byte(r)
	z = res == 0
	h = ((a & 0x0F) + (b & 0x0F) + ci) > 0x0F
	cy = r > 0xFF
	return
}

func (c *CPU) sub8(a, b byte) (res byte, z, n, h, cy bool) {
	r := int16(a) - int16(b)
	res = byte(r)
	z = res == 0
	n = true
	h = (a & 0x0F) < (b & 0x0F)
	cy = int16(a) < int16(b)
	return
}

func (c *CPU) sbc8(a, b byte, carryIn bool) (res byte, z, n, h, cy bool) {
	ci := byte(0)
	if carryIn {
		ci = 1
	}
	r := int16(a) - int16(b) - int16(ci)
	res = byte(r)
	z = res == 0
	n = true
	h = (a & 0x0F) < (b&0x0F)+ci
	cy = int16(a) < int16(b)+int16(ci)
	return
}

func (c *CPU) and8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a & b
	z = res == 0
	h = true
	return
}

func (c *CPU) xor8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a ^ b
	z = res == 0
	return
}

func (c *CPU) or8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a | b
	z = res == 0
	return
}

// cp8 compares without storing; half-carry is a genuine nibble borrow
// comparison, not the "(A&0x0F)==0" shortcut the source used.
func (c *CPU) cp8(a, b byte) (z, n, h, cy bool) {
	_, z, n, h, cy = c.sub8(a, b)
	return
}

func (c *CPU) read8(addr uint16) byte     { return c.bus.Read(addr) }
func (c *CPU) write8(addr uint16, v byte) { c.bus.Write(addr, v) }

func (c *CPU) fetch8() byte {
	v := c.read8(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	hi := uint16(c.fetch8())
	return lo | hi<<8
}

func (c *CPU) read16(addr uint16) uint16 {
	return uint16(c.read8(addr)) | uint16(c.read8(addr+1))<<8
}

func (c *CPU) write16(addr uint16, v uint16) {
	c.write8(addr, byte(v))
	c.write8(addr+1, byte(v>>8))
}

// getAF/setAF/.../setHL are thin aliases over the embedded registers.File
// accessors, kept so the opcode tables can call the same short names
// throughout without every call site spelling out File.BC() etc.
func (c *CPU) getAF() uint16  { return c.AF() }
func (c *CPU) setAF(v uint16) { c.SetAF(v) }
func (c *CPU) getBC() uint16  { return c.BC() }
func (c *CPU) setBC(v uint16) { c.SetBC(v) }
func (c *CPU) getDE() uint16  { return c.DE() }
func (c *CPU) setDE(v uint16) { c.SetDE(v) }
func (c *CPU) getHL() uint16  { return c.HL() }
func (c *CPU) setHL(v uint16) { c.SetHL(v) }

func (c *CPU) push16(v uint16) {
	c.SP -= 2
	c.write16(c.SP, v)
}

func (c *CPU) pop16() uint16 {
	v := c.read16(c.SP)
	c.SP += 2
	return v
}

// Step executes exactly one instruction (or the interrupt-service
// sequence, or one cycle of HALT sleep) and returns the cycles consumed.
// Whichever of those this call turns out to be, it counts as "the
// instruction following EI" for the one-instruction IME delay.
func (c *CPU) Step() (int, error) {
	wasArmed := c.eiArmed
	defer func() {
		if wasArmed {
			c.bus.Irqs().IME = true
			c.eiArmed = false
		}
	}()

	if cycles, serviced := c.serviceInterrupts(); serviced {
		c.bus.Tick(cycles)
		return cycles, nil
	}

	if c.halted {
		if c.bus.Irqs().AnyPending() {
			c.halted = false
		} else {
			c.bus.Tick(1)
			return 1, nil
		}
	}

	op := c.fetch8()
	entry := opcodeTable[op]
	if entry.handler == nil {
		return 0, &core.CoreError{Kind: core.KindUnimplementedOpcode, Op: op, PC: c.PC - 1}
	}
	cycles := entry.handler(c)
	c.bus.Tick(cycles)
	return cycles, nil
}

// serviceInterrupts implements spec.md §4.1's between-instruction
// sequence: the synthetic LoadGame reinit takes priority over ordinary
// interrupt dispatch, which in turn only fires while IME is set.
func (c *CPU) serviceInterrupts() (cycles int, serviced bool) {
	bank := c.bus.Irqs()

	if bank.LoadGame {
		bank.LoadGame = false
		c.ResetNoBoot()
		c.PC = 0x0100
		return 4, true
	}

	if !bank.IME {
		return 0, false
	}

	kind, pending := bank.Highest()
	if !pending {
		return 0, false
	}

	bank.IME = false
	bank.Unrequest(kind)
	c.halted = false
	c.push16(c.PC)
	c.PC = kind.Vector()
	return 20, true
}

// Run steps the CPU until at least budget T-cycles have been consumed,
// the per-frame quantum spec.md §4.1 describes (70,224 at single speed).
func (c *CPU) Run(budget int) error {
	spent := 0
	for spent < budget {
		n, err := c.Step()
		if err != nil {
			return err
		}
		spent += n
	}
	return nil
}
