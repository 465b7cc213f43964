// Package joypad implements the button matrix and its projection onto
// the FF00 data register, including the high-to-low edge that raises the
// Joypad interrupt.
//
// Grounded on the teacher's internal/bus.go JOYP handling (button
// bitmasks, select-line projection, updateJoypadIRQ edge detection) and
// the original Rust source's gameboy::joypad.
package joypad

import "github.com/dotmatrix-labs/lr35902core/internal/irq"

// Button bitmasks for SetState. A set bit means the button is pressed.
const (
	Right = 1 << 0
	Left  = 1 << 1
	Up    = 1 << 2
	Down  = 1 << 3
	A     = 1 << 4
	B     = 1 << 5
	Select = 1 << 6
	Start  = 1 << 7
)

// Joypad tracks pressed-button state and the FF00 select lines.
type Joypad struct {
	state  byte // Button* bitmask, set bit = pressed
	select_ byte // bits 5-4 as last written to FF00
	lower4 byte // last computed active-low lower nibble, for edge detection
}

// SetState replaces the pressed-button bitmask and re-evaluates the edge.
func (j *Joypad) SetState(mask byte, bank *irq.Bank) {
	j.state = mask
	j.refresh(bank)
}

// Read returns the FF00 register value: bits 7-6 read high, bits 5-4
// reflect the selection, bits 3-0 are active-low per the selected group.
func (j *Joypad) Read() byte {
	return 0xC0 | (j.select_ & 0x30) | j.lower()
}

// Write updates the select lines (bits 5-4 of FF00) and re-evaluates the
// interrupt edge.
func (j *Joypad) Write(value byte, bank *irq.Bank) {
	j.select_ = value & 0x30
	j.refresh(bank)
}

func (j *Joypad) lower() byte {
	lo := byte(0x0F)
	if j.select_&0x10 == 0 { // P14 low selects D-Pad
		if j.state&Right != 0 {
			lo &^= 0x01
		}
		if j.state&Left != 0 {
			lo &^= 0x02
		}
		if j.state&Up != 0 {
			lo &^= 0x04
		}
		if j.state&Down != 0 {
			lo &^= 0x08
		}
	}
	if j.select_&0x20 == 0 { // P15 low selects buttons
		if j.state&A != 0 {
			lo &^= 0x01
		}
		if j.state&B != 0 {
			lo &^= 0x02
		}
		if j.state&Select != 0 {
			lo &^= 0x04
		}
		if j.state&Start != 0 {
			lo &^= 0x08
		}
	}
	return lo
}

func (j *Joypad) refresh(bank *irq.Bank) {
	newLower := j.lower()
	falling := j.lower4 &^ newLower // bits that were 1 (unselected/released) and are now 0
	if falling != 0 {
		bank.Request(irq.Joypad)
	}
	j.lower4 = newLower
}
