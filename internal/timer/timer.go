// Package timer implements the DIV/TIMA/TMA/TAC peripheral.
//
// Grounded on the teacher's internal/bus.go Tick/timerInput/incrementTIMA
// (hardware-accurate falling-edge detection and the 4-cycle delayed
// reload), which already implements the corrected semantics spec.md §9
// calls out relative to the original Rust source's inc_tima_register bug
// ("increments TIMA by ignoring the result"). The delayed reload is a
// superset of the spec's plain "reload TIMA from TMA on overflow" and is
// kept because it matches real hardware and the teacher's own tests.
package timer

import "github.com/dotmatrix-labs/lr35902core/internal/irq"

// Timer owns DIV/TIMA/TMA/TAC and the internal 16-bit divider they're
// derived from.
type Timer struct {
	div16 uint16 // internal divider; DIV register is its high byte
	tima  byte
	tma   byte
	tac   byte // low 3 bits meaningful

	reloadDelay int // cycles remaining until TIMA reloads from TMA; 0 = none pending
}

// divInputBit selects which bit of the internal divider feeds TIMA's
// clock, indexed by TAC bits 0-1 (00:4096Hz 01:262144Hz 10:65536Hz 11:16384Hz).
var divInputBit = [4]uint{9, 3, 5, 7}

func (t *Timer) enabled() bool { return t.tac&0x04 != 0 }

func (t *Timer) input() bool {
	if !t.enabled() {
		return false
	}
	bit := divInputBit[t.tac&0x03]
	return (t.div16>>bit)&1 != 0
}

// DIV returns the visible 8-bit divider register.
func (t *Timer) DIV() byte { return byte(t.div16 >> 8) }

// WriteDIV resets the internal divider to zero. If that reset causes a
// falling edge on the timer's clock input, TIMA increments once.
func (t *Timer) WriteDIV() {
	old := t.input()
	t.div16 = 0
	if old && !t.input() {
		t.increment()
	}
}

func (t *Timer) TIMA() byte { return t.tima }

// WriteTIMA writes TIMA directly. A write during the pending-reload
// window cancels the reload.
func (t *Timer) WriteTIMA(v byte) {
	t.tima = v
	t.reloadDelay = 0
}

func (t *Timer) TMA() byte       { return t.tma }
func (t *Timer) WriteTMA(v byte) { t.tma = v }

func (t *Timer) TAC() byte { return 0xF8 | t.tac&0x07 }

// WriteTAC writes TAC. Changing it can itself cause a falling edge on the
// timer input, which increments TIMA once (real-hardware quirk).
func (t *Timer) WriteTAC(v byte) {
	old := t.input()
	t.tac = v & 0x07
	if old && !t.input() {
		t.increment()
	}
}

func (t *Timer) increment() {
	if t.reloadDelay > 0 {
		return
	}
	if t.tima == 0xFF {
		t.tima = 0x00
		t.reloadDelay = 4 // reload happens 4 T-cycles after overflow
		return
	}
	t.tima++
}

// Tick advances the timer by the given number of T-cycles, requesting
// irq.Timer on overflow-reload.
func (t *Timer) Tick(cycles int, bank *irq.Bank) {
	for i := 0; i < cycles; i++ {
		old := t.input()
		t.div16++
		newInput := t.input()
		falling := old && !newInput

		if t.reloadDelay > 0 {
			t.reloadDelay--
			if t.reloadDelay == 0 {
				t.tima = t.tma
				bank.Request(irq.Timer)
			}
		}
		if falling {
			t.increment()
		}
	}
}
