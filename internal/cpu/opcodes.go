package cpu

// opcodeEntry is the per-opcode metadata spec.md §9 calls for: one
// 256-entry table shared by the interpreter (handler) and anything that
// wants to disassemble (mnemonic/length/cycles) without re-deriving it
// from a switch. Dispatch is by indexing into opcodeTable, not by switch.
type opcodeEntry struct {
	mnemonic string
	length   int
	cycles   int // for unconditional ops, and the "not taken" cost for conditional ones
	branch   int // cycles when a conditional branch is taken; 0 if unconditional
	handler  func(*CPU) int
}

var opcodeTable [256]opcodeEntry

// regGet/regSet index the B,C,D,E,H,L,(HL),A register order the opcode
// encoding uses for its 3-bit register fields.
func regGet(c *CPU, idx byte) byte {
	switch idx {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.read8(c.getHL())
	default:
		return c.A
	}
}

func regSet(c *CPU, idx byte, v byte) {
	switch idx {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.write8(c.getHL(), v)
	default:
		c.A = v
	}
}

func regName(idx byte) string {
	return [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}[idx]
}

func set(op byte, mnemonic string, length, cycles int, h func(*CPU) int) {
	opcodeTable[op] = opcodeEntry{mnemonic: mnemonic, length: length, cycles: cycles, handler: h}
}

func setBranch(op byte, mnemonic string, length, notTaken, taken int, h func(*CPU) int) {
	opcodeTable[op] = opcodeEntry{mnemonic: mnemonic, length: length, cycles: notTaken, branch: taken, handler: h}
}

func init() {
	set(0x00, "NOP", 1, 4, func(c *CPU) int { return 4 })

	set(0x10, "STOP", 2, 4, func(c *CPU) int { c.fetch8(); return 4 })

	// LD r,d8
	for i, op := range [8]byte{0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x36, 0x3E} {
		idx := byte(i)
		length, cycles := 2, 8
		if idx == 6 {
			cycles = 12
		}
		set(op, "LD "+regName(idx)+",d8", length, cycles, func(c *CPU) int {
			regSet(c, idx, c.fetch8())
			return cycles
		})
	}

	// LD r,r' (the 0x40-0x7F block, minus 0x76 which is HALT)
	for d := byte(0); d < 8; d++ {
		for s := byte(0); s < 8; s++ {
			op := 0x40 + d<<3 + s
			if op == 0x76 {
				continue
			}
			dst, src := d, s
			cycles := 4
			if dst == 6 || src == 6 {
				cycles = 8
			}
			set(op, "LD "+regName(dst)+","+regName(src), 1, cycles, func(c *CPU) int {
				regSet(c, dst, regGet(c, src))
				return cycles
			})
		}
	}
	set(0x76, "HALT", 1, 4, func(c *CPU) int { c.halted = true; return 4 })

	// 16-bit immediate loads
	set(0x01, "LD BC,d16", 3, 12, func(c *CPU) int { c.setBC(c.fetch16()); return 12 })
	set(0x11, "LD DE,d16", 3, 12, func(c *CPU) int { c.setDE(c.fetch16()); return 12 })
	set(0x21, "LD HL,d16", 3, 12, func(c *CPU) int { c.setHL(c.fetch16()); return 12 })
	set(0x31, "LD SP,d16", 3, 12, func(c *CPU) int { c.SP = c.fetch16(); return 12 })
	set(0x08, "LD (a16),SP", 3, 20, func(c *CPU) int { c.write16(c.fetch16(), c.SP); return 20 })

	set(0x02, "LD (BC),A", 1, 8, func(c *CPU) int { c.write8(c.getBC(), c.A); return 8 })
	set(0x12, "LD (DE),A", 1, 8, func(c *CPU) int { c.write8(c.getDE(), c.A); return 8 })
	set(0x0A, "LD A,(BC)", 1, 8, func(c *CPU) int { c.A = c.read8(c.getBC()); return 8 })
	set(0x1A, "LD A,(DE)", 1, 8, func(c *CPU) int { c.A = c.read8(c.getDE()); return 8 })

	set(0x22, "LD (HL+),A", 1, 8, func(c *CPU) int {
		hl := c.getHL()
		c.write8(hl, c.A)
		c.setHL(hl + 1)
		return 8
	})
	set(0x2A, "LD A,(HL+)", 1, 8, func(c *CPU) int {
		hl := c.getHL()
		c.A = c.read8(hl)
		c.setHL(hl + 1)
		return 8
	})
	set(0x32, "LD (HL-),A", 1, 8, func(c *CPU) int {
		hl := c.getHL()
		c.write8(hl, c.A)
		c.setHL(hl - 1)
		return 8
	})
	set(0x3A, "LD A,(HL-)", 1, 8, func(c *CPU) int {
		hl := c.getHL()
		c.A = c.read8(hl)
		c.setHL(hl - 1)
		return 8
	})

	set(0xE0, "LDH (a8),A", 2, 12, func(c *CPU) int {
		n := uint16(c.fetch8())
		c.write8(0xFF00+n, c.A)
		return 12
	})
	set(0xF0, "LDH A,(a8)", 2, 12, func(c *CPU) int {
		n := uint16(c.fetch8())
		c.A = c.read8(0xFF00 + n)
		return 12
	})
	set(0xE2, "LD (C),A", 1, 8, func(c *CPU) int { c.write8(0xFF00+uint16(c.C), c.A); return 8 })
	set(0xF2, "LD A,(C)", 1, 8, func(c *CPU) int { c.A = c.read8(0xFF00 + uint16(c.C)); return 8 })
	set(0xEA, "LD (a16),A", 3, 16, func(c *CPU) int { c.write8(c.fetch16(), c.A); return 16 })
	set(0xFA, "LD A,(a16)", 3, 16, func(c *CPU) int { c.A = c.read8(c.fetch16()); return 16 })

	// Rotates/flags on A
	set(0x07, "RLCA", 1, 4, func(c *CPU) int {
		cy := (c.A >> 7) & 1
		c.A = c.A<<1 | cy
		c.setZNHC(false, false, false, cy == 1)
		return 4
	})
	set(0x0F, "RRCA", 1, 4, func(c *CPU) int {
		cy := c.A & 1
		c.A = c.A>>1 | cy<<7
		c.setZNHC(false, false, false, cy == 1)
		return 4
	})
	set(0x17, "RLA", 1, 4, func(c *CPU) int {
		cy := (c.A >> 7) & 1
		var cin byte
		if c.F&flagC != 0 {
			cin = 1
		}
		c.A = c.A<<1 | cin
		c.setZNHC(false, false, false, cy == 1)
		return 4
	})
	set(0x1F, "RRA", 1, 4, func(c *CPU) int {
		cy := c.A & 1
		var cin byte
		if c.F&flagC != 0 {
			cin = 1
		}
		c.A = c.A>>1 | cin<<7
		c.setZNHC(false, false, false, cy == 1)
		return 4
	})
	set(0x27, "DAA", 1, 4, func(c *CPU) int {
		a := c.A
		cf := c.F&flagC != 0
		if c.F&flagN == 0 {
			if cf || a > 0x99 {
				a += 0x60
				cf = true
			}
			if c.F&flagH != 0 || a&0x0F > 9 {
				a += 0x06
			}
		} else {
			if cf {
				a -= 0x60
			}
			if c.F&flagH != 0 {
				a -= 0x06
			}
		}
		c.A = a
		c.setZNHC(c.A == 0, c.F&flagN != 0, false, cf)
		return 4
	})
	set(0x2F, "CPL", 1, 4, func(c *CPU) int {
		c.A = ^c.A
		c.F = (c.F & (flagZ | flagC)) | flagN | flagH
		return 4
	})
	set(0x37, "SCF", 1, 4, func(c *CPU) int { c.F = (c.F & flagZ) | flagC; return 4 })
	set(0x3F, "CCF", 1, 4, func(c *CPU) int {
		cy := c.F&flagC == 0
		c.setZNHC(c.F&flagZ != 0, false, false, cy)
		return 4
	})

	// INC/DEC r8
	incSrc := [8]byte{0, 1, 2, 3, 4, 5, 6, 7}
	incOps := [8]byte{0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x34, 0x3C}
	for i, op := range incOps {
		idx := incSrc[i]
		cycles := 4
		if idx == 6 {
			cycles = 12
		}
		set(op, "INC "+regName(idx), 1, cycles, func(c *CPU) int {
			old := regGet(c, idx)
			v := old + 1
			regSet(c, idx, v)
			c.setZNHC(v == 0, false, old&0x0F == 0x0F, c.F&flagC != 0)
			return cycles
		})
	}
	decOps := [8]byte{0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x35, 0x3D}
	for i, op := range decOps {
		idx := incSrc[i]
		cycles := 4
		if idx == 6 {
			cycles = 12
		}
		set(op, "DEC "+regName(idx), 1, cycles, func(c *CPU) int {
			old := regGet(c, idx)
			v := old - 1
			regSet(c, idx, v)
			c.setZNHC(v == 0, true, old&0x0F == 0x00, c.F&flagC != 0)
			return cycles
		})
	}

	// 8-bit ALU: A,r for each of the 8 groups (ADD/ADC/SUB/SBC/AND/XOR/OR/CP),
	// plus the (HL) and immediate forms.
	type aluOp struct {
		base byte
		name string
		fn   func(c *CPU, b byte)
	}
	alus := []aluOp{
		{0x80, "ADD", func(c *CPU, b byte) { r, z, n, h, cy := c.add8(c.A, b); c.A = r; c.setZNHC(z, n, h, cy) }},
		{0x88, "ADC", func(c *CPU, b byte) { r, z, n, h, cy := c.adc8(c.A, b, c.F&flagC != 0); c.A = r; c.setZNHC(z, n, h, cy) }},
		{0x90, "SUB", func(c *CPU, b byte) { r, z, n, h, cy := c.sub8(c.A, b); c.A = r; c.setZNHC(z, n, h, cy) }},
		{0x98, "SBC", func(c *CPU, b byte) { r, z, n, h, cy := c.sbc8(c.A, b, c.F&flagC != 0); c.A = r; c.setZNHC(z, n, h, cy) }},
		{0xA0, "AND", func(c *CPU, b byte) { r, z, n, h, cy := c.and8(c.A, b); c.A = r; c.setZNHC(z, n, h, cy) }},
		{0xA8, "XOR", func(c *CPU, b byte) { r, z, n, h, cy := c.xor8(c.A, b); c.A = r; c.setZNHC(z, n, h, cy) }},
		{0xB0, "OR", func(c *CPU, b byte) { r, z, n, h, cy := c.or8(c.A, b); c.A = r; c.setZNHC(z, n, h, cy) }},
		{0xB8, "CP", func(c *CPU, b byte) { z, n, h, cy := c.cp8(c.A, b); c.setZNHC(z, n, h, cy) }},
	}
	for _, alu := range alus {
		fn := alu.fn
		name := alu.name
		for r := byte(0); r < 8; r++ {
			op := alu.base + r
			idx := r
			cycles := 4
			if idx == 6 {
				cycles = 8
			}
			set(op, name+" A,"+regName(idx), 1, cycles, func(c *CPU) int {
				fn(c, regGet(c, idx))
				return cycles
			})
		}
	}
	// Immediate forms share the opcode spacing 0xC6,CE,D6,DE,E6,EE,F6,FE.
	immOps := [8]byte{0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE}
	for i, op := range immOps {
		fn := alus[i].fn
		set(op, alus[i].name+" A,d8", 2, 8, func(c *CPU) int {
			fn(c, c.fetch8())
			return 8
		})
	}

	// Jumps
	set(0xC3, "JP a16", 3, 16, func(c *CPU) int { c.PC = c.fetch16(); return 16 })
	set(0xE9, "JP (HL)", 1, 4, func(c *CPU) int { c.PC = c.getHL(); return 4 })
	set(0x18, "JR r8", 2, 12, func(c *CPU) int {
		off := int8(c.fetch8())
		c.PC = uint16(int32(c.PC) + int32(off))
		return 12
	})

	type cond struct {
		op   byte
		name string
		take func(c *CPU) bool
	}
	jrConds := []cond{
		{0x20, "NZ", func(c *CPU) bool { return c.F&flagZ == 0 }},
		{0x28, "Z", func(c *CPU) bool { return c.F&flagZ != 0 }},
		{0x30, "NC", func(c *CPU) bool { return c.F&flagC == 0 }},
		{0x38, "C", func(c *CPU) bool { return c.F&flagC != 0 }},
	}
	for _, jc := range jrConds {
		take := jc.take
		setBranch(jc.op, "JR "+jc.name+",r8", 2, 8, 12, func(c *CPU) int {
			off := int8(c.fetch8())
			if take(c) {
				c.PC = uint16(int32(c.PC) + int32(off))
				return 12
			}
			return 8
		})
	}
	jpConds := []cond{
		{0xC2, "NZ", func(c *CPU) bool { return c.F&flagZ == 0 }},
		{0xCA, "Z", func(c *CPU) bool { return c.F&flagZ != 0 }},
		{0xD2, "NC", func(c *CPU) bool { return c.F&flagC == 0 }},
		{0xDA, "C", func(c *CPU) bool { return c.F&flagC != 0 }},
	}
	for _, jc := range jpConds {
		take := jc.take
		setBranch(jc.op, "JP "+jc.name+",a16", 3, 12, 16, func(c *CPU) int {
			addr := c.fetch16()
			if take(c) {
				c.PC = addr
				return 16
			}
			return 12
		})
	}
	callConds := []cond{
		{0xC4, "NZ", func(c *CPU) bool { return c.F&flagZ == 0 }},
		{0xCC, "Z", func(c *CPU) bool { return c.F&flagZ != 0 }},
		{0xD4, "NC", func(c *CPU) bool { return c.F&flagC == 0 }},
		{0xDC, "C", func(c *CPU) bool { return c.F&flagC != 0 }},
	}
	for _, jc := range callConds {
		take := jc.take
		setBranch(jc.op, "CALL "+jc.name+",a16", 3, 12, 24, func(c *CPU) int {
			addr := c.fetch16()
			if take(c) {
				c.push16(c.PC)
				c.PC = addr
				return 24
			}
			return 12
		})
	}
	retConds := []cond{
		{0xC0, "NZ", func(c *CPU) bool { return c.F&flagZ == 0 }},
		{0xC8, "Z", func(c *CPU) bool { return c.F&flagZ != 0 }},
		{0xD0, "NC", func(c *CPU) bool { return c.F&flagC == 0 }},
		{0xD8, "C", func(c *CPU) bool { return c.F&flagC != 0 }},
	}
	for _, jc := range retConds {
		take := jc.take
		setBranch(jc.op, "RET "+jc.name, 1, 8, 20, func(c *CPU) int {
			if take(c) {
				c.PC = c.pop16()
				return 20
			}
			return 8
		})
	}

	set(0xCD, "CALL a16", 3, 24, func(c *CPU) int {
		addr := c.fetch16()
		c.push16(c.PC)
		c.PC = addr
		return 24
	})
	set(0xC9, "RET", 1, 16, func(c *CPU) int { c.PC = c.pop16(); return 16 })
	set(0xD9, "RETI", 1, 16, func(c *CPU) int {
		c.PC = c.pop16()
		c.bus.Irqs().IME = true
		return 16
	})

	rstVectors := [8]byte{0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF}
	for i, op := range rstVectors {
		addr := uint16(i) * 8
		set(op, "RST", 1, 16, func(c *CPU) int {
			c.push16(c.PC)
			c.PC = addr
			return 16
		})
	}

	// 16-bit INC/DEC, ADD HL,rr
	set(0x03, "INC BC", 1, 8, func(c *CPU) int { c.setBC(c.getBC() + 1); return 8 })
	set(0x13, "INC DE", 1, 8, func(c *CPU) int { c.setDE(c.getDE() + 1); return 8 })
	set(0x23, "INC HL", 1, 8, func(c *CPU) int { c.setHL(c.getHL() + 1); return 8 })
	set(0x33, "INC SP", 1, 8, func(c *CPU) int { c.SP++; return 8 })
	set(0x0B, "DEC BC", 1, 8, func(c *CPU) int { c.setBC(c.getBC() - 1); return 8 })
	set(0x1B, "DEC DE", 1, 8, func(c *CPU) int { c.setDE(c.getDE() - 1); return 8 })
	set(0x2B, "DEC HL", 1, 8, func(c *CPU) int { c.setHL(c.getHL() - 1); return 8 })
	set(0x3B, "DEC SP", 1, 8, func(c *CPU) int { c.SP--; return 8 })

	addHL := func(get func(*CPU) uint16) func(*CPU) int {
		return func(c *CPU) int {
			hl := c.getHL()
			rhs := get(c)
			r := uint32(hl) + uint32(rhs)
			h := (hl&0x0FFF)+(rhs&0x0FFF) > 0x0FFF
			c.setHL(uint16(r))
			c.setZNHC(c.F&flagZ != 0, false, h, r > 0xFFFF)
			return 8
		}
	}
	set(0x09, "ADD HL,BC", 1, 8, addHL(func(c *CPU) uint16 { return c.getBC() }))
	set(0x19, "ADD HL,DE", 1, 8, addHL(func(c *CPU) uint16 { return c.getDE() }))
	set(0x29, "ADD HL,HL", 1, 8, addHL(func(c *CPU) uint16 { return c.getHL() }))
	set(0x39, "ADD HL,SP", 1, 8, addHL(func(c *CPU) uint16 { return c.SP }))

	set(0xF8, "LD HL,SP+r8", 2, 12, func(c *CPU) int {
		off := int8(c.fetch8())
		low := byte(c.SP)
		_, _, _, h, cy := c.add8(low, byte(off))
		c.setHL(uint16(int32(int16(c.SP)) + int32(off)))
		c.setZNHC(false, false, h, cy)
		return 12
	})
	set(0xF9, "LD SP,HL", 1, 8, func(c *CPU) int { c.SP = c.getHL(); return 8 })
	set(0xE8, "ADD SP,r8", 2, 16, func(c *CPU) int {
		off := int8(c.fetch8())
		low := byte(c.SP)
		_, _, _, h, cy := c.add8(low, byte(off))
		c.SP = uint16(int32(int16(c.SP)) + int32(off))
		c.setZNHC(false, false, h, cy)
		return 16
	})

	set(0xF3, "DI", 1, 4, func(c *CPU) int {
		c.bus.Irqs().IME = false
		c.eiArmed = false
		return 4
	})
	set(0xFB, "EI", 1, 4, func(c *CPU) int { c.eiArmed = true; return 4 })

	// PUSH/POP
	set(0xF5, "PUSH AF", 1, 16, func(c *CPU) int { c.push16(c.getAF()); return 16 })
	set(0xC5, "PUSH BC", 1, 16, func(c *CPU) int { c.push16(c.getBC()); return 16 })
	set(0xD5, "PUSH DE", 1, 16, func(c *CPU) int { c.push16(c.getDE()); return 16 })
	set(0xE5, "PUSH HL", 1, 16, func(c *CPU) int { c.push16(c.getHL()); return 16 })
	set(0xF1, "POP AF", 1, 12, func(c *CPU) int { c.setAF(c.pop16()); return 12 })
	set(0xC1, "POP BC", 1, 12, func(c *CPU) int { c.setBC(c.pop16()); return 12 })
	set(0xD1, "POP DE", 1, 12, func(c *CPU) int { c.setDE(c.pop16()); return 12 })
	set(0xE1, "POP HL", 1, 12, func(c *CPU) int { c.setHL(c.pop16()); return 12 })

	set(0xCB, "PREFIX CB", 1, 4, func(c *CPU) int {
		cb := c.fetch8()
		entry := cbOpcodeTable[cb]
		return 4 + entry.handler(c)
	})
}
