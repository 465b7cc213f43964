package registers

import "testing"

func TestResetPostBoot(t *testing.T) {
	var r File
	r.ResetPostBoot(false)
	if r.A != 0x01 || r.F != 0xB0 {
		t.Fatalf("AF got %02X%02X want 01B0", r.A, r.F)
	}
	if r.BC() != 0x0013 || r.DE() != 0x00D8 || r.HL() != 0x014D {
		t.Fatalf("BC/DE/HL got %04X/%04X/%04X", r.BC(), r.DE(), r.HL())
	}
	if r.SP != 0xFFFE || r.PC != 0x0100 {
		t.Fatalf("SP/PC got %04X/%04X", r.SP, r.PC)
	}

	r.ResetPostBoot(true)
	if r.A != 0x11 {
		t.Fatalf("GBC A got %02X want 11", r.A)
	}
}

func TestAFLowNibbleAlwaysZero(t *testing.T) {
	var r File
	r.SetAF(0x12FF)
	if r.F&0x0F != 0 {
		t.Fatalf("F low nibble got %02X want 0", r.F&0x0F)
	}
	if r.AF() != 0x12F0 {
		t.Fatalf("AF got %04X want 12F0", r.AF())
	}
}

func TestPairRoundTrip(t *testing.T) {
	var r File
	r.SetBC(0xBEEF)
	if r.BC() != 0xBEEF || r.B != 0xBE || r.C != 0xEF {
		t.Fatalf("BC round-trip failed: %04X", r.BC())
	}
	r.SetDE(0x1234)
	if r.DE() != 0x1234 {
		t.Fatalf("DE round-trip failed")
	}
	r.SetHL(0x3A5B)
	if r.HL() != 0x3A5B || r.H != 0x3A || r.L != 0x5B {
		t.Fatalf("HL round-trip failed")
	}
}

func TestSetFlags(t *testing.T) {
	var r File
	r.SetFlags(true, false, true, false)
	if !r.Flag(FlagZ) || r.Flag(FlagN) || !r.Flag(FlagH) || r.Flag(FlagC) {
		t.Fatalf("flags mismatch: F=%02X", r.F)
	}
	if r.F&0x0F != 0 {
		t.Fatalf("low nibble must be zero, got %02X", r.F)
	}
}
