package alu

import (
	"testing"

	"github.com/retrodos/pccore/state"
)

// AAA on AX=0x00FA with AF clear must produce AX=0x0100 with AF=1,CF=1,
// ZF=0,SF=0,PF=1 (PF reflects the new AL=0x00, which has even parity).
func TestAAA_SpecVector(t *testing.T) {
	var s state.State
	s.SetAX(0x00FA)
	s.SetFlag(state.FlagAF, false)

	AAA(&s)

	if got := s.AX(); got != 0x0100 {
		t.Fatalf("AX = 0x%04X, want 0x0100", got)
	}
	if !s.AF() {
		t.Error("AF should be set")
	}
	if !s.CF() {
		t.Error("CF should be set")
	}
	if s.ZF() {
		t.Error("ZF should be clear")
	}
	if s.SF() {
		t.Error("SF should be clear")
	}
	if !s.PF() {
		t.Error("PF should be set (AL=0x00 has even parity)")
	}
}

func TestDAA_NoAdjustNeeded(t *testing.T) {
	var s state.State
	s.SetAL(0x99)
	s.SetFlag(state.FlagCF, false)
	s.SetFlag(state.FlagAF, false)

	DAA(&s)

	if s.AL() != 0x99 {
		t.Fatalf("AL = 0x%02X, want 0x99 (unchanged)", s.AL())
	}
	if s.CF() || s.AF() {
		t.Error("CF/AF should remain clear")
	}
}

func TestDAA_CarryCascade(t *testing.T) {
	var s state.State
	s.SetAL(0x9A)
	s.SetFlag(state.FlagCF, false)
	s.SetFlag(state.FlagAF, false)

	DAA(&s)

	if s.AL() != 0x00 {
		t.Fatalf("AL = 0x%02X, want 0x00", s.AL())
	}
	if !s.AF() {
		t.Error("AF should be set")
	}
	if !s.CF() {
		t.Error("CF should be set")
	}
}

func TestAAM_DivideByZero(t *testing.T) {
	var s state.State
	s.SetAL(5)

	if err := AAM(&s, 0); err == nil {
		t.Fatal("expected a divide error for base 0")
	}
}

func TestAAM_Basic(t *testing.T) {
	var s state.State
	s.SetAL(0x1C) // 28 decimal

	if err := AAM(&s, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.AH() != 2 || s.AL() != 8 {
		t.Fatalf("AH:AL = %d:%d, want 2:8", s.AH(), s.AL())
	}
}

func TestParity(t *testing.T) {
	cases := []struct {
		v    byte
		even bool
	}{
		{0x00, true},
		{0x01, false},
		{0x03, true},
		{0xFF, true},
	}
	for _, c := range cases {
		if got := Parity(c.v); got != c.even {
			t.Errorf("Parity(0x%02X) = %v, want %v", c.v, got, c.even)
		}
	}
}
