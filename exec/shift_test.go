package exec

import (
	"testing"

	"github.com/retrodos/pccore/mem"
)

// TestShldImm8FillsFromSource covers SHLD Ev,Gv,ib: the dest register is
// shifted left by the immediate count, with the vacated low bits filled
// from the source register's high bits rather than zero.
func TestShldImm8FillsFromSource(t *testing.T) {
	bus := mem.NewFlatBus()
	bus.LoadAt(0, []byte{0x0F, 0xA4, 0xC8, 0x04}) // SHLD AX,CX,4
	inst := parseAt(t, bus, 0, false, false)

	_, h := newHelper(bus)
	h.State.SetReg16(0, 0x0001) // AX (dest)
	h.State.SetReg16(1, 0x8000) // CX (src)

	if err := Execute(inst, h); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := h.State.Reg16(0); got != 0x0018 {
		t.Fatalf("AX = 0x%04X, want 0x0018", got)
	}
	if h.State.CF() {
		t.Fatalf("CF set, want clear")
	}
}

// TestShrdImm8FillsFromSource covers SHRD's mirror direction: the dest is
// shifted right, vacated high bits filled from the source's low bits.
func TestShrdImm8FillsFromSource(t *testing.T) {
	bus := mem.NewFlatBus()
	bus.LoadAt(0, []byte{0x0F, 0xAC, 0xC8, 0x04}) // SHRD AX,CX,4
	inst := parseAt(t, bus, 0, false, false)

	_, h := newHelper(bus)
	h.State.SetReg16(0, 0x8000) // AX (dest)
	h.State.SetReg16(1, 0x000F) // CX (src)

	if err := Execute(inst, h); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := h.State.Reg16(0); got != 0xF800 {
		t.Fatalf("AX = 0x%04X, want 0xF800", got)
	}
	if h.State.CF() {
		t.Fatalf("CF set, want clear")
	}
}

// TestShldCLFormReadsCountFromCL covers the register-count encoding
// (0F A5), which carries no trailing immediate: the shift amount comes
// from CL instead.
func TestShldCLFormReadsCountFromCL(t *testing.T) {
	bus := mem.NewFlatBus()
	bus.LoadAt(0, []byte{0x0F, 0xA5, 0xD0}) // SHLD AX,DX,CL (mod=11 reg=010 rm=000)
	inst := parseAt(t, bus, 0, false, false)

	_, h := newHelper(bus)
	h.State.SetReg16(0, 0x0001) // AX (dest)
	h.State.SetReg16(2, 0x8000) // DX (src)
	h.State.SetReg8(1, 4)       // CL = 4

	if err := Execute(inst, h); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := h.State.Reg16(0); got != 0x0018 {
		t.Fatalf("AX = 0x%04X, want 0x0018", got)
	}
}

// TestShiftDouble16ClampsCountTo16 guards the specific case doubleShiftCount
// masks to 0-31 but the 16-bit path must still not run past its operand
// width: a count of 20 must behave identically to a count of 16 (a full
// replacement by src) rather than computing a meaningless shift amount.
func TestShiftDouble16ClampsCountTo16(t *testing.T) {
	at16, cf16 := shiftDouble16(0x1234, 0x5678, 16, true)
	at20, cf20 := shiftDouble16(0x1234, 0x5678, 20, true)
	if at16 != 0x5678 {
		t.Fatalf("count=16 result = 0x%04X, want 0x5678 (dest fully replaced by src)", at16)
	}
	if at20 != at16 || cf20 != cf16 {
		t.Fatalf("count=20 = (0x%04X,%v), want clamped to the count=16 result (0x%04X,%v)", at20, cf20, at16, cf16)
	}
}
