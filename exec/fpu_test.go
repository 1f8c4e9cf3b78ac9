package exec

import (
	"testing"

	"github.com/retrodos/pccore/mem"
)

// TestFnstcwWritesFixedControlWord covers the m16 destination form: no FPU
// core is modeled, so FNSTCW reports a fixed control word as if a 387 had
// just reset.
func TestFnstcwWritesFixedControlWord(t *testing.T) {
	bus := mem.NewFlatBus()
	bus.LoadAt(0, []byte{0xD9, 0x3E, 0x50, 0x00}) // FNSTCW [0x0050]
	inst := parseAt(t, bus, 0, false, false)

	_, h := newHelper(bus)
	if err := Execute(inst, h); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := mem.Read16(bus, 0x0050); got != stubControlWord {
		t.Fatalf("control word = 0x%04X, want 0x%04X", got, stubControlWord)
	}
}

// TestFnstswAXWritesFixedStatusWord covers the register-direct form (DF
// E0): the status word lands directly in AX, no memory access at all.
func TestFnstswAXWritesFixedStatusWord(t *testing.T) {
	bus := mem.NewFlatBus()
	bus.LoadAt(0, []byte{0xDF, 0xE0})
	inst := parseAt(t, bus, 0, false, false)

	_, h := newHelper(bus)
	h.State.SetAX(0xFFFF)
	if err := Execute(inst, h); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := h.State.AX(); got != stubStatusWord {
		t.Fatalf("AX = 0x%04X, want 0x%04X", got, stubStatusWord)
	}
}

// TestFninitAndFwaitAreNoops confirms both forms leave every register and
// flag untouched: no coprocessor state exists for them to act on.
func TestFninitAndFwaitAreNoops(t *testing.T) {
	bus := mem.NewFlatBus()
	bus.LoadAt(0, []byte{0xDB, 0xE3, 0x9B}) // FNINIT ; FWAIT
	fninit := parseAt(t, bus, 0, false, false)
	fwait := parseAt(t, bus, uint16(fninit.Length), false, false)

	_, h := newHelper(bus)
	h.State.SetAX(0x1234)
	h.State.Flags = 0xABCD

	if err := Execute(fninit, h); err != nil {
		t.Fatalf("Execute FNINIT: %v", err)
	}
	if err := Execute(fwait, h); err != nil {
		t.Fatalf("Execute FWAIT: %v", err)
	}
	if h.State.AX() != 0x1234 || h.State.Flags != 0xABCD {
		t.Fatalf("state changed: AX=0x%04X Flags=0x%08X", h.State.AX(), h.State.Flags)
	}
}
