package exec

import (
	"testing"

	"github.com/retrodos/pccore/mem"
)

// TestEnterLevel0 covers the plain stack-frame case: push BP, no display
// chain, BP set to the frame-temp pointer, SP carved down by the
// allocation size.
func TestEnterLevel0(t *testing.T) {
	bus := mem.NewFlatBus()
	bus.LoadAt(0, []byte{0xC8, 0x10, 0x00, 0x00}) // ENTER 0x0010, 0
	inst := parseAt(t, bus, 0, false, false)

	_, h := newHelper(bus)
	h.State.SetBP(0x2000)
	h.State.SetSP(0x3000)

	if err := Execute(inst, h); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := h.State.BP(); got != 0x2FFE {
		t.Fatalf("BP = 0x%04X, want 0x2FFE", got)
	}
	if got := h.State.SP(); got != 0x2FEE {
		t.Fatalf("SP = 0x%04X, want 0x2FEE", got)
	}
	if got := mem.Read16(bus, uint32(0x2FFE)); got != 0x2000 {
		t.Fatalf("saved BP at frame pointer = 0x%04X, want 0x2000", got)
	}
}

// TestEnterLevel1 covers the one-level display case: BP is pushed, then
// the frame-temp pointer itself is pushed a second time (no chain walk,
// since nesting level 1 has nothing below it to chain to).
func TestEnterLevel1(t *testing.T) {
	bus := mem.NewFlatBus()
	bus.LoadAt(0, []byte{0xC8, 0x10, 0x00, 0x01}) // ENTER 0x0010, 1
	inst := parseAt(t, bus, 0, false, false)

	_, h := newHelper(bus)
	h.State.SetBP(0x2000)
	h.State.SetSP(0x3000)

	if err := Execute(inst, h); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := h.State.BP(); got != 0x2FFE {
		t.Fatalf("BP = 0x%04X, want 0x2FFE", got)
	}
	if got := h.State.SP(); got != 0x2FEC {
		t.Fatalf("SP = 0x%04X, want 0x2FEC (two pushes then the allocation)", got)
	}
	if got := mem.Read16(bus, uint32(0x2FFE)); got != 0x2000 {
		t.Fatalf("saved BP at frame pointer = 0x%04X, want 0x2000", got)
	}
	if got := mem.Read16(bus, uint32(0x2FFC)); got != 0x2FFE {
		t.Fatalf("saved frame-temp pointer = 0x%04X, want 0x2FFE", got)
	}
}

// TestEnterLeaveRoundTrip checks LEAVE exactly undoes ENTER's stack-frame
// setup: SP collapses back to BP, and BP is restored from the saved value.
func TestEnterLeaveRoundTrip(t *testing.T) {
	bus := mem.NewFlatBus()
	bus.LoadAt(0, []byte{0xC8, 0x10, 0x00, 0x00, 0xC9}) // ENTER 0x0010,0 ; LEAVE
	enter := parseAt(t, bus, 0, false, false)

	_, h := newHelper(bus)
	h.State.SetBP(0x2000)
	h.State.SetSP(0x3000)
	if err := Execute(enter, h); err != nil {
		t.Fatalf("Execute ENTER: %v", err)
	}

	leave := parseAt(t, bus, uint16(enter.Length), false, false)
	if err := Execute(leave, h); err != nil {
		t.Fatalf("Execute LEAVE: %v", err)
	}
	if got := h.State.SP(); got != 0x3000 {
		t.Fatalf("SP after LEAVE = 0x%04X, want back to 0x3000", got)
	}
	if got := h.State.BP(); got != 0x2000 {
		t.Fatalf("BP after LEAVE = 0x%04X, want back to 0x2000", got)
	}
}
